package entities

import "time"

// Game status types
type GameStatus string

const (
	StatusWaiting  GameStatus = "waiting"
	StatusPlaying  GameStatus = "playing"
	StatusFinished GameStatus = "finished"
)

const (
	MinPlayers = 2
	MaxPlayers = 4
)

// Session is the complete mutable state of one match
type Session struct {
	ID                 string     `json:"id"`
	Players            []*Player  `json:"players"`
	CurrentPlayerIndex int        `json:"current_player_index"`
	Direction          int        `json:"direction"`
	DrawPile           []*Card    `json:"draw_pile"`
	DiscardPile        []*Card    `json:"discard_pile"`
	ActiveColor        Color      `json:"current_color"`
	Status             GameStatus `json:"game_status"`
	Winner             string     `json:"winner,omitempty"`
	TurnCount          int        `json:"turn_count"`
	TurnStartedAt      time.Time  `json:"turn_start_time"`
	GameStartedAt      time.Time  `json:"game_start_time"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// TopCard returns the active card on the discard pile
func (s *Session) TopCard() *Card {
	if len(s.DiscardPile) == 0 {
		return nil
	}
	return s.DiscardPile[len(s.DiscardPile)-1]
}

// CurrentPlayer returns the player whose turn it is, or nil outside of play
func (s *Session) CurrentPlayer() *Player {
	if s.CurrentPlayerIndex < 0 || s.CurrentPlayerIndex >= len(s.Players) {
		return nil
	}
	return s.Players[s.CurrentPlayerIndex]
}

// Player looks a player up by id
func (s *Session) Player(id string) *Player {
	for _, p := range s.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Opponents returns every player except the one with the given id
func (s *Session) Opponents(id string) []*Player {
	opponents := make([]*Player, 0, len(s.Players))
	for _, p := range s.Players {
		if p.ID != id {
			opponents = append(opponents, p)
		}
	}
	return opponents
}

// Clone returns a deep copy. Cards are immutable so card pointers are shared.
func (s *Session) Clone() *Session {
	c := *s
	c.Players = make([]*Player, len(s.Players))
	for i, p := range s.Players {
		pc := *p
		pc.Hand = cloneCards(p.Hand)
		if p.Stats != nil {
			stats := *p.Stats
			pc.Stats = &stats
		}
		if p.ColorsPlayed != nil {
			pc.ColorsPlayed = make(map[Color]int, len(p.ColorsPlayed))
			for k, v := range p.ColorsPlayed {
				pc.ColorsPlayed[k] = v
			}
		}
		c.Players[i] = &pc
	}
	c.DrawPile = cloneCards(s.DrawPile)
	c.DiscardPile = cloneCards(s.DiscardPile)
	return &c
}

// cloneCards copies a pile. An empty pile stays empty rather than nil so it
// still encodes as [].
func cloneCards(cards []*Card) []*Card {
	if cards == nil {
		return nil
	}
	return append(make([]*Card, 0, len(cards)), cards...)
}

// MoveRecord is emitted after every successful play
type MoveRecord struct {
	SessionID      string    `json:"session_id"`
	PlayerID       string    `json:"player_id"`
	PlayerName     string    `json:"player_name"`
	Card           Card      `json:"card_played"`
	ColorChosen    Color     `json:"color_chosen,omitempty"`
	HandSizeBefore int       `json:"cards_in_hand"`
	TurnDuration   int64     `json:"turn_duration"` // milliseconds
	Timestamp      time.Time `json:"timestamp"`
}

// Outcome is the end-of-game result attached to a learning record
type Outcome struct {
	Won            bool `json:"won"`
	CardsLeftAtEnd int  `json:"cards_left_at_end"`
}

// Score converts an outcome to the value the hard tier averages over
func (o *Outcome) Score() float64 {
	if o.Won {
		return 10
	}
	return -float64(o.CardsLeftAtEnd)
}

// LearningRecord captures one computer decision for the hard tier's history
type LearningRecord struct {
	ID                string     `json:"id"`
	SessionID         string     `json:"game_id"`
	PlayerID          string     `json:"player_id"`
	Difficulty        Difficulty `json:"ai_level"`
	HandSize          int        `json:"cards_in_hand"`
	OpponentHandSizes []int      `json:"opponent_card_counts"`
	ActiveColor       Color      `json:"current_color"`
	TopCard           Card       `json:"top_card"`
	CardPlayed        Card       `json:"card"`
	ColorChosen       Color      `json:"color_chosen,omitempty"`
	Confidence        float64    `json:"confidence"`
	Reasoning         string     `json:"reasoning"`
	Outcome           *Outcome   `json:"outcome,omitempty"`
	Timestamp         time.Time  `json:"timestamp"`
}

// FinalScore is one player's line in a game summary
type FinalScore struct {
	PlayerID      string     `json:"player_id"`
	PlayerName    string     `json:"player_name"`
	CardsLeft     int        `json:"cards_left"`
	IsComputer    bool       `json:"is_ai"`
	Difficulty    Difficulty `json:"ai_level,omitempty"`
	FavoriteColor Color      `json:"favorite_color"`
}

// GameSummary is produced once when a session finishes
type GameSummary struct {
	SessionID   string        `json:"game_id"`
	Winner      string        `json:"winner"`
	WinnerName  string        `json:"winner_name"`
	Players     []FinalScore  `json:"final_scores"`
	Duration    time.Duration `json:"duration"`
	TotalTurns  int           `json:"total_turns"`
	CompletedAt time.Time     `json:"completed_at"`
}

// Summarize builds the final summary of a finished session
func (s *Session) Summarize(completedAt time.Time) *GameSummary {
	summary := &GameSummary{
		SessionID:   s.ID,
		Winner:      s.Winner,
		Players:     make([]FinalScore, 0, len(s.Players)),
		Duration:    completedAt.Sub(s.GameStartedAt),
		TotalTurns:  s.TurnCount,
		CompletedAt: completedAt,
	}
	for _, p := range s.Players {
		if p.ID == s.Winner {
			summary.WinnerName = p.Name
		}
		summary.Players = append(summary.Players, FinalScore{
			PlayerID:      p.ID,
			PlayerName:    p.Name,
			CardsLeft:     len(p.Hand),
			IsComputer:    p.IsComputer,
			Difficulty:    p.Difficulty,
			FavoriteColor: p.FavoriteColor(),
		})
	}
	return summary
}
