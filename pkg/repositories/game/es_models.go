package game

import (
	"time"

	"github.com/fadedpez/uno/pkg/entities"
)

// ESGameSummary represents a finished match document in Elasticsearch
type ESGameSummary struct {
	GameID      string         `json:"game_id"`
	Winner      string         `json:"winner"`
	WinnerName  string         `json:"winner_name"`
	Players     []ESFinalScore `json:"players"`
	DurationMS  int64          `json:"duration_ms"`
	TotalTurns  int            `json:"total_turns"`
	CompletedAt time.Time      `json:"completed_at"`
}

// ESFinalScore represents one seat's result inside ESGameSummary
type ESFinalScore struct {
	PlayerID      string `json:"player_id"`
	PlayerName    string `json:"player_name"`
	CardsLeft     int    `json:"cards_left"`
	IsComputer    bool   `json:"is_computer"`
	Difficulty    string `json:"difficulty,omitempty"`
	FavoriteColor string `json:"favorite_color"`
	Won           bool   `json:"won"`
}

// ESMove represents a single card play in Elasticsearch
type ESMove struct {
	GameID         string    `json:"game_id"`
	PlayerID       string    `json:"player_id"`
	PlayerName     string    `json:"player_name"`
	Color          string    `json:"color"`
	Kind           string    `json:"kind"`
	Value          int       `json:"value"`
	ColorChosen    string    `json:"color_chosen,omitempty"`
	CardsInHand    int       `json:"cards_in_hand"`
	TurnDurationMS int64     `json:"turn_duration_ms"`
	Timestamp      time.Time `json:"timestamp"`
}

func newESGameSummary(summary *entities.GameSummary) ESGameSummary {
	doc := ESGameSummary{
		GameID:      summary.SessionID,
		Winner:      summary.Winner,
		WinnerName:  summary.WinnerName,
		Players:     make([]ESFinalScore, 0, len(summary.Players)),
		DurationMS:  summary.Duration.Milliseconds(),
		TotalTurns:  summary.TotalTurns,
		CompletedAt: summary.CompletedAt,
	}
	for _, p := range summary.Players {
		doc.Players = append(doc.Players, ESFinalScore{
			PlayerID:      p.PlayerID,
			PlayerName:    p.PlayerName,
			CardsLeft:     p.CardsLeft,
			IsComputer:    p.IsComputer,
			Difficulty:    string(p.Difficulty),
			FavoriteColor: string(p.FavoriteColor),
			Won:           p.PlayerID == summary.Winner,
		})
	}
	return doc
}

func (d ESGameSummary) toEntity() *entities.GameSummary {
	summary := &entities.GameSummary{
		SessionID:   d.GameID,
		Winner:      d.Winner,
		WinnerName:  d.WinnerName,
		Players:     make([]entities.FinalScore, 0, len(d.Players)),
		Duration:    time.Duration(d.DurationMS) * time.Millisecond,
		TotalTurns:  d.TotalTurns,
		CompletedAt: d.CompletedAt,
	}
	for _, p := range d.Players {
		summary.Players = append(summary.Players, entities.FinalScore{
			PlayerID:      p.PlayerID,
			PlayerName:    p.PlayerName,
			CardsLeft:     p.CardsLeft,
			IsComputer:    p.IsComputer,
			Difficulty:    entities.Difficulty(p.Difficulty),
			FavoriteColor: entities.Color(p.FavoriteColor),
		})
	}
	return summary
}

func newESMove(move *entities.MoveRecord) ESMove {
	return ESMove{
		GameID:         move.SessionID,
		PlayerID:       move.PlayerID,
		PlayerName:     move.PlayerName,
		Color:          string(move.Card.Color),
		Kind:           string(move.Card.Kind),
		Value:          move.Card.Value,
		ColorChosen:    string(move.ColorChosen),
		CardsInHand:    move.HandSizeBefore,
		TurnDurationMS: move.TurnDuration,
		Timestamp:      move.Timestamp,
	}
}
