package entities

import "time"

// PlayerStatistics represents aggregated statistics for a player across UNO games.
// Informational only; no rule reads it.
type PlayerStatistics struct {
	PlayerName       string    `json:"player_name"`
	GamesPlayed      int       `json:"games_played"`
	GamesWon         int       `json:"games_won"`
	WinRate          float64   `json:"win_rate"`
	AverageCardsLeft float64   `json:"average_cards_left"`
	FavoriteColor    Color     `json:"favorite_color"`
	TotalPlayTime    int64     `json:"total_play_time"` // seconds
	LastUpdated      time.Time `json:"last_updated"`
}

// NewPlayerStatistics returns the baseline record for a brand new player
func NewPlayerStatistics(name string) *PlayerStatistics {
	return &PlayerStatistics{
		PlayerName:       name,
		AverageCardsLeft: StartingHand,
		FavoriteColor:    DefaultColor,
	}
}

// Losses returns the number of games the player did not win
func (s *PlayerStatistics) Losses() int {
	return s.GamesPlayed - s.GamesWon
}

// RecalculateWinRate refreshes WinRate from the game counters
func (s *PlayerStatistics) RecalculateWinRate() {
	if s.GamesPlayed == 0 {
		s.WinRate = 0
		return
	}
	s.WinRate = float64(s.GamesWon) / float64(s.GamesPlayed)
}
