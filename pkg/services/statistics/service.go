package statistics

import (
	"context"
	"time"

	"github.com/coder/quartz"

	"github.com/fadedpez/uno/internal/types"
	"github.com/fadedpez/uno/pkg/entities"
	"github.com/fadedpez/uno/pkg/repositories/game"
)

// Service provides methods for recording and ranking player statistics
type Service struct {
	repository game.Repository
	clock      quartz.Clock
}

// NewService creates a new statistics service
func NewService(repository game.Repository, clock quartz.Clock) *Service {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Service{
		repository: repository,
		clock:      clock,
	}
}

// PlayerRank represents a player's statistics with ranking information
type PlayerRank struct {
	*entities.PlayerStatistics
	Rank        int  `json:"rank"`
	IsTopWinner bool `json:"is_top_winner"`
	IsTopPlayer bool `json:"is_top_player"`
}

// Leaderboard represents a paginated leaderboard of player statistics
type Leaderboard struct {
	Players        []*PlayerRank `json:"players"`
	TotalPlayers   int           `json:"total_players"`
	CurrentPage    int           `json:"current_page"`
	TotalPages     int           `json:"total_pages"`
	PlayersPerPage int           `json:"players_per_page"`
	LastUpdated    time.Time     `json:"last_updated"`
}

// RecordGame folds a finished match into every seated player's statistics
// and returns the updated records in seat order.
func (s *Service) RecordGame(ctx context.Context, summary *entities.GameSummary) ([]*entities.PlayerStatistics, error) {
	now := s.clock.Now()
	updated := make([]*entities.PlayerStatistics, 0, len(summary.Players))

	for _, score := range summary.Players {
		stats, err := s.repository.GetPlayerStatistics(ctx, score.PlayerName)
		if err != nil {
			return updated, types.WrapError(types.ErrDatabaseError, "loading statistics for "+score.PlayerName, err)
		}

		Apply(stats, score, score.PlayerID == summary.Winner, summary.Duration)
		stats.LastUpdated = now

		if err := s.repository.SavePlayerStatistics(ctx, stats); err != nil {
			return updated, types.WrapError(types.ErrDatabaseError, "saving statistics for "+score.PlayerName, err)
		}
		updated = append(updated, stats)
	}

	return updated, nil
}

// Apply adds one finished match to stats
func Apply(stats *entities.PlayerStatistics, score entities.FinalScore, won bool, duration time.Duration) {
	previous := float64(stats.GamesPlayed)
	if stats.GamesPlayed == 0 {
		stats.AverageCardsLeft = float64(score.CardsLeft)
	} else {
		stats.AverageCardsLeft = (stats.AverageCardsLeft*previous + float64(score.CardsLeft)) / (previous + 1)
	}

	stats.GamesPlayed++
	if won {
		stats.GamesWon++
	}
	stats.RecalculateWinRate()

	if score.FavoriteColor.IsChromatic() {
		stats.FavoriteColor = score.FavoriteColor
	}
	stats.TotalPlayTime += int64(duration / time.Second)
}

// GetLeaderboard retrieves a paginated leaderboard of players who finished at least one game
func (s *Service) GetLeaderboard(ctx context.Context, page, playersPerPage int) (*Leaderboard, error) {
	// Default values
	if page < 1 {
		page = 1
	}
	if playersPerPage < 1 {
		playersPerPage = 10
	}

	allStats, err := s.repository.GetAllPlayerStatistics(ctx)
	if err != nil {
		return nil, types.WrapError(types.ErrDatabaseError, "loading statistics", err)
	}

	active := make([]*entities.PlayerStatistics, 0, len(allStats))
	for _, stats := range allStats {
		// Skip players with no games
		if stats.GamesPlayed > 0 {
			active = append(active, stats)
		}
	}
	game.SortStatistics(active)

	playerRanks := make([]*PlayerRank, len(active))
	for i, stats := range active {
		playerRanks[i] = &PlayerRank{PlayerStatistics: stats, Rank: i + 1}
	}

	// Mark top winner and most active player
	if len(playerRanks) > 0 {
		playerRanks[0].IsTopWinner = true

		mostGamesIdx := 0
		for i := 1; i < len(playerRanks); i++ {
			if playerRanks[i].GamesPlayed > playerRanks[mostGamesIdx].GamesPlayed {
				mostGamesIdx = i
			}
		}
		playerRanks[mostGamesIdx].IsTopPlayer = true
	}

	// Calculate pagination
	totalPlayers := len(playerRanks)
	totalPages := (totalPlayers + playersPerPage - 1) / playersPerPage
	if page > totalPages && totalPages > 0 {
		page = totalPages
	}

	start := (page - 1) * playersPerPage
	end := start + playersPerPage
	if end > totalPlayers {
		end = totalPlayers
	}

	currentPagePlayers := []*PlayerRank{}
	if start < totalPlayers {
		currentPagePlayers = playerRanks[start:end]
	}

	return &Leaderboard{
		Players:        currentPagePlayers,
		TotalPlayers:   totalPlayers,
		CurrentPage:    page,
		TotalPages:     totalPages,
		PlayersPerPage: playersPerPage,
		LastUpdated:    s.clock.Now(),
	}, nil
}
