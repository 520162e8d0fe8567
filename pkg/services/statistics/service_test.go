package statistics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/fadedpez/uno/internal/types"
	"github.com/fadedpez/uno/pkg/entities"
	"github.com/fadedpez/uno/pkg/repositories/game"
	mock_game "github.com/fadedpez/uno/pkg/repositories/game/mock"
)

func newClock(t *testing.T) *quartz.Mock {
	clock := quartz.NewMock(t)
	clock.Set(time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC))
	return clock
}

// TestGetLeaderboard tests the GetLeaderboard method
func TestGetLeaderboard(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := mock_game.NewMockRepository(ctrl)

	testStats := []*entities.PlayerStatistics{
		{PlayerName: "player1", GamesPlayed: 10, GamesWon: 5, WinRate: 0.5},
		{PlayerName: "player2", GamesPlayed: 15, GamesWon: 8, WinRate: 8.0 / 15},
		{PlayerName: "player3", GamesPlayed: 20, GamesWon: 12, WinRate: 0.6},
		{PlayerName: "newcomer"},
	}
	mockRepo.EXPECT().GetAllPlayerStatistics(gomock.Any()).Return(testStats, nil)

	service := NewService(mockRepo, newClock(t))
	leaderboard, err := service.GetLeaderboard(context.Background(), 1, 10)

	require.NoError(t, err)
	assert.Equal(t, 3, leaderboard.TotalPlayers, "Players without games are skipped")
	assert.Equal(t, 1, leaderboard.CurrentPage)
	assert.Equal(t, 1, leaderboard.TotalPages)
	assert.Equal(t, 10, leaderboard.PlayersPerPage)

	// Sorted by wins
	require.Len(t, leaderboard.Players, 3)
	assert.Equal(t, "player3", leaderboard.Players[0].PlayerName)
	assert.Equal(t, "player2", leaderboard.Players[1].PlayerName)
	assert.Equal(t, "player1", leaderboard.Players[2].PlayerName)
	assert.Equal(t, 1, leaderboard.Players[0].Rank)
	assert.Equal(t, 3, leaderboard.Players[2].Rank)

	assert.True(t, leaderboard.Players[0].IsTopWinner)
	assert.True(t, leaderboard.Players[0].IsTopPlayer)
	assert.False(t, leaderboard.Players[1].IsTopPlayer)
}

func TestGetLeaderboardPagination(t *testing.T) {
	repo := game.NewMemoryRepository()
	ctx := context.Background()
	for i, name := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, repo.SavePlayerStatistics(ctx, &entities.PlayerStatistics{
			PlayerName:  name,
			GamesPlayed: 10,
			GamesWon:    5 - i,
		}))
	}
	service := NewService(repo, newClock(t))

	tests := []struct {
		name     string
		page     int
		perPage  int
		wantPage int
		want     []string
	}{
		{name: "first page", page: 1, perPage: 2, wantPage: 1, want: []string{"a", "b"}},
		{name: "last partial page", page: 3, perPage: 2, wantPage: 3, want: []string{"e"}},
		{name: "page past the end clamps", page: 9, perPage: 2, wantPage: 3, want: []string{"e"}},
		{name: "defaults", page: 0, perPage: 0, wantPage: 1, want: []string{"a", "b", "c", "d", "e"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			leaderboard, err := service.GetLeaderboard(ctx, tc.page, tc.perPage)
			require.NoError(t, err)

			names := make([]string, 0, len(leaderboard.Players))
			for _, p := range leaderboard.Players {
				names = append(names, p.PlayerName)
			}
			assert.Equal(t, tc.want, names)
			assert.Equal(t, tc.wantPage, leaderboard.CurrentPage)
		})
	}
}

func TestGetLeaderboardRepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := mock_game.NewMockRepository(ctrl)
	mockRepo.EXPECT().GetAllPlayerStatistics(gomock.Any()).Return(nil, errors.New("disk on fire"))

	_, err := NewService(mockRepo, newClock(t)).GetLeaderboard(context.Background(), 1, 10)

	assert.True(t, types.IsGameError(err, types.ErrDatabaseError))
}

func TestRecordGame(t *testing.T) {
	repo := game.NewMemoryRepository()
	ctx := context.Background()
	clock := newClock(t)
	require.NoError(t, repo.SavePlayerStatistics(ctx, &entities.PlayerStatistics{
		PlayerName:       "alice",
		GamesPlayed:      3,
		GamesWon:         1,
		AverageCardsLeft: 2,
		FavoriteColor:    entities.Red,
		TotalPlayTime:    900,
	}))
	summary := &entities.GameSummary{
		SessionID: "g1",
		Winner:    "p1",
		Players: []entities.FinalScore{
			{PlayerID: "p1", PlayerName: "alice", CardsLeft: 0, FavoriteColor: entities.Blue},
			{PlayerID: "p2", PlayerName: "bob", CardsLeft: 5, FavoriteColor: entities.Green},
		},
		Duration: 4*time.Minute + 30*time.Second,
	}

	updated, err := NewService(repo, clock).RecordGame(ctx, summary)

	require.NoError(t, err)
	require.Len(t, updated, 2)

	alice, err := repo.GetPlayerStatistics(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 4, alice.GamesPlayed)
	assert.Equal(t, 2, alice.GamesWon)
	assert.Equal(t, 0.5, alice.WinRate)
	assert.Equal(t, 1.5, alice.AverageCardsLeft)
	assert.Equal(t, entities.Blue, alice.FavoriteColor)
	assert.Equal(t, int64(1170), alice.TotalPlayTime)
	assert.True(t, clock.Now().Equal(alice.LastUpdated))

	bob, err := repo.GetPlayerStatistics(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, bob.GamesPlayed)
	assert.Equal(t, 0, bob.GamesWon)
	assert.Equal(t, 5.0, bob.AverageCardsLeft, "First game sets the average outright")
	assert.Equal(t, 1, bob.Losses())
}

func TestApplyKeepsFavoriteWithoutColorPlays(t *testing.T) {
	stats := entities.NewPlayerStatistics("carol")
	stats.FavoriteColor = entities.Yellow

	Apply(stats, entities.FinalScore{PlayerName: "carol", CardsLeft: 3, FavoriteColor: entities.Wild}, false, time.Minute)

	assert.Equal(t, entities.Yellow, stats.FavoriteColor)
	assert.Equal(t, int64(60), stats.TotalPlayTime)
	assert.Equal(t, 3.0, stats.AverageCardsLeft)
}

func TestRecordGameSaveError(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := mock_game.NewMockRepository(ctrl)
	mockRepo.EXPECT().GetPlayerStatistics(gomock.Any(), "alice").Return(entities.NewPlayerStatistics("alice"), nil)
	mockRepo.EXPECT().SavePlayerStatistics(gomock.Any(), gomock.Any()).Return(errors.New("locked"))

	summary := &entities.GameSummary{Players: []entities.FinalScore{{PlayerID: "p1", PlayerName: "alice"}}}
	updated, err := NewService(mockRepo, newClock(t)).RecordGame(context.Background(), summary)

	assert.Empty(t, updated)
	assert.True(t, types.IsGameError(err, types.ErrDatabaseError))
}
