package game

import (
	"context"

	"github.com/fadedpez/uno/pkg/entities"
)

//go:generate mockgen -source=$GOFILE -destination=mock/mock.go -package=mock_game

// Repository defines storage operations for match analytics and computer learning data
type Repository interface {
	// Moves
	SaveMove(ctx context.Context, move *entities.MoveRecord) error
	GetMoves(ctx context.Context, sessionID string) ([]*entities.MoveRecord, error)

	// Learning records, newest first
	SaveLearningRecord(ctx context.Context, record *entities.LearningRecord) error
	GetLearningRecords(ctx context.Context, difficulty entities.Difficulty, limit int) ([]*entities.LearningRecord, error)
	// ResolveOutcomes attaches the final outcome to every record of the session, keyed by player ID
	ResolveOutcomes(ctx context.Context, sessionID string, outcomes map[string]entities.Outcome) error
	// PruneLearningRecords keeps the newest keep records per difficulty and returns how many were removed
	PruneLearningRecords(ctx context.Context, keep int) (int, error)

	// Game summaries, newest first
	SaveGameSummary(ctx context.Context, summary *entities.GameSummary) error
	GetGameSummaries(ctx context.Context, limit int) ([]*entities.GameSummary, error)

	// Player statistics. GetPlayerStatistics returns a zero-game baseline for unknown names.
	GetPlayerStatistics(ctx context.Context, name string) (*entities.PlayerStatistics, error)
	GetAllPlayerStatistics(ctx context.Context) ([]*entities.PlayerStatistics, error)
	SavePlayerStatistics(ctx context.Context, stats *entities.PlayerStatistics) error

	// Close closes any resources used by the repository
	Close() error
}
