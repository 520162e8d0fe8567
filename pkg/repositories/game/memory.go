package game

import (
	"context"
	"sort"
	"sync"

	"github.com/fadedpez/uno/pkg/entities"
)

// MemoryRepository implements Repository interface with in-memory storage
type MemoryRepository struct {
	mu sync.RWMutex
	// Map of sessionID to moves in play order
	moves map[string][]*entities.MoveRecord
	// Learning records in insertion order
	learning []*entities.LearningRecord
	// Map of sessionID to summary
	summaries map[string]*entities.GameSummary
	// Map of player name to statistics
	stats map[string]*entities.PlayerStatistics
}

// NewMemoryRepository creates a new in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		moves:     make(map[string][]*entities.MoveRecord),
		summaries: make(map[string]*entities.GameSummary),
		stats:     make(map[string]*entities.PlayerStatistics),
	}
}

// SaveMove appends a move to its session's history
func (r *MemoryRepository) SaveMove(ctx context.Context, move *entities.MoveRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := *move
	r.moves[move.SessionID] = append(r.moves[move.SessionID], &m)
	return nil
}

// GetMoves retrieves the moves of a session in play order
func (r *MemoryRepository) GetMoves(ctx context.Context, sessionID string) ([]*entities.MoveRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	moves := make([]*entities.MoveRecord, 0, len(r.moves[sessionID]))
	for _, m := range r.moves[sessionID] {
		move := *m
		moves = append(moves, &move)
	}
	return moves, nil
}

// SaveLearningRecord stores a computer decision
func (r *MemoryRepository) SaveLearningRecord(ctx context.Context, record *entities.LearningRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.learning = append(r.learning, copyRecord(record))
	return nil
}

// GetLearningRecords returns up to limit records for a difficulty, newest first
func (r *MemoryRepository) GetLearningRecords(ctx context.Context, difficulty entities.Difficulty, limit int) ([]*entities.LearningRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []*entities.LearningRecord
	for _, rec := range newestFirst(r.learning) {
		if rec.Difficulty != difficulty {
			continue
		}
		records = append(records, copyRecord(rec))
		if limit > 0 && len(records) == limit {
			break
		}
	}
	return records, nil
}

// ResolveOutcomes attaches outcomes to the session's records
func (r *MemoryRepository) ResolveOutcomes(ctx context.Context, sessionID string, outcomes map[string]entities.Outcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.learning {
		if rec.SessionID != sessionID {
			continue
		}
		if outcome, ok := outcomes[rec.PlayerID]; ok {
			o := outcome
			rec.Outcome = &o
		}
	}
	return nil
}

// PruneLearningRecords keeps the newest keep records of each difficulty
func (r *MemoryRepository) PruneLearningRecords(ctx context.Context, keep int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[entities.Difficulty]int)
	kept := make(map[*entities.LearningRecord]bool)
	for _, rec := range newestFirst(r.learning) {
		if seen[rec.Difficulty] < keep {
			kept[rec] = true
		}
		seen[rec.Difficulty]++
	}

	remaining := r.learning[:0]
	removed := 0
	for _, rec := range r.learning {
		if kept[rec] {
			remaining = append(remaining, rec)
		} else {
			removed++
		}
	}
	r.learning = remaining
	return removed, nil
}

// SaveGameSummary stores a finished match summary
func (r *MemoryRepository) SaveGameSummary(ctx context.Context, summary *entities.GameSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := *summary
	s.Players = append([]entities.FinalScore(nil), summary.Players...)
	r.summaries[summary.SessionID] = &s
	return nil
}

// GetGameSummaries returns up to limit summaries, newest first
func (r *MemoryRepository) GetGameSummaries(ctx context.Context, limit int) ([]*entities.GameSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summaries := make([]*entities.GameSummary, 0, len(r.summaries))
	for _, s := range r.summaries {
		summary := *s
		summaries = append(summaries, &summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CompletedAt.After(summaries[j].CompletedAt)
	})
	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

// GetPlayerStatistics retrieves statistics for a player
func (r *MemoryRepository) GetPlayerStatistics(ctx context.Context, name string) (*entities.PlayerStatistics, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats, ok := r.stats[name]
	if !ok {
		return entities.NewPlayerStatistics(name), nil
	}
	s := *stats
	return &s, nil
}

// GetAllPlayerStatistics retrieves statistics for all players, most wins first
func (r *MemoryRepository) GetAllPlayerStatistics(ctx context.Context) ([]*entities.PlayerStatistics, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*entities.PlayerStatistics, 0, len(r.stats))
	for _, stats := range r.stats {
		s := *stats
		all = append(all, &s)
	}
	SortStatistics(all)
	return all, nil
}

// SavePlayerStatistics replaces the statistics for a player
func (r *MemoryRepository) SavePlayerStatistics(ctx context.Context, stats *entities.PlayerStatistics) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := *stats
	r.stats[stats.PlayerName] = &s
	return nil
}

// Close is a no-op for memory repository
func (r *MemoryRepository) Close() error {
	return nil
}

// SortStatistics orders statistics by wins, then win rate, then name
func SortStatistics(all []*entities.PlayerStatistics) {
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].GamesWon != all[j].GamesWon {
			return all[i].GamesWon > all[j].GamesWon
		}
		if all[i].WinRate != all[j].WinRate {
			return all[i].WinRate > all[j].WinRate
		}
		return all[i].PlayerName < all[j].PlayerName
	})
}

func newestFirst(records []*entities.LearningRecord) []*entities.LearningRecord {
	sorted := make([]*entities.LearningRecord, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		sorted = append(sorted, records[i])
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	return sorted
}

func copyRecord(rec *entities.LearningRecord) *entities.LearningRecord {
	c := *rec
	c.OpponentHandSizes = append([]int(nil), rec.OpponentHandSizes...)
	if rec.Outcome != nil {
		o := *rec.Outcome
		c.Outcome = &o
	}
	return &c
}
