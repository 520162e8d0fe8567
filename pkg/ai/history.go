package ai

import (
	"sort"
	"sync"

	"github.com/fadedpez/uno/pkg/entities"
)

// HistoryLimit is how many recent records per difficulty a brain learns from
const HistoryLimit = 1000

// History supplies earlier computer decisions for a difficulty, most recent first
type History interface {
	Records(difficulty entities.Difficulty) []*entities.LearningRecord
}

// MemoryHistory is an in-memory History, refreshed from the analytics repository
type MemoryHistory struct {
	records map[entities.Difficulty][]*entities.LearningRecord
	mu      sync.RWMutex
}

func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{
		records: make(map[entities.Difficulty][]*entities.LearningRecord),
	}
}

// Records returns a copy of the records for difficulty
func (h *MemoryHistory) Records(difficulty entities.Difficulty) []*entities.LearningRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return append([]*entities.LearningRecord(nil), h.records[difficulty]...)
}

// Replace swaps the records held for difficulty
func (h *MemoryHistory) Replace(difficulty entities.Difficulty, records []*entities.LearningRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.records[difficulty] = append([]*entities.LearningRecord(nil), records...)
}

// Add inserts a record, keeping the newest HistoryLimit records
func (h *MemoryHistory) Add(record *entities.LearningRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	records := append(h.records[record.Difficulty], record)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
	if len(records) > HistoryLimit {
		records = records[:HistoryLimit]
	}
	h.records[record.Difficulty] = records
}
