// Package uno keeps the directory of live UNO sessions. The Manager serialises
// commands per session, runs computer turns after human commands and fans the
// results out to storage, analytics and notifiers.
package uno

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/fadedpez/uno/internal/logging"
	"github.com/fadedpez/uno/internal/types"
	"github.com/fadedpez/uno/pkg/ai"
	"github.com/fadedpez/uno/pkg/entities"
	"github.com/fadedpez/uno/pkg/notify"
	"github.com/fadedpez/uno/pkg/repositories/game"
	"github.com/fadedpez/uno/pkg/services/statistics"
	engine "github.com/fadedpez/uno/pkg/services/uno"
	"github.com/fadedpez/uno/pkg/storage"
)

// Config wires a Manager. Engine and Storage are required.
type Config struct {
	Engine     *engine.Engine
	Storage    storage.Storage
	Repository game.Repository
	Notifier   notify.Notifier
	Statistics *statistics.Service
	// History is refreshed from Repository when a session starts or finishes
	History *ai.MemoryHistory
	Logger  *logging.Logger
}

// table is one session guarded by its own lock
type table struct {
	mu      sync.Mutex
	session *entities.Session
	// removed is set under mu once the session leaves the directory
	removed bool
}

// Manager manages all active UNO sessions
type Manager struct {
	engine   *engine.Engine
	storage  storage.Storage
	repo     game.Repository
	notifier notify.Notifier
	stats    *statistics.Service
	history  *ai.MemoryHistory
	logger   *logging.Logger

	tables map[string]*table
	mu     sync.RWMutex
}

// NewManager creates a new session manager
func NewManager(cfg Config) *Manager {
	if cfg.Engine == nil {
		panic("engine cannot be nil")
	}
	if cfg.Storage == nil {
		panic("storage cannot be nil")
	}

	m := &Manager{
		engine:   cfg.Engine,
		storage:  cfg.Storage,
		repo:     cfg.Repository,
		notifier: cfg.Notifier,
		stats:    cfg.Statistics,
		history:  cfg.History,
		logger:   cfg.Logger,
		tables:   make(map[string]*table),
	}
	if m.repo == nil {
		m.repo = game.NewMemoryRepository()
	}
	if m.notifier == nil {
		m.notifier = notify.Nop{}
	}
	if m.stats == nil {
		m.stats = statistics.NewService(m.repo, nil)
	}
	if m.logger == nil {
		m.logger = logging.Default
	}
	m.logger = m.logger.With("manager")
	return m
}

// Create opens a new waiting session
func (m *Manager) Create(ctx context.Context) (*entities.Session, error) {
	session := m.engine.Create()

	t := &table{session: session}
	m.mu.Lock()
	m.tables[session.ID] = t
	m.mu.Unlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	m.publish(ctx, session)
	return session.Clone(), nil
}

// Join seats a human player and returns the updated session and the new player
func (m *Manager) Join(ctx context.Context, id, name string) (*entities.Session, *entities.Player, error) {
	t, err := m.lock(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	defer t.mu.Unlock()

	p, err := m.engine.Join(t.session, name)
	if err != nil {
		return nil, nil, err
	}
	m.loadStats(ctx, p)

	m.publish(ctx, t.session)
	snapshot := t.session.Clone()
	return snapshot, snapshot.Player(p.ID), nil
}

// AddComputer seats a computer player of the given difficulty
func (m *Manager) AddComputer(ctx context.Context, id string, difficulty entities.Difficulty) (*entities.Session, *entities.Player, error) {
	t, err := m.lock(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	defer t.mu.Unlock()

	p, err := m.engine.AddComputerPlayer(t.session, difficulty)
	if err != nil {
		return nil, nil, err
	}
	m.loadStats(ctx, p)

	m.publish(ctx, t.session)
	snapshot := t.session.Clone()
	return snapshot, snapshot.Player(p.ID), nil
}

// Start deals the opening hands. If a computer holds the first seat it plays
// until a human is up.
func (m *Manager) Start(ctx context.Context, id string) (*entities.Session, error) {
	t, err := m.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer t.mu.Unlock()

	if err := m.engine.Start(t.session); err != nil {
		return nil, err
	}
	m.refreshHistory(ctx, t.session)

	m.publish(ctx, t.session)
	return m.runComputers(ctx, t.session)
}

// Play applies a card from a human player's hand
func (m *Manager) Play(ctx context.Context, id, playerID, cardID string, color entities.Color) (*entities.Session, error) {
	t, err := m.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer t.mu.Unlock()

	move, err := m.engine.Play(t.session, playerID, cardID, color)
	if err != nil {
		return nil, err
	}
	m.saveMove(ctx, move)

	m.publish(ctx, t.session)
	return m.runComputers(ctx, t.session)
}

// Draw gives a human player one card and passes the turn
func (m *Manager) Draw(ctx context.Context, id, playerID string) (*entities.Session, error) {
	t, err := m.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer t.mu.Unlock()

	if err := m.engine.Draw(t.session, playerID); err != nil {
		return nil, err
	}

	m.publish(ctx, t.session)
	return m.runComputers(ctx, t.session)
}

// Get returns a snapshot of a session
func (m *Manager) Get(ctx context.Context, id string) (*entities.Session, error) {
	t, err := m.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer t.mu.Unlock()

	return t.session.Clone(), nil
}

// Remove drops a session from memory and storage. A command already running
// on the session finishes first.
func (m *Manager) Remove(ctx context.Context, id string) error {
	m.mu.Lock()
	t, inMemory := m.tables[id]
	delete(m.tables, id)
	m.mu.Unlock()

	if inMemory {
		t.mu.Lock()
		t.removed = true
		t.mu.Unlock()
	} else if _, err := m.storage.LoadSession(ctx, id); err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return types.Errorf(types.ErrGameNotFound, "session %s not found", id)
		}
		return types.WrapError(types.ErrDatabaseError, "loading session "+id, err)
	}

	if err := m.storage.DeleteSession(ctx, id); err != nil {
		return types.WrapError(types.ErrDatabaseError, "deleting session "+id, err)
	}
	return nil
}

// CleanupIdle removes every session not updated within maxAge and returns
// their IDs in sorted order.
func (m *Manager) CleanupIdle(ctx context.Context, maxAge time.Duration) ([]string, error) {
	removed, err := m.storage.CleanupOldSessions(ctx, maxAge)
	if err != nil {
		return nil, types.WrapError(types.ErrDatabaseError, "cleaning up stored sessions", err)
	}
	seen := make(map[string]bool, len(removed))
	for _, id := range removed {
		seen[id] = true
	}

	m.mu.RLock()
	tables := make(map[string]*table, len(m.tables))
	for id, t := range m.tables {
		tables[id] = t
	}
	m.mu.RUnlock()

	// Table locks are taken outside the directory lock so a long computer
	// chain on one session does not hold up lookups of the others.
	cutoff := m.engine.Now().Add(-maxAge)
	var dropped []string
	for id, t := range tables {
		t.mu.Lock()
		drop := !t.removed && (seen[id] || t.session.UpdatedAt.Before(cutoff))
		if drop {
			t.removed = true
		}
		t.mu.Unlock()
		if !drop {
			delete(tables, id)
			continue
		}
		dropped = append(dropped, id)
	}

	m.mu.Lock()
	for id, t := range tables {
		if m.tables[id] == t {
			delete(m.tables, id)
		}
	}
	m.mu.Unlock()

	// A command that was running when storage expired the session may have
	// saved it again, so every dropped table loses its snapshot.
	for _, id := range dropped {
		if err := m.storage.DeleteSession(ctx, id); err != nil && !errors.Is(err, storage.ErrSessionNotFound) {
			m.logger.Error("Failed to delete idle session %s: %v", id, err)
		}
		if !seen[id] {
			removed = append(removed, id)
		}
	}

	sort.Strings(removed)
	if len(removed) > 0 {
		m.logger.Info("Cleaned up %d idle sessions", len(removed))
	}
	return removed, nil
}

// Count returns the number of sessions held in memory
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tables)
}

// table finds a session in memory or loads it from storage
func (m *Manager) table(ctx context.Context, id string) (*table, error) {
	m.mu.RLock()
	t, ok := m.tables[id]
	m.mu.RUnlock()
	if ok {
		return t, nil
	}

	session, err := m.storage.LoadSession(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return nil, types.Errorf(types.ErrGameNotFound, "session %s not found", id)
		}
		return nil, types.WrapError(types.ErrDatabaseError, "loading session "+id, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.tables[id]; ok {
		return existing, nil
	}
	t = &table{session: session}
	m.tables[id] = t
	return t, nil
}

// lock returns the session's table with its lock held. Callers unlock.
func (m *Manager) lock(ctx context.Context, id string) (*table, error) {
	t, err := m.table(ctx, id)
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	if t.removed {
		t.mu.Unlock()
		return nil, types.Errorf(types.ErrGameNotFound, "session %s not found", id)
	}
	return t, nil
}

// runComputers plays computer turns after a human command. Every step is
// published like a human command.
func (m *Manager) runComputers(ctx context.Context, session *entities.Session) (*entities.Session, error) {
	_, err := m.engine.RunComputerTurns(session, func(step engine.Step) error {
		if step.Move != nil {
			m.saveMove(ctx, step.Move)
		}
		if step.Learning != nil {
			m.saveLearning(ctx, step.Learning)
		}
		m.publish(ctx, step.Session)
		return ctx.Err()
	})
	if err != nil {
		m.logger.Error("Computer turns in session %s stopped: %v", session.ID, err)
		return session.Clone(), err
	}
	return session.Clone(), nil
}

// publish saves and announces the session after a change. A session that
// just finished is also summarised.
func (m *Manager) publish(ctx context.Context, session *entities.Session) {
	if err := m.storage.SaveSession(ctx, session); err != nil {
		m.logger.Error("Failed to save session %s: %v", session.ID, err)
	}
	if err := m.notifier.SessionUpdated(ctx, session.Clone()); err != nil {
		m.logger.Warn("Failed to notify update of session %s: %v", session.ID, err)
	}
	if session.Status == entities.StatusFinished {
		m.finish(ctx, session)
	}
}

func (m *Manager) finish(ctx context.Context, session *entities.Session) {
	summary := session.Summarize(m.engine.Now())

	if err := m.notifier.GameFinished(ctx, summary); err != nil {
		m.logger.Warn("Failed to announce result of session %s: %v", session.ID, err)
	}
	if err := m.repo.SaveGameSummary(ctx, summary); err != nil {
		m.logger.Error("Failed to save summary of session %s: %v", session.ID, err)
	}

	outcomes := make(map[string]entities.Outcome, len(session.Players))
	for _, p := range session.Players {
		outcomes[p.ID] = entities.Outcome{
			Won:            p.ID == session.Winner,
			CardsLeftAtEnd: len(p.Hand),
		}
	}
	if err := m.repo.ResolveOutcomes(ctx, session.ID, outcomes); err != nil {
		m.logger.Error("Failed to resolve learning outcomes of session %s: %v", session.ID, err)
	}
	m.refreshHistory(ctx, session)

	if _, err := m.stats.RecordGame(ctx, summary); err != nil {
		m.logger.LogError(err)
	}
	m.logger.Info("Session %s finished after %d turns, %s wins", session.ID, summary.TotalTurns, summary.WinnerName)
}

func (m *Manager) saveMove(ctx context.Context, move *entities.MoveRecord) {
	if err := m.repo.SaveMove(ctx, move); err != nil {
		m.logger.Error("Failed to save move in session %s: %v", move.SessionID, err)
	}
}

func (m *Manager) saveLearning(ctx context.Context, record *entities.LearningRecord) {
	if err := m.repo.SaveLearningRecord(ctx, record); err != nil {
		m.logger.Error("Failed to save learning record for session %s: %v", record.SessionID, err)
	}
}

// loadStats replaces a new player's placeholder statistics with recorded ones
func (m *Manager) loadStats(ctx context.Context, p *entities.Player) {
	stats, err := m.repo.GetPlayerStatistics(ctx, p.Name)
	if err != nil {
		m.logger.Warn("Failed to load statistics for %s: %v", p.Name, err)
		return
	}
	if stats != nil && stats.GamesPlayed > 0 {
		p.Stats = stats
	}
}

// refreshHistory reloads learning records for every computer tier seated in session
func (m *Manager) refreshHistory(ctx context.Context, session *entities.Session) {
	if m.history == nil {
		return
	}
	done := make(map[entities.Difficulty]bool)
	for _, p := range session.Players {
		if !p.IsComputer || done[p.Difficulty] {
			continue
		}
		done[p.Difficulty] = true

		records, err := m.repo.GetLearningRecords(ctx, p.Difficulty, ai.HistoryLimit)
		if err != nil {
			m.logger.Warn("Failed to load %s learning history: %v", p.Difficulty, err)
			continue
		}
		m.history.Replace(p.Difficulty, records)
	}
}
