package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/coder/quartz"

	"github.com/fadedpez/uno/internal/logging"
	"github.com/fadedpez/uno/pkg/entities"
	"github.com/fadedpez/uno/pkg/storage"
)

// Storage keeps session snapshots in memory and mirrors them to a JSON file
type Storage struct {
	path     string
	mu       sync.RWMutex
	sessions map[string]*entities.Session
	options  *storage.Options
	clock    quartz.Clock
	done     chan struct{}
	once     sync.Once
}

// New creates a new file storage instance
func New(options *storage.Options) (*Storage, error) {
	if options == nil {
		options = storage.NewOptions()
	}
	clock := options.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}

	s := &Storage{
		path:     options.Path,
		sessions: make(map[string]*entities.Session),
		options:  options,
		clock:    clock,
		done:     make(chan struct{}),
	}

	// Load existing sessions from file
	if err := s.load(); err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	if options.AutoCleanup && options.MaxSessionAge > 0 {
		go s.cleanupRoutine()
	}

	return s, nil
}

// NewMemory creates a storage that never touches disk
func NewMemory() *Storage {
	s, _ := New(&storage.Options{})
	return s
}

// SaveSession stores a copy of session
func (s *Storage) SaveSession(ctx context.Context, session *entities.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := session.Clone()
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = s.clock.Now()
	}
	if snapshot.UpdatedAt.IsZero() {
		snapshot.UpdatedAt = snapshot.CreatedAt
	}

	s.sessions[snapshot.ID] = snapshot
	return s.save()
}

// LoadSession returns a copy of the stored session
func (s *Storage) LoadSession(ctx context.Context, id string) (*entities.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrSessionNotFound, id)
	}

	return session.Clone(), nil
}

// DeleteSession deletes a session snapshot
func (s *Storage) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return s.save()
}

// ListSessions lists all sessions, oldest first
func (s *Storage) ListSessions(ctx context.Context) ([]*entities.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]*entities.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session.Clone())
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})

	return sessions, nil
}

// CleanupOldSessions removes sessions not updated within maxAge
func (s *Storage) CleanupOldSessions(ctx context.Context, maxAge time.Duration) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	var removed []string
	for id, session := range s.sessions {
		if now.Sub(session.UpdatedAt) > maxAge {
			delete(s.sessions, id)
			removed = append(removed, id)
		}
	}
	if len(removed) == 0 {
		return nil, nil
	}
	sort.Strings(removed)

	return removed, s.save()
}

// Close stops the cleanup routine
func (s *Storage) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}

// Helper functions

func (s *Storage) load() error {
	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	return json.Unmarshal(data, &s.sessions)
}

func (s *Storage) save() error {
	if s.path == "" {
		return nil
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.Marshal(s.sessions)
	if err != nil {
		return fmt.Errorf("failed to marshal sessions: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

func (s *Storage) cleanupRoutine() {
	ticker := s.clock.NewTicker(s.options.MaxSessionAge/4, "storage", "cleanup")
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			removed, err := s.CleanupOldSessions(context.Background(), s.options.MaxSessionAge)
			if err != nil {
				logging.Default.Error("Error cleaning up old sessions: %v", err)
				continue
			}
			if len(removed) > 0 {
				logging.Default.Info("Removed %d stale sessions", len(removed))
			}
		}
	}
}
