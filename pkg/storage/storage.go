package storage

import (
	"context"
	"errors"
	"time"

	"github.com/coder/quartz"

	"github.com/fadedpez/uno/pkg/entities"
)

// Common storage errors
var (
	ErrSessionNotFound = errors.New("session not found")
)

// Storage defines the interface for session snapshot persistence
type Storage interface {
	// SaveSession saves or replaces a session snapshot
	SaveSession(ctx context.Context, session *entities.Session) error

	// LoadSession loads a session snapshot by ID
	LoadSession(ctx context.Context, id string) (*entities.Session, error)

	// DeleteSession deletes a session snapshot
	DeleteSession(ctx context.Context, id string) error

	// ListSessions lists all session snapshots
	ListSessions(ctx context.Context) ([]*entities.Session, error)

	// CleanupOldSessions removes sessions not updated within maxAge and returns their IDs
	CleanupOldSessions(ctx context.Context, maxAge time.Duration) ([]string, error)

	Close() error
}

// Options represents storage configuration options
type Options struct {
	// Path of the JSON file sessions are mirrored to. Empty keeps them in memory only.
	Path          string
	MaxSessionAge time.Duration
	AutoCleanup   bool
	Clock         quartz.Clock
}

// NewOptions creates a new Options with default values
func NewOptions() *Options {
	return &Options{
		Path:          "sessions.json",
		MaxSessionAge: 24 * time.Hour,
		AutoCleanup:   true,
		Clock:         quartz.NewReal(),
	}
}
