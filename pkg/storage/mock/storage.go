package mock

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/fadedpez/uno/pkg/entities"
)

// Storage is a mock implementation of storage.Storage
type Storage struct {
	mock.Mock
}

func New() *Storage {
	return &Storage{}
}

func (s *Storage) SaveSession(ctx context.Context, session *entities.Session) error {
	args := s.Called(ctx, session)
	return args.Error(0)
}

func (s *Storage) LoadSession(ctx context.Context, id string) (*entities.Session, error) {
	args := s.Called(ctx, id)
	if session, ok := args.Get(0).(*entities.Session); ok {
		return session, args.Error(1)
	}
	return nil, args.Error(1)
}

func (s *Storage) DeleteSession(ctx context.Context, id string) error {
	args := s.Called(ctx, id)
	return args.Error(0)
}

func (s *Storage) ListSessions(ctx context.Context) ([]*entities.Session, error) {
	args := s.Called(ctx)
	if sessions, ok := args.Get(0).([]*entities.Session); ok {
		return sessions, args.Error(1)
	}
	return nil, args.Error(1)
}

func (s *Storage) CleanupOldSessions(ctx context.Context, maxAge time.Duration) ([]string, error) {
	args := s.Called(ctx, maxAge)
	if ids, ok := args.Get(0).([]string); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

func (s *Storage) Close() error {
	args := s.Called()
	return args.Error(0)
}
