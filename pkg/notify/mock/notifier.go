package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/fadedpez/uno/pkg/entities"
)

// Notifier is a mock implementation of notify.Notifier
type Notifier struct {
	mock.Mock
}

func (n *Notifier) SessionUpdated(ctx context.Context, session *entities.Session) error {
	args := n.Called(ctx, session)
	return args.Error(0)
}

func (n *Notifier) GameFinished(ctx context.Context, summary *entities.GameSummary) error {
	args := n.Called(ctx, summary)
	return args.Error(0)
}
