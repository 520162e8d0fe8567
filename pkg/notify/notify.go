package notify

import (
	"context"
	"errors"

	"github.com/fadedpez/uno/internal/discord"
	"github.com/fadedpez/uno/internal/logging"
	"github.com/fadedpez/uno/pkg/entities"
)

// Notifier receives session snapshots after every applied command
type Notifier interface {
	SessionUpdated(ctx context.Context, session *entities.Session) error
	GameFinished(ctx context.Context, summary *entities.GameSummary) error
}

// LogNotifier writes session updates to a logger
type LogNotifier struct {
	logger *logging.Logger
}

// NewLogNotifier creates a notifier that logs at debug level for updates and info for results
func NewLogNotifier(logger *logging.Logger) *LogNotifier {
	if logger == nil {
		logger = logging.Default
	}
	return &LogNotifier{logger: logger.With("notify")}
}

func (n *LogNotifier) SessionUpdated(ctx context.Context, session *entities.Session) error {
	n.logger.Debug("%s", discord.FormatSession(session))
	return nil
}

func (n *LogNotifier) GameFinished(ctx context.Context, summary *entities.GameSummary) error {
	n.logger.Info("Game %s won by %s after %d turns", summary.SessionID, summary.WinnerName, summary.TotalTurns)
	return nil
}

// DiscordNotifier posts session updates and results to a Discord channel
type DiscordNotifier struct {
	session   discord.SessionHandler
	channelID string
}

// NewDiscordNotifier creates a notifier bound to one channel
func NewDiscordNotifier(session discord.SessionHandler, channelID string) *DiscordNotifier {
	return &DiscordNotifier{session: session, channelID: channelID}
}

// SessionUpdated posts the one-line table state
func (n *DiscordNotifier) SessionUpdated(ctx context.Context, session *entities.Session) error {
	return discord.SendMessage(n.session, n.channelID, discord.FormatSession(session))
}

// GameFinished posts the result embed
func (n *DiscordNotifier) GameFinished(ctx context.Context, summary *entities.GameSummary) error {
	return discord.SendEmbed(n.session, n.channelID, discord.NewSummaryEmbed(summary))
}

// Multi fans notifications out to several notifiers. Every notifier is called
// even when an earlier one fails; the errors are joined.
type Multi []Notifier

func (m Multi) SessionUpdated(ctx context.Context, session *entities.Session) error {
	var errs []error
	for _, n := range m {
		if err := n.SessionUpdated(ctx, session); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) GameFinished(ctx context.Context, summary *entities.GameSummary) error {
	var errs []error
	for _, n := range m {
		if err := n.GameFinished(ctx, summary); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards all notifications
type Nop struct{}

func (Nop) SessionUpdated(context.Context, *entities.Session) error   { return nil }
func (Nop) GameFinished(context.Context, *entities.GameSummary) error { return nil }
