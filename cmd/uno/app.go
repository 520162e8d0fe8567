package main

import (
	"context"
	"fmt"

	"github.com/coder/quartz"

	"github.com/fadedpez/uno/internal/config"
	"github.com/fadedpez/uno/internal/discord"
	"github.com/fadedpez/uno/internal/logging"
	"github.com/fadedpez/uno/pkg/ai"
	"github.com/fadedpez/uno/pkg/games/uno"
	"github.com/fadedpez/uno/pkg/notify"
	"github.com/fadedpez/uno/pkg/repositories/game"
	"github.com/fadedpez/uno/pkg/services/statistics"
	engine "github.com/fadedpez/uno/pkg/services/uno"
	"github.com/fadedpez/uno/pkg/storage"
	"github.com/fadedpez/uno/pkg/storage/file"
)

// appOptions adjust the stack for one command
type appOptions struct {
	seed          uint64
	memoryStorage bool
	autoCleanup   bool
	discord       bool
}

// app is the wired service stack shared by the commands
type app struct {
	cfg     *config.Config
	logger  *logging.Logger
	clock   quartz.Clock
	storage storage.Storage
	repo    game.Repository
	stats   *statistics.Service
	manager *uno.Manager
	closers []func() error
}

func newApp(ctx context.Context, cfg *config.Config, logger *logging.Logger, opts appOptions) (*app, error) {
	a := &app{cfg: cfg, logger: logger, clock: quartz.NewReal()}

	if err := a.openStorage(opts); err != nil {
		a.Close()
		return nil, err
	}
	if err := a.openRepository(ctx); err != nil {
		a.Close()
		return nil, err
	}
	notifier, err := a.openNotifier(opts)
	if err != nil {
		a.Close()
		return nil, err
	}

	history := ai.NewMemoryHistory()
	engineOpts := []engine.Option{
		engine.WithClock(a.clock),
		engine.WithRegistry(ai.NewDefaultRegistry(history)),
		engine.WithLogger(logger.With("engine")),
		engine.WithMaxComputerSteps(cfg.MaxComputerSteps),
	}
	if opts.seed != 0 {
		engineOpts = append(engineOpts, engine.WithSeed(opts.seed))
	}

	a.stats = statistics.NewService(a.repo, a.clock)
	a.manager = uno.NewManager(uno.Config{
		Engine:     engine.NewEngine(engineOpts...),
		Storage:    a.storage,
		Repository: a.repo,
		Notifier:   notifier,
		Statistics: a.stats,
		History:    history,
		Logger:     logger,
	})
	return a, nil
}

func (a *app) openStorage(opts appOptions) error {
	if opts.memoryStorage || a.cfg.StorageType == config.StorageMemory {
		a.storage = file.NewMemory()
		a.closers = append(a.closers, a.storage.Close)
		return nil
	}

	s, err := file.New(&storage.Options{
		Path:          a.cfg.SessionsPath(),
		MaxSessionAge: a.cfg.SessionMaxAge,
		AutoCleanup:   opts.autoCleanup,
		Clock:         a.clock,
	})
	if err != nil {
		return fmt.Errorf("failed to open session storage: %w", err)
	}
	a.storage = s
	a.closers = append(a.closers, s.Close)
	return nil
}

func (a *app) openRepository(ctx context.Context) error {
	switch a.cfg.AnalyticsType {
	case config.AnalyticsMemory:
		a.repo = game.NewMemoryRepository()
		a.logger.Warn("Using in-memory analytics repository (data will be lost on exit)")
		return nil
	}

	sqliteRepo, err := game.NewSQLiteRepository(a.cfg.SQLitePath)
	if err != nil {
		return fmt.Errorf("failed to open SQLite repository: %w", err)
	}
	a.closers = append(a.closers, sqliteRepo.Close)
	a.repo = sqliteRepo

	if a.cfg.AnalyticsType == config.AnalyticsElasticsearch {
		esConfig := game.DefaultElasticsearchConfig()
		esConfig.URL = a.cfg.Elasticsearch.URL
		esConfig.Username = a.cfg.Elasticsearch.Username
		esConfig.Password = a.cfg.Elasticsearch.Password
		esConfig.IndexPrefix = a.cfg.Elasticsearch.IndexPrefix
		esConfig.Clock = a.clock

		esRepo, err := game.NewElasticsearchRepository(ctx, sqliteRepo, esConfig)
		if err != nil {
			return fmt.Errorf("failed to connect to Elasticsearch: %w", err)
		}
		a.repo = esRepo
		a.logger.Info("Mirroring analytics to Elasticsearch at %s", esConfig.URL)
	}
	return nil
}

func (a *app) openNotifier(opts appOptions) (notify.Notifier, error) {
	notifiers := notify.Multi{notify.NewLogNotifier(a.logger)}
	if !opts.discord || !a.cfg.DiscordEnabled() {
		return notifiers, nil
	}

	session, err := discord.NewSession(a.cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	if err := session.Open(); err != nil {
		return nil, fmt.Errorf("failed to open Discord session: %w", err)
	}
	a.closers = append(a.closers, session.Close)
	a.logger.Info("Posting table updates to Discord channel %s", a.cfg.DiscordChannelID)

	return append(notifiers, notify.NewDiscordNotifier(session, a.cfg.DiscordChannelID)), nil
}

// Close releases everything in reverse order of opening
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("Error during shutdown: %v", err)
		}
	}
	a.closers = nil
}
