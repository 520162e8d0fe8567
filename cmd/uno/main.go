package main

import (
	"github.com/alecthomas/kong"

	"github.com/fadedpez/uno/internal/config"
	"github.com/fadedpez/uno/internal/logging"
)

// version is set by ldflags during build
var version = "dev"

// Globals are the flags shared by every command
type Globals struct {
	LogLevel string `help:"Override LOG_LEVEL (debug, info, warn, error)"`
}

// load reads the configuration and builds the root logger
func (g *Globals) load(fallbackLevel string) (*config.Config, *logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	level := cfg.LogLevel
	if g.LogLevel != "" {
		level = g.LogLevel
	} else if fallbackLevel != "" {
		level = fallbackLevel
	}
	logger := logging.NewLogger(logging.ParseLevel(level))
	logging.Default = logger
	return cfg, logger, nil
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Simulate SimulateCmd      `cmd:"" help:"Run computer-only matches and report win rates per difficulty"`
	Play     PlayCmd          `cmd:"" help:"Play an interactive match against computer opponents"`
	Serve    ServeCmd         `cmd:"" help:"Serve JSON-lines commands on stdin/stdout"`
	Stats    StatsCmd         `cmd:"" help:"Show the player leaderboard"`
	Migrate  MigrateCmd       `cmd:"" help:"Apply SQLite migrations or create a new one"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("uno"),
		kong.Description("UNO rule engine with computer opponents"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
