package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fadedpez/uno/pkg/entities"
	"github.com/fadedpez/uno/pkg/services/statistics"
)

type StatsCmd struct {
	Page    int `default:"1" help:"Leaderboard page"`
	PerPage int `default:"10" help:"Players per page"`
	Recent  int `default:"5" help:"Recent match results to list (0 to skip)"`
}

func (c *StatsCmd) Run(g *Globals) error {
	cfg, logger, err := g.load("warn")
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := newApp(ctx, cfg, logger, appOptions{memoryStorage: true})
	if err != nil {
		return err
	}
	defer a.Close()

	leaderboard, err := a.stats.GetLeaderboard(ctx, c.Page, c.PerPage)
	if err != nil {
		return err
	}
	printLeaderboard(os.Stdout, leaderboard)

	if c.Recent > 0 {
		summaries, err := a.repo.GetGameSummaries(ctx, c.Recent)
		if err != nil {
			return err
		}
		printSummaries(os.Stdout, summaries)
	}
	return nil
}

func printLeaderboard(w io.Writer, leaderboard *statistics.Leaderboard) {
	if leaderboard.TotalPlayers == 0 {
		fmt.Fprintln(w, "No games recorded yet.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tPLAYER\tGAMES\tWINS\tWIN RATE\tAVG CARDS LEFT\tFAVORITE")
	for _, p := range leaderboard.Players {
		name := p.PlayerName
		if p.IsTopWinner {
			name += " 🏆"
		}
		if p.IsTopPlayer {
			name += " 🎮"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%.1f%%\t%.1f\t%s\n",
			p.Rank, name, p.GamesPlayed, p.GamesWon, p.WinRate*100, p.AverageCardsLeft, p.FavoriteColor)
	}
	tw.Flush()
	fmt.Fprintf(w, "Page %d of %d (%d players)\n", leaderboard.CurrentPage, leaderboard.TotalPages, leaderboard.TotalPlayers)
}

func printSummaries(w io.Writer, summaries []*entities.GameSummary) {
	if len(summaries) == 0 {
		return
	}
	fmt.Fprintln(w, "\nRecent matches:")
	for _, s := range summaries {
		fmt.Fprintf(w, "  %s  %s won in %d turns (%s)\n",
			s.CompletedAt.Local().Format("2006-01-02 15:04"), s.WinnerName, s.TotalTurns, s.Duration.Round(time.Second))
	}
}
