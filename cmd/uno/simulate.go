package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"text/tabwriter"

	"golang.org/x/sync/errgroup"

	"github.com/fadedpez/uno/pkg/entities"
	"github.com/fadedpez/uno/pkg/games/uno"
)

type SimulateCmd struct {
	Games      int      `default:"100" help:"Number of matches to play"`
	Players    int      `default:"2" help:"Computer players per match (2-4)"`
	Difficulty []string `default:"easy,medium,hard" sep:"," help:"Difficulties to rotate through the seats"`
	Workers    int      `default:"4" help:"Matches played concurrently"`
	Seed       uint64   `default:"0" help:"RNG seed (0 for random)"`
}

// tierResult tallies the seats one difficulty held
type tierResult struct {
	Seats int
	Wins  int
}

// simulation accumulates finished matches from concurrent workers
type simulation struct {
	mu       sync.Mutex
	games    int
	turns    int
	byTier   map[entities.Difficulty]*tierResult
	failures int
}

func (s *simulation) record(session *entities.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.games++
	s.turns += session.TurnCount
	for _, p := range session.Players {
		tier := s.byTier[p.Difficulty]
		if tier == nil {
			tier = &tierResult{}
			s.byTier[p.Difficulty] = tier
		}
		tier.Seats++
		if p.ID == session.Winner {
			tier.Wins++
		}
	}
}

func (s *simulation) fail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures++
}

func (c *SimulateCmd) validate() ([]entities.Difficulty, error) {
	if c.Games < 1 {
		return nil, fmt.Errorf("--games must be at least 1")
	}
	if c.Players < entities.MinPlayers || c.Players > entities.MaxPlayers {
		return nil, fmt.Errorf("--players must be between %d and %d", entities.MinPlayers, entities.MaxPlayers)
	}
	if c.Workers < 1 {
		c.Workers = 1
	}

	tiers := make([]entities.Difficulty, 0, len(c.Difficulty))
	for _, d := range c.Difficulty {
		tier := entities.Difficulty(d)
		if !tier.IsValid() {
			return nil, fmt.Errorf("unknown difficulty %q", d)
		}
		tiers = append(tiers, tier)
	}
	if len(tiers) == 0 {
		return nil, fmt.Errorf("at least one difficulty is required")
	}
	return tiers, nil
}

func (c *SimulateCmd) Run(g *Globals) error {
	tiers, err := c.validate()
	if err != nil {
		return err
	}
	cfg, logger, err := g.load("warn")
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := newApp(ctx, cfg, logger, appOptions{seed: c.Seed, memoryStorage: true})
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := simulate(ctx, a.manager, c.Games, c.Players, c.Workers, tiers)
	if err != nil {
		return err
	}
	result.print(os.Stdout)
	return nil
}

// simulate plays games computer-only matches. Seats rotate through tiers so
// every difficulty sits in every position.
func simulate(ctx context.Context, manager *uno.Manager, games, players, workers int, tiers []entities.Difficulty) (*simulation, error) {
	result := &simulation{byTier: make(map[entities.Difficulty]*tierResult)}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < games; i++ {
		g.Go(func() error {
			session, err := manager.Create(ctx)
			if err != nil {
				return err
			}
			for seat := 0; seat < players; seat++ {
				tier := tiers[(i+seat)%len(tiers)]
				if _, _, err := manager.AddComputer(ctx, session.ID, tier); err != nil {
					return err
				}
			}

			// A match that hits the step bound still returns its session
			finished, err := manager.Start(ctx, session.ID)
			if finished == nil {
				return fmt.Errorf("match %d: %w", i+1, err)
			}
			if err != nil || finished.Status != entities.StatusFinished {
				result.fail()
			} else {
				result.record(finished)
			}
			return manager.Remove(ctx, session.ID)
		})
	}

	if err := g.Wait(); err != nil {
		return result, err
	}
	return result, nil
}

func (s *simulation) print(w io.Writer) {
	fmt.Fprintf(w, "Played %d matches", s.games)
	if s.games > 0 {
		fmt.Fprintf(w, ", %.1f turns on average", float64(s.turns)/float64(s.games))
	}
	if s.failures > 0 {
		fmt.Fprintf(w, ", %d unfinished", s.failures)
	}
	fmt.Fprintln(w)

	tiers := make([]entities.Difficulty, 0, len(s.byTier))
	for tier := range s.byTier {
		tiers = append(tiers, tier)
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i] < tiers[j] })

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DIFFICULTY\tSEATS\tWINS\tWIN RATE")
	for _, tier := range tiers {
		r := s.byTier[tier]
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f%%\n", tier, r.Seats, r.Wins, 100*float64(r.Wins)/float64(r.Seats))
	}
	tw.Flush()
}
