package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fadedpez/uno/internal/discord"
	"github.com/fadedpez/uno/pkg/entities"
	"github.com/fadedpez/uno/pkg/games/uno"
	"github.com/fadedpez/uno/pkg/rules"
)

type PlayCmd struct {
	Name      string   `default:"player" help:"Your name at the table"`
	Opponents []string `default:"medium" sep:"," help:"Computer opponent difficulties (1-3)"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, logger, err := g.load("warn")
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := newApp(ctx, cfg, logger, appOptions{autoCleanup: true})
	if err != nil {
		return err
	}
	defer a.Close()

	return play(ctx, a.manager, c.Name, c.Opponents, os.Stdin, os.Stdout)
}

// move is one parsed line of terminal input
type move struct {
	quit  bool
	draw  bool
	card  int
	color entities.Color
}

// parseMove reads "d" to draw, "q" to quit or a card number with an optional
// color for wild cards, e.g. "3 blue".
func parseMove(line string) (move, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return move{}, fmt.Errorf("enter a card number, d to draw or q to quit")
	}

	switch fields[0] {
	case "q", "quit":
		return move{quit: true}, nil
	case "d", "draw":
		return move{draw: true}, nil
	}

	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 1 {
		return move{}, fmt.Errorf("%q is not a card number", fields[0])
	}
	m := move{card: n - 1}
	if len(fields) > 1 {
		m.color = entities.Color(fields[1])
		if !m.color.IsChromatic() {
			return move{}, fmt.Errorf("%q is not a color, use red, blue, green or yellow", fields[1])
		}
	}
	return m, nil
}

func play(ctx context.Context, manager *uno.Manager, name string, opponents []string, in io.Reader, out io.Writer) error {
	if len(opponents) < 1 || len(opponents) > entities.MaxPlayers-1 {
		return fmt.Errorf("choose between 1 and %d opponents", entities.MaxPlayers-1)
	}

	session, err := manager.Create(ctx)
	if err != nil {
		return err
	}
	defer manager.Remove(ctx, session.ID)

	_, me, err := manager.Join(ctx, session.ID, name)
	if err != nil {
		return err
	}
	for _, d := range opponents {
		if _, _, err := manager.AddComputer(ctx, session.ID, entities.Difficulty(d)); err != nil {
			return err
		}
	}
	if session, err = manager.Start(ctx, session.ID); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for session.Status == entities.StatusPlaying {
		render(out, session, me.ID)
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		m, err := parseMove(scanner.Text())
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}

		var next *entities.Session
		hand := session.Player(me.ID).Hand
		switch {
		case m.quit:
			fmt.Fprintln(out, "Table abandoned.")
			return nil
		case m.draw:
			next, err = manager.Draw(ctx, session.ID, me.ID)
		case m.card >= len(hand):
			fmt.Fprintf(out, "You only hold %d cards\n", len(hand))
			continue
		default:
			next, err = manager.Play(ctx, session.ID, me.ID, hand[m.card].ID, m.color)
		}

		if next != nil {
			session = next
		}
		if err != nil {
			fmt.Fprintln(out, discord.FormatError(err))
		}
	}

	fmt.Fprintln(out, discord.FormatSession(session))
	return nil
}

// render prints the table from one player's seat
func render(out io.Writer, session *entities.Session, playerID string) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, discord.FormatSession(session))
	for _, p := range session.Opponents(playerID) {
		fmt.Fprintf(out, "  %s holds %d cards\n", p.Name, len(p.Hand))
	}

	me := session.Player(playerID)
	fmt.Fprintln(out, "Your hand:")
	for i, c := range me.Hand {
		marker := " "
		if rules.IsPlayable(c, session.TopCard(), session.ActiveColor) {
			marker = "*"
		}
		fmt.Fprintf(out, " %s%2d) %s\n", marker, i+1, discord.FormatCard(c))
	}
}
