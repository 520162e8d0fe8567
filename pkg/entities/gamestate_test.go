package entities

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession() *Session {
	deck := NewDeck()
	alice := NewPlayer("alice")
	bot := NewComputerPlayer("Rookie Bot", Easy)
	alice.AddCards(deck.Draw(3)...)
	bot.AddCards(deck.Draw(2)...)
	bot.ColorsPlayed = map[Color]int{Green: 2}

	return &Session{
		ID:          "session-1",
		Players:     []*Player{alice, bot},
		Direction:   1,
		DiscardPile: deck.Draw(1),
		DrawPile:    deck.Cards,
		ActiveColor: Red,
		Status:      StatusPlaying,
	}
}

func TestSessionClone(t *testing.T) {
	s := newTestSession()

	c := s.Clone()
	c.Players[0].Hand = c.Players[0].Hand[:1]
	c.Players[1].ColorsPlayed[Green] = 5
	c.Players[1].Stats.GamesPlayed = 99
	c.DrawPile = c.DrawPile[1:]

	assert.Len(t, s.Players[0].Hand, 3, "Clone must not alias hands")
	assert.Equal(t, 2, s.Players[1].ColorsPlayed[Green], "Clone must not alias counters")
	assert.Equal(t, 0, s.Players[1].Stats.GamesPlayed, "Clone must not alias statistics")
	assert.Len(t, s.DrawPile, DeckSize-6)
}

func TestSessionCloneKeepsEmptyHands(t *testing.T) {
	s := newTestSession()
	s.Players = append(s.Players, NewPlayer("carol"))
	s.Players[0].Hand = s.Players[0].Hand[:0]

	c := s.Clone()

	assert.Equal(t, s, c)
	assert.NotNil(t, c.Players[2].Hand, "A player who just joined holds an empty hand")
	assert.NotNil(t, c.Players[0].Hand, "A winner's empty hand is still a hand")

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"cards":[]`)
	assert.NotContains(t, string(data), `"cards":null`)

	var loaded Session
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, s, &loaded)
}

func TestSessionJSONRoundTrip(t *testing.T) {
	s := newTestSession()
	s.TurnStartedAt = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var loaded Session
	require.NoError(t, json.Unmarshal(data, &loaded))

	assert.Equal(t, s, &loaded)
}

func TestSessionSummarize(t *testing.T) {
	s := newTestSession()
	s.Status = StatusFinished
	s.Winner = s.Players[1].ID
	s.Players[1].Hand = nil
	s.GameStartedAt = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s.TurnCount = 42

	summary := s.Summarize(s.GameStartedAt.Add(5 * time.Minute))

	assert.Equal(t, "Rookie Bot", summary.WinnerName)
	assert.Equal(t, 5*time.Minute, summary.Duration)
	assert.Equal(t, 42, summary.TotalTurns)
	require.Len(t, summary.Players, 2)
	assert.Equal(t, 3, summary.Players[0].CardsLeft)
	assert.Equal(t, 0, summary.Players[1].CardsLeft)
	assert.Equal(t, Green, summary.Players[1].FavoriteColor)
	assert.True(t, summary.Players[1].IsComputer)
}

func TestSessionLookups(t *testing.T) {
	s := newTestSession()

	assert.Equal(t, s.Players[0], s.CurrentPlayer())
	assert.Equal(t, s.Players[1], s.Player(s.Players[1].ID))
	assert.Nil(t, s.Player("missing"))
	assert.Equal(t, []*Player{s.Players[1]}, s.Opponents(s.Players[0].ID))
	assert.Equal(t, s.DiscardPile[0], s.TopCard())

	s.CurrentPlayerIndex = 7
	assert.Nil(t, s.CurrentPlayer())
}
