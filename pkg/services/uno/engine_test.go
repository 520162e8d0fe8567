package uno

import (
	"errors"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/suite"

	"github.com/fadedpez/uno/internal/types"
	"github.com/fadedpez/uno/pkg/ai"
	"github.com/fadedpez/uno/pkg/entities"
	"github.com/fadedpez/uno/pkg/rules"
)

type EngineTestSuite struct {
	suite.Suite
	clock  *quartz.Mock
	engine *Engine
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (s *EngineTestSuite) SetupTest() {
	s.clock = quartz.NewMock(s.T())
	s.clock.Set(time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC))
	s.engine = NewEngine(WithClock(s.clock), WithSeed(42))
}

// started returns a playing session with one human per name
func (s *EngineTestSuite) started(names ...string) *entities.Session {
	session := s.engine.Create()
	for _, name := range names {
		_, err := s.engine.Join(session, name)
		s.Require().NoError(err)
	}
	s.Require().NoError(s.engine.Start(session))
	return session
}

// takeFromDraw moves the first draw pile card matching match into p's hand
func (s *EngineTestSuite) takeFromDraw(session *entities.Session, p *entities.Player, match func(*entities.Card) bool) *entities.Card {
	for i, c := range session.DrawPile {
		if match(c) {
			session.DrawPile = append(session.DrawPile[:i:i], session.DrawPile[i+1:]...)
			p.AddCards(c)
			return c
		}
	}
	s.FailNow("no matching card in draw pile")
	return nil
}

func kindOf(kind entities.Kind) func(*entities.Card) bool {
	return func(c *entities.Card) bool { return c.Kind == kind }
}

// giveAndMakeActive hands p a card of kind and makes it legal to play
func (s *EngineTestSuite) giveAndMakeActive(session *entities.Session, p *entities.Player, kind entities.Kind) *entities.Card {
	c := s.takeFromDraw(session, p, kindOf(kind))
	if c.Color.IsChromatic() {
		session.ActiveColor = c.Color
	}
	return c
}

func (s *EngineTestSuite) assertConserved(session *entities.Session) {
	s.Equal(entities.DeckSize, rules.CountCards(session), "Cards must never be lost or duplicated")
}

func (s *EngineTestSuite) TestCreate() {
	session := s.engine.Create()

	s.Equal(entities.StatusWaiting, session.Status)
	s.Len(session.DiscardPile, 1)
	s.Len(session.DrawPile, entities.DeckSize-1)
	s.Empty(session.Players)
	s.True(session.ActiveColor.IsChromatic())
	s.Equal(1, session.Direction)
	s.Equal(s.clock.Now(), session.CreatedAt)
	s.assertConserved(session)
}

func (s *EngineTestSuite) TestCreateClampsWildSeed() {
	found := false
	for seed := uint64(1); seed < 1000 && !found; seed++ {
		session := NewEngine(WithClock(s.clock), WithSeed(seed)).Create()
		if session.TopCard().IsWild() {
			found = true
			s.Equal(entities.DefaultColor, session.ActiveColor)
		}
	}
	s.True(found, "Some seed should turn up a wild seed card")
}

func (s *EngineTestSuite) TestJoinCapacity() {
	// Setup
	session := s.engine.Create()
	for _, name := range []string{"a", "b", "c", "d"} {
		_, err := s.engine.Join(session, name)
		s.Require().NoError(err)
	}
	before := session.Clone()

	// Execute
	_, joinErr := s.engine.Join(session, "e")
	_, addErr := s.engine.AddComputerPlayer(session, entities.Easy)

	// Assert
	s.True(types.IsGameError(joinErr, types.ErrCapacity))
	s.True(types.IsGameError(addErr, types.ErrCapacity))
	s.Equal(before, session, "Rejected joins must not change the session")
}

func (s *EngineTestSuite) TestJoinAfterStart() {
	session := s.started("alice", "bob")

	_, err := s.engine.Join(session, "carol")

	s.True(types.IsGameError(err, types.ErrCapacity))
	s.Len(session.Players, 2)
}

func (s *EngineTestSuite) TestJoinRequiresName() {
	session := s.engine.Create()

	_, err := s.engine.Join(session, "")

	s.True(types.IsGameError(err, types.ErrInvalidArgument))
}

func (s *EngineTestSuite) TestAddComputerPlayer() {
	session := s.engine.Create()

	p, err := s.engine.AddComputerPlayer(session, entities.Hard)

	s.Require().NoError(err)
	s.True(p.IsComputer)
	s.Equal(entities.Hard, p.Difficulty)
	s.Contains(computerNames[entities.Hard], p.Name)
	s.Equal(500, p.Stats.GamesPlayed)
	s.Equal(325, p.Stats.GamesWon)
	s.Equal(1.1, p.Stats.AverageCardsLeft)
	s.Equal(int64(150000), p.Stats.TotalPlayTime)
	s.True(p.Stats.FavoriteColor.IsChromatic())

	_, err = s.engine.AddComputerPlayer(session, "impossible")
	s.True(types.IsGameError(err, types.ErrInvalidArgument))
	s.Len(session.Players, 1)
}

func (s *EngineTestSuite) TestStartNeedsTwoPlayers() {
	session := s.engine.Create()
	_, err := s.engine.Join(session, "alone")
	s.Require().NoError(err)

	err = s.engine.Start(session)

	s.True(types.IsGameError(err, types.ErrNotEnoughPlayers))
	s.Equal(entities.StatusWaiting, session.Status)
	s.Empty(session.Players[0].Hand)
}

func (s *EngineTestSuite) TestStartDeals() {
	session := s.started("alice", "bob", "carol")

	s.Equal(entities.StatusPlaying, session.Status)
	for _, p := range session.Players {
		s.Len(p.Hand, entities.StartingHand)
	}
	s.Equal(0, session.CurrentPlayerIndex)
	s.assertConserved(session)

	err := s.engine.Start(session)
	s.True(types.IsGameError(err, types.ErrNotEnoughPlayers), "A session starts once")
}

func (s *EngineTestSuite) TestStartDepletedDeck() {
	session := s.engine.Create()
	_, _ = s.engine.Join(session, "a")
	_, _ = s.engine.Join(session, "b")
	session.DrawPile = session.DrawPile[:10]

	err := s.engine.Start(session)

	s.True(types.IsGameError(err, types.ErrDepletedDeck))
	s.Equal(entities.StatusWaiting, session.Status)
}

func (s *EngineTestSuite) TestPlayValidation() {
	session := s.started("alice", "bob")
	alice, bob := session.Players[0], session.Players[1]
	playable := s.giveAndMakeActive(session, alice, entities.Number)
	illegal := s.takeFromDraw(session, alice, func(c *entities.Card) bool {
		return !c.IsWild() && !rules.IsPlayable(c, session.TopCard(), session.ActiveColor)
	})
	wildCard := s.takeFromDraw(session, alice, kindOf(entities.WildCard))

	testCases := []struct {
		name     string
		playerID string
		cardID   string
		color    entities.Color
		code     types.ErrorCode
	}{
		{"not your turn", bob.ID, bob.Hand[0].ID, "", types.ErrNotPlayerTurn},
		{"unknown player", "stranger", playable.ID, "", types.ErrNotPlayerTurn},
		{"card not in hand", alice.ID, bob.Hand[0].ID, "", types.ErrIllegalCard},
		{"illegal card", alice.ID, illegal.ID, "", types.ErrIllegalCard},
		{"wild with bogus color", alice.ID, wildCard.ID, "purple", types.ErrInvalidArgument},
		{"wild with wild color", alice.ID, wildCard.ID, entities.Wild, types.ErrInvalidArgument},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			before := session.Clone()

			_, err := s.engine.Play(session, tc.playerID, tc.cardID, tc.color)

			s.True(types.IsGameError(err, tc.code), "expected %s, got %v", tc.code, err)
			s.Equal(before, session, "Rejected plays must not change the session")
		})
	}
}

func (s *EngineTestSuite) TestPlayBeforeStart() {
	session := s.engine.Create()
	p, _ := s.engine.Join(session, "alice")

	_, err := s.engine.Play(session, p.ID, "x", "")
	s.True(types.IsGameError(err, types.ErrGameNotActive))

	err = s.engine.Draw(session, p.ID)
	s.True(types.IsGameError(err, types.ErrGameNotActive))
}

func (s *EngineTestSuite) TestPlayNumberCard() {
	session := s.started("alice", "bob", "carol")
	alice := session.Players[0]
	c := s.giveAndMakeActive(session, alice, entities.Number)
	handBefore := len(alice.Hand)
	s.clock.Advance(1500 * time.Millisecond)

	move, err := s.engine.Play(session, alice.ID, c.ID, entities.Green)

	s.Require().NoError(err)
	s.Equal(c, session.TopCard())
	s.Len(alice.Hand, handBefore-1)
	s.Equal(1, session.CurrentPlayerIndex)
	s.Equal(c.Color, session.ActiveColor)
	s.Equal(1, alice.ColorsPlayed[c.Color])
	s.Equal(1, session.TurnCount)
	s.Equal(handBefore, move.HandSizeBefore)
	s.Equal(int64(1500), move.TurnDuration)
	s.Equal(*c, move.Card)
	s.Empty(move.ColorChosen)
	s.assertConserved(session)
}

func (s *EngineTestSuite) TestPlaySkipAdvancesTwoSeats() {
	session := s.started("alice", "bob", "carol")
	alice := session.Players[0]
	skip := s.giveAndMakeActive(session, alice, entities.Skip)

	_, err := s.engine.Play(session, alice.ID, skip.ID, "")

	s.Require().NoError(err)
	s.Equal(2, session.CurrentPlayerIndex)
	s.assertConserved(session)
}

func (s *EngineTestSuite) TestPlayReverseWithTwoPlayersMatchesSkip() {
	reversed := s.started("alice", "bob")
	skipped := s.started("alice", "bob")

	reverse := s.giveAndMakeActive(reversed, reversed.Players[0], entities.Reverse)
	skip := s.giveAndMakeActive(skipped, skipped.Players[0], entities.Skip)

	_, err := s.engine.Play(reversed, reversed.Players[0].ID, reverse.ID, "")
	s.Require().NoError(err)
	_, err = s.engine.Play(skipped, skipped.Players[0].ID, skip.ID, "")
	s.Require().NoError(err)

	s.Equal(0, reversed.CurrentPlayerIndex)
	s.Equal(skipped.CurrentPlayerIndex, reversed.CurrentPlayerIndex)
}

func (s *EngineTestSuite) TestPlayReverseWithThreePlayers() {
	session := s.started("alice", "bob", "carol")
	alice, bob := session.Players[0], session.Players[1]

	// Setup
	reverse := s.giveAndMakeActive(session, alice, entities.Reverse)

	// Execute
	_, err := s.engine.Play(session, alice.ID, reverse.ID, "")

	// Assert
	s.Require().NoError(err)
	s.Equal(-1, session.Direction)
	s.Equal(1, session.CurrentPlayerIndex, "Bob was next and still plays")

	reverse = s.giveAndMakeActive(session, bob, entities.Reverse)
	_, err = s.engine.Play(session, bob.ID, reverse.ID, "")

	s.Require().NoError(err)
	s.Equal(1, session.Direction)
	s.Equal(0, session.CurrentPlayerIndex, "Alice was next in the reversed order")
	s.assertConserved(session)
}

func (s *EngineTestSuite) TestPlayDrawTwo() {
	session := s.started("alice", "bob", "carol")
	alice, bob := session.Players[0], session.Players[1]
	drawTwo := s.giveAndMakeActive(session, alice, entities.DrawTwo)
	bobBefore := len(bob.Hand)

	_, err := s.engine.Play(session, alice.ID, drawTwo.ID, "")

	s.Require().NoError(err)
	s.Len(bob.Hand, bobBefore+2)
	s.Equal(2, session.CurrentPlayerIndex, "Victim is skipped")
	s.assertConserved(session)
}

func (s *EngineTestSuite) TestPlayWildDrawFourChoosesColor() {
	session := s.started("alice", "bob")
	alice, bob := session.Players[0], session.Players[1]
	four := s.takeFromDraw(session, alice, kindOf(entities.WildDrawFour))
	bobBefore := len(bob.Hand)

	move, err := s.engine.Play(session, alice.ID, four.ID, entities.Yellow)

	s.Require().NoError(err)
	s.Equal(entities.Yellow, session.ActiveColor)
	s.Equal(entities.Yellow, move.ColorChosen)
	s.Len(bob.Hand, bobBefore+4)
	s.Equal(0, session.CurrentPlayerIndex)
	s.assertConserved(session)
}

func (s *EngineTestSuite) TestPlayWildWithoutColorFallsBack() {
	session := s.started("alice", "bob")
	alice := session.Players[0]
	w := s.takeFromDraw(session, alice, kindOf(entities.WildCard))

	move, err := s.engine.Play(session, alice.ID, w.ID, "")

	s.Require().NoError(err)
	s.Equal(entities.DefaultColor, session.ActiveColor)
	s.Equal(entities.DefaultColor, move.ColorChosen)
}

func (s *EngineTestSuite) TestWinEndsMatch() {
	// Setup: alice holds one legal card, bob holds two
	session := s.started("alice", "bob")
	alice, bob := session.Players[0], session.Players[1]
	last := s.takeFromDraw(session, alice, kindOf(entities.DrawTwo))
	session.ActiveColor = last.Color
	session.DrawPile = append(session.DrawPile, alice.Hand[:len(alice.Hand)-1]...)
	alice.Hand = []*entities.Card{last}
	session.DrawPile = append(session.DrawPile, bob.Hand[2:]...)
	bob.Hand = bob.Hand[:2]
	s.assertConserved(session)

	// Execute
	_, err := s.engine.Play(session, alice.ID, last.ID, "")

	// Assert
	s.Require().NoError(err)
	s.Equal(entities.StatusFinished, session.Status)
	s.Equal(alice.ID, session.Winner)
	s.Len(bob.Hand, 2, "No effect resolves once the match is won")
	s.assertConserved(session)

	before := session.Clone()
	_, err = s.engine.Play(session, bob.ID, bob.Hand[0].ID, "")
	s.True(types.IsGameError(err, types.ErrGameAlreadyEnded))
	err = s.engine.Draw(session, bob.ID)
	s.True(types.IsGameError(err, types.ErrGameAlreadyEnded))
	err = s.engine.Draw(session, alice.ID)
	s.True(types.IsGameError(err, types.ErrGameAlreadyEnded))
	s.Equal(before, session)
}

func (s *EngineTestSuite) TestDraw() {
	session := s.started("alice", "bob", "carol")
	alice := session.Players[0]
	head := session.DrawPile[0]

	err := s.engine.Draw(session, alice.ID)

	s.Require().NoError(err)
	s.Len(alice.Hand, entities.StartingHand+1)
	s.Equal(head, alice.Hand[len(alice.Hand)-1])
	s.Equal(1, session.CurrentPlayerIndex)
	s.Equal(1, session.TurnCount)
	s.assertConserved(session)

	err = s.engine.Draw(session, alice.ID)
	s.True(types.IsGameError(err, types.ErrNotPlayerTurn))
}

func (s *EngineTestSuite) TestDrawExhaustedPilePasses() {
	session := s.started("alice", "bob")
	alice := session.Players[0]
	// Park every remaining card in bob's hand so neither pile can supply one.
	session.Players[1].AddCards(session.DrawPile...)
	session.DrawPile = nil

	err := s.engine.Draw(session, alice.ID)

	s.Require().NoError(err)
	s.Len(alice.Hand, entities.StartingHand)
	s.Equal(1, session.CurrentPlayerIndex, "Turn still passes")
	s.assertConserved(session)
}

func (s *EngineTestSuite) TestDrawReshufflesDiscard() {
	session := s.started("alice", "bob")
	alice := session.Players[0]
	top := session.TopCard()
	session.DiscardPile = append(session.DrawPile, top)
	session.DrawPile = nil

	err := s.engine.Draw(session, alice.ID)

	s.Require().NoError(err)
	s.Len(alice.Hand, entities.StartingHand+1)
	s.Equal([]*entities.Card{top}, session.DiscardPile)
	s.assertConserved(session)
}

func (s *EngineTestSuite) TestRunComputerTurnsPlaysToTheEnd() {
	session := s.engine.Create()
	for _, d := range []entities.Difficulty{entities.Easy, entities.Medium, entities.Hard} {
		_, err := s.engine.AddComputerPlayer(session, d)
		s.Require().NoError(err)
	}
	s.Require().NoError(s.engine.Start(session))

	var observed int
	steps, err := s.engine.RunComputerTurns(session, func(step Step) error {
		observed++
		s.Equal(entities.DeckSize, rules.CountCards(step.Session))
		if step.Decision.Draw {
			s.Nil(step.Move)
			s.Nil(step.Learning)
		} else {
			s.Require().NotNil(step.Move)
			s.Require().NotNil(step.Learning)
			s.Equal(step.Move.HandSizeBefore, step.Learning.HandSize)
			s.Equal(step.Move.Card, step.Learning.CardPlayed)
			s.Len(step.Learning.OpponentHandSizes, 2)
		}
		return nil
	})

	s.Require().NoError(err)
	s.Equal(steps, observed)
	s.Equal(entities.StatusFinished, session.Status)
	s.NotEmpty(session.Winner)
	s.Empty(session.Player(session.Winner).Hand)
	s.assertConserved(session)
}

func (s *EngineTestSuite) TestRunComputerTurnsStopsAtHuman() {
	session := s.engine.Create()
	human, _ := s.engine.Join(session, "alice")
	_, _ = s.engine.AddComputerPlayer(session, entities.Medium)
	s.Require().NoError(s.engine.Start(session))

	steps, err := s.engine.RunComputerTurns(session, nil)
	s.Require().NoError(err)
	s.Equal(0, steps, "Human is current after start")

	s.Require().NoError(s.engine.Draw(session, human.ID))
	steps, err = s.engine.RunComputerTurns(session, nil)

	s.Require().NoError(err)
	s.GreaterOrEqual(steps, 1)
	if session.Status == entities.StatusPlaying {
		s.Equal(human.ID, session.CurrentPlayer().ID)
	}
}

func (s *EngineTestSuite) TestRunComputerTurnsBound() {
	engine := NewEngine(WithClock(s.clock), WithSeed(7), WithMaxComputerSteps(3))
	session := engine.Create()
	_, _ = engine.AddComputerPlayer(session, entities.Easy)
	_, _ = engine.AddComputerPlayer(session, entities.Easy)
	s.Require().NoError(engine.Start(session))

	steps, err := engine.RunComputerTurns(session, nil)

	s.True(types.IsGameError(err, types.ErrInternalError))
	s.Equal(3, steps)
	s.Equal(entities.StatusPlaying, session.Status)
	s.assertConserved(session)
}

func (s *EngineTestSuite) TestRunComputerTurnsStepError() {
	session := s.engine.Create()
	_, _ = s.engine.AddComputerPlayer(session, entities.Easy)
	_, _ = s.engine.AddComputerPlayer(session, entities.Easy)
	s.Require().NoError(s.engine.Start(session))
	stop := errors.New("stop")

	steps, err := s.engine.RunComputerTurns(session, func(Step) error { return stop })

	s.ErrorIs(err, stop)
	s.Equal(1, steps)
}

type drawingBrain struct{}

func (drawingBrain) Decide(ai.View) ai.Decision { return ai.Decision{Draw: true} }

func (s *EngineTestSuite) TestRunComputerTurnsUsesRegistry() {
	registry := ai.NewRegistry(nil)
	s.Require().NoError(registry.Register(entities.Easy, func(ai.History) ai.Brain { return drawingBrain{} }))
	engine := NewEngine(WithClock(s.clock), WithSeed(3), WithRegistry(registry))

	session := engine.Create()
	human, _ := engine.Join(session, "alice")
	bot, _ := engine.AddComputerPlayer(session, entities.Easy)
	s.Require().NoError(engine.Start(session))
	s.Require().NoError(engine.Draw(session, human.ID))

	steps, err := engine.RunComputerTurns(session, nil)

	s.Require().NoError(err)
	s.Equal(1, steps)
	s.Len(bot.Hand, entities.StartingHand+1)
	s.Equal(human.ID, session.CurrentPlayer().ID)
}
