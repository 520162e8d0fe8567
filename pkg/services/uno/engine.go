// Package uno implements the command surface of a single UNO match. The Engine
// mutates the session it is handed and never keeps one itself; callers serialise
// commands per session.
package uno

import (
	"math/rand/v2"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/fadedpez/uno/internal/logging"
	"github.com/fadedpez/uno/internal/types"
	"github.com/fadedpez/uno/pkg/ai"
	"github.com/fadedpez/uno/pkg/entities"
	"github.com/fadedpez/uno/pkg/rules"
)

// DefaultMaxComputerSteps bounds RunComputerTurns. Real matches finish in a few
// hundred turns.
const DefaultMaxComputerSteps = 5000

type Engine struct {
	clock            quartz.Clock
	rand             *lockedRand
	registry         *ai.Registry
	logger           *logging.Logger
	maxComputerSteps int
}

type Option func(*Engine)

func WithClock(clock quartz.Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithSeed makes shuffles and computer names reproducible
func WithSeed(seed uint64) Option {
	return func(e *Engine) { e.rand = newLockedRand(seed) }
}

func WithRegistry(registry *ai.Registry) Option {
	return func(e *Engine) { e.registry = registry }
}

func WithLogger(logger *logging.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

func WithMaxComputerSteps(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxComputerSteps = n
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		clock:            quartz.NewReal(),
		rand:             newLockedRand(rand.Uint64()),
		maxComputerSteps: DefaultMaxComputerSteps,
		logger:           logging.Default,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = ai.NewDefaultRegistry(nil)
	}
	return e
}

// Registry returns the brains the engine plays computer players with
func (e *Engine) Registry() *ai.Registry {
	return e.registry
}

// Create builds a waiting session with a shuffled draw pile and one seed card face up
func (e *Engine) Create() *entities.Session {
	now := e.clock.Now()
	cards := entities.BuildDeck(e.rand)
	seed := cards[0]

	activeColor := seed.Color
	if seed.IsWild() {
		activeColor = entities.DefaultColor
	}

	s := &entities.Session{
		ID:            uuid.New().String(),
		Players:       []*entities.Player{},
		Direction:     1,
		DrawPile:      cards[1:],
		DiscardPile:   []*entities.Card{seed},
		ActiveColor:   activeColor,
		Status:        entities.StatusWaiting,
		TurnStartedAt: now,
		GameStartedAt: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	e.logger.Debug("Created session %s with seed card %s", s.ID, seed)
	return s
}

func checkSeat(s *entities.Session) error {
	if s.Status != entities.StatusWaiting {
		return types.Errorf(types.ErrCapacity, "session %s is no longer accepting players", s.ID)
	}
	if len(s.Players) >= entities.MaxPlayers {
		return types.Errorf(types.ErrCapacity, "session %s already has %d players", s.ID, entities.MaxPlayers)
	}
	return nil
}

// Join seats a human player
func (e *Engine) Join(s *entities.Session, name string) (*entities.Player, error) {
	if err := checkSeat(s); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, types.NewGameError(types.ErrInvalidArgument, "player name is required")
	}

	p := entities.NewPlayer(name)
	s.Players = append(s.Players, p)
	s.UpdatedAt = e.clock.Now()
	return p, nil
}

// AddComputerPlayer seats a computer player of the given difficulty
func (e *Engine) AddComputerPlayer(s *entities.Session, difficulty entities.Difficulty) (*entities.Player, error) {
	if err := checkSeat(s); err != nil {
		return nil, err
	}
	if !e.registry.Has(difficulty) {
		return nil, types.Errorf(types.ErrInvalidArgument, "unknown difficulty %q", difficulty)
	}

	name := e.computerName(difficulty, len(s.Players)+1)
	p := entities.NewComputerPlayer(name, difficulty)
	p.Stats = e.baselineStats(name, difficulty)
	s.Players = append(s.Players, p)
	s.UpdatedAt = e.clock.Now()
	return p, nil
}

// Start deals the opening hands and begins play
func (e *Engine) Start(s *entities.Session) error {
	if s.Status != entities.StatusWaiting {
		return types.Errorf(types.ErrNotEnoughPlayers, "session %s has already started", s.ID)
	}
	if len(s.Players) < entities.MinPlayers {
		return types.Errorf(types.ErrNotEnoughPlayers, "need at least %d players, have %d", entities.MinPlayers, len(s.Players))
	}
	if need := entities.StartingHand * len(s.Players); len(s.DrawPile) < need {
		return types.Errorf(types.ErrDepletedDeck, "draw pile holds %d cards, dealing needs %d", len(s.DrawPile), need)
	}

	for _, p := range s.Players {
		p.AddCards(s.DrawPile[:entities.StartingHand]...)
		s.DrawPile = s.DrawPile[entities.StartingHand:]
	}

	now := e.clock.Now()
	s.Status = entities.StatusPlaying
	s.CurrentPlayerIndex = 0
	s.GameStartedAt = now
	s.TurnStartedAt = now
	s.UpdatedAt = now

	e.logger.Info("Started session %s with %d players", s.ID, len(s.Players))
	return nil
}

// checkTurn validates that playerID may act on s right now
func checkTurn(s *entities.Session, playerID string) (*entities.Player, error) {
	switch s.Status {
	case entities.StatusPlaying:
	case entities.StatusFinished:
		return nil, types.Errorf(types.ErrGameAlreadyEnded, "session %s has finished", s.ID)
	default:
		return nil, types.Errorf(types.ErrGameNotActive, "session %s has not started", s.ID)
	}

	current := s.CurrentPlayer()
	if current == nil {
		return nil, types.Errorf(types.ErrInternalError, "session %s has no current player", s.ID)
	}
	if current.ID != playerID {
		return nil, types.Errorf(types.ErrNotPlayerTurn, "it is %s's turn", current.Name)
	}
	return current, nil
}

// Play plays cardID from the current player's hand. color is the choice for a
// wild card and is ignored otherwise; an empty choice falls back to the default color.
func (e *Engine) Play(s *entities.Session, playerID, cardID string, color entities.Color) (*entities.MoveRecord, error) {
	p, err := checkTurn(s, playerID)
	if err != nil {
		return nil, err
	}

	idx := p.CardIndex(cardID)
	if idx < 0 {
		return nil, types.Errorf(types.ErrIllegalCard, "card %s is not in %s's hand", cardID, p.Name)
	}
	card := p.Hand[idx]
	if !rules.IsPlayable(card, s.TopCard(), s.ActiveColor) {
		return nil, types.Errorf(types.ErrIllegalCard, "%s cannot be played on %s with %s active", card, s.TopCard(), s.ActiveColor)
	}
	if card.IsWild() && color != "" && !color.IsChromatic() {
		return nil, types.Errorf(types.ErrInvalidArgument, "%q is not a color a wild card can choose", color)
	}

	now := e.clock.Now()
	move := &entities.MoveRecord{
		SessionID:      s.ID,
		PlayerID:       p.ID,
		PlayerName:     p.Name,
		Card:           *card,
		HandSizeBefore: len(p.Hand),
		TurnDuration:   now.Sub(s.TurnStartedAt).Milliseconds(),
		Timestamp:      now,
	}
	if card.IsWild() {
		move.ColorChosen = rules.ResolveColor(card, color)
	}

	p.RemoveCard(idx)
	s.DiscardPile = append(s.DiscardPile, card)
	if p.ColorsPlayed == nil {
		p.ColorsPlayed = make(map[entities.Color]int)
	}
	p.ColorsPlayed[rules.ResolveColor(card, color)]++
	s.TurnCount++
	s.UpdatedAt = now

	if winner, won := rules.CheckWin(s); won {
		e.logger.Info("Session %s won by %s after %d turns", s.ID, winner, s.TurnCount)
		return move, nil
	}

	rules.ApplyEffect(s, card, color, e.rand, now)
	e.logger.Debug("Session %s: %s played %s", s.ID, p.Name, card)
	return move, nil
}

// Draw gives the current player one card and passes the turn. An exhausted
// pile still passes the turn.
func (e *Engine) Draw(s *entities.Session, playerID string) error {
	p, err := checkTurn(s, playerID)
	if err != nil {
		return err
	}

	now := e.clock.Now()
	if rules.DrawCards(s, p, 1, e.rand) == 0 {
		e.logger.Debug("Session %s: draw pile exhausted, %s passes", s.ID, p.Name)
	}

	s.CurrentPlayerIndex = rules.NextPlayerIndex(s.CurrentPlayerIndex, s.Direction, len(s.Players))
	s.TurnStartedAt = now
	s.TurnCount++
	s.UpdatedAt = now
	return nil
}

// Step describes one applied computer turn
type Step struct {
	Session  *entities.Session
	PlayerID string
	Decision ai.Decision
	// Move and Learning are nil when the computer drew
	Move     *entities.MoveRecord
	Learning *entities.LearningRecord
}

// StepFunc observes each computer step after it has been applied. Returning an
// error stops the loop; steps already applied stay applied.
type StepFunc func(Step) error

// RunComputerTurns plays computer turns until a human is current or the match
// ends. It returns the number of steps applied.
func (e *Engine) RunComputerTurns(s *entities.Session, fn StepFunc) (int, error) {
	steps := 0
	for s.Status == entities.StatusPlaying {
		p := s.CurrentPlayer()
		if p == nil || !p.IsComputer {
			break
		}
		if steps >= e.maxComputerSteps {
			return steps, types.Errorf(types.ErrInternalError, "computer turns in session %s exceeded %d steps", s.ID, e.maxComputerSteps)
		}

		brain, err := e.registry.Brain(p.Difficulty)
		if err != nil {
			return steps, types.WrapError(types.ErrInternalError, "no brain for computer player "+p.Name, err)
		}

		decision := brain.Decide(ai.NewView(s))
		step := Step{Session: s, PlayerID: p.ID, Decision: decision}

		if decision.Draw || decision.Card == nil {
			err = e.Draw(s, p.ID)
		} else {
			learning := e.learningRecord(s, p, decision)
			step.Move, err = e.Play(s, p.ID, decision.Card.ID, decision.Color)
			if err == nil {
				learning.ColorChosen = step.Move.ColorChosen
				step.Learning = learning
			}
		}
		if err != nil {
			return steps, types.WrapError(types.ErrInternalError, "computer move by "+p.Name+" was rejected", err)
		}

		steps++
		if fn != nil {
			if err := fn(step); err != nil {
				return steps, err
			}
		}
	}
	return steps, nil
}

// learningRecord snapshots the situation a computer decided in, before the move is applied
func (e *Engine) learningRecord(s *entities.Session, p *entities.Player, d ai.Decision) *entities.LearningRecord {
	opponents := s.Opponents(p.ID)
	sizes := make([]int, len(opponents))
	for i, o := range opponents {
		sizes[i] = len(o.Hand)
	}

	record := &entities.LearningRecord{
		ID:                uuid.New().String(),
		SessionID:         s.ID,
		PlayerID:          p.ID,
		Difficulty:        p.Difficulty,
		HandSize:          len(p.Hand),
		OpponentHandSizes: sizes,
		ActiveColor:       s.ActiveColor,
		CardPlayed:        *d.Card,
		Confidence:        d.Confidence,
		Reasoning:         d.Reasoning,
		Timestamp:         e.clock.Now(),
	}
	if top := s.TopCard(); top != nil {
		record.TopCard = *top
	}
	return record
}

// Now returns the engine clock's current time
func (e *Engine) Now() time.Time {
	return e.clock.Now()
}
