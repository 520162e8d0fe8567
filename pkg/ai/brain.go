// Package ai implements the computer opponents. Each difficulty tier is its own
// Brain so tiers can be swapped and tested independently.
package ai

import (
	"github.com/fadedpez/uno/pkg/entities"
	"github.com/fadedpez/uno/pkg/rules"
)

const drawConfidence = 1.0

// View is the read-only slice of a session a brain decides from.
// Brains must never mutate it.
type View struct {
	Session *entities.Session
	Player  *entities.Player
}

// NewView builds a view for the player whose turn it currently is
func NewView(s *entities.Session) View {
	return View{Session: s, Player: s.CurrentPlayer()}
}

// Playable returns the legal cards in the acting player's hand
func (v View) Playable() []*entities.Card {
	return rules.PlayableCards(v.Player.Hand, v.Session.TopCard(), v.Session.ActiveColor)
}

// MinOpponentHand returns the smallest opponent hand size, or -1 with no opponents
func (v View) MinOpponentHand() int {
	fewest := -1
	for _, p := range v.Session.Opponents(v.Player.ID) {
		if fewest == -1 || len(p.Hand) < fewest {
			fewest = len(p.Hand)
		}
	}
	return fewest
}

// Decision is a brain's chosen move. When Draw is set, Card is nil.
type Decision struct {
	Draw       bool
	Card       *entities.Card
	Color      entities.Color
	Confidence float64
	Reasoning  string
}

// Brain picks a move for a computer player
type Brain interface {
	Decide(view View) Decision
}

func drawDecision() Decision {
	return Decision{
		Draw:       true,
		Confidence: drawConfidence,
		Reasoning:  "no playable cards, must draw",
	}
}

// majorityColor picks the chromatic color the player holds most of
func majorityColor(p *entities.Player) entities.Color {
	return entities.MajorityColor(p.ColorCounts())
}

// playCard completes a decision, choosing a color for wild cards when none was picked
func playCard(v View, card *entities.Card, color entities.Color, confidence float64, reasoning string) Decision {
	if card.IsWild() && !color.IsChromatic() {
		color = majorityColor(v.Player)
	}
	if !card.IsWild() {
		color = ""
	}
	return Decision{
		Card:       card,
		Color:      color,
		Confidence: confidence,
		Reasoning:  reasoning,
	}
}
