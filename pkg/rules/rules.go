// Package rules holds the UNO rule engine: legality, turn order, card effects and
// the win condition. Every function here is synchronous and touches only the
// session it is handed.
package rules

import (
	"time"

	"github.com/fadedpez/uno/pkg/entities"
)

const (
	ActionCardScore = 20
	WildCardScore   = 50
)

// IsPlayable reports whether card may be played on top given the active color.
func IsPlayable(card, top *entities.Card, activeColor entities.Color) bool {
	if card.IsWild() {
		return true
	}
	if card.Color == activeColor {
		return true
	}
	if top == nil {
		return false
	}

	return card.Color == top.Color ||
		(card.Kind == top.Kind && card.Kind != entities.Number) ||
		(card.Kind == entities.Number && top.Kind == entities.Number && card.Value == top.Value)
}

// PlayableCards returns the legal subset of hand, preserving hand order
func PlayableCards(hand []*entities.Card, top *entities.Card, activeColor entities.Color) []*entities.Card {
	playable := make([]*entities.Card, 0, len(hand))
	for _, card := range hand {
		if IsPlayable(card, top, activeColor) {
			playable = append(playable, card)
		}
	}
	return playable
}

// CardScore returns the base value of a card
func CardScore(card *entities.Card) int {
	switch card.Kind {
	case entities.Number:
		return card.Value
	case entities.Skip, entities.Reverse, entities.DrawTwo:
		return ActionCardScore
	case entities.WildCard, entities.WildDrawFour:
		return WildCardScore
	default:
		return 0
	}
}

// DrawPenalty returns how many cards the next player must take for card
func DrawPenalty(card *entities.Card) int {
	switch card.Kind {
	case entities.DrawTwo:
		return 2
	case entities.WildDrawFour:
		return 4
	default:
		return 0
	}
}

// NextPlayerIndex moves one seat in direction, wrapping around the table
func NextPlayerIndex(current, direction, playerCount int) int {
	if playerCount <= 0 {
		return 0
	}
	return ((current+direction)%playerCount + playerCount) % playerCount
}

// ResolveColor returns the color a played card commits the discard pile to
func ResolveColor(card *entities.Card, chosen entities.Color) entities.Color {
	if !card.IsWild() {
		return card.Color
	}
	if chosen.IsChromatic() {
		return chosen
	}
	return entities.DefaultColor
}

// DrawCards moves up to n cards from the draw pile into the player's hand,
// recycling the discard pile whenever the draw pile runs dry. A short pile is
// not an error; the number of cards actually drawn is returned.
func DrawCards(s *entities.Session, p *entities.Player, n int, shuffler entities.Shuffler) int {
	drawn := 0
	for drawn < n {
		if len(s.DrawPile) == 0 {
			s.DrawPile, s.DiscardPile = entities.ReshuffleFromDiscard(s.DiscardPile, s.DrawPile, shuffler)
			if len(s.DrawPile) == 0 {
				break
			}
		}

		p.AddCards(s.DrawPile[0])
		s.DrawPile = s.DrawPile[1:]
		drawn++
	}
	return drawn
}

// ApplyEffect resolves the effect of card, which the current player has just
// played, and hands the turn to the next player.
func ApplyEffect(s *entities.Session, card *entities.Card, chosen entities.Color, shuffler entities.Shuffler, now time.Time) {
	count := len(s.Players)
	direction := s.Direction
	next := NextPlayerIndex(s.CurrentPlayerIndex, direction, count)

	switch card.Kind {
	case entities.Skip:
		next = NextPlayerIndex(next, direction, count)

	case entities.Reverse:
		direction = -direction
		if count == 2 {
			// Reversing between two players hands the turn straight back.
			next = NextPlayerIndex(next, direction, count)
		}

	case entities.DrawTwo, entities.WildDrawFour:
		DrawCards(s, s.Players[next], DrawPenalty(card), shuffler)
		next = NextPlayerIndex(next, direction, count)
	}

	s.ActiveColor = ResolveColor(card, chosen)
	s.CurrentPlayerIndex = next
	s.Direction = direction
	s.TurnStartedAt = now
}

// CheckWin finishes the session if any player has emptied their hand
func CheckWin(s *entities.Session) (string, bool) {
	for _, p := range s.Players {
		if len(p.Hand) == 0 {
			s.Status = entities.StatusFinished
			s.Winner = p.ID
			return p.ID, true
		}
	}
	return "", false
}

// CountCards returns the number of cards across all hands and both piles
func CountCards(s *entities.Session) int {
	total := len(s.DrawPile) + len(s.DiscardPile)
	for _, p := range s.Players {
		total += len(p.Hand)
	}
	return total
}
