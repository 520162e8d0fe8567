package entities

import (
	"math/rand/v2"
)

const (
	DeckSize     = 108 // Canonical UNO deck size
	WildCopies   = 4   // Copies of each wild kind
	ActionCopies = 2   // Copies of each colored action card per color
	NumberCopies = 2   // Copies of each 1-9 number card per color
	MaxFaceValue = 9
	StartingHand = 7
)

// Shuffler permutes a sequence in place. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type Deck struct {
	Cards []*Card
}

// NewDeck creates the canonical 108 card deck in construction order
func NewDeck() *Deck {
	cards := make([]*Card, 0, DeckSize)

	for _, color := range ChromaticColors {
		cards = append(cards, NewCard(color, Number, 0))
		for value := 1; value <= MaxFaceValue; value++ {
			for i := 0; i < NumberCopies; i++ {
				cards = append(cards, NewCard(color, Number, value))
			}
		}

		for _, kind := range []Kind{Skip, Reverse, DrawTwo} {
			for i := 0; i < ActionCopies; i++ {
				cards = append(cards, NewCard(color, kind, 0))
			}
		}
	}

	for i := 0; i < WildCopies; i++ {
		cards = append(cards, NewCard(Wild, WildCard, 0))
		cards = append(cards, NewCard(Wild, WildDrawFour, 0))
	}

	return &Deck{Cards: cards}
}

// BuildDeck returns a freshly built and shuffled deck
func BuildDeck(shuffler Shuffler) []*Card {
	deck := NewDeck()
	deck.Shuffle(shuffler)
	return deck.Cards
}

// Shuffle shuffles the deck. A nil shuffler falls back to the global source.
func (d *Deck) Shuffle(shuffler Shuffler) {
	shuffleCards(d.Cards, shuffler)
}

// Draw removes and returns up to n cards from the top of the deck
func (d *Deck) Draw(n int) []*Card {
	if n > len(d.Cards) {
		n = len(d.Cards)
	}
	if n <= 0 {
		return nil
	}

	drawn := make([]*Card, n)
	copy(drawn, d.Cards[:n])
	d.Cards = d.Cards[n:]
	return drawn
}

// ReshuffleFromDiscard recycles the discard pile into a new draw pile.
// It only acts when draw is empty and discard holds more than the active card;
// the active (top) card always stays on the discard pile.
func ReshuffleFromDiscard(discard, draw []*Card, shuffler Shuffler) ([]*Card, []*Card) {
	if len(draw) != 0 || len(discard) <= 1 {
		return draw, discard
	}

	top := discard[len(discard)-1]
	newDraw := make([]*Card, len(discard)-1)
	copy(newDraw, discard[:len(discard)-1])
	shuffleCards(newDraw, shuffler)

	return newDraw, []*Card{top}
}

func shuffleCards(cards []*Card, shuffler Shuffler) {
	swap := func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	}
	if shuffler == nil {
		rand.Shuffle(len(cards), swap)
		return
	}
	shuffler.Shuffle(len(cards), swap)
}
