package entities

import (
	"github.com/google/uuid"
)

// Difficulty is the tier of a computer player
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Difficulties lists every supported tier
var Difficulties = []Difficulty{Easy, Medium, Hard}

// IsValid reports whether d is a known tier
func (d Difficulty) IsValid() bool {
	switch d {
	case Easy, Medium, Hard:
		return true
	}
	return false
}

// Player is a participant in a session. Hand order is stable for display only.
type Player struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Hand         []*Card           `json:"cards"`
	IsComputer   bool              `json:"is_ai"`
	Difficulty   Difficulty        `json:"ai_level,omitempty"`
	Stats        *PlayerStatistics `json:"stats,omitempty"`
	ColorsPlayed map[Color]int     `json:"colors_played,omitempty"`
}

// NewPlayer creates a human player with an empty hand
func NewPlayer(name string) *Player {
	return &Player{
		ID:    uuid.New().String(),
		Name:  name,
		Hand:  []*Card{},
		Stats: NewPlayerStatistics(name),
	}
}

// NewComputerPlayer creates a computer-controlled player of the given tier
func NewComputerPlayer(name string, difficulty Difficulty) *Player {
	p := NewPlayer(name)
	p.IsComputer = true
	p.Difficulty = difficulty
	return p
}

// CardIndex returns the hand position of the card with the given id, or -1
func (p *Player) CardIndex(cardID string) int {
	for i, c := range p.Hand {
		if c.ID == cardID {
			return i
		}
	}
	return -1
}

// RemoveCard takes the card at index i out of the hand and returns it
func (p *Player) RemoveCard(i int) *Card {
	card := p.Hand[i]
	p.Hand = append(p.Hand[:i:i], p.Hand[i+1:]...)
	return card
}

// AddCards appends cards to the hand
func (p *Player) AddCards(cards ...*Card) {
	p.Hand = append(p.Hand, cards...)
}

// ColorCounts counts chromatic cards in hand by color
func (p *Player) ColorCounts() map[Color]int {
	counts := make(map[Color]int, len(ChromaticColors))
	for _, c := range p.Hand {
		if c.Color.IsChromatic() {
			counts[c.Color]++
		}
	}
	return counts
}

// FavoriteColor returns the color this player has played most, by priority order on ties
func (p *Player) FavoriteColor() Color {
	return MajorityColor(p.ColorsPlayed)
}

// MajorityColor picks the color with the highest count; ties resolve by ChromaticColors order
func MajorityColor(counts map[Color]int) Color {
	best := ChromaticColors[0]
	for _, color := range ChromaticColors[1:] {
		if counts[color] > counts[best] {
			best = color
		}
	}
	return best
}
