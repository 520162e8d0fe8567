package entities

import (
	"fmt"

	"github.com/google/uuid"
)

// Color represents a card color
type Color string

const (
	Red    Color = "red"
	Blue   Color = "blue"
	Green  Color = "green"
	Yellow Color = "yellow"
	Wild   Color = "wild"
)

// ChromaticColors lists the four playable colors in tie-break priority order.
var ChromaticColors = []Color{Red, Blue, Green, Yellow}

// DefaultColor is used whenever a wild card resolves without a chosen color.
const DefaultColor = Red

// IsChromatic reports whether c is one of the four playable colors
func (c Color) IsChromatic() bool {
	switch c {
	case Red, Blue, Green, Yellow:
		return true
	}
	return false
}

// Kind represents the category of a card
type Kind string

const (
	Number       Kind = "number"
	Skip         Kind = "skip"
	Reverse      Kind = "reverse"
	DrawTwo      Kind = "draw2"
	WildCard     Kind = "wild"
	WildDrawFour Kind = "wild4"
)

// Card represents a single physical UNO card
type Card struct {
	ID    string `json:"id"`
	Color Color  `json:"color"`
	Kind  Kind   `json:"type"`
	Value int    `json:"value,omitempty"`
}

// NewCard creates a new card with a fresh identifier
func NewCard(color Color, kind Kind, value int) *Card {
	return &Card{
		ID:    uuid.New().String(),
		Color: color,
		Kind:  kind,
		Value: value,
	}
}

// IsWild returns true for wild and wild draw four cards
func (c *Card) IsWild() bool {
	return c.Kind == WildCard || c.Kind == WildDrawFour
}

// IsAction returns true for cards the computer players treat as tempo plays
func (c *Card) IsAction() bool {
	switch c.Kind {
	case Skip, Reverse, DrawTwo, WildDrawFour:
		return true
	}
	return false
}

// String returns the string representation of the card
func (c *Card) String() string {
	switch c.Kind {
	case Number:
		return fmt.Sprintf("%s %d", c.Color, c.Value)
	case WildCard:
		return "wild"
	case WildDrawFour:
		return "wild draw four"
	default:
		return fmt.Sprintf("%s %s", c.Color, c.Kind)
	}
}
