package ai

import (
	"github.com/fadedpez/uno/pkg/entities"
)

const mediumConfidence = 0.6

// MediumBrain prefers action cards, then wilds, then the highest number
type MediumBrain struct{}

func NewMediumBrain() *MediumBrain {
	return &MediumBrain{}
}

func (b *MediumBrain) Decide(v View) Decision {
	playable := v.Playable()
	if len(playable) == 0 {
		return drawDecision()
	}
	return playCard(v, selectMedium(playable), "", mediumConfidence, "playing strategically valuable card")
}

func selectMedium(playable []*entities.Card) *entities.Card {
	for _, card := range playable {
		if card.IsAction() {
			return card
		}
	}
	for _, card := range playable {
		if card.Kind == entities.WildCard {
			return card
		}
	}

	var highest *entities.Card
	for _, card := range playable {
		if card.Kind != entities.Number {
			continue
		}
		if highest == nil || card.Value > highest.Value {
			highest = card
		}
	}
	if highest != nil {
		return highest
	}
	return playable[0]
}
