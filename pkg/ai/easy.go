package ai

const easyConfidence = 0.3

// EasyBrain plays the first legal card in hand order
type EasyBrain struct{}

func NewEasyBrain() *EasyBrain {
	return &EasyBrain{}
}

func (b *EasyBrain) Decide(v View) Decision {
	playable := v.Playable()
	if len(playable) == 0 {
		return drawDecision()
	}
	return playCard(v, playable[0], "", easyConfidence, "playing first available card")
}
