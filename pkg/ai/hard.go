package ai

import (
	"fmt"
	"math"

	"github.com/fadedpez/uno/pkg/entities"
	"github.com/fadedpez/uno/pkg/rules"
)

const (
	riskWeight          = 0.3
	lowHandThreshold    = 2
	lowHandMultiplier   = 1.5
	historyWeight       = 0.1
	similarHandDistance = 2
	wildRiskPerCard     = 0.5
	highNumberRisk      = 1.0
	highNumberValue     = 7
)

// HardBrain scores every legal card by expected value minus risk, nudged by
// the outcomes of earlier decisions in similar situations.
type HardBrain struct {
	history History
}

// NewHardBrain creates a hard brain. A nil history disables learning.
func NewHardBrain(history History) *HardBrain {
	return &HardBrain{history: history}
}

type evaluation struct {
	card          *entities.Card
	expectedValue float64
	risk          float64
	score         float64
}

func (b *HardBrain) Decide(v View) Decision {
	playable := v.Playable()
	if len(playable) == 0 {
		return drawDecision()
	}

	records := b.resolvedRecords(v.Player.Difficulty)

	var best *evaluation
	for _, card := range playable {
		ev := b.expectedValue(v, card, records)
		risk := riskLevel(v, card)
		e := &evaluation{
			card:          card,
			expectedValue: ev,
			risk:          risk,
			score:         ev - riskWeight*risk,
		}
		if best == nil || e.score > best.score {
			best = e
		}
	}

	var color entities.Color
	if best.card.IsWild() {
		color = bestHistoricalColor(records)
	}

	reasoning := fmt.Sprintf("selected on expected value %.2f, risk %.2f", best.expectedValue, best.risk)
	return playCard(v, best.card, color, confidence(best.score), reasoning)
}

func (b *HardBrain) resolvedRecords(difficulty entities.Difficulty) []*entities.LearningRecord {
	if b.history == nil {
		return nil
	}
	all := b.history.Records(difficulty)
	resolved := make([]*entities.LearningRecord, 0, len(all))
	for _, r := range all {
		if r.Outcome != nil {
			resolved = append(resolved, r)
		}
	}
	return resolved
}

func (b *HardBrain) expectedValue(v View, card *entities.Card, records []*entities.LearningRecord) float64 {
	value := float64(rules.CardScore(card))

	if fewest := v.MinOpponentHand(); fewest >= 0 && fewest <= lowHandThreshold && card.IsAction() {
		value *= lowHandMultiplier
	}

	handSize := len(v.Player.Hand)
	var total float64
	var similar int
	for _, r := range records {
		if r.CardPlayed.Kind != card.Kind {
			continue
		}
		if abs(r.HandSize-handSize) > similarHandDistance {
			continue
		}
		total += r.Outcome.Score()
		similar++
	}
	if similar > 0 {
		value += total / float64(similar) * historyWeight
	}

	return value
}

func riskLevel(v View, card *entities.Card) float64 {
	var risk float64
	if card.IsWild() {
		held := 0
		for _, c := range v.Player.Hand {
			if c.Color == v.Session.ActiveColor {
				held++
			}
		}
		risk = float64(held) * wildRiskPerCard
	}
	if card.Kind == entities.Number && card.Value > highNumberValue {
		risk += highNumberRisk
	}
	return risk
}

// bestHistoricalColor returns the wild color chosen most often in won games,
// or "" when no won record chose a color.
func bestHistoricalColor(records []*entities.LearningRecord) entities.Color {
	wins := make(map[entities.Color]int, len(entities.ChromaticColors))
	for _, r := range records {
		if r.Outcome.Won && r.ColorChosen.IsChromatic() {
			wins[r.ColorChosen]++
		}
	}
	best := entities.MajorityColor(wins)
	if wins[best] == 0 {
		return ""
	}
	return best
}

// confidence maps a score into [0, 1]
func confidence(score float64) float64 {
	return math.Max(0, math.Min(score/10, 1))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
