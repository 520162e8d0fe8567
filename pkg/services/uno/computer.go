package uno

import (
	"fmt"

	"github.com/fadedpez/uno/pkg/entities"
)

// Seconds of play credited per baseline game
const baselineSecondsPerGame = 300

var computerNames = map[entities.Difficulty][]string{
	entities.Easy:   {"Rookie Bot", "Simple Sam", "Easy Eddie"},
	entities.Medium: {"Smart Sarah", "Clever Carl", "Tactical Tom"},
	entities.Hard:   {"Master Mind", "Strategic Steve", "Genius Gina"},
}

type baseline struct {
	games            int
	winRate          float64
	averageCardsLeft float64
}

// Illustrative track records shown for computer players; no rule reads them.
var baselines = map[entities.Difficulty]baseline{
	entities.Easy:   {games: 100, winRate: 0.15, averageCardsLeft: 3.5},
	entities.Medium: {games: 200, winRate: 0.35, averageCardsLeft: 2.2},
	entities.Hard:   {games: 500, winRate: 0.65, averageCardsLeft: 1.1},
}

func (e *Engine) computerName(difficulty entities.Difficulty, seat int) string {
	names := computerNames[difficulty]
	if len(names) == 0 {
		return fmt.Sprintf("Computer %d", seat)
	}
	return names[e.rand.IntN(len(names))]
}

func (e *Engine) baselineStats(name string, difficulty entities.Difficulty) *entities.PlayerStatistics {
	stats := entities.NewPlayerStatistics(name)
	b, ok := baselines[difficulty]
	if !ok {
		return stats
	}

	stats.GamesPlayed = b.games
	stats.GamesWon = int(float64(b.games) * b.winRate)
	stats.WinRate = b.winRate
	stats.AverageCardsLeft = b.averageCardsLeft
	stats.FavoriteColor = entities.ChromaticColors[e.rand.IntN(len(entities.ChromaticColors))]
	stats.TotalPlayTime = int64(b.games * baselineSecondsPerGame)
	stats.LastUpdated = e.clock.Now()
	return stats
}
