package sampledata

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/okian/gaffer/internal/domain/model"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	formTierDivisor    = 8
	statusDivisor      = 10
)

// Constants for per-match point generation ranges by form tier.
const (
	avgFormMin      = 2.0
	avgFormRange    = 4.0
	hotFormMin      = 7.0
	hotFormRange    = 3.0
	coldFormMin     = 0.0
	coldFormRange   = 2.0
	eliteFormMin    = 9.0
	eliteFormRange  = 3.0
	benchFormMin    = 0.0
	benchFormRange  = 1.0
	steadyFormMin   = 5.0
	steadyFormRange = 2.0
	streakFormMin   = 1.0
	streakFormRange = 6.0
	wideFormMin     = 0.0
	wideFormRange   = 10.0
)

// Constants for form tier cases.
const (
	caseAverageForm = 0
	caseHotForm     = 1
	caseColdForm    = 2
	caseEliteForm   = 3
	caseBenchForm   = 4
	caseSteadyForm  = 5
	caseStreakForm  = 6
	caseWideForm    = 7
)

// Price and history generation constants.
const (
	recentMatches      = 5
	historyLength      = 6
	priceDriftSpan     = 0.4 // max absolute per-step drift in millions
	fullSeasonGames    = 10
	minutesPerFullGame = 90
)

// Base prices by position, in millions.
var basePrices = map[model.Position]float64{ //nolint:gochecknoglobals // static lookup table
	model.Goalkeeper: 4.5,
	model.Defender:   5.0,
	model.Midfielder: 7.0,
	model.Forward:    9.0,
}

// laLigaTeams mirrors the default strength table shipped in config.
var laLigaTeams = []string{ //nolint:gochecknoglobals // static lookup table
	"Real Madrid", "Barcelona", "Atletico Madrid", "Athletic Bilbao",
	"Real Sociedad", "Villarreal", "Real Betis", "Valencia", "Sevilla",
	"Celta Vigo", "Osasuna", "Rayo Vallecano", "Mallorca", "Getafe",
	"Girona", "Las Palmas", "Leganes", "Valladolid", "Espanyol", "Alaves",
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

func randomInt(n int64) int64 {
	v, _ := rand.Int(rand.Reader, big.NewInt(n))
	return v.Int64()
}

// squadPositions yields a plausible formation split for n players by
// cycling through a 2-5-5-3 template.
func squadPositions(n int) []model.Position {
	template := []model.Position{
		model.Goalkeeper, model.Goalkeeper,
		model.Defender, model.Defender, model.Defender, model.Defender, model.Defender,
		model.Midfielder, model.Midfielder, model.Midfielder, model.Midfielder, model.Midfielder,
		model.Forward, model.Forward, model.Forward,
	}
	out := make([]model.Position, n)
	for i := 0; i < n; i++ {
		out[i] = template[i%len(template)]
	}
	return out
}

// generateRecentPoints builds a form run from one of the tiers.
func generateRecentPoints() []float64 {
	lo, span := formTier()
	out := make([]float64, recentMatches)
	for i := range out {
		out[i] = lo + getRandomFloat()*span
	}
	return out
}

func formTier() (float64, float64) {
	switch randomInt(formTierDivisor) {
	case caseAverageForm:
		return avgFormMin, avgFormRange
	case caseHotForm:
		return hotFormMin, hotFormRange
	case caseColdForm:
		return coldFormMin, coldFormRange
	case caseEliteForm:
		return eliteFormMin, eliteFormRange
	case caseBenchForm:
		return benchFormMin, benchFormRange
	case caseSteadyForm:
		return steadyFormMin, steadyFormRange
	case caseStreakForm:
		return streakFormMin, streakFormRange
	case caseWideForm:
		return wideFormMin, wideFormRange
	default:
		return wideFormMin, wideFormRange
	}
}

// generateStatus returns mostly available players with occasional
// doubts and absences.
func generateStatus() model.Status {
	switch randomInt(statusDivisor) {
	case 0:
		return model.Doubtful
	case 1:
		return model.Injured
	default:
		return model.Available
	}
}

// generatePriceHistory drifts backwards from the current price.
func generatePriceHistory(price float64) []float64 {
	out := make([]float64, historyLength)
	p := price
	for i := historyLength - 1; i >= 0; i-- {
		out[i] = p
		drift := (getRandomFloat() - 0.5) * priceDriftSpan
		p -= drift
		if p < 0.5 {
			p = 0.5
		}
	}
	return out
}

func generateOpponents() []string {
	out := make([]string, 3)
	for i := range out {
		out[i] = laLigaTeams[randomInt(int64(len(laLigaTeams)))]
	}
	return out
}

// generatePlayer builds one player at the given position.
func generatePlayer(index int, pos model.Position) model.Player {
	price := basePrices[pos] + getRandomFloat()*4.0
	recent := generateRecentPoints()

	total := 0.0
	for _, p := range recent {
		total += p
	}
	games := fullSeasonGames - int(randomInt(4))
	status := generateStatus()
	minutes := games * (minutesPerFullGame - int(randomInt(45)))

	return model.Player{
		ID:            uuid.New().String(),
		Name:          fmt.Sprintf("Player %d", index+1),
		Team:          laLigaTeams[randomInt(int64(len(laLigaTeams)))],
		Position:      pos,
		Price:         price,
		TotalPoints:   int(total * 2),
		RecentPoints:  recent,
		Status:        status,
		MinutesPlayed: minutes,
		GamesPlayed:   games,
		NextOpponents: generateOpponents(),
		PriceHistory:  generatePriceHistory(price),
	}
}

// GenerateSquad builds a squad whose declared total value always
// satisfies the budget invariant.
func GenerateSquad(size int) model.Squad {
	positions := squadPositions(size)
	players := make([]model.Player, size)
	sum := 0.0
	for i := range players {
		players[i] = generatePlayer(i, positions[i])
		sum += players[i].Price
	}
	bankroll := getRandomFloat() * 5.0
	return model.Squad{
		Players:    players,
		Bankroll:   bankroll,
		TotalValue: sum + bankroll,
	}
}

// GenerateMarket builds a market listing.
func GenerateMarket(size int) model.Market {
	positions := squadPositions(size)
	players := make([]model.Player, size)
	for i := range players {
		players[i] = generatePlayer(i, positions[i])
	}
	return model.Market{Players: players}
}

// GenerateRivals builds rival squads that own random subsets of the
// given player pool.
func GenerateRivals(count int, pool []model.Player) []model.RivalSquad {
	rivals := make([]model.RivalSquad, count)
	for i := range rivals {
		owned := make([]string, 0, len(pool)/2)
		for _, p := range pool {
			if randomInt(2) == 0 {
				owned = append(owned, p.ID)
			}
		}
		rivals[i] = model.RivalSquad{
			ManagerID: uuid.New().String(),
			PlayerIDs: owned,
		}
	}
	return rivals
}
