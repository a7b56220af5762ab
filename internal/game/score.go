package game

import "math"

// MaxRoundScore is awarded for a guess within scoreBands[0].
const MaxRoundScore = 5000

var scoreBands = []struct {
	under float64
	score int
}{
	{10, 5000},
	{50, 4000},
	{100, 3000},
	{500, 2000},
	{1000, 1000},
}

// Score maps a guess distance in kilometres to a round score. Short
// distances fall into fixed bands; from 1000 km on the score decays
// exponentially, so the curve jumps from 1000 to 3032 at the boundary.
func Score(distanceKm float64) int {
	if math.IsNaN(distanceKm) {
		return 0
	}
	for _, b := range scoreBands {
		if distanceKm < b.under {
			return b.score
		}
	}
	s := int(math.Floor(MaxRoundScore * math.Exp(-distanceKm/2000)))
	if s < 0 {
		return 0
	}
	return s
}
