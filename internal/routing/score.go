package routing

import (
	"city-group-router/internal/models"
)

// GroupScore is the open-path length of one group
func GroupScore(cities []models.City, group models.Group) float64 {
	score := 0.0
	for i := 0; i+1 < len(group); i++ {
		score += models.Dist(cities[group[i]], cities[group[i+1]])
	}
	return score
}

// FullScore is the sum of all group path lengths
func FullScore(cities []models.City, groups []models.Group) float64 {
	score := 0.0
	for _, g := range groups {
		score += GroupScore(cities, g)
	}
	return score
}

// localScore sums the (at most two) path edges touching position pos
func localScore(cities []models.City, group models.Group, pos int) float64 {
	score := 0.0
	c := cities[group[pos]]
	if pos > 0 {
		score += models.Dist(cities[group[pos-1]], c)
	}
	if pos+1 < len(group) {
		score += models.Dist(c, cities[group[pos+1]])
	}
	return score
}

// SwapDelta swaps groups[i][ii] with groups[j][jj] in place and returns the
// resulting change in FullScore. i and j must differ.
func SwapDelta(cities []models.City, groups []models.Group, i, ii, j, jj int) float64 {
	before := localScore(cities, groups[i], ii) + localScore(cities, groups[j], jj)
	groups[i][ii], groups[j][jj] = groups[j][jj], groups[i][ii]
	after := localScore(cities, groups[i], ii) + localScore(cities, groups[j], jj)
	return after - before
}

// DeltaScore returns the change in FullScore the swap would cause, leaving
// the groups as they were.
func DeltaScore(cities []models.City, groups []models.Group, i, ii, j, jj int) float64 {
	delta := SwapDelta(cities, groups, i, ii, j, jj)
	groups[i][ii], groups[j][jj] = groups[j][jj], groups[i][ii]
	return delta
}
