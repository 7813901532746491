package routing

import (
	"log"
	"time"

	"city-group-router/internal/models"
	"city-group-router/internal/rng"
)

// DefaultIterations is the local search budget used when none is configured
const DefaultIterations = 400000

// Climber is a greedy hill-climber that swaps single cities between groups
type Climber struct {
	Iterations int
	Debug      bool
}

// ClimbStats describes one Climb call
type ClimbStats struct {
	Iterations int     `json:"iterations"`
	Skipped    int     `json:"skipped"`
	Accepted   int     `json:"accepted"`
	Improved   int     `json:"improved"`
	Before     float64 `json:"before"`
	After      float64 `json:"after"`
}

// Climb mutates groups in place. Each iteration draws two groups and one
// position in each, swaps the cities and keeps the swap unless it makes the
// total score worse. Draws that hit the same group or a group of size one are
// skipped but still use up an iteration.
func (c *Climber) Climb(cities []models.City, groups []models.Group, r *rng.Rand) ClimbStats {
	start := time.Now()
	score := FullScore(cities, groups)
	stats := ClimbStats{Before: score}

	if len(groups) < 2 {
		stats.Iterations = c.Iterations
		stats.Skipped = c.Iterations
		stats.After = score
		return stats
	}

	for it := 0; it < c.Iterations; it++ {
		stats.Iterations++
		i := r.Intn(len(groups))
		j := r.Intn(len(groups))
		if i == j {
			stats.Skipped++
			continue
		}
		if len(groups[i]) <= 1 || len(groups[j]) <= 1 {
			stats.Skipped++
			continue
		}
		ii := r.Intn(len(groups[i]))
		jj := r.Intn(len(groups[j]))

		delta := SwapDelta(cities, groups, i, ii, j, jj)
		if delta > 0 {
			// revert
			groups[i][ii], groups[j][jj] = groups[j][jj], groups[i][ii]
			continue
		}

		stats.Accepted++
		if delta < 0 {
			stats.Improved++
			if c.Debug {
				log.Printf("[ROUTING] score improvement: %.3f -> %.3f", score, score+delta)
			}
		}
		score += delta
	}

	stats.After = score
	log.Printf("[ROUTING] Local search: iterations=%d accepted=%d improved=%d score %.1f -> %.1f (%v)",
		stats.Iterations, stats.Accepted, stats.Improved, stats.Before, stats.After, time.Since(start))
	return stats
}
