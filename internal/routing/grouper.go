package routing

import (
	"fmt"

	"city-group-router/internal/models"
)

// Partition slices the global order into contiguous groups of the given sizes
func Partition(order []int, sizes []int) ([]models.Group, error) {
	total := 0
	for i, s := range sizes {
		if s <= 0 {
			return nil, fmt.Errorf("group %d has size %d: %w", i, s, ErrCapacityMismatch)
		}
		total += s
	}
	if total != len(order) {
		return nil, fmt.Errorf("sizes sum to %d, cities=%d: %w", total, len(order), ErrCapacityMismatch)
	}

	groups := make([]models.Group, 0, len(sizes))
	start := 0
	for _, s := range sizes {
		g := make(models.Group, s)
		copy(g, order[start:start+s])
		groups = append(groups, g)
		start += s
	}
	return groups, nil
}

// ValidatePartition checks that every city id in [0, n) is owned by exactly one group
func ValidatePartition(groups []models.Group, n int) error {
	seen := make([]bool, n)
	count := 0
	for _, g := range groups {
		for _, c := range g {
			if c < 0 || c >= n {
				return &ErrPartitionBroken{Reason: "id out of range", CityID: c}
			}
			if seen[c] {
				return &ErrPartitionBroken{Reason: "city owned twice", CityID: c}
			}
			seen[c] = true
			count++
		}
	}
	if count != n {
		for c, ok := range seen {
			if !ok {
				return &ErrPartitionBroken{Reason: "city not owned", CityID: c}
			}
		}
	}
	return nil
}
