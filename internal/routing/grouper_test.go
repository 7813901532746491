package routing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"city-group-router/internal/models"
)

func TestPartition(t *testing.T) {
	order := []int{4, 2, 0, 1, 3}

	groups, err := Partition(order, []int{2, 1, 2})

	require.NoError(t, err)
	assert.Equal(t, []models.Group{{4, 2}, {0}, {1, 3}}, groups)
	require.NoError(t, ValidatePartition(groups, 5))

	// groups must not alias the order
	groups[0][0] = 99
	assert.Equal(t, 4, order[0])
}

func TestPartition_CapacityMismatch(t *testing.T) {
	tests := []struct {
		name  string
		order []int
		sizes []int
	}{
		{"sizes too small", []int{0, 1, 2}, []int{1, 1}},
		{"sizes too large", []int{0, 1}, []int{2, 1}},
		{"zero size", []int{0, 1}, []int{2, 0}},
		{"negative size", []int{0, 1}, []int{3, -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Partition(tt.order, tt.sizes)
			assert.True(t, errors.Is(err, ErrCapacityMismatch))
		})
	}
}

func TestValidatePartition(t *testing.T) {
	tests := []struct {
		name   string
		groups []models.Group
		reason string
		city   int
	}{
		{"duplicate", []models.Group{{0, 1}, {1, 2}}, "city owned twice", 1},
		{"missing", []models.Group{{0, 1}, {}}, "city not owned", 2},
		{"out of range", []models.Group{{0, 1, 5}}, "id out of range", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePartition(tt.groups, 3)
			var broken *ErrPartitionBroken
			require.True(t, errors.As(err, &broken))
			assert.Equal(t, tt.reason, broken.Reason)
			assert.Equal(t, tt.city, broken.CityID)
		})
	}

	assert.NoError(t, ValidatePartition([]models.Group{{2}, {0, 1}}, 3))
}
