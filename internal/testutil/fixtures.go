package testutil

import "city-group-router/internal/models"

// PointRect is a degenerate rectangle at (x, y)
func PointRect(x, y int) models.Rect {
	return models.Rect{LX: x, RX: x, LY: y, RY: y}
}

// SquareInstance is the four corners of a 10x10 square in one group
func SquareInstance() *models.Instance {
	return &models.Instance{
		N: 4, M: 1, Q: 10, L: 4, W: 100,
		Sizes: []int{4},
		Rects: []models.Rect{
			PointRect(0, 0),
			PointRect(10, 0),
			PointRect(10, 10),
			PointRect(0, 10),
		},
	}
}

// GridInstance places cols*rows cities on a grid with the given spacing
func GridInstance(cols, rows, spacing int, sizes []int, window, budget int) *models.Instance {
	n := cols * rows
	in := &models.Instance{
		N: n, M: len(sizes), Q: budget, L: window, W: spacing * max(cols, rows),
		Sizes: sizes,
		Rects: make([]models.Rect, 0, n),
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			in.Rects = append(in.Rects, PointRect(c*spacing, r*spacing))
		}
	}
	return in
}

// Cities builds cities from (x, y) pairs
func Cities(coords ...[2]float64) []models.City {
	out := make([]models.City, len(coords))
	for i, c := range coords {
		out[i] = models.City{ID: i, X: c[0], Y: c[1]}
	}
	return out
}
