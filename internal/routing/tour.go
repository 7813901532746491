package routing

import (
	"log"
	"math"
	"sort"
	"time"

	"city-group-router/internal/models"
)

// DefaultSubCells is the number of sub-cell divisions per cell side in stripe order
const DefaultSubCells = 8

// TourOptions tunes the initial tour builders
type TourOptions struct {
	// SubCells divides every stripe cell into SubCells x SubCells sub-cells.
	SubCells int
	// InsertionLimit skips cheapest insertion under TourAuto when the city
	// count exceeds it. Zero means no limit.
	InsertionLimit int
}

// PathLength is the open-path length of an order over all cities
func PathLength(cities []models.City, order []int) float64 {
	length := 0.0
	for i := 0; i+1 < len(order); i++ {
		length += models.Dist(cities[order[i]], cities[order[i+1]])
	}
	return length
}

type stripeKey struct {
	stripe, row, subRow, subCol int
}

func (a stripeKey) less(b stripeKey) bool {
	if a.stripe != b.stripe {
		return a.stripe < b.stripe
	}
	if a.row != b.row {
		return a.row < b.row
	}
	if a.subRow != b.subRow {
		return a.subRow < b.subRow
	}
	return a.subCol < b.subCol
}

// stripeGrid holds the cell and sub-cell dimensions derived from w
type stripeGrid struct {
	stripeW, rowH, subW, subH int
}

func newStripeGrid(w, sub int) stripeGrid {
	if sub <= 0 {
		sub = DefaultSubCells
	}
	if w < 1 {
		w = 1
	}
	g := stripeGrid{stripeW: max(1, w/2), rowH: max(1, w/4)}
	g.subW = max(1, g.stripeW/sub)
	g.subH = max(1, g.rowH/sub)
	return g
}

// key places a city in the walk. Negative coordinates fold into the first
// stripe and row; there is no upper bound, stripes and rows continue past w.
func (g stripeGrid) key(c models.City) stripeKey {
	x := max(0, int(c.X))
	y := max(0, int(c.Y))
	s := x / g.stripeW
	r := y / g.rowH
	sr := (y - r*g.rowH) / g.subH
	sc := (x - s*g.stripeW) / g.subW

	k := stripeKey{stripe: s, row: r, subRow: sr, subCol: sc}
	if s%2 == 1 {
		k.row = -r
		k.subRow = -sr
	}
	if sr%2 == 1 {
		k.subCol = -sc
	}
	return k
}

// StripeOrder orders cities along vertical stripes of width w/2, walking rows
// of height w/4 upward in even stripes and downward in odd ones. Inside a
// cell the sub-cells are walked as a snake. Cities beyond w land in further
// stripes and rows of the same size.
func StripeOrder(cities []models.City, w int, opts TourOptions) []int {
	grid := newStripeGrid(w, opts.SubCells)

	keys := make([]stripeKey, len(cities))
	order := make([]int, len(cities))
	for i, c := range cities {
		keys[i] = grid.key(c)
		order[i] = i
	}

	sort.SliceStable(order, func(a, b int) bool {
		return keys[order[a]].less(keys[order[b]])
	})
	return order
}

// InsertionOrder builds a path by greedy cheapest insertion starting from
// city 0. Every step scans all unplaced cities against all positions, so the
// whole build is O(n^3); it dominates runtime for large inputs.
// Ties go to the lowest city id, then the lowest position.
func InsertionOrder(cities []models.City) []int {
	n := len(cities)
	if n == 0 {
		return []int{}
	}

	path := make([]int, 1, n)
	path[0] = 0
	placed := make([]bool, n)
	placed[0] = true

	for len(path) < n {
		bestCost := math.Inf(1)
		bestCity := -1
		bestPos := 0

		for c := 0; c < n; c++ {
			if placed[c] {
				continue
			}
			for pos := 0; pos <= len(path); pos++ {
				cost := insertionCost(cities, path, c, pos)
				if cost < bestCost {
					bestCost = cost
					bestCity = c
					bestPos = pos
				}
			}
		}

		path = insertAt(path, bestCity, bestPos)
		placed[bestCity] = true
	}

	return path
}

// insertionCost calculates the additional length of inserting c at position pos
func insertionCost(cities []models.City, path []int, c, pos int) float64 {
	city := cities[c]
	if pos == 0 {
		return models.Dist(city, cities[path[0]])
	}
	if pos == len(path) {
		return models.Dist(cities[path[pos-1]], city)
	}

	prev := cities[path[pos-1]]
	next := cities[path[pos]]
	// Cost = dist(prev, c) + dist(c, next) - dist(prev, next)
	return models.Dist(prev, city) + models.Dist(city, next) - models.Dist(prev, next)
}

func insertAt(path []int, c, pos int) []int {
	path = append(path, 0)
	copy(path[pos+1:], path[pos:])
	path[pos] = c
	return path
}

// ChooseOrder keeps the insertion order only when it is strictly shorter.
// Ties resolve to the stripe order.
func ChooseOrder(cities []models.City, stripe, insertion []int) ([]int, TourStrategy, float64) {
	stripeLen := PathLength(cities, stripe)
	insertionLen := PathLength(cities, insertion)
	if insertionLen < stripeLen {
		return insertion, TourInsertion, insertionLen
	}
	return stripe, TourStripe, stripeLen
}

// BuildInitialOrder produces the starting global order for the given strategy
func BuildInitialOrder(cities []models.City, w int, strategy TourStrategy, opts TourOptions) ([]int, TourStrategy, float64) {
	start := time.Now()

	switch strategy {
	case TourStripe:
		order := StripeOrder(cities, w, opts)
		return order, TourStripe, PathLength(cities, order)
	case TourInsertion:
		order := InsertionOrder(cities)
		return order, TourInsertion, PathLength(cities, order)
	}

	stripe := StripeOrder(cities, w, opts)
	if opts.InsertionLimit > 0 && len(cities) > opts.InsertionLimit {
		log.Printf("[ROUTING] Skipping insertion order: cities=%d limit=%d", len(cities), opts.InsertionLimit)
		return stripe, TourStripe, PathLength(cities, stripe)
	}
	insertion := InsertionOrder(cities)

	order, chosen, length := ChooseOrder(cities, stripe, insertion)
	log.Printf("[ROUTING] Initial order: stripe=%.1f insertion=%.1f chosen=%s (%v)",
		PathLength(cities, stripe), PathLength(cities, insertion), chosen, time.Since(start))
	return order, chosen, length
}
