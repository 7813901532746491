package routing

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"city-group-router/internal/models"
	"city-group-router/internal/rng"
	"city-group-router/internal/testutil"
)

func assertPermutation(t *testing.T, order []int, n int) {
	t.Helper()
	require.Len(t, order, n)
	sorted := append([]int(nil), order...)
	sort.Ints(sorted)
	assert.Equal(t, identityOrder(n), sorted)
}

func TestStripeOrder_Boustrophedon(t *testing.T) {
	// Two stripes of width 50: the first walks up, the second walks down.
	cities := testutil.Cities(
		[2]float64{60, 10},
		[2]float64{10, 80},
		[2]float64{60, 80},
		[2]float64{10, 10},
	)

	order := StripeOrder(cities, 100, TourOptions{})

	assert.Equal(t, []int{3, 1, 2, 0}, order)
}

func TestStripeOrder_NegativeCoordinatesFoldIntoFirstCell(t *testing.T) {
	cities := testutil.Cities(
		[2]float64{50, 50},
		[2]float64{-50, -50},
		[2]float64{10, 10},
	)

	order := StripeOrder(cities, 100, TourOptions{})

	assertPermutation(t, order, 3)
	assert.Equal(t, 1, order[0])
}

func TestStripeGrid_KeysContinuePastW(t *testing.T) {
	grid := newStripeGrid(100, 0)
	cities := testutil.Cities(
		[2]float64{1000, 10},
		[2]float64{1060, 10},
		[2]float64{10, 1000},
		[2]float64{10, 1030},
		[2]float64{5000, 5000},
	)

	keys := make([]stripeKey, len(cities))
	for i, c := range cities {
		keys[i] = grid.key(c)
	}

	assert.NotEqual(t, keys[0].stripe, keys[1].stripe)
	assert.NotEqual(t, keys[2].row, keys[3].row)
	assert.Equal(t, 100, keys[4].stripe)
	for i := range keys {
		for j := i + 1; j < len(keys); j++ {
			assert.NotEqual(t, keys[i], keys[j], "cities %d and %d share a cell", i, j)
		}
	}
}

func TestStripeOrder_GridBeyondW(t *testing.T) {
	// 20x20 grid 500 apart, w=1000: one column per stripe, one city per row,
	// so the walk is a perfect snake.
	in := testutil.GridInstance(20, 20, 500, []int{400}, 3, 0)
	cities := in.Cities()

	order := StripeOrder(cities, 1000, TourOptions{})

	assertPermutation(t, order, 400)
	assert.InDelta(t, 399*500.0, PathLength(cities, order), 1e-9)
}

func TestStripeOrder_ScatteredBeyondW(t *testing.T) {
	cities := randomCities(rng.New(7), 800)

	stripe := PathLength(cities, StripeOrder(cities, 1000, TourOptions{}))
	identity := PathLength(cities, identityOrder(len(cities)))

	assert.Less(t, stripe*5, identity)
}

func TestStripeOrder_Permutation(t *testing.T) {
	r := rng.New(7)
	cities := randomCities(r, 300)

	order := StripeOrder(cities, 1000, TourOptions{SubCells: 4})

	assertPermutation(t, order, 300)
}

func TestInsertionOrder_Permutation(t *testing.T) {
	r := rng.New(11)
	cities := randomCities(r, 80)

	order := InsertionOrder(cities)

	assertPermutation(t, order, 80)
	assert.Empty(t, InsertionOrder(nil))
	assert.Equal(t, []int{0}, InsertionOrder(testutil.Cities([2]float64{5, 5})))
}

func TestInsertionOrder_Collinear(t *testing.T) {
	cities := testutil.Cities(
		[2]float64{0, 0},
		[2]float64{30, 0},
		[2]float64{10, 0},
		[2]float64{20, 0},
	)

	order := InsertionOrder(cities)

	assert.InDelta(t, 30.0, PathLength(cities, order), 1e-9)
}

func TestInsertionOrder_NotWorseThanStripeOnLine(t *testing.T) {
	r := rng.New(3)
	cities := make([]models.City, 50)
	for i := range cities {
		cities[i] = models.City{ID: i, X: float64(r.Intn(1000)), Y: 0}
	}

	order := InsertionOrder(cities)

	assert.InDelta(t, 0.0, PathLength(cities, order)-spanX(cities), 1e-6)
}

func spanX(cities []models.City) float64 {
	lo, hi := cities[0].X, cities[0].X
	for _, c := range cities {
		lo = min(lo, c.X)
		hi = max(hi, c.X)
	}
	return hi - lo
}

func TestChooseOrder(t *testing.T) {
	cities := testutil.Cities([2]float64{0, 0}, [2]float64{10, 0}, [2]float64{5, 0})

	t.Run("insertion strictly shorter", func(t *testing.T) {
		order, chosen, length := ChooseOrder(cities, []int{0, 1, 2}, []int{0, 2, 1})
		assert.Equal(t, []int{0, 2, 1}, order)
		assert.Equal(t, TourInsertion, chosen)
		assert.InDelta(t, 10.0, length, 1e-9)
	})

	t.Run("tie keeps stripe", func(t *testing.T) {
		order, chosen, length := ChooseOrder(cities, []int{1, 2, 0}, []int{0, 2, 1})
		assert.Equal(t, []int{1, 2, 0}, order)
		assert.Equal(t, TourStripe, chosen)
		assert.InDelta(t, 10.0, length, 1e-9)
	})
}

func TestBuildInitialOrder_Square(t *testing.T) {
	in := testutil.SquareInstance()
	cities := in.Cities()

	for _, strategy := range []TourStrategy{TourStripe, TourInsertion} {
		order, chosen, length := BuildInitialOrder(cities, in.W, strategy, TourOptions{})
		assertPermutation(t, order, 4)
		assert.Equal(t, strategy, chosen)
		assert.InDelta(t, 30.0, length, 1e-9, "strategy %s", strategy)
	}

	order, chosen, length := BuildInitialOrder(cities, in.W, TourAuto, TourOptions{})
	assert.Equal(t, []int{0, 1, 2, 3}, order)
	assert.Equal(t, TourStripe, chosen)
	assert.InDelta(t, 30.0, length, 1e-9)
}

func TestBuildInitialOrder_InsertionLimit(t *testing.T) {
	r := rng.New(5)
	cities := randomCities(r, 40)

	_, chosen, _ := BuildInitialOrder(cities, 10000, TourAuto, TourOptions{InsertionLimit: 10})

	assert.Equal(t, TourStripe, chosen)
}

func TestParseTourStrategy(t *testing.T) {
	s, err := ParseTourStrategy("")
	require.NoError(t, err)
	assert.Equal(t, TourAuto, s)

	s, err = ParseTourStrategy("insertion")
	require.NoError(t, err)
	assert.Equal(t, TourInsertion, s)

	_, err = ParseTourStrategy("spiral")
	assert.Error(t, err)
}
