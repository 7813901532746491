package judge

import (
	"sort"

	"city-group-router/internal/models"
	"city-group-router/internal/rng"
)

// Field is the side length of the square the cities live in
const Field = 10000

// GenParams controls instance generation. Zero fields take the defaults
// of the contest setting.
type GenParams struct {
	N int `yaml:"n" json:"n"`
	M int `yaml:"m" json:"m"`
	Q int `yaml:"q" json:"q"`
	L int `yaml:"l" json:"l"`
	W int `yaml:"w" json:"w"`
}

func (p GenParams) withDefaults(r *rng.Rand) GenParams {
	if p.N <= 0 {
		p.N = 800
	}
	if p.Q <= 0 {
		p.Q = 400
	}
	if p.M <= 0 {
		p.M = 1 + r.Intn(min(400, p.N))
	}
	if p.M > p.N {
		p.M = p.N
	}
	if p.L <= 0 {
		p.L = 3 + r.Intn(13)
	}
	if p.W <= 0 {
		p.W = 500 + r.Intn(2001)
	}
	return p
}

// Generate builds a random case from a seed. The same seed and params
// always produce the same case.
func Generate(seed uint64, params GenParams) *Case {
	r := rng.New(seed)
	p := params.withDefaults(r)

	in := &models.Instance{N: p.N, M: p.M, Q: p.Q, L: p.L, W: p.W}
	in.Sizes = splitSizes(r, p.N, p.M)

	truth := make([]models.Point, p.N)
	in.Rects = make([]models.Rect, p.N)
	for i := range truth {
		x, y := r.Intn(Field+1), r.Intn(Field+1)
		truth[i] = models.Point{X: x, Y: y}
		lx, rx := around(r, x, p.W)
		ly, ry := around(r, y, p.W)
		in.Rects[i] = models.Rect{LX: lx, RX: rx, LY: ly, RY: ry}
	}
	return &Case{Instance: in, Truth: truth}
}

// splitSizes cuts n into m positive parts at m-1 distinct random points
func splitSizes(r *rng.Rand, n, m int) []int {
	cuts := make(map[int]bool, m-1)
	for len(cuts) < m-1 {
		cuts[1+r.Intn(n-1)] = true
	}
	points := make([]int, 0, m+1)
	points = append(points, 0, n)
	for c := range cuts {
		points = append(points, c)
	}
	sort.Ints(points)

	sizes := make([]int, m)
	for k := 0; k < m; k++ {
		sizes[k] = points[k+1] - points[k]
	}
	return sizes
}

// around picks an interval of random width up to w that covers v and stays in the field
func around(r *rng.Rand, v, w int) (int, int) {
	width := r.Intn(w + 1)
	lo := max(0, v-width)
	hi := min(v, Field-width)
	if hi < lo {
		return max(0, v-width), min(Field, v+width)
	}
	start := lo + r.Intn(hi-lo+1)
	return start, start + width
}

// Collapse returns a copy of the case whose rectangles are the true points
func Collapse(c *Case) *Case {
	in := *c.Instance
	in.Sizes = append([]int(nil), c.Instance.Sizes...)
	in.Rects = make([]models.Rect, len(c.Truth))
	for i, p := range c.Truth {
		in.Rects[i] = models.Rect{LX: p.X, RX: p.X, LY: p.Y, RY: p.Y}
	}
	return &Case{Instance: &in, Truth: c.Truth}
}
