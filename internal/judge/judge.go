package judge

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"city-group-router/internal/models"
	"city-group-router/internal/unionfind"
)

// ErrInvalidAnswer is returned when the solver's answer breaks the rules
var ErrInvalidAnswer = errors.New("invalid answer")

// ErrInvalidQuery is returned when a query breaks the rules
var ErrInvalidQuery = errors.New("invalid query")

// ErrJudgeFailed describes why a run scored zero
type ErrJudgeFailed struct {
	Reason string
	Cause  error
}

func (e *ErrJudgeFailed) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("judge failed: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("judge failed: %s", e.Reason)
}

func (e *ErrJudgeFailed) Unwrap() error { return e.Cause }

// Case is an instance together with the true city locations
type Case struct {
	Instance *models.Instance
	Truth    []models.Point
}

// Judge answers queries from the true locations and scores answers
type Judge struct {
	c       *Case
	queries int
}

// New creates a judge for one case
func New(c *Case) *Judge {
	return &Judge{c: c}
}

// Queries returns how many queries were answered
func (j *Judge) Queries() int {
	return j.queries
}

func (j *Judge) trueDist(a, b int) float64 {
	pa, pb := j.c.Truth[a], j.c.Truth[b]
	dx := float64(pa.X - pb.X)
	dy := float64(pa.Y - pb.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Query returns the minimum spanning tree of the cities at their true
// locations. It also satisfies protocol.Oracle so the engine can be run
// against a judge in-process.
func (j *Judge) Query(ctx context.Context, cities []int) ([]models.Edge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	in := j.c.Instance
	if in.Q > 0 && j.queries >= in.Q {
		return nil, fmt.Errorf("more than %d queries: %w", in.Q, ErrInvalidQuery)
	}
	if len(cities) < 2 || len(cities) > in.L {
		return nil, fmt.Errorf("query size %d outside [2, %d]: %w", len(cities), in.L, ErrInvalidQuery)
	}
	seen := make(map[int]bool, len(cities))
	for _, c := range cities {
		if c < 0 || c >= in.N {
			return nil, fmt.Errorf("city %d out of range: %w", c, ErrInvalidQuery)
		}
		if seen[c] {
			return nil, fmt.Errorf("city %d repeated: %w", c, ErrInvalidQuery)
		}
		seen[c] = true
	}
	j.queries++
	tree, _ := j.spanningTree(cities)
	return tree, nil
}

type pair struct {
	a, b int
	dist float64
}

// spanningTree runs Kruskal at true locations; ties break by (a, b) ids
func (j *Judge) spanningTree(cities []int) ([]models.Edge, float64) {
	pairs := make([]pair, 0, len(cities)*(len(cities)-1)/2)
	for x := 0; x < len(cities); x++ {
		for y := x + 1; y < len(cities); y++ {
			a, b := cities[x], cities[y]
			if a > b {
				a, b = b, a
			}
			pairs = append(pairs, pair{a: a, b: b, dist: j.trueDist(a, b)})
		}
	}
	sort.Slice(pairs, func(x, y int) bool {
		if pairs[x].dist != pairs[y].dist {
			return pairs[x].dist < pairs[y].dist
		}
		if pairs[x].a != pairs[y].a {
			return pairs[x].a < pairs[y].a
		}
		return pairs[x].b < pairs[y].b
	})

	forest := unionfind.New(j.c.Instance.N)
	tree := make([]models.Edge, 0, len(cities)-1)
	cost := 0.0
	for _, p := range pairs {
		if forest.Union(p.a, p.b) {
			tree = append(tree, models.Edge{A: p.a, B: p.b})
			cost += p.dist
			if len(tree) == len(cities)-1 {
				break
			}
		}
	}
	return tree, cost
}

// Score is the judged outcome of one answer
type Score struct {
	Score      int64     `json:"score"`
	Cost       float64   `json:"cost"`
	Reference  float64   `json:"reference"`
	GroupCosts []float64 `json:"group_costs"`
}

// Evaluate validates the answer and scores it.
// Cost is the true length of all answer edges; the reference is the sum of
// per-group minimum spanning trees at true locations, so a perfect answer
// scores 10^6.
func (j *Judge) Evaluate(ans *models.Answer) (*Score, error) {
	if err := j.validate(ans); err != nil {
		return nil, err
	}

	s := &Score{GroupCosts: make([]float64, len(ans.Groups))}
	for k, g := range ans.Groups {
		for _, e := range ans.Edges[k] {
			s.GroupCosts[k] += j.trueDist(e.A, e.B)
		}
		s.Cost += s.GroupCosts[k]
		if len(g) > 1 {
			_, ref := j.spanningTree(g)
			s.Reference += ref
		}
	}

	if s.Cost <= 0 {
		s.Score = 1000000
		return s, nil
	}
	s.Score = int64(math.Round(1e6 * s.Reference / s.Cost))
	return s, nil
}

func (j *Judge) validate(ans *models.Answer) error {
	in := j.c.Instance
	if len(ans.Groups) != len(in.Sizes) || len(ans.Edges) != len(in.Sizes) {
		return fmt.Errorf("expected %d groups: %w", len(in.Sizes), ErrInvalidAnswer)
	}

	owner := make([]int, in.N)
	for i := range owner {
		owner[i] = -1
	}
	for k, g := range ans.Groups {
		if len(g) != in.Sizes[k] {
			return fmt.Errorf("group %d has %d cities, want %d: %w", k, len(g), in.Sizes[k], ErrInvalidAnswer)
		}
		for _, c := range g {
			if c < 0 || c >= in.N {
				return fmt.Errorf("city %d out of range: %w", c, ErrInvalidAnswer)
			}
			if owner[c] >= 0 {
				return fmt.Errorf("city %d in groups %d and %d: %w", c, owner[c], k, ErrInvalidAnswer)
			}
			owner[c] = k
		}
	}

	forest := unionfind.New(in.N)
	for k, g := range ans.Groups {
		if len(ans.Edges[k]) != len(g)-1 {
			return fmt.Errorf("group %d has %d edges, want %d: %w", k, len(ans.Edges[k]), len(g)-1, ErrInvalidAnswer)
		}
		for _, e := range ans.Edges[k] {
			if e.A < 0 || e.A >= in.N || e.B < 0 || e.B >= in.N {
				return fmt.Errorf("edge (%d, %d) out of range: %w", e.A, e.B, ErrInvalidAnswer)
			}
			if owner[e.A] != k || owner[e.B] != k {
				return fmt.Errorf("edge (%d, %d) leaves group %d: %w", e.A, e.B, k, ErrInvalidAnswer)
			}
			if !forest.Union(e.A, e.B) {
				return fmt.Errorf("edge (%d, %d) closes a cycle in group %d: %w", e.A, e.B, k, ErrInvalidAnswer)
			}
		}
	}
	return nil
}
