package edges

import (
	"context"
	"log"
	"sort"

	"city-group-router/internal/models"
	"city-group-router/internal/unionfind"
)

// MSTExtractor builds a minimum spanning tree per group from midpoint
// distances. It ignores the group's path order.
type MSTExtractor struct {
	cities []models.City
}

// NewMSTExtractor creates an extractor over the given cities
func NewMSTExtractor(cities []models.City) *MSTExtractor {
	return &MSTExtractor{cities: cities}
}

type candidate struct {
	a, b int
	dist float64
}

func (x *MSTExtractor) Extract(ctx context.Context, groups []models.Group) ([][]models.Edge, error) {
	// One forest over the whole universe; groups are disjoint so their
	// components never touch.
	forest := unionfind.New(len(x.cities))
	out := make([][]models.Edge, len(groups))
	for k, g := range groups {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[k] = x.spanningTree(forest, g)
	}
	log.Printf("[EDGES] MST extraction complete: groups=%d", len(groups))
	return out, nil
}

// spanningTree runs Kruskal over all pairs of the group
func (x *MSTExtractor) spanningTree(forest *unionfind.Forest, g models.Group) []models.Edge {
	if len(g) < 2 {
		return []models.Edge{}
	}

	pairs := make([]candidate, 0, len(g)*(len(g)-1)/2)
	for i := 0; i < len(g); i++ {
		for j := i + 1; j < len(g); j++ {
			pairs = append(pairs, candidate{
				a:    g[i],
				b:    g[j],
				dist: models.Dist(x.cities[g[i]], x.cities[g[j]]),
			})
		}
	}
	// Stable so equal distances keep path-pair order.
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].dist < pairs[j].dist
	})

	edges := make([]models.Edge, 0, len(g)-1)
	for _, p := range pairs {
		if forest.Union(p.a, p.b) {
			edges = append(edges, models.Edge{A: p.a, B: p.b})
			if len(edges) == len(g)-1 {
				break
			}
		}
	}
	return edges
}
