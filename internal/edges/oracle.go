package edges

import (
	"context"
	"fmt"
	"log"

	"city-group-router/internal/models"
	"city-group-router/internal/protocol"
)

// minWindow is the smallest window worth a query; two cities need no oracle
const minWindow = 3

// OracleExtractor slides a window over each group's path and asks the oracle
// for the edges inside every window. Consecutive windows share one city, so
// each group ends up with exactly size-1 edges.
type OracleExtractor struct {
	oracle protocol.Oracle
	window int
	budget int
	used   int
}

// NewOracleExtractor creates an extractor that sends windows of at most
// window cities and at most budget queries in total (0 = unlimited).
func NewOracleExtractor(oracle protocol.Oracle, window, budget int) *OracleExtractor {
	return &OracleExtractor{oracle: oracle, window: window, budget: budget}
}

// Used returns the number of queries sent so far
func (x *OracleExtractor) Used() int {
	return x.used
}

func (x *OracleExtractor) Extract(ctx context.Context, groups []models.Group) ([][]models.Edge, error) {
	out := make([][]models.Edge, len(groups))
	for k, g := range groups {
		edges, err := x.extractGroup(ctx, g)
		if err != nil {
			return nil, fmt.Errorf("group %d: %w", k, err)
		}
		out[k] = edges
	}
	log.Printf("[EDGES] Oracle extraction complete: groups=%d queries=%d", len(groups), x.used)
	return out, nil
}

func (x *OracleExtractor) extractGroup(ctx context.Context, g models.Group) ([]models.Edge, error) {
	size := len(g)
	if size < 2 {
		return []models.Edge{}, nil
	}

	edges := make([]models.Edge, 0, size-1)
	i := 0
	for i+1 < size {
		remaining := size - i
		if remaining < minWindow || x.window < minWindow || x.exhausted() {
			// Nothing left worth asking about: chain the rest in path order.
			for ; i+1 < size; i++ {
				edges = append(edges, models.Edge{A: g[i], B: g[i+1]})
			}
			break
		}

		k := min(x.window, remaining)
		got, err := x.oracle.Query(ctx, g[i:i+k])
		if err != nil {
			return nil, err
		}
		x.used++
		if len(got) != k-1 {
			return nil, fmt.Errorf("oracle returned %d edges for %d cities: %w", len(got), k, protocol.ErrProtocol)
		}
		edges = append(edges, got...)
		i += k - 1
	}
	return edges, nil
}

func (x *OracleExtractor) exhausted() bool {
	return x.budget > 0 && x.used >= x.budget
}

// WindowCount is the number of queries the sliding rule sends for one group
// of the given size with an unlimited budget.
func WindowCount(size, window int) int {
	if window < minWindow {
		return 0
	}
	count := 0
	for i := 0; size-i >= minWindow; {
		k := min(window, size-i)
		count++
		i += k - 1
	}
	return count
}
