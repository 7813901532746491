package edges

import (
	"context"
	"fmt"

	"city-group-router/internal/models"
	"city-group-router/internal/protocol"
)

// Strategy selects how group edges are produced
type Strategy string

const (
	StrategyOracle Strategy = "oracle" // query the judge window by window
	StrategyMST    Strategy = "mst"    // Kruskal over midpoint distances
)

// ParseStrategy maps a flag value to a Strategy
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyOracle, StrategyMST:
		return Strategy(s), nil
	case "":
		return StrategyOracle, nil
	default:
		return "", fmt.Errorf("unknown edge strategy %q", s)
	}
}

// Extractor turns final groups into one edge set per group
type Extractor interface {
	Extract(ctx context.Context, groups []models.Group) ([][]models.Edge, error)
}

// Deps carries what the strategies may need
type Deps struct {
	Cities []models.City
	Oracle protocol.Oracle
	// Window is the largest query the judge accepts (l).
	Window int
	// Budget caps the number of queries; zero means unlimited.
	Budget int
}

// New returns the extractor for the chosen strategy
func New(strategy Strategy, deps Deps) (Extractor, error) {
	switch strategy {
	case StrategyOracle:
		if deps.Oracle == nil {
			return nil, fmt.Errorf("oracle strategy needs an oracle")
		}
		return NewOracleExtractor(deps.Oracle, deps.Window, deps.Budget), nil
	case StrategyMST:
		return NewMSTExtractor(deps.Cities), nil
	default:
		return nil, fmt.Errorf("unknown edge strategy %q", strategy)
	}
}
