package routing

import (
	"context"
	"fmt"
	"log"
	"time"

	"city-group-router/internal/edges"
	"city-group-router/internal/models"
	"city-group-router/internal/protocol"
	"city-group-router/internal/rng"
)

// Config holds everything the engine can be tuned with at process start
type Config struct {
	Iterations   int
	Debug        bool
	Seed         uint64
	TourStrategy TourStrategy
	EdgeStrategy edges.Strategy
	Tour         TourOptions
}

// DefaultConfig matches the solver's command-line defaults
func DefaultConfig() Config {
	return Config{
		Iterations:   DefaultIterations,
		Seed:         rng.DefaultSeed,
		TourStrategy: TourAuto,
		EdgeStrategy: edges.StrategyOracle,
	}
}

// Request is one solve call
type Request struct {
	Instance *models.Instance
	// Oracle is required by the oracle edge strategy only.
	Oracle protocol.Oracle
}

// Result is the engine's output plus what it learned along the way
type Result struct {
	Answer       *models.Answer
	InitialOrder []int
	Chosen       TourStrategy
	InitialScore float64
	Climb        ClimbStats
	Queries      int
}

// Engine runs the whole pipeline: initial order, grouping, local search, edges
type Engine struct {
	cfg Config
}

// NewEngine creates an engine with the given config
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Solve builds the answer for one instance
func (e *Engine) Solve(ctx context.Context, req *Request) (*Result, error) {
	in := req.Instance
	totalStart := time.Now()
	log.Printf("[ROUTING] Starting calculation: cities=%d groups=%d window=%d tour=%s edges=%s",
		in.N, len(in.Sizes), in.L, e.cfg.TourStrategy, e.cfg.EdgeStrategy)

	cities := in.Cities()
	order, chosen, _ := BuildInitialOrder(cities, in.W, e.cfg.TourStrategy, e.cfg.Tour)

	groups, err := Partition(order, in.Sizes)
	if err != nil {
		return nil, err
	}
	initial := FullScore(cities, groups)

	climber := &Climber{Iterations: e.cfg.Iterations, Debug: e.cfg.Debug}
	stats := climber.Climb(cities, groups, rng.New(e.cfg.Seed))
	if e.cfg.Debug {
		if err := ValidatePartition(groups, in.N); err != nil {
			return nil, fmt.Errorf("after local search: %w", err)
		}
	}

	extractor, err := edges.New(e.cfg.EdgeStrategy, edges.Deps{
		Cities: cities,
		Oracle: req.Oracle,
		Window: in.L,
		Budget: in.Q,
	})
	if err != nil {
		return nil, err
	}
	groupEdges, err := extractor.Extract(ctx, groups)
	if err != nil {
		return nil, fmt.Errorf("edge extraction failed: %w", err)
	}

	res := &Result{
		Answer:       &models.Answer{Groups: groups, Edges: groupEdges},
		InitialOrder: order,
		Chosen:       chosen,
		InitialScore: initial,
		Climb:        stats,
	}
	if ox, ok := extractor.(*edges.OracleExtractor); ok {
		res.Queries = ox.Used()
	}

	log.Printf("[ROUTING] Calculation complete: score=%.1f queries=%d (%v)", stats.After, res.Queries, time.Since(totalStart))
	return res, nil
}
