package main

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"city-group-router/internal/edges"
	"city-group-router/internal/routing"
)

// parseConfig reads flags over environment defaults. The bare arguments
// "debug" and "climb0_count=N" are accepted after the flags.
func parseConfig(args []string, getenv func(string) string) (routing.Config, error) {
	cfg := routing.DefaultConfig()
	env := func(key, defaultValue string) string {
		if value := getenv(key); value != "" {
			return value
		}
		return defaultValue
	}

	iterDefault, err := strconv.Atoi(env("SOLVER_ITERATIONS", strconv.Itoa(cfg.Iterations)))
	if err != nil {
		return cfg, fmt.Errorf("invalid SOLVER_ITERATIONS: %w", err)
	}
	debugDefault, err := strconv.ParseBool(env("SOLVER_DEBUG", "false"))
	if err != nil {
		return cfg, fmt.Errorf("invalid SOLVER_DEBUG: %w", err)
	}

	fs := flag.NewFlagSet("solver", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	iterations := fs.Int("iterations", iterDefault, "local search iterations")
	debug := fs.Bool("debug", debugDefault, "log every improvement and validate the partition")
	edgeFlag := fs.String("edges", env("SOLVER_EDGES", string(cfg.EdgeStrategy)), "edge strategy: oracle or mst")
	tourFlag := fs.String("tour", env("SOLVER_TOUR", string(cfg.TourStrategy)), "initial tour: auto, stripe or insertion")
	seed := fs.Uint64("seed", cfg.Seed, "local search seed")
	subCells := fs.Int("subcells", 0, "stripe sub-cells per side (0 = default)")
	insertionLimit := fs.Int("insertion-limit", 0, "skip cheapest insertion above this many cities under -tour auto (0 = no limit)")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	cfg.Iterations = *iterations
	cfg.Debug = *debug
	cfg.Seed = *seed
	cfg.Tour = routing.TourOptions{SubCells: *subCells, InsertionLimit: *insertionLimit}
	if cfg.EdgeStrategy, err = edges.ParseStrategy(*edgeFlag); err != nil {
		return cfg, err
	}
	if cfg.TourStrategy, err = routing.ParseTourStrategy(*tourFlag); err != nil {
		return cfg, err
	}

	for _, arg := range fs.Args() {
		switch {
		case arg == "debug":
			cfg.Debug = true
		case strings.HasPrefix(arg, "climb0_count="):
			n, err := strconv.Atoi(strings.TrimPrefix(arg, "climb0_count="))
			if err != nil {
				return cfg, fmt.Errorf("invalid argument %q: %w", arg, err)
			}
			cfg.Iterations = n
		default:
			return cfg, fmt.Errorf("unknown argument %q", arg)
		}
	}

	if cfg.Iterations < 0 {
		return cfg, fmt.Errorf("iterations must not be negative, got %d", cfg.Iterations)
	}
	return cfg, nil
}
