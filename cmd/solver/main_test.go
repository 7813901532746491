package main

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"city-group-router/internal/edges"
	"city-group-router/internal/judge"
	"city-group-router/internal/routing"
)

func envOf(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := parseConfig(nil, envOf(nil))

	require.NoError(t, err)
	assert.Equal(t, routing.DefaultConfig(), cfg)
}

func TestParseConfig_FlagsOverrideEnv(t *testing.T) {
	env := envOf(map[string]string{
		"SOLVER_ITERATIONS": "50",
		"SOLVER_DEBUG":      "true",
		"SOLVER_EDGES":      "mst",
	})

	cfg, err := parseConfig([]string{"-iterations", "70", "-tour", "stripe", "-seed", "9"}, env)

	require.NoError(t, err)
	assert.Equal(t, 70, cfg.Iterations)
	assert.True(t, cfg.Debug)
	assert.Equal(t, edges.StrategyMST, cfg.EdgeStrategy)
	assert.Equal(t, routing.TourStripe, cfg.TourStrategy)
	assert.Equal(t, uint64(9), cfg.Seed)
}

func TestParseConfig_LegacyArgs(t *testing.T) {
	cfg, err := parseConfig([]string{"-edges", "oracle", "debug", "climb0_count=1234"}, envOf(nil))

	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 1234, cfg.Iterations)
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"bad env iterations", nil, map[string]string{"SOLVER_ITERATIONS": "lots"}},
		{"bad env debug", nil, map[string]string{"SOLVER_DEBUG": "maybe"}},
		{"bad edges", []string{"-edges", "steiner"}, nil},
		{"bad tour", []string{"-tour", "spiral"}, nil},
		{"unknown flag", []string{"-fast"}, nil},
		{"unknown arg", []string{"turbo"}, nil},
		{"bad climb count", []string{"climb0_count=x"}, nil},
		{"negative iterations", []string{"-iterations", "-1"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseConfig(tt.args, envOf(tt.env))
			assert.Error(t, err)
		})
	}
}

func TestRun_AgainstJudge(t *testing.T) {
	c := judge.Generate(12, judge.GenParams{N: 60, M: 6, Q: 30, L: 5, W: 700})
	toSolverR, toSolverW := io.Pipe()
	fromSolverR, fromSolverW := io.Pipe()

	done := make(chan error, 1)
	go func() {
		err := run([]string{"-iterations", "5000"}, envOf(nil), toSolverR, fromSolverW)
		fromSolverW.Close()
		done <- err
	}()

	out, err := judge.Play(context.Background(), c, fromSolverR, toSolverW)
	require.NoError(t, err)
	require.NoError(t, <-done)

	assert.Greater(t, out.Score.Score, int64(0))
	assert.LessOrEqual(t, out.Queries, c.Instance.Q)
}

func TestRun_MalformedInput(t *testing.T) {
	err := run(nil, envOf(nil), strings.NewReader("not a header\n"), io.Discard)

	assert.Error(t, err)
}
