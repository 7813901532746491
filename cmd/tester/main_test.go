package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"city-group-router/internal/database"
	"city-group-router/internal/judge"
	"city-group-router/internal/protocol"
	"city-group-router/internal/report"
	"city-group-router/internal/routing"
	"city-group-router/internal/sqlite"
)

// helperEnv makes the test binary act as a solver when the tester runs it
const helperEnv = "TESTER_HELPER_SOLVER"

func TestMain(m *testing.M) {
	switch os.Getenv(helperEnv) {
	case "solve":
		if err := helperSolve(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		os.Exit(0)
	case "garbage":
		_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
		fmt.Println("nonsense")
		os.Exit(0)
	}
	os.Exit(m.Run())
}

func helperSolve() error {
	br := bufio.NewReader(os.Stdin)
	in, err := protocol.ReadInstance(br)
	if err != nil {
		return err
	}
	oracle := protocol.NewStreamOracle(br, os.Stdout)
	cfg := routing.DefaultConfig()
	cfg.Iterations = 2000
	res, err := routing.NewEngine(cfg).Solve(context.Background(), &routing.Request{Instance: in, Oracle: oracle})
	if err != nil {
		return err
	}
	return oracle.Answer(res.Answer)
}

func selfSolver(t *testing.T, mode string) []string {
	t.Helper()
	t.Setenv(helperEnv, mode)
	return []string{os.Args[0]}
}

func smallParams() judge.GenParams {
	return judge.GenParams{N: 40, M: 4, Q: 20, L: 5, W: 600}
}

func ledgerConfig(t *testing.T) (func() (*database.AppConfig, error), string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runs.db")
	return func() (*database.AppConfig, error) {
		return &database.AppConfig{DatabasePath: path}, nil
	}, path
}

func TestParseSeeds(t *testing.T) {
	tests := []struct {
		in      string
		want    report.SeedRange
		wantErr bool
	}{
		{in: "7", want: report.SeedRange{From: 7, To: 7}},
		{in: "0..99", want: report.SeedRange{From: 0, To: 99}},
		{in: "5..2", wantErr: true},
		{in: "a..b", wantErr: true},
		{in: "3..x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseSeeds(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBatchConfig_FlagsOverride(t *testing.T) {
	dir := t.TempDir()
	batchFile := filepath.Join(dir, "batch.yaml")
	require.NoError(t, os.WriteFile(batchFile, []byte(`
solver: [./solver, debug]
seeds: {from: 1, to: 3}
params: {n: 100, q: 50}
timeout: 5s
`), 0644))

	opts, err := parseOptions([]string{"-batch", batchFile, "-n", "200", "-seeds", "4..5", "-no-ground-truth", "-timeout", "2s"})
	require.NoError(t, err)
	batch, err := opts.batchConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"./solver", "debug"}, batch.Solver)
	assert.Equal(t, report.SeedRange{From: 4, To: 5}, batch.Seeds)
	assert.Equal(t, 200, batch.Params.N)
	assert.Equal(t, 50, batch.Params.Q)
	assert.False(t, batch.WantGroundTruth())
	assert.Equal(t, 2*time.Second, batch.Timeout)
}

func TestSolverCommand_Fallbacks(t *testing.T) {
	opts := &options{configLoad: func() (*database.AppConfig, error) {
		return &database.AppConfig{SolverCommand: []string{"./from-config"}}, nil
	}}

	got, err := opts.solverCommand(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"./from-config"}, got)

	got, err = opts.solverCommand([]string{"./from-batch"})
	require.NoError(t, err)
	assert.Equal(t, []string{"./from-batch"}, got)

	opts.solver = []string{"./from-args"}
	got, err = opts.solverCommand([]string{"./from-batch"})
	require.NoError(t, err)
	assert.Equal(t, []string{"./from-args"}, got)
}

func TestSolverCommand_Missing(t *testing.T) {
	opts := &options{configLoad: func() (*database.AppConfig, error) {
		return &database.AppConfig{}, nil
	}}
	_, err := opts.solverCommand(nil)
	assert.Error(t, err)

	opts.configLoad = func() (*database.AppConfig, error) { return nil, errors.New("disk on fire") }
	_, err = opts.solverCommand(nil)
	assert.ErrorContains(t, err, "disk on fire")
}

func TestRunSingle(t *testing.T) {
	solver := selfSolver(t, "solve")
	var input bytes.Buffer
	require.NoError(t, judge.WriteCase(&input, judge.Generate(3, smallParams())))

	load, dbPath := ledgerConfig(t)
	opts := &options{record: true, configLoad: load, solverTrace: &bytes.Buffer{}}
	var stderr bytes.Buffer

	err := runSingle(context.Background(), &input, &stderr, solver, opts)
	require.NoError(t, err)

	out := stderr.String()
	assert.Contains(t, out, "Score = ")
	assert.Contains(t, out, "Score for ground truth = ")
	assert.NotContains(t, out, "Score = 0\n")

	store, err := sqlite.New(dbPath)
	require.NoError(t, err)
	defer store.Close()
	runs, total, err := store.Runs().List(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, r := range runs {
		assert.Empty(t, r.FailureReason)
		assert.Greater(t, r.Score, int64(0))
	}
}

func TestRunSingle_BadSolverScoresZero(t *testing.T) {
	solver := selfSolver(t, "garbage")
	var input bytes.Buffer
	require.NoError(t, judge.WriteCase(&input, judge.Generate(3, smallParams())))
	opts := &options{noTruth: true, solverTrace: &bytes.Buffer{}}
	var stderr bytes.Buffer

	err := runSingle(context.Background(), &input, &stderr, solver, opts)
	require.NoError(t, err)

	out := stderr.String()
	assert.Contains(t, out, "unreadable solver output")
	assert.Contains(t, out, "Score = 0\n")
	assert.NotContains(t, out, "ground truth")
}

func TestRunSingle_MalformedCase(t *testing.T) {
	opts := &options{solverTrace: &bytes.Buffer{}}
	err := runSingle(context.Background(), strings.NewReader("1 2\n"), &bytes.Buffer{}, []string{"unused"}, opts)

	assert.Error(t, err)
}

func TestRunBatch(t *testing.T) {
	solver := selfSolver(t, "solve")
	load, dbPath := ledgerConfig(t)
	dir := t.TempDir()
	gt := false
	batch := &report.BatchConfig{
		Solver:      solver,
		Seeds:       report.SeedRange{From: 1, To: 3},
		Params:      smallParams(),
		GroundTruth: &gt,
		Record:      true,
		Timeout:     time.Minute,
		Report:      filepath.Join(dir, "report.yaml"),
		CasesDir:    filepath.Join(dir, "cases"),
	}
	opts := &options{quiet: true, configLoad: load, solverTrace: &bytes.Buffer{}}
	var stderr bytes.Buffer

	err := runBatch(context.Background(), batch, opts, &stderr)
	require.NoError(t, err)

	assert.Contains(t, stderr.String(), "0001")
	assert.Contains(t, stderr.String(), "0003")

	data, err := os.ReadFile(batch.Report)
	require.NoError(t, err)
	assert.Contains(t, string(data), "cases: 3")
	assert.Contains(t, string(data), "failures: 0")

	saved, err := os.Open(filepath.Join(batch.CasesDir, "0002.txt"))
	require.NoError(t, err)
	defer saved.Close()
	c, err := judge.ReadCase(saved)
	require.NoError(t, err)
	assert.Equal(t, judge.Generate(2, smallParams()).Instance, c.Instance)

	store, err := sqlite.New(dbPath)
	require.NoError(t, err)
	defer store.Close()
	runs, total, err := store.Runs().List(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	_, groups, summary, err := store.Runs().GetByID(context.Background(), runs[0].ID)
	require.NoError(t, err)
	assert.Len(t, groups, 4)
	require.NotNil(t, summary)
	assert.Equal(t, 40, summary.TotalCities)
	assert.Equal(t, 36, summary.TotalEdges)
}

func TestRunBatch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	batch := report.DefaultBatch()
	batch.Solver = []string{"unused"}
	opts := &options{quiet: true, solverTrace: &bytes.Buffer{}}

	err := runBatch(ctx, batch, opts, &bytes.Buffer{})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestBatchConfig_SaveCasesUsesAppDir(t *testing.T) {
	opts, err := parseOptions([]string{"-seeds", "1", "-save-cases"})
	require.NoError(t, err)
	opts.casesRoot = func() (string, error) { return "/tmp/app/cases", nil }

	batch, err := opts.batchConfig()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/app/cases", batch.CasesDir)

	opts.casesDir = "./mine"
	batch, err = opts.batchConfig()
	require.NoError(t, err)
	assert.Equal(t, "./mine", batch.CasesDir)
}

func TestRememberSolver(t *testing.T) {
	var saved *database.AppConfig
	opts, err := parseOptions([]string{"-save-solver", "./solver", "-iterations", "10"})
	require.NoError(t, err)
	opts.configLoad = func() (*database.AppConfig, error) {
		return &database.AppConfig{DatabasePath: "runs.db"}, nil
	}
	opts.configSave = func(c *database.AppConfig) error {
		saved = c
		return nil
	}

	require.NoError(t, opts.rememberSolver())
	require.NotNil(t, saved)
	assert.Equal(t, []string{"./solver", "-iterations", "10"}, saved.SolverCommand)
	assert.Equal(t, "runs.db", saved.DatabasePath)

	opts.solver = nil
	assert.Error(t, opts.rememberSolver())
}
