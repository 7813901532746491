package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"city-group-router/internal/database"
	"city-group-router/internal/judge"
	"city-group-router/internal/report"
)

func main() {
	log.SetOutput(os.Stderr)
	if err := run(os.Args[1:], os.Stdin, os.Stderr); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

// options are the tester's command-line settings
type options struct {
	batchFile   string
	seeds       string
	params      judge.GenParams
	noTruth     bool
	record      bool
	quiet       bool
	timeout     time.Duration
	reportPath  string
	casesDir    string
	saveCases   bool
	saveSolver  bool
	solver      []string
	configLoad  func() (*database.AppConfig, error)
	configSave  func(*database.AppConfig) error
	casesRoot   func() (string, error)
	solverTrace io.Writer
}

func parseOptions(args []string) (*options, error) {
	opts := &options{
		configLoad: database.LoadConfig,
		configSave: database.SaveConfig,
		casesRoot:  database.GetCasesDir,
	}

	fs := flag.NewFlagSet("tester", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.batchFile, "batch", "", "batch file (yaml)")
	fs.StringVar(&opts.seeds, "seeds", "", "generate and run cases for a seed range, e.g. 0..99")
	fs.IntVar(&opts.params.N, "n", 0, "cities per generated case (0 = default)")
	fs.IntVar(&opts.params.M, "m", 0, "groups per generated case (0 = random)")
	fs.IntVar(&opts.params.Q, "q", 0, "query budget per generated case (0 = default)")
	fs.IntVar(&opts.params.L, "l", 0, "query window per generated case (0 = random)")
	fs.IntVar(&opts.params.W, "w", 0, "rectangle width bound per generated case (0 = random)")
	fs.BoolVar(&opts.noTruth, "no-ground-truth", false, "skip the ground-truth pass")
	fs.BoolVar(&opts.record, "record", false, "record runs to the ledger database")
	fs.BoolVar(&opts.quiet, "quiet", false, "hide the progress bar and solver stderr")
	fs.DurationVar(&opts.timeout, "timeout", 0, "per-run solver timeout (0 = batch default)")
	fs.StringVar(&opts.reportPath, "report", "", "write a yaml report to this path")
	fs.StringVar(&opts.casesDir, "cases", "", "save generated cases to this directory")
	fs.BoolVar(&opts.saveCases, "save-cases", false, "save generated cases under the app directory")
	fs.BoolVar(&opts.saveSolver, "save-solver", false, "remember the solver command in the app config")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	opts.solver = fs.Args()
	return opts, nil
}

func run(args []string, stdin io.Reader, stderr io.Writer) error {
	opts, err := parseOptions(args)
	if err != nil {
		return err
	}
	opts.solverTrace = stderr
	if opts.quiet {
		opts.solverTrace = io.Discard
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.saveSolver {
		if err := opts.rememberSolver(); err != nil {
			return err
		}
	}

	if opts.batchFile == "" && opts.seeds == "" {
		solver, err := opts.solverCommand(nil)
		if err != nil {
			return err
		}
		return runSingle(ctx, stdin, stderr, solver, opts)
	}

	batch, err := opts.batchConfig()
	if err != nil {
		return err
	}
	if batch.Solver, err = opts.solverCommand(batch.Solver); err != nil {
		return err
	}
	return runBatch(ctx, batch, opts, stderr)
}

// solverCommand resolves the solver argv: command line, then batch file,
// then the saved config.
func (o *options) solverCommand(fromBatch []string) ([]string, error) {
	if len(o.solver) > 0 {
		return o.solver, nil
	}
	if len(fromBatch) > 0 {
		return fromBatch, nil
	}
	config, err := o.configLoad()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if len(config.SolverCommand) == 0 {
		return nil, errors.New("no solver command: pass it after the flags or set solver_command in the config")
	}
	return config.SolverCommand, nil
}

// rememberSolver stores the command-line solver as the config default
func (o *options) rememberSolver() error {
	if len(o.solver) == 0 {
		return errors.New("-save-solver needs a solver command after the flags")
	}
	config, err := o.configLoad()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	config.SolverCommand = o.solver
	if err := o.configSave(config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

func (o *options) batchConfig() (*report.BatchConfig, error) {
	batch := report.DefaultBatch()
	if o.batchFile != "" {
		var err error
		if batch, err = report.LoadBatch(o.batchFile); err != nil {
			return nil, err
		}
	}
	if o.seeds != "" {
		seeds, err := parseSeeds(o.seeds)
		if err != nil {
			return nil, err
		}
		batch.Seeds = seeds
	}
	mergeParams(&batch.Params, o.params)
	if o.noTruth {
		off := false
		batch.GroundTruth = &off
	}
	if o.record {
		batch.Record = true
	}
	if o.timeout > 0 {
		batch.Timeout = o.timeout
	}
	if o.reportPath != "" {
		batch.Report = o.reportPath
	}
	if o.casesDir != "" {
		batch.CasesDir = o.casesDir
	}
	if o.saveCases && batch.CasesDir == "" {
		dir, err := o.casesRoot()
		if err != nil {
			return nil, err
		}
		batch.CasesDir = dir
	}
	return batch, nil
}

func mergeParams(dst *judge.GenParams, src judge.GenParams) {
	if src.N > 0 {
		dst.N = src.N
	}
	if src.M > 0 {
		dst.M = src.M
	}
	if src.Q > 0 {
		dst.Q = src.Q
	}
	if src.L > 0 {
		dst.L = src.L
	}
	if src.W > 0 {
		dst.W = src.W
	}
}

// parseSeeds accepts "7" or "0..99"
func parseSeeds(s string) (report.SeedRange, error) {
	var r report.SeedRange
	from, to, found := strings.Cut(s, "..")
	if _, err := fmt.Sscan(from, &r.From); err != nil {
		return r, fmt.Errorf("invalid seed range %q: %w", s, err)
	}
	r.To = r.From
	if found {
		if _, err := fmt.Sscan(to, &r.To); err != nil {
			return r, fmt.Errorf("invalid seed range %q: %w", s, err)
		}
	}
	if r.To < r.From {
		return r, fmt.Errorf("seed range %q is empty", s)
	}
	return r, nil
}
