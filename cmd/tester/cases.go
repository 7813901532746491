package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/cheggaaa/pb/v3"

	"city-group-router/internal/database"
	"city-group-router/internal/judge"
	"city-group-router/internal/report"
	"city-group-router/internal/sqlite"
)

// played is one judged run of a case
type played struct {
	outcome *judge.Outcome
	err     error
	elapsed time.Duration
}

// runCase plays the case and, when asked, its collapsed twin
func runCase(ctx context.Context, name string, seed uint64, c *judge.Case, solver []string, timeout time.Duration, truth bool, trace io.Writer) (report.CaseResult, played, *played) {
	res := report.CaseResult{
		Name:   name,
		Seed:   seed,
		Cities: c.Instance.N,
		Groups: len(c.Instance.Sizes),
	}

	noisy := playOnce(ctx, c, solver, timeout, trace)
	res.Elapsed = noisy.elapsed
	if noisy.err != nil {
		res.Failure = judge.Reason(noisy.err)
	} else {
		res.Score = noisy.outcome.Score.Score
		res.Queries = noisy.outcome.Queries
	}

	if !truth {
		return res, noisy, nil
	}
	gt := playOnce(ctx, judge.Collapse(c), solver, timeout, trace)
	if gt.err != nil {
		res.GroundTruthError = judge.Reason(gt.err)
	} else {
		res.GroundTruth = gt.outcome.Score.Score
	}
	return res, noisy, &gt
}

func playOnce(ctx context.Context, c *judge.Case, solver []string, timeout time.Duration, trace io.Writer) played {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	out, elapsed, err := judge.RunCommand(ctx, c, solver, trace)
	return played{outcome: out, err: err, elapsed: elapsed}
}

func runSingle(ctx context.Context, stdin io.Reader, stderr io.Writer, solver []string, opts *options) error {
	c, err := judge.ReadCase(stdin)
	if err != nil {
		return fmt.Errorf("failed to read case: %w", err)
	}

	res, noisy, gt := runCase(ctx, "stdin", 0, c, solver, opts.timeout, !opts.noTruth, opts.solverTrace)
	if res.Failure != "" {
		fmt.Fprintln(stderr, res.Failure)
	}
	fmt.Fprintf(stderr, "Score = %d\n", res.Score)
	if gt != nil {
		if res.GroundTruthError != "" {
			fmt.Fprintln(stderr, res.GroundTruthError)
		}
		fmt.Fprintf(stderr, "Score for ground truth = %d\n", res.GroundTruth)
	}

	if !opts.record {
		return nil
	}
	store, err := openLedger(opts)
	if err != nil {
		return err
	}
	defer store.Close()
	return recordCase(ctx, store.Runs(), solver, res, noisy, gt)
}

func runBatch(ctx context.Context, batch *report.BatchConfig, opts *options, stderr io.Writer) error {
	seeds := batch.Seeds.Seeds()
	log.Printf("[JUDGE] Starting batch: cases=%d solver=%q", len(seeds), batch.Solver)

	var store database.DataStore
	if batch.Record {
		s, err := openLedger(opts)
		if err != nil {
			return err
		}
		defer s.Close()
		store = s
	}
	if batch.CasesDir != "" {
		if err := os.MkdirAll(batch.CasesDir, 0755); err != nil {
			return fmt.Errorf("failed to create cases directory: %w", err)
		}
	}

	bar := pb.New(len(seeds))
	bar.SetWriter(stderr)
	if opts.quiet {
		bar.SetWriter(io.Discard)
	}
	bar.Start()

	results := make([]report.CaseResult, 0, len(seeds))
	for _, seed := range seeds {
		if err := ctx.Err(); err != nil {
			bar.Finish()
			return err
		}
		c := judge.Generate(seed, batch.Params)
		name := fmt.Sprintf("%04d", seed)
		if batch.CasesDir != "" {
			if err := saveCase(filepath.Join(batch.CasesDir, name+".txt"), c); err != nil {
				bar.Finish()
				return err
			}
		}

		res, noisy, gt := runCase(ctx, name, seed, c, batch.Solver, batch.Timeout, batch.WantGroundTruth(), opts.solverTrace)
		results = append(results, res)
		if store != nil {
			if err := recordCase(ctx, store.Runs(), batch.Solver, res, noisy, gt); err != nil {
				log.Printf("[ERROR] Failed to record case %s: %v", name, err)
			}
		}
		bar.Increment()
	}
	bar.Finish()

	rep := report.New(batch.Solver, results)
	fmt.Fprint(stderr, report.Table("batch", results, rep.Summary))
	if batch.Report == "" {
		return nil
	}
	return writeReport(batch.Report, rep)
}

func saveCase(path string, c *judge.Case) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create case file: %w", err)
	}
	defer f.Close()
	return judge.WriteCase(f, c)
}

func writeReport(path string, rep *report.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	defer f.Close()
	if err := report.WriteYAML(f, rep); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	log.Printf("[JUDGE] Report written to %s", path)
	return nil
}

func openLedger(opts *options) (database.DataStore, error) {
	config, err := opts.configLoad()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	store, err := sqlite.New(config.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open run ledger: %w", err)
	}
	return store, nil
}
