package main

import (
	"context"
	"strings"

	"city-group-router/internal/database"
	"city-group-router/internal/judge"
	"city-group-router/internal/models"
	"city-group-router/internal/report"
)

// recordCase stores the noisy run and, if present, the ground-truth run
func recordCase(ctx context.Context, runs database.RunRepository, solver []string, res report.CaseResult, noisy played, gt *played) error {
	if err := recordRun(ctx, runs, solver, res.Name, false, noisy); err != nil {
		return err
	}
	if gt == nil {
		return nil
	}
	return recordRun(ctx, runs, solver, res.Name, true, *gt)
}

func recordRun(ctx context.Context, runs database.RunRepository, solver []string, name string, truth bool, p played) error {
	run := &models.Run{
		InstanceName:  name,
		Command:       strings.Join(solver, " "),
		GroundTruth:   truth,
		ElapsedMillis: p.elapsed.Milliseconds(),
	}
	if p.err != nil {
		run.FailureReason = judge.Reason(p.err)
		_, err := runs.Create(ctx, run, nil, nil)
		return err
	}

	out := p.outcome
	run.Score = out.Score.Score
	run.Cost = out.Score.Cost
	run.Queries = out.Queries

	groups := make([]models.RunGroup, len(out.Answer.Groups))
	summary := &models.RunSummary{
		TotalGroups: len(groups),
		Reference:   out.Score.Reference,
	}
	for k, g := range out.Answer.Groups {
		groups[k] = models.RunGroup{
			GroupIndex: k,
			Cities:     g,
			Edges:      out.Answer.Edges[k],
			Cost:       out.Score.GroupCosts[k],
		}
		summary.TotalCities += len(g)
		summary.TotalEdges += len(out.Answer.Edges[k])
	}
	_, err := runs.Create(ctx, run, groups, summary)
	return err
}
