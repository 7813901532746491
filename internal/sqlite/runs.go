package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"city-group-router/internal/database"
	"city-group-router/internal/models"
)

type runRepository struct {
	store *Store
}

const runColumns = `id, instance_name, command, ground_truth, score, cost, queries,
	failure_reason, elapsed_millis, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*models.Run, error) {
	var run models.Run
	var reason sql.NullString
	if err := row.Scan(
		&run.ID, &run.InstanceName, &run.Command, &run.GroundTruth, &run.Score, &run.Cost,
		&run.Queries, &reason, &run.ElapsedMillis, &run.CreatedAt,
	); err != nil {
		return nil, err
	}
	if reason.Valid {
		run.FailureReason = reason.String
	}
	return &run, nil
}

func (r *runRepository) List(ctx context.Context, limit, offset int) ([]models.Run, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var total int
	if err := r.store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count runs: %w", err)
	}

	query := `SELECT ` + runColumns + `
	          FROM runs
	          ORDER BY created_at DESC, id DESC
	          LIMIT ? OFFSET ?`

	rows, err := r.store.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := []models.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, total, nil
}

func (r *runRepository) GetByID(ctx context.Context, id int64) (*models.Run, []models.RunGroup, *models.RunSummary, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	run, err := scanRun(r.store.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil, nil, database.ErrNotFound
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get run: %w", err)
	}

	groupQuery := `SELECT id, run_id, group_index, cities, edges, cost
	               FROM run_groups
	               WHERE run_id = ?
	               ORDER BY group_index`

	groupRows, err := r.store.db.QueryContext(ctx, groupQuery, id)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to query run groups: %w", err)
	}
	defer groupRows.Close()

	groups := []models.RunGroup{}
	for groupRows.Next() {
		var g models.RunGroup
		var cities, edges string
		if err := groupRows.Scan(&g.ID, &g.RunID, &g.GroupIndex, &cities, &edges, &g.Cost); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to scan run group: %w", err)
		}
		if err := json.Unmarshal([]byte(cities), &g.Cities); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to decode cities of group %d: %w", g.GroupIndex, err)
		}
		if err := json.Unmarshal([]byte(edges), &g.Edges); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to decode edges of group %d: %w", g.GroupIndex, err)
		}
		groups = append(groups, g)
	}
	if err := groupRows.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("error iterating run groups: %w", err)
	}

	summaryQuery := `SELECT run_id, total_cities, total_groups, total_edges, reference
	                 FROM run_summaries WHERE run_id = ?`

	var summary models.RunSummary
	err = r.store.db.QueryRowContext(ctx, summaryQuery, id).Scan(
		&summary.RunID, &summary.TotalCities, &summary.TotalGroups, &summary.TotalEdges, &summary.Reference,
	)
	if err != nil && err != sql.ErrNoRows {
		return nil, nil, nil, fmt.Errorf("failed to get run summary: %w", err)
	}

	return run, groups, &summary, nil
}

func (r *runRepository) Create(ctx context.Context, run *models.Run, groups []models.RunGroup, summary *models.RunSummary) (*models.Run, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	run.CreatedAt = time.Now()
	var reason *string
	if run.FailureReason != "" {
		reason = &run.FailureReason
	}
	runQuery := `INSERT INTO runs
	             (instance_name, command, ground_truth, score, cost, queries,
	              failure_reason, elapsed_millis, created_at)
	             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, runQuery,
		run.InstanceName, run.Command, run.GroundTruth, run.Score, run.Cost, run.Queries,
		reason, run.ElapsedMillis, run.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get run id: %w", err)
	}
	run.ID = runID

	groupQuery := `INSERT INTO run_groups (run_id, group_index, cities, edges, cost)
	               VALUES (?, ?, ?, ?, ?)`

	for i := range groups {
		g := &groups[i]
		cities, err := json.Marshal(g.Cities)
		if err != nil {
			return nil, fmt.Errorf("failed to encode cities of group %d: %w", g.GroupIndex, err)
		}
		edges, err := json.Marshal(g.Edges)
		if err != nil {
			return nil, fmt.Errorf("failed to encode edges of group %d: %w", g.GroupIndex, err)
		}
		res, err := tx.ExecContext(ctx, groupQuery, runID, g.GroupIndex, string(cities), string(edges), g.Cost)
		if err != nil {
			return nil, fmt.Errorf("failed to create run group: %w", err)
		}
		g.RunID = runID
		if g.ID, err = res.LastInsertId(); err != nil {
			return nil, fmt.Errorf("failed to get run group id: %w", err)
		}
	}

	if summary != nil {
		summary.RunID = runID
		summaryQuery := `INSERT INTO run_summaries
		                 (run_id, total_cities, total_groups, total_edges, reference)
		                 VALUES (?, ?, ?, ?, ?)`

		_, err = tx.ExecContext(ctx, summaryQuery,
			summary.RunID, summary.TotalCities, summary.TotalGroups, summary.TotalEdges, summary.Reference,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create run summary: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return run, nil
}

func (r *runRepository) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	// Foreign key cascade will delete groups and summary
	result, err := r.store.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return database.ErrNotFound
	}

	return nil
}
