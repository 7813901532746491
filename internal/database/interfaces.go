package database

import (
	"context"

	"city-group-router/internal/models"
)

// DataStore is the interface for data persistence
type DataStore interface {
	Close() error
	HealthCheck(ctx context.Context) error
	Runs() RunRepository
}

// RunRepository handles tester run persistence
type RunRepository interface {
	List(ctx context.Context, limit, offset int) ([]models.Run, int, error)
	GetByID(ctx context.Context, id int64) (*models.Run, []models.RunGroup, *models.RunSummary, error)
	Create(ctx context.Context, run *models.Run, groups []models.RunGroup, summary *models.RunSummary) (*models.Run, error)
	Delete(ctx context.Context, id int64) error
}
