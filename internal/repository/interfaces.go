package repository

import (
	"context"

	"github.com/yourusername/prop-forecast/internal/models"
)

// PropositionRepository defines the interface for archived proposition data access
type PropositionRepository interface {
	Upsert(ctx context.Context, prop *models.Proposition) error
	UpsertBatch(ctx context.Context, props []models.Proposition) (int, error)
	GetByID(ctx context.Context, year int, number string) (*models.Proposition, error)
	GetPropositionsByYear(ctx context.Context, year int) ([]models.Proposition, error)
	GetByCategory(ctx context.Context, category models.Category, fromYear, toYear int) ([]models.Proposition, error)
	Delete(ctx context.Context, year int, number string) error
	Name() string
}
