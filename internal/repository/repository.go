package repository

import (
	"fmt"

	"github.com/yourusername/prop-forecast/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Proposition PropositionRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Proposition: NewPostgresPropositionRepository(db),
	}, nil
}
