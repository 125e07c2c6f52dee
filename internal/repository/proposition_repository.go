package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/prop-forecast/internal/database"
	"github.com/yourusername/prop-forecast/internal/models"
)

const (
	errScanProposition = "failed to scan proposition: %w"

	selectPropositions = `
		SELECT p.year, p.number, p.title, p.summary, p.full_text, p.category, p.election_date, p.status,
		       r.yes_votes, r.no_votes, r.turnout
		FROM propositions p
		LEFT JOIN proposition_results r ON r.year = p.year AND r.number = p.number
	`
)

// PostgresPropositionRepository implements PropositionRepository for PostgreSQL
type PostgresPropositionRepository struct {
	db *database.DB
}

// NewPostgresPropositionRepository creates a new proposition repository
func NewPostgresPropositionRepository(db *database.DB) *PostgresPropositionRepository {
	return &PostgresPropositionRepository{db: db}
}

// Upsert inserts or replaces a proposition and its certified result
func (r *PostgresPropositionRepository) Upsert(ctx context.Context, prop *models.Proposition) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return upsertWithTx(ctx, tx, prop)
	})
}

// UpsertBatch writes many propositions in a single transaction
func (r *PostgresPropositionRepository) UpsertBatch(ctx context.Context, props []models.Proposition) (int, error) {
	written := 0
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for i := range props {
			if err := upsertWithTx(ctx, tx, &props[i]); err != nil {
				return err
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

func upsertWithTx(ctx context.Context, tx pgx.Tx, prop *models.Proposition) error {
	if err := prop.Validate(); err != nil {
		return err
	}

	var electionDate *time.Time
	if !prop.ElectionDate.IsZero() {
		electionDate = &prop.ElectionDate
	}
	status := prop.Status
	if status == "" {
		status = prop.DeriveStatus(time.Now())
	}

	query := `
		INSERT INTO propositions (year, number, title, summary, full_text, category, election_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (year, number) DO UPDATE SET
			title = EXCLUDED.title,
			summary = EXCLUDED.summary,
			full_text = EXCLUDED.full_text,
			category = EXCLUDED.category,
			election_date = EXCLUDED.election_date,
			status = EXCLUDED.status,
			updated_at = NOW()
	`
	_, err := tx.Exec(ctx, query,
		prop.Year, prop.Number, prop.Title, prop.Summary, prop.FullText,
		string(prop.Category), electionDate, string(status),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert proposition %s: %w", prop.ID(), err)
	}

	if prop.Result == nil {
		return nil
	}

	// Certified results are immutable; a second certification is ignored
	resultQuery := `
		INSERT INTO proposition_results (year, number, yes_votes, no_votes, turnout)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (year, number) DO NOTHING
	`
	_, err = tx.Exec(ctx, resultQuery, prop.Year, prop.Number, prop.Result.YesVotes, prop.Result.NoVotes, prop.Result.Turnout)
	if err != nil {
		return fmt.Errorf("failed to record result for %s: %w", prop.ID(), err)
	}
	return nil
}

// GetByID retrieves a single proposition
func (r *PostgresPropositionRepository) GetByID(ctx context.Context, year int, number string) (*models.Proposition, error) {
	rows, err := r.db.GetPool().Query(ctx, selectPropositions+" WHERE p.year = $1 AND p.number = $2", year, number)
	if err != nil {
		return nil, fmt.Errorf("failed to query proposition: %w", err)
	}
	props, err := scanPropositions(rows)
	if err != nil {
		return nil, err
	}
	if len(props) == 0 {
		return nil, models.ErrNotFound
	}
	return &props[0], nil
}

// GetPropositionsByYear retrieves every measure in an election year
func (r *PostgresPropositionRepository) GetPropositionsByYear(ctx context.Context, year int) ([]models.Proposition, error) {
	rows, err := r.db.GetPool().Query(ctx, selectPropositions+" WHERE p.year = $1 ORDER BY p.number", year)
	if err != nil {
		return nil, fmt.Errorf("failed to query propositions for %d: %w", year, err)
	}
	return scanPropositions(rows)
}

// GetByCategory retrieves measures in a category within an inclusive year range, newest first
func (r *PostgresPropositionRepository) GetByCategory(ctx context.Context, category models.Category, fromYear, toYear int) ([]models.Proposition, error) {
	rows, err := r.db.GetPool().Query(ctx,
		selectPropositions+" WHERE p.category = $1 AND p.year BETWEEN $2 AND $3 ORDER BY p.year DESC, p.number",
		string(category), fromYear, toYear,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query propositions by category: %w", err)
	}
	return scanPropositions(rows)
}

// Delete removes a proposition and its result
func (r *PostgresPropositionRepository) Delete(ctx context.Context, year int, number string) error {
	tag, err := r.db.GetPool().Exec(ctx, "DELETE FROM propositions WHERE year = $1 AND number = $2", year, number)
	if err != nil {
		return fmt.Errorf("failed to delete proposition: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Name returns the archive name used in logs and metrics
func (r *PostgresPropositionRepository) Name() string {
	return "postgres_archive"
}

func scanPropositions(rows pgx.Rows) ([]models.Proposition, error) {
	defer rows.Close()

	props := make([]models.Proposition, 0)
	for rows.Next() {
		var (
			prop         models.Proposition
			category     string
			status       string
			electionDate *time.Time
			yesVotes     *int64
			noVotes      *int64
			turnout      *float64
		)
		if err := rows.Scan(
			&prop.Year, &prop.Number, &prop.Title, &prop.Summary, &prop.FullText,
			&category, &electionDate, &status, &yesVotes, &noVotes, &turnout,
		); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, models.ErrNotFound
			}
			return nil, fmt.Errorf(errScanProposition, err)
		}

		prop.Category = models.Category(category)
		prop.Status = models.Status(status)
		if electionDate != nil {
			prop.ElectionDate = *electionDate
		}
		if yesVotes != nil && noVotes != nil {
			result := models.NewElectionResult(*yesVotes, *noVotes)
			if turnout != nil {
				result.Turnout = *turnout
			}
			prop.Result = &result
			prop.Status = prop.DeriveStatus(time.Now())
		}
		props = append(props, prop)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate propositions: %w", err)
	}
	return props, nil
}
