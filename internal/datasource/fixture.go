package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/yourusername/prop-forecast/internal/models"
)

const fixtureArchiveName = "fixture_archive"

// FixtureArchive serves propositions from memory, loaded from a JSON file or built in tests
type FixtureArchive struct {
	byYear map[int][]models.Proposition
}

// NewFixtureArchive indexes the given propositions by election year
func NewFixtureArchive(propositions []models.Proposition) *FixtureArchive {
	byYear := make(map[int][]models.Proposition)
	now := time.Now()
	for _, p := range propositions {
		if p.Status == "" {
			p.Status = p.DeriveStatus(now)
		}
		byYear[p.Year] = append(byYear[p.Year], p)
	}
	return &FixtureArchive{byYear: byYear}
}

// LoadFixtureArchive reads a JSON array of propositions from disk
func LoadFixtureArchive(path string) (*FixtureArchive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive fixture: %w", err)
	}

	var propositions []models.Proposition
	if err := json.Unmarshal(data, &propositions); err != nil {
		return nil, NewDataSourceError(fixtureArchiveName, ErrCodeInvalidData, "failed to parse archive fixture", err)
	}

	for i := range propositions {
		if err := propositions[i].Validate(); err != nil {
			return nil, fmt.Errorf("archive fixture entry %d: %w", i, err)
		}
	}

	return NewFixtureArchive(propositions), nil
}

// GetPropositionsByYear returns the stored measures for a year
func (f *FixtureArchive) GetPropositionsByYear(ctx context.Context, year int) ([]models.Proposition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	props := f.byYear[year]
	out := make([]models.Proposition, len(props))
	copy(out, props)
	return out, nil
}

// Years returns the election years present, newest first
func (f *FixtureArchive) Years() []int {
	years := make([]int, 0, len(f.byYear))
	for year := range f.byYear {
		years = append(years, year)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// Name returns the archive name
func (f *FixtureArchive) Name() string {
	return fixtureArchiveName
}
