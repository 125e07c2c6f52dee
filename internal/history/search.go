package history

import (
	"context"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"

	"github.com/yourusername/prop-forecast/internal/models"
)

const maxSearchResults = 20

var currentYear = func() int { return time.Now().Year() }

// SearchResult is an archive proposition matched by title
type SearchResult struct {
	Proposition    models.Proposition `json:"proposition"`
	Score          int                `json:"score"`
	MatchedIndexes []int              `json:"matched_indexes"`
}

type titleSource []models.Proposition

func (s titleSource) String(i int) string { return strings.ToLower(s[i].Title) }
func (s titleSource) Len() int            { return len(s) }

// SearchArchive fuzzy-matches query against the titles of every measure in the given years.
// With no years, the most recent MaxYears elections are searched.
func (f *Finder) SearchArchive(ctx context.Context, query string, years []int) ([]SearchResult, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []SearchResult{}, nil
	}
	if len(years) == 0 {
		years = CandidateYears(currentYear()+1, f.cfg.MaxYears)
	}

	byYear, err := f.fetchYears(ctx, years)
	if err != nil {
		return nil, err
	}
	var all titleSource
	for _, props := range byYear {
		all = append(all, props...)
	}

	matches := fuzzy.FindFrom(query, all)
	if len(matches) > maxSearchResults {
		matches = matches[:maxSearchResults]
	}
	results := make([]SearchResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, SearchResult{
			Proposition:    all[m.Index],
			Score:          m.Score,
			MatchedIndexes: m.MatchedIndexes,
		})
	}
	return results, nil
}
