package history

import (
	"sort"

	"github.com/yourusername/prop-forecast/internal/models"
	"github.com/yourusername/prop-forecast/internal/textanalysis"
)

const (
	categoryBase   = 0.6
	keywordWeight  = 0.3
	recencyBonus   = 0.1
	recencyDecay   = 0.02
	electionPeriod = 2
)

// CandidateYears lists the even election years before targetYear, newest first, up to maxYears
func CandidateYears(targetYear, maxYears int) []int {
	years := make([]int, 0, maxYears)
	year := targetYear - 1
	if year%electionPeriod != 0 {
		year--
	}
	for ; year > 0 && len(years) < maxYears; year -= electionPeriod {
		years = append(years, year)
	}
	return years
}

// Similarity scores how comparable a past measure is to the target.
// Measures in different categories never match.
func Similarity(target, candidate *models.Proposition) float64 {
	if target.Category != candidate.Category {
		return 0
	}
	overlap := textanalysis.KeywordOverlap(
		textanalysis.Keywords(target.Title),
		textanalysis.Keywords(candidate.Title),
	)
	yearDiff := target.Year - candidate.Year
	if yearDiff < 0 {
		yearDiff = -yearDiff
	}
	recency := recencyBonus - recencyDecay*float64(yearDiff)
	if recency < 0 {
		recency = 0
	}
	return categoryBase + keywordWeight*overlap + recency
}

// rank sorts by similarity descending, then newer year, then id
func rank(comparisons []models.HistoricalComparison) {
	sort.SliceStable(comparisons, func(i, j int) bool {
		a, b := comparisons[i], comparisons[j]
		if a.Similarity != b.Similarity {
			return a.Similarity > b.Similarity
		}
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		return a.PropositionID < b.PropositionID
	})
}

func toComparison(p *models.Proposition, similarity float64) models.HistoricalComparison {
	return models.HistoricalComparison{
		PropositionID: p.ID(),
		Year:          p.Year,
		Number:        p.Number,
		Title:         p.Title,
		Category:      p.Category,
		Similarity:    similarity,
		Passed:        p.Result.Passed,
		YesPercentage: p.Result.YesPercentage,
	}
}
