package textanalysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/prop-forecast/internal/models"
)

func TestKeywordsDropStopwordsAndBoilerplate(t *testing.T) {
	keywords := Keywords("The Rent Control Initiative: expands local rent control")
	assert.Contains(t, keywords, "rent")
	assert.Contains(t, keywords, "control")
	assert.Contains(t, keywords, "expands")
	assert.NotContains(t, keywords, "the")
	assert.NotContains(t, keywords, "initiative")
	assert.Len(t, keywords, 4)
}

func TestKeywordOverlap(t *testing.T) {
	a := Keywords("expands local rent control")
	b := Keywords("limits rent control")
	// shared {rent, control}, denominator max(4, 3)
	assert.InDelta(t, 0.5, KeywordOverlap(a, b), 1e-9)
	assert.InDelta(t, 0.5, KeywordOverlap(b, a), 1e-9)
	assert.Zero(t, KeywordOverlap(map[string]struct{}{}, map[string]struct{}{}))
}

func TestSyllables(t *testing.T) {
	assert.Equal(t, 1, syllables("tax"))
	assert.Equal(t, 1, syllables("rate"))
	assert.Equal(t, 4, syllables("education"))
	assert.Equal(t, 2, syllables("table"))
	assert.Equal(t, 1, syllables("by"))
}

func TestReadingEaseAndComplexity(t *testing.T) {
	simple := ReadingEase("The tax is low. We like it. It is fair.")
	assert.GreaterOrEqual(t, simple, 60.0)
	assert.Equal(t, models.ComplexitySimple, ComplexityFor(simple))

	dense := ReadingEase("Authorizes constitutional reallocation of intergovernmental appropriations notwithstanding preexisting administrative determinations regarding municipal infrastructure obligations")
	assert.Less(t, dense, 40.0)
	assert.Equal(t, models.ComplexityComplex, ComplexityFor(dense))

	assert.Equal(t, models.ComplexityModerate, ComplexityFor(50))
	assert.Equal(t, models.ComplexitySimple, ComplexityFor(60))
}

func TestSentiment(t *testing.T) {
	assert.Greater(t, Sentiment(Tokenize("protects children and expands access to safe clean water")), 0.5)
	assert.Less(t, Sentiment(Tokenize("repeals fee and imposes new tax penalties")), -0.3)
	assert.Zero(t, Sentiment(Tokenize("changes the date of the election")))
	assert.InDelta(t, 1.0/3.0, Sentiment([]string{"protect"}), 1e-9)
}

func TestAnalyzeEmpty(t *testing.T) {
	analysis := Analyze("")
	assert.Zero(t, analysis.WordCount)
	assert.Equal(t, 100.0, analysis.ReadabilityScore)
	assert.Equal(t, models.ComplexitySimple, analysis.Complexity)
	assert.NotNil(t, analysis.KeyPhrases)
}

func TestAnalyzerMemoizesByWording(t *testing.T) {
	analyzer, err := NewAnalyzer(8)
	require.NoError(t, err)

	prop := &models.Proposition{
		Year:     2024,
		Number:   "33",
		Title:    "Expands local governments' authority to enact rent control",
		Summary:  "Repeals state law that limits rent control on residential property. Rent control protects tenants.",
		Category: models.CategoryHousing,
	}
	first := analyzer.AnalyzeProposition(prop)
	assert.Greater(t, first.WordCount, 10)
	assert.Equal(t, "control", first.KeyPhrases[0])
	assert.Equal(t, "rent", first.KeyPhrases[1])
	assert.GreaterOrEqual(t, first.ReadabilityScore, 0.0)
	assert.LessOrEqual(t, first.ReadabilityScore, 100.0)

	again := *prop
	assert.Equal(t, first, analyzer.AnalyzeProposition(&again))
	assert.Equal(t, 1, analyzer.memo.Len())

	prop.Summary = "completely different text"
	assert.NotEqual(t, first, analyzer.AnalyzeProposition(prop))
	assert.Equal(t, 2, analyzer.memo.Len())

	_, err = NewAnalyzer(0)
	assert.Error(t, err)
}

func TestAnalyzerReanalyzesAmendedWordingUnderSameID(t *testing.T) {
	analyzer, err := NewAnalyzer(8)
	require.NoError(t, err)

	prop := &models.Proposition{
		Year:     2024,
		Number:   "33",
		Title:    "Protects children and expands access to safe clean water",
		Category: models.CategoryEnvironment,
	}
	before := analyzer.AnalyzeProposition(prop)
	assert.Greater(t, before.SentimentScore, 0.0)

	prop.Title = "Repeals fee and imposes new tax penalties"
	after := analyzer.AnalyzeProposition(prop)
	assert.Less(t, after.SentimentScore, 0.0)
	assert.NotEqual(t, before.SentimentScore, after.SentimentScore)
}
