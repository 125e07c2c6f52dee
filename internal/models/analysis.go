package models

// Complexity buckets the readability of ballot wording
type Complexity string

// Complexity levels
const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// BallotWordingAnalysis is derived from a measure's title and summary text
type BallotWordingAnalysis struct {
	WordCount        int        `json:"word_count"`
	ReadabilityScore float64    `json:"readability_score"`
	SentimentScore   float64    `json:"sentiment_score"`
	Complexity       Complexity `json:"complexity"`
	KeyPhrases       []string   `json:"key_phrases"`
}

// HistoricalComparison references a past measure judged similar to the one being forecast
type HistoricalComparison struct {
	PropositionID string   `json:"proposition_id"`
	Year          int      `json:"year"`
	Number        string   `json:"number"`
	Title         string   `json:"title"`
	Category      Category `json:"category"`
	Similarity    float64  `json:"similarity"`
	Passed        bool     `json:"passed"`
	YesPercentage float64  `json:"yes_percentage"`
}
