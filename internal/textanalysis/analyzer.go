package textanalysis

import (
	"fmt"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru"

	"github.com/yourusername/prop-forecast/internal/models"
	"github.com/yourusername/prop-forecast/internal/numeric"
)

const maxKeyPhrases = 5

var positiveWords = map[string]struct{}{
	"protect": {}, "protects": {}, "protection": {}, "improve": {}, "improves": {}, "safe": {},
	"safety": {}, "benefit": {}, "benefits": {}, "support": {}, "supports": {}, "strengthen": {},
	"strengthens": {}, "guarantee": {}, "guarantees": {}, "expand": {}, "expands": {}, "secure": {},
	"clean": {}, "affordable": {}, "access": {}, "fair": {}, "rights": {}, "children": {},
	"invest": {}, "investment": {}, "preserve": {}, "preserves": {}, "healthy": {}, "quality": {},
}

var negativeWords = map[string]struct{}{
	"tax": {}, "taxes": {}, "repeal": {}, "repeals": {}, "prohibit": {}, "prohibits": {}, "ban": {},
	"bans": {}, "eliminate": {}, "eliminates": {}, "penalty": {}, "penalties": {}, "restrict": {},
	"restricts": {}, "fee": {}, "fees": {}, "debt": {}, "cut": {}, "cuts": {}, "limit": {},
	"limits": {}, "fine": {}, "fines": {}, "bonds": {}, "borrowing": {}, "criminal": {}, "crime": {},
}

// Analyzer computes ballot wording analyses, memoizing results per analyzed text
type Analyzer struct {
	memo *lru.Cache
}

// NewAnalyzer creates an analyzer that remembers up to size analyses
func NewAnalyzer(size int) (*Analyzer, error) {
	memo, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis cache: %w", err)
	}
	return &Analyzer{memo: memo}, nil
}

// AnalyzeProposition analyzes a measure's title and summary, reusing earlier results for the same wording
func (a *Analyzer) AnalyzeProposition(p *models.Proposition) models.BallotWordingAnalysis {
	body := p.Summary
	if strings.TrimSpace(body) == "" {
		body = p.FullText
	}
	text := strings.TrimSpace(p.Title + ". " + body)
	if cached, ok := a.memo.Get(text); ok {
		if analysis, ok := cached.(models.BallotWordingAnalysis); ok {
			return analysis
		}
	}

	analysis := Analyze(text)
	a.memo.Add(text, analysis)
	return analysis
}

// Analyze computes wording metrics for a block of text
func Analyze(text string) models.BallotWordingAnalysis {
	words := Tokenize(text)
	analysis := models.BallotWordingAnalysis{
		WordCount:  len(words),
		KeyPhrases: []string{},
	}
	if len(words) == 0 {
		analysis.ReadabilityScore = 100
		analysis.Complexity = models.ComplexitySimple
		return analysis
	}

	analysis.ReadabilityScore = numeric.Round(ReadingEase(text), 1)
	analysis.Complexity = ComplexityFor(analysis.ReadabilityScore)
	analysis.SentimentScore = numeric.Round(Sentiment(words), 3)
	analysis.KeyPhrases = keyPhrases(words)
	return analysis
}

// ReadingEase returns the Flesch reading ease score clamped to [0, 100]
func ReadingEase(text string) float64 {
	words := Tokenize(text)
	if len(words) == 0 {
		return 100
	}
	totalSyllables := 0
	for _, w := range words {
		totalSyllables += syllables(w)
	}
	wordsPerSentence := float64(len(words)) / float64(sentences(text))
	syllablesPerWord := float64(totalSyllables) / float64(len(words))
	return numeric.Clamp(206.835-1.015*wordsPerSentence-84.6*syllablesPerWord, 0, 100)
}

// ComplexityFor buckets a reading ease score: 60 and above simple, below 40 complex
func ComplexityFor(readability float64) models.Complexity {
	switch {
	case readability >= 60:
		return models.ComplexitySimple
	case readability < 40:
		return models.ComplexityComplex
	default:
		return models.ComplexityModerate
	}
}

// Sentiment scores tokens against fixed word lists, in [-1, 1]
func Sentiment(tokens []string) float64 {
	positive, negative := 0, 0
	for _, t := range tokens {
		if _, ok := positiveWords[t]; ok {
			positive++
		}
		if _, ok := negativeWords[t]; ok {
			negative++
		}
	}
	// +2 keeps a single loaded word from pinning the score at an extreme
	return numeric.Clamp(float64(positive-negative)/float64(positive+negative+2), -1, 1)
}

func keyPhrases(words []string) []string {
	counts := make(map[string]int)
	for _, w := range words {
		w = strings.Trim(w, "'")
		if len(w) < 3 || IsStopword(w) {
			continue
		}
		counts[w]++
	}

	phrases := make([]string, 0, len(counts))
	for w := range counts {
		phrases = append(phrases, w)
	}
	sort.Slice(phrases, func(i, j int) bool {
		if counts[phrases[i]] != counts[phrases[j]] {
			return counts[phrases[i]] > counts[phrases[j]]
		}
		return phrases[i] < phrases[j]
	})
	if len(phrases) > maxKeyPhrases {
		phrases = phrases[:maxKeyPhrases]
	}
	return phrases
}
