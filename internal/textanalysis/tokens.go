// Package textanalysis scores ballot wording: readability, sentiment, complexity and key phrases.
package textanalysis

import (
	"strings"
	"unicode"
)

var stopwords = map[string]struct{}{
	"a": {}, "about": {}, "above": {}, "after": {}, "all": {}, "also": {}, "an": {}, "and": {},
	"any": {}, "are": {}, "as": {}, "at": {}, "be": {}, "been": {}, "before": {}, "being": {},
	"between": {}, "both": {}, "but": {}, "by": {}, "can": {}, "certain": {}, "could": {}, "do": {},
	"does": {}, "each": {}, "for": {}, "from": {}, "had": {}, "has": {}, "have": {}, "if": {},
	"in": {}, "into": {}, "is": {}, "it": {}, "its": {}, "may": {}, "more": {}, "most": {},
	"must": {}, "no": {}, "not": {}, "of": {}, "on": {}, "or": {}, "other": {}, "over": {},
	"per": {}, "shall": {}, "should": {}, "so": {}, "some": {}, "such": {}, "than": {}, "that": {},
	"the": {}, "their": {}, "them": {}, "then": {}, "there": {}, "these": {}, "they": {}, "this": {},
	"those": {}, "through": {}, "to": {}, "under": {}, "until": {}, "up": {}, "upon": {}, "was": {},
	"were": {}, "what": {}, "when": {}, "which": {}, "while": {}, "who": {}, "will": {}, "with": {},
	"within": {}, "would": {},
	// Ballot boilerplate that appears in nearly every title
	"act": {}, "initiative": {}, "measure": {}, "statute": {}, "constitutional": {}, "amendment": {},
	"california": {}, "state": {}, "proposition": {}, "prop": {},
}

// IsStopword reports whether a lowercase token carries no topical meaning
func IsStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}

// Tokenize splits text into lowercase word tokens
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

// Keywords returns the set of distinct non-stopword tokens in text
func Keywords(text string) map[string]struct{} {
	keywords := make(map[string]struct{})
	for _, token := range Tokenize(text) {
		token = strings.Trim(token, "'")
		if len(token) < 2 || IsStopword(token) {
			continue
		}
		keywords[token] = struct{}{}
	}
	return keywords
}

// KeywordOverlap is |A∩B| / max(|A|, |B|, 1)
func KeywordOverlap(a, b map[string]struct{}) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}
	shared := 0
	for k := range a {
		if _, ok := b[k]; ok {
			shared++
		}
	}
	denominator := len(b)
	if denominator < 1 {
		denominator = 1
	}
	return float64(shared) / float64(denominator)
}

// sentences counts sentence terminators, at least one for non-empty text
func sentences(text string) int {
	count := 0
	for _, r := range text {
		if r == '.' || r == '!' || r == '?' || r == ';' {
			count++
		}
	}
	if count == 0 && strings.TrimSpace(text) != "" {
		count = 1
	}
	return count
}

// syllables estimates syllables by counting vowel groups
func syllables(word string) int {
	word = strings.Trim(strings.ToLower(word), "'")
	if word == "" {
		return 0
	}
	isVowel := func(r rune) bool { return strings.ContainsRune("aeiouy", r) }

	count := 0
	prevVowel := false
	for _, r := range word {
		v := isVowel(r)
		if v && !prevVowel {
			count++
		}
		prevVowel = v
	}
	if strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") && count > 1 {
		count--
	}
	if count == 0 {
		count = 1
	}
	return count
}
