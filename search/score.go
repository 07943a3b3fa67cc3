package search

import (
	"strings"

	"quote-search/models"
)

// Score returns the 0-100 confidence that query refers to the candidate
// rendered as "TICKER — Name". Rules are tried in priority order and the
// first match wins.
func Score(candidateText, query string) int {
	q := strings.ToUpper(query)
	if q == "" {
		return 0
	}

	left, right, _ := strings.Cut(candidateText, models.Separator)
	ticker := strings.ToUpper(strings.TrimSpace(left))
	name := strings.ToUpper(strings.TrimSpace(right))

	switch {
	case strings.HasPrefix(ticker, q):
		return 100
	case strings.HasPrefix(name, q):
		return 90
	case strings.Contains(ticker, q):
		return 80
	case strings.Contains(name, q):
		return 70
	}

	// token presence for multi-word queries, 60-80
	tokens := strings.Fields(q)
	if len(tokens) == 0 {
		return 0
	}
	hits := 0
	for _, t := range tokens {
		if strings.Contains(name, t) {
			hits++
		}
	}
	if hits == 0 {
		return 0
	}
	return 60 + hits*20/len(tokens)
}

// ScoreCandidate scores a typed catalog entry.
func ScoreCandidate(c models.Candidate, query string) int {
	return Score(c.Text(), query)
}
