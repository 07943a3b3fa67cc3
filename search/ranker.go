package search

import (
	"sort"
	"strings"

	"quote-search/models"
)

// MaxSuggestions caps the number of ranked results.
const MaxSuggestions = 8

// Rank scores every catalog entry against query, drops non-matches and
// returns at most MaxSuggestions entries, best first. Equal scores are
// ordered by candidate text so repeated queries render identically.
// A blank query yields an empty slice.
func Rank(query string, catalog []models.Candidate) []models.ScoredCandidate {
	q := strings.TrimSpace(query)
	if q == "" {
		return []models.ScoredCandidate{}
	}

	scored := make([]models.ScoredCandidate, 0, len(catalog))
	for _, c := range catalog {
		if s := ScoreCandidate(c, q); s > 0 {
			scored = append(scored, models.ScoredCandidate{Candidate: c, Score: s})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Text() < scored[j].Text()
	})

	if len(scored) > MaxSuggestions {
		scored = scored[:MaxSuggestions]
	}
	return scored
}
