package search

import (
	"strings"

	"quote-search/models"
)

type SearchEngine interface {
	Suggest(query string) []models.ScoredCandidate
	GetBySymbol(symbol string) *models.Candidate
}

// InMemoryEngine ranks a fixed catalog held in memory.
type InMemoryEngine struct {
	catalog []models.Candidate
}

func NewInMemoryEngine(catalog []models.Candidate) *InMemoryEngine {
	c := make([]models.Candidate, len(catalog))
	copy(c, catalog)
	return &InMemoryEngine{catalog: c}
}

func (e *InMemoryEngine) Suggest(query string) []models.ScoredCandidate {
	return Rank(query, e.catalog)
}

func (e *InMemoryEngine) GetBySymbol(symbol string) *models.Candidate {
	return findBySymbol(e.catalog, symbol)
}

func findBySymbol(catalog []models.Candidate, symbol string) *models.Candidate {
	symbol = strings.TrimSpace(symbol)
	for _, c := range catalog {
		if strings.EqualFold(c.Ticker, symbol) {
			c := c
			return &c
		}
	}
	return nil
}
