package search

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/single"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/rs/zerolog"

	"quote-search/models"
)

const lowerKeyword = "lower_keyword"

// BleveEngine narrows the catalog with a bleve index and re-ranks the hits
// with Rank, so results match InMemoryEngine for the same catalog.
type BleveEngine struct {
	index   bleve.Index
	catalog []models.Candidate
	log     zerolog.Logger
}

type candidateDoc struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
}

// NewBleveEngine opens the index at indexPath, creating it when it does not
// exist, and syncs it to catalog. An empty indexPath builds an in-memory index.
func NewBleveEngine(indexPath string, catalog []models.Candidate, log zerolog.Logger) (*BleveEngine, error) {
	var (
		index bleve.Index
		err   error
		fresh bool
	)

	if indexPath == "" {
		index, err = bleve.NewMemOnly(buildIndexMapping())
		fresh = true
	} else {
		index, err = bleve.Open(indexPath)
		if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
			index, err = bleve.New(indexPath, buildIndexMapping())
			fresh = true
		}
	}
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}

	if fresh {
		log.Info().Int("candidates", len(catalog)).Msg("indexing catalog")
	} else {
		log.Info().Str("path", indexPath).Int("candidates", len(catalog)).Msg("syncing existing index")
	}
	if err := syncIndex(index, catalog, fresh); err != nil {
		index.Close()
		return nil, err
	}

	c := make([]models.Candidate, len(catalog))
	copy(c, catalog)
	return &BleveEngine{index: index, catalog: c, log: log}, nil
}

// syncIndex makes the index hold exactly the catalog. Entries are keyed by
// their display text, so re-indexing overwrites and stale keys are deleted.
func syncIndex(index bleve.Index, catalog []models.Candidate, fresh bool) error {
	want := make(map[string]struct{}, len(catalog))
	batch := index.NewBatch()
	for _, c := range catalog {
		id := c.Text()
		want[id] = struct{}{}
		if err := batch.Index(id, candidateDoc{Ticker: c.Ticker, Name: c.Name}); err != nil {
			return fmt.Errorf("add to batch: %w", err)
		}
	}

	if !fresh {
		count, err := index.DocCount()
		if err != nil {
			return fmt.Errorf("count documents: %w", err)
		}
		if count > 0 {
			req := bleve.NewSearchRequestOptions(bleve.NewMatchAllQuery(), int(count), 0, false)
			res, err := index.Search(req)
			if err != nil {
				return fmt.Errorf("list documents: %w", err)
			}
			for _, hit := range res.Hits {
				if _, ok := want[hit.ID]; !ok {
					batch.Delete(hit.ID)
				}
			}
		}
	}

	if err := index.Batch(batch); err != nil {
		return fmt.Errorf("execute batch: %w", err)
	}
	return nil
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	// whole value as one lower-cased term, so wildcards act as substring matches
	if err := indexMapping.AddCustomAnalyzer(lowerKeyword, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     single.Name,
		"token_filters": []string{lowercase.Name},
	}); err != nil {
		panic(err)
	}

	field := bleve.NewTextFieldMapping()
	field.Analyzer = lowerKeyword
	field.Store = true
	field.Index = true

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("ticker", field)
	doc.AddFieldMappingsAt("name", field)
	indexMapping.DefaultMapping = doc
	return indexMapping
}

func (e *BleveEngine) Suggest(q string) []models.ScoredCandidate {
	trimmed := strings.TrimSpace(q)
	if trimmed == "" {
		return []models.ScoredCandidate{}
	}
	candidates, err := e.prefilter(trimmed)
	if err != nil {
		e.log.Warn().Err(err).Str("query", trimmed).Msg("index search failed, scanning catalog")
		candidates = e.catalog
	}
	return Rank(trimmed, candidates)
}

// prefilter returns every indexed candidate that any scoring rule could
// match: the whole query inside ticker or name, or any query token inside
// the name.
func (e *BleveEngine) prefilter(q string) ([]models.Candidate, error) {
	lq := strings.ToLower(q)
	queries := []query.Query{
		wildcard("ticker", lq),
		wildcard("name", lq),
	}
	for _, tok := range strings.Fields(lq) {
		queries = append(queries, wildcard("name", tok))
	}

	size := len(e.catalog)
	if size == 0 {
		size = 1
	}
	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(queries...), size, 0, false)
	req.Fields = []string{"ticker", "name"}

	res, err := e.index.Search(req)
	if err != nil {
		return nil, err
	}
	out := make([]models.Candidate, 0, len(res.Hits))
	for _, hit := range res.Hits {
		out = append(out, models.Candidate{
			Ticker: getString(hit.Fields, "ticker"),
			Name:   getString(hit.Fields, "name"),
		})
	}
	return out, nil
}

func (e *BleveEngine) GetBySymbol(symbol string) *models.Candidate {
	tq := bleve.NewTermQuery(strings.ToLower(strings.TrimSpace(symbol)))
	tq.SetField("ticker")

	req := bleve.NewSearchRequest(tq)
	req.Fields = []string{"ticker", "name"}
	req.Size = 1

	res, err := e.index.Search(req)
	if err != nil {
		e.log.Warn().Err(err).Str("symbol", symbol).Msg("index lookup failed, scanning catalog")
		return findBySymbol(e.catalog, symbol)
	}
	if len(res.Hits) == 0 {
		return nil
	}
	return &models.Candidate{
		Ticker: getString(res.Hits[0].Fields, "ticker"),
		Name:   getString(res.Hits[0].Fields, "name"),
	}
}

func (e *BleveEngine) Close() error {
	return e.index.Close()
}

func wildcard(field, term string) query.Query {
	q := bleve.NewWildcardQuery("*" + term + "*")
	q.SetField(field)
	return q
}

func getString(fields map[string]interface{}, key string) string {
	if val, ok := fields[key].(string); ok {
		return val
	}
	return ""
}
