// Package lookup runs the quote search pipeline: retrieve, locate,
// normalize and derive.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"quote-search/chart"
	"quote-search/metrics"
	"quote-search/models"
	"quote-search/provider"
	"quote-search/quote"
)

var (
	ErrEmptySymbol = errors.New("please enter a stock ticker symbol")
	ErrNotFound    = errors.New("symbol not found")
	ErrSuperseded  = errors.New("search superseded by a newer one")
)

// Result is everything one successful search produces.
type Result struct {
	Symbol   string              `json:"symbol"`
	Quote    models.Quote        `json:"quote"`
	Metrics  models.Metrics      `json:"metrics"`
	Chart    []models.PricePoint `json:"chart"`
	Endpoint string              `json:"endpoint"`
	Strategy string              `json:"strategy"`
}

// ChartLabel is the dataset label shown for the result's chart.
func (r Result) ChartLabel() string {
	return r.Symbol + " Price ($)"
}

// Searcher resolves a symbol into a Result.
type Searcher interface {
	Search(ctx context.Context, symbol string) (Result, error)
}

//go:generate mockgen -package=lookup -destination=mock_source_test.go quote-search/provider Source

type Service struct {
	source provider.Source
	log    zerolog.Logger
}

func NewService(source provider.Source, log zerolog.Logger) *Service {
	return &Service{source: source, log: log}
}

// NormalizeSymbol trims and upper-cases user input.
func NormalizeSymbol(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Search fetches the chart payload and, only when no quote can be located
// in it, the quote payload. Series and chart always come from the chart
// payload. Any retrieval error ends the search.
func (s *Service) Search(ctx context.Context, raw string) (res Result, err error) {
	symbol := NormalizeSymbol(raw)
	if symbol == "" {
		metrics.QuoteSearchesTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return Result{}, ErrEmptySymbol
	}

	start := time.Now()
	defer func() {
		metrics.QuoteSearchDuration.Observe(time.Since(start).Seconds())
		metrics.QuoteSearchesTotal.WithLabelValues(outcome(err)).Inc()
	}()

	primary, err := s.source.Fetch(ctx, symbol, provider.Primary)
	if err != nil {
		return Result{}, fmt.Errorf("search %s: %w", symbol, err)
	}

	endpoint := provider.Primary
	node, ok := quote.Locate(primary)
	if !ok {
		s.log.Debug().Str("symbol", symbol).Msg("no quote in chart payload, trying quote endpoint")
		fallback, err := s.source.Fetch(ctx, symbol, provider.Fallback)
		if err != nil {
			return Result{}, fmt.Errorf("search %s: %w", symbol, err)
		}
		endpoint = provider.Fallback
		node, ok = quote.Locate(fallback)
	}
	if !ok {
		s.log.Info().Str("symbol", symbol).Msg("stock not found in any response")
		return Result{}, fmt.Errorf("search %s: %w", symbol, ErrNotFound)
	}

	q := quote.Normalize(node, symbol)
	series := quote.ExtractSeries(primary)

	res = Result{
		Symbol:   symbol,
		Quote:    q,
		Metrics:  quote.Derive(q, series),
		Chart:    []models.PricePoint{},
		Endpoint: endpoint.String(),
		Strategy: node.Strategy,
	}
	if series != nil {
		res.Chart = chart.Points(series.Timestamps, series.Close)
	}

	s.log.Info().
		Str("symbol", symbol).
		Stringer("endpoint", endpoint).
		Str("strategy", node.Strategy).
		Int("points", len(res.Chart)).
		Msg("quote resolved")
	return res, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeFound
	case errors.Is(err, ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, context.Canceled):
		return metrics.OutcomeSuperseded
	default:
		return metrics.OutcomeError
	}
}
