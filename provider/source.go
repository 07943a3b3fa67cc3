// Package provider retrieves raw quote payloads from upstream market data
// services.
package provider

import (
	"context"
	"fmt"

	"quote-search/quote"
)

// Endpoint selects which upstream resource a Source reads.
type Endpoint int

const (
	// Primary is the chart endpoint: meta plus a daily close series.
	Primary Endpoint = iota
	// Fallback is the plain quote endpoint.
	Fallback
)

func (e Endpoint) String() string {
	switch e {
	case Primary:
		return "chart"
	case Fallback:
		return "quote"
	default:
		return fmt.Sprintf("endpoint(%d)", int(e))
	}
}

// Source fetches the payload for one symbol from one endpoint.
//
//go:generate mockgen -package=provider -destination=mock_source_test.go -source=source.go Source
type Source interface {
	Fetch(ctx context.Context, symbol string, endpoint Endpoint) (quote.Payload, error)
}

// RetrievalError reports a transport failure or a non-success response.
type RetrievalError struct {
	Endpoint Endpoint
	Symbol   string
	Status   int
	Err      error
}

func (e *RetrievalError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s fetch for %s failed: status %d", e.Endpoint, e.Symbol, e.Status)
	}
	return fmt.Sprintf("%s fetch for %s failed: %v", e.Endpoint, e.Symbol, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }
