package provider

import (
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"
	finance "github.com/piquette/finance-go"
	fchart "github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	fquote "github.com/piquette/finance-go/quote"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"quote-search/quote"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// FinanceGoSource serves both endpoints through the finance-go client and
// re-shapes its typed results into the payload shapes the locator knows.
// finance-go reports missing numbers as zero, so zero numerics are dropped.
type FinanceGoSource struct {
	GetQuote func(symbol string) (*finance.Quote, error)
	GetChart func(symbol string) (finance.ChartMeta, []*finance.ChartBar, error)

	log zerolog.Logger
}

func NewFinanceGoSource(log zerolog.Logger) *FinanceGoSource {
	return &FinanceGoSource{
		GetQuote: fquote.Get,
		GetChart: weekOfDailyBars,
		log:      log,
	}
}

func weekOfDailyBars(symbol string) (finance.ChartMeta, []*finance.ChartBar, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -7)
	iter := fchart.Get(&fchart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	})
	var bars []*finance.ChartBar
	for iter.Next() {
		bars = append(bars, iter.Bar())
	}
	if err := iter.Err(); err != nil {
		return finance.ChartMeta{}, nil, err
	}
	return iter.Meta(), bars, nil
}

// Fetch runs the blocking client call off the caller's goroutine so that
// cancellation of ctx is honoured.
func (s *FinanceGoSource) Fetch(ctx context.Context, symbol string, endpoint Endpoint) (quote.Payload, error) {
	type result struct {
		p   quote.Payload
		err error
	}
	done := make(chan result, 1)
	go func() {
		var r result
		if endpoint == Fallback {
			r.p, r.err = s.quotePayload(symbol)
		} else {
			r.p, r.err = s.chartPayload(symbol)
		}
		done <- r
	}()

	select {
	case <-ctx.Done():
		return nil, &RetrievalError{Endpoint: endpoint, Symbol: symbol, Err: ctx.Err()}
	case r := <-done:
		if r.err != nil {
			s.log.Warn().Err(r.err).Str("symbol", symbol).Stringer("endpoint", endpoint).Msg("finance-go fetch failed")
			return nil, &RetrievalError{Endpoint: endpoint, Symbol: symbol, Err: r.err}
		}
		return r.p, nil
	}
}

func (s *FinanceGoSource) quotePayload(symbol string) (quote.Payload, error) {
	q, err := s.GetQuote(symbol)
	if err != nil {
		return nil, err
	}
	results := []any{}
	if q != nil {
		m, err := toMap(q)
		if err != nil {
			return nil, err
		}
		results = append(results, m)
	}
	return map[string]any{
		"quoteResponse": map[string]any{"result": results},
	}, nil
}

func (s *FinanceGoSource) chartPayload(symbol string) (quote.Payload, error) {
	meta, bars, err := s.GetChart(symbol)
	if err != nil {
		return nil, err
	}
	m, err := toMap(meta)
	if err != nil {
		return nil, err
	}
	if len(m) == 0 && len(bars) == 0 {
		return map[string]any{"chart": map[string]any{"result": []any{}}}, nil
	}

	n := len(bars)
	timestamps := make([]any, 0, n)
	opens, highs, lows, closes := make([]any, 0, n), make([]any, 0, n), make([]any, 0, n), make([]any, 0, n)
	for _, b := range bars {
		if b == nil {
			continue
		}
		timestamps = append(timestamps, float64(b.Timestamp))
		opens = append(opens, decimalOrNil(b.Open))
		highs = append(highs, decimalOrNil(b.High))
		lows = append(lows, decimalOrNil(b.Low))
		closes = append(closes, decimalOrNil(b.Close))
	}

	node := map[string]any{
		"meta":      m,
		"timestamp": timestamps,
		"indicators": map[string]any{
			"quote": []any{map[string]any{
				"open":  opens,
				"high":  highs,
				"low":   lows,
				"close": closes,
			}},
		},
	}
	return map[string]any{
		"chart": map[string]any{"result": []any{node}},
	}, nil
}

func decimalOrNil(d decimal.Decimal) any {
	if d.IsZero() {
		return nil
	}
	return d.InexactFloat64()
}

// toMap converts a tagged client struct into a generic object, dropping
// zero numbers, empty strings and nulls.
func toMap(v any) (map[string]any, error) {
	raw, err := jsonAPI.Marshal(v)
	if err != nil {
		return nil, err
	}
	p, err := quote.Decode(raw)
	if err != nil {
		return nil, err
	}
	m, _ := p.(map[string]any)
	for k, val := range m {
		switch t := val.(type) {
		case nil:
			delete(m, k)
		case float64:
			if t == 0 {
				delete(m, k)
			}
		case string:
			if t == "" {
				delete(m, k)
			}
		}
	}
	return m, nil
}
