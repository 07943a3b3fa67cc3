package quote

import (
	"math"

	"github.com/shopspring/decimal"

	"quote-search/models"
)

var hundred = decimal.NewFromInt(100)

// Series is the raw close history of a chart payload, oldest first.
type Series struct {
	Timestamps []*int64
	Close      []*float64
}

// ExtractSeries reads the series of chart.result[0] or, failing that,
// finance.result[0]. It returns nil when neither exists.
func ExtractSeries(p Payload) *Series {
	r, ok := firstObject(path(p, "chart", "result"))
	if !ok {
		r, ok = firstObject(path(p, "finance", "result"))
	}
	if !ok {
		return nil
	}
	q, _ := firstObject(path(r, "indicators", "quote"))

	s := &Series{}
	for _, v := range array(q["close"]) {
		s.Close = append(s.Close, number(v))
	}
	for _, v := range array(r["timestamp"]) {
		s.Timestamps = append(s.Timestamps, integer(v))
	}
	return s
}

// Derive computes previous close, change and percent change. The percent
// is always recomputed from change and previous close; a provider
// percentage is never used.
func Derive(q models.Quote, series *Series) models.Metrics {
	var m models.Metrics

	m.PreviousClose = clone(q.PreviousClose)
	// only the second-to-last sample is tried, no scan further back
	if m.PreviousClose == nil && series != nil && len(series.Close) >= 2 {
		m.PreviousClose = clone(series.Close[len(series.Close)-2])
	}

	m.Change = clone(q.Change)
	if m.Change == nil && finite(q.Price) && m.PreviousClose != nil {
		d := decimal.NewFromFloat(*q.Price).Sub(decimal.NewFromFloat(*m.PreviousClose))
		m.Change = toFloat(d)
	}

	if m.Change != nil && m.PreviousClose != nil && *m.PreviousClose != 0 {
		d := decimal.NewFromFloat(*m.Change).Div(decimal.NewFromFloat(*m.PreviousClose)).Mul(hundred)
		m.ChangePercent = toFloat(d)
	}
	return m
}

// toFloat returns nil when d does not fit in a finite float64.
func toFloat(d decimal.Decimal) *float64 {
	f, _ := d.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil
	}
	return &f
}

func finite(p *float64) bool {
	return p != nil && !math.IsInf(*p, 0) && !math.IsNaN(*p)
}

// clone copies p, dropping non-finite values.
func clone(p *float64) *float64 {
	if !finite(p) {
		return nil
	}
	v := *p
	return &v
}
