package models

// Quote is the canonical, shape-independent quote record. Nil numeric fields
// mean "not available" and are never substituted with zero.
type Quote struct {
	Symbol           string   `json:"symbol"`
	LongName         string   `json:"longName"`
	ShortName        string   `json:"shortName"`
	Price            *float64 `json:"price"`
	Open             *float64 `json:"open"`
	DayHigh          *float64 `json:"dayHigh"`
	DayLow           *float64 `json:"dayLow"`
	PreviousClose    *float64 `json:"previousClose"`
	TimestampSeconds *int64   `json:"timestampSeconds"`

	// Change is only set when the source node carried a provider change value.
	Change *float64 `json:"change,omitempty"`
}

// Metrics holds the values derived from a Quote for display.
type Metrics struct {
	PreviousClose *float64 `json:"previousClose"`
	Change        *float64 `json:"change"`
	ChangePercent *float64 `json:"changePercent"`
}

// PricePoint is one sample of the chart feed.
type PricePoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int64) *int64 { return &v }
