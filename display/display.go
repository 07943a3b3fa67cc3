// Package display formats search results the way the quote card shows them.
package display

import (
	"fmt"
	"time"

	"quote-search/lookup"
	"quote-search/models"
)

const NA = "N/A"

type Direction string

const (
	Up      Direction = "up"
	Down    Direction = "down"
	Flat    Direction = "flat"
	Unknown Direction = "unknown"
)

// View is the fully formatted quote card.
type View struct {
	Name          string    `json:"name"`
	Symbol        string    `json:"symbol"`
	Price         string    `json:"price"`
	Change        string    `json:"change"`
	Direction     Direction `json:"direction"`
	Open          string    `json:"open"`
	High          string    `json:"high"`
	Low           string    `json:"low"`
	PreviousClose string    `json:"previousClose"`
	Time          string    `json:"time"`
}

// Number renders v with two decimals, or N/A.
func Number(v *float64) string {
	if v == nil {
		return NA
	}
	return fmt.Sprintf("%.2f", *v)
}

// Price renders v as dollars, or N/A.
func Price(v *float64) string {
	if v == nil {
		return NA
	}
	return fmt.Sprintf("$%.2f", *v)
}

func signed(v float64) string {
	if v > 0 {
		return fmt.Sprintf("+%.2f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

// Change renders "+1.23 (+0.45%)". Either half may be N/A; when both are
// missing the whole text is N/A.
func Change(change, percent *float64) string {
	if change == nil && percent == nil {
		return NA
	}
	c, p := NA, NA
	if change != nil {
		c = signed(*change)
	}
	if percent != nil {
		p = signed(*percent) + "%"
	}
	return c + " (" + p + ")"
}

func DirectionOf(change *float64) Direction {
	switch {
	case change == nil:
		return Unknown
	case *change > 0:
		return Up
	case *change < 0:
		return Down
	default:
		return Flat
	}
}

// Time renders unix seconds as RFC 3339 in UTC, or N/A. Zero counts as
// missing.
func Time(seconds *int64) string {
	if seconds == nil || *seconds == 0 {
		return NA
	}
	return time.Unix(*seconds, 0).UTC().Format(time.RFC3339)
}

// Name prefers the long name.
func Name(q models.Quote) string {
	if q.LongName != "" {
		return q.LongName
	}
	return q.ShortName
}

func Render(r lookup.Result) View {
	q, m := r.Quote, r.Metrics
	return View{
		Name:          Name(q),
		Symbol:        "(" + q.Symbol + ")",
		Price:         Price(q.Price),
		Change:        Change(m.Change, m.ChangePercent),
		Direction:     DirectionOf(m.Change),
		Open:          Number(q.Open),
		High:          Number(q.DayHigh),
		Low:           Number(q.DayLow),
		PreviousClose: Price(m.PreviousClose),
		Time:          Time(q.TimestampSeconds),
	}
}
