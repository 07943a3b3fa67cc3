package quote

import "quote-search/models"

// Normalize maps a located node into the canonical quote. symbolHint is
// the symbol the caller searched for; it fills in when the node lacks one.
func Normalize(n Node, symbolHint string) models.Quote {
	if n.Shape == ShapeChart {
		return fromChart(n.Fields, symbolHint)
	}
	return fromQuote(n.Fields, symbolHint)
}

func fromChart(r0 map[string]any, symbolHint string) models.Quote {
	meta, _ := object(r0["meta"])
	series, _ := firstObject(path(r0, "indicators", "quote"))

	closes := array(series["close"])
	idx := lastPresent(closes)

	q := models.Quote{
		Symbol:        firstText(text(meta, "symbol"), symbolHint, text(r0, "symbol")),
		LongName:      firstText(text(meta, "longName"), text(meta, "exchangeName"), text(meta, "fullExchangeName")),
		ShortName:     text(meta, "shortName"),
		Price:         numberAt(closes, idx),
		Open:          numberAt(array(series["open"]), idx),
		DayHigh:       numberAt(array(series["high"]), idx),
		DayLow:        numberAt(array(series["low"]), idx),
		PreviousClose: number(meta["previousClose"]),
	}

	q.TimestampSeconds = integer(meta["regularMarketTime"])
	if q.TimestampSeconds == nil {
		if ts := array(r0["timestamp"]); len(ts) > 0 {
			q.TimestampSeconds = integer(ts[len(ts)-1])
		}
	}
	return q
}

func fromQuote(m map[string]any, symbolHint string) models.Quote {
	return models.Quote{
		Symbol:           firstText(text(m, "symbol"), symbolHint),
		LongName:         text(m, "longName"),
		ShortName:        text(m, "shortName"),
		Price:            number(m["regularMarketPrice"]),
		Open:             number(m["regularMarketOpen"]),
		DayHigh:          number(m["regularMarketDayHigh"]),
		DayLow:           number(m["regularMarketDayLow"]),
		PreviousClose:    number(m["regularMarketPreviousClose"]),
		TimestampSeconds: integer(m["regularMarketTime"]),
		Change:           number(m["regularMarketChange"]),
	}
}

// lastPresent is the last index holding a number, or 0.
func lastPresent(a []any) int {
	for i := len(a) - 1; i >= 0; i-- {
		if number(a[i]) != nil {
			return i
		}
	}
	return 0
}
