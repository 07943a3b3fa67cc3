package loader

import (
	"strings"

	"quote-search/models"
)

// defaultEntries is the built-in suggestion list.
var defaultEntries = []string{
	"AAPL — Apple Inc.",
	"MSFT — Microsoft Corp.",
	"GOOGL — Alphabet Inc.",
	"AMZN — Amazon.com Inc.",
	"TSLA — Tesla Inc.",
	"NVDA — NVIDIA Corp.",
	"META — Meta Platforms",
	"BRK-A — Berkshire Hathaway",
	"JPM — JPMorgan Chase",
	"V — Visa Inc.",
	"JNJ — Johnson & Johnson",
	"WMT — Walmart Inc.",
	"DIS — Walt Disney",
	"NFLX — Netflix",
	"BAC — Bank of America",
	"^GSPC — S&P 500",
}

// DefaultCatalog returns a fresh copy of the built-in catalog.
func DefaultCatalog() []models.Candidate {
	out := make([]models.Candidate, 0, len(defaultEntries))
	for _, s := range defaultEntries {
		out = append(out, ParseCandidate(s))
	}
	return out
}

// ParseCandidate splits "TICKER — Name" into its parts. Text without a
// separator is taken as a bare ticker.
func ParseCandidate(text string) models.Candidate {
	left, right, _ := strings.Cut(text, models.Separator)
	ticker := strings.TrimSpace(left)
	if fields := strings.Fields(ticker); len(fields) > 0 {
		ticker = fields[0]
	}
	return models.Candidate{Ticker: ticker, Name: strings.TrimSpace(right)}
}
