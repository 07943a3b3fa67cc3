package models

// Candidate is one entry of the suggestion catalog.
type Candidate struct {
	Ticker string `json:"ticker" yaml:"ticker"`
	Name   string `json:"name" yaml:"name"`
}

// Separator joins ticker and name in the display text of a candidate.
const Separator = "—"

// Text renders the candidate as "TICKER — Name", the form scoring and
// tie-breaking operate on.
func (c Candidate) Text() string {
	return c.Ticker + " " + Separator + " " + c.Name
}

type ScoredCandidate struct {
	Candidate
	Score int `json:"score"` // 0-100
}
