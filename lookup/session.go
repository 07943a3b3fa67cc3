package lookup

import (
	"context"
	"sync"

	"quote-search/chart"
)

// Session holds the state of one interactive search box. A new Search
// cancels the one in flight; a search that finishes after a newer one has
// started is discarded with ErrSuperseded and never touches the state.
type Session struct {
	searcher Searcher

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	current *Result
	chart   chart.Holder
}

func NewSession(searcher Searcher) *Session {
	return &Session{searcher: searcher}
}

func (s *Session) Search(ctx context.Context, symbol string) (Result, error) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	res, err := s.searcher.Search(ctx, symbol)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return Result{}, ErrSuperseded
	}
	s.cancel = nil

	if err != nil {
		s.current = nil
		_ = s.chart.Replace(nil)
		return Result{}, err
	}

	s.current = &res
	if cerr := s.chart.Replace(chart.NewDataset(res.ChartLabel(), res.Chart)); cerr != nil {
		return res, cerr
	}
	return res, nil
}

// Current returns the last completed result, if any.
func (s *Session) Current() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Result{}, false
	}
	return *s.current, true
}

// Chart returns the chart resource of the current result, or nil.
func (s *Session) Chart() chart.Resource {
	return s.chart.Current()
}

// Close cancels any search in flight and releases the chart.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
	s.current = nil
	return s.chart.Replace(nil)
}
