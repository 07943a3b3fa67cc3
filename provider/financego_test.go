package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-search/models"
	"quote-search/quote"
)

func TestFinanceGoSource_Quote(t *testing.T) {
	t.Parallel()

	s := NewFinanceGoSource(zerolog.Nop())
	s.GetQuote = func(symbol string) (*finance.Quote, error) {
		return &finance.Quote{
			Symbol:                     symbol,
			ShortName:                  "Apple",
			RegularMarketPrice:         190.5,
			RegularMarketPreviousClose: 188,
		}, nil
	}

	p, err := s.Fetch(context.Background(), "AAPL", Fallback)
	require.NoError(t, err)

	n, ok := quote.Locate(p)
	require.True(t, ok)
	assert.Equal(t, quote.ShapeQuote, n.Shape)

	q := quote.Normalize(n, "AAPL")
	assert.Equal(t, "AAPL", q.Symbol)
	assert.Equal(t, "Apple", q.ShortName)
	assert.Equal(t, models.Float(190.5), q.Price)
	assert.Equal(t, models.Float(188), q.PreviousClose)
	assert.Nil(t, q.Open, "zero numbers from the client are absent")
	assert.Nil(t, q.Change)
}

func TestFinanceGoSource_QuoteNotFound(t *testing.T) {
	t.Parallel()

	s := NewFinanceGoSource(zerolog.Nop())
	s.GetQuote = func(string) (*finance.Quote, error) { return nil, nil }

	p, err := s.Fetch(context.Background(), "ZZZZ", Fallback)
	require.NoError(t, err)
	_, ok := quote.Locate(p)
	assert.False(t, ok)
}

func TestFinanceGoSource_Chart(t *testing.T) {
	t.Parallel()

	s := NewFinanceGoSource(zerolog.Nop())
	s.GetChart = func(symbol string) (finance.ChartMeta, []*finance.ChartBar, error) {
		return finance.ChartMeta{Symbol: symbol}, []*finance.ChartBar{
			{Timestamp: 1700006400, Close: decimal.RequireFromString("100.25")},
			nil,
			{Timestamp: 1700092800, Close: decimal.Zero},
			{
				Timestamp: 1700179200,
				Open:      decimal.RequireFromString("99.5"),
				High:      decimal.RequireFromString("102.75"),
				Low:       decimal.RequireFromString("98"),
				Close:     decimal.RequireFromString("101"),
			},
		}, nil
	}

	p, err := s.Fetch(context.Background(), "MSFT", Primary)
	require.NoError(t, err)

	n, ok := quote.Locate(p)
	require.True(t, ok)
	assert.Equal(t, quote.ShapeChart, n.Shape)

	q := quote.Normalize(n, "MSFT")
	assert.Equal(t, "MSFT", q.Symbol)
	assert.Equal(t, models.Float(101), q.Price)
	assert.Equal(t, models.Float(99.5), q.Open)
	assert.Equal(t, models.Float(102.75), q.DayHigh)
	assert.Equal(t, models.Float(98), q.DayLow)

	series := quote.ExtractSeries(p)
	require.NotNil(t, series)
	require.Len(t, series.Close, 3)
	assert.Nil(t, series.Close[1])
	assert.Equal(t, models.Float(100.25), series.Close[0])
}

func TestFinanceGoSource_Error(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	s := NewFinanceGoSource(zerolog.Nop())
	s.GetChart = func(string) (finance.ChartMeta, []*finance.ChartBar, error) {
		return finance.ChartMeta{}, nil, boom
	}

	_, err := s.Fetch(context.Background(), "AAPL", Primary)
	var re *RetrievalError
	require.ErrorAs(t, err, &re)
	assert.ErrorIs(t, err, boom)
}

func TestFinanceGoSource_HonoursCancel(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	defer close(release)

	s := NewFinanceGoSource(zerolog.Nop())
	s.GetQuote = func(string) (*finance.Quote, error) {
		<-release
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := s.Fetch(ctx, "AAPL", Fallback)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
