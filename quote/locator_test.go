package quote

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) Payload {
	t.Helper()
	p, err := Decode([]byte(body))
	require.NoError(t, err)
	return p
}

func TestDecode_Malformed(t *testing.T) {
	for _, body := range []string{"", "   ", "{not json", "<html></html>"} {
		_, err := Decode([]byte(body))
		require.Error(t, err, "body %q", body)
		var mp *MalformedPayloadError
		assert.True(t, errors.As(err, &mp), "body %q", body)
	}
}

func TestLocate(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantShape    Shape
		wantStrategy string
		wantField    string // key expected on the located node
	}{
		{
			name:         "chart shaped",
			body:         `{"chart":{"result":[{"meta":{"symbol":"AAPL"},"indicators":{"quote":[{"close":[1]}]},"timestamp":[1]}]}}`,
			wantShape:    ShapeChart,
			wantStrategy: "chart",
			wantField:    "meta",
		},
		{
			name:         "quote response shaped",
			body:         `{"quoteResponse":{"result":[{"symbol":"MSFT","regularMarketPrice":400}]}}`,
			wantShape:    ShapeQuote,
			wantStrategy: "quote-response",
			wantField:    "regularMarketPrice",
		},
		{
			name:         "chart wins over quote response",
			body:         `{"quoteResponse":{"result":[{"symbol":"Q"}]},"chart":{"result":[{"meta":{"symbol":"C"}}]}}`,
			wantShape:    ShapeChart,
			wantStrategy: "chart",
			wantField:    "meta",
		},
		{
			name:         "wrapper result quote-like",
			body:         `{"finance":{"result":[{"symbol":"JPM","longName":"JPMorgan"}]}}`,
			wantShape:    ShapeQuote,
			wantStrategy: "wrapper",
			wantField:    "longName",
		},
		{
			name:         "wrapper result chart-like",
			body:         `{"finance":{"result":[{"meta":{"symbol":"JPM"},"indicators":{"quote":[{"close":[1,2]}]}}]}}`,
			wantShape:    ShapeChart,
			wantStrategy: "wrapper",
			wantField:    "indicators",
		},
		{
			name:         "wrapper nested quote response",
			body:         `{"finance":{"quoteResponse":{"result":[{"symbol":"V"}]}}}`,
			wantShape:    ShapeQuote,
			wantStrategy: "wrapper",
			wantField:    "symbol",
		},
		{
			name:         "wrapper nested chart",
			body:         `{"finance":{"chart":{"result":[{"meta":{}}]}}}`,
			wantShape:    ShapeChart,
			wantStrategy: "wrapper",
			wantField:    "meta",
		},
		{
			name:         "wrapper quotes list takes first",
			body:         `{"finance":{"quotes":[{"symbol":"FIRST"},{"symbol":"SECOND"}]}}`,
			wantShape:    ShapeQuote,
			wantStrategy: "wrapper",
			wantField:    "symbol",
		},
		{
			name:         "wrapper itself quote-like",
			body:         `{"finance":{"shortName":"Tesla","regularMarketPrice":200}}`,
			wantShape:    ShapeQuote,
			wantStrategy: "wrapper",
			wantField:    "shortName",
		},
		{
			name:         "shallow scan inside finance",
			body:         `{"finance":{"error":null,"data":{"symbol":"X","regularMarketPrice":1}}}`,
			wantShape:    ShapeQuote,
			wantStrategy: "shallow-scan",
			wantField:    "regularMarketPrice",
		},
		{
			name:         "shallow scan price only",
			body:         `{"finance":{"data":{"regularMarketPrice":12.5}}}`,
			wantShape:    ShapeQuote,
			wantStrategy: "shallow-scan",
			wantField:    "regularMarketPrice",
		},
		{
			name:         "unrecognized wrapper at depth one",
			body:         `{"payload":{"symbol":"X","regularMarketPrice":1}}`,
			wantShape:    ShapeQuote,
			wantStrategy: "shallow-scan",
			wantField:    "symbol",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := Locate(decode(t, tt.body))
			require.True(t, ok)
			assert.Equal(t, tt.wantShape, n.Shape)
			assert.Equal(t, tt.wantStrategy, n.Strategy)
			assert.Contains(t, n.Fields, tt.wantField)
		})
	}
}

func TestLocate_WrapperQuotesTakesFirst(t *testing.T) {
	n, ok := Locate(decode(t, `{"finance":{"quotes":[{"symbol":"FIRST"},{"symbol":"SECOND"}]}}`))
	require.True(t, ok)
	assert.Equal(t, "FIRST", n.Fields["symbol"])
}

func TestLocate_ShallowScanIsOrderedAndOneLevel(t *testing.T) {
	n, ok := Locate(decode(t, `{"finance":{"b":{"symbol":"B"},"a":{"symbol":"A"}}}`))
	require.True(t, ok)
	assert.Equal(t, "A", n.Fields["symbol"])

	for _, body := range []string{
		`{"payload":{"inner":{"symbol":"X","regularMarketPrice":1}}}`,
		`{"finance":{"payload":{"inner":{"symbol":"X","regularMarketPrice":1}}}}`,
	} {
		_, ok := Locate(decode(t, body))
		assert.False(t, ok, "body %s", body)
	}
}

func TestLocate_NotFound(t *testing.T) {
	for _, body := range []string{
		`{}`,
		`[]`,
		`"text"`,
		`42`,
		`null`,
		`{"chart":{"result":[]}}`,
		`{"chart":{"result":null,"error":{"code":"Not Found"}}}`,
		`{"quoteResponse":{"result":[]}}`,
		`{"finance":{"result":null,"error":{"code":"Bad Request"}}}`,
		`{"finance":{"data":{"symbol":"","regularMarketPrice":null}}}`,
		`{"chart":{"result":["not an object"]}}`,
	} {
		_, ok := Locate(decode(t, body))
		assert.False(t, ok, "body %s", body)
	}
}

func TestStrategiesAreIndependent(t *testing.T) {
	p := decode(t, `{"quoteResponse":{"result":[{"symbol":"MSFT"}]}}`)
	_, ok := ChartResult(p)
	assert.False(t, ok)
	_, ok = QuoteResponseResult(p)
	assert.True(t, ok)

	names := make([]string, 0, len(Strategies))
	for _, s := range Strategies {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"chart", "quote-response", "wrapper", "shallow-scan"}, names)
}
