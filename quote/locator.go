package quote

import "sort"

// Shape tells the normalizer how to read a located node.
type Shape int

const (
	// ShapeChart is a chart result: meta object plus parallel series under
	// indicators.quote[0].
	ShapeChart Shape = iota + 1
	// ShapeQuote is a flat object with named quote fields.
	ShapeQuote
)

func (s Shape) String() string {
	switch s {
	case ShapeChart:
		return "chart"
	case ShapeQuote:
		return "quote"
	default:
		return "unknown"
	}
}

// Node is the sub-tree of a payload that represents a quote.
type Node struct {
	Shape    Shape
	Fields   map[string]any
	Strategy string // name of the strategy that found it
}

// Strategy tries to extract a quote node from a payload.
type Strategy struct {
	Name string
	Try  func(Payload) (Node, bool)
}

// Strategies is the fixed order in which payload shapes are tried.
var Strategies = []Strategy{
	{Name: "chart", Try: ChartResult},
	{Name: "quote-response", Try: QuoteResponseResult},
	{Name: "wrapper", Try: WrapperNode},
	{Name: "shallow-scan", Try: ShallowScan},
}

// Locate returns the node found by the first successful strategy.
func Locate(p Payload) (Node, bool) {
	for _, s := range Strategies {
		if n, ok := s.Try(p); ok {
			n.Strategy = s.Name
			return n, true
		}
	}
	return Node{}, false
}

// ChartResult matches {"chart":{"result":[{...}]}}.
func ChartResult(p Payload) (Node, bool) {
	if r0, ok := firstObject(path(p, "chart", "result")); ok {
		return Node{Shape: ShapeChart, Fields: r0}, true
	}
	return Node{}, false
}

// QuoteResponseResult matches {"quoteResponse":{"result":[{...}]}}.
func QuoteResponseResult(p Payload) (Node, bool) {
	if r0, ok := firstObject(path(p, "quoteResponse", "result")); ok {
		return Node{Shape: ShapeQuote, Fields: r0}, true
	}
	return Node{}, false
}

// WrapperNode searches one level inside the wrapper object for a result
// list, a nested chart or quote response, a quotes list, or a wrapper that
// is itself quote-like.
func WrapperNode(p Payload) (Node, bool) {
	w, ok := wrapper(p)
	if !ok {
		return Node{}, false
	}
	if r0, ok := firstObject(w["result"]); ok {
		if quoteLike(r0) {
			return Node{Shape: ShapeQuote, Fields: r0}, true
		}
		return Node{Shape: ShapeChart, Fields: r0}, true
	}
	if n, ok := ChartResult(w); ok {
		return n, true
	}
	if n, ok := QuoteResponseResult(w); ok {
		return n, true
	}
	if q0, ok := firstObject(w["quotes"]); ok {
		return Node{Shape: ShapeQuote, Fields: q0}, true
	}
	if quoteLike(w) {
		return Node{Shape: ShapeQuote, Fields: w}, true
	}
	return Node{}, false
}

// ShallowScan checks the wrapper's direct properties, in key order, for an
// object carrying a symbol or a market price. It never looks deeper.
func ShallowScan(p Payload) (Node, bool) {
	w, ok := wrapper(p)
	if !ok {
		return Node{}, false
	}
	keys := make([]string, 0, len(w))
	for k := range w {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		obj, ok := object(w[k])
		if !ok {
			continue
		}
		if text(obj, "symbol") != "" || number(obj["regularMarketPrice"]) != nil {
			return Node{Shape: ShapeQuote, Fields: obj}, true
		}
	}
	return Node{}, false
}

// wrapper is payload.finance when that is an object, else the payload root.
func wrapper(p Payload) (map[string]any, bool) {
	if f, ok := object(path(p, "finance")); ok {
		return f, true
	}
	return object(p)
}

func quoteLike(m map[string]any) bool {
	return text(m, "symbol") != "" || text(m, "longName") != "" || text(m, "shortName") != ""
}
