// Package quote turns raw quote payloads of several known shapes into one
// canonical record and derives the display metrics from it.
package quote

import (
	"encoding/json"
	"errors"
	"math"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cast"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Payload is an untyped tree as produced by decoding a JSON body: objects
// are map[string]any, arrays []any, numbers float64.
type Payload = any

// MalformedPayloadError reports a body that is not structured data.
type MalformedPayloadError struct {
	Err error
}

func (e *MalformedPayloadError) Error() string {
	return "malformed payload: " + e.Err.Error()
}

func (e *MalformedPayloadError) Unwrap() error { return e.Err }

// Decode parses a response body into a Payload.
func Decode(body []byte) (Payload, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, &MalformedPayloadError{Err: errors.New("empty body")}
	}
	var p Payload
	if err := jsonAPI.Unmarshal(body, &p); err != nil {
		return nil, &MalformedPayloadError{Err: err}
	}
	return p, nil
}

func object(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok && m != nil
}

func array(v any) []any {
	a, _ := v.([]any)
	return a
}

// path follows object keys from v; nil when any step is missing.
func path(v any, keys ...string) any {
	for _, k := range keys {
		m, ok := object(v)
		if !ok {
			return nil
		}
		v = m[k]
	}
	return v
}

// firstObject returns the first element of an array when it is an object.
func firstObject(v any) (map[string]any, bool) {
	a := array(v)
	if len(a) == 0 {
		return nil, false
	}
	return object(a[0])
}

func text(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func firstText(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// number coerces JSON numbers, numeric strings and {"raw": n} wrappers.
// Anything else, including NaN and infinities, is absent.
func number(v any) *float64 {
	var f float64
	switch t := v.(type) {
	case nil, bool:
		return nil
	case float64:
		f = t
	case map[string]any:
		return number(t["raw"])
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		x, err := cast.ToFloat64E(s)
		if err != nil {
			return nil
		}
		f = x
	case json.Number, int, int64, float32:
		x, err := cast.ToFloat64E(t)
		if err != nil {
			return nil
		}
		f = x
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func integer(v any) *int64 {
	f := number(v)
	if f == nil {
		return nil
	}
	i := int64(*f)
	return &i
}

func numberAt(a []any, i int) *float64 {
	if i < 0 || i >= len(a) {
		return nil
	}
	return number(a[i])
}
