package utils

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ParsedNumber is the result of SafeParseNumber. OK is false when the input
// was absent or not a finite number; Value is meaningless in that case.
type ParsedNumber struct {
	Value float64
	OK    bool
}

func absent() ParsedNumber { return ParsedNumber{} }

// SafeParseNumber accepts numbers of any Go numeric kind, json.Number and
// numeric strings. nil, NaN, ±Inf, empty and non-numeric strings are absent.
func SafeParseNumber(v interface{}) ParsedNumber {
	var f float64
	switch n := v.(type) {
	case nil:
		return absent()
	case float64:
		f = n
	case *float64:
		if n == nil {
			return absent()
		}
		f = *n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return absent()
		}
		f = parsed
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return absent()
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return absent()
		}
		f = parsed
	default:
		return absent()
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return absent()
	}
	return ParsedNumber{Value: f, OK: true}
}
