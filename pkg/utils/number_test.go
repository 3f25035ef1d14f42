package utils

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeParseNumber(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want ParsedNumber
	}{
		{name: "nil", in: nil, want: ParsedNumber{}},
		{name: "float", in: 72.5, want: ParsedNumber{Value: 72.5, OK: true}},
		{name: "int", in: 30, want: ParsedNumber{Value: 30, OK: true}},
		{name: "numeric string", in: " 1.5 ", want: ParsedNumber{Value: 1.5, OK: true}},
		{name: "negative string", in: "-3.2", want: ParsedNumber{Value: -3.2, OK: true}},
		{name: "json number", in: json.Number("0.85"), want: ParsedNumber{Value: 0.85, OK: true}},
		{name: "empty string", in: "", want: ParsedNumber{}},
		{name: "garbage string", in: "abc", want: ParsedNumber{}},
		{name: "NaN", in: math.NaN(), want: ParsedNumber{}},
		{name: "Inf", in: math.Inf(1), want: ParsedNumber{}},
		{name: "Inf string", in: "Infinity", want: ParsedNumber{}},
		{name: "nil pointer", in: (*float64)(nil), want: ParsedNumber{}},
		{name: "bool", in: true, want: ParsedNumber{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeParseNumber(tt.in))
		})
	}
}

func TestCapitalizeWord(t *testing.T) {
	assert.Equal(t, "High", CapitalizeWord("HIGH"))
	assert.Equal(t, "Medium", CapitalizeWord("medium"))
	assert.Equal(t, "", CapitalizeWord("  "))
}
