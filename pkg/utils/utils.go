package utils

import (
	"log"
	"strings"
	"unicode"
)

// GoSafe runs fn in a new goroutine and recovers from any panic. onPanic, if
// set, receives the recovered value.
func GoSafe(fn func(), onPanic func(r interface{})) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[Panic Recovered] %v", r)
				if onPanic != nil {
					onPanic(r)
				}
			}
		}()
		fn()
	}()
}

func ToPointer[T any](value T) *T {
	return &value
}

// CapitalizeWord upper-cases the first letter and lower-cases the rest:
// "MEDIUM" -> "Medium".
func CapitalizeWord(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}

	runes := []rune(strings.ToLower(input))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// Truncate cuts s to at most max runes, appending "…" when cut.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if max <= 0 || len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
