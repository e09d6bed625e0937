// Package validator holds small reusable validation helpers for request
// and model fields.
package validator

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// SymbolRgx matches trading pair symbols such as BTC/USD or ETH-PERP.
	SymbolRgx = regexp.MustCompile(`^[A-Z0-9]+([/-][A-Z0-9]+)?$`)
)

// NotBlank returns true if a string is not empty or contains only whitespace.
func NotBlank(value string) bool {
	return strings.TrimSpace(value) != ""
}

// MinRunes returns true if a string is greater than or equal to a minimum number of n
func MinRunes(value string, n int) bool {
	return utf8.RuneCountInString(value) >= n
}

// MaxRunes returns true if a string is less than or equal to a maximum number of n
func MaxRunes(value string, n int) bool {
	return utf8.RuneCountInString(value) <= n
}

// Matches returns true if a string value matches a specific regexp pattern.
func Matches(value string, rx *regexp.Regexp) bool {
	return rx.MatchString(value)
}

// In returns true if a value is in a list of values.
func In[T comparable](value T, list ...T) bool {
	for i := range list {
		if value == list[i] {
			return true
		}
	}
	return false
}

// IsSymbol returns true if a string is a well-formed market symbol.
func IsSymbol(value string) bool {
	return NotBlank(value) && MaxRunes(value, 32) && Matches(value, SymbolRgx)
}
