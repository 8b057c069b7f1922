package utils

import (
	"fmt"
	"strings"
	"unicode/utf16"
)

func ComposeTableName(schema string, tableName string) string {
	if schema != "" {
		return fmt.Sprintf("%s.%s", schema, tableName)
	}
	return tableName
}

// Slice returns the UTF-16 code units of s in [start, end), clamping both
// bounds so out-of-range indexes never panic. Offsets count UTF-16 units to
// stay in step with Score, which folds the same units. A cut through a
// surrogate pair decodes the lone half as U+FFFD.
func Slice(s string, start, end int) string {
	units := utf16.Encode([]rune(s))
	if start < 0 {
		start = 0
	}
	if end > len(units) {
		end = len(units)
	}
	if start >= end {
		return ""
	}
	return string(utf16.Decode(units[start:end]))
}

// Head returns the first n UTF-16 units of s.
func Head(s string, n int) string {
	return Slice(s, 0, n)
}

// Tail returns the last n UTF-16 units of s, or s itself when it is shorter.
func Tail(s string, n int) string {
	units := utf16.Encode([]rune(s))
	if n >= len(units) {
		return s
	}
	return string(utf16.Decode(units[len(units)-n:]))
}

// ShortenAddress renders 0x<id[2:10]>...<last4>.
func ShortenAddress(identifier string) string {
	return fmt.Sprintf("0x%s...%s", Slice(identifier, 2, 10), Tail(identifier, 4))
}

func HasSuffixFold(s, suffix string) bool {
	return strings.HasSuffix(strings.ToLower(s), strings.ToLower(suffix))
}
