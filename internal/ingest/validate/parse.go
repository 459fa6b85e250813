package validate

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ParseDate parses any representation dateparse understands and normalizes
// it to UTC truncated to the second. Failures, including panics inside the parser, return false.
func ParseDate(s string) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	defer func() {
		if recover() != nil {
			t, ok = time.Time{}, false
		}
	}()
	parsed, err := dateparse.ParseIn(s, time.UTC)
	if err != nil || parsed.IsZero() {
		return time.Time{}, false
	}
	return parsed.UTC().Truncate(time.Second), true
}

// parseInt reads the leading integer of s, so "3rd" and "2.5" parse as 3
// and 2.
func parseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

func intOr(s string, fallback int) int {
	if n, ok := parseInt(s); ok {
		return n
	}
	return fallback
}

var numberCleaner = strings.NewReplacer(",", "", "$", "", "€", "", "£", "", "₹", "", "%", "", " ", "")

// parseNumber parses a finite decimal, ignoring thousands separators,
// currency symbols and a percent sign.
func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(numberCleaner.Replace(strings.TrimSpace(s)), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseMonth accepts 1-12 or an English month name or abbreviation.
func parseMonth(s string) (int, bool) {
	if n, ok := parseInt(s); ok {
		if n >= 1 && n <= 12 {
			return n, true
		}
		return 0, false
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 3 {
		return 0, false
	}
	for m := time.January; m <= time.December; m++ {
		if strings.HasPrefix(strings.ToLower(m.String()), s) {
			return int(m), true
		}
	}
	return 0, false
}
