package ingest

// convert.go coerces spreadsheet cell text into numbers.
//
// Sheet cells carry whatever a person typed or a formula rendered:
// thousands separators ("12,000"), unit suffixes ("1,234 views"), stray
// spaces and currency symbols. Coercion never fails; anything that does not
// yield a finite number becomes 0.

import (
	"math"
	"strconv"
)

// ToNumber strips every character other than digits, '.' and '-' and parses
// the longest leading numeric prefix of what remains. "1,234 views" is 1234,
// "1.2.3" is 1.2 and "n/a" is 0.
func ToNumber(s string) float64 {
	cleaned := stripNonNumeric(s)
	prefix := numericPrefix(cleaned)
	if prefix == "" {
		return 0
	}

	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// stripNonNumeric keeps only 0-9, '.' and '-'.
func stripNonNumeric(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= '0' && c <= '9') || c == '.' || c == '-' {
			out = append(out, c)
		}
	}
	return string(out)
}

// numericPrefix returns the leading "-?digits[.digits]" run of s, or "" when
// it contains no digit.
func numericPrefix(s string) string {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}

	digits := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
			frac++
		}
		if digits > 0 || frac > 0 {
			i = j
			digits += frac
		}
	}

	if digits == 0 {
		return ""
	}
	return s[:i]
}
