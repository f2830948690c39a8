package util

import (
	"regexp"
	"strings"
)

// NIB: nomor induk berusaha, 13 digits. NIK: nomor induk kependudukan, 16 digits.
var (
	nibPattern = regexp.MustCompile(`^\d{13}$`)
	nikPattern = regexp.MustCompile(`^\d{16}$`)
)

// IsValidNIB reports whether s is exactly 13 decimal digits.
func IsValidNIB(s string) bool {
	return nibPattern.MatchString(s)
}

// IsValidNIK reports whether s is exactly 16 decimal digits.
func IsValidNIK(s string) bool {
	return nikPattern.MatchString(s)
}

// DigitsOnly strips every non-digit rune. Spreadsheet exports frequently
// carry NIB values with dots, dashes or stray spaces.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
