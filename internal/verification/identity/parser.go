package identity

import (
	"regexp"
	"strings"

	"github.com/rentora/rentora-backend/internal/verification/domain"
)

// Identifier patterns on a national ID card. The front carries the short
// form (6-2-4 digit groups); the back repeats it with two extra groups.
var (
	frontPattern = regexp.MustCompile(`\d{6}-\d{2}-\d{4}`)
	backPattern  = regexp.MustCompile(`\d{6}-\d{2}-\d{4}-\d{2}-\d{1,2}`)
	nonDigit     = regexp.MustCompile(`\D`)
)

// Minimum digit count for the unhyphenated fallback: 6+2+4
const fallbackDigits = 12

// ParseIdentifier extracts a national-ID candidate from raw OCR text.
// Returns the empty string when no identifier pattern is found; empty input
// and no-match are deliberately not distinguished, the caller reports both
// as an undetectable side.
//
// Pure and side-effect free: same (rawText, side) always yields the same
// candidate.
func ParseIdentifier(rawText string, side domain.Side) string {
	if side == domain.SideBack {
		// Prefer the long back-side form, fall back to the short form
		if m := backPattern.FindString(rawText); m != "" {
			return m
		}
	}

	if m := frontPattern.FindString(rawText); m != "" {
		return m
	}

	return reconstructFromDigits(rawText)
}

// reconstructFromDigits handles OCR output that dropped the hyphens: strip
// everything that is not a digit and, if at least 12 digits remain, rebuild
// the short form from the first 12.
func reconstructFromDigits(rawText string) string {
	digits := nonDigit.ReplaceAllString(rawText, "")
	if len(digits) < fallbackDigits {
		return ""
	}

	var b strings.Builder
	b.WriteString(digits[0:6])
	b.WriteByte('-')
	b.WriteString(digits[6:8])
	b.WriteByte('-')
	b.WriteString(digits[8:12])
	return b.String()
}
