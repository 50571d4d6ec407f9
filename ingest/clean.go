package ingest

import (
	"regexp"
	"strings"
)

var (
	controlChars   = regexp.MustCompile(`[\x{0}-\x{1F}\x{7F}-\x{9F}]`)
	whitespaceRuns = regexp.MustCompile(`[\s\p{Zs}]+`)
	disallowed     = regexp.MustCompile(`[^\w\s.,;:!?¿¡()áéíóúñÁÉÍÓÚÑ-]`)
)

// CleanText blanks out control characters and everything outside a
// Spanish-aware allow-list of letters and punctuation, then collapses whitespace.
func CleanText(s string) string {
	s = controlChars.ReplaceAllString(s, " ")
	s = disallowed.ReplaceAllString(s, " ")
	s = whitespaceRuns.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
