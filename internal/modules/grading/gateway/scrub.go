package gateway

import "regexp"

var (
	emailPattern    = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	nationalIDRegex = regexp.MustCompile(`\b[A-Za-z]\d{7}[A-Za-z]\b`)
	longDigitsRegex = regexp.MustCompile(`\b\d{8,}\b`)
)

// Scrub masks emails, NRIC/FIN-shaped ids and digit runs of eight or more.
func Scrub(text string) string {
	text = emailPattern.ReplaceAllString(text, "[EMAIL_REDACTED]")
	text = nationalIDRegex.ReplaceAllString(text, "[ID_REDACTED]")
	text = longDigitsRegex.ReplaceAllString(text, "[PHONE/ID_REDACTED]")
	return text
}
