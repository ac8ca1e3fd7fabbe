package ai

import (
	"regexp"
	"strings"
)

// Models occasionally wrap output in disclaimers ("Note: this is a machine
// translation...") either inline in parentheses/brackets or as a full line.
// Strip them before the text reaches a response.
var (
	inlineDisclaimer = regexp.MustCompile(`(?i)[(\[][^()\[\]]*(machine translation|note:)[^()\[\]]*[)\]]`)
	lineDisclaimer   = regexp.MustCompile(`(?i)^\s*note\s*:.*$`)
)

// SanitizeText removes model disclaimers and collapses leftover whitespace.
func SanitizeText(s string) string {
	s = inlineDisclaimer.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if lineDisclaimer.MatchString(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(strings.Fields(strings.Join(kept, " ")), " ")
}

func sanitizeTranslation(t Translation) Translation {
	t.TitleEN = SanitizeText(t.TitleEN)
	t.SummaryEN = SanitizeText(t.SummaryEN)
	return t
}
