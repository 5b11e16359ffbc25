package utils

import (
	"regexp"
	"strings"
)

const maxRecipientLength = 50

// Tried in order; the first pattern that matches decides the recipient.
var recipientPatterns = []*regexp.Regexp{
	// rest of the "til:" line
	regexp.MustCompile(`(?s)til:\s+(.+?)\s*\n`),
	// capitalized words, OCR output without line breaks
	regexp.MustCompile(`til:\s+([A-ZÆØÅa-zæøå][a-zæøå]+(?:\s+[A-ZÆØÅa-zæøå][a-zæøå]+)*)`),
	// letters up to the address block
	regexp.MustCompile(`(?i)til:\s+([A-ZÆØÅa-zæøå\s]+?)(?:\s{2,}[A-Z]|\s+\d)`),
}

var (
	referenceSuffixRegex = regexp.MustCompile(`(?i)\s*referanse:.*$`)
	orgNumberLabelRegex  = regexp.MustCompile(`(?i)\s*\borg\.?\s?nr\b.*$`)
	orgNumberRegex       = regexp.MustCompile(`\s*\b\d{3}\s?\d{3}\s?\d{3}\b.*$`)
)

// ExtractRecipient returns the settlement recipient named after "til:", or nil.
func ExtractRecipient(raw string) *string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return extractRecipient(CleanText(raw))
}

func extractRecipient(text string) *string {
	for _, re := range recipientPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		// a label without a name ("til: Referanse: 123") means no recipient
		name := cleanRecipient(m[1])
		if name == "" {
			return nil
		}
		return &name
	}
	return nil
}

func cleanRecipient(s string) string {
	s = collapseSpaces(s)
	s = referenceSuffixRegex.ReplaceAllString(s, "")
	s = orgNumberLabelRegex.ReplaceAllString(s, "")
	s = orgNumberRegex.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	if len([]rune(s)) > maxRecipientLength {
		words := strings.Fields(s)
		if len(words) > 4 {
			words = words[:4]
		}
		s = strings.Join(words, " ")
	}
	return s
}
