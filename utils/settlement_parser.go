package utils

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/gigavenvidere/ggv-oppgjor/dto"
)

var (
	// "10 Røde Kors 5 000 kr,- 25%"
	orgLineRegex = regexp.MustCompile(`(\d+)\s+(.+?)\s+([\d\s,.]+)\s*kr\s*[,\-]+\s*(\d+)\s*%`)

	// organization names that wrap onto a second line after a gift count
	wrappedOrgRegex = regexp.MustCompile(`(?:%|\btotalbeløp)\s(\D+?)\n\d*\s\n(\D+?)\s+kr\s+([\d\s,.]+)-\s\d+\s`)

	costContributionRegex     = regexp.MustCompile(`(?i)Kostnadsbidrag\stil\sGi\sGaven\sVidere\s+([\d\s,.]+)\s*kr`)
	costContributionLineRegex = regexp.MustCompile(`(\d[\d\s,.]*)\s*kr`)

	totalSumRegex       = regexp.MustCompile(`(?i)(?:Totalsum|Total)\s*(?:kr\s*)?(\d[\d\s,.]+)(?:\s*kr)?`)
	trailingKronerRegex = regexp.MustCompile(`(\d[\d\s,.]+)\s*kr`)

	lineSpaceReplacer = strings.NewReplacer(
		"\r\n", "\n",
		"\r", "\n",
		"\u00a0", " ", // no-break space
		"\u202f", " ", // narrow no-break space, nb-NO thousands separator
		"\u2007", " ", // figure space
	)
)

// organizationMatcher finds zero or more line items in cleaned text.
type organizationMatcher func(text string) []dto.OrganizationEntry

// Matchers run unconditionally and in this order; their results are
// concatenated without de-duplication.
var organizationMatchers = []organizationMatcher{
	matchOrganizationLines,
	matchWrappedOrganizations,
	matchCostContribution,
}

// CleanText folds PDF and OCR artifacts that the patterns should not see:
// non-NFC diacritics, CRLF line endings and non-breaking spaces.
func CleanText(raw string) string {
	return lineSpaceReplacer.Replace(norm.NFC.String(raw))
}

// ExtractAll parses a settlement statement. It never fails: anything the
// patterns cannot find is returned as an empty slice or nil field.
func ExtractAll(raw string) dto.ExtractionResult {
	result := dto.ExtractionResult{Organizations: []dto.OrganizationEntry{}}
	if strings.TrimSpace(raw) == "" {
		return result
	}

	text := CleanText(raw)
	result.Organizations = extractOrganizations(text)
	result.TotalSum = extractTotalSum(text)
	result.RecipientName = extractRecipient(text)
	result.ComputedTotal = ComputeTotal(result.Organizations)
	return result
}

// ExtractOrganizations returns every line item found by the pattern cascade.
func ExtractOrganizations(raw string) []dto.OrganizationEntry {
	if strings.TrimSpace(raw) == "" {
		return []dto.OrganizationEntry{}
	}
	return extractOrganizations(CleanText(raw))
}

// ExtractTotalSum returns the stated total, or nil if none was found.
func ExtractTotalSum(raw string) *float64 {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return extractTotalSum(CleanText(raw))
}

func extractOrganizations(text string) []dto.OrganizationEntry {
	orgs := []dto.OrganizationEntry{}
	for _, match := range organizationMatchers {
		orgs = append(orgs, match(text)...)
	}
	return orgs
}

func matchOrganizationLines(text string) []dto.OrganizationEntry {
	var orgs []dto.OrganizationEntry
	for _, m := range orgLineRegex.FindAllStringSubmatch(text, -1) {
		name := collapseSpaces(m[2])
		if name == "" {
			continue
		}
		orgs = append(orgs, dto.OrganizationEntry{
			Name:       name,
			Amount:     FormatAmount(NormalizeAmount(m[3])),
			GiftCount:  atoiPtr(m[1]),
			Percentage: atoiPtr(m[4]),
			FromSource: true,
		})
	}
	return orgs
}

func matchWrappedOrganizations(text string) []dto.OrganizationEntry {
	var orgs []dto.OrganizationEntry
	for _, m := range wrappedOrgRegex.FindAllStringSubmatch(text, -1) {
		name := collapseSpaces(strings.TrimSpace(m[1]) + " " + strings.TrimSpace(m[2]))
		if name == "" {
			continue
		}
		orgs = append(orgs, dto.OrganizationEntry{
			Name:       name,
			Amount:     FormatAmount(NormalizeAmount(m[3])),
			FromSource: true,
		})
	}
	return orgs
}

func matchCostContribution(text string) []dto.OrganizationEntry {
	amount, ok := findCostContribution(text)
	if !ok {
		return nil
	}
	return []dto.OrganizationEntry{{
		Name:       dto.CostContributionName,
		Amount:     FormatAmount(NormalizeAmount(amount)),
		FromSource: true,
	}}
}

func findCostContribution(text string) (string, bool) {
	if m := costContributionRegex.FindStringSubmatch(text); m != nil {
		return m[1], true
	}

	// the phrase and the amount may be split by layout noise on the same line
	phrase := strings.ToLower(dto.CostContributionName)
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(strings.ToLower(line), phrase) {
			continue
		}
		if m := costContributionLineRegex.FindStringSubmatch(line); m != nil {
			return m[1], true
		}
		return "", false
	}
	return "", false
}

func extractTotalSum(text string) *float64 {
	if m := totalSumRegex.FindStringSubmatch(text); m != nil {
		v := NormalizeAmount(m[1])
		return &v
	}

	lines := strings.Split(text, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if m := trailingKronerRegex.FindStringSubmatch(lines[i]); m != nil {
			v := NormalizeAmount(m[1])
			return &v
		}
	}
	return nil
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func atoiPtr(s string) *int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}
