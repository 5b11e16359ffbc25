package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/gigavenvidere/ggv-oppgjor/dto"
)

var plainNumberRegex = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)$`)

// NormalizeAmount converts a Norwegian formatted amount ("5 000,50", "1.234.567")
// into a float. Spaces and periods are group separators, the last comma is the
// decimal point and any earlier commas are dropped. Returns NaN when the
// cleaned string is not a number.
func NormalizeAmount(raw string) float64 {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsSpace(r) || r == '.' {
			continue
		}
		b.WriteRune(r)
	}
	cleaned := b.String()

	if i := strings.LastIndex(cleaned, ","); i >= 0 {
		cleaned = strings.ReplaceAll(cleaned[:i], ",", "") + "." + cleaned[i+1:]
	}

	if !plainNumberRegex.MatchString(cleaned) {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// FormatAmount renders a normalized amount as the canonical decimal string
// stored on OrganizationEntry.
func FormatAmount(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ComputeTotal sums the amounts of orgs. Unparsable amounts contribute 0.
func ComputeTotal(orgs []dto.OrganizationEntry) float64 {
	total := decimal.Zero
	for _, org := range orgs {
		d, err := decimal.NewFromString(org.Amount)
		if err != nil {
			continue
		}
		total = total.Add(d)
	}
	return total.InexactFloat64()
}
