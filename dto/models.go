package dto

import (
	"math"
	"strconv"
	"strings"
)

// CostContributionName is the fixed display name of the service fee line.
const CostContributionName = "Kostnadsbidrag til Gi Gaven Videre"

// OrganizationEntry is one line item of a settlement statement.
type OrganizationEntry struct {
	Name       string `json:"name"`
	Amount     string `json:"amount"` // canonical decimal, "NaN" when unparsable
	GiftCount  *int   `json:"gift_count,omitempty"`
	Percentage *int   `json:"percentage,omitempty"`
	FromSource bool   `json:"from_source"`
}

// Value parses Amount. Unparsable amounts yield NaN.
func (o OrganizationEntry) Value() float64 {
	v, err := strconv.ParseFloat(o.Amount, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// ExtractionResult is produced fresh for every document and never mutated by the parser afterwards.
type ExtractionResult struct {
	Organizations []OrganizationEntry `json:"organizations"`
	TotalSum      *float64            `json:"total_sum"`
	RecipientName *string             `json:"recipient_name"`
	ComputedTotal float64             `json:"computed_total"`
}

// Verdict classifies the comparison between the stated and the computed total.
type Verdict string

const (
	VerdictMatched       Verdict = "matched"
	VerdictMismatched    Verdict = "mismatched"
	VerdictIndeterminate Verdict = "indeterminate"
)

// Label returns the short Norwegian status shown next to the sums.
func (v Verdict) Label() string {
	switch v {
	case VerdictMatched:
		return "Verifisert OK"
	case VerdictMismatched:
		return "Avvik funnet"
	default:
		return "Totalsum ikke funnet"
	}
}

// Verification is the reconciliation summary for one document.
type Verification struct {
	PDFSum        *float64 `json:"pdf_sum"`
	CalculatedSum float64  `json:"calculated_sum"`
	Difference    *float64 `json:"difference"`
	Verdict       Verdict  `json:"verdict"`
	Status        string   `json:"status"`
	Message       string   `json:"message"`
}

// MasterList is the ordered, user curated list of known organization names.
type MasterList []string

// NormalizeName lowercases, trims and collapses whitespace runs.
// Two names refer to the same organization iff their normalized forms are equal.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Index returns the position of name in the list, or -1.
func (m MasterList) Index(name string) int {
	key := NormalizeName(name)
	for i, n := range m {
		if NormalizeName(n) == key {
			return i
		}
	}
	return -1
}

// Contains reports whether name is on the list.
func (m MasterList) Contains(name string) bool {
	return m.Index(name) >= 0
}

// MasterListView is the extraction seen through the master list.
type MasterListView struct {
	Ordered          []OrganizationEntry `json:"ordered"`
	NewOrganizations []OrganizationEntry `json:"new_organizations"`
}
