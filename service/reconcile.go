package service

import (
	"fmt"
	"math"

	"github.com/gigavenvidere/ggv-oppgjor/dto"
	"github.com/gigavenvidere/ggv-oppgjor/utils"
)

// SumTolerance absorbs floating point noise from amount normalization.
const SumTolerance = 0.01

// Reconcile sums the line items and compares them with the stated total.
func Reconcile(orgs []dto.OrganizationEntry, totalSum *float64) (float64, dto.Verdict) {
	computed := utils.ComputeTotal(orgs)
	if totalSum == nil {
		return computed, dto.VerdictIndeterminate
	}
	// NaN totals fall through to Mismatched
	if !(math.Abs(*totalSum-computed) <= SumTolerance) {
		return computed, dto.VerdictMismatched
	}
	return computed, dto.VerdictMatched
}

// Verify builds the verification summary shown alongside an extraction.
func Verify(result dto.ExtractionResult) dto.Verification {
	computed, verdict := Reconcile(result.Organizations, result.TotalSum)

	v := dto.Verification{
		PDFSum:        result.TotalSum,
		CalculatedSum: computed,
		Verdict:       verdict,
		Status:        verdict.Label(),
	}
	if result.TotalSum != nil {
		if diff := math.Abs(*result.TotalSum - computed); !math.IsNaN(diff) {
			v.Difference = &diff
		}
	}

	switch verdict {
	case dto.VerdictIndeterminate:
		v.Message = "Kunne ikke trekke ut totalsum fra PDF. Vennligst sjekk dataene manuelt."
	case dto.VerdictMismatched:
		v.Message = fmt.Sprintf(
			"Summen av trukket data (%s kr) stemmer ikke med sum i PDF (%s kr). Vennligst sjekk dataene.",
			FormatNOK(computed), FormatNOK(*result.TotalSum),
		)
	default:
		v.Message = "Data er vellykket hentet ut fra PDF-filen."
	}
	return v
}
