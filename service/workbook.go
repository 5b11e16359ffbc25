package service

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/gigavenvidere/ggv-oppgjor/dto"
)

// Sheet layout of the settlement template: total in C1, recipient in B8,
// master list rows from row 9 (A name, B amount) and new organizations
// from row 9 in D/E.
const (
	SheetName      = "Oppgjør"
	totalCell      = "C1"
	recipientCell  = "B8"
	firstEntryRow  = 9
	missingAmount  = "-"
	newOrgsHeading = "Nye organisasjoner"
)

// WriteWorkbook renders an extraction into an XLSX workbook.
func WriteWorkbook(result dto.ExtractionResult, view dto.MasterListView) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	cells := map[string]interface{}{
		"A1": "Totalsum",
		"A8": "Mottaker",
		"D8": newOrgsHeading,
	}
	if result.TotalSum != nil && !math.IsNaN(*result.TotalSum) {
		cells[totalCell] = *result.TotalSum
	}
	if result.RecipientName != nil {
		cells[recipientCell] = *result.RecipientName
	}

	for i, org := range view.Ordered {
		row := firstEntryRow + i
		cells[cell(1, row)] = org.Name
		cells[cell(2, row)] = amountCellValue(org)
	}
	for i, org := range view.NewOrganizations {
		row := firstEntryRow + i
		cells[cell(4, row)] = org.Name
		cells[cell(5, row)] = amountCellValue(org)
	}

	for ref, value := range cells {
		if err := f.SetCellValue(SheetName, ref, value); err != nil {
			return nil, fmt.Errorf("failed to write cell %s: %w", ref, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func amountCellValue(org dto.OrganizationEntry) interface{} {
	if !org.FromSource {
		return missingAmount
	}
	v := org.Value()
	if math.IsNaN(v) {
		return org.Amount
	}
	return v
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
