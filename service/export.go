package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/gigavenvidere/ggv-oppgjor/dto"
)

// ExportFormat selects the export serialization.
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatTSV  ExportFormat = "tsv"
	FormatXLSX ExportFormat = "xlsx"
)

// ExportFilename is the download name expected by the spreadsheet paste workflow.
const ExportFilename = "ggv-oppgjor"

var bokmal = language.MustParse("nb")

// ParseExportFormat maps a query value to an ExportFormat.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatTSV, FormatXLSX:
		return f, nil
	case "":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("%w: %q", dto.ErrUnknownFormat, s)
}

// ContentType returns the MIME type of the export.
func (f ExportFormat) ContentType() string {
	switch f {
	case FormatTSV:
		return "text/tab-separated-values; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// ExportCSV serializes an extraction as semicolon separated values with a
// UTF-8 BOM so spreadsheet programs pick the right encoding.
func ExportCSV(result dto.ExtractionResult) []byte {
	var b strings.Builder
	b.WriteString("\ufeff")
	b.WriteString("Organisasjon;Beløp (kr);Antall gaver;Prosent\n")

	for _, org := range result.Organizations {
		fmt.Fprintf(&b, "%s;%s;%s;%s\n", quote(org.Name), org.Amount, optionalInt(org.GiftCount), optionalInt(org.Percentage))
	}

	b.WriteString("\n")
	recipient := ""
	if result.RecipientName != nil {
		recipient = *result.RecipientName
	}
	fmt.Fprintf(&b, "%s;%s\n", quote("Mottaker"), quote(recipient))

	total := ""
	if result.TotalSum != nil && !math.IsNaN(*result.TotalSum) {
		total = strconv.FormatFloat(*result.TotalSum, 'f', -1, 64)
	}
	fmt.Fprintf(&b, "%s;%s\n", quote("Totalsum"), total)

	return []byte(b.String())
}

// ExportTSV serializes entries for clipboard paste, one tab separated row per
// entry: name, amount, gift count, percentage. Callers decide the order.
func ExportTSV(orgs []dto.OrganizationEntry) []byte {
	var b strings.Builder
	for _, org := range orgs {
		b.WriteString(strings.Join([]string{
			org.Name,
			org.Amount,
			optionalInt(org.GiftCount),
			optionalInt(org.Percentage),
		}, "\t"))
		b.WriteString("\n")
	}
	return []byte(b.String())
}

// FormatNOK formats an amount the nb-NO way with at most two decimals.
// NaN renders as "-".
func FormatNOK(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	p := message.NewPrinter(bokmal)
	return p.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// Render serializes a processed settlement in the requested format. TSV and
// XLSX follow the master list order, CSV keeps document order.
func Render(resp *dto.SettlementResponse, format ExportFormat) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportCSV(resp.Result), nil
	case FormatTSV:
		return ExportTSV(resp.MasterList.Ordered), nil
	case FormatXLSX:
		return WriteWorkbook(resp.Result, resp.MasterList)
	}
	return nil, fmt.Errorf("%w: %q", dto.ErrUnknownFormat, string(format))
}
