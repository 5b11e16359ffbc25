package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gigavenvidere/ggv-oppgjor/dto"
	"github.com/gigavenvidere/ggv-oppgjor/service"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

func newExtractCmd(a *app) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Extract a settlement statement",
		Long:  `Extracts organizations, amounts and the total from a settlement PDF or text file and verifies the sum.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExtract(cmd, args[0], format, out)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table, csv, tsv, xlsx or json")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write output to a file instead of stdout")
	return cmd
}

func (a *app) runExtract(cmd *cobra.Command, path, format, out string) error {
	if a.service == nil {
		return errNotOpened
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	resp, err := a.service.ProcessDocument(cmd.Context(), filepath.Base(path), data)
	if err != nil {
		return err
	}

	var output []byte
	switch format {
	case formatTable:
		if out != "" {
			return errors.New("table output is only written to stdout")
		}
		return writeTable(cmd.OutOrStdout(), resp)
	case formatJSON:
		output, err = json.MarshalIndent(resp, "", "  ")
		output = append(output, '\n')
	default:
		var exportFormat service.ExportFormat
		exportFormat, err = service.ParseExportFormat(format)
		if err != nil {
			return err
		}
		if exportFormat == service.FormatXLSX && out == "" {
			return errors.New("xlsx output needs --out")
		}
		output, err = service.Render(resp, exportFormat)
	}
	if err != nil {
		return err
	}

	if out == "" {
		_, err = cmd.OutOrStdout().Write(output)
		return err
	}
	if err := os.WriteFile(out, output, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	cmd.Printf("Wrote %s\n", out)
	return nil
}

func writeTable(w io.Writer, resp *dto.SettlementResponse) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "ORGANISASJON\tBELØP (KR)\tGAVER\tPROSENT")
	for _, org := range resp.MasterList.Ordered {
		amount := "-"
		if org.FromSource {
			amount = service.FormatNOK(org.Value())
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", org.Name, amount, intOrBlank(org.GiftCount), intOrBlank(org.Percentage))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	if resp.Result.RecipientName != nil {
		fmt.Fprintf(w, "Mottaker:      %s\n", *resp.Result.RecipientName)
	}
	v := resp.Verification
	pdfSum := "-"
	if v.PDFSum != nil {
		pdfSum = service.FormatNOK(*v.PDFSum)
	}
	fmt.Fprintf(w, "Totalsum PDF:  %s\n", pdfSum)
	fmt.Fprintf(w, "Beregnet sum:  %s\n", service.FormatNOK(v.CalculatedSum))
	fmt.Fprintf(w, "Status:        %s\n", v.Status)
	fmt.Fprintln(w, v.Message)

	if len(resp.MasterList.NewOrganizations) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Nye organisasjoner (ikke i masterlisten):")
		for _, org := range resp.MasterList.NewOrganizations {
			fmt.Fprintf(w, "  %s  %s\n", org.Name, service.FormatNOK(org.Value()))
		}
	}
	return nil
}

func intOrBlank(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(*v)
}
