package service

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFProcessor reads the text layer of a PDF and, for scanned documents,
// the page images to OCR.
type PDFProcessor interface {
	ExtractText(pdfData []byte) (string, error)
	ExtractImages(pdfData []byte) ([]image.Image, error)
}

type pdfProcessor struct{}

func NewPDFProcessor() PDFProcessor {
	return &pdfProcessor{}
}

// ExtractText returns one line per text row, pages separated by newlines.
func (p *pdfProcessor) ExtractText(pdfData []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("failed to read page %d: %w", pageIndex, err)
		}
		for _, row := range rows {
			textBuilder.WriteString(joinRow(row.Content))
			textBuilder.WriteString("\n")
		}
	}
	return textBuilder.String(), nil
}

// joinRow concatenates the text runs of a row, inserting a space where the
// horizontal gap between runs is wider than a fraction of the font size.
func joinRow(words pdf.TextHorizontal) string {
	sort.Sort(words)

	var b strings.Builder
	prevEnd := 0.0
	for i, w := range words {
		if i > 0 && w.X-prevEnd > w.FontSize*0.15 && !strings.HasPrefix(w.S, " ") {
			b.WriteString(" ")
		}
		b.WriteString(w.S)
		prevEnd = w.X + w.W
	}
	return b.String()
}

func (p *pdfProcessor) ExtractImages(pdfData []byte) ([]image.Image, error) {
	tempDir, err := os.MkdirTemp("", "ggv_pdf_images")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	tempFile, err := os.CreateTemp("", "oppgjor-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(pdfData); err != nil {
		tempFile.Close()
		return nil, fmt.Errorf("failed to write pdf data: %w", err)
	}
	tempFile.Close()

	// nil selects every page
	conf := model.NewDefaultConfiguration()
	if err := api.ExtractImagesFile(tempFile.Name(), tempDir, nil, conf); err != nil {
		return nil, fmt.Errorf("failed to extract images: %w", err)
	}

	files, err := os.ReadDir(tempDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read temp dir: %w", err)
	}

	var names []string
	for _, file := range files {
		if !file.IsDir() {
			names = append(names, file.Name())
		}
	}
	sortByPage(names)

	var images []image.Image
	for _, name := range names {
		imgFile, err := os.Open(filepath.Join(tempDir, name))
		if err != nil {
			continue
		}
		img, _, err := image.Decode(imgFile)
		imgFile.Close()
		if err != nil {
			continue
		}
		images = append(images, img)
	}

	return images, nil
}

// sortByPage orders pdfcpu image files (<base>_<page>_<id>.<ext>) by page
// number, then by name within a page.
func sortByPage(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		pi, pj := imagePage(names[i]), imagePage(names[j])
		if pi != pj {
			return pi < pj
		}
		return names[i] < names[j]
	})
}

// imagePage returns the page number encoded in an extracted image file name,
// or -1 when the name does not follow the pdfcpu pattern.
func imagePage(name string) int {
	parts := strings.Split(strings.TrimSuffix(name, filepath.Ext(name)), "_")
	if len(parts) < 3 {
		return -1
	}
	page, err := strconv.Atoi(parts[len(parts)-2])
	if err != nil {
		return -1
	}
	return page
}
