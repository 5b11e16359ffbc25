package service

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gigavenvidere/ggv-oppgjor/dto"
	"github.com/gigavenvidere/ggv-oppgjor/utils"
)

// DefaultMinTextLength is the shortest PDF text layer trusted without OCR.
const DefaultMinTextLength = 50

// OCRClient recognizes text on a rendered page.
type OCRClient interface {
	ExtractTextFromImage(img image.Image) (string, float64, error)
}

// MasterListStore persists the master list.
type MasterListStore interface {
	Load(ctx context.Context) (dto.MasterList, error)
	Save(ctx context.Context, names []string) (dto.MasterList, error)
	Add(ctx context.Context, names []string) (dto.MasterList, []string, error)
	Remove(ctx context.Context, name string) (dto.MasterList, bool, error)
	Reset(ctx context.Context) (dto.MasterList, error)
}

// IssueReporter is notified about organizations added to the master list.
type IssueReporter interface {
	ReportNewOrganizations(ctx context.Context, names []string) error
}

type SettlementService struct {
	pdfProcessor  PDFProcessor
	ocrClient     OCRClient
	masterList    MasterListStore
	reporter      IssueReporter
	minTextLength int
	log           zerolog.Logger
}

func NewSettlementService(
	pdfProcessor PDFProcessor,
	ocrClient OCRClient,
	masterList MasterListStore,
	reporter IssueReporter,
	minTextLength int,
	log zerolog.Logger,
) *SettlementService {
	if minTextLength <= 0 {
		minTextLength = DefaultMinTextLength
	}
	return &SettlementService{
		pdfProcessor:  pdfProcessor,
		ocrClient:     ocrClient,
		masterList:    masterList,
		reporter:      reporter,
		minTextLength: minTextLength,
		log:           log.With().Str("component", "settlement_service").Logger(),
	}
}

// ProcessDocument extracts, verifies and reconciles one uploaded settlement.
func (s *SettlementService) ProcessDocument(ctx context.Context, filename string, data []byte) (*dto.SettlementResponse, error) {
	if !dto.IsSupportedFile(filename) {
		return nil, dto.ErrUnsupportedFile
	}

	text, source, err := s.documentText(ctx, filename, data)
	if err != nil {
		return nil, err
	}

	resp, err := s.build(ctx, text, source)
	if err != nil {
		return nil, err
	}
	resp.Filename = filename
	return resp, nil
}

// ProcessText runs the same pipeline on text that was extracted elsewhere.
func (s *SettlementService) ProcessText(ctx context.Context, text string) (*dto.SettlementResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, dto.ErrEmptyText
	}
	return s.build(ctx, text, dto.SourceText)
}

// Export processes a document and renders it in format.
func (s *SettlementService) Export(ctx context.Context, filename string, data []byte, format ExportFormat) ([]byte, error) {
	resp, err := s.ProcessDocument(ctx, filename, data)
	if err != nil {
		return nil, err
	}
	return Render(resp, format)
}

func (s *SettlementService) build(ctx context.Context, text string, source dto.TextSource) (*dto.SettlementResponse, error) {
	result := utils.ExtractAll(text)
	verification := Verify(result)

	master, err := s.masterList.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load master list: %w", err)
	}
	ordered, fresh := ReconcileMasterList(result.Organizations, master)

	s.log.Info().
		Str("source", string(source)).
		Int("organizations", len(result.Organizations)).
		Int("new_organizations", len(fresh)).
		Str("verdict", string(verification.Verdict)).
		Msg("settlement processed")

	return &dto.SettlementResponse{
		ID:           uuid.NewString(),
		Source:       source,
		Result:       result,
		Verification: verification,
		MasterList: dto.MasterListView{
			Ordered:          ordered,
			NewOrganizations: fresh,
		},
		ProcessedAt: time.Now().Format(time.RFC3339),
	}, nil
}

// documentText returns the text of a PDF or plain text upload. PDFs whose
// text layer is shorter than minTextLength are treated as scanned and OCR'd.
func (s *SettlementService) documentText(ctx context.Context, filename string, data []byte) (string, dto.TextSource, error) {
	if strings.EqualFold(filepath.Ext(filename), ".txt") {
		return string(data), dto.SourceText, nil
	}

	text, pdfErr := s.pdfProcessor.ExtractText(data)
	if pdfErr != nil {
		s.log.Warn().Err(pdfErr).Str("file", filename).Msg("pdf text extraction failed")
	}
	if len(strings.TrimSpace(text)) >= s.minTextLength {
		return text, dto.SourcePDF, nil
	}

	s.log.Info().Str("file", filename).Msg("pdf has minimal text, attempting image-based OCR")
	ocrText, ok := s.ocrPages(ctx, filename, data)
	if ok {
		return ocrText, dto.SourceOCR, nil
	}
	if pdfErr != nil {
		return "", "", fmt.Errorf("%w: %s: %v", dto.ErrUnreadableFile, filename, pdfErr)
	}
	return text, dto.SourcePDF, nil
}

// ocrPages OCRs every embedded page image in order. ok is false when no page
// produced text.
func (s *SettlementService) ocrPages(ctx context.Context, filename string, data []byte) (string, bool) {
	if s.ocrClient == nil {
		s.log.Warn().Str("file", filename).Msg("no OCR client configured")
		return "", false
	}

	images, err := s.pdfProcessor.ExtractImages(data)
	if err != nil || len(images) == 0 {
		s.log.Warn().Err(err).Str("file", filename).Msg("no page images to OCR")
		return "", false
	}

	var combined strings.Builder
	pages := 0
	for i, img := range images {
		if ctx.Err() != nil {
			break
		}
		pageText, conf, err := s.ocrClient.ExtractTextFromImage(img)
		if err != nil {
			s.log.Warn().Err(err).Str("file", filename).Int("page", i+1).Msg("OCR failed for page")
			continue
		}
		s.log.Debug().Int("page", i+1).Float64("confidence", conf).Msg("page recognized")
		combined.WriteString(pageText)
		combined.WriteString("\n")
		pages++
	}

	if pages == 0 || strings.TrimSpace(combined.String()) == "" {
		return "", false
	}
	return combined.String(), true
}

// MasterList returns the current master list.
func (s *SettlementService) MasterList(ctx context.Context) (dto.MasterList, error) {
	list, err := s.masterList.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load master list: %w", err)
	}
	return list, nil
}

// ReplaceMasterList overwrites the master list.
func (s *SettlementService) ReplaceMasterList(ctx context.Context, names []string) (dto.MasterList, error) {
	list, err := s.masterList.Save(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("failed to save master list: %w", err)
	}
	return list, nil
}

// AddOrganizations appends names to the master list and reports the ones
// that were actually new. Reporting failures are logged, not returned.
func (s *SettlementService) AddOrganizations(ctx context.Context, names []string) (dto.MasterList, []string, error) {
	list, added, err := s.masterList.Add(ctx, names)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to add organizations: %w", err)
	}

	if len(added) > 0 && s.reporter != nil {
		if err := s.reporter.ReportNewOrganizations(ctx, added); err != nil {
			s.log.Warn().Err(err).Strs("organizations", added).Msg("failed to report new organizations")
		}
	}
	return list, added, nil
}

// RemoveOrganization deletes name from the master list.
func (s *SettlementService) RemoveOrganization(ctx context.Context, name string) (dto.MasterList, bool, error) {
	list, removed, err := s.masterList.Remove(ctx, name)
	if err != nil {
		return nil, false, fmt.Errorf("failed to remove organization: %w", err)
	}
	return list, removed, nil
}

// ResetMasterList restores the default master list.
func (s *SettlementService) ResetMasterList(ctx context.Context) (dto.MasterList, error) {
	list, err := s.masterList.Reset(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reset master list: %w", err)
	}
	return list, nil
}
