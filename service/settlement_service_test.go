package service

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigavenvidere/ggv-oppgjor/dto"
)

const settlementText = "Oppgjør til: Test Bedrift AS\n" +
	"10 Røde Kors 5 000 kr,- 25%\n" +
	"4 Ny Organisasjon 1 000 kr,- 10%\n" +
	"Totalsum 6 000 kr\n"

type fakePDF struct {
	text      string
	textErr   error
	images    []image.Image
	imagesErr error
}

func (f *fakePDF) ExtractText([]byte) (string, error) { return f.text, f.textErr }

func (f *fakePDF) ExtractImages([]byte) ([]image.Image, error) { return f.images, f.imagesErr }

type fakeOCR struct {
	pages []string
	calls int
}

func (f *fakeOCR) ExtractTextFromImage(image.Image) (string, float64, error) {
	if f.calls >= len(f.pages) {
		return "", 0, errors.New("no page")
	}
	text := f.pages[f.calls]
	f.calls++
	return text, 90, nil
}

type memoryMasterList struct {
	list dto.MasterList
	err  error
}

func (m *memoryMasterList) Load(context.Context) (dto.MasterList, error) { return m.list, m.err }

func (m *memoryMasterList) Save(_ context.Context, names []string) (dto.MasterList, error) {
	m.list = names
	return m.list, m.err
}

func (m *memoryMasterList) Add(_ context.Context, names []string) (dto.MasterList, []string, error) {
	added := []string{}
	for _, name := range names {
		if !m.list.Contains(name) {
			m.list = append(m.list, name)
			added = append(added, name)
		}
	}
	return m.list, added, m.err
}

func (m *memoryMasterList) Remove(_ context.Context, name string) (dto.MasterList, bool, error) {
	i := m.list.Index(name)
	if i < 0 {
		return m.list, false, m.err
	}
	m.list = append(m.list[:i:i], m.list[i+1:]...)
	return m.list, true, m.err
}

func (m *memoryMasterList) Reset(context.Context) (dto.MasterList, error) {
	m.list = dto.MasterList{"Default Org"}
	return m.list, m.err
}

type fakeReporter struct {
	reported [][]string
	err      error
}

func (f *fakeReporter) ReportNewOrganizations(_ context.Context, names []string) error {
	f.reported = append(f.reported, names)
	return f.err
}

func newTestService(pdf PDFProcessor, ocr OCRClient, master *memoryMasterList, reporter *fakeReporter) *SettlementService {
	return NewSettlementService(pdf, ocr, master, reporter, 0, zerolog.Nop())
}

func TestProcessText(t *testing.T) {
	master := &memoryMasterList{list: dto.MasterList{"Røde Kors", "Kirkens Bymisjon"}}
	svc := newTestService(&fakePDF{}, nil, master, &fakeReporter{})

	resp, err := svc.ProcessText(context.Background(), settlementText)
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.NotEmpty(t, resp.ProcessedAt)
	assert.Equal(t, dto.SourceText, resp.Source)
	require.Len(t, resp.Result.Organizations, 2)
	require.NotNil(t, resp.Result.RecipientName)
	assert.Equal(t, "Test Bedrift AS", *resp.Result.RecipientName)
	assert.Equal(t, dto.VerdictMatched, resp.Verification.Verdict)

	require.Len(t, resp.MasterList.Ordered, 2)
	assert.Equal(t, "5000", resp.MasterList.Ordered[0].Amount)
	assert.Equal(t, dto.OrganizationEntry{Name: "Kirkens Bymisjon", Amount: "0"}, resp.MasterList.Ordered[1])
	require.Len(t, resp.MasterList.NewOrganizations, 1)
	assert.Equal(t, "Ny Organisasjon", resp.MasterList.NewOrganizations[0].Name)
}

func TestProcessTextRejectsBlank(t *testing.T) {
	svc := newTestService(&fakePDF{}, nil, &memoryMasterList{}, &fakeReporter{})

	_, err := svc.ProcessText(context.Background(), "  \n ")
	assert.ErrorIs(t, err, dto.ErrEmptyText)
}

func TestProcessDocumentUsesPDFTextLayer(t *testing.T) {
	ocr := &fakeOCR{}
	svc := newTestService(&fakePDF{text: settlementText}, ocr, &memoryMasterList{}, &fakeReporter{})

	resp, err := svc.ProcessDocument(context.Background(), "oppgjor.pdf", []byte("%PDF"))
	require.NoError(t, err)

	assert.Equal(t, dto.SourcePDF, resp.Source)
	assert.Equal(t, "oppgjor.pdf", resp.Filename)
	assert.Len(t, resp.Result.Organizations, 2)
	assert.Zero(t, ocr.calls)
}

func TestProcessDocumentFallsBackToOCR(t *testing.T) {
	pdf := &fakePDF{
		text:   "Side 1",
		images: []image.Image{image.NewGray(image.Rect(0, 0, 1, 1)), image.NewGray(image.Rect(0, 0, 1, 1))},
	}
	ocr := &fakeOCR{pages: []string{
		"Oppgjør til: Test Bedrift AS\n10 Røde Kors 5 000 kr,- 25%\n",
		"4 Ny Organisasjon 1 000 kr,- 10%\nTotalsum 6 000 kr\n",
	}}
	svc := newTestService(pdf, ocr, &memoryMasterList{}, &fakeReporter{})

	resp, err := svc.ProcessDocument(context.Background(), "skannet.PDF", nil)
	require.NoError(t, err)

	assert.Equal(t, dto.SourceOCR, resp.Source)
	assert.Equal(t, 2, ocr.calls)
	assert.Len(t, resp.Result.Organizations, 2)
	assert.Equal(t, dto.VerdictMatched, resp.Verification.Verdict)
}

func TestProcessDocumentShortTextWithoutImages(t *testing.T) {
	svc := newTestService(&fakePDF{text: "Side 1"}, &fakeOCR{}, &memoryMasterList{}, &fakeReporter{})

	resp, err := svc.ProcessDocument(context.Background(), "tom.pdf", nil)
	require.NoError(t, err)

	assert.Equal(t, dto.SourcePDF, resp.Source)
	assert.Empty(t, resp.Result.Organizations)
	assert.Equal(t, dto.VerdictIndeterminate, resp.Verification.Verdict)
}

func TestProcessDocumentUnreadablePDF(t *testing.T) {
	pdf := &fakePDF{textErr: errors.New("malformed"), imagesErr: errors.New("malformed")}
	svc := newTestService(pdf, &fakeOCR{}, &memoryMasterList{}, &fakeReporter{})

	_, err := svc.ProcessDocument(context.Background(), "odelagt.pdf", nil)
	assert.ErrorIs(t, err, dto.ErrUnreadableFile)
}

func TestProcessDocumentPlainText(t *testing.T) {
	svc := newTestService(&fakePDF{textErr: errors.New("not called")}, nil, &memoryMasterList{}, &fakeReporter{})

	resp, err := svc.ProcessDocument(context.Background(), "oppgjor.txt", []byte(settlementText))
	require.NoError(t, err)

	assert.Equal(t, dto.SourceText, resp.Source)
	assert.Len(t, resp.Result.Organizations, 2)
}

func TestProcessDocumentUnsupportedFile(t *testing.T) {
	svc := newTestService(&fakePDF{}, nil, &memoryMasterList{}, &fakeReporter{})

	_, err := svc.ProcessDocument(context.Background(), "bilde.png", nil)
	assert.ErrorIs(t, err, dto.ErrUnsupportedFile)
}

func TestProcessDocumentMasterListError(t *testing.T) {
	master := &memoryMasterList{err: errors.New("db closed")}
	svc := newTestService(&fakePDF{}, nil, master, &fakeReporter{})

	_, err := svc.ProcessDocument(context.Background(), "oppgjor.txt", []byte(settlementText))
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	master := &memoryMasterList{list: dto.MasterList{"Kirkens Bymisjon", "Røde Kors"}}
	svc := newTestService(&fakePDF{}, nil, master, &fakeReporter{})

	out, err := svc.Export(context.Background(), "oppgjor.txt", []byte(settlementText), FormatTSV)
	require.NoError(t, err)

	assert.Equal(t, "Kirkens Bymisjon\t0\t\t\nRøde Kors\t5000\t10\t25\n", string(out))
}

func TestAddOrganizationsReportsOnlyAdded(t *testing.T) {
	master := &memoryMasterList{list: dto.MasterList{"Existing Org"}}
	reporter := &fakeReporter{}
	svc := newTestService(&fakePDF{}, nil, master, reporter)

	list, added, err := svc.AddOrganizations(context.Background(), []string{"Existing Org", "New Org"})
	require.NoError(t, err)

	assert.Equal(t, []string{"New Org"}, added)
	assert.Equal(t, dto.MasterList{"Existing Org", "New Org"}, list)
	assert.Equal(t, [][]string{{"New Org"}}, reporter.reported)

	_, _, err = svc.AddOrganizations(context.Background(), []string{"new org"})
	require.NoError(t, err)
	assert.Len(t, reporter.reported, 1)
}

func TestAddOrganizationsIgnoresReporterFailure(t *testing.T) {
	reporter := &fakeReporter{err: errors.New("github down")}
	svc := newTestService(&fakePDF{}, nil, &memoryMasterList{}, reporter)

	_, added, err := svc.AddOrganizations(context.Background(), []string{"New Org"})
	require.NoError(t, err)
	assert.Equal(t, []string{"New Org"}, added)
}

func TestRemoveAndReplaceMasterList(t *testing.T) {
	master := &memoryMasterList{}
	svc := newTestService(&fakePDF{}, nil, master, &fakeReporter{})
	ctx := context.Background()

	_, err := svc.ReplaceMasterList(ctx, []string{"Org A", "Org B"})
	require.NoError(t, err)

	list, removed, err := svc.RemoveOrganization(ctx, "org a")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, dto.MasterList{"Org B"}, list)

	current, err := svc.MasterList(ctx)
	require.NoError(t, err)
	assert.Equal(t, dto.MasterList{"Org B"}, current)
}

func TestResetMasterList(t *testing.T) {
	master := &memoryMasterList{list: dto.MasterList{"Org A"}}
	svc := newTestService(&fakePDF{}, nil, master, &fakeReporter{})

	list, err := svc.ResetMasterList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dto.MasterList{"Default Org"}, list)

	master.err = errors.New("db closed")
	_, err = svc.ResetMasterList(context.Background())
	assert.Error(t, err)
}
