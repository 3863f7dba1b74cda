package contract_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JJ950407/lia-pagare/internal/audit"
	"github.com/JJ950407/lia-pagare/internal/contract"
	"github.com/JJ950407/lia-pagare/internal/office"
	"github.com/JJ950407/lia-pagare/internal/sale"
	"github.com/JJ950407/lia-pagare/internal/schedule"
)

func testRecord() sale.Record {
	return sale.Record{
		Debtor:         sale.Party{Name: "José Pérez", Address: "Calle 5", City: "Tuxtla"},
		Creditor:       "INMOBILIARIA LIA",
		Total:          25_000_000,
		DownPayment:    3_000_000,
		Installment:    1_300_000,
		IssueDate:      time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		PlaceOfIssue:   "OCOZOCOAUTLA",
		PlaceOfPayment: "sí",
		PenaltyRate:    5,
		Predio: sale.Predio{
			Name:      "EL PARAISO",
			Block:     "MANZANA 3 LOTE 14",
			SurfaceM2: 250,
			North:     sale.Boundary{Meters: 10, Adjoins: "CALLE SIN NOMBRE"},
		},
		Witnesses: [2]string{"TESTIGO UNO", "TESTIGO DOS"},
	}
}

// fakeDocx records the tokens of every render and writes a placeholder
// file so later stages have something to point at.
type fakeDocx struct {
	calls []map[string]string
}

func (f *fakeDocx) RenderFile(templatePath string, tokens map[string]string, outPath string) error {
	snapshot := make(map[string]string, len(tokens))
	for k, v := range tokens {
		snapshot[k] = v
	}
	f.calls = append(f.calls, snapshot)

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	return os.WriteFile(outPath, []byte("docx: "+filepath.Base(templatePath)), 0o644)
}

// fakeConverter emits a real PDF with a fixed number of pages.
type fakeConverter struct {
	pages       int
	unavailable bool // applies to the draft (scratch-dir) call only
}

func (f *fakeConverter) ConvertToPDF(_ context.Context, docxPath, outDir string) (string, error) {
	if f.unavailable && strings.Contains(docxPath, "_p1_") {
		return "", office.ErrUnavailable
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	for i := 0; i < f.pages; i++ {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(0, 10, "CONTRATO DE COMPRAVENTA", "", 1, "C", false, 0, "")
	}

	out := filepath.Join(outDir,
		strings.TrimSuffix(filepath.Base(docxPath), ".docx")+".pdf")
	if err := pdf.OutputFileAndClose(out); err != nil {
		return "", err
	}

	return out, nil
}

func writeTemplate(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "contract.docx")
	require.NoError(t, os.WriteFile(path, []byte("template"), 0o644))

	return path
}

func newService(t *testing.T, docx contract.DocxRenderer, conv office.Converter) (*contract.Service, string) {
	t.Helper()

	outRoot := t.TempDir()

	return contract.NewService(docx, conv, []string{writeTemplate(t)}, outRoot, t.TempDir()), outRoot
}

func TestService_Generate_TwoPass(t *testing.T) {
	docx := &fakeDocx{}
	svc, _ := newService(t, docx, &fakeConverter{pages: 2})

	res, err := svc.Generate(context.Background(), testRecord(), nil)
	require.NoError(t, err)

	require.Len(t, docx.calls, 2)

	// Pass 1 runs before the page count exists.
	assert.NotContains(t, docx.calls[0], "num_hojas")

	// Pass 2 embeds the count learned from the draft.
	assert.Equal(t, "2", docx.calls[1]["num_hojas"])
	assert.Equal(t, "DOS", docx.calls[1]["num_hojas_letra"])

	assert.Equal(t, 2, res.Pages)
	assert.FileExists(t, res.PDFPath)
	assert.FileExists(t, res.AuditPath)
}

func TestService_Generate_AuditRecord(t *testing.T) {
	svc, _ := newService(t, &fakeDocx{}, &fakeConverter{pages: 2})

	res, err := svc.Generate(context.Background(), testRecord(), nil)
	require.NoError(t, err)

	data, err := os.ReadFile(res.AuditPath)
	require.NoError(t, err)

	var rec contract.Record
	require.NoError(t, json.Unmarshal(data, &rec))

	assert.Equal(t, "contrato", rec.Type)
	assert.Equal(t, 2, rec.Files.PDF.Pages)
	assert.NotEqual(t, rec.Files.PDF.PreHash, rec.Files.PDF.PostHash)
	assert.Equal(t, rec.Files.PDF.PreHash[:16], rec.QRCode.ShortHash)
	assert.Equal(t, "SHA-256", rec.Verify.Algorithm)

	// The recorded post hash matches the delivered file exactly.
	got, err := audit.HashFile(res.PDFPath)
	require.NoError(t, err)
	assert.Equal(t, rec.Files.PDF.PostHash, got)
	assert.Equal(t, rec.Verify.PostHash, got)
}

func TestService_Generate_DraftConversionUnavailableIsNonFatal(t *testing.T) {
	docx := &fakeDocx{}
	svc, _ := newService(t, docx, &fakeConverter{pages: 2, unavailable: true})

	res, err := svc.Generate(context.Background(), testRecord(), nil)
	require.NoError(t, err)

	// No draft page count: zero is embedded, the contract still ships.
	assert.Equal(t, "0", docx.calls[1]["num_hojas"])
	assert.Equal(t, "CERO", docx.calls[1]["num_hojas_letra"])
	assert.FileExists(t, res.PDFPath)
}

func TestService_Generate_MissingTemplateListsCandidates(t *testing.T) {
	svc := contract.NewService(&fakeDocx{}, &fakeConverter{pages: 1},
		[]string{"/missing/a.docx", "/missing/b.docx"}, t.TempDir(), t.TempDir())

	_, err := svc.Generate(context.Background(), testRecord(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/missing/a.docx")
	assert.Contains(t, err.Error(), "/missing/b.docx")
}

func TestService_Generate_InvalidScheduleFails(t *testing.T) {
	rec := testRecord()
	rec.AnnuityAmount = 50_000_000
	rec.AnnuityCount = 1

	svc, _ := newService(t, &fakeDocx{}, &fakeConverter{pages: 1})

	_, err := svc.Generate(context.Background(), rec, nil)

	var invalid *schedule.InvalidScheduleError
	require.ErrorAs(t, err, &invalid)
}

func TestBuildTokens(t *testing.T) {
	entries, err := schedule.Compute(testRecord().ScheduleRequest())
	require.NoError(t, err)

	tokens := contract.BuildTokens(testRecord(), entries)

	assert.Equal(t, "JOSÉ PÉREZ", tokens["nombre deudor"])
	assert.Equal(t, "$250,000.00", tokens["precio total numero"])
	assert.Equal(t, "DOSCIENTOS VEINTE MIL PESOS 00/100 M.N.", tokens["saldo letra"])
	assert.Equal(t, "17", tokens["numero mensualidades"])
	assert.Equal(t, "EL PARAISO", tokens["nombre predio"])
	assert.Equal(t, "CALLE SIN NOMBRE", tokens["lindero norte colinda"])

	// The adjusted closing installment is called out.
	assert.Equal(t, "17", tokens["mensualidad especial posicion"])
	assert.Equal(t, "$12,000.00", tokens["mensualidad especial numero"])

	// One annex row per note.
	rows := strings.Split(tokens["pagares_tabla"], "\n")
	assert.Len(t, rows, 17)
	assert.Contains(t, rows[0], "01")
	assert.Contains(t, rows[0], "$13,000.00")
	assert.Contains(t, rows[0], "MENSUALIDAD")
}
