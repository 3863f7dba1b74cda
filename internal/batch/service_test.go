package batch_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JJ950407/lia-pagare/internal/audit"
	"github.com/JJ950407/lia-pagare/internal/batch"
	"github.com/JJ950407/lia-pagare/internal/render"
	"github.com/JJ950407/lia-pagare/internal/sale"
	"github.com/JJ950407/lia-pagare/internal/schedule"
)

func testRecord() sale.Record {
	return sale.Record{
		Debtor:         sale.Party{Name: "JOSE PEREZ GOMEZ", Address: "CALLE 5 DE MAYO 12", City: "OCOZOCOAUTLA"},
		Creditor:       "INMOBILIARIA LIA",
		Phone:          "9610000000",
		Total:          25_000_000,
		DownPayment:    3_000_000,
		Installment:    1_300_000,
		IssueDate:      time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		Rule:           schedule.RuleSameHalf,
		PlaceOfIssue:   "OCOZOCOAUTLA",
		PlaceOfPayment: "OCOZOCOAUTLA",
		PenaltyRate:    5,
		Witnesses:      [2]string{"TESTIGO UNO", "TESTIGO DOS"},
	}
}

func TestService_Generate(t *testing.T) {
	root := t.TempDir()
	svc := batch.NewService(render.NewRenderer(), root)

	res, err := svc.Generate(context.Background(), testRecord())
	require.NoError(t, err)

	// 220,000 at 13,000/month: 17 notes, closing one short.
	require.Len(t, res.Entries, 17)
	require.Len(t, res.Manifest.Notes, 17)

	assert.FileExists(t, res.LotPath)
	assert.FileExists(t, res.ManifestPath)
	assert.Contains(t, res.BatchID, "LIA-JOSE_PEREZ_GOMEZ-2024-03-04-")

	for _, note := range res.Manifest.Notes {
		assert.FileExists(t, filepath.Join(res.BaseDir, "individuales", "PAGARE_"+note.Folio+".pdf"))
		assert.FileExists(t, note.AuditPath)

		// The stamp changed the bytes, so the two hashes must differ.
		assert.NotEqual(t, note.PreHash, note.PostHash)
		assert.Equal(t, note.PreHash[:10], note.QRShort)

		// The recorded post hash matches the delivered file exactly.
		got, err := audit.HashFile(filepath.Join(res.BaseDir, "individuales", "PAGARE_"+note.Folio+".pdf"))
		require.NoError(t, err)
		assert.Equal(t, note.PostHash, got)
	}

	assert.Equal(t, "13000.00", res.Manifest.Notes[0].Amount)
	assert.Equal(t, "12000.00", res.Manifest.Notes[16].Amount)
	assert.Equal(t, "220000.00", res.Manifest.Economic.Balance)

	// Audit records are readable and consistent with the manifest.
	data, err := os.ReadFile(res.Manifest.Notes[0].AuditPath)
	require.NoError(t, err)

	var rec audit.NoteRecord
	require.NoError(t, json.Unmarshal(data, &rec))
	assert.Equal(t, "PAGARE", rec.Type)
	assert.Equal(t, res.Manifest.Notes[0].PreHash, rec.PreHash)
	assert.Equal(t, res.Manifest.Notes[0].PostHash, rec.PostHash)
}

func TestService_Generate_InvalidScheduleWritesNothing(t *testing.T) {
	root := t.TempDir()
	svc := batch.NewService(render.NewRenderer(), root)

	rec := testRecord()
	rec.AnnuityAmount = 30_000_000
	rec.AnnuityCount = 1

	_, err := svc.Generate(context.Background(), rec)

	var invalid *schedule.InvalidScheduleError
	require.ErrorAs(t, err, &invalid)

	entries, readErr := os.ReadDir(root)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "validation failures must not leave files behind")
}

// failingRenderer succeeds until a given folio's final render.
type failingRenderer struct {
	inner     *render.Renderer
	failFolio int
}

func (f *failingRenderer) Render(p render.Payload) ([]byte, error) {
	if p.Folio == f.failFolio && p.QRText != "" {
		return nil, errors.New("render backend down")
	}

	return f.inner.Render(p)
}

func TestService_Generate_ManifestWriteFailureIsLogged(t *testing.T) {
	root := t.TempDir()
	svc := batch.NewService(&failingRenderer{inner: render.NewRenderer(), failFolio: 3}, root)

	// Occupy the manifest path with a directory so the partial-manifest
	// write on the failure path cannot succeed either.
	rec := testRecord()
	baseDir := filepath.Join(root, rec.Slug(), "2024-03-04")
	require.NoError(t, os.MkdirAll(filepath.Join(baseDir, "meta.json"), 0o755))

	var logs bytes.Buffer

	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	_, err := svc.Generate(context.Background(), rec)
	require.Error(t, err)

	// The render failure still wins the error return; the manifest
	// failure must not pass silently.
	assert.Contains(t, err.Error(), "note 03")
	assert.Contains(t, logs.String(), "writing partial manifest")
}

func TestService_Generate_PartialBatchKeepsCompletedNotes(t *testing.T) {
	root := t.TempDir()
	svc := batch.NewService(&failingRenderer{inner: render.NewRenderer(), failFolio: 3}, root)

	_, err := svc.Generate(context.Background(), testRecord())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "note 03")

	rec := testRecord()
	baseDir := filepath.Join(root, rec.Slug(), "2024-03-04")

	// Folios 01 and 02 finished before the failure and remain valid.
	assert.FileExists(t, filepath.Join(baseDir, "individuales", "PAGARE_01.pdf"))
	assert.FileExists(t, filepath.Join(baseDir, "individuales", "PAGARE_02.pdf"))
	assert.NoFileExists(t, filepath.Join(baseDir, "individuales", "PAGARE_03.pdf"))

	// The manifest reflects only the completed entries.
	data, readErr := os.ReadFile(filepath.Join(baseDir, "meta.json"))
	require.NoError(t, readErr)

	var manifest batch.Manifest
	require.NoError(t, json.Unmarshal(data, &manifest))
	assert.Len(t, manifest.Notes, 2)
	assert.Empty(t, manifest.Files.LotPDF)
}
