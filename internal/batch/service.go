// Package batch drives the full note pipeline for one sale: schedule,
// per-note render/hash/stamp, audit records, lot merge, and the manifest.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/JJ950407/lia-pagare/internal/audit"
	"github.com/JJ950407/lia-pagare/internal/letras"
	"github.com/JJ950407/lia-pagare/internal/money"
	"github.com/JJ950407/lia-pagare/internal/render"
	"github.com/JJ950407/lia-pagare/internal/sale"
	"github.com/JJ950407/lia-pagare/internal/schedule"
)

// Renderer produces the note page for a payload.
type Renderer interface {
	Render(p render.Payload) ([]byte, error)
}

// Service assembles note batches under an output root. Directory and file
// names derive from the debtor slug, issue date and a millisecond
// timestamp, so independent runs never collide.
type Service struct {
	renderer   Renderer
	outputRoot string
	now        func() time.Time
}

func NewService(renderer Renderer, outputRoot string) *Service {
	return &Service{renderer: renderer, outputRoot: outputRoot, now: time.Now}
}

// Result reports where a generated batch landed.
type Result struct {
	BatchID      string
	SaleID       string
	BaseDir      string
	LotPath      string
	ManifestPath string
	Entries      []schedule.Entry
	Manifest     Manifest
}

// Generate runs the whole pipeline for one sale. Validation failures occur
// before anything is written. If a note fails midway, the notes already on
// disk and their audit records remain valid, and the manifest written
// alongside the error reflects only the completed entries.
func (s *Service) Generate(ctx context.Context, rec sale.Record) (*Result, error) {
	rec.Normalize()
	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("validating sale record: %w", err)
	}

	entries, err := schedule.Compute(rec.ScheduleRequest())
	if err != nil {
		return nil, err
	}

	slug := rec.Slug()
	saleID := strconv.FormatInt(s.now().UnixMilli(), 10)
	dateDir := rec.IssueDate.Format("2006-01-02")
	batchID := fmt.Sprintf("LIA-%s-%s-%s", slug, dateDir, saleID)

	baseDir := filepath.Join(s.outputRoot, slug, dateDir)
	lotDir := filepath.Join(baseDir, "lote")
	noteDir := filepath.Join(baseDir, "individuales")
	auditDir := filepath.Join(noteDir, "audit")

	for _, dir := range []string{lotDir, noteDir, auditDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating batch directory: %w", err)
		}
	}

	writer := audit.NewWriter(auditDir)

	logger := slog.With("batch", batchID, "notes", len(entries))
	logger.Info("generating note batch")

	var (
		notePaths []string
		notes     []NoteMeta
	)

	for _, entry := range entries {
		meta, notePath, err := s.generateNote(rec, entry, batchID, saleID, noteDir, writer, len(entries))
		if err != nil {
			// Completed siblings stay on disk; leave a manifest that
			// shows how far the batch got.
			if _, _, werr := s.writeManifest(baseDir, rec, saleID, slug, "", noteDir, notes, len(entries)); werr != nil {
				logger.Error("writing partial manifest", "error", werr)
			}

			return nil, fmt.Errorf("note %s: %w", entry.FolioString(), err)
		}

		notePaths = append(notePaths, notePath)
		notes = append(notes, meta)
	}

	lotPath := filepath.Join(lotDir, "lote_"+saleID+".pdf")
	if err := api.MergeCreateFile(notePaths, lotPath, false, nil); err != nil {
		if _, _, werr := s.writeManifest(baseDir, rec, saleID, slug, "", noteDir, notes, len(entries)); werr != nil {
			logger.Error("writing partial manifest", "error", werr)
		}

		return nil, fmt.Errorf("merging lot document: %w", err)
	}

	manifest, manifestPath, err := s.writeManifest(baseDir, rec, saleID, slug, lotPath, noteDir, notes, len(entries))
	if err != nil {
		return nil, err
	}

	logger.Info("note batch complete", "lot", lotPath)

	return &Result{
		BatchID:      batchID,
		SaleID:       saleID,
		BaseDir:      baseDir,
		LotPath:      lotPath,
		ManifestPath: manifestPath,
		Entries:      entries,
		Manifest:     manifest,
	}, nil
}

// generateNote renders one note twice (without and with its verification
// code), persists it, and records both content hashes.
func (s *Service) generateNote(rec sale.Record, entry schedule.Entry, batchID, saleID, noteDir string, writer *audit.Writer, total int) (NoteMeta, string, error) {
	payload := render.Payload{
		DebtorName:     rec.Debtor.Name,
		DebtorAddress:  rec.Debtor.Address,
		DebtorCity:     rec.Debtor.City,
		Creditor:       rec.Creditor,
		Folio:          entry.Folio,
		NoteCount:      total,
		Amount:         entry.Amount,
		IssueDate:      rec.IssueDate,
		DueDate:        entry.DueDate,
		PlaceOfIssue:   rec.PlaceOfIssue,
		PlaceOfPayment: rec.PlaceOfPayment,
		PenaltyRate:    rec.PenaltyRate,
	}

	preBytes, err := s.renderer.Render(payload)
	if err != nil {
		return NoteMeta{}, "", fmt.Errorf("pre-code render: %w", err)
	}

	preHash := audit.SHA256Hex(preBytes)
	docID := fmt.Sprintf("%s-P%s", batchID, entry.FolioString())

	code := VerificationCode{
		Base:     batchID,
		Doc:      docID,
		Folio:    entry.Folio,
		Amount:   money.DecimalString(entry.Amount),
		Issued:   rec.IssueDate.Format("2006-01-02"),
		Short:    audit.ShortHash(preHash),
		PreHash:  preHash,
		PostHash: PostHashPending,
	}

	payload.QRText = code.StampText()

	finalBytes, err := s.renderer.Render(payload)
	if err != nil {
		return NoteMeta{}, "", fmt.Errorf("final render: %w", err)
	}

	notePath := filepath.Join(noteDir, "PAGARE_"+entry.FolioString()+".pdf")
	if err := os.WriteFile(notePath, finalBytes, 0o644); err != nil {
		return NoteMeta{}, "", fmt.Errorf("writing note file: %w", err)
	}

	postHash, err := audit.HashFile(notePath)
	if err != nil {
		return NoteMeta{}, "", fmt.Errorf("hashing final file: %w", err)
	}

	auditPath, err := writer.WriteNote(audit.NoteRecord{
		BatchID:  batchID,
		DocID:    docID,
		Slug:     rec.Slug(),
		SaleID:   saleID,
		Folio:    entry.FolioString(),
		Debtor:   rec.Debtor.Name,
		Amount:   money.DecimalString(entry.Amount),
		DueISO:   entry.DueDate.Format("2006-01-02"),
		DueDMY:   letras.DateDMY(entry.DueDate),
		PreHash:  preHash,
		PostHash: postHash,
		PDFPath:  notePath,
	})
	if err != nil {
		return NoteMeta{}, "", fmt.Errorf("writing audit record: %w", err)
	}

	return NoteMeta{
		Folio:     entry.FolioString(),
		Amount:    money.DecimalString(entry.Amount),
		DueDate:   letras.DateDMY(entry.DueDate),
		AuditPath: auditPath,
		PreHash:   preHash,
		PostHash:  postHash,
		QRShort:   audit.ShortHash(preHash),
		DocID:     docID,
		BatchID:   batchID,
	}, notePath, nil
}

func (s *Service) writeManifest(baseDir string, rec sale.Record, saleID, slug, lotPath, noteDir string, notes []NoteMeta, total int) (Manifest, string, error) {
	manifest := Manifest{
		SaleID:   saleID,
		Slug:     slug,
		SaleDate: letras.DateDMY(rec.IssueDate),
		Creditor: rec.Creditor,
		Contact:  ContactMeta{Phone: rec.Phone},
		Debtor: DebtorMeta{
			Name:    rec.Debtor.Name,
			Address: rec.Debtor.Address,
			City:    rec.Debtor.City,
		},
		Economic: EconomicMeta{
			Total:       money.DecimalString(rec.Total),
			DownPayment: money.DecimalString(rec.DownPayment),
			Balance:     money.DecimalString(rec.Balance()),
			Installment: money.DecimalString(rec.Installment),
			NoteCount:   total,
			PenaltyPct:  rec.PenaltyRate,
		},
		Document: DocumentMeta{
			PlaceOfIssue:   rec.PlaceOfIssue,
			PlaceOfPayment: rec.PlaceOfPayment,
			IssueDate:      letras.DateDMY(rec.IssueDate),
			DueDateRule:    string(rec.Rule),
		},
		Predio: PredioMeta{
			Name:         rec.Predio.Name,
			Location:     rec.Predio.Location,
			Municipality: rec.Predio.Municipality,
			Block:        rec.Predio.Block,
			SurfaceM2:    rec.Predio.SurfaceM2,
			North:        boundaryMeta(rec.Predio.North),
			South:        boundaryMeta(rec.Predio.South),
			East:         boundaryMeta(rec.Predio.East),
			West:         boundaryMeta(rec.Predio.West),
			Witnesses:    rec.Witnesses[:],
		},
		Files: FilesMeta{
			BaseDir:       baseDir,
			LotPDF:        lotPath,
			IndividualDir: noteDir,
		},
		Notes: notes,
	}

	path := filepath.Join(baseDir, "meta.json")
	if err := audit.WriteJSON(path, manifest); err != nil {
		return Manifest{}, "", fmt.Errorf("writing manifest: %w", err)
	}

	return manifest, path, nil
}

func boundaryMeta(b sale.Boundary) BoundaryMeta {
	return BoundaryMeta{Meters: b.Meters, Adjoins: b.Adjoins}
}
