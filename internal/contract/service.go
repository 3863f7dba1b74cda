// Package contract renders the sale contract from its office template.
// The template carries a token for the document's own page count, which
// forces a draft render first: pass one exists only to count pages, pass
// two embeds the count and produces the publishable document.
package contract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/JJ950407/lia-pagare/internal/audit"
	"github.com/JJ950407/lia-pagare/internal/letras"
	"github.com/JJ950407/lia-pagare/internal/money"
	"github.com/JJ950407/lia-pagare/internal/office"
	"github.com/JJ950407/lia-pagare/internal/sale"
	"github.com/JJ950407/lia-pagare/internal/schedule"
)

// Service drives the two-pass render, pagination and code stamping, and
// the contract's audit record.
type Service struct {
	docx      DocxRenderer
	conv      office.Converter
	templates []string // candidate template paths, first hit wins
	outRoot   string
	tmpRoot   string
	now       func() time.Time
}

func NewService(docx DocxRenderer, conv office.Converter, templates []string, outRoot, tmpRoot string) *Service {
	return &Service{
		docx:      docx,
		conv:      conv,
		templates: templates,
		outRoot:   outRoot,
		tmpRoot:   tmpRoot,
		now:       time.Now,
	}
}

// Result reports the finished contract and its audit trail.
type Result struct {
	PDFPath   string
	DocxPath  string
	AuditPath string
	Pages     int
}

// Generate renders the contract for a sale. Entries may be nil, in which
// case the schedule is recomputed from the record. The draft conversion is
// best effort; the final conversion is not, since no contract can be
// delivered without it.
func (s *Service) Generate(ctx context.Context, rec sale.Record, entries []schedule.Entry) (*Result, error) {
	rec.Normalize()
	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("validating sale record: %w", err)
	}

	if len(entries) == 0 {
		var err error
		if entries, err = schedule.Compute(rec.ScheduleRequest()); err != nil {
			return nil, err
		}
	}

	template, err := s.resolveTemplate()
	if err != nil {
		return nil, err
	}

	ts := s.now().Format("20060102_150405")
	tmpDir := filepath.Join(s.tmpRoot, ts)
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}

	tokens := BuildTokens(rec, entries)

	// Pass 1: draft render, only to learn the page count.
	draft := filepath.Join(tmpDir, "contrato_p1_"+ts+".docx")
	if err := s.docx.RenderFile(template, tokens, draft); err != nil {
		return nil, fmt.Errorf("draft render: %w", err)
	}

	pages := s.countDraftPages(ctx, draft, tmpDir)

	tokens["num_hojas"] = strconv.Itoa(pages)
	tokens["num_hojas_letra"] = letras.Number(int64(pages))

	// Pass 2: final render with the count embedded.
	outDir := filepath.Join(s.outRoot, "contrato")
	finalDocx := filepath.Join(outDir, "contrato_"+ts+".docx")
	if err := s.docx.RenderFile(template, tokens, finalDocx); err != nil {
		return nil, fmt.Errorf("final render: %w", err)
	}

	finalPDF, err := s.conv.ConvertToPDF(ctx, finalDocx, outDir)
	if err != nil {
		return nil, fmt.Errorf("final conversion: %w", err)
	}

	totalPages, err := stampPageNumbers(finalPDF)
	if err != nil {
		return nil, err
	}

	preHash, err := audit.HashFile(finalPDF)
	if err != nil {
		return nil, fmt.Errorf("hashing paginated contract: %w", err)
	}

	qr := QRInfo{
		Type:      "CONTRATO",
		Name:      strings.ToUpper(rec.Debtor.Name),
		Date:      letras.DateDMY(rec.IssueDate),
		NoteCount: len(entries),
		Pages:     totalPages,
		Folio:     DefaultFolio,
		ShortHash: preHash[:16],
	}
	if err := stampQRCode(finalPDF, qrText(qr)); err != nil {
		return nil, err
	}

	auditPath, err := s.writeAudit(rec, entries, finalPDF, finalDocx, totalPages, preHash, qr)
	if err != nil {
		return nil, err
	}

	slog.Info("contract generated", "pdf", finalPDF, "pages", totalPages)

	return &Result{
		PDFPath:   finalPDF,
		DocxPath:  finalDocx,
		AuditPath: auditPath,
		Pages:     totalPages,
	}, nil
}

// countDraftPages converts the draft and counts its pages. Any failure is
// tolerated: a missing converter or a broken draft yields zero, which the
// final render then embeds.
func (s *Service) countDraftPages(ctx context.Context, draft, tmpDir string) int {
	pdf, err := s.conv.ConvertToPDF(ctx, draft, tmpDir)
	if err != nil {
		if errors.Is(err, office.ErrUnavailable) {
			slog.Warn("office converter unavailable, page count defaults to zero")
		} else {
			slog.Warn("draft conversion failed, page count defaults to zero", "error", err)
		}

		return 0
	}

	pages, err := api.PageCountFile(pdf)
	if err != nil {
		slog.Warn("could not count draft pages", "error", err)

		return 0
	}

	return pages
}

func (s *Service) resolveTemplate() (string, error) {
	for _, candidate := range s.templates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("contract template not found, tried: %s", strings.Join(s.templates, ", "))
}

func (s *Service) writeAudit(rec sale.Record, entries []schedule.Entry, pdfPath, docxPath string, pages int, preHash string, qr QRInfo) (string, error) {
	postHash, err := audit.HashFile(pdfPath)
	if err != nil {
		return "", fmt.Errorf("hashing final contract: %w", err)
	}

	docxHash, err := audit.HashFile(docxPath)
	if err != nil {
		return "", fmt.Errorf("hashing contract source: %w", err)
	}

	pdfInfo, err := os.Stat(pdfPath)
	if err != nil {
		return "", fmt.Errorf("inspecting final contract: %w", err)
	}

	docxInfo, err := os.Stat(docxPath)
	if err != nil {
		return "", fmt.Errorf("inspecting contract source: %w", err)
	}

	var firstDue string
	if len(entries) > 0 {
		firstDue = letras.DateDMY(entries[0].DueDate)
	}

	record := Record{
		Version:   "1.0",
		Type:      "contrato",
		Timestamp: s.now().UTC().Format(time.RFC3339),
		Client: ClientInfo{
			Name:    rec.Debtor.Name,
			Address: rec.Debtor.Address,
			City:    rec.Debtor.City,
		},
		Files: FileHashes{
			PDF: PDFInfo{
				Name:      filepath.Base(pdfPath),
				PreHash:   preHash,
				PostHash:  postHash,
				SizeBytes: pdfInfo.Size(),
				Pages:     pages,
			},
			Docx: DocxInfo{
				Name:      filepath.Base(docxPath),
				Hash:      docxHash,
				SizeBytes: docxInfo.Size(),
			},
		},
		Data: ContractData{
			Folio:     DefaultFolio,
			Predio:    rec.Predio.Name,
			Block:     rec.Predio.Block,
			NoteCount: len(entries),
			Total:     money.DecimalString(rec.Total),
			DownPay:   money.DecimalString(rec.DownPayment),
			Balance:   money.DecimalString(rec.Balance()),
			FirstDue:  firstDue,
		},
		QRCode: qr,
		Verify: VerifyInfo{
			Instructions: verifyInstructions,
			PostHash:     postHash,
			Algorithm:    "SHA-256",
		},
	}

	base := strings.TrimSuffix(filepath.Base(pdfPath), ".pdf")
	auditPath := filepath.Join(filepath.Dir(pdfPath), "audit_"+base+".json")

	if err := audit.WriteJSON(auditPath, record); err != nil {
		return "", err
	}

	return auditPath, nil
}

// stampPayload is the wire form of the first-page code; "hash" is the
// 16-char pre-stamp fragment.
type stampPayload struct {
	Type  string `json:"tipo"`
	Name  string `json:"nombre"`
	Date  string `json:"fecha"`
	Notes int    `json:"pagares"`
	Pages int    `json:"paginas"`
	Folio string `json:"folio"`
	Hash  string `json:"hash"`
}

func qrText(qr QRInfo) string {
	data, _ := json.Marshal(stampPayload{
		Type:  qr.Type,
		Name:  qr.Name,
		Date:  qr.Date,
		Notes: qr.NoteCount,
		Pages: qr.Pages,
		Folio: qr.Folio,
		Hash:  qr.ShortHash,
	})

	return string(data)
}
