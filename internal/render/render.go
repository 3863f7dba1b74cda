// Package render produces the fixed-layout promissory note page. The
// renderer only returns bytes; callers decide where they are persisted.
package render

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/JJ950407/lia-pagare/internal/letras"
	"github.com/JJ950407/lia-pagare/internal/money"
)

// Payload carries everything one note needs. When QRText is empty the
// rendered page carries no verification stamp; that is how the pre-code
// render differs from the final one.
type Payload struct {
	DebtorName    string
	DebtorAddress string
	DebtorCity    string
	Creditor      string

	Folio     int
	NoteCount int
	Amount    int64 // cents
	IssueDate time.Time
	DueDate   time.Time

	PlaceOfIssue   string
	PlaceOfPayment string
	PenaltyRate    float64

	QRText string
}

// Renderer draws note pages. The zero value is ready to use.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

const (
	qrXmm    = 170.0
	qrYmm    = 12.0
	qrSizeMM = 28.0
)

// Render lays out a single note page and returns the PDF bytes.
func (r *Renderer) Render(p Payload) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	// Pin the metadata date so the same payload always yields the same
	// bytes; the pre-stamp hash depends on it.
	pdf.SetCreationDate(p.IssueDate)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(18, 16, 18)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr("PAGARÉ"), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6,
		fmt.Sprintf("No. %02d/%02d", p.Folio, p.NoteCount), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, tr("BUENO POR: "+money.FormatMXN(p.Amount)), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6,
		tr(fmt.Sprintf("%s, A %s", upperOr(p.PlaceOfIssue, "—"), letras.DateLong(p.IssueDate))),
		"", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5.5, tr(fmt.Sprintf(
		"DEBO Y PAGARÉ INCONDICIONALMENTE POR ESTE PAGARÉ A LA ORDEN DE %s "+
			"LA CANTIDAD DE %s (%s) EL DÍA %s EN %s.",
		upperOr(p.Creditor, "—"),
		money.FormatMXN(p.Amount),
		letras.Currency(p.Amount),
		letras.DateLong(p.DueDate),
		upperOr(p.PlaceOfPayment, "—"),
	)), "", "J", false)
	pdf.Ln(3)

	pdf.MultiCell(0, 5.5, tr(fmt.Sprintf(
		"DE NO VERIFICARSE EL PAGO EN LA FECHA INDICADA, ESTE DOCUMENTO CAUSARÁ "+
			"INTERESES MORATORIOS A RAZÓN DEL %s ANUAL, SIN PERJUICIO DE SU COBRO.",
		money.FormatPercent(p.PenaltyRate),
	)), "", "J", false)
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, tr("DATOS DEL DEUDOR"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr("NOMBRE: "+upperOr(p.DebtorName, "—")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr("DIRECCIÓN: "+upperOr(p.DebtorAddress, "—")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr("POBLACIÓN: "+upperOr(p.DebtorCity, "—")), "", 1, "L", false, 0, "")
	pdf.Ln(14)

	pdf.CellFormat(0, 5, "____________________________________", "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, tr("FIRMA DEL DEUDOR"), "", 1, "C", false, 0, "")

	if p.QRText != "" {
		if err := stampQR(pdf, p.QRText); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering note %02d: %w", p.Folio, err)
	}

	return buf.Bytes(), nil
}

func stampQR(pdf *fpdf.Fpdf, text string) error {
	png, err := qrcode.Encode(text, qrcode.High, 256)
	if err != nil {
		return fmt.Errorf("encoding verification code: %w", err)
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("qr", qrXmm, qrYmm, qrSizeMM, qrSizeMM, false, opts, 0, "")

	return nil
}

func upperOr(s, fallback string) string {
	if s == "" {
		return fallback
	}

	return strings.ToUpper(s)
}
