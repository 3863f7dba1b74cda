package contract

import (
	"fmt"
	"strings"

	"github.com/JJ950407/lia-pagare/internal/letras"
	"github.com/JJ950407/lia-pagare/internal/money"
	"github.com/JJ950407/lia-pagare/internal/sale"
	"github.com/JJ950407/lia-pagare/internal/schedule"
)

// DefaultFolio is used when a sale carries no explicit contract folio.
const DefaultFolio = "C-001"

// BuildTokens flattens a sale record and its payment entries into the
// placeholder map the contract template consumes. Keys are the literal
// template tokens; values are already formatted for display.
func BuildTokens(rec sale.Record, entries []schedule.Entry) map[string]string {
	installments, annuities := splitKinds(entries)

	tokens := map[string]string{
		"folio contrato": DefaultFolio,

		"nombre deudor":       strings.ToUpper(rec.Debtor.Name),
		"denominacion deudor": strings.ToUpper(rec.BuyerTitle),
		"direccion deudor":    strings.ToUpper(rec.Debtor.Address),
		"poblacion deudor":    strings.ToUpper(rec.Debtor.City),
		"nombre beneficiario": strings.ToUpper(rec.Creditor),

		"precio total numero": money.FormatMXN(rec.Total),
		"precio total letra":  letras.Currency(rec.Total),
		"enganche numero":     money.FormatMXN(rec.DownPayment),
		"enganche letra":      letras.Currency(rec.DownPayment),
		"saldo numero":        money.FormatMXN(rec.Balance()),
		"saldo letra":         letras.Currency(rec.Balance()),
		"mensualidad numero":  money.FormatMXN(rec.Installment),
		"mensualidad letra":   letras.Currency(rec.Installment),

		"numero mensualidades":       fmt.Sprintf("%d", len(installments)),
		"numero mensualidades letra": letras.Number(int64(len(installments))),
		"numero anualidades":         fmt.Sprintf("%d", len(annuities)),
		"anualidad numero":           money.FormatMXN(rec.AnnuityAmount),
		"anualidad letra":            letras.Currency(rec.AnnuityAmount),

		"fecha emision contrato": letras.DateDMY(rec.IssueDate),
		"lugar expedicion":       strings.ToUpper(rec.PlaceOfIssue),
		"lugar pago":             strings.ToUpper(rec.PlaceOfPayment),
		"moratorios":             money.FormatPercent(rec.PenaltyRate),
		"interes anual":          money.FormatPercent(rec.InterestRate),

		"nombre predio":     strings.ToUpper(rec.Predio.Name),
		"ubicacion predio":  strings.ToUpper(rec.Predio.Location),
		"municipio predio":  strings.ToUpper(rec.Predio.Municipality),
		"manzana y lote(s)": strings.ToUpper(rec.Predio.Block),
		"superficie numero": fmt.Sprintf("%g", rec.Predio.SurfaceM2),
		"superficie letra":  letras.Number(int64(rec.Predio.SurfaceM2)),

		"testigo 1": strings.ToUpper(rec.Witnesses[0]),
		"testigo 2": strings.ToUpper(rec.Witnesses[1]),

		"pagares_tabla": noteTable(entries),
	}

	addBoundaryTokens(tokens, "norte", rec.Predio.North)
	addBoundaryTokens(tokens, "sur", rec.Predio.South)
	addBoundaryTokens(tokens, "oriente", rec.Predio.East)
	addBoundaryTokens(tokens, "poniente", rec.Predio.West)

	if len(entries) > 0 {
		tokens["fecha primer pago"] = letras.DateDMY(entries[0].DueDate)
	}

	// The tail of the plan may carry one installment smaller than the
	// rest; the contract calls it out explicitly.
	if special, ok := specialInstallment(installments); ok {
		tokens["mensualidad especial numero"] = money.FormatMXN(special.Amount)
		tokens["mensualidad especial letra"] = letras.Currency(special.Amount)
		tokens["mensualidad especial posicion"] = special.FolioString()
	} else {
		tokens["mensualidad especial numero"] = ""
		tokens["mensualidad especial letra"] = ""
		tokens["mensualidad especial posicion"] = ""
	}

	return tokens
}

func splitKinds(entries []schedule.Entry) (installments, annuities []schedule.Entry) {
	for _, e := range entries {
		if e.Kind == schedule.KindAnnuity {
			annuities = append(annuities, e)
		} else {
			installments = append(installments, e)
		}
	}

	return installments, annuities
}

// specialInstallment finds the first installment whose amount differs from
// the opening one.
func specialInstallment(installments []schedule.Entry) (schedule.Entry, bool) {
	if len(installments) == 0 {
		return schedule.Entry{}, false
	}

	base := installments[0].Amount
	for _, e := range installments[1:] {
		if e.Amount != base {
			return e, true
		}
	}

	return schedule.Entry{}, false
}

// noteTable renders the schedule annex as one row per note. The template
// engine substitutes plain text, so the table arrives as a line block
// rather than looped rows.
func noteTable(entries []schedule.Entry) string {
	rows := make([]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, fmt.Sprintf("%s  %s  %s  %s  %s",
			e.FolioString(),
			letras.DateDMY(e.DueDate),
			money.FormatMXN(e.Amount),
			letras.Currency(e.Amount),
			strings.ToUpper(string(e.Kind)),
		))
	}

	return strings.Join(rows, "\n")
}

func addBoundaryTokens(tokens map[string]string, side string, b sale.Boundary) {
	tokens["lindero "+side+" metros"] = fmt.Sprintf("%g", b.Meters)
	tokens["lindero "+side+" colinda"] = strings.ToUpper(b.Adjoins)
}
