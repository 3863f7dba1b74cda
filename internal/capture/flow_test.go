package capture_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JJ950407/lia-pagare/internal/capture"
	"github.com/JJ950407/lia-pagare/internal/schedule"
)

// answers drives a full notes-only capture up to the approval summary.
var notesAnswers = []string{
	"2",             // pagarés
	"04/03/2024",    // emisión
	"$250,000",      // total
	"30000",         // enganche
	"13000",         // mensualidad
	"no",            // anualidades
	"siguiente mes", // regla 15/30
	"5",             // moratorios
	"0",             // interés anual
	"INMOBILIARIA LIA",
	"José Pérez",
	"hombre",
	"Calle 5 #12",
	"Tuxtla Gutiérrez, Chiapas",
	"Ocozocoautla",
	"sí", // lugar de pago = expedición
	"961 123 45 67",
}

func runAnswers(t *testing.T, s *capture.State, answers []string) string {
	t.Helper()

	var prompt string

	for _, a := range answers {
		var err error
		prompt, err = s.Advance(a)
		require.NoError(t, err, "answer %q", a)
	}

	return prompt
}

func TestFlow_NotesOnly(t *testing.T) {
	s, first := capture.Start()
	assert.Contains(t, first, "Contrato")

	summary := runAnswers(t, s, notesAnswers)

	// Plot questions are skipped; we are already at the summary.
	assert.Contains(t, summary, "Resumen")
	assert.Contains(t, summary, "$250,000.00")
	assert.False(t, s.Done)

	next, err := s.Advance("APROBAR")
	require.NoError(t, err)
	assert.Empty(t, next)
	assert.True(t, s.Done)

	rec := s.Record
	assert.Equal(t, capture.DocNotes, s.DocType)
	assert.Equal(t, int64(25_000_000), rec.Total)
	assert.Equal(t, int64(3_000_000), rec.DownPayment)
	assert.Equal(t, schedule.RuleNextHalf, rec.Rule)
	assert.Equal(t, "EL COMPRADOR", rec.BuyerTitle)
	assert.Equal(t, "9611234567", rec.Phone)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), rec.IssueDate)

	// "sí" collapsed to the place of issue at approval.
	assert.Equal(t, "Ocozocoautla", rec.PlaceOfPayment)
}

func TestFlow_ContractAsksPlotQuestions(t *testing.T) {
	s, _ := capture.Start()

	answers := append([]string{}, notesAnswers...)
	answers[0] = "3" // ambos

	prompt := runAnswers(t, s, answers)
	assert.Contains(t, prompt, "predio")

	plot := []string{
		"EL PARAISO",
		"Carretera a Villaflores km 4",
		"Ocozocoautla de Espinosa",
		"Manzana 3 Lote 14",
		"250 m2",
		"10 | CALLE SIN NOMBRE",
		"10 | LOTE 15",
		"25 | LOTE 13",
		"25 | PROPIEDAD PRIVADA",
		"Juan López | Ana Ruiz",
	}

	summary := runAnswers(t, s, plot)
	assert.Contains(t, summary, "Resumen")

	_, err := s.Advance("aprobar")
	require.NoError(t, err)

	rec := s.Record
	assert.Equal(t, "EL PARAISO", rec.Predio.Name)
	assert.Equal(t, 250.0, rec.Predio.SurfaceM2)
	assert.Equal(t, 10.0, rec.Predio.North.Meters)
	assert.Equal(t, "CALLE SIN NOMBRE", rec.Predio.North.Adjoins)
	assert.Equal(t, [2]string{"Juan López", "Ana Ruiz"}, rec.Witnesses)
}

func TestFlow_AnnuityQuestions(t *testing.T) {
	s, _ := capture.Start()

	answers := append([]string{}, notesAnswers[:5]...)
	runAnswers(t, s, answers)

	prompt, err := s.Advance("sí")
	require.NoError(t, err)
	assert.Contains(t, prompt, "anualidad")

	runAnswers(t, s, []string{"60000", "2", "febrero"})

	assert.Equal(t, int64(6_000_000), s.Record.AnnuityAmount)
	assert.Equal(t, 2, s.Record.AnnuityCount)
	assert.Equal(t, time.February, s.Record.AnnuityMonth)
}

func TestFlow_BadAnswerRepeatsQuestion(t *testing.T) {
	s, first := capture.Start()

	prompt, err := s.Advance("quiero todo")
	require.Error(t, err)
	assert.Equal(t, first, prompt)

	// The retry lands on the same step.
	prompt, err = s.Advance("3")
	require.NoError(t, err)
	assert.Contains(t, prompt, "fecha")
}

func TestFlow_EditSingleField(t *testing.T) {
	s, _ := capture.Start()
	runAnswers(t, s, notesAnswers)

	prompt, err := s.Advance("EDITAR total")
	require.NoError(t, err)
	assert.Contains(t, prompt, "monto total")

	summary, err := s.Advance("300000")
	require.NoError(t, err)
	assert.Contains(t, summary, "Resumen")
	assert.Equal(t, int64(30_000_000), s.Record.Total)

	_, err = s.Advance("APROBAR")
	require.NoError(t, err)
	assert.True(t, s.Done)
}

func TestFlow_Cancel(t *testing.T) {
	s, _ := capture.Start()
	runAnswers(t, s, notesAnswers)

	_, err := s.Advance("CANCELAR")
	assert.ErrorIs(t, err, capture.ErrCanceled)
}

func TestParseDate(t *testing.T) {
	now := time.Date(2024, 3, 4, 17, 30, 0, 0, time.UTC)

	got, err := capture.ParseDate("hoy", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), got)

	got, err = capture.ParseDate("15-08-2025", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC), got)

	_, err = capture.ParseDate("mañana", now)
	assert.Error(t, err)
}

func TestParseWitnesses(t *testing.T) {
	w, err := capture.ParseWitnesses("Juan Pérez / Ana Ruiz")
	require.NoError(t, err)
	assert.Equal(t, [2]string{"Juan Pérez", "Ana Ruiz"}, w)

	_, err = capture.ParseWitnesses("solo uno")
	assert.Error(t, err)
}

func TestParseRule(t *testing.T) {
	r, err := capture.ParseRule("mismo mes")
	require.NoError(t, err)
	assert.Equal(t, schedule.RuleSameHalf, r)

	r, err = capture.ParseRule("próximo")
	require.NoError(t, err)
	assert.Equal(t, schedule.RuleNextHalf, r)

	_, err = capture.ParseRule("cuando se pueda")
	assert.Error(t, err)
}
