// Package capture walks an operator through the question flow that fills
// a sale record: one question per message, loose parsing, and a final
// summary to approve before any document is generated.
package capture

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JJ950407/lia-pagare/internal/letras"
	"github.com/JJ950407/lia-pagare/internal/money"
	"github.com/JJ950407/lia-pagare/internal/sale"
)

// ErrCanceled reports that the operator discarded the draft.
var ErrCanceled = errors.New("capture canceled")

// State is one in-progress capture. It is advanced message by message
// until Done, at which point Record holds a complete sale.
type State struct {
	DocType DocType
	Record  sale.Record
	Done    bool

	hasAnnuities bool
	step         int
	editing      bool
}

// NeedsContract reports whether the session produces a contract, which
// pulls in the plot and witness questions.
func (s *State) NeedsContract() bool {
	return s.DocType != DocNotes
}

type step struct {
	id     string
	prompt string
	skip   func(*State) bool
	apply  func(*State, string) error
}

func skipAnnuities(s *State) bool { return !s.hasAnnuities }
func skipPlot(s *State) bool      { return !s.NeedsContract() }

var steps = []step{
	{
		id:     "tipo_documento",
		prompt: "¿Qué documentos deseas generar?\n1) Contrato\n2) Pagarés\n3) Ambos",
		apply: func(s *State, a string) error {
			dt, err := ParseDocType(a)
			if err != nil {
				return err
			}
			s.DocType = dt

			return nil
		},
	},
	{
		id:     "fecha_emision",
		prompt: `Indica la fecha de emisión del lote ("hoy" o dd/mm/aaaa):`,
		apply: func(s *State, a string) error {
			d, err := ParseDate(a, time.Now())
			if err != nil {
				return err
			}
			s.Record.IssueDate = d

			return nil
		},
	},
	{
		id:     "total",
		prompt: "Indica el monto total de la venta (ejemplo: 250000 o $250,000):",
		apply: func(s *State, a string) error {
			v, err := money.ParseCents(a)
			if err != nil {
				return err
			}
			s.Record.Total = v

			return nil
		},
	},
	{
		id:     "enganche",
		prompt: "¿Cuánto será el enganche? (escribe 0 si no habrá):",
		apply: func(s *State, a string) error {
			v, err := money.ParseCents(a)
			if err != nil {
				return err
			}
			s.Record.DownPayment = v

			return nil
		},
	},
	{
		id:     "mensualidad",
		prompt: "¿De cuánto será la mensualidad? (ejemplo: 13000):",
		apply: func(s *State, a string) error {
			v, err := money.ParseCents(a)
			if err != nil {
				return err
			}
			s.Record.Installment = v

			return nil
		},
	},
	{
		id:     "anualidad_confirm",
		prompt: "¿Habrá anualidades especiales además de las mensualidades? (sí/no):",
		apply: func(s *State, a string) error {
			yes, err := ParseYesNo(a)
			if err != nil {
				return err
			}
			s.hasAnnuities = yes

			return nil
		},
	},
	{
		id:     "anualidad_monto",
		prompt: "¿De cuánto será cada anualidad? (ejemplo: 60000):",
		skip:   skipAnnuities,
		apply: func(s *State, a string) error {
			v, err := money.ParseCents(a)
			if err != nil {
				return err
			}
			s.Record.AnnuityAmount = v

			return nil
		},
	},
	{
		id:     "anualidad_numero",
		prompt: "¿Cuántas anualidades serán en total?",
		skip:   skipAnnuities,
		apply: func(s *State, a string) error {
			v, err := money.ParseCents(a)
			if err != nil || v%100 != 0 || v <= 0 {
				return errors.New("indica un número entero de anualidades")
			}
			s.Record.AnnuityCount = int(v / 100)

			return nil
		},
	},
	{
		id:     "anualidad_mes",
		prompt: `¿En qué mes vence cada anualidad? (1..12 o nombre, ej. "febrero"):`,
		skip:   skipAnnuities,
		apply: func(s *State, a string) error {
			m, err := ParseMonth(a)
			if err != nil {
				return err
			}
			s.Record.AnnuityMonth = m

			return nil
		},
	},
	{
		id:     "regla_1530",
		prompt: `Para la regla 15/30, ¿el primer pago vence en este mes o en el mes siguiente? ("este mes"/"siguiente mes")`,
		apply: func(s *State, a string) error {
			r, err := ParseRule(a)
			if err != nil {
				return err
			}
			s.Record.Rule = r

			return nil
		},
	},
	{
		id:     "moratorios",
		prompt: "¿Cuál será el interés moratorio anual (%)?",
		apply: func(s *State, a string) error {
			p, err := ParsePercent(a)
			if err != nil {
				return err
			}
			s.Record.PenaltyRate = p

			return nil
		},
	},
	{
		id:     "interes_anual",
		prompt: "Indica la tasa de interés anual (%) para la cláusula cuarta (0 si no aplica):",
		apply: func(s *State, a string) error {
			p, err := ParsePercent(a)
			if err != nil {
				return err
			}
			s.Record.InterestRate = p

			return nil
		},
	},
	{
		id:     "beneficiario",
		prompt: "Nombre completo del beneficiario (a la orden de):",
		apply:  text(func(r *sale.Record, v string) { r.Creditor = v }),
	},
	{
		id:     "deudor_nombre",
		prompt: "Nombre completo del deudor:",
		apply:  text(func(r *sale.Record, v string) { r.Debtor.Name = v }),
	},
	{
		id:     "deudor_genero",
		prompt: "¿Género del deudor?\n1) Hombre\n2) Mujer",
		apply: func(s *State, a string) error {
			g, err := ParseGender(a)
			if err != nil {
				return err
			}
			s.Record.BuyerTitle = g

			return nil
		},
	},
	{
		id:     "deudor_direccion",
		prompt: "Dirección completa del deudor:",
		apply:  text(func(r *sale.Record, v string) { r.Debtor.Address = v }),
	},
	{
		id:     "deudor_poblacion",
		prompt: "Población del deudor (ciudad, estado, C.P.):",
		apply:  text(func(r *sale.Record, v string) { r.Debtor.City = v }),
	},
	{
		id:     "lugar_expedicion",
		prompt: "Lugar de expedición del documento (ciudad/estado):",
		apply:  text(func(r *sale.Record, v string) { r.PlaceOfIssue = v }),
	},
	{
		id:     "lugar_pago",
		prompt: `¿Cuál será el lugar de pago? ("sí" si es igual al de expedición, u otro lugar):`,
		apply:  text(func(r *sale.Record, v string) { r.PlaceOfPayment = v }),
	},
	{
		id:     "telefono",
		prompt: "Teléfono del cliente (10 dígitos o +52...):",
		apply: func(s *State, a string) error {
			p, err := ParsePhone(a)
			if err != nil {
				return err
			}
			s.Record.Phone = p

			return nil
		},
	},
	{
		id:     "predio_nombre",
		prompt: "Nombre del predio:",
		skip:   skipPlot,
		apply:  text(func(r *sale.Record, v string) { r.Predio.Name = v }),
	},
	{
		id:     "predio_ubicacion",
		prompt: "Ubicación completa del predio:",
		skip:   skipPlot,
		apply:  text(func(r *sale.Record, v string) { r.Predio.Location = v }),
	},
	{
		id:     "predio_municipio",
		prompt: "Municipio del predio:",
		skip:   skipPlot,
		apply:  text(func(r *sale.Record, v string) { r.Predio.Municipality = v }),
	},
	{
		id:     "predio_manzana_lote",
		prompt: "Manzana y lote(s) del predio:",
		skip:   skipPlot,
		apply:  text(func(r *sale.Record, v string) { r.Predio.Block = v }),
	},
	{
		id:     "predio_superficie",
		prompt: "Superficie del predio (en metros cuadrados):",
		skip:   skipPlot,
		apply: func(s *State, a string) error {
			s.Record.Predio.SurfaceM2 = sale.ParseSurface(a)

			return nil
		},
	},
	{
		id:     "lindero_norte",
		prompt: "Norte – responde: metros | colinda",
		skip:   skipPlot,
		apply:  boundary(func(r *sale.Record, b sale.Boundary) { r.Predio.North = b }),
	},
	{
		id:     "lindero_sur",
		prompt: "Sur – responde: metros | colinda",
		skip:   skipPlot,
		apply:  boundary(func(r *sale.Record, b sale.Boundary) { r.Predio.South = b }),
	},
	{
		id:     "lindero_oriente",
		prompt: "Oriente – responde: metros | colinda",
		skip:   skipPlot,
		apply:  boundary(func(r *sale.Record, b sale.Boundary) { r.Predio.East = b }),
	},
	{
		id:     "lindero_poniente",
		prompt: "Poniente – responde: metros | colinda",
		skip:   skipPlot,
		apply:  boundary(func(r *sale.Record, b sale.Boundary) { r.Predio.West = b }),
	},
	{
		id:     "testigos",
		prompt: "Testigos – responde: Testigo 1 | Testigo 2",
		skip:   skipPlot,
		apply: func(s *State, a string) error {
			w, err := ParseWitnesses(a)
			if err != nil {
				return err
			}
			s.Record.Witnesses = w

			return nil
		},
	},
}

func text(set func(*sale.Record, string)) func(*State, string) error {
	return func(s *State, a string) error {
		v := strings.TrimSpace(a)
		if v == "" {
			return errors.New("la respuesta no puede quedar vacía")
		}
		set(&s.Record, v)

		return nil
	}
}

func boundary(set func(*sale.Record, sale.Boundary)) func(*State, string) error {
	return func(s *State, a string) error {
		b, err := ParseBoundaryAnswer(a)
		if err != nil {
			return err
		}
		set(&s.Record, b)

		return nil
	}
}

// Start returns a fresh state and the first question.
func Start() (*State, string) {
	s := &State{}

	return s, steps[0].prompt
}

// Advance applies one answer and returns the next prompt. A parse error
// leaves the state where it was so the question can be retried. Once every
// step is answered the prompt is the approval summary; answering APROBAR
// there marks the state Done, CANCELAR returns ErrCanceled, and
// "EDITAR <paso>" re-asks a single question.
func (s *State) Advance(answer string) (string, error) {
	if s.Done {
		return "", errors.New("capture already complete")
	}

	if s.step >= len(steps) {
		return s.confirm(answer)
	}

	if err := steps[s.step].apply(s, answer); err != nil {
		return steps[s.step].prompt, err
	}

	if s.editing {
		s.editing = false
		s.step = len(steps)

		return s.Summary(), nil
	}

	s.step = s.nextStep(s.step + 1)
	if s.step >= len(steps) {
		return s.Summary(), nil
	}

	return steps[s.step].prompt, nil
}

func (s *State) nextStep(from int) int {
	for i := from; i < len(steps); i++ {
		if steps[i].skip == nil || !steps[i].skip(s) {
			return i
		}
	}

	return len(steps)
}

func (s *State) confirm(answer string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(answer))

	switch {
	case t == "APROBAR":
		s.Record.Normalize()
		if err := s.Record.Validate(); err != nil {
			return "", err
		}
		s.Done = true

		return "", nil
	case t == "CANCELAR":
		return "", ErrCanceled
	case strings.HasPrefix(t, "EDITAR"):
		id := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(t, "EDITAR")))
		for i, st := range steps {
			if st.id == id {
				s.step = i
				s.editing = true

				return st.prompt, nil
			}
		}

		return s.Summary(), fmt.Errorf("paso desconocido %q", id)
	}

	return s.Summary(), errors.New("escribe APROBAR, EDITAR <paso> o CANCELAR")
}

// Summary renders the approval screen shown before generation.
func (s *State) Summary() string {
	r := s.Record

	var b strings.Builder
	b.WriteString("Resumen de la venta:\n")
	fmt.Fprintf(&b, "• Documentos: %s\n", s.DocType)
	fmt.Fprintf(&b, "• Deudor: %s\n", r.Debtor.Name)
	fmt.Fprintf(&b, "• Beneficiario: %s\n", r.Creditor)
	fmt.Fprintf(&b, "• Emisión: %s\n", letras.DateDMY(r.IssueDate))
	fmt.Fprintf(&b, "• Total: %s, enganche: %s, saldo: %s\n",
		money.FormatMXN(r.Total), money.FormatMXN(r.DownPayment), money.FormatMXN(r.Balance()))
	fmt.Fprintf(&b, "• Mensualidad: %s\n", money.FormatMXN(r.Installment))

	if s.hasAnnuities {
		fmt.Fprintf(&b, "• Anualidades: %d de %s cada %s\n",
			r.AnnuityCount, money.FormatMXN(r.AnnuityAmount), letras.MonthName(r.AnnuityMonth))
	}

	b.WriteString("\nEscribe APROBAR, EDITAR <paso> o CANCELAR.")

	return b.String()
}
