// Package sale defines the typed input record a generation request works
// from: economic figures, the parties, and the plot being sold.
package sale

import (
	"errors"
	"strings"
	"time"

	"github.com/JJ950407/lia-pagare/internal/schedule"
)

// Party identifies one side of the sale.
type Party struct {
	Name    string
	Address string
	City    string
}

// Boundary is one side of the plot: its length in meters and what it
// adjoins.
type Boundary struct {
	Meters  float64
	Adjoins string
}

// Predio describes the plot of land the contract conveys.
type Predio struct {
	Name         string
	Location     string
	Municipality string
	Block        string // manzana y lote(s)
	SurfaceM2    float64
	North        Boundary
	South        Boundary
	East         Boundary
	West         Boundary
}

// Record is the full data set captured for one sale. Amounts are in cents.
type Record struct {
	Debtor     Party
	BuyerTitle string // "EL COMPRADOR" or "LA COMPRADORA"
	Creditor   string
	Phone      string

	Total         int64
	DownPayment   int64
	Installment   int64
	AnnuityAmount int64
	AnnuityCount  int
	AnnuityMonth  time.Month

	IssueDate time.Time
	Rule      schedule.DueDateRule

	PlaceOfIssue   string
	PlaceOfPayment string
	PenaltyRate    float64 // moratory percent, annual
	InterestRate   float64 // contractual annual interest percent

	Predio    Predio
	Witnesses [2]string
}

// Balance is the financed amount: total price minus down payment.
func (r Record) Balance() int64 {
	return r.Total - r.DownPayment
}

// ScheduleRequest maps the record onto the calculator's input.
func (r Record) ScheduleRequest() schedule.Request {
	return schedule.Request{
		Balance:       r.Balance(),
		Installment:   r.Installment,
		AnnuityAmount: r.AnnuityAmount,
		AnnuityCount:  r.AnnuityCount,
		AnnuityMonth:  r.AnnuityMonth,
		IssueDate:     r.IssueDate,
		Rule:          r.Rule,
	}
}

// Normalize resolves shorthand the capture flow lets through: answering
// "si" to the place-of-payment question means "same as place of issue".
func (r *Record) Normalize() {
	p := strings.ToLower(strings.TrimSpace(r.PlaceOfPayment))
	if p == "si" || p == "sí" {
		r.PlaceOfPayment = r.PlaceOfIssue
	}
}

// Validate checks the fields the pipeline cannot work without. Economic
// consistency is the schedule calculator's job.
func (r Record) Validate() error {
	switch {
	case strings.TrimSpace(r.Debtor.Name) == "":
		return errors.New("debtor name is required")
	case strings.TrimSpace(r.Creditor) == "":
		return errors.New("creditor name is required")
	case r.Total <= 0:
		return errors.New("total price must be positive")
	case r.DownPayment < 0:
		return errors.New("down payment cannot be negative")
	case r.DownPayment > r.Total:
		return errors.New("down payment exceeds total price")
	case r.IssueDate.IsZero():
		return errors.New("issue date is required")
	}

	return nil
}

// Slug derives the directory-safe debtor key: accents stripped, upper
// case, non-alphanumerics collapsed to underscores, 60 chars max.
func (r Record) Slug() string {
	name := r.Debtor.Name
	if strings.TrimSpace(name) == "" {
		name = "CLIENTE"
	}

	return slugify(name)
}

var accentFold = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
	"Á", "A", "É", "E", "Í", "I", "Ó", "O", "Ú", "U", "Ü", "U", "Ñ", "N",
)

func slugify(s string) string {
	s = accentFold.Replace(s)

	var b strings.Builder
	lastUnderscore := true // trims leading separators

	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}

	slug := strings.ToUpper(strings.TrimRight(b.String(), "_"))
	if len(slug) > 60 {
		slug = slug[:60]
	}

	return slug
}
