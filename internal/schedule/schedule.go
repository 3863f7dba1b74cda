package schedule

import (
	"fmt"
	"time"
)

// Kind distinguishes the two payment cadences of a sale.
type Kind string

const (
	KindInstallment Kind = "mensualidad"
	KindAnnuity     Kind = "anualidad"
)

// DueDateRule selects whether the first due date stays in the issue month
// or moves to the following one.
type DueDateRule string

const (
	RuleSameHalf DueDateRule = "mismo"
	RuleNextHalf DueDateRule = "siguiente"
)

// Request carries the economic parameters of a payment plan.
// All amounts are in cents.
type Request struct {
	Balance       int64 // total minus down payment
	Installment   int64 // monthly installment amount
	AnnuityAmount int64
	AnnuityCount  int
	AnnuityMonth  time.Month // calendar month an annuity falls due
	IssueDate     time.Time
	Rule          DueDateRule
}

// Entry is one payment obligation of the plan. Entries are immutable once
// produced; folios are 1-based and contiguous.
type Entry struct {
	Folio   int
	Amount  int64 // cents
	DueDate time.Time
	Kind    Kind
}

// FolioString renders the folio zero-padded to two digits.
func (e Entry) FolioString() string {
	return fmt.Sprintf("%02d", e.Folio)
}

// InvalidScheduleError reports economic parameters that cannot produce a
// valid plan. It is returned before any document is rendered.
type InvalidScheduleError struct {
	Reason string
}

func (e *InvalidScheduleError) Error() string {
	return "invalid schedule: " + e.Reason
}

// Compute converts a Request into the ordered list of payment entries.
//
// Installments are an even split of the balance net of annuities, with the
// rounding overshoot absorbed from the tail so the totals match to the cent.
// Annuities are paired to the configured calendar month while walking the
// installment dates, but the returned list groups all installments first,
// then all annuities, both in chronological order, and folios are assigned
// over that grouped order. The grouping is deliberate output shape.
func Compute(req Request) ([]Entry, error) {
	annuityTotal := req.AnnuityAmount * int64(req.AnnuityCount)
	if annuityTotal > req.Balance {
		return nil, &InvalidScheduleError{Reason: "annuity total exceeds balance"}
	}

	installmentBalance := req.Balance - annuityTotal
	if installmentBalance > 0 && req.Installment <= 0 {
		return nil, &InvalidScheduleError{Reason: "installment amount must be positive"}
	}

	amounts := splitInstallments(installmentBalance, req.Installment)

	annuityMonth := req.AnnuityMonth
	if annuityMonth == 0 {
		annuityMonth = time.December
	}

	baseDay := baseDueDay(req.IssueDate)
	due := firstDueDate(req.IssueDate, req.Rule)

	var installments, annuities []Entry

	annuitiesLeft := req.AnnuityCount

	for _, amount := range amounts {
		installments = append(installments, Entry{
			Amount:  amount,
			DueDate: due,
			Kind:    KindInstallment,
		})

		if annuitiesLeft > 0 && due.Month() == annuityMonth {
			annuities = append(annuities, Entry{
				Amount:  req.AnnuityAmount,
				DueDate: due,
				Kind:    KindAnnuity,
			})
			annuitiesLeft--
		}

		due = addMonthKeepBaseDay(due, baseDay)
	}

	// Installments may run out before every annuity found its month; keep
	// advancing the calendar until the remaining ones are placed.
	for annuitiesLeft > 0 {
		if due.Month() == annuityMonth {
			annuities = append(annuities, Entry{
				Amount:  req.AnnuityAmount,
				DueDate: due,
				Kind:    KindAnnuity,
			})
			annuitiesLeft--
		}

		due = addMonthKeepBaseDay(due, baseDay)
	}

	entries := append(installments, annuities...)
	for i := range entries {
		entries[i].Folio = i + 1
	}

	return entries, nil
}

// splitInstallments allocates ceil(balance/installment) slots of the
// installment amount and shrinks the tail slots until the sum matches the
// balance exactly. No slot is ever driven to zero.
func splitInstallments(balance, installment int64) []int64 {
	if balance <= 0 {
		return nil
	}

	n := balance / installment
	if balance%installment != 0 {
		n++
	}

	amounts := make([]int64, n)
	for i := range amounts {
		amounts[i] = installment
	}

	overpay := n*installment - balance
	for i := n - 1; i >= 0 && overpay > 0; i-- {
		take := min(overpay, amounts[i]-1)
		amounts[i] -= take
		overpay -= take
	}

	return amounts
}
