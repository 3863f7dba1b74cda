package documents

import (
	"fmt"
	"strings"
	"time"

	"github.com/JJ950407/lia-pagare/internal/money"
	"github.com/JJ950407/lia-pagare/internal/sale"
	"github.com/JJ950407/lia-pagare/internal/schedule"
)

// saleRequest is the wire form of a sale. Money fields are strings so
// callers can send either "250000" or "$250,000.00".
type saleRequest struct {
	Debtor struct {
		Name    string `json:"name"`
		Address string `json:"address"`
		City    string `json:"city"`
	} `json:"debtor"`
	BuyerTitle string `json:"buyer_title,omitempty"`
	Creditor   string `json:"creditor"`
	Phone      string `json:"phone,omitempty"`

	Total         string `json:"total"`
	DownPayment   string `json:"down_payment"`
	Installment   string `json:"installment"`
	AnnuityAmount string `json:"annuity_amount,omitempty"`
	AnnuityCount  int    `json:"annuity_count,omitempty"`
	AnnuityMonth  int    `json:"annuity_month,omitempty"`

	IssueDate string `json:"issue_date"`     // 2006-01-02
	FirstDue  string `json:"first_due_rule"` // "mismo" or "siguiente"

	PlaceOfIssue   string  `json:"place_of_issue"`
	PlaceOfPayment string  `json:"place_of_payment"`
	PenaltyRate    float64 `json:"penalty_rate,omitempty"`
	InterestRate   float64 `json:"interest_rate,omitempty"`

	Predio    *predioRequest `json:"predio,omitempty"`
	Witnesses []string       `json:"witnesses,omitempty"`
}

type predioRequest struct {
	Name         string          `json:"name"`
	Location     string          `json:"location"`
	Municipality string          `json:"municipality"`
	Block        string          `json:"block"`
	SurfaceM2    float64         `json:"surface_m2"`
	North        boundaryRequest `json:"north"`
	South        boundaryRequest `json:"south"`
	East         boundaryRequest `json:"east"`
	West         boundaryRequest `json:"west"`
}

type boundaryRequest struct {
	Meters  float64 `json:"meters"`
	Adjoins string  `json:"adjoins"`
}

func (r saleRequest) toRecord() (sale.Record, error) {
	rec := sale.Record{
		Debtor: sale.Party{
			Name:    r.Debtor.Name,
			Address: r.Debtor.Address,
			City:    r.Debtor.City,
		},
		BuyerTitle:     r.BuyerTitle,
		Creditor:       r.Creditor,
		Phone:          r.Phone,
		AnnuityCount:   r.AnnuityCount,
		PlaceOfIssue:   r.PlaceOfIssue,
		PlaceOfPayment: r.PlaceOfPayment,
		PenaltyRate:    r.PenaltyRate,
		InterestRate:   r.InterestRate,
	}

	var err error

	if rec.Total, err = money.ParseCents(r.Total); err != nil {
		return sale.Record{}, fmt.Errorf("total: %w", err)
	}

	if rec.DownPayment, err = parseOptionalCents(r.DownPayment); err != nil {
		return sale.Record{}, fmt.Errorf("down_payment: %w", err)
	}

	if rec.Installment, err = money.ParseCents(r.Installment); err != nil {
		return sale.Record{}, fmt.Errorf("installment: %w", err)
	}

	if rec.AnnuityAmount, err = parseOptionalCents(r.AnnuityAmount); err != nil {
		return sale.Record{}, fmt.Errorf("annuity_amount: %w", err)
	}

	if r.AnnuityMonth != 0 {
		if r.AnnuityMonth < 1 || r.AnnuityMonth > 12 {
			return sale.Record{}, fmt.Errorf("annuity_month out of range: %d", r.AnnuityMonth)
		}

		rec.AnnuityMonth = time.Month(r.AnnuityMonth)
	}

	if rec.IssueDate, err = time.Parse(time.DateOnly, r.IssueDate); err != nil {
		return sale.Record{}, fmt.Errorf("issue_date: %w", err)
	}

	if rec.Rule, err = parseRule(r.FirstDue); err != nil {
		return sale.Record{}, err
	}

	if r.Predio != nil {
		rec.Predio = sale.Predio{
			Name:         r.Predio.Name,
			Location:     r.Predio.Location,
			Municipality: r.Predio.Municipality,
			Block:        r.Predio.Block,
			SurfaceM2:    r.Predio.SurfaceM2,
			North:        sale.Boundary(r.Predio.North),
			South:        sale.Boundary(r.Predio.South),
			East:         sale.Boundary(r.Predio.East),
			West:         sale.Boundary(r.Predio.West),
		}
	}

	if len(r.Witnesses) >= 2 {
		rec.Witnesses = [2]string{r.Witnesses[0], r.Witnesses[1]}
	}

	return rec, nil
}

func parseOptionalCents(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}

	return money.ParseCents(s)
}

func parseRule(s string) (schedule.DueDateRule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(schedule.RuleSameHalf):
		return schedule.RuleSameHalf, nil
	case string(schedule.RuleNextHalf):
		return schedule.RuleNextHalf, nil
	}

	return "", fmt.Errorf("first_due_rule must be %q or %q", schedule.RuleSameHalf, schedule.RuleNextHalf)
}
