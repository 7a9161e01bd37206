// Package balance computes each partner's net personal balance as a
// full-refresh snapshot. There is no running ledger: every call
// re-reads the qualifying projects, expenses and expense reports and
// recomputes from scratch, so two consecutive calls with no writes in
// between always agree.
package balance

import (
	"fmt"

	"github.com/brun04maral/agora-contabilidade-sub000/internal/ledger"
	"github.com/brun04maral/agora-contabilidade-sub000/internal/models"
	"github.com/brun04maral/agora-contabilidade-sub000/internal/util"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Engine struct {
	DB *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{DB: db}
}

// Inflows is what the company owes the partner.
type Inflows struct {
	PersonalProjects decimal.Decimal `json:"personal_projects"`
	Bonuses          decimal.Decimal `json:"bonuses"`
	Total            decimal.Decimal `json:"total"`
}

// Outflows is what the partner has already drawn or owes back.
type Outflows struct {
	SharedFixedCosts decimal.Decimal `json:"shared_fixed_costs"`
	PaidReports      decimal.Decimal `json:"paid_reports"`
	PersonalExpenses decimal.Decimal `json:"personal_expenses"`
	Total            decimal.Decimal `json:"total"`
}

// PendingReport is listed for visibility only; it carries zero weight
// in the outflow total until marked paid.
type PendingReport struct {
	ID          uint            `json:"id"`
	Month       string          `json:"month"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// Snapshot is the full balance picture for one partner.
type Snapshot struct {
	Partner             models.PartnerCode `json:"partner"`
	Inflows             Inflows            `json:"inflows"`
	Outflows            Outflows           `json:"outflows"`
	NetBalance          decimal.Decimal    `json:"net_balance"`
	SuggestedSettlement decimal.Decimal    `json:"suggested_settlement"`
	PendingReports      []PendingReport    `json:"pending_reports"`
}

// inflow-qualifying invoice states: billing must be finalized
var qualifyingStates = []models.InvoiceState{models.InvoiceInvoiced, models.InvoiceReceived}

// Compute builds the balance snapshot for a partner. The computation
// is read-only; malformed upstream rows contribute zero to their
// bucket instead of aborting the run.
func (e *Engine) Compute(partner models.PartnerCode) (*Snapshot, error) {
	if !partner.Valid() {
		return nil, fmt.Errorf("%w: unknown partner %q", ledger.ErrValidation, partner)
	}

	snap := &Snapshot{Partner: partner, PendingReports: []PendingReport{}}

	// inflows: personal projects at full value once invoicing is
	// finalized, plus this partner's bonuses on company projects
	var personal []models.Project
	if err := e.DB.Where("type = ? AND invoice_state IN ?", models.PersonalProjectType(partner), qualifyingStates).
		Find(&personal).Error; err != nil {
		return nil, fmt.Errorf("load personal projects: %w", err)
	}
	for i := range personal {
		snap.Inflows.PersonalProjects = snap.Inflows.PersonalProjects.Add(safeAmount(personal[i].AmountExclTax))
	}

	var company []models.Project
	if err := e.DB.Where("type = ? AND invoice_state IN ?", models.ProjectCompany, qualifyingStates).
		Find(&company).Error; err != nil {
		return nil, fmt.Errorf("load company projects: %w", err)
	}
	for i := range company {
		snap.Inflows.Bonuses = snap.Inflows.Bonuses.Add(safeAmount(company[i].Bonus(partner)))
	}
	snap.Inflows.Total = snap.Inflows.PersonalProjects.Add(snap.Inflows.Bonuses)

	// outflows: half of every paid fixed cost, the partner's paid
	// reports, and paid personal-category expenses
	var fixed []models.Expense
	if err := e.DB.Where("category = ? AND state = ?", models.ExpenseFixedMonthly, models.ExpensePaid).
		Find(&fixed).Error; err != nil {
		return nil, fmt.Errorf("load fixed expenses: %w", err)
	}
	var fixedTotal decimal.Decimal
	for i := range fixed {
		fixedTotal = fixedTotal.Add(safeAmount(fixed[i].AmountInclTax))
	}
	// both partners always bear an equal half
	snap.Outflows.SharedFixedCosts = util.Round2(fixedTotal.Div(decimal.NewFromInt(2)))

	var reports []models.ExpenseReport
	if err := e.DB.Where("partner = ?", partner).Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("load expense reports: %w", err)
	}
	for i := range reports {
		r := &reports[i]
		if r.State == models.ReportPaid {
			snap.Outflows.PaidReports = snap.Outflows.PaidReports.Add(safeAmount(r.TotalAmount))
			continue
		}
		snap.PendingReports = append(snap.PendingReports, PendingReport{
			ID: r.ID, Month: r.Month, TotalAmount: r.TotalAmount,
		})
	}

	var personalExpenses []models.Expense
	if err := e.DB.Where("category = ? AND state = ?", models.PersonalExpenseCategory(partner), models.ExpensePaid).
		Find(&personalExpenses).Error; err != nil {
		return nil, fmt.Errorf("load personal expenses: %w", err)
	}
	for i := range personalExpenses {
		snap.Outflows.PersonalExpenses = snap.Outflows.PersonalExpenses.Add(safeAmount(personalExpenses[i].AmountInclTax))
	}

	snap.Outflows.Total = snap.Outflows.SharedFixedCosts.
		Add(snap.Outflows.PaidReports).
		Add(snap.Outflows.PersonalExpenses)

	snap.NetBalance = snap.Inflows.Total.Sub(snap.Outflows.Total)
	// the settlement suggestion is what the next expense report should
	// claim to zero out a positive balance; never negative
	snap.SuggestedSettlement = snap.NetBalance
	if snap.SuggestedSettlement.IsNegative() {
		snap.SuggestedSettlement = decimal.Zero
	}

	return snap, nil
}

// safeAmount shields the buckets from malformed upstream values: a
// negative figure on a record contributes zero instead of corrupting
// the total.
func safeAmount(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
