package balance

import (
	"path/filepath"
	"testing"

	"github.com/brun04maral/agora-contabilidade-sub000/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Project{},
		&models.Expense{},
		&models.ExpenseReport{},
		&models.ExpenseReportLine{},
	))
	return NewEngine(db)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCompute_PersonalProjectMinusPersonalExpense(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.DB.Create(&models.Project{
		Name: "Wedding video", Type: models.ProjectPersonalA,
		InvoiceState: models.InvoiceReceived, AmountExclTax: dec("1500"),
	}).Error)
	require.NoError(t, e.DB.Create(&models.Expense{
		Description: "Lens repair", Category: models.ExpensePersonalA,
		State: models.ExpensePaid, AmountInclTax: dec("200"),
	}).Error)

	snap, err := e.Compute(models.PartnerA)
	require.NoError(t, err)

	assert.Equal(t, "1500.00", snap.Inflows.PersonalProjects.StringFixed(2))
	assert.Equal(t, "200.00", snap.Outflows.PersonalExpenses.StringFixed(2))
	assert.Equal(t, "1300.00", snap.NetBalance.StringFixed(2))
	assert.Equal(t, "1300.00", snap.SuggestedSettlement.StringFixed(2))
}

func TestCompute_FixedCostsSplitEqually(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.DB.Create(&models.Expense{
		Description: "Office rent", Category: models.ExpenseFixedMonthly,
		State: models.ExpensePaid, AmountInclTax: dec("184.50"),
	}).Error)

	for _, partner := range []models.PartnerCode{models.PartnerA, models.PartnerB} {
		snap, err := e.Compute(partner)
		require.NoError(t, err)
		assert.Equal(t, "92.25", snap.Outflows.SharedFixedCosts.StringFixed(2))
		assert.Equal(t, "-92.25", snap.NetBalance.StringFixed(2))
		assert.True(t, snap.SuggestedSettlement.IsZero())
	}
}

func TestCompute_UnpaidFixedCostDoesNotCount(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.DB.Create(&models.Expense{
		Description: "Insurance", Category: models.ExpenseFixedMonthly,
		State: models.ExpensePending, AmountInclTax: dec("300"),
	}).Error)

	snap, err := e.Compute(models.PartnerB)
	require.NoError(t, err)
	assert.True(t, snap.Outflows.SharedFixedCosts.IsZero())
}

func TestCompute_OnlyFinalizedInvoicesCount(t *testing.T) {
	e := newTestEngine(t)

	for _, p := range []models.Project{
		{Name: "Shot, not billed", Type: models.ProjectPersonalB, InvoiceState: models.InvoiceNotInvoiced, AmountExclTax: dec("900")},
		{Name: "Billed", Type: models.ProjectPersonalB, InvoiceState: models.InvoiceInvoiced, AmountExclTax: dec("400")},
		{Name: "Collected", Type: models.ProjectPersonalB, InvoiceState: models.InvoiceReceived, AmountExclTax: dec("250")},
	} {
		require.NoError(t, e.DB.Create(&p).Error)
	}

	snap, err := e.Compute(models.PartnerB)
	require.NoError(t, err)
	assert.Equal(t, "650.00", snap.Inflows.PersonalProjects.StringFixed(2))
}

func TestCompute_BonusesPerPartner(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.DB.Create(&models.Project{
		Name: "Corporate film", Type: models.ProjectCompany,
		InvoiceState: models.InvoiceReceived, AmountExclTax: dec("8000"),
		BonusPartnerA: dec("350"), BonusPartnerB: dec("150"),
	}).Error)

	snapA, err := e.Compute(models.PartnerA)
	require.NoError(t, err)
	snapB, err := e.Compute(models.PartnerB)
	require.NoError(t, err)

	assert.Equal(t, "350.00", snapA.Inflows.Bonuses.StringFixed(2))
	assert.Equal(t, "150.00", snapB.Inflows.Bonuses.StringFixed(2))
	// the project's own amount never reaches a personal balance
	assert.True(t, snapA.Inflows.PersonalProjects.IsZero())
}

func TestCompute_PendingReportsWeighZero(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.DB.Create(&models.ExpenseReport{
		Partner: models.PartnerA, Month: "2026-07",
		State: models.ReportPaid, TotalAmount: dec("312.40"),
	}).Error)
	require.NoError(t, e.DB.Create(&models.ExpenseReport{
		Partner: models.PartnerA, Month: "2026-08",
		State: models.ReportPending, TotalAmount: dec("150.00"),
	}).Error)

	snap, err := e.Compute(models.PartnerA)
	require.NoError(t, err)

	assert.Equal(t, "312.40", snap.Outflows.PaidReports.StringFixed(2))
	require.Len(t, snap.PendingReports, 1)
	assert.Equal(t, "2026-08", snap.PendingReports[0].Month)
	assert.Equal(t, "150.00", snap.PendingReports[0].TotalAmount.StringFixed(2))
}

func TestCompute_OtherPartnerRecordsIgnored(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.DB.Create(&models.Project{
		Name: "B's gig", Type: models.ProjectPersonalB,
		InvoiceState: models.InvoiceReceived, AmountExclTax: dec("700"),
	}).Error)
	require.NoError(t, e.DB.Create(&models.Expense{
		Description: "B's gear", Category: models.ExpensePersonalB,
		State: models.ExpensePaid, AmountInclTax: dec("80"),
	}).Error)

	snap, err := e.Compute(models.PartnerA)
	require.NoError(t, err)
	assert.True(t, snap.Inflows.Total.IsZero())
	assert.True(t, snap.Outflows.Total.IsZero())
}

func TestCompute_NegativeAmountContributesZero(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.DB.Create(&models.Project{
		Name: "Bad import", Type: models.ProjectPersonalA,
		InvoiceState: models.InvoiceReceived, AmountExclTax: dec("-500"),
	}).Error)
	require.NoError(t, e.DB.Create(&models.Project{
		Name: "Good one", Type: models.ProjectPersonalA,
		InvoiceState: models.InvoiceReceived, AmountExclTax: dec("120"),
	}).Error)

	snap, err := e.Compute(models.PartnerA)
	require.NoError(t, err)
	assert.Equal(t, "120.00", snap.Inflows.PersonalProjects.StringFixed(2))
}

func TestCompute_ReadOnlyAndDeterministic(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.DB.Create(&models.Project{
		Name: "Repeatable", Type: models.ProjectPersonalA,
		InvoiceState: models.InvoiceInvoiced, AmountExclTax: dec("999.99"),
	}).Error)
	require.NoError(t, e.DB.Create(&models.Expense{
		Description: "Rent", Category: models.ExpenseFixedMonthly,
		State: models.ExpensePaid, AmountInclTax: dec("101.01"),
	}).Error)

	first, err := e.Compute(models.PartnerA)
	require.NoError(t, err)
	second, err := e.Compute(models.PartnerA)
	require.NoError(t, err)

	assert.True(t, first.NetBalance.Equal(second.NetBalance))
	assert.True(t, first.Inflows.Total.Equal(second.Inflows.Total))
	assert.True(t, first.Outflows.Total.Equal(second.Outflows.Total))
	// net always decomposes exactly into the two sides
	assert.True(t, first.NetBalance.Equal(first.Inflows.Total.Sub(first.Outflows.Total)))
}

func TestCompute_UnknownPartner(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Compute("partner_c")
	assert.Error(t, err)
}
