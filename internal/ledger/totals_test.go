package ledger

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

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.ExpenseReport{},
		&models.ExpenseReportLine{},
		&models.Budget{},
		&models.BudgetSection{},
		&models.BudgetItem{},
		&models.BudgetAllocation{},
	))
	return db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestItemTotal(t *testing.T) {
	testCases := []struct {
		name string
		item models.BudgetItem
		want string
	}{
		{
			name: "service with discount",
			item: models.BudgetItem{Kind: models.ItemService, Quantity: dec("2"), Days: dec("3"), UnitPrice: dec("100"), Discount: dec("0.1")},
			want: "540.00",
		},
		{
			name: "equipment no discount",
			item: models.BudgetItem{Kind: models.ItemEquipment, Quantity: dec("1"), Days: dec("2.5"), UnitPrice: dec("80")},
			want: "200.00",
		},
		{
			name: "transport km times rate",
			item: models.BudgetItem{Kind: models.ItemTransport, DistanceKm: 120, RatePerKm: dec("0.36")},
			want: "43.20",
		},
		{
			name: "meals count times price",
			item: models.BudgetItem{Kind: models.ItemMeal, MealCount: 4, PricePerMeal: dec("12.50")},
			want: "50.00",
		},
		{
			name: "other fixed amount",
			item: models.BudgetItem{Kind: models.ItemOther, FixedAmount: dec("75.90")},
			want: "75.90",
		},
		{
			name: "full discount zeroes the line",
			item: models.BudgetItem{Kind: models.ItemService, Quantity: dec("1"), Days: dec("1"), UnitPrice: dec("500"), Discount: dec("1")},
			want: "0.00",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ItemTotal(&tc.item)
			assert.Equal(t, tc.want, got.StringFixed(2))
		})
	}
}

func TestAllocationTotal(t *testing.T) {
	testCases := []struct {
		name  string
		alloc models.BudgetAllocation
		want  string
	}{
		{
			name:  "service ignores any discount concept",
			alloc: models.BudgetAllocation{Kind: models.AllocService, Quantity: dec("2"), Days: dec("3"), UnitRate: dec("100")},
			want:  "600.00",
		},
		{
			name:  "commission with three decimal percentage",
			alloc: models.BudgetAllocation{Kind: models.AllocCommission, BaseAmount: dec("1000"), Percentage: dec("5.125")},
			want:  "51.25",
		},
		{
			name:  "commission standard",
			alloc: models.BudgetAllocation{Kind: models.AllocCommission, BaseAmount: dec("1000"), Percentage: dec("10")},
			want:  "100.00",
		},
		{
			name:  "mirrored expense from km fields",
			alloc: models.BudgetAllocation{Kind: models.AllocMirroredExpense, DistanceKm: 100, RatePerKm: dec("0.40")},
			want:  "40.00",
		},
		{
			name:  "mirrored expense from meal fields",
			alloc: models.BudgetAllocation{Kind: models.AllocMirroredExpense, MealCount: 3, PricePerMeal: dec("11")},
			want:  "33.00",
		},
		{
			name:  "mirrored expense from fixed amount",
			alloc: models.BudgetAllocation{Kind: models.AllocMirroredExpense, FixedAmount: dec("99.99")},
			want:  "99.99",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := AllocationTotal(&tc.alloc)
			assert.Equal(t, tc.want, got.StringFixed(2))
		})
	}
}

func TestRecomputeReport_SumInvariant(t *testing.T) {
	db := newTestDB(t)

	report := models.ExpenseReport{
		Partner:      models.PartnerA,
		RateNational: dec("50.20"),
		RateForeign:  dec("89.35"),
		RatePerKm:    dec("0.36"),
	}
	require.NoError(t, db.Create(&report).Error)

	lines := []models.ExpenseReportLine{
		{ExpenseReportID: report.ID, Type: models.DisplacementNational, Days: dec("1.5"), DistanceKm: 100},
		{ExpenseReportID: report.ID, Type: models.DisplacementNational, Days: dec("2"), DistanceKm: 40},
		{ExpenseReportID: report.ID, Type: models.DisplacementForeign, Days: dec("3"), DistanceKm: 0},
	}
	require.NoError(t, db.Create(&lines).Error)

	changed, err := RecomputeReport(db, report.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	var saved models.ExpenseReport
	require.NoError(t, db.First(&saved, report.ID).Error)

	// 3.5 national days * 50.20, 3 foreign days * 89.35, 140 km * 0.36
	assert.Equal(t, "175.70", saved.TotalNational.StringFixed(2))
	assert.Equal(t, "268.05", saved.TotalForeign.StringFixed(2))
	assert.Equal(t, "50.40", saved.TotalDistance.StringFixed(2))
	assert.Equal(t, "494.15", saved.TotalAmount.StringFixed(2))
	assert.True(t, saved.TotalAmount.Equal(saved.TotalNational.Add(saved.TotalForeign).Add(saved.TotalDistance)))
}

func TestRecomputeReport_Idempotent(t *testing.T) {
	db := newTestDB(t)

	report := models.ExpenseReport{
		Partner:      models.PartnerB,
		RateNational: dec("45"),
		RateForeign:  dec("80"),
		RatePerKm:    dec("0.40"),
	}
	require.NoError(t, db.Create(&report).Error)
	require.NoError(t, db.Create(&models.ExpenseReportLine{
		ExpenseReportID: report.ID, Type: models.DisplacementNational, Days: dec("2"), DistanceKm: 50,
	}).Error)

	_, err := RecomputeReport(db, report.ID)
	require.NoError(t, err)
	var first models.ExpenseReport
	require.NoError(t, db.First(&first, report.ID).Error)

	_, err = RecomputeReport(db, report.ID)
	require.NoError(t, err)
	var second models.ExpenseReport
	require.NoError(t, db.First(&second, report.ID).Error)

	assert.True(t, first.TotalAmount.Equal(second.TotalAmount))
	assert.True(t, first.TotalNational.Equal(second.TotalNational))
	assert.True(t, first.TotalForeign.Equal(second.TotalForeign))
	assert.True(t, first.TotalDistance.Equal(second.TotalDistance))
}

func TestRecomputeReport_MissingRatesIsNoOp(t *testing.T) {
	db := newTestDB(t)

	// km rate left unset
	report := models.ExpenseReport{
		Partner:      models.PartnerA,
		RateNational: dec("50"),
		RateForeign:  dec("89"),
	}
	require.NoError(t, db.Create(&report).Error)
	require.NoError(t, db.Create(&models.ExpenseReportLine{
		ExpenseReportID: report.ID, Type: models.DisplacementNational, Days: dec("2"),
	}).Error)

	changed, err := RecomputeReport(db, report.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	var saved models.ExpenseReport
	require.NoError(t, db.First(&saved, report.ID).Error)
	assert.True(t, saved.TotalAmount.IsZero())
	assert.True(t, saved.TotalNational.IsZero())
}

func TestValidateLine(t *testing.T) {
	testCases := []struct {
		name    string
		line    models.ExpenseReportLine
		wantErr bool
	}{
		{"valid national", models.ExpenseReportLine{Type: models.DisplacementNational, Days: dec("1")}, false},
		{"valid fractional days", models.ExpenseReportLine{Type: models.DisplacementForeign, Days: dec("0.5"), DistanceKm: 10}, false},
		{"zero days", models.ExpenseReportLine{Type: models.DisplacementNational, Days: dec("0")}, true},
		{"negative days", models.ExpenseReportLine{Type: models.DisplacementNational, Days: dec("-1")}, true},
		{"negative distance", models.ExpenseReportLine{Type: models.DisplacementNational, Days: dec("1"), DistanceKm: -5}, true},
		{"unknown type", models.ExpenseReportLine{Type: "maritime", Days: dec("1")}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateLine(&tc.line)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateItem_DiscountBounds(t *testing.T) {
	ok := models.BudgetItem{Kind: models.ItemService, Quantity: dec("1"), Days: dec("1"), UnitPrice: dec("10"), Discount: dec("0.25")}
	assert.NoError(t, ValidateItem(&ok))

	over := ok
	over.Discount = dec("1.01")
	assert.ErrorIs(t, ValidateItem(&over), ErrValidation)

	negative := ok
	negative.Discount = dec("-0.1")
	assert.ErrorIs(t, ValidateItem(&negative), ErrValidation)
}

func TestValidateAllocation_PercentageBounds(t *testing.T) {
	ok := models.BudgetAllocation{Kind: models.AllocCommission, BaseAmount: dec("100"), Percentage: dec("5.125")}
	assert.NoError(t, ValidateAllocation(&ok))

	tooPrecise := ok
	tooPrecise.Percentage = dec("5.1255")
	assert.ErrorIs(t, ValidateAllocation(&tooPrecise), ErrValidation)

	over := ok
	over.Percentage = dec("100.5")
	assert.ErrorIs(t, ValidateAllocation(&over), ErrValidation)
}
