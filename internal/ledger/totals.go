// Package ledger keeps parent monetary totals consistent with their
// child rows. All recomputation is full-scan and runs inside the same
// transaction as the child mutation that triggered it.
package ledger

import (
	"errors"
	"fmt"

	"github.com/brun04maral/agora-contabilidade-sub000/internal/models"
	"github.com/brun04maral/agora-contabilidade-sub000/internal/util"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrValidation marks any bounds or invariant violation. Callers can
// errors.Is against it to map the failure to a client error.
var ErrValidation = errors.New("validation failed")

var hundred = decimal.NewFromInt(100)

// ItemTotal computes a client-side budget item total from its
// kind-specific fields. The discount only ever applies here, never on
// the internal side.
func ItemTotal(it *models.BudgetItem) decimal.Decimal {
	switch it.Kind {
	case models.ItemService, models.ItemEquipment:
		gross := it.Quantity.Mul(it.Days).Mul(it.UnitPrice)
		return util.Round2(gross.Mul(decimal.NewFromInt(1).Sub(it.Discount)))
	case models.ItemTransport:
		return util.Round2(decimal.NewFromInt(int64(it.DistanceKm)).Mul(it.RatePerKm))
	case models.ItemMeal:
		return util.Round2(decimal.NewFromInt(int64(it.MealCount)).Mul(it.PricePerMeal))
	case models.ItemOther:
		return util.Round2(it.FixedAmount)
	}
	return decimal.Zero
}

// AllocationTotal computes an internal-side allocation total.
func AllocationTotal(a *models.BudgetAllocation) decimal.Decimal {
	switch a.Kind {
	case models.AllocService, models.AllocEquipment:
		return util.Round2(a.Quantity.Mul(a.Days).Mul(a.UnitRate))
	case models.AllocCommission:
		return util.Round2(a.BaseAmount.Mul(a.Percentage).Div(hundred))
	case models.AllocMirroredExpense:
		return mirrorTotal(a)
	}
	return decimal.Zero
}

// mirrorTotal recomputes a mirrored expense from whichever field set
// is populated on the mirror copy.
func mirrorTotal(a *models.BudgetAllocation) decimal.Decimal {
	if a.DistanceKm > 0 {
		return util.Round2(decimal.NewFromInt(int64(a.DistanceKm)).Mul(a.RatePerKm))
	}
	if a.MealCount > 0 {
		return util.Round2(decimal.NewFromInt(int64(a.MealCount)).Mul(a.PricePerMeal))
	}
	return util.Round2(a.FixedAmount)
}

// ValidateItem checks the bounds of a client-side item before it is
// persisted.
func ValidateItem(it *models.BudgetItem) error {
	if err := util.ValidateDiscount(it.Discount); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if it.Quantity.IsNegative() || it.Days.IsNegative() {
		return fmt.Errorf("%w: quantity and days must not be negative", ErrValidation)
	}
	for _, amount := range []decimal.Decimal{it.UnitPrice, it.RatePerKm, it.PricePerMeal, it.FixedAmount} {
		if err := util.ValidateAmount(amount); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	if it.DistanceKm < 0 || it.MealCount < 0 {
		return fmt.Errorf("%w: counts must not be negative", ErrValidation)
	}
	return nil
}

// ValidateAllocation checks the bounds of an internal-side allocation.
func ValidateAllocation(a *models.BudgetAllocation) error {
	if a.Kind == models.AllocCommission {
		if err := util.ValidatePercentage(a.Percentage); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	if a.Quantity.IsNegative() || a.Days.IsNegative() {
		return fmt.Errorf("%w: quantity and days must not be negative", ErrValidation)
	}
	for _, amount := range []decimal.Decimal{a.UnitRate, a.BaseAmount, a.RatePerKm, a.PricePerMeal, a.FixedAmount} {
		if err := util.ValidateAmount(amount); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	if a.DistanceKm < 0 || a.MealCount < 0 {
		return fmt.Errorf("%w: counts must not be negative", ErrValidation)
	}
	return nil
}

// ValidateLine checks the bounds of an expense-report line.
func ValidateLine(line *models.ExpenseReportLine) error {
	if line.Type != models.DisplacementNational && line.Type != models.DisplacementForeign {
		return fmt.Errorf("%w: unknown displacement type %q", ErrValidation, line.Type)
	}
	if err := util.ValidateDays(line.Days); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if line.DistanceKm < 0 {
		return fmt.Errorf("%w: distance must not be negative", ErrValidation)
	}
	return nil
}

// RecomputeReport rebuilds an expense report's four totals from its
// lines. It declines to touch the report when the reference rates are
// not all set yet (a guarded no-op, not an error) and reports whether
// the totals were written.
func RecomputeReport(tx *gorm.DB, reportID uint) (bool, error) {
	var report models.ExpenseReport
	if err := tx.First(&report, reportID).Error; err != nil {
		return false, fmt.Errorf("load report %d: %w", reportID, err)
	}
	if !report.HasRates() {
		return false, nil
	}

	var lines []models.ExpenseReportLine
	if err := tx.Where("expense_report_id = ?", reportID).Find(&lines).Error; err != nil {
		return false, fmt.Errorf("load report lines: %w", err)
	}

	var nationalDays, foreignDays decimal.Decimal
	var totalKm int64
	for i := range lines {
		switch lines[i].Type {
		case models.DisplacementNational:
			nationalDays = nationalDays.Add(lines[i].Days)
		case models.DisplacementForeign:
			foreignDays = foreignDays.Add(lines[i].Days)
		}
		totalKm += int64(lines[i].DistanceKm)
	}

	report.TotalNational = util.Round2(nationalDays.Mul(report.RateNational))
	report.TotalForeign = util.Round2(foreignDays.Mul(report.RateForeign))
	report.TotalDistance = util.Round2(decimal.NewFromInt(totalKm).Mul(report.RatePerKm))
	report.TotalAmount = report.TotalNational.Add(report.TotalForeign).Add(report.TotalDistance)

	if err := tx.Model(&report).Select("total_national", "total_foreign", "total_distance", "total_amount").
		Updates(&report).Error; err != nil {
		return false, fmt.Errorf("save report totals: %w", err)
	}
	return true, nil
}
