package budget

import (
	"errors"
	"fmt"

	"github.com/brun04maral/agora-contabilidade-sub000/internal/ledger"
	"github.com/brun04maral/agora-contabilidade-sub000/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var two = decimal.NewFromInt(2)

// copyMirrorFields copies the type-specific figures of a client item
// onto its mirror allocation. Only the fields the item's kind uses are
// carried over.
func copyMirrorFields(mirror *models.BudgetAllocation, item *models.BudgetItem) {
	mirror.Description = item.Description
	mirror.DistanceKm = 0
	mirror.RatePerKm = decimal.Zero
	mirror.MealCount = 0
	mirror.PricePerMeal = decimal.Zero
	mirror.FixedAmount = decimal.Zero

	switch item.Kind {
	case models.ItemTransport:
		mirror.DistanceKm = item.DistanceKm
		mirror.RatePerKm = item.RatePerKm
	case models.ItemMeal:
		mirror.MealCount = item.MealCount
		mirror.PricePerMeal = item.PricePerMeal
	case models.ItemOther:
		mirror.FixedAmount = item.FixedAmount
	}
}

// MirrorExpense creates or updates the single company-side mirror of a
// client expense item (transport, meal or other). Re-running the
// operation on an already mirrored item updates the mirror in place.
func (s *Service) MirrorExpense(itemID, sectionID uint) (*models.BudgetAllocation, error) {
	var mirror *models.BudgetAllocation
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var item models.BudgetItem
		if err := tx.First(&item, itemID).Error; err != nil {
			return fmt.Errorf("load item %d: %w", itemID, err)
		}
		if !item.Kind.IsExpenseKind() {
			return fmt.Errorf("%w: only transport, meal or other items can be mirrored", ledger.ErrValidation)
		}

		var section models.BudgetSection
		if err := tx.First(&section, sectionID).Error; err != nil {
			return fmt.Errorf("load section %d: %w", sectionID, err)
		}
		if section.Side != models.SideInternal || section.BudgetID != item.BudgetID {
			return fmt.Errorf("%w: section %d is not an internal section of budget %d", ledger.ErrValidation, sectionID, item.BudgetID)
		}

		var existing models.BudgetAllocation
		err := tx.Where("mirror_of_item_id = ?", item.ID).First(&existing).Error
		switch {
		case err == nil:
			mirror = &existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			mirror = &models.BudgetAllocation{
				BudgetID:       item.BudgetID,
				Kind:           models.AllocMirroredExpense,
				Beneficiary:    models.CompanyCode,
				MirrorOfItemID: &item.ID,
			}
		default:
			return fmt.Errorf("load mirror: %w", err)
		}

		mirror.SectionID = sectionID
		copyMirrorFields(mirror, &item)
		mirror.Total = ledger.AllocationTotal(mirror)
		if err := tx.Save(mirror).Error; err != nil {
			return fmt.Errorf("save mirror: %w", err)
		}
		_, err = recomputeInternalTotal(tx, item.BudgetID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mirror, nil
}

// MirrorExpenseSplit mirrors each selected expense item as two
// internal allocations, one per partner, each carrying half the item's
// total and half its unit rate. Items that already have an allocation
// with the same description in the target section are skipped, so a
// re-run creates nothing new.
func (s *Service) MirrorExpenseSplit(itemIDs []uint, sectionID uint) (int, error) {
	created := 0
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var section models.BudgetSection
		if err := tx.First(&section, sectionID).Error; err != nil {
			return fmt.Errorf("load section %d: %w", sectionID, err)
		}
		if section.Side != models.SideInternal {
			return fmt.Errorf("%w: section %d is not an internal section", ledger.ErrValidation, sectionID)
		}

		var budgetID uint
		for _, itemID := range itemIDs {
			var item models.BudgetItem
			if err := tx.First(&item, itemID).Error; err != nil {
				return fmt.Errorf("load item %d: %w", itemID, err)
			}
			if !item.Kind.IsExpenseKind() {
				return fmt.Errorf("%w: only transport, meal or other items can be mirrored", ledger.ErrValidation)
			}
			if section.BudgetID != item.BudgetID {
				return fmt.Errorf("%w: item %d does not belong to budget %d", ledger.ErrValidation, itemID, section.BudgetID)
			}
			budgetID = item.BudgetID

			var count int64
			if err := tx.Model(&models.BudgetAllocation{}).
				Where("section_id = ? AND description = ?", sectionID, item.Description).
				Count(&count).Error; err != nil {
				return fmt.Errorf("check existing split: %w", err)
			}
			if count > 0 {
				continue
			}

			total := ledger.ItemTotal(&item)
			// round one half, give the remainder to the other so the
			// halves always sum back to the item total
			halfA := total.Div(two).Round(2)
			halfB := total.Sub(halfA)
			halfRate := unitRateOf(&item).Div(two).Round(2)

			for _, half := range []struct {
				partner models.PartnerCode
				amount  decimal.Decimal
			}{
				{models.PartnerA, halfA},
				{models.PartnerB, halfB},
			} {
				alloc := models.BudgetAllocation{
					BudgetID:    budgetID,
					SectionID:   sectionID,
					Kind:        models.AllocMirroredExpense,
					Description: item.Description,
					Beneficiary: string(half.partner),
					FixedAmount: half.amount,
					RatePerKm:   halfRate,
					Total:       half.amount,
				}
				if err := tx.Create(&alloc).Error; err != nil {
					return fmt.Errorf("create split allocation: %w", err)
				}
				created++
			}
		}
		if budgetID != 0 {
			if _, err := recomputeInternalTotal(tx, budgetID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

// unitRateOf picks the per-unit rate a split half should carry,
// matching the item's kind.
func unitRateOf(item *models.BudgetItem) decimal.Decimal {
	switch item.Kind {
	case models.ItemTransport:
		return item.RatePerKm
	case models.ItemMeal:
		return item.PricePerMeal
	default:
		return item.FixedAmount
	}
}
