// Package budget maintains the two sides of a budget: the client
// proposal and the internal repartition. Both sides are edited
// independently and must reconcile to the same grand total before the
// budget may be approved.
package budget

import (
	"errors"
	"fmt"

	"github.com/brun04maral/agora-contabilidade-sub000/internal/ledger"
	"github.com/brun04maral/agora-contabilidade-sub000/internal/models"
	"github.com/brun04maral/agora-contabilidade-sub000/internal/util"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// ErrUnbalanced is returned when the client and internal totals
	// disagree by a cent or more.
	ErrUnbalanced = errors.New("client and internal totals do not match")
	// ErrBadTransition is returned for a status change the state
	// machine does not allow.
	ErrBadTransition = errors.New("status transition not allowed")
)

type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// Create opens a new draft budget with the fixed client-side section
// skeleton: Services, Equipment (with Video/Sound/Lighting
// sub-sections) and Expenses, in that order, plus the internal root
// section. The skeleton is the same for every budget.
func (s *Service) Create(owner models.PartnerCode, clientID *uint, reference string) (*models.Budget, error) {
	if !owner.Valid() {
		return nil, fmt.Errorf("%w: unknown partner %q", ledger.ErrValidation, owner)
	}

	b := &models.Budget{
		Reference:    reference,
		OwnerPartner: owner,
		ClientID:     clientID,
		Status:       models.BudgetDraft,
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(b).Error; err != nil {
			return fmt.Errorf("create budget: %w", err)
		}

		services := models.BudgetSection{BudgetID: b.ID, Side: models.SideClient, Kind: models.SectionServices, Name: "Services", Position: 1}
		equipment := models.BudgetSection{BudgetID: b.ID, Side: models.SideClient, Kind: models.SectionEquipment, Name: "Equipment", Position: 2}
		expenses := models.BudgetSection{BudgetID: b.ID, Side: models.SideClient, Kind: models.SectionExpenses, Name: "Expenses", Position: 3}
		for _, sec := range []*models.BudgetSection{&services, &equipment, &expenses} {
			if err := tx.Create(sec).Error; err != nil {
				return fmt.Errorf("create section %s: %w", sec.Name, err)
			}
		}
		for i, name := range []string{"Video", "Sound", "Lighting"} {
			sub := models.BudgetSection{
				BudgetID: b.ID, Side: models.SideClient, Kind: models.SectionSubgroup,
				Name: name, ParentID: &equipment.ID, Position: i + 1,
			}
			if err := tx.Create(&sub).Error; err != nil {
				return fmt.Errorf("create sub-section %s: %w", name, err)
			}
		}

		internal := models.BudgetSection{BudgetID: b.ID, Side: models.SideInternal, Kind: models.SectionServices, Name: "Repartition", Position: 1}
		if err := tx.Create(&internal).Error; err != nil {
			return fmt.Errorf("create internal section: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ClientTotals is the client-side rollup: partial 1 covers services
// and equipment (sub-sections included), partial 2 the expenses.
type ClientTotals struct {
	Partial1 decimal.Decimal
	Partial2 decimal.Decimal
	Total    decimal.Decimal
}

// RecomputeClientTotal re-derives every item total, rolls the sections
// into the two partials and stores the client grand total.
func (s *Service) RecomputeClientTotal(budgetID uint) (ClientTotals, error) {
	var totals ClientTotals
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		t, err := recomputeClientTotal(tx, budgetID)
		totals = t
		return err
	})
	return totals, err
}

func recomputeClientTotal(tx *gorm.DB, budgetID uint) (ClientTotals, error) {
	var totals ClientTotals

	var sections []models.BudgetSection
	if err := tx.Where("budget_id = ? AND side = ?", budgetID, models.SideClient).Find(&sections).Error; err != nil {
		return totals, fmt.Errorf("load sections: %w", err)
	}
	kindBySection := make(map[uint]models.SectionKind, len(sections))
	for i := range sections {
		kindBySection[sections[i].ID] = sections[i].Kind
	}

	var items []models.BudgetItem
	if err := tx.Where("budget_id = ?", budgetID).Find(&items).Error; err != nil {
		return totals, fmt.Errorf("load items: %w", err)
	}

	for i := range items {
		it := &items[i]
		total := ledger.ItemTotal(it)
		if !total.Equal(it.Total) {
			if err := tx.Model(it).Update("total", total).Error; err != nil {
				return totals, fmt.Errorf("save item total: %w", err)
			}
		}
		switch kindBySection[it.SectionID] {
		case models.SectionExpenses:
			totals.Partial2 = totals.Partial2.Add(total)
		default:
			// services, equipment and its sub-groups
			totals.Partial1 = totals.Partial1.Add(total)
		}
	}
	totals.Total = totals.Partial1.Add(totals.Partial2)

	if err := tx.Model(&models.Budget{}).Where("id = ?", budgetID).
		Update("client_total", totals.Total).Error; err != nil {
		return totals, fmt.Errorf("save client total: %w", err)
	}
	return totals, nil
}

// InternalTotals is the internal-side rollup, grouped by allocation
// kind for display but summed flat for the grand total.
type InternalTotals struct {
	ByKind map[models.AllocationKind]decimal.Decimal
	Total  decimal.Decimal
}

// RecomputeInternalTotal re-derives every allocation total and stores
// the internal grand total.
func (s *Service) RecomputeInternalTotal(budgetID uint) (InternalTotals, error) {
	var totals InternalTotals
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		t, err := recomputeInternalTotal(tx, budgetID)
		totals = t
		return err
	})
	return totals, err
}

func recomputeInternalTotal(tx *gorm.DB, budgetID uint) (InternalTotals, error) {
	totals := InternalTotals{ByKind: make(map[models.AllocationKind]decimal.Decimal)}

	var allocs []models.BudgetAllocation
	if err := tx.Where("budget_id = ?", budgetID).Find(&allocs).Error; err != nil {
		return totals, fmt.Errorf("load allocations: %w", err)
	}

	for i := range allocs {
		a := &allocs[i]
		total := ledger.AllocationTotal(a)
		if !total.Equal(a.Total) {
			if err := tx.Model(a).Update("total", total).Error; err != nil {
				return totals, fmt.Errorf("save allocation total: %w", err)
			}
		}
		totals.ByKind[a.Kind] = totals.ByKind[a.Kind].Add(total)
		totals.Total = totals.Total.Add(total)
	}

	if err := tx.Model(&models.Budget{}).Where("id = ?", budgetID).
		Update("internal_total", totals.Total).Error; err != nil {
		return totals, fmt.Errorf("save internal total: %w", err)
	}
	return totals, nil
}

// ValidateTotals reports whether the two stored sides agree within one
// cent. This is the hard precondition for approval.
func (s *Service) ValidateTotals(budgetID uint) (bool, error) {
	var b models.Budget
	if err := s.DB.First(&b, budgetID).Error; err != nil {
		return false, fmt.Errorf("load budget %d: %w", budgetID, err)
	}
	return util.WithinCent(b.ClientTotal, b.InternalTotal), nil
}

// AddItem creates a client-side item and recomputes the client total
// in the same transaction.
func (s *Service) AddItem(item *models.BudgetItem) error {
	if err := ledger.ValidateItem(item); err != nil {
		return err
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var section models.BudgetSection
		if err := tx.First(&section, item.SectionID).Error; err != nil {
			return fmt.Errorf("load section %d: %w", item.SectionID, err)
		}
		if section.Side != models.SideClient || section.BudgetID != item.BudgetID {
			return fmt.Errorf("%w: section %d is not a client section of budget %d", ledger.ErrValidation, item.SectionID, item.BudgetID)
		}
		item.Total = ledger.ItemTotal(item)
		if err := tx.Create(item).Error; err != nil {
			return fmt.Errorf("create item: %w", err)
		}
		_, err := recomputeClientTotal(tx, item.BudgetID)
		return err
	})
}

// UpdateItem saves edits to an item, re-syncs its mirror if one
// exists, and recomputes both affected sides.
func (s *Service) UpdateItem(item *models.BudgetItem) error {
	if err := ledger.ValidateItem(item); err != nil {
		return err
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.BudgetItem
		if err := tx.First(&existing, item.ID).Error; err != nil {
			return fmt.Errorf("load item %d: %w", item.ID, err)
		}
		existing.Kind = item.Kind
		existing.Description = item.Description
		existing.Quantity = item.Quantity
		existing.Days = item.Days
		existing.UnitPrice = item.UnitPrice
		existing.Discount = item.Discount
		existing.DistanceKm = item.DistanceKm
		existing.RatePerKm = item.RatePerKm
		existing.MealCount = item.MealCount
		existing.PricePerMeal = item.PricePerMeal
		existing.FixedAmount = item.FixedAmount
		existing.Total = ledger.ItemTotal(&existing)
		if err := tx.Save(&existing).Error; err != nil {
			return fmt.Errorf("save item: %w", err)
		}

		// the mirror is a partial copy, not a live view; re-sync it here
		var mirror models.BudgetAllocation
		err := tx.Where("mirror_of_item_id = ?", existing.ID).First(&mirror).Error
		if err == nil {
			copyMirrorFields(&mirror, &existing)
			mirror.Total = ledger.AllocationTotal(&mirror)
			if err := tx.Save(&mirror).Error; err != nil {
				return fmt.Errorf("re-sync mirror: %w", err)
			}
			if _, err := recomputeInternalTotal(tx, existing.BudgetID); err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("load mirror: %w", err)
		}

		_, err = recomputeClientTotal(tx, existing.BudgetID)
		return err
	})
}

// DeleteItem removes a client-side item together with its mirror
// allocation, then recomputes both sides.
func (s *Service) DeleteItem(itemID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var item models.BudgetItem
		if err := tx.First(&item, itemID).Error; err != nil {
			return fmt.Errorf("load item %d: %w", itemID, err)
		}
		if err := tx.Where("mirror_of_item_id = ?", itemID).
			Delete(&models.BudgetAllocation{}).Error; err != nil {
			return fmt.Errorf("delete mirror: %w", err)
		}
		if err := tx.Delete(&item).Error; err != nil {
			return fmt.Errorf("delete item: %w", err)
		}
		if _, err := recomputeClientTotal(tx, item.BudgetID); err != nil {
			return err
		}
		_, err := recomputeInternalTotal(tx, item.BudgetID)
		return err
	})
}

// AddAllocation creates an internal-side allocation and recomputes the
// internal total.
func (s *Service) AddAllocation(a *models.BudgetAllocation) error {
	if err := ledger.ValidateAllocation(a); err != nil {
		return err
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var section models.BudgetSection
		if err := tx.First(&section, a.SectionID).Error; err != nil {
			return fmt.Errorf("load section %d: %w", a.SectionID, err)
		}
		if section.Side != models.SideInternal || section.BudgetID != a.BudgetID {
			return fmt.Errorf("%w: section %d is not an internal section of budget %d", ledger.ErrValidation, a.SectionID, a.BudgetID)
		}
		a.Total = ledger.AllocationTotal(a)
		if err := tx.Create(a).Error; err != nil {
			return fmt.Errorf("create allocation: %w", err)
		}
		_, err := recomputeInternalTotal(tx, a.BudgetID)
		return err
	})
}

// UpdateAllocation saves edits to an allocation and recomputes the
// internal total.
func (s *Service) UpdateAllocation(a *models.BudgetAllocation) error {
	if err := ledger.ValidateAllocation(a); err != nil {
		return err
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.BudgetAllocation
		if err := tx.First(&existing, a.ID).Error; err != nil {
			return fmt.Errorf("load allocation %d: %w", a.ID, err)
		}
		existing.Kind = a.Kind
		existing.Description = a.Description
		existing.Beneficiary = a.Beneficiary
		existing.SupplierID = a.SupplierID
		existing.Quantity = a.Quantity
		existing.Days = a.Days
		existing.UnitRate = a.UnitRate
		existing.BaseAmount = a.BaseAmount
		existing.Percentage = a.Percentage
		existing.DistanceKm = a.DistanceKm
		existing.RatePerKm = a.RatePerKm
		existing.MealCount = a.MealCount
		existing.PricePerMeal = a.PricePerMeal
		existing.FixedAmount = a.FixedAmount
		existing.Total = ledger.AllocationTotal(&existing)
		if err := tx.Save(&existing).Error; err != nil {
			return fmt.Errorf("save allocation: %w", err)
		}
		_, err := recomputeInternalTotal(tx, existing.BudgetID)
		return err
	})
}

// DeleteAllocation removes an allocation and recomputes the internal
// total.
func (s *Service) DeleteAllocation(allocID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var a models.BudgetAllocation
		if err := tx.First(&a, allocID).Error; err != nil {
			return fmt.Errorf("load allocation %d: %w", allocID, err)
		}
		if err := tx.Delete(&a).Error; err != nil {
			return fmt.Errorf("delete allocation: %w", err)
		}
		_, err := recomputeInternalTotal(tx, a.BudgetID)
		return err
	})
}
