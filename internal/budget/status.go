package budget

import (
	"fmt"

	"github.com/brun04maral/agora-contabilidade-sub000/internal/ledger"
	"github.com/brun04maral/agora-contabilidade-sub000/internal/models"
	"github.com/brun04maral/agora-contabilidade-sub000/internal/util"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// standard commission rates applied by AutoGenerateCommissions
var (
	salesCommissionPct   = decimal.RequireFromString("5")
	companyCommissionPct = decimal.RequireFromString("10")
)

// Approve moves a draft budget to approved. Both sides are recomputed
// first; when they disagree by a cent or more the transition is
// refused and the status left untouched.
func (s *Service) Approve(budgetID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var b models.Budget
		if err := tx.First(&b, budgetID).Error; err != nil {
			return fmt.Errorf("load budget %d: %w", budgetID, err)
		}
		if b.Status != models.BudgetDraft {
			return fmt.Errorf("%w: cannot approve a %s budget", ErrBadTransition, b.Status)
		}

		client, err := recomputeClientTotal(tx, budgetID)
		if err != nil {
			return err
		}
		internal, err := recomputeInternalTotal(tx, budgetID)
		if err != nil {
			return err
		}
		if !util.WithinCent(client.Total, internal.Total) {
			return fmt.Errorf("%w: client %s vs internal %s", ErrUnbalanced,
				client.Total.StringFixed(2), internal.Total.StringFixed(2))
		}

		return tx.Model(&b).Update("status", models.BudgetApproved).Error
	})
}

// Reject can happen at any time from draft or approved.
func (s *Service) Reject(budgetID uint) error {
	return s.transition(budgetID, models.BudgetRejected, models.BudgetDraft, models.BudgetApproved)
}

// Reopen returns a rejected budget to draft, the only way out of the
// rejected status.
func (s *Service) Reopen(budgetID uint) error {
	return s.transition(budgetID, models.BudgetDraft, models.BudgetRejected)
}

func (s *Service) transition(budgetID uint, to models.BudgetStatus, from ...models.BudgetStatus) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var b models.Budget
		if err := tx.First(&b, budgetID).Error; err != nil {
			return fmt.Errorf("load budget %d: %w", budgetID, err)
		}
		allowed := false
		for _, f := range from {
			if b.Status == f {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Errorf("%w: %s -> %s", ErrBadTransition, b.Status, to)
		}
		return tx.Model(&b).Update("status", to).Error
	})
}

// AutoGenerateCommissions replaces the budget's commission allocations
// with the two standard ones: 5% sales commission to the budget owner
// and 10% company commission, both on the current client total.
func (s *Service) AutoGenerateCommissions(budgetID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var b models.Budget
		if err := tx.First(&b, budgetID).Error; err != nil {
			return fmt.Errorf("load budget %d: %w", budgetID, err)
		}

		// commission base is the up-to-date client total
		client, err := recomputeClientTotal(tx, budgetID)
		if err != nil {
			return err
		}

		var section models.BudgetSection
		if err := tx.Where("budget_id = ? AND side = ?", budgetID, models.SideInternal).
			Order("position asc").First(&section).Error; err != nil {
			return fmt.Errorf("load internal section: %w", err)
		}

		if err := tx.Where("budget_id = ? AND kind = ?", budgetID, models.AllocCommission).
			Delete(&models.BudgetAllocation{}).Error; err != nil {
			return fmt.Errorf("remove old commissions: %w", err)
		}

		commissions := []models.BudgetAllocation{
			{
				BudgetID: budgetID, SectionID: section.ID, Kind: models.AllocCommission,
				Description: "Sales commission", Beneficiary: string(b.OwnerPartner),
				BaseAmount: client.Total, Percentage: salesCommissionPct,
			},
			{
				BudgetID: budgetID, SectionID: section.ID, Kind: models.AllocCommission,
				Description: "Company commission", Beneficiary: models.CompanyCode,
				BaseAmount: client.Total, Percentage: companyCommissionPct,
			},
		}
		for i := range commissions {
			commissions[i].Total = ledger.AllocationTotal(&commissions[i])
			if err := tx.Create(&commissions[i]).Error; err != nil {
				return fmt.Errorf("create commission: %w", err)
			}
		}

		_, err = recomputeInternalTotal(tx, budgetID)
		return err
	})
}
