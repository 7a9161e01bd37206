package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExpenseCategory decides which balance bucket an expense lands in
// once paid: fixed costs are split between partners, personal
// categories weigh on a single partner.
type ExpenseCategory string

const (
	ExpenseFixedMonthly ExpenseCategory = "fixed_monthly"
	ExpensePersonalA    ExpenseCategory = "personal_partner_a"
	ExpensePersonalB    ExpenseCategory = "personal_partner_b"
	ExpenseEquipment    ExpenseCategory = "equipment"
	ExpenseProject      ExpenseCategory = "project"
)

type ExpenseState string

const (
	ExpensePending ExpenseState = "pending"
	ExpenseOverdue ExpenseState = "overdue"
	ExpensePaid    ExpenseState = "paid"
)

type Expense struct {
	ID            uint            `gorm:"primaryKey"`
	Description   string          `gorm:"size:255;not null"`
	Category      ExpenseCategory `gorm:"size:32;index;not null"`
	State         ExpenseState    `gorm:"size:16;index;not null;default:pending"`
	AmountExclTax decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	AmountInclTax decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DueDate       *time.Time      `gorm:"index"`
	PaidAt        *time.Time
	SupplierID    *uint `gorm:"index"`
	ProjectID     *uint `gorm:"index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`

	Supplier Supplier `gorm:"constraint:OnDelete:SET NULL"`
	Project  Project  `gorm:"constraint:OnDelete:SET NULL"`
}

// PersonalExpenseCategory maps a partner to their personal category.
func PersonalExpenseCategory(p PartnerCode) ExpenseCategory {
	if p == PartnerA {
		return ExpensePersonalA
	}
	return ExpensePersonalB
}
