package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProjectType decides how a project feeds the partner balances: a
// personal project counts in full for its partner, a company project
// only through the per-partner bonus fields.
type ProjectType string

const (
	ProjectCompany   ProjectType = "company"
	ProjectPersonalA ProjectType = "personal_partner_a"
	ProjectPersonalB ProjectType = "personal_partner_b"
)

// InvoiceState tracks the billing lifecycle of a project.
type InvoiceState string

const (
	InvoiceNotInvoiced InvoiceState = "not_invoiced"
	InvoiceInvoiced    InvoiceState = "invoiced"
	InvoiceReceived    InvoiceState = "received"
)

type Project struct {
	ID            uint            `gorm:"primaryKey"`
	Name          string          `gorm:"size:128;not null"`
	ClientID      *uint           `gorm:"index"`
	Type          ProjectType     `gorm:"size:32;index;not null;default:company"`
	InvoiceState  InvoiceState    `gorm:"size:16;index;not null;default:not_invoiced"`
	AmountExclTax decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	// bonuses only carry meaning on company-type projects
	BonusPartnerA decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	BonusPartnerB decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Notes         string          `gorm:"type:text"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`

	Client Client `gorm:"constraint:OnDelete:SET NULL"`
}

// PersonalProjectType maps a partner to their personal project type.
func PersonalProjectType(p PartnerCode) ProjectType {
	if p == PartnerA {
		return ProjectPersonalA
	}
	return ProjectPersonalB
}

// Bonus returns the bonus field belonging to the given partner.
func (pr *Project) Bonus(p PartnerCode) decimal.Decimal {
	if p == PartnerA {
		return pr.BonusPartnerA
	}
	return pr.BonusPartnerB
}
