package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReportState string

const (
	ReportPending ReportState = "pending"
	ReportPaid    ReportState = "paid"
)

// DisplacementType distinguishes which per-diem rate a line uses.
type DisplacementType string

const (
	DisplacementNational DisplacementType = "national"
	DisplacementForeign  DisplacementType = "foreign"
)

// ExpenseReport is a partner's per-diem/travel reimbursement claim.
// The four totals are derived from the lines and the report's own
// reference rates; they are written only by the ledger recompute and
// never edited directly.
type ExpenseReport struct {
	ID      uint        `gorm:"primaryKey"`
	Partner PartnerCode `gorm:"size:16;index;not null"`
	Month   string      `gorm:"size:7"` // YYYY-MM, display only
	State   ReportState `gorm:"size:16;index;not null;default:pending"`

	// reference rates; zero means not yet set, which blocks totals
	RateNational decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	RateForeign  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	RatePerKm    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`

	// derived totals
	TotalNational decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalForeign  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalDistance decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`

	PaidAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Lines []ExpenseReportLine `gorm:"constraint:OnDelete:CASCADE"`
}

// HasRates reports whether all three reference rates are set.
func (r *ExpenseReport) HasRates() bool {
	return r.RateNational.IsPositive() && r.RateForeign.IsPositive() && r.RatePerKm.IsPositive()
}

// ExpenseReportLine is one displacement on a report. Days are entered
// manually and may be fractional; distance is whole kilometres.
type ExpenseReportLine struct {
	ID              uint             `gorm:"primaryKey"`
	ExpenseReportID uint             `gorm:"index;not null"`
	Type            DisplacementType `gorm:"size:16;not null"`
	Description     string           `gorm:"size:255"`
	Days            decimal.Decimal  `gorm:"type:decimal(8,2);not null;default:0"`
	DistanceKm      int              `gorm:"not null;default:0"`
	Position        int              `gorm:"not null;default:0"`
	ProjectID       *uint            `gorm:"index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
