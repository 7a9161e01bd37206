package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BudgetStatus string

const (
	BudgetDraft    BudgetStatus = "draft"
	BudgetApproved BudgetStatus = "approved"
	BudgetRejected BudgetStatus = "rejected"
)

// Budget holds the client-facing proposal and the internal repartition
// of the same job. Both totals are derived; approval requires them to
// agree within one cent.
type Budget struct {
	ID           uint         `gorm:"primaryKey"`
	Reference    string       `gorm:"size:64"`
	OwnerPartner PartnerCode  `gorm:"size:16;index;not null"`
	ClientID     *uint        `gorm:"index"`
	Status       BudgetStatus `gorm:"size:16;index;not null;default:draft"`

	ClientTotal   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	InternalTotal decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Client      Client             `gorm:"constraint:OnDelete:SET NULL"`
	Sections    []BudgetSection    `gorm:"constraint:OnDelete:CASCADE"`
	Items       []BudgetItem       `gorm:"constraint:OnDelete:CASCADE"`
	Allocations []BudgetAllocation `gorm:"constraint:OnDelete:CASCADE"`
}

type SectionSide string

const (
	SideClient   SectionSide = "client"
	SideInternal SectionSide = "internal"
)

type SectionKind string

const (
	SectionServices  SectionKind = "services"
	SectionEquipment SectionKind = "equipment"
	SectionSubgroup  SectionKind = "subgroup"
	SectionExpenses  SectionKind = "expenses"
)

// BudgetSection groups items (client side) or allocations (internal
// side). Nesting is one level deep, used for equipment sub-groups.
type BudgetSection struct {
	ID        uint        `gorm:"primaryKey"`
	BudgetID  uint        `gorm:"index;not null"`
	Side      SectionSide `gorm:"size:16;index;not null"`
	Kind      SectionKind `gorm:"size:16;not null"`
	Name      string      `gorm:"size:64;not null"`
	ParentID  *uint       `gorm:"index"`
	Position  int         `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ItemKind string

const (
	ItemService   ItemKind = "service"
	ItemEquipment ItemKind = "equipment"
	ItemTransport ItemKind = "transport"
	ItemMeal      ItemKind = "meal"
	ItemOther     ItemKind = "other"
)

// IsExpenseKind reports whether the item may be mirrored to the
// internal side as an expense.
func (k ItemKind) IsExpenseKind() bool {
	return k == ItemTransport || k == ItemMeal || k == ItemOther
}

// BudgetItem is a client-side proposal line. Each kind uses its own
// subset of fields; Total is always derived from them.
type BudgetItem struct {
	ID          uint     `gorm:"primaryKey"`
	BudgetID    uint     `gorm:"index;not null"`
	SectionID   uint     `gorm:"index;not null"`
	Kind        ItemKind `gorm:"size:16;not null"`
	Description string   `gorm:"size:255"`

	// service / equipment
	Quantity  decimal.Decimal `gorm:"type:decimal(8,2);not null;default:0"`
	Days      decimal.Decimal `gorm:"type:decimal(8,2);not null;default:0"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Discount  decimal.Decimal `gorm:"type:decimal(5,4);not null;default:0"` // fraction in [0,1]

	// transport
	DistanceKm int             `gorm:"not null;default:0"`
	RatePerKm  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`

	// meal
	MealCount    int             `gorm:"not null;default:0"`
	PricePerMeal decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`

	// other
	FixedAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`

	Total     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Position  int             `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type AllocationKind string

const (
	AllocService         AllocationKind = "service"
	AllocEquipment       AllocationKind = "equipment"
	AllocMirroredExpense AllocationKind = "mirrored_expense"
	AllocCommission      AllocationKind = "commission"
)

// BudgetAllocation is an internal-side repartition line. Beneficiary
// is a partner code, the company code, or a supplier reference. A
// mirrored expense keeps a non-owning back-reference to the client
// item it copies.
type BudgetAllocation struct {
	ID          uint           `gorm:"primaryKey"`
	BudgetID    uint           `gorm:"index;not null"`
	SectionID   uint           `gorm:"index;not null"`
	Kind        AllocationKind `gorm:"size:16;not null"`
	Description string         `gorm:"size:255"`
	Beneficiary string         `gorm:"size:32;not null;default:company"`
	SupplierID  *uint          `gorm:"index"`

	// service / equipment (no discount on the internal side)
	Quantity decimal.Decimal `gorm:"type:decimal(8,2);not null;default:0"`
	Days     decimal.Decimal `gorm:"type:decimal(8,2);not null;default:0"`
	UnitRate decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`

	// commission
	BaseAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Percentage decimal.Decimal `gorm:"type:decimal(8,3);not null;default:0"` // up to 3 decimals

	// mirrored expense fields, partial copy of the client item
	DistanceKm     int             `gorm:"not null;default:0"`
	RatePerKm      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	MealCount      int             `gorm:"not null;default:0"`
	PricePerMeal   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	FixedAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	MirrorOfItemID *uint           `gorm:"index"`

	Total     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Position  int             `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
