package models

import (
	"time"

	"gorm.io/gorm"
)

// Client is a customer the company produces for.
type Client struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:128;not null"`
	TaxNumber string `gorm:"size:32"`
	Email     string `gorm:"size:128"`
	Phone     string `gorm:"size:32"`
	Address   string `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// Supplier is an external provider (freelancers, rental houses, ...).
type Supplier struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:128;not null"`
	TaxNumber string `gorm:"size:32"`
	Email     string `gorm:"size:128"`
	Phone     string `gorm:"size:32"`
	Activity  string `gorm:"size:128"` // e.g. sound engineer, camera rental
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
