package models

import "time"

// AuditLog records every mutating API request.
type AuditLog struct {
	ID        uint   `gorm:"primaryKey"`
	Method    string `gorm:"size:8"`
	Path      string `gorm:"size:255"`
	Action    string `gorm:"type:text"`
	IP        string `gorm:"size:64"`
	UserAgent string `gorm:"size:255"`
	CreatedAt time.Time
}
