package database

import (
	"fmt"

	"github.com/brun04maral/agora-contabilidade-sub000/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Client{},
		&models.Supplier{},
		&models.Project{},
		&models.Expense{},
		&models.ExpenseReport{},
		&models.ExpenseReportLine{},
		&models.Budget{},
		&models.BudgetSection{},
		&models.BudgetItem{},
		&models.BudgetAllocation{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
