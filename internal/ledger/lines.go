package ledger

import (
	"fmt"

	"github.com/brun04maral/agora-contabilidade-sub000/internal/models"

	"gorm.io/gorm"
)

// LineManager is the only writer of expense-report lines. Every
// mutation and the recompute of the owning report commit as one
// transaction, so stored totals can never be observed out of step with
// the lines.
type LineManager struct {
	DB *gorm.DB
}

func NewLineManager(db *gorm.DB) *LineManager {
	return &LineManager{DB: db}
}

// AddLine validates and appends a line, recomputing the parent totals
// in the same transaction.
func (m *LineManager) AddLine(line *models.ExpenseReportLine) error {
	if err := ValidateLine(line); err != nil {
		return err
	}
	return m.DB.Transaction(func(tx *gorm.DB) error {
		var report models.ExpenseReport
		if err := tx.First(&report, line.ExpenseReportID).Error; err != nil {
			return fmt.Errorf("load report %d: %w", line.ExpenseReportID, err)
		}

		// append at the end of the sibling order
		var maxPos int
		row := tx.Model(&models.ExpenseReportLine{}).
			Where("expense_report_id = ?", line.ExpenseReportID).
			Select("COALESCE(MAX(position), 0)").Row()
		if err := row.Scan(&maxPos); err != nil {
			return fmt.Errorf("read max position: %w", err)
		}
		line.Position = maxPos + 1

		if err := tx.Create(line).Error; err != nil {
			return fmt.Errorf("create line: %w", err)
		}
		_, err := RecomputeReport(tx, line.ExpenseReportID)
		return err
	})
}

// UpdateLine saves edits to an existing line and recomputes the parent.
func (m *LineManager) UpdateLine(line *models.ExpenseReportLine) error {
	if err := ValidateLine(line); err != nil {
		return err
	}
	return m.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.ExpenseReportLine
		if err := tx.First(&existing, line.ID).Error; err != nil {
			return fmt.Errorf("load line %d: %w", line.ID, err)
		}
		existing.Type = line.Type
		existing.Description = line.Description
		existing.Days = line.Days
		existing.DistanceKm = line.DistanceKm
		existing.ProjectID = line.ProjectID
		if err := tx.Save(&existing).Error; err != nil {
			return fmt.Errorf("save line: %w", err)
		}
		_, err := RecomputeReport(tx, existing.ExpenseReportID)
		return err
	})
}

// DeleteLine removes a line and recomputes the parent.
func (m *LineManager) DeleteLine(lineID uint) error {
	return m.DB.Transaction(func(tx *gorm.DB) error {
		var line models.ExpenseReportLine
		if err := tx.First(&line, lineID).Error; err != nil {
			return fmt.Errorf("load line %d: %w", lineID, err)
		}
		if err := tx.Delete(&line).Error; err != nil {
			return fmt.Errorf("delete line: %w", err)
		}
		_, err := RecomputeReport(tx, line.ExpenseReportID)
		return err
	})
}

// ReorderLines renumbers the sibling positions of a report's lines to
// match orderedIDs. Ordering has no monetary effect, so this never
// recomputes totals.
func (m *LineManager) ReorderLines(reportID uint, orderedIDs []uint) error {
	return m.DB.Transaction(func(tx *gorm.DB) error {
		for pos, id := range orderedIDs {
			res := tx.Model(&models.ExpenseReportLine{}).
				Where("id = ? AND expense_report_id = ?", id, reportID).
				Update("position", pos+1)
			if res.Error != nil {
				return fmt.Errorf("renumber line %d: %w", id, res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: line %d does not belong to report %d", ErrValidation, id, reportID)
			}
		}
		return nil
	})
}

// SetRates updates a report's reference rates and recomputes its
// totals. A report that only now received its rates gets totaled for
// the first time here.
func (m *LineManager) SetRates(report *models.ExpenseReport) error {
	if report.RateNational.IsNegative() || report.RateForeign.IsNegative() || report.RatePerKm.IsNegative() {
		return fmt.Errorf("%w: reference rates must not be negative", ErrValidation)
	}
	return m.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ExpenseReport{ID: report.ID}).
			Select("rate_national", "rate_foreign", "rate_per_km").
			Updates(report).Error; err != nil {
			return fmt.Errorf("save rates: %w", err)
		}
		_, err := RecomputeReport(tx, report.ID)
		return err
	})
}
