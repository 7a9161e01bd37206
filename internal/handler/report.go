package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/brun04maral/agora-contabilidade-sub000/internal/ledger"
	"github.com/brun04maral/agora-contabilidade-sub000/internal/models"
	"github.com/brun04maral/agora-contabilidade-sub000/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReportHandler serves expense reports. All line mutations go through
// the ledger line manager so the stored totals always match the lines.
type ReportHandler struct {
	DB    *gorm.DB
	Lines *ledger.LineManager
}

func NewReportHandler(db *gorm.DB) *ReportHandler {
	return &ReportHandler{DB: db, Lines: ledger.NewLineManager(db)}
}

type createReportReq struct {
	Partner      string          `json:"partner" binding:"required,oneof=partner_a partner_b"`
	Month        string          `json:"month" binding:"max=7"`
	RateNational decimal.Decimal `json:"rate_national"`
	RateForeign  decimal.Decimal `json:"rate_foreign"`
	RatePerKm    decimal.Decimal `json:"rate_per_km"`
}

func (h *ReportHandler) CreateReport(c *gin.Context) {
	var req createReportReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	report := models.ExpenseReport{
		Partner:      models.PartnerCode(req.Partner),
		Month:        req.Month,
		State:        models.ReportPending,
		RateNational: req.RateNational,
		RateForeign:  req.RateForeign,
		RatePerKm:    req.RatePerKm,
	}
	if err := h.DB.Create(&report).Error; err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"report": reportResp(&report)})
}

func (h *ReportHandler) GetReport(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}
	var report models.ExpenseReport
	if err := h.DB.Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).First(&report, id).Error; err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"report": reportResp(&report), "lines": report.Lines})
}

func (h *ReportHandler) ListReports(c *gin.Context) {
	q := h.DB.Model(&models.ExpenseReport{})
	if p := c.Query("partner"); p != "" {
		q = q.Where("partner = ?", p)
	}
	if st := c.Query("state"); st != "" {
		q = q.Where("state = ?", st)
	}
	var reports []models.ExpenseReport
	if err := q.Order("created_at desc").Find(&reports).Error; err != nil {
		fail(c, err)
		return
	}
	resp := make([]util.Response, 0, len(reports))
	for i := range reports {
		resp = append(resp, reportResp(&reports[i]))
	}
	util.Success(c, util.Response{"reports": resp})
}

type setRatesReq struct {
	RateNational decimal.Decimal `json:"rate_national"`
	RateForeign  decimal.Decimal `json:"rate_foreign"`
	RatePerKm    decimal.Decimal `json:"rate_per_km"`
}

// SetRates updates the report's reference rates; totals follow in the
// same transaction.
func (h *ReportHandler) SetRates(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}
	var req setRatesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	report := models.ExpenseReport{
		ID:           uint(id),
		RateNational: req.RateNational,
		RateForeign:  req.RateForeign,
		RatePerKm:    req.RatePerKm,
	}
	if err := h.Lines.SetRates(&report); err != nil {
		fail(c, err)
		return
	}
	var saved models.ExpenseReport
	if err := h.DB.First(&saved, id).Error; err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"report": reportResp(&saved)})
}

// MarkPaid settles a report. Only paid reports weigh on the partner's
// balance.
func (h *ReportHandler) MarkPaid(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}
	var report models.ExpenseReport
	if err := h.DB.First(&report, id).Error; err != nil {
		fail(c, err)
		return
	}
	now := time.Now()
	report.State = models.ReportPaid
	report.PaidAt = &now
	if err := h.DB.Model(&report).Select("state", "paid_at").Updates(&report).Error; err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"report": reportResp(&report)})
}

func (h *ReportHandler) DeleteReport(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}
	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("expense_report_id = ?", id).Delete(&models.ExpenseReportLine{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ExpenseReport{}, id).Error
	}); err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "deleted"})
}

// ---------- lines ----------

type lineReq struct {
	Type        string          `json:"type" binding:"required,oneof=national foreign"`
	Description string          `json:"description" binding:"max=255"`
	Days        decimal.Decimal `json:"days"`
	DistanceKm  int             `json:"distance_km"`
	ProjectID   *uint           `json:"project_id"`
}

func (h *ReportHandler) AddLine(c *gin.Context) {
	reportID, err := strconv.Atoi(c.Param("id"))
	if err != nil || reportID <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}
	var req lineReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	line := models.ExpenseReportLine{
		ExpenseReportID: uint(reportID),
		Type:            models.DisplacementType(req.Type),
		Description:     req.Description,
		Days:            req.Days,
		DistanceKm:      req.DistanceKm,
		ProjectID:       req.ProjectID,
	}
	if err := h.Lines.AddLine(&line); err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"line": line})
}

func (h *ReportHandler) UpdateLine(c *gin.Context) {
	lineID, err := strconv.Atoi(c.Param("lineId"))
	if err != nil || lineID <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}
	var req lineReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	line := models.ExpenseReportLine{
		ID:          uint(lineID),
		Type:        models.DisplacementType(req.Type),
		Description: req.Description,
		Days:        req.Days,
		DistanceKm:  req.DistanceKm,
		ProjectID:   req.ProjectID,
	}
	if err := h.Lines.UpdateLine(&line); err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "updated"})
}

func (h *ReportHandler) DeleteLine(c *gin.Context) {
	lineID, err := strconv.Atoi(c.Param("lineId"))
	if err != nil || lineID <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}
	if err := h.Lines.DeleteLine(uint(lineID)); err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "deleted"})
}

type reorderReq struct {
	OrderedIDs []uint `json:"ordered_ids" binding:"required"`
}

func (h *ReportHandler) ReorderLines(c *gin.Context) {
	reportID, err := strconv.Atoi(c.Param("id"))
	if err != nil || reportID <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}
	var req reorderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	if err := h.Lines.ReorderLines(uint(reportID), req.OrderedIDs); err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "reordered"})
}

// reportResp returns the raw decimals plus the figures formatted the
// way the screens display them.
func reportResp(r *models.ExpenseReport) util.Response {
	return util.Response{
		"id":              r.ID,
		"partner":         r.Partner,
		"month":           r.Month,
		"state":           r.State,
		"rate_national":   r.RateNational,
		"rate_foreign":    r.RateForeign,
		"rate_per_km":     r.RatePerKm,
		"total_national":  r.TotalNational,
		"total_foreign":   r.TotalForeign,
		"total_distance":  r.TotalDistance,
		"total_amount":    r.TotalAmount,
		"total_formatted": util.FormatEUR(r.TotalAmount),
	}
}
