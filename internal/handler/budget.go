package handler

import (
	"net/http"
	"strconv"

	"github.com/brun04maral/agora-contabilidade-sub000/internal/budget"
	"github.com/brun04maral/agora-contabilidade-sub000/internal/models"
	"github.com/brun04maral/agora-contabilidade-sub000/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BudgetHandler struct {
	DB      *gorm.DB
	Service *budget.Service
}

func NewBudgetHandler(db *gorm.DB) *BudgetHandler {
	return &BudgetHandler{DB: db, Service: budget.NewService(db)}
}

type createBudgetReq struct {
	OwnerPartner string `json:"owner_partner" binding:"required,oneof=partner_a partner_b"`
	ClientID     *uint  `json:"client_id"`
	Reference    string `json:"reference" binding:"max=64"`
}

func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	var req createBudgetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	b, err := h.Service.Create(models.PartnerCode(req.OwnerPartner), req.ClientID, req.Reference)
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"budget": b})
}

func (h *BudgetHandler) GetBudget(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}
	var b models.Budget
	if err := h.DB.
		Preload("Sections", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position asc, id asc") }).
		Preload("Allocations", func(db *gorm.DB) *gorm.DB { return db.Order("position asc, id asc") }).
		First(&b, id).Error; err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{
		"budget":                   b,
		"client_total_formatted":   util.FormatEUR(b.ClientTotal),
		"internal_total_formatted": util.FormatEUR(b.InternalTotal),
	})
}

func (h *BudgetHandler) ListBudgets(c *gin.Context) {
	q := h.DB.Model(&models.Budget{})
	if st := c.Query("status"); st != "" {
		q = q.Where("status = ?", st)
	}
	var budgets []models.Budget
	if err := q.Order("created_at desc").Find(&budgets).Error; err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"budgets": budgets})
}

// ---------- items ----------

type budgetItemReq struct {
	SectionID    uint            `json:"section_id" binding:"required"`
	Kind         string          `json:"kind" binding:"required,oneof=service equipment transport meal other"`
	Description  string          `json:"description" binding:"max=255"`
	Quantity     decimal.Decimal `json:"quantity"`
	Days         decimal.Decimal `json:"days"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Discount     decimal.Decimal `json:"discount"`
	DistanceKm   int             `json:"distance_km"`
	RatePerKm    decimal.Decimal `json:"rate_per_km"`
	MealCount    int             `json:"meal_count"`
	PricePerMeal decimal.Decimal `json:"price_per_meal"`
	FixedAmount  decimal.Decimal `json:"fixed_amount"`
}

func (r *budgetItemReq) toItem(budgetID uint) models.BudgetItem {
	return models.BudgetItem{
		BudgetID:     budgetID,
		SectionID:    r.SectionID,
		Kind:         models.ItemKind(r.Kind),
		Description:  r.Description,
		Quantity:     r.Quantity,
		Days:         r.Days,
		UnitPrice:    r.UnitPrice,
		Discount:     r.Discount,
		DistanceKm:   r.DistanceKm,
		RatePerKm:    r.RatePerKm,
		MealCount:    r.MealCount,
		PricePerMeal: r.PricePerMeal,
		FixedAmount:  r.FixedAmount,
	}
}

func (h *BudgetHandler) AddItem(c *gin.Context) {
	budgetID, err := strconv.Atoi(c.Param("id"))
	if err != nil || budgetID <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}
	var req budgetItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	item := req.toItem(uint(budgetID))
	if err := h.Service.AddItem(&item); err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"item": item})
}

func (h *BudgetHandler) UpdateItem(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("itemId"))
	if err != nil || itemID <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}
	var req budgetItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	item := req.toItem(0)
	item.ID = uint(itemID)
	if err := h.Service.UpdateItem(&item); err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "updated"})
}

func (h *BudgetHandler) DeleteItem(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("itemId"))
	if err != nil || itemID <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}
	if err := h.Service.DeleteItem(uint(itemID)); err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "deleted"})
}

// ---------- allocations ----------

type allocationReq struct {
	SectionID    uint            `json:"section_id" binding:"required"`
	Kind         string          `json:"kind" binding:"required,oneof=service equipment mirrored_expense commission"`
	Description  string          `json:"description" binding:"max=255"`
	Beneficiary  string          `json:"beneficiary" binding:"required,max=32"`
	SupplierID   *uint           `json:"supplier_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Days         decimal.Decimal `json:"days"`
	UnitRate     decimal.Decimal `json:"unit_rate"`
	BaseAmount   decimal.Decimal `json:"base_amount"`
	Percentage   decimal.Decimal `json:"percentage"`
	DistanceKm   int             `json:"distance_km"`
	RatePerKm    decimal.Decimal `json:"rate_per_km"`
	MealCount    int             `json:"meal_count"`
	PricePerMeal decimal.Decimal `json:"price_per_meal"`
	FixedAmount  decimal.Decimal `json:"fixed_amount"`
}

func (r *allocationReq) toAllocation(budgetID uint) models.BudgetAllocation {
	return models.BudgetAllocation{
		BudgetID:     budgetID,
		SectionID:    r.SectionID,
		Kind:         models.AllocationKind(r.Kind),
		Description:  r.Description,
		Beneficiary:  r.Beneficiary,
		SupplierID:   r.SupplierID,
		Quantity:     r.Quantity,
		Days:         r.Days,
		UnitRate:     r.UnitRate,
		BaseAmount:   r.BaseAmount,
		Percentage:   r.Percentage,
		DistanceKm:   r.DistanceKm,
		RatePerKm:    r.RatePerKm,
		MealCount:    r.MealCount,
		PricePerMeal: r.PricePerMeal,
		FixedAmount:  r.FixedAmount,
	}
}

func (h *BudgetHandler) AddAllocation(c *gin.Context) {
	budgetID, err := strconv.Atoi(c.Param("id"))
	if err != nil || budgetID <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}
	var req allocationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	alloc := req.toAllocation(uint(budgetID))
	if err := h.Service.AddAllocation(&alloc); err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"allocation": alloc})
}

func (h *BudgetHandler) UpdateAllocation(c *gin.Context) {
	allocID, err := strconv.Atoi(c.Param("allocId"))
	if err != nil || allocID <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}
	var req allocationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	alloc := req.toAllocation(0)
	alloc.ID = uint(allocID)
	if err := h.Service.UpdateAllocation(&alloc); err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "updated"})
}

func (h *BudgetHandler) DeleteAllocation(c *gin.Context) {
	allocID, err := strconv.Atoi(c.Param("allocId"))
	if err != nil || allocID <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}
	if err := h.Service.DeleteAllocation(uint(allocID)); err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "deleted"})
}

// ---------- mirrors, totals, lifecycle ----------

type mirrorReq struct {
	ItemID    uint `json:"item_id" binding:"required"`
	SectionID uint `json:"section_id" binding:"required"`
}

func (h *BudgetHandler) MirrorExpense(c *gin.Context) {
	var req mirrorReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	mirror, err := h.Service.MirrorExpense(req.ItemID, req.SectionID)
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"allocation": mirror})
}

type mirrorSplitReq struct {
	ItemIDs   []uint `json:"item_ids" binding:"required"`
	SectionID uint   `json:"section_id" binding:"required"`
}

func (h *BudgetHandler) MirrorExpenseSplit(c *gin.Context) {
	var req mirrorSplitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	created, err := h.Service.MirrorExpenseSplit(req.ItemIDs, req.SectionID)
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"created": created})
}

func (h *BudgetHandler) RecomputeTotals(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}
	client, err := h.Service.RecomputeClientTotal(uint(id))
	if err != nil {
		fail(c, err)
		return
	}
	internal, err := h.Service.RecomputeInternalTotal(uint(id))
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{
		"client": util.Response{
			"partial_1": client.Partial1,
			"partial_2": client.Partial2,
			"total":     client.Total,
			"formatted": util.FormatEUR(client.Total),
		},
		"internal": util.Response{
			"by_kind":   internal.ByKind,
			"total":     internal.Total,
			"formatted": util.FormatEUR(internal.Total),
		},
		"balanced": util.WithinCent(client.Total, internal.Total),
	})
}

func (h *BudgetHandler) ValidateTotals(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}
	ok, err := h.Service.ValidateTotals(uint(id))
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"balanced": ok})
}

func (h *BudgetHandler) AutoGenerateCommissions(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}
	if err := h.Service.AutoGenerateCommissions(uint(id)); err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "commissions generated"})
}

func (h *BudgetHandler) Approve(c *gin.Context) {
	h.lifecycle(c, h.Service.Approve)
}

func (h *BudgetHandler) Reject(c *gin.Context) {
	h.lifecycle(c, h.Service.Reject)
}

func (h *BudgetHandler) Reopen(c *gin.Context) {
	h.lifecycle(c, h.Service.Reopen)
}

func (h *BudgetHandler) lifecycle(c *gin.Context, op func(uint) error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}
	if err := op(uint(id)); err != nil {
		fail(c, err)
		return
	}
	var b models.Budget
	if err := h.DB.First(&b, id).Error; err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"budget": b})
}
