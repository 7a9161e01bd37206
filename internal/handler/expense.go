package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/brun04maral/agora-contabilidade-sub000/internal/models"
	"github.com/brun04maral/agora-contabilidade-sub000/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ExpenseHandler struct {
	DB *gorm.DB
}

func NewExpenseHandler(db *gorm.DB) *ExpenseHandler {
	return &ExpenseHandler{DB: db}
}

type expenseReq struct {
	Description   string          `json:"description" binding:"required,max=255"`
	Category      string          `json:"category" binding:"required,oneof=fixed_monthly personal_partner_a personal_partner_b equipment project"`
	AmountExclTax decimal.Decimal `json:"amount_excl_tax"`
	AmountInclTax decimal.Decimal `json:"amount_incl_tax"`
	DueDate       string          `json:"due_date"` // YYYY-MM-DD
	SupplierID    *uint           `json:"supplier_id"`
	ProjectID     *uint           `json:"project_id"`
}

func (r *expenseReq) apply(e *models.Expense) string {
	for _, d := range []decimal.Decimal{r.AmountExclTax, r.AmountInclTax} {
		if err := util.ValidateAmount(d); err != nil {
			return err.Error()
		}
	}
	e.Description = r.Description
	e.Category = models.ExpenseCategory(r.Category)
	e.AmountExclTax = r.AmountExclTax
	e.AmountInclTax = r.AmountInclTax
	e.SupplierID = r.SupplierID
	e.ProjectID = r.ProjectID
	if r.DueDate != "" {
		t, err := time.Parse("2006-01-02", r.DueDate)
		if err != nil {
			return "due date must be YYYY-MM-DD"
		}
		e.DueDate = &t
	}
	return ""
}

func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	var req expenseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	expense := models.Expense{State: models.ExpensePending}
	if msg := req.apply(&expense); msg != "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, msg)
		return
	}
	if err := h.DB.Create(&expense).Error; err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"expense": expense})
}

func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	q := h.DB.Model(&models.Expense{})
	if cat := c.Query("category"); cat != "" {
		q = q.Where("category = ?", cat)
	}
	if st := c.Query("state"); st != "" {
		q = q.Where("state = ?", st)
	}
	var expenses []models.Expense
	if err := q.Order("created_at desc").Find(&expenses).Error; err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"expenses": expenses})
}

func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}
	var req expenseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	var expense models.Expense
	if err := h.DB.First(&expense, id).Error; err != nil {
		fail(c, err)
		return
	}
	if msg := req.apply(&expense); msg != "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, msg)
		return
	}
	if err := h.DB.Save(&expense).Error; err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"expense": expense})
}

type expenseStateReq struct {
	State string `json:"state" binding:"required,oneof=pending overdue paid"`
}

// SetExpenseState drives the expense lifecycle. Moving to paid is the
// moment the expense starts counting against a partner's balance.
func (h *ExpenseHandler) SetExpenseState(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}
	var req expenseStateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	var expense models.Expense
	if err := h.DB.First(&expense, id).Error; err != nil {
		fail(c, err)
		return
	}
	expense.State = models.ExpenseState(req.State)
	if expense.State == models.ExpensePaid && expense.PaidAt == nil {
		now := time.Now()
		expense.PaidAt = &now
	}
	if err := h.DB.Save(&expense).Error; err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"expense": expense})
}

func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}
	if err := h.DB.Delete(&models.Expense{}, id).Error; err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "deleted"})
}
