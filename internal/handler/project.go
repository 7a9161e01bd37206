package handler

import (
	"net/http"
	"strconv"

	"github.com/brun04maral/agora-contabilidade-sub000/internal/models"
	"github.com/brun04maral/agora-contabilidade-sub000/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	DB *gorm.DB
}

func NewProjectHandler(db *gorm.DB) *ProjectHandler {
	return &ProjectHandler{DB: db}
}

type projectReq struct {
	Name          string          `json:"name" binding:"required,max=128"`
	ClientID      *uint           `json:"client_id"`
	Type          string          `json:"type" binding:"required,oneof=company personal_partner_a personal_partner_b"`
	InvoiceState  string          `json:"invoice_state" binding:"omitempty,oneof=not_invoiced invoiced received"`
	AmountExclTax decimal.Decimal `json:"amount_excl_tax"`
	BonusPartnerA decimal.Decimal `json:"bonus_partner_a"`
	BonusPartnerB decimal.Decimal `json:"bonus_partner_b"`
	Notes         string          `json:"notes"`
}

func (r *projectReq) validate() string {
	for _, d := range []decimal.Decimal{r.AmountExclTax, r.BonusPartnerA, r.BonusPartnerB} {
		if err := util.ValidateAmount(d); err != nil {
			return err.Error()
		}
	}
	// bonuses only make sense on company projects
	if r.Type != string(models.ProjectCompany) &&
		(r.BonusPartnerA.IsPositive() || r.BonusPartnerB.IsPositive()) {
		return "bonuses are only allowed on company projects"
	}
	return ""
}

func (r *projectReq) apply(p *models.Project) {
	p.Name = r.Name
	p.ClientID = r.ClientID
	p.Type = models.ProjectType(r.Type)
	if r.InvoiceState != "" {
		p.InvoiceState = models.InvoiceState(r.InvoiceState)
	}
	p.AmountExclTax = r.AmountExclTax
	p.BonusPartnerA = r.BonusPartnerA
	p.BonusPartnerB = r.BonusPartnerB
	p.Notes = r.Notes
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req projectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	if msg := req.validate(); msg != "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, msg)
		return
	}
	project := models.Project{InvoiceState: models.InvoiceNotInvoiced}
	req.apply(&project)
	if err := h.DB.Create(&project).Error; err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"project": project})
}

func (h *ProjectHandler) ListProjects(c *gin.Context) {
	q := h.DB.Model(&models.Project{})
	if t := c.Query("type"); t != "" {
		q = q.Where("type = ?", t)
	}
	if st := c.Query("invoice_state"); st != "" {
		q = q.Where("invoice_state = ?", st)
	}
	var projects []models.Project
	if err := q.Order("created_at desc").Find(&projects).Error; err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"projects": projects})
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}
	var req projectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	if msg := req.validate(); msg != "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, msg)
		return
	}
	var project models.Project
	if err := h.DB.First(&project, id).Error; err != nil {
		fail(c, err)
		return
	}
	req.apply(&project)
	if err := h.DB.Save(&project).Error; err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"project": project})
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}
	if err := h.DB.Delete(&models.Project{}, id).Error; err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "deleted"})
}
