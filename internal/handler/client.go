package handler

import (
	"net/http"
	"strconv"

	"github.com/brun04maral/agora-contabilidade-sub000/internal/models"
	"github.com/brun04maral/agora-contabilidade-sub000/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ClientHandler serves the client and supplier address books.
type ClientHandler struct {
	DB *gorm.DB
}

func NewClientHandler(db *gorm.DB) *ClientHandler {
	return &ClientHandler{DB: db}
}

type clientReq struct {
	Name      string `json:"name" binding:"required,max=128"`
	TaxNumber string `json:"tax_number" binding:"max=32"`
	Email     string `json:"email" binding:"max=128"`
	Phone     string `json:"phone" binding:"max=32"`
	Address   string `json:"address" binding:"max=255"`
}

func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req clientReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	client := models.Client{
		Name: req.Name, TaxNumber: req.TaxNumber,
		Email: req.Email, Phone: req.Phone, Address: req.Address,
	}
	if err := h.DB.Create(&client).Error; err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"client": client})
}

func (h *ClientHandler) ListClients(c *gin.Context) {
	var clients []models.Client
	if err := h.DB.Order("name asc").Find(&clients).Error; err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"clients": clients})
}

func (h *ClientHandler) UpdateClient(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}
	var req clientReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	var client models.Client
	if err := h.DB.First(&client, id).Error; err != nil {
		fail(c, err)
		return
	}
	client.Name = req.Name
	client.TaxNumber = req.TaxNumber
	client.Email = req.Email
	client.Phone = req.Phone
	client.Address = req.Address
	if err := h.DB.Save(&client).Error; err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"client": client})
}

func (h *ClientHandler) DeleteClient(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}
	if err := h.DB.Delete(&models.Client{}, id).Error; err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "deleted"})
}

type supplierReq struct {
	Name      string `json:"name" binding:"required,max=128"`
	TaxNumber string `json:"tax_number" binding:"max=32"`
	Email     string `json:"email" binding:"max=128"`
	Phone     string `json:"phone" binding:"max=32"`
	Activity  string `json:"activity" binding:"max=128"`
}

func (h *ClientHandler) CreateSupplier(c *gin.Context) {
	var req supplierReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	supplier := models.Supplier{
		Name: req.Name, TaxNumber: req.TaxNumber,
		Email: req.Email, Phone: req.Phone, Activity: req.Activity,
	}
	if err := h.DB.Create(&supplier).Error; err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"supplier": supplier})
}

func (h *ClientHandler) ListSuppliers(c *gin.Context) {
	var suppliers []models.Supplier
	if err := h.DB.Order("name asc").Find(&suppliers).Error; err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"suppliers": suppliers})
}

func (h *ClientHandler) UpdateSupplier(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}
	var req supplierReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	var supplier models.Supplier
	if err := h.DB.First(&supplier, id).Error; err != nil {
		fail(c, err)
		return
	}
	supplier.Name = req.Name
	supplier.TaxNumber = req.TaxNumber
	supplier.Email = req.Email
	supplier.Phone = req.Phone
	supplier.Activity = req.Activity
	if err := h.DB.Save(&supplier).Error; err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"supplier": supplier})
}

func (h *ClientHandler) DeleteSupplier(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}
	if err := h.DB.Delete(&models.Supplier{}, id).Error; err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "deleted"})
}
