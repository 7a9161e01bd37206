package handler

import (
	"net/http"

	"github.com/brun04maral/agora-contabilidade-sub000/internal/balance"
	"github.com/brun04maral/agora-contabilidade-sub000/internal/models"
	"github.com/brun04maral/agora-contabilidade-sub000/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BalanceHandler struct {
	Engine *balance.Engine
}

func NewBalanceHandler(db *gorm.DB) *BalanceHandler {
	return &BalanceHandler{Engine: balance.NewEngine(db)}
}

// GetBalance returns the partner's full balance snapshot, recomputed
// from source records on every call.
func (h *BalanceHandler) GetBalance(c *gin.Context) {
	partner := models.PartnerCode(c.Param("partner"))
	if !partner.Valid() {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "partner must be partner_a or partner_b")
		return
	}

	snap, err := h.Engine.Compute(partner)
	if err != nil {
		fail(c, err)
		return
	}

	util.Success(c, util.Response{
		"balance":                        snap,
		"net_balance_formatted":          util.FormatEUR(snap.NetBalance),
		"suggested_settlement_formatted": util.FormatEUR(snap.SuggestedSettlement),
	})
}
