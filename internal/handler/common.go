package handler

import (
	"errors"
	"net/http"

	"github.com/brun04maral/agora-contabilidade-sub000/internal/budget"
	"github.com/brun04maral/agora-contabilidade-sub000/internal/ledger"
	"github.com/brun04maral/agora-contabilidade-sub000/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// fail maps service errors onto the response envelope. Validation
// problems are the caller's fault, broken invariants are conflicts,
// anything else is a server error.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrValidation):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
	case errors.Is(err, budget.ErrUnbalanced), errors.Is(err, budget.ErrBadTransition):
		util.Error(c, http.StatusConflict, util.CodeConflict, err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "record not found")
	default:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "operation failed, please retry")
	}
}
