package api

import (
	"errors"
	"net/http"

	"stayflow/internal/handler/httperr"
	"stayflow/internal/infra"
	"stayflow/internal/pkg/errs"
	"stayflow/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PaymentHandler struct {
	commands commands.PaymentCommands
}

func NewPaymentHandler(commands commands.PaymentCommands) *PaymentHandler {
	return &PaymentHandler{commands: commands}
}

// @Summary Refund a completed payment
// @Description Admin-only. Refunds the full amount and cancels the reservation.
// @Tags payments
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /payments/{id}/refund [post]
func (h *PaymentHandler) Refund(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid payment ID")
		return
	}

	if err := h.commands.Refund(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, errs.ErrPaymentNotFound), infra.IsKind(err, infra.KindNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Payment not found")
		case errors.Is(err, errs.ErrPaymentNotCompleted):
			httperr.AbortWithError(c, http.StatusConflict, err, "Only completed payments can be refunded")
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
		}
		return
	}
	c.Status(http.StatusNoContent)
}
