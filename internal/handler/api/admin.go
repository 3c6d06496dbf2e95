package api

import (
	"net/http"

	resdto "cinebook/internal/handler/dto/response"
	"cinebook/internal/handler/httperr"
	"cinebook/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminHandler serves operations routed behind the admin role.
type AdminHandler struct {
	refunds commands.RefundCommands
}

func NewAdminHandler(refunds commands.RefundCommands) *AdminHandler {
	return &AdminHandler{refunds: refunds}
}

// @Summary Process refund
// @Description Pay out the pending or failed refund of a cancelled booking
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.RefundResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /admin/bookings/{id}/refund [post]
func (h *AdminHandler) ProcessRefund(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking id", nil)
		return
	}

	result, err := h.refunds.ProcessRefund(c.Request.Context(), id)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromRefundResult(result))
}
