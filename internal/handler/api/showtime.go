package api

import (
	"net/http"

	resdto "cinebook/internal/handler/dto/response"
	"cinebook/internal/handler/httperr"
	"cinebook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ShowtimeHandler struct {
	q queries.BookingQueries
}

func NewShowtimeHandler(q queries.BookingQueries) *ShowtimeHandler {
	return &ShowtimeHandler{q: q}
}

// @Summary Showtime availability
// @Description Seat counts and held seats for a showtime
// @Tags showtimes
// @Produce json
// @Param id path string true "Showtime ID"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /showtimes/{id}/availability [get]
func (h *ShowtimeHandler) Availability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid showtime id", nil)
		return
	}

	view, err := h.q.CheckAvailability(c.Request.Context(), id)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAvailabilityView(view))
}
