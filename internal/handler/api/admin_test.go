//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"cinebook/internal/domain/booking"
	"cinebook/internal/handler/api"
	resdto "cinebook/internal/handler/dto/response"
	"cinebook/internal/pkg/errs"
	"cinebook/internal/usecase/commands"
	"cinebook/internal/usecase/queries"
	"cinebook/tests/common/builder"
	"cinebook/tests/common/httptest"
	commandsmock "cinebook/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AdminHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockRefunds *commandsmock.MockRefundCommands
}

func (s *AdminHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockRefunds = commandsmock.NewMockRefundCommands(s.mockCtrl)

	admin := api.NewAdminHandler(s.mockRefunds)
	s.router.POST("/admin/bookings/:id/refund", admin.ProcessRefund)
}

func (s *AdminHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAdminHandlerSuite(t *testing.T) {
	suite.Run(t, new(AdminHandlerTestSuite))
}

func (s *AdminHandlerTestSuite) TestProcessRefund() {
	view := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) { b.Status = "cancelled" }).BuildView()
	view.Cancellation = &queries.CancellationView{
		CancelledAt:  view.CreatedAt,
		RefundAmount: decimal.RequireFromString("499.5"),
		RefundStatus: string(booking.RefundProcessed),
	}
	url := "/admin/bookings/" + view.ID.String() + "/refund"

	s.Run("success: 200 OK with the provider refund id", func() {
		s.mockRefunds.EXPECT().ProcessRefund(gomock.Any(), view.ID).
			Return(&commands.RefundResult{Booking: view, RefundID: "rfnd_Q1", Amount: decimal.RequireFromString("499.5")}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var body resdto.RefundResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("rfnd_Q1", body.RefundID)
		s.Equal(499.5, body.Amount)
		s.Require().NotNil(body.Booking.Cancellation)
		s.Equal("processed", body.Booking.Cancellation.RefundStatus)
		s.Equal(499.5, body.Booking.Cancellation.RefundAmount)
	})

	s.Run("error: malformed booking id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/admin/bookings/nope/refund", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid booking id")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []errorCase{
			{name: "already refunded", err: booking.ErrRefundNotDue, expectedStatus: http.StatusConflict, expectedMsg: "No refund is due"},
			{name: "unknown booking", err: queries.ErrBookingNotFound, expectedStatus: http.StatusNotFound, expectedMsg: "Booking not found"},
			{name: "no captured payment", err: commands.ErrPaymentNotFound, expectedStatus: http.StatusNotFound, expectedMsg: "Payment not found"},
			{name: "provider rejected", err: errs.Mark(errors.New("payment provider returned 502"), commands.ErrPaymentGateway), expectedStatus: http.StatusBadGateway, expectedMsg: "Payment provider unavailable"},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockRefunds.EXPECT().ProcessRefund(gomock.Any(), view.ID).Return(nil, tc.err).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}
