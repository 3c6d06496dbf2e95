package components

import (
	"cinebook/internal/handler"
	"cinebook/internal/handler/api"
	"cinebook/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewHealthHandler,
		api.NewBookingHandler,
		api.NewShowtimeHandler,
		api.NewPaymentHandler,
		api.NewAdminHandler,
		middleware.NewAuthMiddleware,
		func(
			health *api.HealthHandler,
			booking *api.BookingHandler,
			showtime *api.ShowtimeHandler,
			payment *api.PaymentHandler,
			admin *api.AdminHandler,
		) handler.Handlers {
			return handler.Handlers{Health: health, Booking: booking, Showtime: showtime, Payment: payment, Admin: admin}
		},
	),
	fx.Invoke(handler.NewRouter),
)
