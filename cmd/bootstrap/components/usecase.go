package components

import (
	"cinebook/internal/infra/payment"
	"cinebook/internal/infra/ticket"
	"cinebook/internal/pkg/clock"
	"cinebook/internal/pkg/config"
	"cinebook/internal/usecase"
	"cinebook/internal/usecase/commands"
	"cinebook/internal/usecase/queries"
	"cinebook/internal/worker"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	commands.NewBookingPolicy,
	commands.NewSweepPolicy,
	func(cfg config.Config) config.PaymentConfig { return cfg.Payment },
	func(cfg config.Config) config.TicketConfig { return cfg.Ticket },
	fx.Annotate(
		payment.NewRazorpayGateway,
		fx.As(new(commands.PaymentGateway)),
	),
	fx.Annotate(
		ticket.NewQRGenerator,
		fx.As(new(commands.TicketGenerator)),
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewExpiryCommands,
		commands.NewBookingCommands,
		commands.NewRefundCommands,
		func(t *worker.ExpiryTimers) commands.ExpiryScheduler { return t },
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookingQueries,
		queries.NewPaymentQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
