package components

import (
	"pinecove/internal/handler"
	"pinecove/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAvailabilityHandler,
		api.NewQuoteHandler,
		api.NewBookingHandler,
		api.NewWebhookHandler,
	),
	fx.Invoke(handler.NewRouter),
)
