package bootstrap

import (
	"context"

	"pinecove/internal/infra/events"
	"pinecove/internal/infra/payment"
	"pinecove/internal/infra/upstream"
	"pinecove/internal/pkg/config"
	"pinecove/internal/usecase"

	"go.uber.org/fx"
)

var GatewayModule = fx.Module("gateway",
	fx.Provide(
		fx.Annotate(
			NewUpstreamClient,
			fx.As(new(usecase.UpstreamGateway)),
		),
		fx.Annotate(
			NewPaymentClient,
			fx.As(new(usecase.PaymentGateway)),
		),
		fx.Annotate(
			NewEventPublisher,
			fx.As(new(usecase.EventPublisher)),
		),
	),
)

func NewUpstreamClient(cfg config.Config) *upstream.Client {
	return upstream.NewClient(cfg.Upstream)
}

func NewPaymentClient(cfg config.Config) *payment.Client {
	return payment.NewClient(cfg.Payment)
}

func NewEventPublisher(lc fx.Lifecycle, cfg config.Config) *events.Publisher {
	publisher := events.NewPublisher(cfg.Kafka)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return publisher.Close()
		},
	})

	return publisher
}
