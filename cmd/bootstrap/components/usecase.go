package components

import (
	"pinecove/internal/domain/pricing"
	"pinecove/internal/pkg/clock"
	"pinecove/internal/pkg/config"
	"pinecove/internal/usecase"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		NewRates,
		usecase.NewAvailabilityChecker,
		usecase.NewQuoteService,
		usecase.NewBookingLifecycle,
	),
)

func NewRates(cfg config.Config) pricing.Rates {
	return pricing.Rates{
		TaxPercent:        cfg.Pricing.TaxRatePercent,
		ChannelFeePercent: cfg.Pricing.ChannelFeePercent,
		CleaningFeeCents:  cfg.Pricing.CleaningFeeCents,
		PetFeeCents:       cfg.Pricing.PetFeeCents,
		Currency:          cfg.Pricing.Currency,
	}
}
