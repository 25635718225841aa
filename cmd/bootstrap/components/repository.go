package components

import (
	repo_impl "pinecove/internal/infra/repository"
	"pinecove/internal/usecase"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repo_impl.NewBookingRepository,
			fx.As(new(usecase.BookingRepository)),
		),
		fx.Annotate(
			repo_impl.NewResourceRepository,
			fx.As(new(usecase.ResourceReader)),
		),
		fx.Annotate(
			repo_impl.NewIncentiveRepository,
			fx.As(new(usecase.IncentiveReader)),
		),
	),
)
