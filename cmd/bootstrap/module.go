package bootstrap

import (
	"pinecove/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	RedisModule,
	GatewayModule,
	components.RepositoryModule,
	components.CacheModule,
	components.UseCaseModule,
	components.HandlerModule,
)
