//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"invitebot/internal"
	"invitebot/internal/baseline"
	"invitebot/internal/controllers"
	"invitebot/internal/models"
	"invitebot/internal/providers"
	"invitebot/internal/services"
	"invitebot/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		models.NewSnapshotStore,
		providers.NewAttributionHistory,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		providers.NewDiscordSession,
		providers.ProvideDiscordGateway,
		providers.NewDiscordPlatform,
		wire.Bind(new(services.InviteDirectory), new(*providers.DiscordPlatform)),
		wire.Bind(new(services.RoleManager), new(*providers.DiscordPlatform)),
		wire.Bind(new(services.Messenger), new(*providers.DiscordPlatform)),

		services.NewAttributionService,
		services.NewCommandService,
		baseline.NewScheduler,
		controllers.NewEventController,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
