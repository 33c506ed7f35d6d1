package internal

import (
	"invitebot/internal/controllers"
	"invitebot/internal/providers"
	"net/http"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/guilds", http.HandlerFunc(apiController.GetGuilds))
	routers.Get("/snapshot", http.HandlerFunc(apiController.GetSnapshot))
	routers.Get("/attributions", http.HandlerFunc(apiController.GetAttributions))
	return routers
}
