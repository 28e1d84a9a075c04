package v1

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"classpoll/api/v1/handlers"
	"classpoll/pkg/live"
)

func SetupRoutes(app *fiber.App, hub *live.Hub, systemKey string, gatherer prometheus.Gatherer) {
	api := app.Group("/api/v1")

	handlers.RegisterLive(api, hub)
	handlers.RegisterPoll(api, hub)
	handlers.RegisterSystem(api.Group("/system"), hub, systemKey)

	// 兼容旧版前端直接访问根路径
	handlers.RegisterPoll(app, hub)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}
