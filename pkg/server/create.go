package server

import (
	"github.com/goccy/go-json"
	"github.com/gofiber/contrib/fiberzerolog"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"
)

// NewFiber 创建 fiber 实例，allowOrigins 为 CORS 允许的来源
func NewFiber(allowOrigins string) *fiber.App {
	app := fiber.New(fiber.Config{
		ProxyHeader:  "X-Real-Ip",
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		Network:      "tcp4",
		ServerHeader: "classpoll",
	})

	app.Use(recover.New())

	app.Use(fiberzerolog.New(fiberzerolog.Config{
		Logger: &log.Logger,
		// 实时通道是长连接，只记录握手会刷屏
		Next: func(c *fiber.Ctx) bool {
			return c.Get(fiber.HeaderUpgrade) != ""
		},
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowCredentials: false,
		AllowMethods:     "GET, POST, OPTIONS",
		AllowHeaders:     "authorization, content-type, origin, x-request-id",
		MaxAge:           864000,
	}))

	return app
}
