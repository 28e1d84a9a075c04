package handlers

import (
	"bytes"
	"context"
	"runtime"
	"runtime/pprof"

	"github.com/gofiber/fiber/v2"

	"classpoll/pkg/live"
)

type SystemHandle struct {
	hub *live.Hub
	key string
}

func RegisterSystem(system fiber.Router, hub *live.Hub, key string) {
	handler := SystemHandle{hub: hub, key: key}

	system.Use(handler.Verify)

	system.Get("/info", handler.GetServerInfo)
	system.Get("/stack", handler.GetStackInfo)
}

// GetServerInfo 运行时与会话概况
func (s *SystemHandle) GetServerInfo(ctx *fiber.Ctx) error {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	queryCtx, cancel := context.WithTimeout(ctx.UserContext(), queryTimeout)
	defer cancel()
	stats, err := s.hub.Stats(queryCtx)
	if err != nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return ctx.JSON(fiber.Map{
		"code": "200",
		"data": fiber.Map{
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
			"heap_alloc": m.HeapAlloc,
			"sys":        m.Sys,
			"session":    stats,
		},
	})
}

// GetStackInfo 协程堆栈
func (s *SystemHandle) GetStackInfo(ctx *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := pprof.Lookup("goroutine").WriteTo(&buf, 1); err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{
		"code": "200",
		"data": buf.String(),
	})
}

// Verify 校验 APP_SYSTEM_KEY
func (s *SystemHandle) Verify(c *fiber.Ctx) error {
	if s.key == "" {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "APP_SYSTEM_KEY is not set",
		})
	}

	requestKey := c.Query("key")
	if requestKey == "" || requestKey != s.key {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid key",
		})
	}

	return c.Next()
}
