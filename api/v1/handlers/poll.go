package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"classpoll/pkg/live"
)

const queryTimeout = 5 * time.Second

type PollHandle struct {
	hub *live.Hub
}

func RegisterPoll(router fiber.Router, hub *live.Hub) {
	handler := PollHandle{hub: hub}

	router.Get("/live-results", handler.GetLiveResults)
	router.Get("/poll-history", handler.GetHistory)
}

// GetLiveResults 当前投票、票数与作答进度
func (p *PollHandle) GetLiveResults(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), queryTimeout)
	defer cancel()

	status, ok, err := p.hub.Status(ctx)
	if err != nil {
		log.Error().Err(err).Msg("查询实时结果失败")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"message": "Service unavailable",
		})
	}
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "No active poll",
		})
	}
	return c.JSON(status)
}

// GetHistory 已完成投票的历史
func (p *PollHandle) GetHistory(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), queryTimeout)
	defer cancel()

	records, err := p.hub.History(ctx)
	if err != nil {
		log.Error().Err(err).Msg("查询历史失败")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"message": "Service unavailable",
		})
	}
	return c.JSON(records)
}
