package handlers

import (
	"context"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"classpoll/pkg/live"
)

type LiveHandle struct {
	hub *live.Hub
}

func RegisterLive(router fiber.Router, hub *live.Hub) {
	handler := LiveHandle{hub: hub}

	router.Use("/live", handler.Upgrade)
	router.Get("/live", websocket.New(handler.Serve))
}

// Upgrade 只放行 websocket 握手
func (h *LiveHandle) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Serve 一个实时连接的生命周期：接入、读循环、断开
func (h *LiveHandle) Serve(conn *websocket.Conn) {
	id := uuid.NewString()
	ctx := context.Background()

	send, err := h.hub.Connect(ctx, id)
	if err != nil {
		log.Warn().Err(err).Str("id", id).Msg("实时连接接入失败")
		_ = conn.Close()
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for frame := range send {
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				log.Debug().Err(err).Str("id", id).Msg("推送失败")
				break
			}
		}
		// 队列关闭或写失败，关闭连接让读循环退出
		_ = conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if err = h.hub.Receive(ctx, id, msg); err != nil {
			break
		}
	}

	if err := h.hub.Disconnect(ctx, id); err != nil {
		log.Debug().Err(err).Str("id", id).Msg("断开处理失败")
	}
	<-done
}
