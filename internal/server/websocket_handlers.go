package server

import (
	"bailemos/internal/featureflags"
	"bailemos/internal/middleware"
	"bailemos/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebsocketUpgrade rejects plain HTTP requests and callers without the
// realtime flag before the upgrade happens.
func (s *Server) WebsocketUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	if s.hub == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Realtime channel unavailable",
		})
	}
	userID := middleware.CurrentUserID(c)
	if !s.featureFlags.Enabled(featureflags.Realtime, userID) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Realtime notifications are not enabled"))
	}
	return c.Next()
}

// WebsocketHandler streams the caller's notification channel.
// @Summary Realtime notifications
// @Description Upgrades to a websocket that receives enrollment events for the caller
// @Tags realtime
// @Param token query string true "Session token"
// @Success 101
// @Router /ws [get]
func (s *Server) WebsocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals(middleware.LocalUserID).(string)
		if userID == "" {
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			middleware.Logger.Warn("realtime register failed", "user_id", userID, "error", err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}
		middleware.Logger.Debug("realtime connected", "user_id", userID)

		go client.WritePump()
		client.ReadPump()
	})
}
