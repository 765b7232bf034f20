package server

import (
	"log/slog"

	"epicfails/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// WebSocketUpgrade rejects plain HTTP requests on websocket routes.
func (s *Server) WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// FeedHandler streams engagement events to the connected client.
// Authentication is handled by route middleware and userID is read from connection locals.
func (s *Server) FeedHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		uid, ok := conn.Locals("userID").(uuid.UUID)
		if !ok {
			if cerr := conn.Close(); cerr != nil {
				middleware.Logger.Debug("websocket close error", slog.String("error", cerr.Error()))
			}
			return
		}

		client, err := s.hub.Register(uid, conn)
		if err != nil {
			middleware.Logger.Warn("feed registration refused",
				slog.String("user_id", uid.String()),
				slog.String("error", err.Error()),
			)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		// ReadPump unregisters the client once the peer goes away.
		go client.WritePump()
		client.ReadPump()
	})
}
