package controller

import (
	"os"

	"support-chat-be/internal/pkg/logger"
	internalWS "support-chat-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
)

type INotificationController interface {
	RegisterRoutes(r fiber.Router)
	ServeWs(ctx *fiber.Ctx) error
}

type notificationController struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewNotificationController(hub *internalWS.Hub, log logger.ILogger) INotificationController {
	return &notificationController{
		hub:    hub,
		logger: log,
	}
}

func (c *notificationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ws")
	h.Get("notifications", c.ServeWs)
}

// ServeWs upgrades a dashboard connection. Browsers cannot set headers on
// websocket handshakes, so the token also rides in a query param.
func (c *notificationController) ServeWs(ctx *fiber.Ctx) error {
	tokenStr := ctx.Query("token")
	if tokenStr == "" {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Identity not found"})
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		c.logger.Warn("NotificationController", "Invalid token in WS handshake", map[string]interface{}{"error": err})
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Identity not found"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid claims"})
	}
	organizationId, _ := claims["organization_id"].(string)
	if organizationId == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Organization not found"})
	}

	if websocket.IsWebSocketUpgrade(ctx) {
		return websocket.New(func(conn *websocket.Conn) {
			c.logger.Info("NotificationController", "Starting WebSocket session", map[string]interface{}{"organization_id": organizationId})
			internalWS.ServeWs(c.hub, conn, organizationId)
			c.logger.Info("NotificationController", "WebSocket session ended", map[string]interface{}{"organization_id": organizationId})
		})(ctx)
	}
	return fiber.ErrUpgradeRequired
}
