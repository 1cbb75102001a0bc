package controllers

import (
	"log"

	"panchayath_go/config"
	"panchayath_go/database"
	"panchayath_go/middleware"
	"panchayath_go/models"
	"panchayath_go/services/websocket"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v4"
)

type WebSocketController struct {
	hub *websocket.Hub
}

func NewWebSocketController(hub *websocket.Hub) *WebSocketController {
	return &WebSocketController{hub: hub}
}

// validatePrincipal validates a JWT and returns the claims. Any
// principal kind connects: admins are additionally checked against
// their user row so a deactivated admin cannot stream changes.
func (wsc *WebSocketController) validatePrincipal(tokenString string) (*middleware.Claims, error) {
	if middleware.IsTokenBlacklisted(tokenString) {
		return nil, jwt.ErrTokenExpired
	}

	token, err := jwt.ParseWithClaims(tokenString, &middleware.Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*middleware.Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrInvalidKey
	}

	if middleware.IsAdminRole(claims.Role) {
		var user models.User
		if err := database.DB.Where("id = ? AND status = ?", claims.PrincipalID, "active").First(&user).Error; err != nil {
			return nil, err
		}
	}
	return claims, nil
}

// WebSocketHandler returns the Fiber handler for ws://<host>/ws?token=JWT
func (wsc *WebSocketController) WebSocketHandler() fiber.Handler {
	return fiberws.New(func(c *fiberws.Conn) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("WebSocket handler panic: %v", r)
			}
		}()

		token := c.Query("token")
		if token == "" {
			c.WriteMessage(fiberws.CloseMessage, []byte("Missing token"))
			c.Close()
			return
		}

		claims, err := wsc.validatePrincipal(token)
		if err != nil {
			log.Printf("WebSocket connection rejected: invalid token: %v", err)
			c.WriteMessage(fiberws.CloseMessage, []byte("Invalid token"))
			c.Close()
			return
		}

		wsc.hub.ServeFiberWS(c, claims.PrincipalID, claims.Role)
	})
}

// GetWebSocketStats returns connection statistics (admin only)
func (wsc *WebSocketController) GetWebSocketStats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"connected_clients": wsc.hub.GetClientCount(),
		"status":            "active",
	})
}
