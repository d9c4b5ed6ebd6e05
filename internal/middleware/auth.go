package middleware

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"waypoint/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

var cfg *config.Config

// InitMiddleware hands the loaded config to the middleware package.
func InitMiddleware(c *config.Config) {
	cfg = c
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msg})
}

// bearerToken pulls the raw token out of an Authorization header.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || scheme != "Bearer" || token == "" {
		return "", false
	}
	return token, true
}

// userIDFromToken validates a signed token and returns the user ID from its
// subject claim.
func userIDFromToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("unexpected claims type")
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, fmt.Errorf("token has no subject")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("token subject is not a user ID")
	}
	return uint(userID), nil
}

// AuthRequired enforces a Bearer token on protected routes and stores the
// authenticated user ID in c.Locals("userID").
func AuthRequired(c *fiber.Ctx) error {
	header := c.Get("Authorization")
	if header == "" {
		return unauthorized(c, "Authorization header required")
	}
	token, ok := bearerToken(header)
	if !ok {
		return unauthorized(c, "Invalid authorization header format")
	}

	userID, err := userIDFromToken(token)
	if err != nil {
		return unauthorized(c, "Invalid or expired token")
	}

	c.Locals("userID", userID)
	return c.Next()
}

// WebSocketTicketTTL is how long an issued websocket ticket stays redeemable.
const WebSocketTicketTTL = 30 * time.Second

// WebSocketTicketKey returns the Redis key holding a ticket's user ID.
func WebSocketTicketKey(ticket string) string {
	return "ws_ticket:" + ticket
}

// WebSocketTicketAuth authenticates websocket upgrades. A ticket from the
// "ticket" query parameter is redeemed atomically (GETDEL), so it cannot be
// replayed. Without a ticket, or without Redis, it falls back to JWT
// validation via WebSocketAuthRequired.
func WebSocketTicketAuth(rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ticket := c.Query("ticket")
		if ticket == "" || rdb == nil {
			return WebSocketAuthRequired(c)
		}

		val, err := rdb.GetDel(context.Background(), WebSocketTicketKey(ticket)).Result()
		if err != nil {
			return unauthorized(c, "Invalid or expired ticket")
		}
		userID, err := strconv.ParseUint(val, 10, 32)
		if err != nil {
			return unauthorized(c, "Invalid ticket payload")
		}

		c.Locals("userID", uint(userID))
		return c.Next()
	}
}

// WebSocketAuthRequired validates a JWT taken from the "token" query
// parameter, since browsers cannot set headers on websocket upgrades. The
// Authorization header still works for non-browser clients.
func WebSocketAuthRequired(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		header := c.Get("Authorization")
		if header == "" {
			return unauthorized(c, "Token required")
		}
		var ok bool
		if token, ok = bearerToken(header); !ok {
			return unauthorized(c, "Invalid authorization header format")
		}
	}

	userID, err := userIDFromToken(token)
	if err != nil {
		return unauthorized(c, "Invalid or expired token")
	}

	c.Locals("userID", userID)
	return c.Next()
}
