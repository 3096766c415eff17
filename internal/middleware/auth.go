package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/Ibrarkhan125/time-manager/internal/config"
	"github.com/Ibrarkhan125/time-manager/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// UseToken guards a route with a bearer token. Beyond signature and expiry
// it re-resolves the user row, so a token for a deleted account is rejected.
func UseToken(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "No token provided",
			"success": false,
			"status":  401,
		})
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid token format",
			"success": false,
			"status":  401,
		})
	}
	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return config.SecretKey, nil
	})
	if err != nil || !token.Valid {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid token",
			"success": false,
			"status":  401,
		})
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid token claims",
			"success": false,
			"status":  401,
		})
	}
	if exp, ok := claims["exp"].(float64); !ok || int64(exp) < time.Now().Unix() {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Token expired",
			"success": false,
			"status":  401,
		})
	}
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid user ID in token",
			"success": false,
			"status":  401,
		})
	}

	// The token may outlive the account; the row is the source of truth.
	var name, email string
	err = config.DB.QueryRow(
		"SELECT name, email FROM users WHERE id = $1",
		int(userID)).Scan(&name, &email)
	if err != nil {
		logger.SecurityLogger.Warn("Token for unknown user", zap.Int("user_id", int(userID)))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid token",
			"success": false,
			"status":  401,
		})
	}

	c.Locals("userID", int(userID))
	c.Locals("email", email)
	c.Locals("name", name)
	return c.Next()
}
