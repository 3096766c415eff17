package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/Ibrarkhan125/time-manager/internal/config"
	"github.com/Ibrarkhan125/time-manager/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func ErrorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		defer func() {
			if r := recover(); r != nil {
				errMsg := fmt.Sprintf("Recovered from panic: %v", r)
				stack := string(debug.Stack())
				logger.ErrorLogger.Error(errMsg, zap.String("stack", stack))
				body := fiber.Map{
					"message": "Internal Server Error",
					"success": false,
					"status":  500,
				}
				// Stack traces stay out of production responses
				if config.AppEnv != "production" {
					body["error"] = errMsg
				}
				c.Status(fiber.StatusInternalServerError).JSON(body)
			}
		}()
		logger.RequestLogger.Info("Incoming request",
			zap.String("method", c.Method()),
			zap.String("url", c.OriginalURL()),
		)
		return c.Next()
	}
}
