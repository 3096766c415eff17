package main

import (
	"fmt"
	"time"

	"github.com/Ibrarkhan125/time-manager/configs"
	v1 "github.com/Ibrarkhan125/time-manager/internal/api/v1"
	"github.com/Ibrarkhan125/time-manager/internal/config"
	"github.com/Ibrarkhan125/time-manager/internal/middleware"
	"github.com/Ibrarkhan125/time-manager/internal/repository"
	"github.com/Ibrarkhan125/time-manager/internal/ws"
	"github.com/Ibrarkhan125/time-manager/pkg/database"
	"github.com/Ibrarkhan125/time-manager/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

func main() {
	logger.InitLoggers()
	defer logger.SyncLoggers()
	logger.SystemLogger.Info("Starting application", zap.String("time", time.Now().Format(time.RFC3339)))

	cfg := configs.LoadConfig()
	config.SecretKey = []byte(cfg.JWTSecret)
	config.EncryptionKey = cfg.EncryptionKey
	if cfg.AppEnv != "" {
		config.AppEnv = cfg.AppEnv
	}

	config.DB = database.ConnectDB(cfg)
	defer config.DB.Close()
	logger.SystemLogger.Info("Database Connected")

	repository.CreateTableIfNotExists(config.DB)

	config.RedisClient = database.ConnectRedis(cfg)
	defer config.RedisClient.Close()

	app := fiber.New()

	// Middleware
	app.Use(middleware.ErrorHandler())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
	}))

	v1.RegisterRoutes(app)

	// Task event feed: connected clients receive task.created/updated/deleted
	hub := ws.NewHub()
	go hub.Run()
	config.Hub = hub
	app.Use("/ws", middleware.UseToken, func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		userID, ok := c.Locals("userID").(int)
		if !ok {
			c.Close()
			return
		}
		client := ws.NewClient(userID, c)
		hub.Register <- client
		go client.WritePump()
		defer func() {
			hub.Unregister <- client
		}()
		// Hold the connection open; the feed is one-way
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.SystemLogger.Info("Application ready", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		logger.ErrorLogger.Error("Application failed to start", zap.Error(err))
	}
}
