package config

import (
	"context"
	"database/sql"

	"github.com/Ibrarkhan125/time-manager/internal/ws"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
)

var (
	// Global dependencies shared across the application
	DB            *sql.DB
	SecretKey     = []byte("changeme")
	EncryptionKey = "TimeManagerNotesKey!"
	AppEnv        = "development"
	Validate      = validator.New()
	Ctx           = context.Background()
	RedisClient   *redis.Client
	Hub           *ws.Hub
)
