package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Ibrarkhan125/time-manager/internal/config"
	"github.com/Ibrarkhan125/time-manager/internal/models"
	"github.com/Ibrarkhan125/time-manager/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Profile handlers. Both operate on the authenticated user only; there is
// no way to address another account through this surface.

func GetProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	// Redis first, database on miss
	cacheKey := fmt.Sprintf("user:%d", userID)
	if cached, err := config.RedisClient.Get(config.Ctx, cacheKey).Result(); err == nil {
		var user models.User
		if err = json.Unmarshal([]byte(cached), &user); err == nil {
			return c.JSON(fiber.Map{
				"message": "Profile found (from cache)",
				"success": true,
				"status":  200,
				"data":    user,
			})
		}
	}

	var user models.User
	err := config.DB.QueryRow(
		"SELECT id, name, email, created_at, updated_at FROM users WHERE id = $1",
		userID).Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{
			"message": "User not found",
			"success": false,
			"status":  404,
		})
	}
	if err != nil {
		logger.ErrorLogger.Error("Error fetching profile", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Failed to fetch profile",
			"success": false,
			"status":  500,
		})
	}

	userJSON, err := json.Marshal(user)
	if err == nil {
		config.RedisClient.SetEX(config.Ctx, cacheKey, userJSON, time.Hour)
	}

	logger.AuditLogger.Info("Profile fetched", zap.Int("user_id", userID))
	return c.JSON(fiber.Map{
		"message": "Profile found",
		"success": true,
		"status":  200,
		"data":    user,
	})
}

func UpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	// Pointer fields so absent keys leave the column untouched
	type UpdateProfileRequest struct {
		Name     *string `json:"name"`
		Email    *string `json:"email" validate:"omitempty,email"`
		Password *string `json:"password" validate:"omitempty,min=6"`
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in update profile", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if err := config.Validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error during profile update", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation error",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	var hashed *string
	if req.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			logger.ErrorLogger.Error("Error hashing password", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error hashing password",
				"success": false,
				"status":  500,
			})
		}
		s := string(hashedPassword)
		hashed = &s
	}

	_, err := config.DB.Exec(`
        UPDATE users
        SET name = COALESCE($1, name),
            email = COALESCE($2, email),
            password = COALESCE($3, password),
            updated_at = CURRENT_TIMESTAMP
        WHERE id = $4`,
		req.Name, req.Email, hashed, userID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			logger.SecurityLogger.Warn("Duplicate email on profile update", zap.Int("user_id", userID))
			return c.Status(409).JSON(fiber.Map{
				"message": "Email already in use",
				"success": false,
				"status":  409,
			})
		}
		logger.ErrorLogger.Error("Error updating profile", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Failed to update profile",
			"success": false,
			"status":  500,
		})
	}

	var updated models.User
	err = config.DB.QueryRow(
		"SELECT id, name, email, created_at, updated_at FROM users WHERE id = $1",
		userID).Scan(&updated.ID, &updated.Name, &updated.Email, &updated.CreatedAt, &updated.UpdatedAt)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching updated profile", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Failed to fetch updated profile",
			"success": false,
			"status":  500,
		})
	}

	// Refresh the cache entry
	cacheKey := fmt.Sprintf("user:%d", userID)
	config.RedisClient.Del(config.Ctx, cacheKey)
	userJSON, err := json.Marshal(updated)
	if err == nil {
		config.RedisClient.SetEX(config.Ctx, cacheKey, userJSON, time.Hour)
	}

	logger.AuditLogger.Info("Profile updated", zap.Int("user_id", userID))
	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"success": true,
		"status":  200,
		"data":    updated,
	})
}
