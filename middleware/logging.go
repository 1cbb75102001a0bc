package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"panchayath_go/database"
	"panchayath_go/models"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// LoggerMiddleware logs HTTP requests
func LoggerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		// Process request
		err := c.Next()

		// Log request
		duration := time.Since(start)
		status := c.Response().StatusCode()

		logrus.WithFields(logrus.Fields{
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"duration":   duration.String(),
			"ip":         c.IP(),
			"user_agent": c.Get("User-Agent"),
		}).Info("HTTP Request")

		return err
	}
}

// LogActivity records an audit row for a data-modifying operation.
// Rows are cached in Redis first for performance and flushed to the
// database by the maintenance scheduler; falls back to a direct insert
// when Redis is unavailable.
func LogActivity(c *fiber.Ctx, action, resource string, resourceID uint, details interface{}) {
	var userID uint
	if user, err := GetCurrentUser(c); err == nil {
		userID = user.ID
	}

	var detailsJSON models.JSON
	if details != nil {
		if detailsBytes, err := json.Marshal(details); err == nil {
			detailsJSON = detailsBytes
		}
	}

	activityLog := models.ActivityLog{
		UserID:     userID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Details:    detailsJSON,
		IPAddress:  c.IP(),
		UserAgent:  c.Get("User-Agent"),
	}
	activityLog.CreatedAt = time.Now()

	go func(al models.ActivityLog) {
		defer func() {
			if r := recover(); r != nil {
				logrus.WithField("panic", r).Error("panic recovered in LogActivity goroutine")
			}
		}()

		if err := cacheActivityLog(al); err != nil {
			if database.DB == nil {
				logrus.Error("database.DB is nil; cannot save activity log to database")
				return
			}
			if dbErr := database.DB.Create(&al).Error; dbErr != nil {
				logrus.WithError(dbErr).Error("Failed to save activity log to database")
			}
		}
	}(activityLog)
}

// cacheActivityLog stores an activity log in Redis with a 24-hour TTL
// and queues it in a sorted set for batch flushing.
func cacheActivityLog(log models.ActivityLog) error {
	redisClient := database.GetRedisClient()
	if redisClient == nil {
		return fmt.Errorf("redis client is nil")
	}
	ctx := context.Background()

	logData, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("failed to marshal log: %v", err)
	}

	cacheKey := fmt.Sprintf("log:%d:%s:%d", log.UserID, log.Action, time.Now().UnixNano())

	if err := redisClient.Set(ctx, cacheKey, logData, 24*time.Hour).Err(); err != nil {
		return fmt.Errorf("failed to cache log: %v", err)
	}

	if err := redisClient.ZAdd(ctx, "logs:queue", &redis.Z{
		Score:  float64(time.Now().Unix()),
		Member: cacheKey,
	}).Err(); err != nil {
		logrus.WithError(err).Error("Failed to add log to processing queue")
	}

	return nil
}

// LogActivityMiddleware automatically logs CRUD operations
func LogActivityMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Skip logging for GET requests and auth endpoints
		if c.Method() == "GET" || strings.Contains(c.Path(), "/auth/") {
			return c.Next()
		}

		// Process request
		err := c.Next()

		// Determine action based on method
		var action string
		switch c.Method() {
		case "POST":
			action = "CREATE"
		case "PUT", "PATCH":
			action = "UPDATE"
		case "DELETE":
			action = "DELETE"
		default:
			return err
		}

		// Extract resource from path
		pathParts := strings.Split(strings.Trim(c.Path(), "/"), "/")
		var resource string
		if len(pathParts) >= 2 {
			resource = pathParts[1] // assumes /api/resource format
		}

		// Extract resource ID from params if available
		var resourceID uint
		if id := c.Params("id"); id != "" {
			if parsedID, parseErr := parseUint(id); parseErr == nil {
				resourceID = parsedID
			}
		}

		// Log only if request was successful
		if c.Response().StatusCode() < 400 {
			LogActivity(c, action, resource, resourceID, nil)
		}

		return err
	}
}

// parseUint converts string to uint
func parseUint(s string) (uint, error) {
	var result uint
	for _, char := range s {
		if char < '0' || char > '9' {
			return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid ID format")
		}
		result = result*10 + uint(char-'0')
	}
	return result, nil
}
