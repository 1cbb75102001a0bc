package controllers

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"panchayath_go/database"
	"panchayath_go/models"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// LogController serves the activity-log audit trail (admin only).
type LogController struct{}

// GET /api/logs
func (lc *LogController) GetLogs(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}
	offset := (page - 1) * limit

	query := database.DB.Model(&models.ActivityLog{}).Preload("User")

	if userID := c.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}
	if resource := c.Query("resource"); resource != "" {
		query = query.Where("resource = ?", resource)
	}
	if startDate := c.Query("start_date"); startDate != "" {
		if parsed, err := time.Parse("2006-01-02", startDate); err == nil {
			query = query.Where("created_at >= ?", parsed)
		}
	}
	if endDate := c.Query("end_date"); endDate != "" {
		if parsed, err := time.Parse("2006-01-02", endDate); err == nil {
			query = query.Where("created_at <= ?", parsed.Add(24*time.Hour))
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logrus.WithError(err).Error("Failed to count logs")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve logs"})
	}

	var activityLogs []models.ActivityLog
	if err := query.Order("created_at DESC").
		Offset(offset).Limit(limit).Find(&activityLogs).Error; err != nil {
		logrus.WithError(err).Error("Failed to fetch logs")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve logs"})
	}

	return c.JSON(fiber.Map{
		"logs": activityLogs,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GET /api/logs/stats
func (lc *LogController) GetLogStats(c *fiber.Ctx) error {
	var total int64
	database.DB.Model(&models.ActivityLog{}).Count(&total)

	today := time.Now().Truncate(24 * time.Hour)
	var totalToday int64
	database.DB.Model(&models.ActivityLog{}).
		Where("created_at >= ?", today).Count(&totalToday)

	actionBreakdown := make(map[string]int64)
	rows, err := database.DB.Model(&models.ActivityLog{}).
		Select("action, COUNT(*) as count").Group("action").Rows()
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var action string
			var count int64
			if err := rows.Scan(&action, &count); err == nil {
				actionBreakdown[action] = count
			}
		}
	}

	resourceBreakdown := make(map[string]int64)
	rrows, err := database.DB.Model(&models.ActivityLog{}).
		Select("resource, COUNT(*) as count").Group("resource").Rows()
	if err == nil {
		defer rrows.Close()
		for rrows.Next() {
			var resource string
			var count int64
			if err := rrows.Scan(&resource, &count); err == nil {
				resourceBreakdown[resource] = count
			}
		}
	}

	return c.JSON(fiber.Map{
		"total":              total,
		"total_today":        totalToday,
		"action_breakdown":   actionBreakdown,
		"resource_breakdown": resourceBreakdown,
	})
}

// POST /api/logs/flush
// Drains Redis-cached log entries into the database on demand.
func (lc *LogController) FlushCachedLogs(c *fiber.Ctx) error {
	redisClient := database.GetRedisClient()
	if redisClient == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Redis not available"})
	}

	ctx := context.Background()
	logKeys, err := redisClient.ZRange(ctx, "logs:queue", 0, -1).Result()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read cached logs"})
	}

	flushed := 0
	for _, logKey := range logKeys {
		logData, err := redisClient.Get(ctx, logKey).Result()
		if err != nil {
			redisClient.ZRem(ctx, "logs:queue", logKey)
			continue
		}
		var activityLog models.ActivityLog
		if err := json.Unmarshal([]byte(logData), &activityLog); err != nil {
			redisClient.ZRem(ctx, "logs:queue", logKey)
			continue
		}
		if err := database.DB.Create(&activityLog).Error; err != nil {
			continue
		}
		redisClient.Del(ctx, logKey)
		redisClient.ZRem(ctx, "logs:queue", logKey)
		flushed++
	}

	return c.JSON(fiber.Map{
		"message": "Cached logs flushed",
		"flushed": flushed,
	})
}
