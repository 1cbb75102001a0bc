package controllers

import (
	"strconv"
	"time"

	"panchayath_go/database"
	"panchayath_go/middleware"
	"panchayath_go/models"

	"github.com/gofiber/fiber/v2"
)

// NotificationController serves the admin notification inbox.
type NotificationController struct{}

// GET /api/notifications
func (nc *NotificationController) GetNotifications(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	query := database.DB.Model(&models.Notification{}).Where("user_id = ?", user.ID)
	if read := c.Query("read"); read == "true" {
		query = query.Where("read = ?", true)
	} else if read == "false" {
		query = query.Where("read = ?", false)
	}
	if typ := c.Query("type"); typ != "" {
		query = query.Where("type = ?", typ)
	}

	var total int64
	query.Count(&total)

	var notifications []models.Notification
	if err := query.Order("created_at DESC").
		Offset(offset).Limit(limit).Find(&notifications).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch notifications"})
	}

	return c.JSON(fiber.Map{
		"notifications": notifications,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GET /api/notifications/unread-count
func (nc *NotificationController) GetUnreadCount(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	var count int64
	database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND `read` = ?", user.ID, false).Count(&count)

	return c.JSON(fiber.Map{"unread_count": count})
}

// PATCH /api/notifications/:id/read
func (nc *NotificationController) MarkAsRead(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid notification ID"})
	}

	var notification models.Notification
	if err := database.DB.Where("id = ? AND user_id = ?", uint(id), user.ID).
		First(&notification).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Notification not found"})
	}

	now := time.Now()
	if err := database.DB.Model(&notification).Updates(map[string]interface{}{
		"read":    true,
		"read_at": &now,
	}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to mark as read"})
	}

	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}

// PATCH /api/notifications/read-all
func (nc *NotificationController) MarkAllAsRead(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	now := time.Now()
	if err := database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND `read` = ?", user.ID, false).
		Updates(map[string]interface{}{"read": true, "read_at": &now}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to mark all as read"})
	}

	return c.JSON(fiber.Map{"message": "All notifications marked as read"})
}

// DELETE /api/notifications/:id
func (nc *NotificationController) DeleteNotification(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid notification ID"})
	}

	result := database.DB.Where("id = ? AND user_id = ?", uint(id), user.ID).
		Delete(&models.Notification{})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete notification"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Notification not found"})
	}

	return c.JSON(fiber.Map{"message": "Notification deleted successfully"})
}
