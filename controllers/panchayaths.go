package controllers

import (
	"panchayath_go/database"
	"panchayath_go/middleware"
	"panchayath_go/models"
	"panchayath_go/services/changefeed"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type PanchayathController struct{}

// GetPanchayaths returns all panchayaths
func (pc *PanchayathController) GetPanchayaths(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Panchayath{}).Order("name ASC")

	if district := c.Query("district"); district != "" {
		query = query.Where("district = ?", district)
	}
	if state := c.Query("state"); state != "" {
		query = query.Where("state = ?", state)
	}

	var panchayaths []models.Panchayath
	if err := query.Find(&panchayaths).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch panchayaths",
		})
	}

	return c.JSON(fiber.Map{
		"panchayaths": panchayaths,
		"total":       len(panchayaths),
	})
}

// GetPanchayath returns a specific panchayath by ID
func (pc *PanchayathController) GetPanchayath(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid panchayath ID",
		})
	}

	var panchayath models.Panchayath
	if err := database.DB.First(&panchayath, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Panchayath not found",
		})
	}

	return c.JSON(fiber.Map{
		"panchayath": panchayath,
	})
}

// CreatePanchayath creates a new panchayath
func (pc *PanchayathController) CreatePanchayath(c *fiber.Ctx) error {
	var panchayath models.Panchayath
	if err := c.BodyParser(&panchayath); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if panchayath.Name == "" || panchayath.District == "" || panchayath.State == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name, district, and state are required",
		})
	}

	if err := database.DB.Create(&panchayath).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to add panchayath",
		})
	}

	changefeed.Publish("panchayaths", changefeed.EventInsert, panchayath.ID)
	middleware.LogActivity(c, "CREATE", "panchayaths", panchayath.ID, panchayath)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Panchayath created successfully",
		"panchayath": panchayath,
	})
}

// UpdatePanchayath updates an existing panchayath
func (pc *PanchayathController) UpdatePanchayath(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid panchayath ID",
		})
	}

	var panchayath models.Panchayath
	if err := database.DB.First(&panchayath, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Panchayath not found",
		})
	}

	var updateData models.Panchayath
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := database.DB.Model(&panchayath).Updates(updateData).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update panchayath",
		})
	}

	changefeed.Publish("panchayaths", changefeed.EventUpdate, panchayath.ID)
	middleware.LogActivity(c, "UPDATE", "panchayaths", panchayath.ID, updateData)

	return c.JSON(fiber.Map{
		"message":    "Panchayath updated successfully",
		"panchayath": panchayath,
	})
}

// DeletePanchayath deletes a panchayath and all its agents. The cascade
// is manual application code: agents are deleted first, then the
// panchayath row, as two independent calls with no rollback if the
// second fails after the first succeeds.
func (pc *PanchayathController) DeletePanchayath(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid panchayath ID",
		})
	}

	var panchayath models.Panchayath
	if err := database.DB.First(&panchayath, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Panchayath not found",
		})
	}

	var agentCount int64
	database.DB.Model(&models.Agent{}).Where("panchayath_id = ?", panchayath.ID).Count(&agentCount)

	if err := database.DB.Where("panchayath_id = ?", panchayath.ID).Delete(&models.Agent{}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete panchayath agents",
		})
	}

	if err := database.DB.Delete(&panchayath).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete panchayath",
		})
	}

	changefeed.Publish("panchayaths", changefeed.EventDelete, panchayath.ID)
	middleware.LogActivity(c, "DELETE", "panchayaths", panchayath.ID, fiber.Map{
		"name":           panchayath.Name,
		"agents_deleted": agentCount,
	})

	return c.JSON(fiber.Map{
		"message":        "Panchayath deleted successfully",
		"agents_deleted": agentCount,
	})
}
