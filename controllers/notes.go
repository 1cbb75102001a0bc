package controllers

import (
	"strconv"

	"panchayath_go/database"
	"panchayath_go/middleware"
	"panchayath_go/models"
	"panchayath_go/services/changefeed"
	"panchayath_go/utils"

	"github.com/gofiber/fiber/v2"
)

// NoteController manages free-text log entries attached to panchayaths.
type NoteController struct{}

// POST /api/panchayaths/:id/notes
func (nc *NoteController) CreateNote(c *fiber.Ctx) error {
	claims, err := middleware.GetCurrentClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid panchayath ID"})
	}

	var panchayath models.Panchayath
	if err := database.DB.First(&panchayath, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Panchayath not found"})
	}

	var req struct {
		Note string `json:"note"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	req.Note = utils.SanitizeString(req.Note)
	if req.Note == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Note is required"})
	}

	note := models.PanchayathNote{
		PanchayathID: panchayath.ID,
		Note:         req.Note,
		CreatedBy:    claims.Name,
	}
	if err := database.DB.Create(&note).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create note"})
	}

	changefeed.Publish("panchayath_notes", changefeed.EventInsert, note.ID)
	middleware.LogActivity(c, "CREATE", "panchayath_notes", note.ID, fiber.Map{"panchayath_id": panchayath.ID})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Note created successfully",
		"note":    note,
	})
}

// GET /api/panchayaths/:id/notes
// Newest first.
func (nc *NoteController) GetNotes(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid panchayath ID"})
	}

	var panchayath models.Panchayath
	if err := database.DB.First(&panchayath, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Panchayath not found"})
	}

	var notes []models.PanchayathNote
	if err := database.DB.Where("panchayath_id = ?", panchayath.ID).
		Order("created_at DESC").Find(&notes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch notes"})
	}
	return c.JSON(fiber.Map{"notes": notes, "total": len(notes)})
}
