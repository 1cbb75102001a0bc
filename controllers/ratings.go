package controllers

import (
	"strconv"

	"panchayath_go/database"
	"panchayath_go/middleware"
	"panchayath_go/models"
	"panchayath_go/services/changefeed"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm/clause"
)

// RatingController records 1-5 star ratings of agents. Each rater holds
// one rating per agent; rating again overwrites the earlier value.
type RatingController struct{}

// ratingUpsertClause makes re-rating by the same rater overwrite the
// existing (agent, rater) row.
func ratingUpsertClause() clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "agent_id"}, {Name: "rated_by"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
	}
}

// POST /api/agents/:id/ratings
func (rc *RatingController) RateAgent(c *fiber.Ctx) error {
	claims, err := middleware.GetCurrentClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid agent ID"})
	}

	var agent models.Agent
	if err := database.DB.First(&agent, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Agent not found"})
	}

	var req struct {
		Rating int `json:"rating"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Rating must be between 1 and 5"})
	}

	rating := models.AgentRating{
		AgentID: agent.ID,
		RatedBy: claims.Name,
		Rating:  req.Rating,
	}

	// One rating per (agent, rater): re-rating overwrites.
	if err := database.DB.Clauses(ratingUpsertClause()).Create(&rating).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save rating"})
	}

	changefeed.Publish("agent_ratings", changefeed.EventInsert, rating.ID)
	middleware.LogActivity(c, "CREATE", "agent_ratings", rating.ID, fiber.Map{
		"agent_id": agent.ID,
		"rating":   req.Rating,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Rating saved successfully",
		"rating":  rating,
	})
}

// GET /api/agents/:id/ratings
// Returns individual ratings plus the average.
func (rc *RatingController) GetAgentRatings(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid agent ID"})
	}

	var agent models.Agent
	if err := database.DB.First(&agent, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Agent not found"})
	}

	var ratings []models.AgentRating
	if err := database.DB.Where("agent_id = ?", agent.ID).
		Order("updated_at DESC").Find(&ratings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch ratings"})
	}

	average := 0.0
	if len(ratings) > 0 {
		sum := 0
		for _, r := range ratings {
			sum += r.Rating
		}
		average = float64(sum) / float64(len(ratings))
	}

	return c.JSON(fiber.Map{
		"ratings": ratings,
		"average": average,
		"total":   len(ratings),
	})
}
