package controllers

import (
	"strconv"
	"time"

	"panchayath_go/database"
	"panchayath_go/middleware"
	"panchayath_go/models"
	"panchayath_go/services/changefeed"
	"panchayath_go/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm/clause"
)

// ActivityController records agents' daily work logs. Each agent has at
// most one entry per calendar date; resubmitting replaces the text.
type ActivityController struct{}

type activityRequest struct {
	AgentID             uint   `json:"agent_id"`
	MobileNumber        string `json:"mobile_number"`
	ActivityDate        string `json:"activity_date"` // YYYY-MM-DD, defaults to today
	ActivityDescription string `json:"activity_description"`
}

// resolveActivityDate parses the optional YYYY-MM-DD override, defaulting
// to today's date in the server's timezone. Truncating the wall clock to
// a day boundary would shift evening submissions onto the UTC date.
func resolveActivityDate(raw string, now time.Time) (time.Time, error) {
	if raw != "" {
		return time.Parse("2006-01-02", raw)
	}
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
}

// activityUpsertClause makes a resubmission for the same (agent, date)
// overwrite the existing row.
func activityUpsertClause() clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "agent_id"}, {Name: "activity_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"mobile_number", "activity_description", "updated_at"}),
	}
}

// POST /api/activities
func (ac *ActivityController) SubmitActivity(c *fiber.Ctx) error {
	var req activityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.AgentID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "agent_id is required"})
	}
	req.ActivityDescription = utils.SanitizeString(req.ActivityDescription)
	if req.ActivityDescription == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Activity description is required"})
	}
	if req.MobileNumber != "" && !utils.IsValidMobileNumber(req.MobileNumber) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid mobile number"})
	}

	var agent models.Agent
	if err := database.DB.First(&agent, req.AgentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Agent not found"})
	}

	activityDate, err := resolveActivityDate(req.ActivityDate, time.Now())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid activity_date, expected YYYY-MM-DD"})
	}

	mobile := req.MobileNumber
	if mobile == "" {
		mobile = agent.Phone
	}

	activity := models.DailyActivity{
		AgentID:             agent.ID,
		MobileNumber:        mobile,
		ActivityDate:        activityDate,
		ActivityDescription: req.ActivityDescription,
	}

	// One row per (agent, date): a resubmission overwrites in place.
	if err := database.DB.Clauses(activityUpsertClause()).Create(&activity).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save activity"})
	}

	changefeed.Publish("daily_activities", changefeed.EventInsert, activity.ID)
	middleware.LogActivity(c, "CREATE", "daily_activities", activity.ID, fiber.Map{
		"agent_id": agent.ID,
		"date":     activityDate.Format("2006-01-02"),
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Activity recorded successfully",
		"activity": activity,
	})
}

// GET /api/activities
// Optional filters: agent_id, from, to (YYYY-MM-DD)
func (ac *ActivityController) GetActivities(c *fiber.Ctx) error {
	query := database.DB.Model(&models.DailyActivity{}).Preload("Agent")

	if agentID := c.Query("agent_id"); agentID != "" {
		query = query.Where("agent_id = ?", agentID)
	}
	if from := c.Query("from"); from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid from date"})
		}
		query = query.Where("activity_date >= ?", parsed)
	}
	if to := c.Query("to"); to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid to date"})
		}
		query = query.Where("activity_date <= ?", parsed)
	}

	var activities []models.DailyActivity
	if err := query.Order("activity_date DESC").Find(&activities).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch activities"})
	}
	return c.JSON(fiber.Map{"activities": activities, "total": len(activities)})
}

// GET /api/agents/:id/activities
func (ac *ActivityController) GetAgentActivities(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid agent ID"})
	}

	var agent models.Agent
	if err := database.DB.First(&agent, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Agent not found"})
	}

	var activities []models.DailyActivity
	if err := database.DB.Where("agent_id = ?", agent.ID).
		Order("activity_date DESC").Find(&activities).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch activities"})
	}
	return c.JSON(fiber.Map{"activities": activities, "total": len(activities)})
}
