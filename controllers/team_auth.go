package controllers

import (
	"panchayath_go/database"
	"panchayath_go/middleware"
	"panchayath_go/models"
	"panchayath_go/utils"

	"github.com/gofiber/fiber/v2"
)

// TeamAuthController handles management-team member login: team
// password plus a mobile number that must belong to some agent.
type TeamAuthController struct{}

type teamLoginRequest struct {
	TeamID       uint   `json:"team_id" validate:"required"`
	TeamPassword string `json:"team_password" validate:"required"`
	MobileNumber string `json:"mobile_number" validate:"required"`
}

// Login authenticates a team member and returns a JWT token
func (tc *TeamAuthController) Login(c *fiber.Ctx) error {
	var req teamLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if !utils.IsValidMobileNumber(req.MobileNumber) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid mobile number",
		})
	}

	var team models.ManagementTeam
	if err := database.DB.First(&team, req.TeamID).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	if team.TeamPassword == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Team login is not enabled for this team",
		})
	}
	if err := utils.CheckPassword(req.TeamPassword, team.TeamPassword); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	// The mobile number must exist as some agent's phone
	var agent models.Agent
	if err := database.DB.Where("phone = ?", req.MobileNumber).First(&agent).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	token, err := middleware.GenerateTeamToken(&team, &agent)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user": fiber.Map{
			"id":        agent.ID,
			"name":      agent.Name,
			"mobile":    agent.Phone,
			"role":      models.RoleTeamMember,
			"team_id":   team.ID,
			"team_name": team.Name,
		},
	})
}
