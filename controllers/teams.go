package controllers

import (
	"strconv"

	"panchayath_go/database"
	"panchayath_go/middleware"
	"panchayath_go/models"
	"panchayath_go/services/changefeed"
	"panchayath_go/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TeamController manages management teams and their agent rosters.
type TeamController struct{}

type teamRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	TeamPassword string `json:"team_password"`
}

// GET /api/teams
func (tc *TeamController) GetTeams(c *fiber.Ctx) error {
	var teams []models.ManagementTeam
	if err := database.DB.Preload("Members.Agent").Order("name ASC").Find(&teams).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch teams"})
	}
	return c.JSON(fiber.Map{"teams": teams, "total": len(teams)})
}

// GET /api/teams/:id
func (tc *TeamController) GetTeam(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid team ID"})
	}

	var team models.ManagementTeam
	if err := database.DB.Preload("Members.Agent").First(&team, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Team not found"})
	}
	return c.JSON(fiber.Map{"team": team})
}

// POST /api/teams
func (tc *TeamController) CreateTeam(c *fiber.Ctx) error {
	var req teamRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	req.Name = utils.SanitizeString(req.Name)
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Team name is required"})
	}
	if req.TeamPassword == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Team password is required"})
	}

	var existing models.ManagementTeam
	if err := database.DB.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Team name already exists"})
	}

	hash, err := utils.HashPassword(req.TeamPassword)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create team"})
	}

	team := models.ManagementTeam{
		Name:         req.Name,
		Description:  utils.SanitizeString(req.Description),
		TeamPassword: hash,
	}
	if err := database.DB.Create(&team).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create team"})
	}

	changefeed.Publish("management_teams", changefeed.EventInsert, team.ID)
	middleware.LogActivity(c, "CREATE", "management_teams", team.ID, fiber.Map{"name": team.Name})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Team created successfully",
		"team":    team,
	})
}

// PUT /api/teams/:id
func (tc *TeamController) UpdateTeam(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid team ID"})
	}

	var team models.ManagementTeam
	if err := database.DB.First(&team, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Team not found"})
	}

	var req teamRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	updates := make(map[string]interface{})
	if name := utils.SanitizeString(req.Name); name != "" && name != team.Name {
		var existing models.ManagementTeam
		if err := database.DB.Where("name = ? AND id != ?", name, team.ID).First(&existing).Error; err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Team name already exists"})
		}
		updates["name"] = name
	}
	if req.Description != "" {
		updates["description"] = utils.SanitizeString(req.Description)
	}
	if req.TeamPassword != "" {
		hash, err := utils.HashPassword(req.TeamPassword)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update team"})
		}
		updates["team_password"] = hash
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&team).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update team"})
		}
	}

	changefeed.Publish("management_teams", changefeed.EventUpdate, team.ID)
	middleware.LogActivity(c, "UPDATE", "management_teams", team.ID, updates)

	return c.JSON(fiber.Map{"message": "Team updated successfully", "team": team})
}

// DELETE /api/teams/:id
func (tc *TeamController) DeleteTeam(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid team ID"})
	}

	var team models.ManagementTeam
	if err := database.DB.First(&team, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Team not found"})
	}

	database.DB.Where("team_id = ?", team.ID).Delete(&models.ManagementTeamMember{})
	if err := database.DB.Delete(&team).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete team"})
	}

	changefeed.Publish("management_teams", changefeed.EventDelete, team.ID)
	middleware.LogActivity(c, "DELETE", "management_teams", team.ID, fiber.Map{"name": team.Name})

	return c.JSON(fiber.Map{"message": "Team deleted successfully"})
}

// GET /api/teams/:id/members
func (tc *TeamController) GetMembers(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid team ID"})
	}

	var team models.ManagementTeam
	if err := database.DB.First(&team, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Team not found"})
	}

	var members []models.ManagementTeamMember
	if err := database.DB.Preload("Agent").Where("team_id = ?", team.ID).Find(&members).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch members"})
	}
	return c.JSON(fiber.Map{"members": members, "total": len(members)})
}

// POST /api/teams/:id/members
func (tc *TeamController) AddMember(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid team ID"})
	}

	var team models.ManagementTeam
	if err := database.DB.First(&team, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Team not found"})
	}

	var req struct {
		AgentID uint `json:"agent_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.AgentID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "agent_id is required"})
	}

	var agent models.Agent
	if err := database.DB.First(&agent, req.AgentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Agent not found"})
	}

	// The unique index on (team_id, agent_id) backstops this check.
	var existing models.ManagementTeamMember
	err = database.DB.Where("team_id = ? AND agent_id = ?", team.ID, agent.ID).First(&existing).Error
	if err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Agent already in team"})
	}
	if err != gorm.ErrRecordNotFound {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to add member"})
	}

	member := models.ManagementTeamMember{TeamID: team.ID, AgentID: agent.ID}
	if err := database.DB.Create(&member).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Agent already in team"})
	}

	changefeed.Publish("management_team_members", changefeed.EventInsert, member.ID)
	middleware.LogActivity(c, "CREATE", "management_team_members", member.ID, fiber.Map{
		"team_id":  team.ID,
		"agent_id": agent.ID,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Member added successfully",
		"member":  member,
	})
}

// DELETE /api/teams/:id/members/:agentId
func (tc *TeamController) RemoveMember(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid team ID"})
	}
	agentID, err := strconv.ParseUint(c.Params("agentId"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid agent ID"})
	}

	var member models.ManagementTeamMember
	if err := database.DB.Where("team_id = ? AND agent_id = ?", uint(id), uint(agentID)).First(&member).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Member not found"})
	}

	if err := database.DB.Delete(&member).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to remove member"})
	}

	changefeed.Publish("management_team_members", changefeed.EventDelete, member.ID)
	middleware.LogActivity(c, "DELETE", "management_team_members", member.ID, fiber.Map{
		"team_id":  uint(id),
		"agent_id": uint(agentID),
	})

	return c.JSON(fiber.Map{"message": "Member removed successfully"})
}
