package controllers

import (
	"fmt"
	"panchayath_go/database"
	"panchayath_go/middleware"
	"panchayath_go/models"
	"panchayath_go/services/changefeed"
	"panchayath_go/services/hierarchy"
	"panchayath_go/utils"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type AgentController struct{}

// validateSuperior checks that a proposed superior carries exactly the
// expected parent role for the agent's role. A missing superior is
// always acceptable; the agent simply renders as unassigned.
// Cross-panchayath superiors are not rejected.
func validateSuperior(role string, superior *models.Agent) error {
	if superior == nil {
		return nil
	}
	expected := utils.ParentRole(role)
	if expected == "" {
		return fmt.Errorf("%s cannot have a superior", utils.DisplayRole(role))
	}
	if superior.Role != expected {
		return fmt.Errorf("superior of a %s must be a %s", utils.DisplayRole(role), utils.DisplayRole(expected))
	}
	return nil
}

type agentRequest struct {
	Name         string `json:"name"`
	Role         string `json:"role"`
	PanchayathID uint   `json:"panchayath_id"`
	SuperiorID   *uint  `json:"superior_id"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Ward         string `json:"ward"`
}

// GetAgents returns agents, filterable by panchayath and role
func (ac *AgentController) GetAgents(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Agent{})

	if pid := c.Query("panchayath_id"); pid != "" {
		query = query.Where("panchayath_id = ?", pid)
	}
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var agents []models.Agent
	if err := query.Find(&agents).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch agents",
		})
	}

	return c.JSON(fiber.Map{
		"agents": agents,
		"total":  len(agents),
	})
}

// GetAgent returns a specific agent by ID
func (ac *AgentController) GetAgent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid agent ID",
		})
	}

	var agent models.Agent
	if err := database.DB.Preload("Panchayath").First(&agent, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Agent not found",
		})
	}

	return c.JSON(fiber.Map{
		"agent": agent,
	})
}

// GetChildren returns all agents whose superior reference equals the
// given agent ID.
func (ac *AgentController) GetChildren(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid agent ID",
		})
	}

	var children []models.Agent
	if err := database.DB.Where("superior_id = ?", uint(id)).Find(&children).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch subordinates",
		})
	}

	return c.JSON(fiber.Map{
		"agents": children,
		"total":  len(children),
	})
}

// CreateAgent creates a new agent
func (ac *AgentController) CreateAgent(c *fiber.Ctx) error {
	var req agentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	req.Name = utils.SanitizeString(req.Name)
	if req.Name == "" || req.PanchayathID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name and panchayath are required",
		})
	}
	if !utils.IsValidAgentRole(req.Role) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid role",
		})
	}
	if req.Phone != "" && !utils.IsValidMobileNumber(req.Phone) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid mobile number",
		})
	}

	var panchayath models.Panchayath
	if err := database.DB.First(&panchayath, req.PanchayathID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Panchayath not found",
		})
	}

	var superior *models.Agent
	if req.SuperiorID != nil {
		var sup models.Agent
		if err := database.DB.First(&sup, *req.SuperiorID).Error; err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Superior not found",
			})
		}
		superior = &sup
	}
	if err := validateSuperior(req.Role, superior); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	agent := models.Agent{
		Name:         req.Name,
		Role:         req.Role,
		PanchayathID: req.PanchayathID,
		SuperiorID:   req.SuperiorID,
		Phone:        req.Phone,
		Email:        req.Email,
		Ward:         req.Ward,
	}

	if err := database.DB.Create(&agent).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to add agent",
		})
	}

	changefeed.Publish("agents", changefeed.EventInsert, agent.ID)
	middleware.LogActivity(c, "CREATE", "agents", agent.ID, agent)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Agent created successfully",
		"agent":   agent,
	})
}

// UpdateAgent updates an existing agent
func (ac *AgentController) UpdateAgent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid agent ID",
		})
	}

	var agent models.Agent
	if err := database.DB.First(&agent, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Agent not found",
		})
	}

	var req agentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Role != "" && !utils.IsValidAgentRole(req.Role) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid role",
		})
	}
	if req.Phone != "" && !utils.IsValidMobileNumber(req.Phone) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid mobile number",
		})
	}

	role := agent.Role
	if req.Role != "" {
		role = req.Role
	}
	if req.SuperiorID != nil {
		var sup models.Agent
		if err := database.DB.First(&sup, *req.SuperiorID).Error; err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Superior not found",
			})
		}
		if err := validateSuperior(role, &sup); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = utils.SanitizeString(req.Name)
	}
	if req.Role != "" {
		updates["role"] = req.Role
	}
	if req.SuperiorID != nil {
		updates["superior_id"] = *req.SuperiorID
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Ward != "" {
		updates["ward"] = req.Ward
	}

	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No fields to update",
		})
	}

	if err := database.DB.Model(&agent).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update agent",
		})
	}

	changefeed.Publish("agents", changefeed.EventUpdate, agent.ID)
	middleware.LogActivity(c, "UPDATE", "agents", agent.ID, updates)

	return c.JSON(fiber.Map{
		"message": "Agent updated successfully",
		"agent":   agent,
	})
}

// DeleteAgent deletes an agent. Subordinates are NOT cascaded or
// reparented; their superior reference is left dangling and they render
// as unassigned. The response reports how many are affected.
func (ac *AgentController) DeleteAgent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid agent ID",
		})
	}

	var agent models.Agent
	if err := database.DB.First(&agent, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Agent not found",
		})
	}

	var subordinateCount int64
	database.DB.Model(&models.Agent{}).Where("superior_id = ?", agent.ID).Count(&subordinateCount)

	if err := database.DB.Delete(&agent).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete agent",
		})
	}

	changefeed.Publish("agents", changefeed.EventDelete, agent.ID)
	middleware.LogActivity(c, "DELETE", "agents", agent.ID, fiber.Map{
		"name":         agent.Name,
		"subordinates": subordinateCount,
	})

	return c.JSON(fiber.Map{
		"message":      fmt.Sprintf("Agent deleted. %d subordinates will become unassigned.", subordinateCount),
		"subordinates": subordinateCount,
	})
}

// GetHierarchy returns the assembled forest for a panchayath: nested
// tree, per-role summary, and agents with unresolved superiors.
func (ac *AgentController) GetHierarchy(c *fiber.Ctx) error {
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

	var agents []models.Agent
	if err := database.DB.Where("panchayath_id = ?", panchayath.ID).Order("id ASC").Find(&agents).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch agents",
		})
	}

	forest := hierarchy.NewForest(agents)

	return c.JSON(fiber.Map{
		"panchayath": panchayath,
		"tree":       forest.Tree(),
		"summary":    forest.Summary(),
		"unassigned": forest.Orphans(),
		"total":      forest.Len(),
	})
}
