package controllers

import (
	"errors"
	"strconv"
	"time"

	"panchayath_go/database"
	"panchayath_go/middleware"
	"panchayath_go/models"
	"panchayath_go/services/changefeed"
	"panchayath_go/services/notifications"
	"panchayath_go/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TaskController manages tasks and their append-only remark trail.
// A task is allocated to exactly one assignee: an agent or a team.
type TaskController struct{}

type taskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	AgentID     *uint      `json:"agent_id"`
	TeamID      *uint      `json:"team_id"`
	DueDate     *time.Time `json:"due_date"`
}

var errAllocation = errors.New("task must be assigned to exactly one of agent or team")

// validateAllocation enforces the exactly-one-assignee rule.
func validateAllocation(agentID, teamID *uint) error {
	if agentID == nil && teamID == nil {
		return errAllocation
	}
	if agentID != nil && teamID != nil {
		return errAllocation
	}
	return nil
}

// GET /api/tasks
// Optional filters: status, priority, agent_id, team_id
func (tc *TaskController) GetTasks(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Task{}).
		Preload("Agent").Preload("Team")

	if status := c.Query("status"); status != "" {
		if !utils.IsValidTaskStatus(status) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid status filter"})
		}
		query = query.Where("status = ?", status)
	}
	if priority := c.Query("priority"); priority != "" {
		query = query.Where("priority = ?", priority)
	}
	if agentID := c.Query("agent_id"); agentID != "" {
		query = query.Where("agent_id = ?", agentID)
	}
	if teamID := c.Query("team_id"); teamID != "" {
		query = query.Where("team_id = ?", teamID)
	}

	var tasks []models.Task
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch tasks"})
	}
	return c.JSON(fiber.Map{"tasks": tasks, "total": len(tasks)})
}

// GET /api/tasks/:id
func (tc *TaskController) GetTask(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	var task models.Task
	if err := database.DB.Preload("Agent").Preload("Team.Members.Agent").
		Preload("Remarks", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&task, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}
	return c.JSON(fiber.Map{"task": task})
}

// POST /api/tasks
func (tc *TaskController) CreateTask(c *fiber.Ctx) error {
	claims, err := middleware.GetCurrentClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req taskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	req.Title = utils.SanitizeString(req.Title)
	if req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Title is required"})
	}
	if err := validateAllocation(req.AgentID, req.TeamID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Priority == "" {
		req.Priority = "normal"
	}
	if !utils.IsValidTaskPriority(req.Priority) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid priority"})
	}

	assignee := ""
	if req.AgentID != nil {
		var agent models.Agent
		if err := database.DB.First(&agent, *req.AgentID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Agent not found"})
		}
		assignee = agent.Name
	} else {
		var team models.ManagementTeam
		if err := database.DB.First(&team, *req.TeamID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Team not found"})
		}
		assignee = team.Name
	}

	task := models.Task{
		Title:       req.Title,
		Description: utils.SanitizeString(req.Description),
		Priority:    req.Priority,
		Status:      "pending",
		AgentID:     req.AgentID,
		TeamID:      req.TeamID,
		DueDate:     req.DueDate,
		CreatedBy:   claims.PrincipalID,
	}
	if err := database.DB.Create(&task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create task"})
	}

	notifications.NewService().NotifyAdmins(
		"New Task Assigned",
		"Task \""+task.Title+"\" assigned to "+assignee,
		"info",
	)
	changefeed.Publish("tasks", changefeed.EventInsert, task.ID)
	middleware.LogActivity(c, "CREATE", "tasks", task.ID, fiber.Map{"title": task.Title})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Task created successfully",
		"task":    task,
	})
}

// PUT /api/tasks/:id
// Status moves freely between pending, completed and cancelled; there
// is no transition graph.
func (tc *TaskController) UpdateTask(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	var task models.Task
	if err := database.DB.First(&task, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}

	var req struct {
		taskRequest
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	updates := make(map[string]interface{})
	if title := utils.SanitizeString(req.Title); title != "" {
		updates["title"] = title
	}
	if req.Description != "" {
		updates["description"] = utils.SanitizeString(req.Description)
	}
	if req.Priority != "" {
		if !utils.IsValidTaskPriority(req.Priority) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid priority"})
		}
		updates["priority"] = req.Priority
	}
	if req.Status != "" {
		if !utils.IsValidTaskStatus(req.Status) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid status"})
		}
		updates["status"] = req.Status
	}
	if req.DueDate != nil {
		updates["due_date"] = req.DueDate
	}

	// Reassignment must still land on exactly one assignee.
	if req.AgentID != nil || req.TeamID != nil {
		if err := validateAllocation(req.AgentID, req.TeamID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		updates["agent_id"] = req.AgentID
		updates["team_id"] = req.TeamID
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&task).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update task"})
		}
	}

	changefeed.Publish("tasks", changefeed.EventUpdate, task.ID)
	middleware.LogActivity(c, "UPDATE", "tasks", task.ID, updates)

	return c.JSON(fiber.Map{"message": "Task updated successfully", "task": task})
}

// DELETE /api/tasks/:id
func (tc *TaskController) DeleteTask(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	var task models.Task
	if err := database.DB.First(&task, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}

	database.DB.Where("task_id = ?", task.ID).Delete(&models.TaskRemark{})
	if err := database.DB.Delete(&task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete task"})
	}

	changefeed.Publish("tasks", changefeed.EventDelete, task.ID)
	middleware.LogActivity(c, "DELETE", "tasks", task.ID, fiber.Map{"title": task.Title})

	return c.JSON(fiber.Map{"message": "Task deleted successfully"})
}

// GET /api/tasks/:id/remarks
func (tc *TaskController) GetRemarks(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	var remarks []models.TaskRemark
	if err := database.DB.Where("task_id = ?", uint(id)).
		Order("created_at ASC").Find(&remarks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch remarks"})
	}
	return c.JSON(fiber.Map{"remarks": remarks, "total": len(remarks)})
}

// POST /api/tasks/:id/remarks
// Remarks are append-only: there is no update or delete.
func (tc *TaskController) AddRemark(c *fiber.Ctx) error {
	claims, err := middleware.GetCurrentClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	var task models.Task
	if err := database.DB.First(&task, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}

	var req struct {
		Remark string `json:"remark"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	req.Remark = utils.SanitizeString(req.Remark)
	if req.Remark == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Remark is required"})
	}

	remark := models.TaskRemark{
		TaskID:    task.ID,
		Remark:    req.Remark,
		UpdatedBy: claims.Name,
	}
	if err := database.DB.Create(&remark).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to add remark"})
	}

	changefeed.Publish("task_remarks", changefeed.EventInsert, remark.ID)
	middleware.LogActivity(c, "CREATE", "task_remarks", remark.ID, fiber.Map{"task_id": task.ID})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Remark added successfully",
		"remark":  remark,
	})
}
