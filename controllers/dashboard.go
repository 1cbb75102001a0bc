package controllers

import (
	"panchayath_go/database"
	"panchayath_go/models"
	"panchayath_go/utils"

	"github.com/gofiber/fiber/v2"
)

// DashboardController aggregates the counters shown on the admin
// landing page.
type DashboardController struct{}

// GET /api/dashboard
func (dc *DashboardController) GetStats(c *fiber.Ctx) error {
	var panchayaths int64
	database.DB.Model(&models.Panchayath{}).Count(&panchayaths)

	var totalAgents int64
	database.DB.Model(&models.Agent{}).Count(&totalAgents)

	agentsByRole := make(map[string]int64)
	for _, role := range []string{
		models.RoleCoordinator,
		models.RoleSupervisor,
		models.RoleGroupLeader,
		models.RolePro,
	} {
		var count int64
		database.DB.Model(&models.Agent{}).Where("role = ?", role).Count(&count)
		agentsByRole[utils.DisplayRole(role)] = count
	}

	var teams int64
	database.DB.Model(&models.ManagementTeam{}).Count(&teams)

	tasksByStatus := make(map[string]int64)
	for _, status := range []string{"pending", "completed", "cancelled"} {
		var count int64
		database.DB.Model(&models.Task{}).Where("status = ?", status).Count(&count)
		tasksByStatus[status] = count
	}

	var pendingRegistrations int64
	database.DB.Model(&models.RegistrationRequest{}).
		Where("status = ?", "pending").Count(&pendingRegistrations)

	var activitiesToday int64
	database.DB.Model(&models.DailyActivity{}).
		Where("activity_date = CURDATE()").Count(&activitiesToday)

	return c.JSON(fiber.Map{
		"panchayaths":           panchayaths,
		"agents_total":          totalAgents,
		"agents_by_role":        agentsByRole,
		"teams":                 teams,
		"tasks_by_status":       tasksByStatus,
		"pending_registrations": pendingRegistrations,
		"activities_today":      activitiesToday,
	})
}
