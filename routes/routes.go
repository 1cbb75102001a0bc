package routes

import (
	"panchayath_go/controllers"
	"panchayath_go/middleware"
	"panchayath_go/services"
	"panchayath_go/services/websocket"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App, wsHub *websocket.Hub, healthService *services.HealthService) {
	authController := &controllers.AuthController{}
	guestAuthController := &controllers.GuestAuthController{}
	teamAuthController := &controllers.TeamAuthController{}
	registrationController := &controllers.RegistrationController{}
	panchayathController := &controllers.PanchayathController{}
	agentController := &controllers.AgentController{}
	importController := &controllers.HierarchyImportController{}
	exportController := &controllers.HierarchyExportController{}
	teamController := &controllers.TeamController{}
	taskController := &controllers.TaskController{}
	activityController := &controllers.ActivityController{}
	ratingController := &controllers.RatingController{}
	noteController := &controllers.NoteController{}
	dashboardController := &controllers.DashboardController{}
	notificationController := &controllers.NotificationController{}
	logController := &controllers.LogController{}
	healthController := controllers.NewHealthController(healthService)
	wsController := controllers.NewWebSocketController(wsHub)

	// API group
	api := app.Group("/api")

	api.Get("/health", healthController.GetHealthStatus)

	// Authentication routes (no middleware)
	auth := api.Group("/auth")
	auth.Post("/login", authController.Login)
	auth.Post("/guest/register", guestAuthController.Register)
	auth.Post("/guest/login", guestAuthController.Login)
	auth.Post("/team/login", teamAuthController.Login)
	auth.Get("/profile", middleware.JWTMiddleware(), authController.GetProfile)

	// Protected routes (require authentication)
	protected := api.Group("/", middleware.JWTMiddleware())

	protected.Get("/profile", authController.GetProfile)
	protected.Put("/profile/password", middleware.RequireAdmin(), authController.ChangePassword)
	protected.Post("/auth/logout", authController.Logout)

	// Admin account management (super admin only)
	users := protected.Group("/users", middleware.RequireSuperAdmin())
	users.Post("/", authController.Register)

	// Registration request workflow (admin only)
	registrations := protected.Group("/registrations", middleware.RequireAdmin())
	registrations.Get("/", registrationController.GetRegistrations)
	registrations.Patch("/:id/approve", registrationController.Approve)
	registrations.Patch("/:id/reject", registrationController.Reject)
	registrations.Put("/:id", registrationController.UpdateRegistration)

	// Panchayath management
	panchayaths := protected.Group("/panchayaths")
	panchayaths.Get("/", panchayathController.GetPanchayaths)
	panchayaths.Get("/:id", panchayathController.GetPanchayath)
	panchayaths.Post("/", middleware.RequireAdmin(), panchayathController.CreatePanchayath)
	panchayaths.Put("/:id", middleware.RequireAdmin(), panchayathController.UpdatePanchayath)
	panchayaths.Delete("/:id", middleware.RequireAdmin(), panchayathController.DeletePanchayath)

	// Hierarchy views and round-trip import/export
	panchayaths.Get("/:id/hierarchy", agentController.GetHierarchy)
	panchayaths.Post("/:id/import", middleware.RequireAdmin(), importController.Import)
	panchayaths.Get("/:id/export/xlsx", exportController.ExportExcel)
	panchayaths.Get("/:id/export/txt", exportController.ExportText)
	panchayaths.Get("/:id/export/html", exportController.ExportHTML)

	// Panchayath notes
	panchayaths.Get("/:id/notes", noteController.GetNotes)
	panchayaths.Post("/:id/notes", middleware.RequireAdmin(), noteController.CreateNote)

	// Agent management
	agents := protected.Group("/agents")
	agents.Get("/", agentController.GetAgents)
	agents.Get("/:id", agentController.GetAgent)
	agents.Get("/:id/children", agentController.GetChildren)
	agents.Post("/", middleware.RequireAdmin(), agentController.CreateAgent)
	agents.Put("/:id", middleware.RequireAdmin(), agentController.UpdateAgent)
	agents.Delete("/:id", middleware.RequireAdmin(), agentController.DeleteAgent)

	// Agent activities and ratings
	agents.Get("/:id/activities", activityController.GetAgentActivities)
	agents.Get("/:id/ratings", ratingController.GetAgentRatings)
	agents.Post("/:id/ratings", ratingController.RateAgent)

	// Daily activity reporting
	activities := protected.Group("/activities")
	activities.Get("/", activityController.GetActivities)
	activities.Post("/", activityController.SubmitActivity)

	// Management team routes
	teams := protected.Group("/teams")
	teams.Get("/", teamController.GetTeams)
	teams.Get("/:id", teamController.GetTeam)
	teams.Post("/", middleware.RequireAdmin(), teamController.CreateTeam)
	teams.Put("/:id", middleware.RequireAdmin(), teamController.UpdateTeam)
	teams.Delete("/:id", middleware.RequireAdmin(), teamController.DeleteTeam)
	teams.Get("/:id/members", teamController.GetMembers)
	teams.Post("/:id/members", middleware.RequireAdmin(), teamController.AddMember)
	teams.Delete("/:id/members/:agentId", middleware.RequireAdmin(), teamController.RemoveMember)

	// Task management
	tasks := protected.Group("/tasks")
	tasks.Get("/", taskController.GetTasks)
	tasks.Get("/:id", taskController.GetTask)
	tasks.Post("/", middleware.RequireAdmin(), taskController.CreateTask)
	tasks.Put("/:id", taskController.UpdateTask)
	tasks.Delete("/:id", middleware.RequireAdmin(), taskController.DeleteTask)
	tasks.Get("/:id/remarks", taskController.GetRemarks)
	tasks.Post("/:id/remarks", taskController.AddRemark)

	// Dashboard stats (admin only)
	protected.Get("/dashboard", middleware.RequireAdmin(), dashboardController.GetStats)

	// Notification management routes
	notifications := protected.Group("/notifications")
	notifications.Get("/", notificationController.GetNotifications)
	notifications.Get("/unread-count", notificationController.GetUnreadCount)
	notifications.Patch("/:id/read", notificationController.MarkAsRead)
	notifications.Patch("/mark-all-read", notificationController.MarkAllAsRead)
	notifications.Delete("/:id", notificationController.DeleteNotification)

	// Log management routes (admin only)
	logs := protected.Group("/logs", middleware.RequireAdmin())
	logs.Get("/", logController.GetLogs)
	logs.Get("/stats", logController.GetLogStats)
	logs.Post("/flush-cache", logController.FlushCachedLogs)

	// WebSocket routes
	ws := protected.Group("/ws")
	ws.Get("/stats", middleware.RequireAdmin(), wsController.GetWebSocketStats)

	// WebSocket connection endpoint - use websocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if fiberws.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", wsController.WebSocketHandler())
}
