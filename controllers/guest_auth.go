package controllers

import (
	"panchayath_go/database"
	"panchayath_go/middleware"
	"panchayath_go/models"
	"panchayath_go/services/changefeed"
	"panchayath_go/services/notifications"
	"panchayath_go/utils"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// GuestAuthController handles guest self-registration and login.
// A registration request must be approved by an admin before a guest
// login with the same username and mobile number succeeds.
type GuestAuthController struct{}

type guestRegisterRequest struct {
	Username     string `json:"username" validate:"required,min=3,max=50"`
	MobileNumber string `json:"mobile_number" validate:"required"`
}

// Register creates a pending registration request (public endpoint)
func (gc *GuestAuthController) Register(c *fiber.Ctx) error {
	var req guestRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	req.Username = utils.SanitizeString(req.Username)
	if req.Username == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Username is required",
		})
	}
	if !utils.IsValidMobileNumber(req.MobileNumber) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid mobile number",
		})
	}

	// Duplicate username or mobile gets a distinct conflict message
	var existing models.RegistrationRequest
	if err := database.DB.Where("username = ? OR mobile_number = ?", req.Username, req.MobileNumber).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Username or mobile number already registered",
		})
	}

	request := models.RegistrationRequest{
		Username:     req.Username,
		MobileNumber: req.MobileNumber,
		Status:       "pending",
	}
	if err := database.DB.Create(&request).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to submit registration request",
		})
	}

	changefeed.Publish("registration_requests", changefeed.EventInsert, request.ID)
	if err := notifications.NewService().NotifyAdmins(
		"New guest registration",
		"Guest registration request from "+request.Username+" is awaiting approval",
		"info",
	); err != nil {
		// Notification failure must not fail the registration
		middleware.LogActivity(c, "CREATE", "registration_requests", request.ID, fiber.Map{"notify_error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration request submitted. An admin must approve it before you can log in.",
		"request": fiber.Map{
			"id":       request.ID,
			"username": request.Username,
			"status":   request.Status,
		},
	})
}

// guestLoginGate maps a registration status to the rejection response.
// Only approved requests may log in: pending gets a distinct response so
// the client can say so, while rejected (or any unknown status) is
// indistinguishable from bad credentials. A zero code means proceed.
func guestLoginGate(status string) (int, fiber.Map) {
	switch status {
	case "approved":
		return 0, nil
	case "pending":
		return fiber.StatusForbidden, fiber.Map{
			"status": "pending",
			"error":  "Registration is pending approval",
		}
	default:
		return fiber.StatusUnauthorized, fiber.Map{"error": "Invalid credentials"}
	}
}

// Login authenticates a guest against an approved registration request
func (gc *GuestAuthController) Login(c *fiber.Ctx) error {
	var req guestRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	var request models.RegistrationRequest
	if err := database.DB.Where("username = ? AND mobile_number = ?", req.Username, req.MobileNumber).First(&request).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	if code, body := guestLoginGate(request.Status); code != 0 {
		return c.Status(code).JSON(body)
	}

	token, err := middleware.GenerateGuestToken(&request)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user": fiber.Map{
			"id":       request.ID,
			"username": request.Username,
			"mobile":   request.MobileNumber,
			"role":     models.RoleGuest,
		},
	})
}

// RegistrationController exposes the admin approval workflow.
type RegistrationController struct{}

// GetRegistrations lists registration requests, optionally by status
func (rc *RegistrationController) GetRegistrations(c *fiber.Ctx) error {
	query := database.DB.Model(&models.RegistrationRequest{}).Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []models.RegistrationRequest
	if err := query.Find(&requests).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch registration requests",
		})
	}

	return c.JSON(fiber.Map{
		"requests": requests,
		"total":    len(requests),
	})
}

// Approve flips a pending request to approved
func (rc *RegistrationController) Approve(c *fiber.Ctx) error {
	return rc.decide(c, "approved")
}

// Reject flips a pending request to rejected
func (rc *RegistrationController) Reject(c *fiber.Ctx) error {
	return rc.decide(c, "rejected")
}

func (rc *RegistrationController) decide(c *fiber.Ctx, status string) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request ID",
		})
	}

	var request models.RegistrationRequest
	if err := database.DB.First(&request, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Registration request not found",
		})
	}

	if request.Status != "pending" {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Request has already been decided",
		})
	}

	admin, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	updates := map[string]interface{}{
		"status":      status,
		"approved_by": admin.ID,
	}
	if err := database.DB.Model(&request).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update registration request",
		})
	}

	changefeed.Publish("registration_requests", changefeed.EventUpdate, request.ID)
	middleware.LogActivity(c, "UPDATE", "registration_requests", request.ID, fiber.Map{
		"username": request.Username,
		"status":   status,
	})

	return c.JSON(fiber.Map{
		"message": "Registration request " + status,
		"request": request,
	})
}

// UpdateRegistration is the direct admin edit of a stored request row.
// It is the only way a rejected request can go back to pending.
func (rc *RegistrationController) UpdateRegistration(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request ID",
		})
	}

	var request models.RegistrationRequest
	if err := database.DB.First(&request, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Registration request not found",
		})
	}

	var body struct {
		Username     string `json:"username"`
		MobileNumber string `json:"mobile_number"`
		Status       string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	updates := map[string]interface{}{}
	if body.Username != "" {
		updates["username"] = utils.SanitizeString(body.Username)
	}
	if body.MobileNumber != "" {
		if !utils.IsValidMobileNumber(body.MobileNumber) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid mobile number",
			})
		}
		updates["mobile_number"] = body.MobileNumber
	}
	if body.Status != "" {
		switch body.Status {
		case "pending", "approved", "rejected":
			updates["status"] = body.Status
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid status",
			})
		}
	}

	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No fields to update",
		})
	}

	if err := database.DB.Model(&request).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update registration request",
		})
	}

	changefeed.Publish("registration_requests", changefeed.EventUpdate, request.ID)
	middleware.LogActivity(c, "UPDATE", "registration_requests", request.ID, updates)

	return c.JSON(fiber.Map{
		"message": "Registration request updated successfully",
		"request": request,
	})
}
