package controllers

import (
	"context"
	"panchayath_go/database"
	"panchayath_go/middleware"
	"panchayath_go/models"
	"panchayath_go/utils"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct{}

// LoginRequest represents the admin login request body
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest represents the admin-user registration request body
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
	Email    string `json:"email" validate:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role" validate:"required"`
}

// Login authenticates an admin user and returns a JWT token
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// Find user by username
	var user models.User
	if err := database.DB.Where("username = ? AND status = ?", req.Username, "active").First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	// Check password
	if err := utils.CheckPassword(req.Password, user.Password); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	// Generate JWT token
	token, err := middleware.GenerateToken(&user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	middleware.LogActivity(c, "LOGIN", "auth", user.ID, fiber.Map{
		"username": user.Username,
		"role":     user.Role,
	})

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
	})
}

// Logout invalidates the current JWT by storing it in the Redis
// blacklist for 24 hours. A blacklisted token leaves every subsequent
// route access unauthenticated regardless of principal kind.
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing authorization header"})
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid authorization header format"})
	}

	rc := database.GetRedisClient()
	if rc != nil {
		ctx := context.Background()
		key := "blacklist:jwt:" + tokenString
		if err := rc.Set(ctx, key, "1", 24*time.Hour).Err(); err != nil {
			// If Redis fails, log but return success (don't block logout)
			middleware.LogActivity(c, "LOGOUT", "auth", 0, fiber.Map{"error": err.Error()})
		}
	}

	if claims, err := middleware.GetCurrentClaims(c); err == nil {
		middleware.LogActivity(c, "LOGOUT", "auth", claims.PrincipalID, fiber.Map{"name": claims.Name, "role": claims.Role})
	}

	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// Register creates a new admin user account (super admin only)
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if !utils.IsValidAdminRole(req.Role) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid role",
		})
	}

	// Check if username already exists
	var existingUser models.User
	if err := database.DB.Where("username = ?", req.Username).First(&existingUser).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Username already exists",
		})
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to hash password",
		})
	}

	user := models.User{
		Username: req.Username,
		Password: hashedPassword,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     req.Role,
		Status:   "active",
	}

	if err := database.DB.Create(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create user",
		})
	}

	middleware.LogActivity(c, "CREATE", "users", user.ID, fiber.Map{
		"username": user.Username,
		"role":     user.Role,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
	})
}

// GetProfile returns the current principal's profile
func (ac *AuthController) GetProfile(c *fiber.Ctx) error {
	claims, err := middleware.GetCurrentClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Principal not found",
		})
	}

	profile := fiber.Map{
		"id":   claims.PrincipalID,
		"name": claims.Name,
		"role": claims.Role,
	}
	if claims.TeamID != 0 {
		profile["team_id"] = claims.TeamID
	}
	if claims.Mobile != "" {
		profile["mobile"] = claims.Mobile
	}
	if user, err := middleware.GetCurrentUser(c); err == nil {
		profile["email"] = user.Email
		profile["phone"] = user.Phone
		profile["status"] = user.Status
	}

	return c.JSON(fiber.Map{"user": profile})
}

// ChangePassword allows admin users to change their password
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	var req struct {
		CurrentPassword string `json:"current_password" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,min=6"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := utils.CheckPassword(req.CurrentPassword, user.Password); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Current password is incorrect",
		})
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to hash password",
		})
	}

	if err := database.DB.Model(user).Update("password", hashedPassword).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update password",
		})
	}

	middleware.LogActivity(c, "UPDATE", "users", user.ID, fiber.Map{
		"action": "password_change",
	})

	return c.JSON(fiber.Map{
		"message": "Password changed successfully",
	})
}
