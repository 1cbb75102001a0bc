package controllers

import (
	"net/http/httptest"
	"testing"
	"time"

	"panchayath_go/config"
	"panchayath_go/database"
	"panchayath_go/middleware"
	"panchayath_go/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
)

func TestLogoutInvalidatesToken(t *testing.T) {
	mr := miniredis.RunT(t)

	prevRedis := database.RedisClient
	prevConfig := config.AppConfig
	database.RedisClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	config.AppConfig = &config.Config{
		JWTSecret:    "unit-test-secret-key",
		JWTExpiresIn: 24 * time.Hour,
	}
	t.Cleanup(func() {
		database.RedisClient = prevRedis
		config.AppConfig = prevConfig
	})

	request := &models.RegistrationRequest{
		BaseModel:    models.BaseModel{ID: 42},
		Username:     "vimal",
		MobileNumber: "9846011111",
		Status:       "approved",
	}
	token, err := middleware.GenerateGuestToken(request)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	authController := &AuthController{}
	app := fiber.New()
	app.Post("/api/auth/logout", middleware.JWTMiddleware(), authController.Logout)
	app.Get("/api/protected", middleware.JWTMiddleware(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	do := func(method, path string) int {
		t.Helper()
		req := httptest.NewRequest(method, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s %s failed: %v", method, path, err)
		}
		return resp.StatusCode
	}

	if code := do("GET", "/api/protected"); code != fiber.StatusOK {
		t.Fatalf("expected access before logout, got %d", code)
	}
	if code := do("POST", "/api/auth/logout"); code != fiber.StatusOK {
		t.Fatalf("logout failed with %d", code)
	}
	if code := do("GET", "/api/protected"); code != fiber.StatusUnauthorized {
		t.Fatalf("token still accepted after logout, got %d", code)
	}
}
