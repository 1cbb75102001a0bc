package controllers

import (
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestGuestLoginGate(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		code       int
		bodyStatus string
		bodyError  string
	}{
		{name: "approved proceeds", status: "approved", code: 0},
		{
			name:       "pending gets a distinct response",
			status:     "pending",
			code:       fiber.StatusForbidden,
			bodyStatus: "pending",
			bodyError:  "Registration is pending approval",
		},
		{
			name:      "rejected looks like bad credentials",
			status:    "rejected",
			code:      fiber.StatusUnauthorized,
			bodyError: "Invalid credentials",
		},
		{
			name:      "unknown status looks like bad credentials",
			status:    "archived",
			code:      fiber.StatusUnauthorized,
			bodyError: "Invalid credentials",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			code, body := guestLoginGate(tc.status)
			if code != tc.code {
				t.Fatalf("expected code %d, got %d", tc.code, code)
			}
			if tc.code == 0 {
				if body != nil {
					t.Fatalf("expected no body, got %v", body)
				}
				return
			}
			if got, _ := body["error"].(string); got != tc.bodyError {
				t.Fatalf("expected error %q, got %q", tc.bodyError, got)
			}
			if tc.bodyStatus != "" {
				if got, _ := body["status"].(string); got != tc.bodyStatus {
					t.Fatalf("expected status %q, got %q", tc.bodyStatus, got)
				}
			}
		})
	}
}
