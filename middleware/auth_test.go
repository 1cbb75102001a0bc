package middleware

import (
	"net/http/httptest"
	"testing"

	"panchayath_go/models"

	"github.com/gofiber/fiber/v2"
)

func TestIsAdminRole(t *testing.T) {
	tests := []struct {
		role     string
		expected bool
	}{
		{models.RoleSuperAdmin, true},
		{models.RoleLocalAdmin, true},
		{models.RoleUserAdmin, true},
		{models.RoleTeamMember, false},
		{models.RoleGuest, false},
		{"coordinator", false},
		{"", false},
		{"SUPER_ADMIN", false},
	}

	for _, tc := range tests {
		if got := IsAdminRole(tc.role); got != tc.expected {
			t.Errorf("IsAdminRole(%q) = %v, want %v", tc.role, got, tc.expected)
		}
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		claims   *Claims
		required []string
		expected int
	}{
		{
			name:     "matching role passes",
			claims:   &Claims{Role: models.RoleSuperAdmin},
			required: []string{models.RoleSuperAdmin},
			expected: fiber.StatusOK,
		},
		{
			name:     "any listed role passes",
			claims:   &Claims{Role: models.RoleUserAdmin},
			required: []string{models.RoleSuperAdmin, models.RoleLocalAdmin, models.RoleUserAdmin},
			expected: fiber.StatusOK,
		},
		{
			name:     "wrong role is forbidden",
			claims:   &Claims{Role: models.RoleGuest},
			required: []string{models.RoleSuperAdmin},
			expected: fiber.StatusForbidden,
		},
		{
			name:     "team member cannot reach admin routes",
			claims:   &Claims{Role: models.RoleTeamMember},
			required: []string{models.RoleSuperAdmin, models.RoleLocalAdmin, models.RoleUserAdmin},
			expected: fiber.StatusForbidden,
		},
		{
			name:     "missing claims is unauthorized",
			claims:   nil,
			required: []string{models.RoleSuperAdmin},
			expected: fiber.StatusUnauthorized,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/guarded",
				func(c *fiber.Ctx) error {
					if tc.claims != nil {
						c.Locals("claims", tc.claims)
					}
					return c.Next()
				},
				RequireRole(tc.required...),
				func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
			)

			resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tc.expected {
				t.Fatalf("expected status %d, got %d", tc.expected, resp.StatusCode)
			}
		})
	}
}
