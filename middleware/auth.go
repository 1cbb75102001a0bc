package middleware

import (
	"context"
	"panchayath_go/config"
	"panchayath_go/database"
	"panchayath_go/models"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// Claims is the single principal shape shared by every login kind.
// Role is one of super_admin, local_admin, user_admin, team_member, guest.
type Claims struct {
	PrincipalID uint   `json:"principal_id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	TeamID      uint   `json:"team_id,omitempty"`
	Mobile      string `json:"mobile,omitempty"`
	jwt.RegisteredClaims
}

func newRegisteredClaims() jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(config.AppConfig.JWTExpiresIn)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		NotBefore: jwt.NewNumericDate(time.Now()),
	}
}

// GenerateToken creates a new JWT token for an admin user
func GenerateToken(user *models.User) (string, error) {
	claims := &Claims{
		PrincipalID:      user.ID,
		Name:             user.Username,
		Role:             user.Role,
		RegisteredClaims: newRegisteredClaims(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// GenerateTeamToken creates a JWT for a management team member session
func GenerateTeamToken(team *models.ManagementTeam, agent *models.Agent) (string, error) {
	claims := &Claims{
		PrincipalID:      agent.ID,
		Name:             agent.Name,
		Role:             models.RoleTeamMember,
		TeamID:           team.ID,
		Mobile:           agent.Phone,
		RegisteredClaims: newRegisteredClaims(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// GenerateGuestToken creates a JWT for an approved guest registration
func GenerateGuestToken(req *models.RegistrationRequest) (string, error) {
	claims := &Claims{
		PrincipalID:      req.ID,
		Name:             req.Username,
		Role:             models.RoleGuest,
		Mobile:           req.MobileNumber,
		RegisteredClaims: newRegisteredClaims(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// IsTokenBlacklisted reports whether the token was invalidated by logout.
func IsTokenBlacklisted(tokenString string) bool {
	rc := database.GetRedisClient()
	if rc == nil {
		return false
	}
	exists, err := rc.Exists(context.Background(), "blacklist:jwt:"+tokenString).Result()
	return err == nil && exists > 0
}

// JWTMiddleware validates JWT tokens
func JWTMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get token from Authorization header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization header",
			})
		}

		// Extract token from "Bearer <token>"
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		if IsTokenBlacklisted(tokenString) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Token has been revoked",
			})
		}

		// Parse and validate token
		token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(config.AppConfig.JWTSecret), nil
		})

		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		claims, ok := token.Claims.(*Claims)
		if !ok || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token claims",
			})
		}

		// Admin principals are backed by a User row; verify it still exists
		// and is active. Team and guest principals carry no User row.
		if IsAdminRole(claims.Role) {
			var user models.User
			if err := database.DB.Where("id = ? AND status = ?", claims.PrincipalID, "active").First(&user).Error; err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "User not found or inactive",
				})
			}
			c.Locals("user", &user)
		}

		c.Locals("claims", claims)

		return c.Next()
	}
}

// IsAdminRole reports whether a role belongs to an administrative user.
func IsAdminRole(role string) bool {
	switch role {
	case models.RoleSuperAdmin, models.RoleLocalAdmin, models.RoleUserAdmin:
		return true
	}
	return false
}

// RequireRole middleware checks if the principal has a required role
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*Claims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing user claims",
			})
		}

		for _, role := range roles {
			if claims.Role == role {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Insufficient permissions",
		})
	}
}

// RequireAdmin allows any administrative role
func RequireAdmin() fiber.Handler {
	return RequireRole(models.RoleSuperAdmin, models.RoleLocalAdmin, models.RoleUserAdmin)
}

// RequireSuperAdmin allows only the super admin
func RequireSuperAdmin() fiber.Handler {
	return RequireRole(models.RoleSuperAdmin)
}

// GetCurrentUser returns the current authenticated admin user
func GetCurrentUser(c *fiber.Ctx) (*models.User, error) {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "User not found in context")
	}
	return user, nil
}

// GetCurrentClaims returns the current JWT claims
func GetCurrentClaims(c *fiber.Ctx) (*Claims, error) {
	claims, ok := c.Locals("claims").(*Claims)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Claims not found in context")
	}
	return claims, nil
}
