package middleware

import (
	"strings"

	"eshop/internal/services"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

const (
	localUserID  = "userId"
	localIsAdmin = "isAdmin"
)

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "Authorization header is required", nil)
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return unauthorized(c, "Authorization header format must be 'Bearer <token>'", nil)
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			log.WithError(err).WithField("path", c.Path()).Debug("JWT validation failed")
			return unauthorized(c, "Invalid or expired token", err)
		}

		userID, _ := claims[services.ClaimUserID].(string)
		if userID == "" {
			return unauthorized(c, "Token carries no user", nil)
		}
		isAdmin, _ := claims[services.ClaimIsAdmin].(bool)

		c.Locals(localUserID, userID)
		c.Locals(localIsAdmin, isAdmin)
		return c.Next()
	}
}

// AdminOnly rejects requests whose token does not carry the admin flag. It
// must run after AuthRequired.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !IsAdmin(c) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "Admin privileges are required",
			})
		}
		return c.Next()
	}
}

// UserID returns the user ID stored by AuthRequired.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}

// IsAdmin reports whether the authenticated user is an administrator.
func IsAdmin(c *fiber.Ctx) bool {
	admin, _ := c.Locals(localIsAdmin).(bool)
	return admin
}

func unauthorized(c *fiber.Ctx, message string, err error) error {
	body := fiber.Map{"success": false, "message": message}
	if err != nil {
		body["error"] = err.Error()
	}
	return c.Status(fiber.StatusUnauthorized).JSON(body)
}
