package middleware

import (
	"confina-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userLocal = "user"

// RequireAuth ensures a user is in the session. Returns 401 with standard error format if not.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals(userLocal)
		if user == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		// Attach auth context for handlers (same key)
		c.Locals("auth", user)
		return c.Next()
	}
}

// GetUser returns the session user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}

// Actor is the authenticated identity handlers work with: who is acting and
// on which farm. Role is the farm role recorded at login.
type Actor struct {
	UserID uuid.UUID
	FarmID uuid.UUID
	Role   string
}

// GetActor parses the session user into typed IDs. Nil when there is no
// session user or the user has no farm membership.
func GetActor(c *fiber.Ctx) *Actor {
	u := GetUser(c)
	if u == nil {
		return nil
	}
	m, ok := u.(map[string]interface{})
	if !ok {
		return nil
	}
	userIDStr, _ := m["user_id"].(string)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil
	}
	farmIDStr := ""
	if f, ok := m["farm_id"]; ok && f != nil {
		if s, ok := f.(string); ok {
			farmIDStr = s
		}
	}
	farmID, err := uuid.Parse(farmIDStr)
	if err != nil {
		return nil
	}
	role, _ := m["role"].(string)
	return &Actor{UserID: userID, FarmID: farmID, Role: role}
}
