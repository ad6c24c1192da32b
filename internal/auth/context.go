package auth

import "github.com/gofiber/fiber/v2"

const (
	localsTenantID = "tenant_id"
	localsUserID   = "user_id"
	localsRole     = "role"
)

const (
	RoleAdmin   = "ADMIN"
	RoleCashier = "CASHIER"
)

type UserContext struct {
	TenantID string
	UserID   string
	Role     string
}

// FromFiber reads the identity the middleware stored on the request.
func FromFiber(c *fiber.Ctx) UserContext {
	uc := UserContext{}
	if v, ok := c.Locals(localsTenantID).(string); ok {
		uc.TenantID = v
	}
	if v, ok := c.Locals(localsUserID).(string); ok {
		uc.UserID = v
	}
	if v, ok := c.Locals(localsRole).(string); ok {
		uc.Role = v
	}
	return uc
}

func TenantID(c *fiber.Ctx) string {
	if v, ok := c.Locals(localsTenantID).(string); ok {
		return v
	}
	return ""
}
