package http

import (
	"context"
	"strings"
	"time"

	fiber "github.com/gofiber/fiber/v2"

	"trade_monitor/internal/domain"
)

const userLocalsKey = "current_user"

// requireUser resolves the bearer token and stores the user in locals for
// downstream handlers.
func (r *Router) requireUser(c *fiber.Ctx) error {
	token, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	if !ok || token == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
	}

	ctx, cancel := context.WithTimeout(userContext(c), 5*time.Second)
	defer cancel()

	user, err := r.auth.Authenticate(ctx, token)
	if err != nil {
		return httpError(err)
	}

	c.Locals(userLocalsKey, user)
	return c.Next()
}

func currentUser(c *fiber.Ctx) domain.User {
	user, _ := c.Locals(userLocalsKey).(domain.User)
	return user
}
