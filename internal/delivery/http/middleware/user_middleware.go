package middleware

import (
	"strings"

	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/entity"
	"github.com/evandrarf/hangeul-quiz-be/internal/pkg/response"
	"github.com/gofiber/fiber/v2"
)

const (
	HeaderUserID       = "X-User-ID"
	HeaderUserTimezone = "X-User-Timezone"

	userLocalsKey = "user"
)

// RequireUser trusts the identity set by the auth proxy in front of the service.
func (m *Middleware) RequireUser() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userID := strings.TrimSpace(ctx.Get(HeaderUserID))
		if userID == "" {
			return response.NewFailed("Unauthorized", fiber.NewError(fiber.StatusUnauthorized, HeaderUserID+" header is required"), m.Log).Send(ctx)
		}

		ctx.Locals(userLocalsKey, entity.UserContext{
			UserID:   userID,
			Timezone: strings.TrimSpace(ctx.Get(HeaderUserTimezone)),
		})
		return ctx.Next()
	}
}

// CurrentUser returns the user resolved by RequireUser.
func CurrentUser(ctx *fiber.Ctx) entity.UserContext {
	user, _ := ctx.Locals(userLocalsKey).(entity.UserContext)
	return user
}
