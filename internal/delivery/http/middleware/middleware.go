package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type MiddlewareConfig struct {
	Log    *logrus.Logger
	Config *viper.Viper
}

type Middleware struct {
	Log *logrus.Logger

	allowOrigins string
}

func NewMiddleware(c *MiddlewareConfig) *Middleware {
	m := &Middleware{allowOrigins: "*"}
	if c == nil {
		return m
	}

	m.Log = c.Log
	if c.Config != nil {
		if v := strings.TrimSpace(c.Config.GetString("api.cors.origins")); v != "" {
			m.allowOrigins = v
		}
	}
	return m
}

// CorsMiddleware lets browsers send the identity headers read by RequireUser.
func (m *Middleware) CorsMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowHeaders: strings.Join([]string{
			fiber.HeaderOrigin, fiber.HeaderContentType, fiber.HeaderAccept, fiber.HeaderAuthorization,
			HeaderUserID, HeaderUserTimezone,
		}, ", "),
		AllowMethods:  "GET, POST, PUT, DELETE",
		AllowOrigins:  m.allowOrigins,
		ExposeHeaders: "Content-Length, Content-Type",
	})
}
