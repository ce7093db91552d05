package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/migeprof/stakeholder-mapping/internal/core/domain"
	"github.com/migeprof/stakeholder-mapping/internal/core/ports"
)

// RequirePermission lets the request through only when the session holds
// every listed capability. It must run after Auth.
func RequirePermission(capabilities ...domain.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, _ := c.Get(KeySession).(ports.AuthSession)
			if session == nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
			}
			for _, capability := range capabilities {
				if !session.HasPermission(capability) {
					return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
				}
			}
			return next(c)
		}
	}
}
