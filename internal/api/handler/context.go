package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/migeprof/stakeholder-mapping/internal/api/middleware"
	"github.com/migeprof/stakeholder-mapping/internal/core/ports"
)

// ctxSession extracts the client context injected by the Auth middleware.
// A missing session means the route was mounted without Auth; reject with 401.
func ctxSession(c echo.Context) (ports.AuthSession, error) {
	session, _ := c.Get(middleware.KeySession).(ports.AuthSession)
	if session == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return session, nil
}

// ctxActor names the authenticated user for audit entries.
func ctxActor(c echo.Context) string {
	username, _ := c.Get(middleware.KeyUsername).(string)
	return username
}
