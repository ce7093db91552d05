package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/migeprof/stakeholder-mapping/internal/core/ports"
)

// Context keys set by Auth.
const (
	KeySession  = "auth_session"
	KeyClientID = "client_id"
	KeyUsername = "username"
	KeyRole     = "role"
)

// Auth validates the session handle, opens its client context and injects
// it into the echo context. A handle whose context holds no stored session
// is rejected, so a logout invalidates every token issued for it.
func Auth(jwtSecret string, sessions ports.SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			sid, _ := claims["sid"].(string)
			if sid == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing session id")
			}

			session := sessions.Open(c.Request().Context(), sid)
			user := session.CurrentUser()
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
			}
			if sub, _ := claims["sub"].(string); sub != user.ID {
				return echo.NewHTTPError(http.StatusUnauthorized, "token does not match session")
			}

			c.Set(KeySession, session)
			c.Set(KeyClientID, sid)
			c.Set(KeyUsername, user.Username)
			c.Set(KeyRole, string(user.Role))

			return next(c)
		}
	}
}
