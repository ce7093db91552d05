package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/migeprof/stakeholder-mapping/internal/core/domain"
	"github.com/migeprof/stakeholder-mapping/internal/core/ports"
)

const (
	msgMissingCredentials = "Please enter both email and password"
	msgInvalidCredentials = "Invalid username or password"
)

type AuthHandler struct {
	sessions   ports.SessionManager
	navigation ports.NavigationService
}

func NewAuthHandler(sessions ports.SessionManager, navigation ports.NavigationService) *AuthHandler {
	return &AuthHandler{sessions: sessions, navigation: navigation}
}

type loginRequest struct {
	// Identifier is an email or username. Email is accepted as an alias.
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

type sessionResponse struct {
	Token       string              `json:"token,omitempty"`
	User        *domain.User        `json:"user"`
	Portal      domain.Portal       `json:"portal"`
	RoleLabel   string              `json:"role_label"`
	Menu        []domain.MenuItem   `json:"menu"`
	PortalMenu  []domain.MenuItem   `json:"portal_menu"`
	Permissions []domain.Capability `json:"permissions"`
}

type permissionResponse struct {
	Capability domain.Capability `json:"capability"`
	Granted    bool              `json:"granted"`
}

func (h *AuthHandler) describe(user *domain.User) sessionResponse {
	nav := h.navigation.Resolve(user)
	return sessionResponse{
		User:        user,
		Portal:      nav.Portal,
		RoleLabel:   nav.RoleLabel,
		Menu:        nav.Menu,
		PortalMenu:  nav.PortalMenu,
		Permissions: nav.Permissions,
	}
}

// Login opens a new client context, authenticates it and returns its handle.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" {
		identifier = strings.TrimSpace(req.Email)
	}
	if identifier == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msgMissingCredentials})
	}

	ctx := c.Request().Context()
	clientID := h.sessions.NewClientID()
	session := h.sessions.Open(ctx, clientID)

	ok, err := session.Login(ctx, identifier, req.Password)
	if err != nil {
		return err
	}
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": msgInvalidCredentials})
	}

	user := session.CurrentUser()
	token, err := h.sessions.IssueToken(clientID, user)
	if err != nil {
		session.Logout(ctx)
		return err
	}

	resp := h.describe(user)
	resp.Token = token
	return c.JSON(http.StatusOK, resp)
}

// Logout ends the session of the calling client context.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401   {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	session.Logout(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}

// Session describes the current user with portal, menu and grants.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  sessionResponse
// @Failure      401   {object}  map[string]string
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.describe(session.CurrentUser()))
}

// Permission reports whether the session holds a capability.
//
// @Summary      Check a capability
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Param        capability  path      string  true  "Capability token"
// @Success      200         {object}  permissionResponse
// @Failure      401         {object}  map[string]string
// @Router       /auth/permissions/{capability} [get]
func (h *AuthHandler) Permission(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	capability := domain.Capability(c.Param("capability"))
	return c.JSON(http.StatusOK, permissionResponse{
		Capability: capability,
		Granted:    session.HasPermission(capability),
	})
}
