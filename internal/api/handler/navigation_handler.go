package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/migeprof/stakeholder-mapping/internal/core/domain"
	"github.com/migeprof/stakeholder-mapping/internal/core/ports"
)

type NavigationHandler struct {
	navigation ports.NavigationService
}

func NewNavigationHandler(navigation ports.NavigationService) *NavigationHandler {
	return &NavigationHandler{navigation: navigation}
}

type navigationResponse struct {
	Portal     domain.Portal     `json:"portal"`
	Menu       []domain.MenuItem `json:"menu"`
	PortalMenu []domain.MenuItem `json:"portal_menu"`
}

// Get returns the portal variant, the filtered menu for the session role and
// the selected portal's own sidebar.
//
// @Summary      Navigation
// @Tags         navigation
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  navigationResponse
// @Failure      401   {object}  map[string]string
// @Router       /navigation [get]
func (h *NavigationHandler) Get(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	nav := h.navigation.Resolve(session.CurrentUser())
	return c.JSON(http.StatusOK, navigationResponse{
		Portal:     nav.Portal,
		Menu:       nav.Menu,
		PortalMenu: nav.PortalMenu,
	})
}
