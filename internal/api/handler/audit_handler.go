package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/migeprof/stakeholder-mapping/internal/core/domain"
	"github.com/migeprof/stakeholder-mapping/internal/core/ports"
)

const defaultAuditLimit = 100

type AuditHandler struct {
	audit ports.AuditService
}

func NewAuditHandler(audit ports.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

type auditListResponse struct {
	Entries []domain.AuditEntry `json:"entries"`
}

// List returns audit entries, newest first.
//
// @Summary      Audit log
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum entries (default 100, 0 for all)"
// @Success      200    {object}  auditListResponse
// @Failure      400    {object}  map[string]string
// @Router       /admin/audit [get]
func (h *AuditHandler) List(c echo.Context) error {
	limit := defaultAuditLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "limit must be a non-negative integer"})
		}
		limit = n
	}

	entries, err := h.audit.List(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, auditListResponse{Entries: entries})
}

// Export downloads the full audit log as CSV.
//
// @Summary      Export audit log
// @Tags         admin
// @Produce      text/csv
// @Security     BearerAuth
// @Success      200
// @Router       /admin/audit/export [get]
func (h *AuditHandler) Export(c echo.Context) error {
	var buf bytes.Buffer
	if err := h.audit.ExportCSV(c.Request().Context(), &buf); err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="audit-log.csv"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
