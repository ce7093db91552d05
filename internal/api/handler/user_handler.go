package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/migeprof/stakeholder-mapping/internal/core/domain"
	"github.com/migeprof/stakeholder-mapping/internal/core/ports"
)

const (
	maxImportBytes = 5 << 20
	// multipartSlack covers part headers and boundaries around the CSV.
	multipartSlack = 64 << 10
)

var errImportTooLarge = fmt.Errorf("import file exceeds %d bytes", maxImportBytes)

type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type createUserRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"omitempty,oneof=admin stakeholder subClusterFocalPerson"`
}

type userListResponse struct {
	Users []*domain.User `json:"users"`
	Total int            `json:"total"`
}

type importResponse struct {
	Imported int            `json:"imported"`
	Skipped  int            `json:"skipped"`
	Users    []*domain.User `json:"users"`
}

// List returns every account in the directory.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  userListResponse
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /admin/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userListResponse{Users: users, Total: len(users)})
}

// Create adds an active account.
//
// @Summary      Create user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "New user"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /admin/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, err := h.users.CreateUser(c.Request().Context(), ctxActor(c), ports.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// ToggleStatus flips a user between active and inactive.
//
// @Summary      Toggle user status
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  map[string]string
// @Router       /admin/users/{id}/status [patch]
func (h *UserHandler) ToggleStatus(c echo.Context) error {
	user, err := h.users.ToggleStatus(c.Request().Context(), ctxActor(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Import bulk-creates users from a CSV with a username,email,role header.
// The CSV is read from a multipart "file" field or the raw request body.
//
// @Summary      Import users from CSV
// @Tags         admin
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  false  "CSV file"
// @Success      200   {object}  importResponse
// @Failure      400   {object}  map[string]string
// @Failure      413   {object}  map[string]string
// @Router       /admin/users/import [post]
func (h *UserHandler) Import(c echo.Context) error {
	req := c.Request()
	req.Body = http.MaxBytesReader(c.Response(), req.Body, maxImportBytes+multipartSlack)

	data, err := readImport(c)
	if err != nil {
		if tooLarge(err) {
			return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{"error": errImportTooLarge.Error()})
		}
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	result, err := h.users.ImportCSV(req.Context(), ctxActor(c), bytes.NewReader(data))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, importResponse{
		Imported: len(result.Imported),
		Skipped:  result.Skipped,
		Users:    result.Imported,
	})
}

// readImport buffers the whole CSV so an oversize upload is rejected before
// any row reaches the directory.
func readImport(c echo.Context) ([]byte, error) {
	src, err := importSource(c)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxImportBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxImportBytes {
		return nil, errImportTooLarge
	}
	return data, nil
}

func importSource(c echo.Context) (io.ReadCloser, error) {
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		fh, err := c.FormFile("file")
		if err != nil {
			if tooLarge(err) {
				return nil, errImportTooLarge
			}
			return nil, errors.New("missing file field")
		}
		if fh.Size > maxImportBytes {
			return nil, errImportTooLarge
		}
		return fh.Open()
	}
	return c.Request().Body, nil
}

func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.Is(err, errImportTooLarge) || errors.As(err, &mbe)
}
