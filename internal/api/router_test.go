package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/migeprof/stakeholder-mapping/internal/core/service"
	"github.com/migeprof/stakeholder-mapping/internal/infrastructure/memory"
	"github.com/migeprof/stakeholder-mapping/internal/infrastructure/policy"
)

const testJWTSecret = "router-test-secret"

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()
	pol, err := policy.Default()
	if err != nil {
		t.Fatalf("policy: %v", err)
	}
	verifier, err := service.NewSharedSecretVerifier("password", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("verifier: %v", err)
	}

	directory := memory.NewUserDirectory(memory.SeedUsers())
	auditRepo := memory.NewAuditRepository(0)
	log := zerolog.Nop()

	sessions := service.NewSessionManager(directory, memory.NewSessionStore(time.Hour), verifier, pol.Permissions, testJWTSecret, 0, log)
	return NewRouter(Dependencies{
		Sessions:   sessions,
		Navigation: service.NewNavigationService(pol),
		Users:      service.NewUserService(directory, nil, log),
		Audit:      service.NewAuditService(auditRepo),
		JWTSecret:  testJWTSecret,
		Log:        log,
	})
}

func do(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, e *echo.Echo, identifier string) map[string]any {
	t.Helper()
	rec := do(e, http.MethodPost, "/auth/login", "", `{"identifier":"`+identifier+`","password":"password"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d: %s", identifier, rec.Code, rec.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

func menuKeys(t *testing.T, resp map[string]any) []string {
	t.Helper()
	return itemKeys(t, resp, "menu")
}

func itemKeys(t *testing.T, resp map[string]any, field string) []string {
	t.Helper()
	items, _ := resp[field].([]any)
	keys := make([]string, 0, len(items))
	for _, it := range items {
		keys = append(keys, it.(map[string]any)["key"].(string))
	}
	return keys
}

func TestRouter_FocalLoginFlow(t *testing.T) {
	e := newTestRouter(t)

	resp := login(t, e, "focal@migeprof.gov.rw")
	if resp["portal"] != "focal" {
		t.Fatalf("expected focal portal, got %v", resp["portal"])
	}
	got := strings.Join(menuKeys(t, resp), ",")
	if got != "dashboard,reports,stakeholders,export,calendar" {
		t.Fatalf("unexpected menu %s", got)
	}
	token := resp["token"].(string)

	rec := do(e, http.MethodGet, "/auth/permissions/export_data", token, "")
	if !strings.Contains(rec.Body.String(), `"granted":true`) {
		t.Fatalf("expected export_data granted: %s", rec.Body.String())
	}
	rec = do(e, http.MethodGet, "/auth/permissions/manage_system", token, "")
	if !strings.Contains(rec.Body.String(), `"granted":false`) {
		t.Fatalf("expected manage_system denied: %s", rec.Body.String())
	}

	rec = do(e, http.MethodGet, "/admin/users", token, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("focal user must not list users, got %d", rec.Code)
	}
	rec = do(e, http.MethodGet, "/admin/audit/export", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("focal user may export, got %d", rec.Code)
	}
}

func TestRouter_LogoutRevokesToken(t *testing.T) {
	e := newTestRouter(t)
	token := login(t, e, "admin")["token"].(string)

	if rec := do(e, http.MethodGet, "/auth/session", token, ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := do(e, http.MethodPost, "/auth/logout", token, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/auth/session", token, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", rec.Code)
	}
}

func TestRouter_SessionsAreIsolated(t *testing.T) {
	e := newTestRouter(t)
	adminToken := login(t, e, "admin@migeprof.gov.rw")["token"].(string)
	stakeholderToken := login(t, e, "stakeholder1")["token"].(string)

	do(e, http.MethodPost, "/auth/logout", stakeholderToken, "")

	rec := do(e, http.MethodGet, "/navigation", adminToken, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"portal":"admin"`) {
		t.Fatalf("admin context should survive another context's logout: %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_InvalidLogin(t *testing.T) {
	e := newTestRouter(t)

	rec := do(e, http.MethodPost, "/auth/login", "", `{"email":"admin@migeprof.gov.rw","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	rec = do(e, http.MethodPost, "/auth/login", "", `{"email":"admin@migeprof.gov.rw"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRouter_AdminCreatesUser(t *testing.T) {
	e := newTestRouter(t)
	token := login(t, e, "admin")["token"].(string)

	rec := do(e, http.MethodPost, "/admin/users", token, `{"username":"partner","email":"partner@ngo.org"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = do(e, http.MethodPost, "/admin/users", token, `{"username":"partner","email":"partner@ngo.org"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate, got %d", rec.Code)
	}

	resp := login(t, e, "partner@ngo.org")
	if resp["portal"] != "dashboard" {
		t.Fatalf("new user should default to stakeholder dashboard, got %v", resp["portal"])
	}
}

func TestRouter_Unauthenticated(t *testing.T) {
	e := newTestRouter(t)
	if rec := do(e, http.MethodGet, "/navigation", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func csvOfSize(min int) string {
	var b strings.Builder
	b.WriteString("username,email,role\n")
	for i := 0; b.Len() <= min; i++ {
		fmt.Fprintf(&b, "bulk%d,bulk%d@ngo.org,stakeholder\n", i, i)
	}
	return b.String()
}

func TestRouter_OversizeImportCreatesNoUsers(t *testing.T) {
	e := newTestRouter(t)
	token := login(t, e, "admin")["token"].(string)

	for _, size := range []int{5<<20 + 1, 7 << 20} {
		req := httptest.NewRequest(http.MethodPost, "/admin/users/import", strings.NewReader(csvOfSize(size)))
		req.Header.Set(echo.HeaderContentType, "text/csv")
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusRequestEntityTooLarge {
			t.Fatalf("size %d: expected 413, got %d", size, rec.Code)
		}
	}

	rec := do(e, http.MethodGet, "/admin/users", token, "")
	if !strings.Contains(rec.Body.String(), `"total":3`) {
		t.Fatalf("expected the seeded users only: %s", rec.Body.String())
	}
}

func TestRouter_NavigationIncludesPortalMenu(t *testing.T) {
	e := newTestRouter(t)
	cases := map[string]string{
		"admin":        "dashboard,users,roles,adm,kpis,import,audit,export",
		"focal1":       "dashboard,plans,reports,comments,kpis,export",
		"stakeholder1": "",
	}

	for identifier, want := range cases {
		token := login(t, e, identifier)["token"].(string)
		rec := do(e, http.MethodGet, "/navigation", token, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", identifier, rec.Code)
		}
		var resp map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if got := strings.Join(itemKeys(t, resp, "portal_menu"), ","); got != want {
			t.Fatalf("%s: unexpected portal menu %q", identifier, got)
		}
	}
}
