package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"edumaster/web/internal/apiclient"
	"edumaster/web/internal/config"
	"edumaster/web/internal/models"
	"edumaster/web/internal/services"
	"edumaster/web/internal/session"
	"edumaster/web/internal/tokens"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeBackend answers the marketplace endpoints the pages use and records the
// Authorization header of every call.
type fakeBackend struct {
	mu        sync.Mutex
	role      models.Role
	authCalls []string
}

func (b *fakeBackend) lastAuth() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.authCalls) == 0 {
		return ""
	}
	return b.authCalls[len(b.authCalls)-1]
}

func writeEnvelope(w http.ResponseWriter, status int, success bool, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":   success,
		"message":   message,
		"data":      data,
		"timestamp": "2026-01-01T00:00:00Z",
	})
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.authCalls = append(b.authCalls, r.Header.Get("Authorization"))
	role := b.role
	b.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/api")
	switch {
	case path == "/auth/login":
		var req models.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secret" {
			writeEnvelope(w, http.StatusUnauthorized, false, "Invalid email or password", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, true, "Login successful", models.AuthResponse{
			AccessToken:  "access-" + string(role),
			RefreshToken: "refresh-" + string(role),
			ID:           21,
			Email:        req.Email,
			FirstName:    "Grace",
			Role:         role,
			IsActive:     true,
		})
	case path == "/auth/check-email":
		writeEnvelope(w, http.StatusOK, true, "", r.URL.Query().Get("email") != "taken@example.com")
	case path == "/courses/instructor/21":
		writeEnvelope(w, http.StatusOK, true, "", models.Page[models.Course]{
			Content:       []models.Course{{ID: 1, Title: "Concurrency in Go"}},
			TotalElements: 1,
			TotalPages:    1,
		})
	case path == "/enrollments/user/21":
		writeEnvelope(w, http.StatusOK, true, "", models.Page[models.Enrollment]{Content: []models.Enrollment{{ID: 5}}, TotalElements: 1})
	case path == "/notifications/user/21":
		writeEnvelope(w, http.StatusOK, true, "", models.Page[models.Notification]{Content: []models.Notification{
			{ID: 1, IsRead: false},
			{ID: 2, IsRead: true},
		}})
	case strings.HasPrefix(path, "/courses/public"):
		writeEnvelope(w, http.StatusOK, true, "", models.Page[models.Course]{Content: []models.Course{{ID: 9}}})
	case path == "/categories/public":
		writeEnvelope(w, http.StatusOK, true, "", []models.Category{{ID: 1, Name: "Programming"}})
	default:
		writeEnvelope(w, http.StatusNotFound, false, "not found", nil)
	}
}

type harness struct {
	router  *gin.Engine
	backend *fakeBackend
	tokens  tokens.Store
	session *session.Service
}

func newHarness(t *testing.T, role models.Role) *harness {
	t.Helper()

	backend := &fakeBackend{role: role}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	cfg := &config.AppConfig{
		Environment: "test",
		API:         config.APIConfig{BaseURL: srv.URL + "/api", Timeout: 5 * time.Second},
		Tokens:      config.TokensConfig{Backend: config.TokenBackendMemory},
		Frontend:    config.FrontendConfig{LoginPath: "/login"},
	}

	store := tokens.NewMemoryStore()
	client, err := apiclient.New(cfg.API, store, zerolog.Nop())
	if err != nil {
		t.Fatalf("apiclient.New: %v", err)
	}
	api := services.NewSet(client)
	sess := session.NewService(session.NewStore(zerolog.Nop()), api.Auth, store, tokens.NewValidator(30*time.Second), zerolog.Nop())

	router := gin.New()
	NewHandlerSet(zerolog.Nop(), cfg, sess, api, nil).Register(&router.RouterGroup)

	return &harness{router: router, backend: backend, tokens: store, session: sess}
}

func (h *harness) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	rec := h.do(http.MethodPost, "/login", `{"email":"grace@example.com","password":"secret"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestLoginReturnsRoleLanding(t *testing.T) {
	tests := []struct {
		role models.Role
		want string
	}{
		{models.RoleAdmin, "/admin"},
		{models.RoleInstructor, "/instructor"},
		{models.RoleStudent, "/dashboard"},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			h := newHarness(t, tt.role)
			rec := h.do(http.MethodPost, "/login", `{"email":"grace@example.com","password":"secret"}`)

			var got authResult
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Redirect != tt.want || got.User.Role != tt.role {
				t.Fatalf("result = %+v", got)
			}

			pair, err := h.tokens.Load(context.Background())
			if err != nil || pair.AccessToken != "access-"+string(tt.role) {
				t.Fatalf("persisted = %+v, %v", pair, err)
			}
		})
	}
}

func TestLoginFailureSurfacesBackendMessage(t *testing.T) {
	h := newHarness(t, models.RoleStudent)

	rec := h.do(http.MethodPost, "/login", `{"email":"grace@example.com","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), "Invalid email or password") {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = h.do(http.MethodGet, "/session", "")
	var state struct {
		Phase           string `json:"phase"`
		IsAuthenticated bool   `json:"isAuthenticated"`
		Error           string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if state.Phase != "auth_failed" || state.IsAuthenticated || state.Error != "Invalid email or password" {
		t.Fatalf("state = %+v", state)
	}
	if strings.Contains(rec.Body.String(), "accessToken") {
		t.Fatal("session view leaked tokens")
	}

	if rec := h.do(http.MethodDelete, "/session/error", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("clear error status = %d", rec.Code)
	}
	if h.session.State().Error != "" {
		t.Fatal("error not cleared")
	}
}

func TestLoginRejectsMissingFields(t *testing.T) {
	h := newHarness(t, models.RoleStudent)
	if rec := h.do(http.MethodPost, "/login", `{"email":"grace@example.com"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAnonymousRedirectedToLogin(t *testing.T) {
	h := newHarness(t, models.RoleStudent)

	rec := h.do(http.MethodGet, "/dashboard", "")
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login?from=%2Fdashboard" {
		t.Fatalf("status = %d, location = %q", rec.Code, rec.Header().Get("Location"))
	}
	if !strings.Contains(rec.Body.String(), `"from":"/dashboard"`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestStudentDeniedInstructorPage(t *testing.T) {
	h := newHarness(t, models.RoleStudent)
	h.login(t)

	rec := h.do(http.MethodGet, "/instructor", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Required roles: INSTRUCTOR, ADMIN") || !strings.Contains(body, "Your role: STUDENT") {
		t.Fatalf("body = %s", body)
	}
}

func TestInstructorPageUsesBearerToken(t *testing.T) {
	h := newHarness(t, models.RoleInstructor)
	h.login(t)

	rec := h.do(http.MethodGet, "/instructor/courses", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Concurrency in Go") {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := h.backend.lastAuth(); got != "Bearer access-INSTRUCTOR" {
		t.Fatalf("Authorization = %q", got)
	}

	if rec := h.do(http.MethodGet, "/admin", ""); rec.Code != http.StatusForbidden {
		t.Fatalf("instructor on admin page: status = %d", rec.Code)
	}
}

func TestDashboardCountsUnread(t *testing.T) {
	h := newHarness(t, models.RoleStudent)
	h.login(t)

	rec := h.do(http.MethodGet, "/dashboard", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var view struct {
		Enrollments struct {
			Items []models.Enrollment `json:"items"`
		} `json:"enrollments"`
		Notifications struct {
			UnreadCount int `json:"unreadCount"`
		} `json:"notifications"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(view.Enrollments.Items) != 1 || view.Notifications.UnreadCount != 1 {
		t.Fatalf("view = %+v", view)
	}
}

func TestLogoutErasesTokens(t *testing.T) {
	h := newHarness(t, models.RoleAdmin)
	h.login(t)

	rec := h.do(http.MethodPost, "/logout", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"redirect":"/"`) {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if _, err := h.tokens.Load(context.Background()); !errors.Is(err, tokens.ErrNotFound) {
		t.Fatalf("tokens survived logout: %v", err)
	}
	if rec := h.do(http.MethodGet, "/admin", ""); rec.Code != http.StatusSeeOther {
		t.Fatalf("admin after logout: status = %d", rec.Code)
	}
}

func TestLoginPageRedirectsSignedInUser(t *testing.T) {
	h := newHarness(t, models.RoleInstructor)

	if rec := h.do(http.MethodGet, "/login?from=/profile", ""); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"from":"/profile"`) {
		t.Fatalf("anonymous login page: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	h.login(t)
	rec := h.do(http.MethodGet, "/login", "")
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/instructor" {
		t.Fatalf("status = %d, location = %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestPublicCatalog(t *testing.T) {
	h := newHarness(t, models.RoleStudent)

	rec := h.do(http.MethodGet, "/courses?categoryId=1", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Programming") {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := h.backend.lastAuth(); got != "" {
		t.Fatalf("anonymous call carried Authorization %q", got)
	}
}

func TestCheckEmail(t *testing.T) {
	h := newHarness(t, models.RoleStudent)

	rec := h.do(http.MethodGet, "/auth/check-email?email=taken@example.com", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"available":false`) {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if rec := h.do(http.MethodGet, "/auth/check-email", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing email: status = %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	h := newHarness(t, models.RoleStudent)

	rec := h.do(http.MethodGet, "/api/healthz", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"tokenStore":"memory"`) {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}
