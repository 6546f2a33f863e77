package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"ohs-consultant/internal/api/handlers"
	"ohs-consultant/internal/dto"
	"ohs-consultant/internal/knowledge"
	"ohs-consultant/internal/models"
	"ohs-consultant/internal/ratelimit"
	"ohs-consultant/internal/repository"
	"ohs-consultant/internal/service"
	"ohs-consultant/pkg/auth"
	"ohs-consultant/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticSource []knowledge.FAQEntry

func (s staticSource) Name() string { return "static" }

func (s staticSource) Load(context.Context) ([]knowledge.FAQEntry, error) { return s, nil }

type fakeStats struct{}

func (fakeStats) Overview(context.Context) (*dto.StatsResponse, error) {
	return &dto.StatsResponse{Users: models.UserCounts{Total: 4}}, nil
}

func (fakeStats) Queries(_ context.Context, userID int64, _, _ int) ([]*models.Query, error) {
	return []*models.Query{{UserID: userID, Question: "q"}}, nil
}

func (fakeStats) AnonymizedQueries(context.Context, int, int) ([]dto.AnonymizedQuery, error) {
	return []dto.AnonymizedQuery{{User: "user_***555", Question: "[ФИО] спрашивает"}}, nil
}

func (fakeStats) ExportRows(context.Context) ([]dto.AnonymizedQuery, error) {
	return []dto.AnonymizedQuery{{User: "user_***555", Question: "Вопрос", Source: "faq"}}, nil
}

type fakeUsers struct {
	users map[int64]*models.User
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) List(context.Context, models.UserRole, int, int) ([]*models.User, error) {
	var list []*models.User
	for _, u := range f.users {
		list = append(list, u)
	}
	return list, nil
}

func (f *fakeUsers) SetBlocked(_ context.Context, id int64, blocked bool) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.IsBlocked = blocked
	return nil
}

func (f *fakeUsers) SetRole(_ context.Context, id int64, role models.UserRole) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Role = role
	return nil
}

type fakeSettings struct {
	values map[string]*models.SystemSetting
}

func (f *fakeSettings) Get(_ context.Context, key string) (*models.SystemSetting, error) {
	s, ok := f.values[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s, nil
}

func (f *fakeSettings) Set(_ context.Context, key, value, description string) error {
	f.values[key] = &models.SystemSetting{Key: key, Value: value, Description: description}
	return nil
}

func (f *fakeSettings) List(context.Context) ([]*models.SystemSetting, error) {
	var list []*models.SystemSetting
	for _, s := range f.values {
		list = append(list, s)
	}
	return list, nil
}

type fakeAuditStore struct {
	entries   []*models.AuditLog
	lastLimit int
}

func (f *fakeAuditStore) Create(_ context.Context, e *models.AuditLog) error {
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeAuditStore) List(_ context.Context, _ *int64, limit int) ([]*models.AuditLog, error) {
	f.lastLimit = limit
	return f.entries, nil
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

type testServer struct {
	app     *fiber.App
	users   *fakeUsers
	audit   *fakeAuditStore
	limiter *ratelimit.RateLimiter
}

func newTestServer(t *testing.T, pinger handlers.Pinger, throttle *middleware.Throttle) *testServer {
	t.Helper()
	logger := zap.NewNop()

	audit := &fakeAuditStore{}
	auditService := service.NewAuditService(audit, logger)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authService, err := service.NewAuthService("admin", "s3cret", jwtManager, auditService, logger)
	require.NoError(t, err)

	kb := knowledge.New(context.Background(), staticSource{{
		Question:    "Как часто проводится вводный инструктаж?",
		ShortAnswer: "Один раз при приёме на работу.",
		Block:       "Инструктажи",
	}}, nil, logger)
	limiter := ratelimit.New(logger)
	users := &fakeUsers{users: map[int64]*models.User{555: {ID: 555, Role: models.RoleTrial}}}

	h := Handlers{
		Auth: handlers.NewAuthHandler(authService, logger),
		Admin: handlers.NewAdminHandler(handlers.AdminDeps{
			Stats:     fakeStats{},
			Users:     users,
			Settings:  &fakeSettings{values: map[string]*models.SystemSetting{}},
			Audit:     auditService,
			Knowledge: kb,
			Limiter:   limiter,
		}, logger),
		Health: handlers.NewHealthHandler(pinger, kb),
	}

	return &testServer{
		app:     SetupRouter(h, jwtManager, throttle, logger),
		users:   users,
		audit:   audit,
		limiter: limiter,
	}
}

func (s *testServer) do(t *testing.T, method, path, token, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (s *testServer) login(t *testing.T) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/v1/admin/auth/login", "", `{"username":"admin","password":"s3cret"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var auth dto.AuthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&auth))
	return auth.AccessToken
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t, nil, nil)
	resp := s.do(t, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	decode(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(1), body["faq_entries"])

	s = newTestServer(t, failingPinger{}, nil)
	resp = s.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestRouter_Login(t *testing.T) {
	s := newTestServer(t, nil, nil)

	resp := s.do(t, http.MethodPost, "/api/v1/admin/auth/login", "", `{"username":"admin","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/v1/admin/auth/login", "", `{"username":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	assert.NotEmpty(t, s.login(t))
	require.Len(t, s.audit.entries, 1)
	assert.Equal(t, models.ActionAdminLogin, s.audit.entries[0].Action)
}

func TestRouter_ProtectedRequiresToken(t *testing.T) {
	s := newTestServer(t, nil, nil)

	resp := s.do(t, http.MethodGet, "/api/v1/stats", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/v1/stats", s.login(t), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats dto.StatsResponse
	decode(t, resp, &stats)
	assert.Equal(t, 4, stats.Users.Total)
}

func TestRouter_FAQSearch(t *testing.T) {
	s := newTestServer(t, nil, nil)
	token := s.login(t)

	resp := s.do(t, http.MethodGet, "/api/v1/faq/search?q="+url.QueryEscape("Как часто проводится вводный инструктаж?"), token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result dto.FAQSearchResponse
	decode(t, resp, &result)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "Инструктажи", result.Matches[0].Entry.Block)
	assert.InDelta(t, 1.0, result.Matches[0].SimilarityScore, 1e-9)

	resp = s.do(t, http.MethodGet, "/api/v1/faq/search", token, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/v1/faq/search?q=x&threshold=2", token, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/v1/faq/search?q=zzz", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &result)
	assert.Empty(t, result.Matches)
}

func TestRouter_FAQReloadAndStats(t *testing.T) {
	s := newTestServer(t, nil, nil)
	token := s.login(t)

	resp := s.do(t, http.MethodPost, "/api/v1/faq/reload", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reload dto.FAQReloadResponse
	decode(t, resp, &reload)
	assert.Equal(t, 1, reload.Entries)

	resp = s.do(t, http.MethodGet, "/api/v1/faq/stats", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats knowledge.Statistics
	decode(t, resp, &stats)
	assert.Equal(t, 1, stats.TotalQuestions)
	assert.Equal(t, 1, stats.QuestionsWithoutURLs)
}

func TestRouter_RateLimitAdministration(t *testing.T) {
	s := newTestServer(t, nil, nil)
	token := s.login(t)
	s.limiter.Record(555, ratelimit.CategoryQuestion, true)

	resp := s.do(t, http.MethodGet, "/api/v1/ratelimit/policies", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var policies []ratelimit.Policy
	decode(t, resp, &policies)
	assert.Len(t, policies, 4)

	resp = s.do(t, http.MethodGet, "/api/v1/ratelimit/users/555", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var usage dto.UserRateLimitResponse
	decode(t, resp, &usage)
	assert.True(t, usage.HasHistory)

	resp = s.do(t, http.MethodGet, "/api/v1/ratelimit/users/abc", token, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errBody map[string]string
	decode(t, resp, &errBody)
	assert.Equal(t, "Invalid user ID", errBody["error"])

	resp = s.do(t, http.MethodDelete, "/api/v1/ratelimit/users/555", token, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.False(t, s.limiter.HasHistory(555))
	assert.Equal(t, models.ActionRateLimitCleared, s.audit.entries[len(s.audit.entries)-1].Action)
}

func TestRouter_UpdateUser(t *testing.T) {
	s := newTestServer(t, nil, nil)
	token := s.login(t)

	resp := s.do(t, http.MethodPatch, "/api/v1/users/555", token, `{"role":"employee","is_blocked":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.RoleEmployee, s.users.users[555].Role)
	assert.True(t, s.users.users[555].IsBlocked)

	resp = s.do(t, http.MethodPatch, "/api/v1/users/555", token, `{"role":"superuser"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, http.MethodPatch, "/api/v1/users/999", token, `{"is_blocked":true}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_Settings(t *testing.T) {
	s := newTestServer(t, nil, nil)
	token := s.login(t)

	resp := s.do(t, http.MethodGet, "/api/v1/settings/faq_enabled", token, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/v1/settings/faq_enabled", token, `{"value":"false","description":"FAQ lookup"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/v1/settings/faq_enabled", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var setting models.SystemSetting
	decode(t, resp, &setting)
	assert.Equal(t, "false", setting.Value)
}

func TestRouter_Export(t *testing.T) {
	s := newTestServer(t, nil, nil)
	token := s.login(t)

	resp := s.do(t, http.MethodGet, "/api/v1/export/queries?format=csv", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".csv")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "user_***555")
	assert.Equal(t, models.ActionDataExported, s.audit.entries[len(s.audit.entries)-1].Action)

	resp = s.do(t, http.MethodGet, "/api/v1/export/queries?format=xlsx", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")

	resp = s.do(t, http.MethodGet, "/api/v1/export/queries?format=pdf", token, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_AuditLogs(t *testing.T) {
	s := newTestServer(t, nil, nil)
	token := s.login(t)

	resp := s.do(t, http.MethodGet, "/api/v1/audit?limit=-1", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, service.DefaultPageSize, s.audit.lastLimit)

	resp = s.do(t, http.MethodGet, "/api/v1/audit?limit=100000", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, service.MaxPageSize, s.audit.lastLimit)

	resp = s.do(t, http.MethodGet, "/api/v1/audit", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 100, s.audit.lastLimit)

	var logs []*models.AuditLog
	decode(t, resp, &logs)
	require.Len(t, logs, 1)

	resp = s.do(t, http.MethodGet, "/api/v1/audit?user_id=abc", token, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_Metrics(t *testing.T) {
	s := newTestServer(t, nil, nil)
	s.do(t, http.MethodGet, "/health", "", "")

	resp := s.do(t, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "ohs_admin_http_requests_total")
}

func TestRouter_Swagger(t *testing.T) {
	s := newTestServer(t, nil, nil)

	resp := s.do(t, http.MethodGet, "/swagger/doc.json", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc struct {
		BasePath string                    `json:"basePath"`
		Paths    map[string]map[string]any `json:"paths"`
	}
	decode(t, resp, &doc)
	assert.Equal(t, "/api/v1", doc.BasePath)
	assert.Contains(t, doc.Paths, "/admin/auth/login")
	assert.Contains(t, doc.Paths["/ratelimit/users/{id}"], "delete")

	resp = s.do(t, http.MethodGet, "/swagger/index.html", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_Throttle(t *testing.T) {
	throttle := middleware.NewThrottle(60, 2, time.Minute)
	defer throttle.Close()
	s := newTestServer(t, nil, throttle)

	for i := 0; i < 2; i++ {
		resp := s.do(t, http.MethodGet, "/api/v1/stats", "", "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
	resp := s.do(t, http.MethodGet, "/api/v1/stats", "", "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
