package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"ohs-consultant/internal/dto"
	"ohs-consultant/internal/knowledge"
	"ohs-consultant/internal/models"
	"ohs-consultant/internal/ratelimit"
	"ohs-consultant/internal/repository"
	"ohs-consultant/internal/service"
	"ohs-consultant/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const defaultAuditLimit = 100

type StatsProvider interface {
	Overview(ctx context.Context) (*dto.StatsResponse, error)
	Queries(ctx context.Context, userID int64, limit, offset int) ([]*models.Query, error)
	AnonymizedQueries(ctx context.Context, limit, offset int) ([]dto.AnonymizedQuery, error)
	ExportRows(ctx context.Context) ([]dto.AnonymizedQuery, error)
}

type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context, role models.UserRole, limit, offset int) ([]*models.User, error)
	SetBlocked(ctx context.Context, id int64, blocked bool) error
	SetRole(ctx context.Context, id int64, role models.UserRole) error
}

type SettingsStore interface {
	Get(ctx context.Context, key string) (*models.SystemSetting, error)
	Set(ctx context.Context, key, value, description string) error
	List(ctx context.Context) ([]*models.SystemSetting, error)
}

type AuditTrail interface {
	LogRequest(ctx context.Context, userID *int64, action string, details map[string]any, ip, userAgent string)
	List(ctx context.Context, userID *int64, limit int) ([]*models.AuditLog, error)
}

type KnowledgeBase interface {
	Len() int
	Reload(ctx context.Context) error
	Statistics() knowledge.Statistics
	FindRelevant(query string, threshold float64, topK int) []knowledge.Match
}

type RateLimits interface {
	Policies() []ratelimit.Policy
	Usage(userID int64) []ratelimit.Usage
	HasHistory(userID int64) bool
	ClearUserHistory(userID int64)
}

type AdminDeps struct {
	Stats     StatsProvider
	Users     UserDirectory
	Settings  SettingsStore
	Audit     AuditTrail
	Knowledge KnowledgeBase
	Limiter   RateLimits
}

// AdminHandler serves the JWT-protected admin panel.
type AdminHandler struct {
	stats    StatsProvider
	users    UserDirectory
	settings SettingsStore
	audit    AuditTrail
	kb       KnowledgeBase
	limiter  RateLimits
	logger   *zap.Logger
}

func NewAdminHandler(deps AdminDeps, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		stats:    deps.Stats,
		users:    deps.Users,
		settings: deps.Settings,
		audit:    deps.Audit,
		kb:       deps.Knowledge,
		limiter:  deps.Limiter,
		logger:   logger,
	}
}

func (h *AdminHandler) logAction(c *fiber.Ctx, userID *int64, action string, details map[string]any) {
	if details == nil {
		details = map[string]any{}
	}
	if admin, ok := c.Locals(middleware.LocalsAdminID).(string); ok {
		details["admin"] = admin
	}
	h.audit.LogRequest(c.Context(), userID, action, details, c.IP(), c.Get(fiber.HeaderUserAgent))
}

func paging(c *fiber.Ctx) (int, int) {
	return service.ClampPage(c.QueryInt("limit", service.DefaultPageSize), c.QueryInt("offset", 0))
}

func parseUserID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid user ID")
	}
	return id, nil
}

// Stats godoc
// @Summary System statistics
// @Description Returns user counts, query statistics, knowledge base summary and rate limit usage
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.StatsResponse
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /stats [get]
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.stats.Overview(c.Context())
	if err != nil {
		h.logger.Error("Failed to collect stats", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to collect stats",
		})
	}
	return c.JSON(stats)
}

// ListUsers godoc
// @Summary List users
// @Description Lists bot users, optionally filtered by role
// @Tags users
// @Produce json
// @Param role query string false "Role filter"
// @Param limit query integer false "Page size"
// @Param offset query integer false "Page offset"
// @Security Bearer
// @Success 200 {object} dto.ListResponse[models.User]
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /users [get]
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	role := models.UserRole(c.Query("role"))
	if role != "" && !role.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid role",
		})
	}

	limit, offset := paging(c)
	users, err := h.users.List(c.Context(), role, limit, offset)
	if err != nil {
		h.logger.Error("Failed to list users", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list users",
		})
	}
	return c.JSON(dto.ListResponse[*models.User]{Items: users, Limit: limit, Offset: offset})
}

// UpdateUser godoc
// @Summary Update user
// @Description Changes the role or the blocked flag of a user
// @Tags users
// @Accept json
// @Produce json
// @Param id path integer true "Telegram user ID"
// @Param request body dto.UpdateUserRequest true "Fields to change"
// @Security Bearer
// @Success 200 {object} models.User
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /users/{id} [patch]
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := parseUserID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Role != nil && !req.Role.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid role",
		})
	}

	ctx := c.Context()
	if req.Role != nil {
		if err := h.users.SetRole(ctx, id, *req.Role); err != nil {
			return h.userError(c, err)
		}
	}
	if req.IsBlocked != nil {
		if err := h.users.SetBlocked(ctx, id, *req.IsBlocked); err != nil {
			return h.userError(c, err)
		}
		action := models.ActionUserUnblocked
		if *req.IsBlocked {
			action = models.ActionUserBlocked
		}
		h.logAction(c, &id, action, nil)
	}

	user, err := h.users.GetByID(ctx, id)
	if err != nil {
		return h.userError(c, err)
	}
	return c.JSON(user)
}

func (h *AdminHandler) userError(c *fiber.Ctx, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}
	h.logger.Error("User update failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "User update failed",
	})
}

// ListQueries godoc
// @Summary List queries
// @Description Lists answered questions, newest first
// @Tags queries
// @Produce json
// @Param user_id query integer false "Telegram user ID"
// @Param limit query integer false "Page size"
// @Param offset query integer false "Page offset"
// @Security Bearer
// @Success 200 {object} dto.ListResponse[models.Query]
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /queries [get]
func (h *AdminHandler) ListQueries(c *fiber.Ctx) error {
	limit, offset := paging(c)
	userID := int64(c.QueryInt("user_id", 0))

	queries, err := h.stats.Queries(c.Context(), userID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to list queries", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list queries",
		})
	}
	return c.JSON(dto.ListResponse[*models.Query]{Items: queries, Limit: limit, Offset: offset})
}

// AnonymizedAnalytics godoc
// @Summary Anonymized queries
// @Description Lists queries with personal data and user ids masked
// @Tags queries
// @Produce json
// @Param limit query integer false "Page size"
// @Param offset query integer false "Page offset"
// @Security Bearer
// @Success 200 {object} dto.ListResponse[dto.AnonymizedQuery]
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /analytics/anonymized [get]
func (h *AdminHandler) AnonymizedAnalytics(c *fiber.Ctx) error {
	limit, offset := paging(c)

	rows, err := h.stats.AnonymizedQueries(c.Context(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to build analytics", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build analytics",
		})
	}
	return c.JSON(dto.ListResponse[dto.AnonymizedQuery]{Items: rows, Limit: limit, Offset: offset})
}

// ExportQueries godoc
// @Summary Export queries
// @Description Downloads the query history as CSV or XLSX
// @Tags queries
// @Produce octet-stream
// @Param format query string false "csv or xlsx"
// @Security Bearer
// @Success 200 {file} file
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /export/queries [get]
func (h *AdminHandler) ExportQueries(c *fiber.Ctx) error {
	format := c.Query("format", service.FormatCSV)
	contentType, err := service.ContentType(format)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unsupported format",
		})
	}

	rows, err := h.stats.ExportRows(c.Context())
	if err != nil {
		h.logger.Error("Failed to export queries", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to export queries",
		})
	}

	var buf bytes.Buffer
	if err := service.WriteExport(&buf, format, rows); err != nil {
		h.logger.Error("Failed to render export", zap.String("format", format), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to export queries",
		})
	}

	h.logAction(c, nil, models.ActionDataExported, map[string]any{"format": format, "rows": len(rows)})

	filename := fmt.Sprintf("queries_%s.%s", time.Now().UTC().Format("20060102_150405"), format)
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}

// ListSettings godoc
// @Summary List settings
// @Description Lists all system settings
// @Tags settings
// @Produce json
// @Security Bearer
// @Success 200 {array} models.SystemSetting
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /settings [get]
func (h *AdminHandler) ListSettings(c *fiber.Ctx) error {
	settings, err := h.settings.List(c.Context())
	if err != nil {
		h.logger.Error("Failed to list settings", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list settings",
		})
	}
	return c.JSON(settings)
}

// GetSetting godoc
// @Summary Get setting
// @Description Returns one system setting
// @Tags settings
// @Produce json
// @Param key path string true "Setting key"
// @Security Bearer
// @Success 200 {object} models.SystemSetting
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /settings/{key} [get]
func (h *AdminHandler) GetSetting(c *fiber.Ctx) error {
	setting, err := h.settings.Get(c.Context(), c.Params("key"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Setting not found",
			})
		}
		h.logger.Error("Failed to get setting", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get setting",
		})
	}
	return c.JSON(setting)
}

// SetSetting godoc
// @Summary Save setting
// @Description Creates or updates a system setting
// @Tags settings
// @Accept json
// @Produce json
// @Param key path string true "Setting key"
// @Param request body dto.SettingRequest true "Setting value"
// @Security Bearer
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /settings/{key} [post]
func (h *AdminHandler) SetSetting(c *fiber.Ctx) error {
	key := c.Params("key")

	var req dto.SettingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.settings.Set(c.Context(), key, req.Value, req.Description); err != nil {
		h.logger.Error("Failed to save setting", zap.String("key", key), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save setting",
		})
	}

	return c.JSON(fiber.Map{"key": key, "value": req.Value})
}

// FAQStats godoc
// @Summary FAQ statistics
// @Description Summarises the loaded FAQ corpus
// @Tags faq
// @Produce json
// @Security Bearer
// @Success 200 {object} knowledge.Statistics
// @Failure 401 {object} map[string]string
// @Router /faq/stats [get]
func (h *AdminHandler) FAQStats(c *fiber.Ctx) error {
	return c.JSON(h.kb.Statistics())
}

// FAQSearch godoc
// @Summary Search FAQ
// @Description Runs a similarity search over the FAQ corpus
// @Tags faq
// @Produce json
// @Param q query string true "Question text"
// @Param threshold query number false "Minimum similarity, 0..1"
// @Param top_k query integer false "Maximum matches"
// @Security Bearer
// @Success 200 {object} dto.FAQSearchResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /faq/search [get]
func (h *AdminHandler) FAQSearch(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Query parameter q is required",
		})
	}

	threshold := c.QueryFloat("threshold", knowledge.DefaultThreshold)
	if threshold < 0 || threshold > 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Threshold must be between 0 and 1",
		})
	}
	topK := c.QueryInt("top_k", knowledge.DefaultTopK)

	matches := h.kb.FindRelevant(query, threshold, topK)
	if matches == nil {
		matches = []knowledge.Match{}
	}
	return c.JSON(dto.FAQSearchResponse{Query: query, Threshold: threshold, Matches: matches})
}

// FAQReload godoc
// @Summary Reload FAQ
// @Description Reloads the FAQ corpus from its source
// @Tags faq
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.FAQReloadResponse
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /faq/reload [post]
func (h *AdminHandler) FAQReload(c *fiber.Ctx) error {
	if err := h.kb.Reload(c.Context()); err != nil {
		h.logger.Error("FAQ reload failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "FAQ reload failed",
			"entries": h.kb.Len(),
		})
	}

	h.logAction(c, nil, models.ActionFAQReloaded, map[string]any{"entries": h.kb.Len()})
	return c.JSON(dto.FAQReloadResponse{Entries: h.kb.Len()})
}

// RateLimitPolicies godoc
// @Summary Rate limit policies
// @Description Lists the configured rate limit policies
// @Tags ratelimit
// @Produce json
// @Security Bearer
// @Success 200 {array} ratelimit.Policy
// @Failure 401 {object} map[string]string
// @Router /ratelimit/policies [get]
func (h *AdminHandler) RateLimitPolicies(c *fiber.Ctx) error {
	return c.JSON(h.limiter.Policies())
}

// UserRateLimit godoc
// @Summary User rate limit usage
// @Description Reports per-category usage for a user
// @Tags ratelimit
// @Produce json
// @Param id path integer true "Telegram user ID"
// @Security Bearer
// @Success 200 {object} dto.UserRateLimitResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /ratelimit/users/{id} [get]
func (h *AdminHandler) UserRateLimit(c *fiber.Ctx) error {
	id, err := parseUserID(c)
	if err != nil {
		return err
	}
	return c.JSON(dto.UserRateLimitResponse{
		UserID:     id,
		HasHistory: h.limiter.HasHistory(id),
		Usage:      h.limiter.Usage(id),
	})
}

// ClearUserRateLimit godoc
// @Summary Clear user rate limit
// @Description Drops the rate limit history of a user
// @Tags ratelimit
// @Produce json
// @Param id path integer true "Telegram user ID"
// @Security Bearer
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /ratelimit/users/{id} [delete]
func (h *AdminHandler) ClearUserRateLimit(c *fiber.Ctx) error {
	id, err := parseUserID(c)
	if err != nil {
		return err
	}

	h.limiter.ClearUserHistory(id)
	h.logAction(c, &id, models.ActionRateLimitCleared, nil)
	return c.SendStatus(fiber.StatusNoContent)
}

// AuditLogs godoc
// @Summary Audit log
// @Description Lists audit entries, newest first
// @Tags audit
// @Produce json
// @Param user_id query integer false "Telegram user ID"
// @Param limit query integer false "Maximum entries"
// @Security Bearer
// @Success 200 {array} models.AuditLog
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /audit [get]
func (h *AdminHandler) AuditLogs(c *fiber.Ctx) error {
	var userID *int64
	if raw := c.Query("user_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid user_id",
			})
		}
		userID = &id
	}

	limit, _ := service.ClampPage(c.QueryInt("limit", defaultAuditLimit), 0)
	logs, err := h.audit.List(c.Context(), userID, limit)
	if err != nil {
		h.logger.Error("Failed to list audit logs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list audit logs",
		})
	}
	return c.JSON(logs)
}
