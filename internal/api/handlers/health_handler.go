package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const pingTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db      Pinger
	kb      KnowledgeBase
	started time.Time
}

func NewHealthHandler(db Pinger, kb KnowledgeBase) *HealthHandler {
	return &HealthHandler{db: db, kb: kb, started: time.Now()}
}

// Health GET /health reports 503 when the database does not answer.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), pingTimeout)
	defer cancel()

	status, database, code := "ok", "ok", fiber.StatusOK
	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			status, database, code = "degraded", "unavailable", fiber.StatusServiceUnavailable
		}
	}

	return c.Status(code).JSON(fiber.Map{
		"status":      status,
		"database":    database,
		"faq_entries": h.kb.Len(),
		"uptime":      time.Since(h.started).Round(time.Second).String(),
	})
}
