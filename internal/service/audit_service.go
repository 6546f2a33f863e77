package service

import (
	"context"
	"time"

	"ohs-consultant/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuditStore interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, userID *int64, limit int) ([]*models.AuditLog, error)
}

// AuditService writes the ФЗ-152 audit trail. Write failures are logged and
// never fail the audited operation.
type AuditService struct {
	store  AuditStore
	logger *zap.Logger
	now    func() time.Time
}

func NewAuditService(store AuditStore, logger *zap.Logger) *AuditService {
	return &AuditService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

func (s *AuditService) Log(ctx context.Context, userID *int64, action string, details map[string]any) {
	s.LogRequest(ctx, userID, action, details, "", "")
}

func (s *AuditService) LogRequest(ctx context.Context, userID *int64, action string, details map[string]any, ip, userAgent string) {
	entry := &models.AuditLog{
		ID:        uuid.New(),
		UserID:    userID,
		Action:    action,
		Details:   details,
		IPAddress: ip,
		UserAgent: userAgent,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to write audit log", zap.String("action", action), zap.Error(err))
	}
}

func (s *AuditService) List(ctx context.Context, userID *int64, limit int) ([]*models.AuditLog, error) {
	return s.store.List(ctx, userID, limit)
}
