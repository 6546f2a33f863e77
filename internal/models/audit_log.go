package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionConsentAccepted   = "consent_accepted"
	ActionQuestionAsked     = "question_asked"
	ActionAssistantAsked    = "assistant_question_asked"
	ActionExpandRequested   = "expand_answer_requested"
	ActionFAQRatedHelpful   = "faq_rated_helpful"
	ActionFAQRatedUnhelpful = "faq_rated_unhelpful"
	ActionAIRatedHelpful    = "ai_rated_helpful"
	ActionAIRatedUnhelpful  = "ai_rated_unhelpful"
	ActionAIAfterRejection  = "ai_after_negative_rating"
	ActionUserBlocked       = "user_blocked"
	ActionUserUnblocked     = "user_unblocked"
	ActionRateLimitCleared  = "rate_limit_cleared"
	ActionFAQReloaded       = "faq_reloaded"
	ActionAdminLogin        = "admin_login"
	ActionDataExported      = "data_exported"
)

// AuditLog records operations on personal data.
type AuditLog struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	UserID    *int64         `db:"user_id" json:"user_id,omitempty"`
	Action    string         `db:"action" json:"action"`
	Details   map[string]any `db:"details" json:"details,omitempty"`
	IPAddress string         `db:"ip_address" json:"ip_address,omitempty"`
	UserAgent string         `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}
