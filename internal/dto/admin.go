package dto

import (
	"time"

	"ohs-consultant/internal/knowledge"
	"ohs-consultant/internal/models"
	"ohs-consultant/internal/ratelimit"
)

type StatsResponse struct {
	Users          models.UserCounts    `json:"users"`
	Queries        models.QueryStats    `json:"queries"`
	KnowledgeBase  knowledge.Statistics `json:"knowledge_base"`
	RateLimitUsers int                  `json:"rate_limited_users"`
	GeneratedAt    time.Time            `json:"generated_at"`
}

type ListResponse[T any] struct {
	Items  []T `json:"items"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// AnonymizedQuery is a query with personal data and the user id masked.
type AnonymizedQuery struct {
	User         string  `json:"user"`
	Question     string  `json:"question"`
	Answer       string  `json:"answer"`
	Source       string  `json:"source"`
	Category     string  `json:"category"`
	AIProvider   string  `json:"ai_provider,omitempty"`
	ResponseTime float64 `json:"response_time"`
	CreatedAt    string  `json:"created_at"`
}

type SettingRequest struct {
	Value       string `json:"value"`
	Description string `json:"description"`
}

type FAQSearchResponse struct {
	Query     string            `json:"query"`
	Threshold float64           `json:"threshold"`
	Matches   []knowledge.Match `json:"matches"`
}

type FAQReloadResponse struct {
	Entries int `json:"entries"`
}

type UserRateLimitResponse struct {
	UserID     int64             `json:"user_id"`
	HasHistory bool              `json:"has_history"`
	Usage      []ratelimit.Usage `json:"usage"`
}

type UpdateUserRequest struct {
	Role      *models.UserRole `json:"role,omitempty"`
	IsBlocked *bool            `json:"is_blocked,omitempty"`
}
