package models

import (
	"time"

	"github.com/google/uuid"
)

type AnswerSource string

const (
	SourceFAQ AnswerSource = "faq"
	SourceAI  AnswerSource = "ai"
)

// Query is an answered question, kept for statistics.
type Query struct {
	ID           uuid.UUID    `db:"id" json:"id"`
	UserID       int64        `db:"user_id" json:"user_id"`
	Question     string       `db:"question" json:"question"`
	Answer       string       `db:"answer" json:"answer"`
	Source       AnswerSource `db:"source" json:"source"`
	AIProvider   string       `db:"ai_provider" json:"ai_provider"`
	AIModel      string       `db:"ai_model" json:"ai_model"`
	ResponseTime float64      `db:"response_time" json:"response_time"`
	TokensUsed   int          `db:"tokens_used" json:"tokens_used"`
	Category     string       `db:"category" json:"category"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type QueryStats struct {
	TotalQueries    int             `json:"total_queries"`
	AvgResponseTime float64         `json:"avg_response_time"`
	TotalTokens     int             `json:"total_tokens"`
	FAQAnswers      int             `json:"faq_answers"`
	PopularTopics   []CategoryCount `json:"popular_categories"`
	Providers       map[string]int  `json:"ai_providers"`
}
