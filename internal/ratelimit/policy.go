// Package ratelimit throttles chat requests per Telegram user and per request
// category with fixed sliding windows kept in memory.
package ratelimit

import (
	"fmt"
	"time"
)

const (
	CategoryQuestion          = "question"
	CategoryAssistantQuestion = "assistant_question"
	CategoryExpandAnswer      = "expand_answer"
	CategoryGlobal            = "global"
)

// Policy is an immutable sliding-window limit for one category.
type Policy struct {
	Category      string `json:"category"`
	MaxRequests   int    `json:"max_requests"`
	WindowSeconds int    `json:"window_seconds"`
	Name          string `json:"name"`
}

func (p Policy) window() time.Duration {
	return time.Duration(p.WindowSeconds) * time.Second
}

// WindowLabel renders the window the way users see it ("1 мин.", "90 сек.").
func (p Policy) WindowLabel() string {
	if p.WindowSeconds%60 == 0 {
		return fmt.Sprintf("%d мин.", p.WindowSeconds/60)
	}
	return fmt.Sprintf("%d сек.", p.WindowSeconds)
}

// DefaultPolicies returns the production policy table.
func DefaultPolicies() []Policy {
	return []Policy{
		{Category: CategoryQuestion, MaxRequests: 10, WindowSeconds: 60, Name: "обычные вопросы"},
		{Category: CategoryAssistantQuestion, MaxRequests: 5, WindowSeconds: 60, Name: "вопросы к нейроассистенту"},
		{Category: CategoryExpandAnswer, MaxRequests: 3, WindowSeconds: 60, Name: "расширенные ответы"},
		{Category: CategoryGlobal, MaxRequests: 20, WindowSeconds: 300, Name: "все запросы"},
	}
}
