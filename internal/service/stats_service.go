package service

import (
	"context"
	"fmt"
	"time"

	"ohs-consultant/internal/dto"
	"ohs-consultant/internal/knowledge"
	"ohs-consultant/internal/models"
	"ohs-consultant/internal/privacy"

	"go.uber.org/zap"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 500
	maxExportRows   = 10000
)

type UserCounter interface {
	Counts(ctx context.Context) (*models.UserCounts, error)
}

type QueryReader interface {
	List(ctx context.Context, userID int64, limit, offset int) ([]*models.Query, error)
	Stats(ctx context.Context) (*models.QueryStats, error)
}

type KnowledgeStats interface {
	Statistics() knowledge.Statistics
}

type ActiveUserCounter interface {
	ActiveUsers() int
}

// StatsService aggregates usage statistics for the admin surfaces.
type StatsService struct {
	users   UserCounter
	queries QueryReader
	kb      KnowledgeStats
	limiter ActiveUserCounter
	logger  *zap.Logger
	now     func() time.Time
}

func NewStatsService(users UserCounter, queries QueryReader, kb KnowledgeStats, limiter ActiveUserCounter, logger *zap.Logger) *StatsService {
	return &StatsService{
		users:   users,
		queries: queries,
		kb:      kb,
		limiter: limiter,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *StatsService) Overview(ctx context.Context) (*dto.StatsResponse, error) {
	counts, err := s.users.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	queryStats, err := s.queries.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to collect query stats: %w", err)
	}

	return &dto.StatsResponse{
		Users:          *counts,
		Queries:        *queryStats,
		KnowledgeBase:  s.kb.Statistics(),
		RateLimitUsers: s.limiter.ActiveUsers(),
		GeneratedAt:    s.now().UTC(),
	}, nil
}

func (s *StatsService) Queries(ctx context.Context, userID int64, limit, offset int) ([]*models.Query, error) {
	limit, offset = ClampPage(limit, offset)
	return s.queries.List(ctx, userID, limit, offset)
}

// AnonymizedQueries returns recent queries with user ids masked and personal
// data stripped from both question and answer.
func (s *StatsService) AnonymizedQueries(ctx context.Context, limit, offset int) ([]dto.AnonymizedQuery, error) {
	queries, err := s.Queries(ctx, 0, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list queries: %w", err)
	}

	result := make([]dto.AnonymizedQuery, 0, len(queries))
	for _, q := range queries {
		result = append(result, anonymizeQuery(q))
	}
	return result, nil
}

func anonymizeQuery(q *models.Query) dto.AnonymizedQuery {
	return dto.AnonymizedQuery{
		User:         privacy.MaskUserID(q.UserID, ""),
		Question:     privacy.AnonymizeForAnalytics(q.Question),
		Answer:       privacy.AnonymizeForAnalytics(q.Answer),
		Source:       string(q.Source),
		Category:     q.Category,
		AIProvider:   q.AIProvider,
		ResponseTime: q.ResponseTime,
		CreatedAt:    q.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ExportRows loads up to maxExportRows anonymized queries for export.
func (s *StatsService) ExportRows(ctx context.Context) ([]dto.AnonymizedQuery, error) {
	queries, err := s.queries.List(ctx, 0, maxExportRows, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list queries: %w", err)
	}

	rows := make([]dto.AnonymizedQuery, 0, len(queries))
	for _, q := range queries {
		rows = append(rows, anonymizeQuery(q))
	}
	s.logger.Info("Prepared export", zap.Int("rows", len(rows)))
	return rows, nil
}

// ClampPage applies the default and maximum page size.
func ClampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
