package repository

import (
	"context"
	"fmt"

	"ohs-consultant/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const popularCategoriesLimit = 10

var queryColumns = []string{
	"id", "user_id", "question", "answer", "source", "ai_provider", "ai_model",
	"response_time", "tokens_used", "category", "created_at",
}

type QueryRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewQueryRepository(db *pgxpool.Pool, logger *zap.Logger) *QueryRepository {
	return &QueryRepository{
		db:     db,
		logger: logger,
	}
}

func (r *QueryRepository) Create(ctx context.Context, q *models.Query) error {
	query := squirrel.Insert("queries").
		Columns(queryColumns...).
		Values(q.ID, q.UserID, q.Question, q.Answer, q.Source, q.AIProvider, q.AIModel,
			q.ResponseTime, q.TokensUsed, q.Category, q.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func listQueriesQuery(userID int64, limit, offset int) squirrel.SelectBuilder {
	query := squirrel.Select(queryColumns...).
		From("queries").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(squirrel.Dollar)
	if userID != 0 {
		query = query.Where(squirrel.Eq{"user_id": userID})
	}
	return query
}

// List returns queries newest first; userID 0 lists all users.
func (r *QueryRepository) List(ctx context.Context, userID int64, limit, offset int) ([]*models.Query, error) {
	sql, args, err := listQueriesQuery(userID, limit, offset).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var queries []*models.Query
	for rows.Next() {
		var q models.Query
		if err := rows.Scan(
			&q.ID, &q.UserID, &q.Question, &q.Answer, &q.Source, &q.AIProvider, &q.AIModel,
			&q.ResponseTime, &q.TokensUsed, &q.Category, &q.CreatedAt,
		); err != nil {
			return nil, err
		}
		queries = append(queries, &q)
	}
	return queries, rows.Err()
}

func queryTotalsQuery() squirrel.SelectBuilder {
	return squirrel.Select(
		"COUNT(*)",
		"COALESCE(AVG(response_time) FILTER (WHERE source = 'ai'), 0)",
		"COALESCE(SUM(tokens_used), 0)",
		"COUNT(*) FILTER (WHERE source = 'faq')",
	).From("queries")
}

func popularCategoriesQuery(limit int) squirrel.SelectBuilder {
	return squirrel.Select("category", "COUNT(*) AS cnt").
		From("queries").
		Where(squirrel.NotEq{"category": ""}).
		GroupBy("category").
		OrderBy("cnt DESC", "category").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)
}

func providersQuery() squirrel.SelectBuilder {
	return squirrel.Select("ai_provider", "COUNT(*)").
		From("queries").
		Where(squirrel.NotEq{"ai_provider": ""}).
		GroupBy("ai_provider").
		PlaceholderFormat(squirrel.Dollar)
}

func (r *QueryRepository) Stats(ctx context.Context) (*models.QueryStats, error) {
	stats := &models.QueryStats{Providers: make(map[string]int)}

	sql, args, err := queryTotalsQuery().ToSql()
	if err != nil {
		return nil, err
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(
		&stats.TotalQueries, &stats.AvgResponseTime, &stats.TotalTokens, &stats.FAQAnswers,
	); err != nil {
		return nil, fmt.Errorf("failed to aggregate queries: %w", err)
	}

	sql, args, err = popularCategoriesQuery(popularCategoriesLimit).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query popular categories: %w", err)
	}
	for rows.Next() {
		var c models.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			rows.Close()
			return nil, err
		}
		stats.PopularTopics = append(stats.PopularTopics, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sql, args, err = providersQuery().ToSql()
	if err != nil {
		return nil, err
	}
	rows, err = r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query providers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var provider string
		var count int
		if err := rows.Scan(&provider, &count); err != nil {
			return nil, err
		}
		stats.Providers[provider] = count
	}

	return stats, rows.Err()
}
