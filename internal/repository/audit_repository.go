package repository

import (
	"context"

	"ohs-consultant/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type AuditRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewAuditRepository(db *pgxpool.Pool, logger *zap.Logger) *AuditRepository {
	return &AuditRepository{
		db:     db,
		logger: logger,
	}
}

func (r *AuditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	query := squirrel.Insert("audit_logs").
		Columns("id", "user_id", "action", "details", "ip_address", "user_agent", "created_at").
		Values(entry.ID, entry.UserID, entry.Action, entry.Details, entry.IPAddress, entry.UserAgent, entry.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func listAuditQuery(userID *int64, limit int) squirrel.SelectBuilder {
	query := squirrel.Select("id", "user_id", "action", "details", "ip_address", "user_agent", "created_at").
		From("audit_logs").
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}
	if userID != nil {
		query = query.Where(squirrel.Eq{"user_id": *userID})
	}
	return query
}

// List returns the newest audit entries, optionally for one user.
func (r *AuditRepository) List(ctx context.Context, userID *int64, limit int) ([]*models.AuditLog, error) {
	sql, args, err := listAuditQuery(userID, limit).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.AuditLog
	for rows.Next() {
		var e models.AuditLog
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.Details, &e.IPAddress, &e.UserAgent, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
