package repository

import (
	"context"
	"time"

	"ohs-consultant/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type SettingRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewSettingRepository(db *pgxpool.Pool, logger *zap.Logger) *SettingRepository {
	return &SettingRepository{
		db:     db,
		logger: logger,
	}
}

func (r *SettingRepository) Get(ctx context.Context, key string) (*models.SystemSetting, error) {
	query := squirrel.Select("key", "value", "description", "updated_at").
		From("system_settings").
		Where(squirrel.Eq{"key": key}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var s models.SystemSetting
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&s.Key, &s.Value, &s.Description, &s.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func upsertSettingQuery(s *models.SystemSetting) squirrel.InsertBuilder {
	return squirrel.Insert("system_settings").
		Columns("key", "value", "description", "updated_at").
		Values(s.Key, s.Value, s.Description, s.UpdatedAt).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, " +
			"description = COALESCE(NULLIF(EXCLUDED.description, ''), system_settings.description), " +
			"updated_at = EXCLUDED.updated_at").
		PlaceholderFormat(squirrel.Dollar)
}

// Set creates or overwrites a setting. An empty description keeps the stored one.
func (r *SettingRepository) Set(ctx context.Context, key, value, description string) error {
	sql, args, err := upsertSettingQuery(&models.SystemSetting{
		Key:         key,
		Value:       value,
		Description: description,
		UpdatedAt:   time.Now().UTC(),
	}).ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *SettingRepository) List(ctx context.Context) ([]*models.SystemSetting, error) {
	query := squirrel.Select("key", "value", "description", "updated_at").
		From("system_settings").
		OrderBy("key").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []*models.SystemSetting
	for rows.Next() {
		var s models.SystemSetting
		if err := rows.Scan(&s.Key, &s.Value, &s.Description, &s.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, &s)
	}
	return settings, rows.Err()
}
