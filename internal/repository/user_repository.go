package repository

import (
	"context"
	"fmt"
	"time"

	"ohs-consultant/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var userColumns = []string{
	"id", "username", "first_name", "last_name", "role", "is_active", "is_blocked",
	"consent_accepted", "consent_accepted_at", "total_requests", "last_request_at", "created_at", "updated_at",
}

type UserRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewUserRepository(db *pgxpool.Pool, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Username, &user.FirstName, &user.LastName, &user.Role, &user.IsActive, &user.IsBlocked,
		&user.ConsentAccepted, &user.ConsentAcceptedAt, &user.TotalRequests, &user.LastRequestAt, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := squirrel.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFound(err)
	}
	return user, nil
}

func upsertProfileQuery(user *models.User, now time.Time) squirrel.InsertBuilder {
	return squirrel.Insert("users").
		Columns("id", "username", "first_name", "last_name", "role", "created_at", "updated_at").
		Values(user.ID, user.Username, user.FirstName, user.LastName, user.Role, now, now).
		Suffix("ON CONFLICT (id) DO UPDATE SET username = EXCLUDED.username, first_name = EXCLUDED.first_name, " +
			"last_name = EXCLUDED.last_name, updated_at = EXCLUDED.updated_at RETURNING " + joinColumns(userColumns)).
		PlaceholderFormat(squirrel.Dollar)
}

// UpsertProfile creates the user on first contact and refreshes the Telegram
// profile fields afterwards. Role and flags of an existing user are kept.
func (r *UserRepository) UpsertProfile(ctx context.Context, user *models.User) (*models.User, error) {
	if user.Role == "" {
		user.Role = models.RoleTrial
	}

	sql, args, err := upsertProfileQuery(user, time.Now().UTC()).ToSql()
	if err != nil {
		return nil, err
	}

	stored, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	return stored, nil
}

func (r *UserRepository) update(ctx context.Context, id int64, set map[string]interface{}) error {
	query := squirrel.Update("users").
		SetMap(set).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) AcceptConsent(ctx context.Context, id int64, at time.Time) error {
	return r.update(ctx, id, map[string]interface{}{
		"consent_accepted":    true,
		"consent_accepted_at": at,
	})
}

func (r *UserRepository) SetBlocked(ctx context.Context, id int64, blocked bool) error {
	return r.update(ctx, id, map[string]interface{}{"is_blocked": blocked})
}

func (r *UserRepository) SetRole(ctx context.Context, id int64, role models.UserRole) error {
	return r.update(ctx, id, map[string]interface{}{"role": role})
}

func (r *UserRepository) IncrementRequests(ctx context.Context, id int64, at time.Time) error {
	return r.update(ctx, id, map[string]interface{}{
		"total_requests":  squirrel.Expr("total_requests + 1"),
		"last_request_at": at,
	})
}

func listUsersQuery(role models.UserRole, limit, offset int) squirrel.SelectBuilder {
	query := squirrel.Select(userColumns...).
		From("users").
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)
	if role != "" {
		query = query.Where(squirrel.Eq{"role": role})
	}
	if limit > 0 {
		query = query.Limit(uint64(limit)).Offset(uint64(offset))
	}
	return query
}

// List returns users newest first. An empty role lists every role.
func (r *UserRepository) List(ctx context.Context, role models.UserRole, limit, offset int) ([]*models.User, error) {
	sql, args, err := listUsersQuery(role, limit, offset).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func countUsersQuery(activeSince time.Time) squirrel.SelectBuilder {
	return squirrel.Select(
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE consent_accepted)",
		"COUNT(*) FILTER (WHERE is_blocked)",
	).
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE last_request_at >= ?)", activeSince)).
		From("users").
		PlaceholderFormat(squirrel.Dollar)
}

func (r *UserRepository) Counts(ctx context.Context) (*models.UserCounts, error) {
	sql, args, err := countUsersQuery(time.Now().UTC().AddDate(0, 0, -7)).ToSql()
	if err != nil {
		return nil, err
	}

	var counts models.UserCounts
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&counts.Total, &counts.Consented, &counts.Blocked, &counts.Active); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	return &counts, nil
}
