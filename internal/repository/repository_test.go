package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"ohs-consultant/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFound(t *testing.T) {
	assert.ErrorIs(t, notFound(pgx.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t, notFound(fmt.Errorf("wrapped: %w", pgx.ErrNoRows)), ErrNotFound)

	other := errors.New("connection reset")
	assert.Equal(t, other, notFound(other))
}

func TestUpsertProfileQuery(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	user := &models.User{ID: 42, Username: "safety", FirstName: "Анна", Role: models.RoleTrial}

	sql, args, err := upsertProfileQuery(user, now).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "INSERT INTO users (id,username,first_name,last_name,role,created_at,updated_at) VALUES ($1,$2,$3,$4,$5,$6,$7)")
	assert.Contains(t, sql, "ON CONFLICT (id) DO UPDATE SET username = EXCLUDED.username")
	assert.NotContains(t, sql, "role = EXCLUDED.role")
	assert.Contains(t, sql, "RETURNING id, username")
	assert.Equal(t, []interface{}{int64(42), "safety", "Анна", "", models.RoleTrial, now, now}, args)
}

func TestListUsersQuery(t *testing.T) {
	sql, args, err := listUsersQuery(models.RoleAdmin, 20, 40).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "FROM users WHERE role = $1 ORDER BY created_at DESC LIMIT 20 OFFSET 40")
	assert.Equal(t, []interface{}{models.RoleAdmin}, args)

	sql, args, err = listUsersQuery("", 0, 0).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, sql, "WHERE")
	assert.NotContains(t, sql, "LIMIT")
	assert.Empty(t, args)
}

func TestCountUsersQuery(t *testing.T) {
	since := time.Date(2025, 2, 22, 0, 0, 0, 0, time.UTC)

	sql, args, err := countUsersQuery(since).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "COUNT(*) FILTER (WHERE consent_accepted)")
	assert.Contains(t, sql, "COUNT(*) FILTER (WHERE last_request_at >= $1)")
	assert.Equal(t, []interface{}{since}, args)
}

func TestRecentMessagesQuery(t *testing.T) {
	sql, args, err := recentMessagesQuery(7, 3).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, user_id, role, content, created_at FROM messages WHERE user_id = $1 ORDER BY created_at DESC LIMIT 3", sql)
	assert.Equal(t, []interface{}{int64(7)}, args)
}

func TestListQueriesQuery(t *testing.T) {
	sql, _, err := listQueriesQuery(0, 50, 0).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, sql, "WHERE")
	assert.Contains(t, sql, "ORDER BY created_at DESC LIMIT 50 OFFSET 0")

	sql, args, err := listQueriesQuery(9, 10, 10).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE user_id = $1")
	assert.Equal(t, []interface{}{int64(9)}, args)
}

func TestStatsQueries(t *testing.T) {
	sql, _, err := queryTotalsQuery().ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "AVG(response_time) FILTER (WHERE source = 'ai')")

	sql, args, err := popularCategoriesQuery(10).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT category, COUNT(*) AS cnt FROM queries WHERE category <> $1 GROUP BY category ORDER BY cnt DESC, category LIMIT 10", sql)
	assert.Equal(t, []interface{}{""}, args)

	sql, _, err = providersQuery().ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "GROUP BY ai_provider")
}

func TestUpsertSettingQuery(t *testing.T) {
	sql, args, err := upsertSettingQuery(&models.SystemSetting{Key: "faq_enabled", Value: "true"}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value")
	require.Len(t, args, 4)
	assert.Equal(t, "faq_enabled", args[0])
}

func TestListAuditQuery(t *testing.T) {
	sql, args, err := listAuditQuery(nil, 100).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, sql, "WHERE")
	assert.Empty(t, args)

	userID := int64(5)
	sql, args, err = listAuditQuery(&userID, 10).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE user_id = $1")
	assert.Equal(t, []interface{}{int64(5)}, args)

	sql, _, err = listAuditQuery(nil, -1).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, sql, "LIMIT")
}

func TestInsertFAQQuery(t *testing.T) {
	records := []*models.FAQRecord{
		{ID: uuid.New(), Position: 0, Question: "q1"},
		{ID: uuid.New(), Position: 1, Question: "q2"},
	}

	sql, args, err := insertFAQQuery(records).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9),($10,")
	assert.Len(t, args, 2*len(faqColumns))
	assert.Equal(t, "q2", args[len(faqColumns)+2])
}
