package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Schema is the bootstrap DDL. Statements are idempotent.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT PRIMARY KEY,
		username VARCHAR(255) NOT NULL DEFAULT '',
		first_name VARCHAR(255) NOT NULL DEFAULT '',
		last_name VARCHAR(255) NOT NULL DEFAULT '',
		role VARCHAR(50) NOT NULL DEFAULT 'trial',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		is_blocked BOOLEAN NOT NULL DEFAULT FALSE,
		consent_accepted BOOLEAN NOT NULL DEFAULT FALSE,
		consent_accepted_at TIMESTAMPTZ,
		total_requests INTEGER NOT NULL DEFAULT 0,
		last_request_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id UUID PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		role VARCHAR(50) NOT NULL,
		content TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_user_created ON messages (user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS queries (
		id UUID PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		source VARCHAR(20) NOT NULL,
		ai_provider VARCHAR(50) NOT NULL DEFAULT '',
		ai_model VARCHAR(100) NOT NULL DEFAULT '',
		response_time DOUBLE PRECISION NOT NULL DEFAULT 0,
		tokens_used INTEGER NOT NULL DEFAULT 0,
		category VARCHAR(100) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_queries_created ON queries (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS system_settings (
		key VARCHAR(100) PRIMARY KEY,
		value TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		id UUID PRIMARY KEY,
		user_id BIGINT,
		action VARCHAR(100) NOT NULL,
		details JSONB,
		ip_address VARCHAR(45) NOT NULL DEFAULT '',
		user_agent VARCHAR(500) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_logs_user ON audit_logs (user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS faq_entries (
		id UUID PRIMARY KEY,
		position INTEGER NOT NULL,
		question TEXT NOT NULL,
		short_answer TEXT NOT NULL,
		legal_reference TEXT NOT NULL DEFAULT '',
		legal_url TEXT NOT NULL DEFAULT '',
		block VARCHAR(255) NOT NULL DEFAULT '',
		current_as_of VARCHAR(50) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	for _, stmt := range Schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	logger.Info("Database schema ensured", zap.Int("statements", len(Schema)))
	return nil
}
