package postgres

import (
	"strings"
	"testing"

	"ohs-consultant/pkg/config"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	dsn := DSN(&config.DatabaseConfig{
		Host: "db", Port: "5433", User: "bot", Password: "secret", DBName: "ot_bot_db", SSLMode: "disable",
	})
	assert.Equal(t, "host=db port=5433 user=bot password=secret dbname=ot_bot_db sslmode=disable", dsn)
}

func TestSchema_Idempotent(t *testing.T) {
	for _, stmt := range Schema {
		assert.True(t, strings.Contains(stmt, "IF NOT EXISTS"), stmt)
	}
}
