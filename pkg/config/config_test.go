package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AI_PROVIDER", "")
	t.Setenv("FAQ_FILE_PATH", "")
	t.Setenv("ADMIN_USER_IDS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.App.AIProvider)
	assert.Equal(t, "faq_ohs_ru_links.json", cfg.Knowledge.FilePath)
	assert.Equal(t, 5*time.Second, cfg.Knowledge.URLCheckTimeout)
	assert.Equal(t, time.Hour, cfg.RateLimit.SweepInterval)
	assert.Equal(t, 10, cfg.App.MaxHistoryLength)
	assert.Empty(t, cfg.Server.AdminUserIDs)
}

func TestLoad_AdminIDs(t *testing.T) {
	t.Setenv("ADMIN_USER_IDS", "42, 1001 ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []int64{42, 1001}, cfg.Server.AdminUserIDs)
	assert.True(t, cfg.Server.IsAdmin(1001))
	assert.False(t, cfg.Server.IsAdmin(7))
}

func TestLoad_InvalidAdminIDs(t *testing.T) {
	t.Setenv("ADMIN_USER_IDS", "42,abc")

	_, err := Load()
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	cfg := &Config{
		Telegram:  TelegramConfig{BotToken: "token"},
		App:       AppConfig{AIProvider: "gigachat"},
		GigaChat:  GigaChatConfig{APIKey: "key"},
		Knowledge: KnowledgeConfig{Source: "file"},
	}
	assert.NoError(t, cfg.Validate())

	cfg.App.AIProvider = "yandexgpt"
	cfg.Telegram.BotToken = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_BOT_TOKEN")
	assert.Contains(t, err.Error(), "yandexgpt")
}
