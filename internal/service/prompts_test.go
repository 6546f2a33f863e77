package service

import (
	"strings"
	"testing"

	"ohs-consultant/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestSystemPrompt_PerRole(t *testing.T) {
	assert.Contains(t, SystemPrompt(models.RoleSpecialistOTDOU), "ДОУ")
	assert.Contains(t, SystemPrompt(models.RoleEmployee), "простыми словами")
	assert.Equal(t, basePrompt, SystemPrompt("unknown"))
	assert.True(t, strings.HasPrefix(AssistantPrompt(models.RoleTrial), basePrompt))
}

func TestContextQuery(t *testing.T) {
	assert.Equal(t, "А водителям?", contextQuery("А водителям?", nil))

	history := []*models.Message{
		{Role: models.MessageRoleUser, Content: "старый вопрос"},
		{Role: models.MessageRoleUser, Content: "Нужен ли медосмотр?"},
		{Role: models.MessageRoleAssistant, Content: strings.Repeat("а", 150)},
	}
	got := contextQuery("А водителям?", history)

	assert.NotContains(t, got, "старый вопрос")
	assert.Contains(t, got, "Предыдущий вопрос: Нужен ли медосмотр?")
	assert.Contains(t, got, "Предыдущий ответ: "+strings.Repeat("а", 100)+"...")
	assert.True(t, strings.HasSuffix(got, "Текущий вопрос: А водителям?"))
}

func TestSanitizeUTF8(t *testing.T) {
	assert.Equal(t, "ok", sanitizeUTF8("ok"))
	assert.Equal(t, "ab", sanitizeUTF8("a\xffb"))
	assert.Equal(t, "ab", sanitizeUTF8(" a\x00b\n"))
	assert.Equal(t, "охрана...", truncateRunes("охрана труда", 6))
	assert.Equal(t, "СИЗ", truncateRunes("СИЗ", 6))
}
