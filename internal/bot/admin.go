package bot

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"ohs-consultant/internal/knowledge"
	"ohs-consultant/internal/models"
	"ohs-consultant/internal/ratelimit"

	"go.uber.org/zap"
)

var adminCommands = map[string]struct{}{
	"rate_limits":      {},
	"clear_rate_limit": {},
	"user_rate_limit":  {},
	"reload_faq":       {},
	"kb_stats":         {},
	"block":            {},
	"unblock":          {},
}

func isAdminCommand(command string) bool {
	_, ok := adminCommands[command]
	return ok
}

// handleAdminCommand reports false when command is not an admin command.
func (b *Bot) handleAdminCommand(ctx context.Context, chatID int64, admin *models.User, command, args string) bool {
	if !isAdminCommand(command) {
		return false
	}

	b.logger.Info("Admin command", zap.String("command", command), zap.Int64("admin_id", admin.ID))

	switch command {
	case "rate_limits":
		b.reply(chatID, formatPolicies(b.limiter.Policies(), b.limiter.ActiveUsers()), nil)

	case "user_rate_limit":
		id, ok := b.parseUserID(chatID, args)
		if !ok {
			return true
		}
		text := fmt.Sprintf("👤 Пользователь <code>%d</code>\n\n", id)
		if !b.limiter.HasHistory(id) {
			text += "Запросов в текущих окнах нет."
		} else {
			text += formatUsage(b.limiter.Usage(id))
		}
		b.reply(chatID, text, nil)

	case "clear_rate_limit":
		id, ok := b.parseUserID(chatID, args)
		if !ok {
			return true
		}
		b.limiter.ClearUserHistory(id)
		b.audit.Log(ctx, &admin.ID, models.ActionRateLimitCleared, map[string]any{"target_user_id": id})
		b.reply(chatID, fmt.Sprintf("✅ Лимиты пользователя <code>%d</code> сброшены.", id), nil)

	case "reload_faq":
		if err := b.kb.Reload(ctx); err != nil {
			b.logger.Error("FAQ reload failed", zap.Error(err))
			b.reply(chatID, fmt.Sprintf("❌ Не удалось перезагрузить базу знаний, работает прежняя версия (%d записей).", b.kb.Len()), nil)
			return true
		}
		b.audit.Log(ctx, &admin.ID, models.ActionFAQReloaded, map[string]any{"entries": b.kb.Len()})
		b.reply(chatID, fmt.Sprintf("✅ База знаний перезагружена: %d записей.", b.kb.Len()), nil)

	case "kb_stats":
		b.reply(chatID, formatKnowledgeStats(b.kb.Statistics()), nil)

	case "block", "unblock":
		id, ok := b.parseUserID(chatID, args)
		if !ok {
			return true
		}
		blocked := command == "block"
		if err := b.users.SetBlocked(ctx, id, blocked); err != nil {
			b.logger.Error("Failed to change block state", zap.Int64("target_user_id", id), zap.Error(err))
			b.reply(chatID, textInternalError, nil)
			return true
		}
		action, verb := models.ActionUserUnblocked, "разблокирован"
		if blocked {
			action, verb = models.ActionUserBlocked, "заблокирован"
		}
		b.audit.Log(ctx, &admin.ID, action, map[string]any{"target_user_id": id})
		b.reply(chatID, fmt.Sprintf("✅ Пользователь <code>%d</code> %s.", id, verb), nil)
	}
	return true
}

func (b *Bot) parseUserID(chatID int64, args string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil || id <= 0 {
		b.reply(chatID, textBadUserID, nil)
		return 0, false
	}
	return id, true
}

func formatUsage(usage []ratelimit.Usage) string {
	var sb strings.Builder
	sb.WriteString("📊 <b>Лимиты запросов</b>\n")
	for _, u := range usage {
		sb.WriteString(fmt.Sprintf("\n• %s: %d из %d (осталось %d)", u.Name, u.Used, u.Limit, u.Remaining))
	}
	return sb.String()
}

func formatPolicies(policies []ratelimit.Policy, activeUsers int) string {
	var sb strings.Builder
	sb.WriteString("⚙️ <b>Политики ограничений</b>\n")
	for _, p := range policies {
		sb.WriteString(fmt.Sprintf("\n• <code>%s</code> (%s): %d запросов за %s", p.Category, p.Name, p.MaxRequests, p.WindowLabel()))
	}
	sb.WriteString(fmt.Sprintf("\n\nАктивных пользователей: %d", activeUsers))
	return sb.String()
}

func formatKnowledgeStats(stats knowledge.Statistics) string {
	var sb strings.Builder
	sb.WriteString("📚 <b>База знаний</b>\n\n")
	sb.WriteString(fmt.Sprintf("Всего вопросов: %d\n", stats.TotalQuestions))
	sb.WriteString(fmt.Sprintf("Со ссылками: %d\n", stats.QuestionsWithURLs))
	sb.WriteString(fmt.Sprintf("Без ссылок: %d\n", stats.QuestionsWithoutURLs))

	blocks := make([]string, 0, len(stats.Blocks))
	for block := range stats.Blocks {
		blocks = append(blocks, block)
	}
	sort.Strings(blocks)

	if len(blocks) > 0 {
		sb.WriteString("\n<b>Блоки:</b>")
		for _, block := range blocks {
			sb.WriteString(fmt.Sprintf("\n• %s: %d", block, stats.Blocks[block]))
		}
	}
	return sb.String()
}
