package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"ohs-consultant/internal/models"
	"ohs-consultant/internal/privacy"
	"ohs-consultant/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	user, err := b.register(ctx, msg.From)
	if err != nil {
		b.logger.Error("Failed to register user", zap.String("user", privacy.MaskUserID(msg.From.ID, "")), zap.Error(err))
		b.reply(chatID, textInternalError, nil)
		return
	}

	if !msg.IsCommand() {
		text := strings.TrimSpace(msg.Text)
		if text == "" {
			return
		}
		if strings.HasPrefix(text, "?") {
			b.ask(ctx, chatID, user, strings.TrimSpace(strings.TrimPrefix(text, "?")), true)
			return
		}
		b.ask(ctx, chatID, user, text, false)
		return
	}

	args := strings.TrimSpace(msg.CommandArguments())
	switch msg.Command() {
	case "start":
		b.reply(chatID, fmt.Sprintf(welcomeText, html.EscapeString(displayName(msg.From))), nil)
		if !user.ConsentAccepted {
			b.sendConsent(chatID)
		}
	case "help":
		text := helpText
		if b.isAdmin(user) {
			text += adminHelpText
		}
		b.reply(chatID, text, nil)
	case "consent":
		b.sendConsent(chatID)
	case "ask":
		b.askCommand(ctx, chatID, user, args, false)
	case "ask_assistant":
		b.askCommand(ctx, chatID, user, args, true)
	case "stats":
		b.reply(chatID, formatUsage(b.limiter.Usage(user.ID)), nil)
	default:
		if b.isAdmin(user) && b.handleAdminCommand(ctx, chatID, user, msg.Command(), args) {
			return
		}
		if isAdminCommand(msg.Command()) {
			b.reply(chatID, textAdminOnly, nil)
			return
		}
		b.reply(chatID, textUnknownCommand, nil)
	}
}

func (b *Bot) askCommand(ctx context.Context, chatID int64, user *models.User, question string, assistant bool) {
	if question == "" {
		b.reply(chatID, textEmptyQuestion, nil)
		return
	}
	b.ask(ctx, chatID, user, question, assistant)
}

func (b *Bot) ask(ctx context.Context, chatID int64, user *models.User, question string, assistant bool) {
	b.typing(chatID)

	var (
		answer *service.Answer
		err    error
	)
	if assistant {
		answer, err = b.consultant.AskAssistant(ctx, user, question)
	} else {
		answer, err = b.consultant.Ask(ctx, user, question)
	}
	if err != nil {
		b.replyError(chatID, user, err)
		return
	}
	b.sendAnswer(chatID, answer)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.From == nil || cb.Message == nil {
		b.answerCallback(cb.ID, "")
		return
	}
	chatID := cb.Message.Chat.ID

	user, err := b.register(ctx, cb.From)
	if err != nil {
		b.answerCallback(cb.ID, "")
		b.logger.Error("Failed to register user", zap.Error(err))
		b.reply(chatID, textInternalError, nil)
		return
	}

	if source, helpful, ok := parseRating(cb.Data); ok {
		b.rate(ctx, cb, user, source, helpful)
		return
	}
	b.answerCallback(cb.ID, "")

	switch cb.Data {
	case callbackConsent:
		if err := b.consultant.AcceptConsent(ctx, user); err != nil {
			b.logger.Error("Failed to accept consent", zap.Error(err))
			b.reply(chatID, textInternalError, nil)
			return
		}
		b.reply(chatID, textConsentAccepted, nil)
	case callbackExpand:
		b.typing(chatID)
		answer, err := b.consultant.Expand(ctx, user)
		if err != nil {
			b.replyError(chatID, user, err)
			return
		}
		b.sendAnswer(chatID, answer)
	default:
		b.logger.Debug("Unknown callback", zap.String("data", cb.Data))
	}
}

func parseRating(data string) (models.AnswerSource, bool, bool) {
	switch data {
	case callbackRateHelpful:
		return models.SourceFAQ, true, true
	case callbackRateUnhelpful:
		return models.SourceFAQ, false, true
	case callbackRateAIHelpful:
		return models.SourceAI, true, true
	case callbackRateAIUnhelpful:
		return models.SourceAI, false, true
	}
	return "", false, false
}

// rate stores the feedback and strips the rating buttons. A rejected
// knowledge base answer is retried with the AI.
func (b *Bot) rate(ctx context.Context, cb *tgbotapi.CallbackQuery, user *models.User, source models.AnswerSource, helpful bool) {
	chatID := cb.Message.Chat.ID

	if err := b.consultant.Rate(ctx, user, source, helpful); err != nil {
		b.answerCallback(cb.ID, noticeAlreadyRated)
		b.editMarkup(chatID, cb.Message.MessageID, nil)
		return
	}

	switch {
	case source == models.SourceFAQ && helpful:
		b.answerCallback(cb.ID, noticeRated)
		b.editMarkup(chatID, cb.Message.MessageID, [][]tgbotapi.InlineKeyboardButton{expandRow()})
	case source == models.SourceFAQ:
		b.answerCallback(cb.ID, noticeRejected)
		b.editMarkup(chatID, cb.Message.MessageID, nil)
		b.reply(chatID, textAskingAI, nil)
		b.typing(chatID)
		answer, err := b.consultant.Reconsider(ctx, user)
		if err != nil {
			b.replyError(chatID, user, err)
			return
		}
		b.sendAnswer(chatID, answer)
	case helpful:
		b.answerCallback(cb.ID, noticeRatedAI)
		b.editMarkup(chatID, cb.Message.MessageID, nil)
	default:
		b.answerCallback(cb.ID, noticeRejectedAI)
		b.editMarkup(chatID, cb.Message.MessageID, nil)
	}
}

func (b *Bot) answerCallback(id, text string) {
	if _, err := b.sender.Request(tgbotapi.NewCallback(id, text)); err != nil {
		b.logger.Warn("Failed to acknowledge callback", zap.Error(err))
	}
}

// editMarkup replaces the inline keyboard of a sent message; no rows removes it.
func (b *Bot) editMarkup(chatID int64, messageID int, rows [][]tgbotapi.InlineKeyboardButton) {
	if rows == nil {
		rows = [][]tgbotapi.InlineKeyboardButton{}
	}
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows})
	if _, err := b.sender.Request(edit); err != nil {
		b.logger.Warn("Failed to update keyboard", zap.Error(err))
	}
}

func expandRow() []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(buttonExpand, callbackExpand))
}

func ratingRow(helpful, unhelpful string) []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(buttonHelpful, helpful),
		tgbotapi.NewInlineKeyboardButtonData(buttonUnhelpful, unhelpful),
	)
}

func (b *Bot) replyError(chatID int64, user *models.User, err error) {
	var rlErr *service.RateLimitError
	switch {
	case errors.As(err, &rlErr):
		b.reply(chatID, rlErr.Message, nil)
	case errors.Is(err, service.ErrConsentRequired):
		b.sendConsent(chatID)
	case errors.Is(err, service.ErrUserBlocked):
		b.reply(chatID, textBlocked, nil)
	case errors.Is(err, service.ErrQuestionTooShort):
		b.reply(chatID, textTooShort, nil)
	case errors.Is(err, service.ErrNoPendingAnswer):
		b.reply(chatID, textNoPending, nil)
	default:
		b.logger.Error("Failed to answer", zap.String("user", privacy.MaskUserID(user.ID, user.Username)), zap.Error(err))
		b.reply(chatID, textInternalError, nil)
	}
}

func (b *Bot) sendAnswer(chatID int64, answer *service.Answer) {
	if answer.PrivacyWarning {
		b.reply(chatID, privacy.Warning(), nil)
	}

	text := answer.Text
	if answer.Source == models.SourceAI {
		text = textAIHeader + html.EscapeString(text) + textAIFooter
	}

	var markup interface{}
	switch {
	case answer.Source == models.SourceFAQ && answer.Expandable:
		markup = tgbotapi.NewInlineKeyboardMarkup(expandRow(), ratingRow(callbackRateHelpful, callbackRateUnhelpful))
	case answer.Source == models.SourceAI:
		markup = tgbotapi.NewInlineKeyboardMarkup(ratingRow(callbackRateAIHelpful, callbackRateAIUnhelpful))
	}
	b.reply(chatID, text, markup)
}

func (b *Bot) sendConsent(chatID int64) {
	b.reply(chatID, consentText, tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(buttonConsent, callbackConsent)),
	))
}

// reply sends HTML text, split into Telegram-sized parts. The markup is
// attached to the last part.
func (b *Bot) reply(chatID int64, text string, markup interface{}) {
	parts := splitMessage(text, maxMessageLength)
	for i, part := range parts {
		msg := tgbotapi.NewMessage(chatID, part)
		msg.ParseMode = tgbotapi.ModeHTML
		msg.DisableWebPagePreview = true
		if markup != nil && i == len(parts)-1 {
			msg.ReplyMarkup = markup
		}
		if _, err := b.sender.Send(msg); err != nil {
			b.logger.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
			return
		}
	}
}

func (b *Bot) typing(chatID int64) {
	if _, err := b.sender.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		b.logger.Debug("Failed to send chat action", zap.Error(err))
	}
}

// splitMessage cuts text into parts of at most limit runes, preferring line
// breaks.
func splitMessage(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	var parts []string
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}

func displayName(u *tgbotapi.User) string {
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.UserName != "" {
		return u.UserName
	}
	return "коллега"
}
