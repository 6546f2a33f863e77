// Package bot is the Telegram transport of the consultant.
package bot

import (
	"context"
	"sync"

	"ohs-consultant/internal/knowledge"
	"ohs-consultant/internal/models"
	"ohs-consultant/internal/ratelimit"
	"ohs-consultant/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const defaultWorkers = 8

// Sender is the part of *tgbotapi.BotAPI the bot uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Consultant interface {
	RegisterUser(ctx context.Context, user *models.User) (*models.User, error)
	AcceptConsent(ctx context.Context, user *models.User) error
	Ask(ctx context.Context, user *models.User, question string) (*service.Answer, error)
	AskAssistant(ctx context.Context, user *models.User, question string) (*service.Answer, error)
	Expand(ctx context.Context, user *models.User) (*service.Answer, error)
	Reconsider(ctx context.Context, user *models.User) (*service.Answer, error)
	Rate(ctx context.Context, user *models.User, source models.AnswerSource, helpful bool) error
}

type Limiter interface {
	Usage(userID int64) []ratelimit.Usage
	Policies() []ratelimit.Policy
	ActiveUsers() int
	HasHistory(userID int64) bool
	ClearUserHistory(userID int64)
}

type KnowledgeAdmin interface {
	Reload(ctx context.Context) error
	Len() int
	Statistics() knowledge.Statistics
}

type UserAdmin interface {
	SetBlocked(ctx context.Context, id int64, blocked bool) error
}

type Auditor interface {
	Log(ctx context.Context, userID *int64, action string, details map[string]any)
}

type Deps struct {
	Sender     Sender
	Consultant Consultant
	Limiter    Limiter
	Knowledge  KnowledgeAdmin
	Users      UserAdmin
	Audit      Auditor
	// IsAdmin reports whether a Telegram id may run admin commands.
	IsAdmin func(userID int64) bool
	Workers int
}

type Bot struct {
	sender     Sender
	consultant Consultant
	limiter    Limiter
	kb         KnowledgeAdmin
	users      UserAdmin
	audit      Auditor
	adminIDs   func(int64) bool
	workers    int
	logger     *zap.Logger
}

func New(deps Deps, logger *zap.Logger) *Bot {
	adminIDs := deps.IsAdmin
	if adminIDs == nil {
		adminIDs = func(int64) bool { return false }
	}
	workers := deps.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	return &Bot{
		sender:     deps.Sender,
		consultant: deps.Consultant,
		limiter:    deps.Limiter,
		kb:         deps.Knowledge,
		users:      deps.Users,
		audit:      deps.Audit,
		adminIDs:   adminIDs,
		workers:    workers,
		logger:     logger,
	}
}

// Run dispatches updates until ctx is cancelled or the channel closes.
// Updates are handled concurrently by at most b.workers goroutines; Run
// returns after the in-flight ones finish.
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	sem := make(chan struct{}, b.workers)
	var wg sync.WaitGroup
	defer wg.Wait()

	b.logger.Info("Bot started", zap.Int("workers", b.workers))
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Bot stopping")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer func() { <-sem }()
				b.HandleUpdate(ctx, update)
			}()
		}
	}
}

func (b *Bot) isAdmin(user *models.User) bool {
	return user.IsAdmin() || b.adminIDs(user.ID)
}

// HandleUpdate processes a single update. Panics are logged so one bad
// update never stops the loop.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Panic while handling update", zap.Int("update_id", update.UpdateID), zap.Any("panic", r))
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.From != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) register(ctx context.Context, from *tgbotapi.User) (*models.User, error) {
	return b.consultant.RegisterUser(ctx, &models.User{
		ID:        from.ID,
		Username:  from.UserName,
		FirstName: from.FirstName,
		LastName:  from.LastName,
	})
}
