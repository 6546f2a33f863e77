package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"ohs-consultant/internal/knowledge"
	"ohs-consultant/internal/models"
	"ohs-consultant/internal/privacy"
	"ohs-consultant/internal/ratelimit"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	MinQuestionLength     = 5
	categorizationTokens  = 10
	faqContextHistorySize = 2
)

var (
	ErrUserBlocked      = errors.New("user is blocked")
	ErrConsentRequired  = errors.New("personal data consent required")
	ErrQuestionTooShort = errors.New("question is too short")
	ErrNoPendingAnswer  = errors.New("no knowledge base answer to expand")
	ErrRateLimited      = errors.New("rate limit exceeded")
	ErrNothingToRate    = errors.New("no answer to rate")
)

// RateLimitError carries the user-facing rejection text.
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string { return ErrRateLimited.Error() }
func (e *RateLimitError) Unwrap() error { return ErrRateLimited }

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UpsertProfile(ctx context.Context, user *models.User) (*models.User, error)
	AcceptConsent(ctx context.Context, id int64, at time.Time) error
	IncrementRequests(ctx context.Context, id int64, at time.Time) error
}

type MessageStore interface {
	Create(ctx context.Context, msg *models.Message) error
	Recent(ctx context.Context, userID int64, limit int) ([]*models.Message, error)
}

type QueryStore interface {
	Create(ctx context.Context, q *models.Query) error
}

type FAQLookup interface {
	GetAnswerWithValidation(ctx context.Context, query string, checkURLs bool) *knowledge.Match
}

type RequestLimiter interface {
	Allow(userID int64, category string) (bool, string)
}

// Answer is what the transport shows the user.
type Answer struct {
	Text string
	// Source tells whether the text came from the knowledge base or the AI.
	Source models.AnswerSource
	// Expandable is set for knowledge base answers the user may expand.
	Expandable     bool
	PrivacyWarning bool
	Match          *knowledge.Match
	Category       string
}

type pendingAnswer struct {
	question  string
	entry     knowledge.FAQEntry
	assistant bool
}

// shownAnswer is the last answer a user may rate.
type shownAnswer struct {
	source      models.AnswerSource
	question    string
	faqQuestion string
	score       float64
	length      int
}

type ConsultationService struct {
	users      UserStore
	messages   MessageStore
	queries    QueryStore
	audit      *AuditService
	kb         FAQLookup
	limiter    RequestLimiter
	provider   AIProvider
	maxHistory int
	recordQ    bool
	logger     *zap.Logger
	now        func() time.Time

	mu      sync.Mutex
	pending map[int64]pendingAnswer
	shown   map[int64]shownAnswer
}

type ConsultationDeps struct {
	Users      UserStore
	Messages   MessageStore
	Queries    QueryStore
	Audit      *AuditService
	Knowledge  FAQLookup
	Limiter    RequestLimiter
	Provider   AIProvider
	MaxHistory int
	// RecordQueries enables the queries table used by the statistics.
	RecordQueries bool
}

func NewConsultationService(deps ConsultationDeps, logger *zap.Logger) *ConsultationService {
	return &ConsultationService{
		users:      deps.Users,
		messages:   deps.Messages,
		queries:    deps.Queries,
		audit:      deps.Audit,
		kb:         deps.Knowledge,
		limiter:    deps.Limiter,
		provider:   deps.Provider,
		maxHistory: deps.MaxHistory,
		recordQ:    deps.RecordQueries,
		logger:     logger,
		now:        time.Now,
		pending:    make(map[int64]pendingAnswer),
		shown:      make(map[int64]shownAnswer),
	}
}

// RegisterUser creates or refreshes the user behind an incoming update.
func (s *ConsultationService) RegisterUser(ctx context.Context, user *models.User) (*models.User, error) {
	stored, err := s.users.UpsertProfile(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return stored, nil
}

func (s *ConsultationService) AcceptConsent(ctx context.Context, user *models.User) error {
	at := s.now().UTC()
	if err := s.users.AcceptConsent(ctx, user.ID, at); err != nil {
		return fmt.Errorf("failed to store consent: %w", err)
	}
	user.ConsentAccepted = true
	user.ConsentAcceptedAt = &at

	s.audit.Log(ctx, &user.ID, models.ActionConsentAccepted, nil)
	s.logger.Info("Consent accepted", zap.String("user", privacy.MaskUserID(user.ID, "")))
	return nil
}

// Ask answers a regular question: knowledge base first, AI on a miss.
func (s *ConsultationService) Ask(ctx context.Context, user *models.User, question string) (*Answer, error) {
	return s.ask(ctx, user, question, false)
}

// AskAssistant is Ask with the assistant prompt and its own rate limit.
func (s *ConsultationService) AskAssistant(ctx context.Context, user *models.User, question string) (*Answer, error) {
	return s.ask(ctx, user, question, true)
}

func checkAccess(user *models.User) error {
	if user.IsBlocked {
		return ErrUserBlocked
	}
	if !user.ConsentAccepted {
		return ErrConsentRequired
	}
	return nil
}

func (s *ConsultationService) admit(user *models.User, category string) error {
	if err := checkAccess(user); err != nil {
		return err
	}
	if allowed, msg := s.limiter.Allow(user.ID, category); !allowed {
		return &RateLimitError{Message: msg}
	}
	return nil
}

func (s *ConsultationService) ask(ctx context.Context, user *models.User, question string, assistant bool) (*Answer, error) {
	category := ratelimit.CategoryQuestion
	action := models.ActionQuestionAsked
	if assistant {
		category = ratelimit.CategoryAssistantQuestion
		action = models.ActionAssistantAsked
	}

	if err := checkAccess(user); err != nil {
		return nil, err
	}
	question = strings.TrimSpace(question)
	if utf8.RuneCountInString(question) < MinQuestionLength {
		return nil, ErrQuestionTooShort
	}
	if err := s.admit(user, category); err != nil {
		return nil, err
	}

	safeQuestion, hasPersonalData := privacy.Anonymize(question)
	if hasPersonalData {
		s.logger.Warn("Personal data detected in question, anonymized",
			zap.String("user", privacy.MaskUserID(user.ID, "")))
	}

	history, err := s.messages.Recent(ctx, user.ID, faqContextHistorySize)
	if err != nil {
		s.logger.Warn("Failed to load dialog context", zap.Error(err))
	}

	if match := s.lookup(ctx, safeQuestion, history); match != nil {
		return s.answerFromFAQ(ctx, user, safeQuestion, match, hasPersonalData, assistant, action)
	}

	systemPrompt := SystemPrompt(user.Role)
	if assistant {
		systemPrompt = AssistantPrompt(user.Role)
	}
	answer, err := s.answerFromAI(ctx, user, systemPrompt, safeQuestion, safeQuestion, action)
	if err != nil {
		return nil, err
	}
	answer.PrivacyWarning = hasPersonalData
	return answer, nil
}

// lookup tries the bare question first, then the question with dialog context.
func (s *ConsultationService) lookup(ctx context.Context, question string, history []*models.Message) *knowledge.Match {
	if match := s.kb.GetAnswerWithValidation(ctx, question, true); match != nil {
		return match
	}
	if cq := contextQuery(question, history); cq != question {
		s.logger.Debug("Retrying FAQ lookup with dialog context")
		return s.kb.GetAnswerWithValidation(ctx, cq, true)
	}
	return nil
}

func (s *ConsultationService) answerFromFAQ(
	ctx context.Context,
	user *models.User,
	question string,
	match *knowledge.Match,
	hasPersonalData, assistant bool,
	action string,
) (*Answer, error) {
	text := knowledge.FormatAnswer(match)

	s.mu.Lock()
	s.pending[user.ID] = pendingAnswer{question: question, entry: match.Entry, assistant: assistant}
	s.shown[user.ID] = shownAnswer{
		source:      models.SourceFAQ,
		question:    question,
		faqQuestion: match.Entry.Question,
		score:       match.SimilarityScore,
		length:      utf8.RuneCountInString(text),
	}
	s.mu.Unlock()

	s.persist(ctx, user, question, text, &models.Query{
		Source:   models.SourceFAQ,
		Category: match.Entry.Block,
	}, action, map[string]any{
		"source":     string(models.SourceFAQ),
		"faq_score":  match.SimilarityScore,
		"faq_block":  match.Entry.Block,
		"assistant":  assistant,
		"anonymized": hasPersonalData,
	})

	s.logger.Info("Answered from knowledge base",
		zap.String("user", privacy.MaskUserID(user.ID, "")),
		zap.Float64("score", match.SimilarityScore),
	)

	return &Answer{
		Text:           text,
		Source:         models.SourceFAQ,
		Expandable:     true,
		PrivacyWarning: hasPersonalData,
		Match:          match,
		Category:       match.Entry.Block,
	}, nil
}

// Expand asks the AI to build on the last knowledge base answer shown to user.
func (s *ConsultationService) Expand(ctx context.Context, user *models.User) (*Answer, error) {
	if err := checkAccess(user); err != nil {
		return nil, err
	}

	s.mu.Lock()
	pending, ok := s.pending[user.ID]
	s.mu.Unlock()
	if !ok {
		return nil, ErrNoPendingAnswer
	}

	if err := s.admit(user, ratelimit.CategoryExpandAnswer); err != nil {
		return nil, err
	}

	systemPrompt := SystemPrompt(user.Role)
	if pending.assistant {
		systemPrompt = AssistantPrompt(user.Role)
	}

	answer, err := s.answerFromAI(ctx, user, systemPrompt, pending.question,
		ExpandPrompt(pending.entry, pending.question), models.ActionExpandRequested)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	delete(s.pending, user.ID)
	s.mu.Unlock()

	return answer, nil
}

// Reconsider answers the pending knowledge base question with the AI after
// the user rejected the matched entry. It counts as a regular question.
func (s *ConsultationService) Reconsider(ctx context.Context, user *models.User) (*Answer, error) {
	if err := checkAccess(user); err != nil {
		return nil, err
	}

	s.mu.Lock()
	pending, ok := s.pending[user.ID]
	s.mu.Unlock()
	if !ok {
		return nil, ErrNoPendingAnswer
	}

	if err := s.admit(user, ratelimit.CategoryQuestion); err != nil {
		return nil, err
	}

	systemPrompt := SystemPrompt(user.Role)
	if pending.assistant {
		systemPrompt = AssistantPrompt(user.Role)
	}

	answer, err := s.answerFromAI(ctx, user, systemPrompt, pending.question, pending.question, models.ActionAIAfterRejection)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	delete(s.pending, user.ID)
	s.mu.Unlock()

	return answer, nil
}

// Rate records the user's feedback on the last answer from source. An answer
// is rated once; a stale button returns ErrNothingToRate.
func (s *ConsultationService) Rate(ctx context.Context, user *models.User, source models.AnswerSource, helpful bool) error {
	s.mu.Lock()
	last, ok := s.shown[user.ID]
	ok = ok && last.source == source
	if ok {
		delete(s.shown, user.ID)
	}
	s.mu.Unlock()
	if !ok {
		return ErrNothingToRate
	}

	rating := "unhelpful"
	if helpful {
		rating = "helpful"
	}
	details := map[string]any{"rating": rating}

	var action string
	switch source {
	case models.SourceFAQ:
		action = models.ActionFAQRatedUnhelpful
		if helpful {
			action = models.ActionFAQRatedHelpful
		}
		details["user_question"] = last.question
		details["faq_question"] = last.faqQuestion
		details["similarity_score"] = last.score
	default:
		action = models.ActionAIRatedUnhelpful
		if helpful {
			action = models.ActionAIRatedHelpful
		}
		details["question"] = truncateRunes(last.question, 100)
		details["answer_length"] = last.length
	}
	s.audit.Log(ctx, &user.ID, action, details)

	fields := []zap.Field{
		zap.String("user", privacy.MaskUserID(user.ID, "")),
		zap.String("source", string(source)),
		zap.Float64("score", last.score),
	}
	if helpful {
		s.logger.Info("Answer rated helpful", fields...)
	} else {
		s.logger.Warn("Answer rated unhelpful", fields...)
	}
	return nil
}

func (s *ConsultationService) HasPendingAnswer(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[userID]
	return ok
}

func (s *ConsultationService) answerFromAI(
	ctx context.Context,
	user *models.User,
	systemPrompt, question, prompt, action string,
) (*Answer, error) {
	history, err := s.messages.Recent(ctx, user.ID, s.maxHistory)
	if err != nil {
		s.logger.Warn("Failed to load dialog history", zap.Error(err))
	}

	messages := make([]ChatMessage, 0, len(history)+2)
	messages = append(messages, ChatMessage{Role: models.MessageRoleSystem, Content: systemPrompt})
	for _, m := range history {
		messages = append(messages, ChatMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, ChatMessage{Role: models.MessageRoleUser, Content: prompt})

	start := s.now()
	completion, err := s.provider.Complete(ctx, messages, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get AI answer: %w", err)
	}
	responseTime := s.now().Sub(start).Seconds()

	text := sanitizeUTF8(completion.Content)
	category := s.categorize(ctx, question)

	s.mu.Lock()
	s.shown[user.ID] = shownAnswer{
		source:   models.SourceAI,
		question: question,
		length:   utf8.RuneCountInString(text),
	}
	s.mu.Unlock()

	s.persist(ctx, user, question, text, &models.Query{
		Source:       models.SourceAI,
		AIProvider:   s.provider.Name(),
		AIModel:      completion.Model,
		ResponseTime: responseTime,
		TokensUsed:   completion.TokensUsed,
		Category:     category,
	}, action, map[string]any{
		"source":        string(models.SourceAI),
		"category":      category,
		"response_time": responseTime,
		"tokens":        completion.TokensUsed,
	})

	s.logger.Info("Answered by AI",
		zap.String("user", privacy.MaskUserID(user.ID, "")),
		zap.String("category", category),
		zap.Float64("response_time", responseTime),
	)

	return &Answer{
		Text:     text,
		Source:   models.SourceAI,
		Category: category,
	}, nil
}

// categorize is best effort: failures leave the category empty.
func (s *ConsultationService) categorize(ctx context.Context, question string) string {
	completion, err := s.provider.Complete(ctx, []ChatMessage{
		{Role: models.MessageRoleUser, Content: CategorizationPrompt(question)},
	}, categorizationTokens)
	if err != nil {
		s.logger.Warn("Failed to categorize question", zap.Error(err))
		return ""
	}
	category := strings.ToLower(strings.Trim(strings.TrimSpace(completion.Content), ".!"))
	return truncateRunes(category, 100)
}

// persist stores the dialog turn, the query and the audit entry. Storage
// failures are logged; the user still gets the answer.
func (s *ConsultationService) persist(
	ctx context.Context,
	user *models.User,
	question, answer string,
	query *models.Query,
	action string,
	details map[string]any,
) {
	now := s.now().UTC()

	for _, msg := range []*models.Message{
		{ID: uuid.New(), UserID: user.ID, Role: models.MessageRoleUser, Content: question, CreatedAt: now},
		{ID: uuid.New(), UserID: user.ID, Role: models.MessageRoleAssistant, Content: answer, CreatedAt: now.Add(time.Millisecond)},
	} {
		if err := s.messages.Create(ctx, msg); err != nil {
			s.logger.Error("Failed to save message", zap.Error(err))
		}
	}

	if err := s.users.IncrementRequests(ctx, user.ID, now); err != nil {
		s.logger.Error("Failed to update request counter", zap.Error(err))
	}

	if s.recordQ {
		query.ID = uuid.New()
		query.UserID = user.ID
		query.Question = question
		query.Answer = answer
		query.CreatedAt = now
		if err := s.queries.Create(ctx, query); err != nil {
			s.logger.Error("Failed to save query", zap.Error(err))
		}
	}

	s.audit.Log(ctx, &user.ID, action, details)
}
