package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"ohs-consultant/internal/knowledge"
	"ohs-consultant/internal/models"
	"ohs-consultant/internal/ratelimit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUsers struct {
	mu        sync.Mutex
	consented map[int64]time.Time
	requests  map[int64]int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{consented: map[int64]time.Time{}, requests: map[int64]int{}}
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	return &models.User{ID: id}, nil
}

func (f *fakeUsers) UpsertProfile(_ context.Context, user *models.User) (*models.User, error) {
	stored := *user
	if stored.Role == "" {
		stored.Role = models.RoleTrial
	}
	return &stored, nil
}

func (f *fakeUsers) AcceptConsent(_ context.Context, id int64, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.consented[id] = at
	return nil
}

func (f *fakeUsers) IncrementRequests(_ context.Context, id int64, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests[id]++
	return nil
}

type fakeMessages struct {
	mu   sync.Mutex
	byID map[int64][]*models.Message
}

func newFakeMessages() *fakeMessages {
	return &fakeMessages{byID: map[int64][]*models.Message{}}
}

func (f *fakeMessages) Create(_ context.Context, msg *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[msg.UserID] = append(f.byID[msg.UserID], msg)
	return nil
}

func (f *fakeMessages) Recent(_ context.Context, userID int64, limit int) ([]*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := f.byID[userID]
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return append([]*models.Message(nil), msgs...), nil
}

type fakeQueries struct {
	mu      sync.Mutex
	created []*models.Query
}

func (f *fakeQueries) Create(_ context.Context, q *models.Query) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, q)
	return nil
}

func (f *fakeQueries) List(_ context.Context, _ int64, limit, _ int) ([]*models.Query, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.created) > limit {
		return f.created[:limit], nil
	}
	return f.created, nil
}

func (f *fakeQueries) Stats(_ context.Context) (*models.QueryStats, error) {
	return &models.QueryStats{TotalQueries: len(f.created), Providers: map[string]int{}}, nil
}

type fakeAuditStore struct {
	mu      sync.Mutex
	entries []*models.AuditLog
}

func (f *fakeAuditStore) Create(_ context.Context, entry *models.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditStore) List(_ context.Context, _ *int64, _ int) ([]*models.AuditLog, error) {
	return f.entries, nil
}

func (f *fakeAuditStore) last() *models.AuditLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries[len(f.entries)-1]
}

func (f *fakeAuditStore) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var actions []string
	for _, e := range f.entries {
		actions = append(actions, e.Action)
	}
	return actions
}

type fakeLookup struct {
	match   func(query string) *knowledge.Match
	queries []string
}

func (f *fakeLookup) GetAnswerWithValidation(_ context.Context, query string, _ bool) *knowledge.Match {
	f.queries = append(f.queries, query)
	if f.match == nil {
		return nil
	}
	return f.match(query)
}

type fakeProvider struct {
	mu       sync.Mutex
	answer   string
	category string
	err      error
	calls    [][]ChatMessage
}

func (p *fakeProvider) Name() string  { return "fake" }
func (p *fakeProvider) Model() string { return "fake-model" }
func (p *fakeProvider) Close() error  { return nil }

func (p *fakeProvider) Complete(_ context.Context, messages []ChatMessage, _ int) (*Completion, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, messages)
	if p.err != nil {
		return nil, p.err
	}
	if strings.HasPrefix(messages[0].Content, "Определи категорию") {
		return &Completion{Content: p.category, Model: "fake-model"}, nil
	}
	return &Completion{Content: p.answer, Model: "fake-model", TokensUsed: 42}, nil
}

func (p *fakeProvider) answerCalls() [][]ChatMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	var calls [][]ChatMessage
	for _, c := range p.calls {
		if !strings.HasPrefix(c[0].Content, "Определи категорию") {
			calls = append(calls, c)
		}
	}
	return calls
}

var briefingFAQ = knowledge.FAQEntry{
	Question:       "Как часто проводится повторный инструктаж?",
	ShortAnswer:    "Не реже одного раза в шесть месяцев.",
	LegalReference: "ТК РФ ст. 225",
	Block:          "Инструктажи",
	CurrentAsOf:    "2025-01-01",
}

type consultationFixture struct {
	svc      *ConsultationService
	users    *fakeUsers
	messages *fakeMessages
	queries  *fakeQueries
	audit    *fakeAuditStore
	kb       *fakeLookup
	provider *fakeProvider
	limiter  *ratelimit.RateLimiter
}

func newConsultationFixture() *consultationFixture {
	f := &consultationFixture{
		users:    newFakeUsers(),
		messages: newFakeMessages(),
		queries:  &fakeQueries{},
		audit:    &fakeAuditStore{},
		kb:       &fakeLookup{},
		provider: &fakeProvider{answer: "Ответ нейросети", category: "Инструктажи."},
		limiter:  ratelimit.New(zap.NewNop()),
	}
	f.svc = NewConsultationService(ConsultationDeps{
		Users:         f.users,
		Messages:      f.messages,
		Queries:       f.queries,
		Audit:         NewAuditService(f.audit, zap.NewNop()),
		Knowledge:     f.kb,
		Limiter:       f.limiter,
		Provider:      f.provider,
		MaxHistory:    10,
		RecordQueries: true,
	}, zap.NewNop())
	return f
}

func consentedUser() *models.User {
	return &models.User{ID: 1001, Role: models.RoleSpecialistOTDOU, ConsentAccepted: true}
}

func TestConsultationService_Ask_Blocked(t *testing.T) {
	f := newConsultationFixture()
	user := consentedUser()
	user.IsBlocked = true

	_, err := f.svc.Ask(context.Background(), user, "Как часто проводить инструктаж?")
	assert.ErrorIs(t, err, ErrUserBlocked)
}

func TestConsultationService_Ask_ConsentRequired(t *testing.T) {
	f := newConsultationFixture()
	user := consentedUser()
	user.ConsentAccepted = false

	_, err := f.svc.Ask(context.Background(), user, "Как часто проводить инструктаж?")
	assert.ErrorIs(t, err, ErrConsentRequired)
}

func TestConsultationService_Ask_TooShortDoesNotConsumeLimit(t *testing.T) {
	f := newConsultationFixture()
	user := consentedUser()

	_, err := f.svc.Ask(context.Background(), user, "  СИЗ ")
	assert.ErrorIs(t, err, ErrQuestionTooShort)
	assert.Equal(t, 10, f.limiter.Remaining(user.ID, ratelimit.CategoryQuestion))
	assert.Empty(t, f.provider.calls)
}

func TestConsultationService_Ask_FAQHit(t *testing.T) {
	f := newConsultationFixture()
	f.kb.match = func(string) *knowledge.Match {
		return &knowledge.Match{Entry: briefingFAQ, SimilarityScore: 0.9}
	}
	user := consentedUser()

	answer, err := f.svc.Ask(context.Background(), user, "Как часто проводится повторный инструктаж?")
	require.NoError(t, err)

	assert.Equal(t, models.SourceFAQ, answer.Source)
	assert.True(t, answer.Expandable)
	assert.Contains(t, answer.Text, "Найдено в базе знаний")
	assert.Contains(t, answer.Text, "st-225")
	assert.Equal(t, "Инструктажи", answer.Category)
	assert.True(t, f.svc.HasPendingAnswer(user.ID))
	assert.Empty(t, f.provider.calls)

	require.Len(t, f.messages.byID[user.ID], 2)
	assert.Equal(t, models.MessageRoleUser, f.messages.byID[user.ID][0].Role)
	require.Len(t, f.queries.created, 1)
	assert.Equal(t, models.SourceFAQ, f.queries.created[0].Source)
	assert.Equal(t, 1, f.users.requests[user.ID])
	assert.Equal(t, []string{models.ActionQuestionAsked}, f.audit.actions())
	assert.Equal(t, 9, f.limiter.Remaining(user.ID, ratelimit.CategoryQuestion))
}

func TestConsultationService_Ask_AIFallback(t *testing.T) {
	f := newConsultationFixture()
	user := consentedUser()

	answer, err := f.svc.Ask(context.Background(), user, "Нужна ли СОУТ для удалёнщиков?")
	require.NoError(t, err)

	assert.Equal(t, models.SourceAI, answer.Source)
	assert.False(t, answer.Expandable)
	assert.Equal(t, "Ответ нейросети", answer.Text)
	assert.Equal(t, "инструктажи", answer.Category)

	calls := f.provider.answerCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, models.MessageRoleSystem, calls[0][0].Role)
	assert.Contains(t, calls[0][0].Content, "ДОУ")
	assert.Equal(t, "Нужна ли СОУТ для удалёнщиков?", calls[0][len(calls[0])-1].Content)

	require.Len(t, f.queries.created, 1)
	q := f.queries.created[0]
	assert.Equal(t, models.SourceAI, q.Source)
	assert.Equal(t, "fake", q.AIProvider)
	assert.Equal(t, "fake-model", q.AIModel)
	assert.Equal(t, 42, q.TokensUsed)
	assert.Equal(t, "инструктажи", q.Category)
}

func TestConsultationService_Ask_HistoryIsSentToAI(t *testing.T) {
	f := newConsultationFixture()
	user := consentedUser()
	ctx := context.Background()

	_, err := f.svc.Ask(ctx, user, "Первый вопрос про СИЗ")
	require.NoError(t, err)
	_, err = f.svc.Ask(ctx, user, "Второй вопрос про СИЗ")
	require.NoError(t, err)

	calls := f.provider.answerCalls()
	require.Len(t, calls, 2)
	second := calls[1]
	require.Len(t, second, 4)
	assert.Equal(t, "Первый вопрос про СИЗ", second[1].Content)
	assert.Equal(t, models.MessageRoleAssistant, second[2].Role)
}

func TestConsultationService_Ask_AnonymizesPersonalData(t *testing.T) {
	f := newConsultationFixture()
	user := consentedUser()

	answer, err := f.svc.Ask(context.Background(), user, "Перезвоните на +7 916 123-45-67 про медосмотр")
	require.NoError(t, err)
	assert.True(t, answer.PrivacyWarning)

	calls := f.provider.answerCalls()
	require.Len(t, calls, 1)
	sent := calls[0][len(calls[0])-1].Content
	assert.Contains(t, sent, "[ТЕЛЕФОН]")
	assert.NotContains(t, sent, "916")
	assert.NotContains(t, f.messages.byID[user.ID][0].Content, "916")
}

func TestConsultationService_Ask_UsesDialogContextOnMiss(t *testing.T) {
	f := newConsultationFixture()
	user := consentedUser()
	ctx := context.Background()
	f.messages.byID[user.ID] = []*models.Message{
		{UserID: user.ID, Role: models.MessageRoleUser, Content: "Как часто проводится повторный инструктаж?"},
		{UserID: user.ID, Role: models.MessageRoleAssistant, Content: "Раз в полгода."},
	}
	f.kb.match = func(q string) *knowledge.Match {
		if strings.Contains(q, "Предыдущий вопрос") {
			return &knowledge.Match{Entry: briefingFAQ, SimilarityScore: 0.6}
		}
		return nil
	}

	answer, err := f.svc.Ask(ctx, user, "А для водителей?")
	require.NoError(t, err)
	assert.Equal(t, models.SourceFAQ, answer.Source)
	require.Len(t, f.kb.queries, 2)
	assert.Equal(t, "А для водителей?", f.kb.queries[0])
	assert.Contains(t, f.kb.queries[1], "Текущий вопрос: А для водителей?")
}

func TestConsultationService_Ask_RateLimited(t *testing.T) {
	f := newConsultationFixture()
	user := consentedUser()
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := f.svc.Ask(ctx, user, "Вопрос по охране труда")
		require.NoError(t, err)
	}

	_, err := f.svc.Ask(ctx, user, "Вопрос по охране труда")
	require.ErrorIs(t, err, ErrRateLimited)

	var rlErr *RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.NotEmpty(t, rlErr.Message)

	_, err = f.svc.AskAssistant(ctx, user, "Вопрос нейроассистенту")
	assert.NoError(t, err)
}

func TestConsultationService_AskAssistant_UsesAssistantPrompt(t *testing.T) {
	f := newConsultationFixture()
	user := consentedUser()

	_, err := f.svc.AskAssistant(context.Background(), user, "Составь план обучения по ОТ")
	require.NoError(t, err)

	calls := f.provider.answerCalls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0][0].Content, "нейроассистент")
	assert.Equal(t, []string{models.ActionAssistantAsked}, f.audit.actions())
	assert.Equal(t, 4, f.limiter.Remaining(user.ID, ratelimit.CategoryAssistantQuestion))
}

func TestConsultationService_Expand(t *testing.T) {
	f := newConsultationFixture()
	user := consentedUser()
	ctx := context.Background()

	_, err := f.svc.Expand(ctx, user)
	require.ErrorIs(t, err, ErrNoPendingAnswer)

	f.kb.match = func(string) *knowledge.Match {
		return &knowledge.Match{Entry: briefingFAQ, SimilarityScore: 0.9}
	}
	_, err = f.svc.Ask(ctx, user, "Как часто проводится повторный инструктаж?")
	require.NoError(t, err)

	answer, err := f.svc.Expand(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, models.SourceAI, answer.Source)
	assert.False(t, f.svc.HasPendingAnswer(user.ID))

	calls := f.provider.answerCalls()
	require.Len(t, calls, 1)
	prompt := calls[0][len(calls[0])-1].Content
	assert.Contains(t, prompt, "Релевантная информация из базы знаний")
	assert.Contains(t, prompt, briefingFAQ.ShortAnswer)
	assert.Contains(t, f.audit.actions(), models.ActionExpandRequested)
}

func TestConsultationService_Rate_FAQ(t *testing.T) {
	f := newConsultationFixture()
	user := consentedUser()
	ctx := context.Background()

	require.ErrorIs(t, f.svc.Rate(ctx, user, models.SourceFAQ, true), ErrNothingToRate)

	f.kb.match = func(string) *knowledge.Match {
		return &knowledge.Match{Entry: briefingFAQ, SimilarityScore: 0.75}
	}
	_, err := f.svc.Ask(ctx, user, "Как часто проводится повторный инструктаж?")
	require.NoError(t, err)

	require.ErrorIs(t, f.svc.Rate(ctx, user, models.SourceAI, true), ErrNothingToRate, "stale AI button")
	require.NoError(t, f.svc.Rate(ctx, user, models.SourceFAQ, true))

	entry := f.audit.last()
	assert.Equal(t, models.ActionFAQRatedHelpful, entry.Action)
	assert.Equal(t, "helpful", entry.Details["rating"])
	assert.Equal(t, "Как часто проводится повторный инструктаж?", entry.Details["user_question"])
	assert.Equal(t, briefingFAQ.Question, entry.Details["faq_question"])
	assert.Equal(t, 0.75, entry.Details["similarity_score"])
	assert.True(t, f.svc.HasPendingAnswer(user.ID), "expansion stays available")

	assert.ErrorIs(t, f.svc.Rate(ctx, user, models.SourceFAQ, false), ErrNothingToRate, "rated once")
}

func TestConsultationService_Rate_AIUnhelpful(t *testing.T) {
	f := newConsultationFixture()
	user := consentedUser()
	ctx := context.Background()

	_, err := f.svc.Ask(ctx, user, "Нужна ли СОУТ для удалёнщиков?")
	require.NoError(t, err)

	require.NoError(t, f.svc.Rate(ctx, user, models.SourceAI, false))
	entry := f.audit.last()
	assert.Equal(t, models.ActionAIRatedUnhelpful, entry.Action)
	assert.Equal(t, "unhelpful", entry.Details["rating"])
	assert.Equal(t, "Нужна ли СОУТ для удалёнщиков?", entry.Details["question"])
	assert.Equal(t, len([]rune("Ответ нейросети")), entry.Details["answer_length"])
}

func TestConsultationService_Reconsider(t *testing.T) {
	f := newConsultationFixture()
	user := consentedUser()
	ctx := context.Background()

	_, err := f.svc.Reconsider(ctx, user)
	require.ErrorIs(t, err, ErrNoPendingAnswer)

	f.kb.match = func(string) *knowledge.Match {
		return &knowledge.Match{Entry: briefingFAQ, SimilarityScore: 0.6}
	}
	_, err = f.svc.Ask(ctx, user, "Как часто проводится повторный инструктаж?")
	require.NoError(t, err)
	require.NoError(t, f.svc.Rate(ctx, user, models.SourceFAQ, false))
	assert.Equal(t, models.ActionFAQRatedUnhelpful, f.audit.last().Action)

	answer, err := f.svc.Reconsider(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, models.SourceAI, answer.Source)
	assert.Equal(t, "Ответ нейросети", answer.Text)
	assert.False(t, f.svc.HasPendingAnswer(user.ID))
	assert.Equal(t, 8, f.limiter.Remaining(user.ID, ratelimit.CategoryQuestion))
	assert.Contains(t, f.audit.actions(), models.ActionAIAfterRejection)

	calls := f.provider.answerCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "Как часто проводится повторный инструктаж?", calls[0][len(calls[0])-1].Content)

	require.NoError(t, f.svc.Rate(ctx, user, models.SourceAI, true), "the new AI answer is ratable")
}

func TestConsultationService_Ask_ProviderError(t *testing.T) {
	f := newConsultationFixture()
	f.provider.err = errors.New("upstream timeout")
	user := consentedUser()

	_, err := f.svc.Ask(context.Background(), user, "Вопрос по охране труда")
	require.Error(t, err)
	assert.Empty(t, f.queries.created)
	assert.Empty(t, f.messages.byID[user.ID])
}

func TestConsultationService_AcceptConsent(t *testing.T) {
	f := newConsultationFixture()
	user := &models.User{ID: 7}

	require.NoError(t, f.svc.AcceptConsent(context.Background(), user))
	assert.True(t, user.ConsentAccepted)
	assert.NotNil(t, user.ConsentAcceptedAt)
	assert.Contains(t, f.users.consented, int64(7))
	assert.Equal(t, []string{models.ActionConsentAccepted}, f.audit.actions())
}
