package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gymflow-be/internal/dto"
	"gymflow-be/internal/entity"
	"gymflow-be/internal/pkg/apierr"
	"gymflow-be/internal/pkg/logger"
	"gymflow-be/internal/pkg/testdb"
	"gymflow-be/internal/repository/memory"
	"gymflow-be/internal/repository/unitofwork"
	"gymflow-be/pkg/ai/recents"
	"gymflow-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type fakeLLM struct {
	mu      sync.Mutex
	result  string
	err     error
	calls   int
	history []llm.Message
	options llm.Options
	onChat  func()
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.history = history
	f.options = *llm.ApplyOptions(llm.Options{}, opts...)
	if f.onChat != nil {
		f.onChat()
	}
	return f.result, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

// syncPublisher hands every save straight to the consumer.
type syncPublisher struct {
	consumer IConsumerService
	err      error
	sent     []*dto.RecentSaveMessage
}

func (p *syncPublisher) PublishRecentSave(ctx context.Context, payload *dto.RecentSaveMessage) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, payload)
	p.consumer.Handle(ctx, payload)
	return nil
}

type failingStore struct {
	*recents.Store
}

func (failingStore) Append(context.Context, *entity.AiRecent) error {
	return recents.ErrStoreUnavailable
}

type pipeline struct {
	svc         IAiToolService
	llm         *fakeLLM
	publisher   *syncPublisher
	store       *recents.Store
	preferences IPreferenceService
}

func newPipeline(t *testing.T, wrap func(*recents.Store) RecentsStore) *pipeline {
	t.Helper()
	factory := unitofwork.NewRepositoryFactory(testdb.New(t))
	log := logger.NewNopLogger()

	store := recents.NewStore(factory, nil, log)
	var rs RecentsStore = store
	if wrap != nil {
		rs = wrap(store)
	}
	prefs := NewPreferenceService(factory, memory.NewPreferenceCache(0))
	consumer := NewConsumerService(nil, "AI_RECENT_SAVE", rs, prefs, nil, nil, log)
	pub := &syncPublisher{consumer: consumer}
	fake := &fakeLLM{result: "Corrected text."}

	svc := NewAiToolService(fake, pub, rs, prefs, log)
	svc.(*aiToolService).now = ticker(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	return &pipeline{
		svc:         svc,
		llm:         fake,
		publisher:   pub,
		store:       store,
		preferences: prefs,
	}
}

// ticker returns a clock that advances one second per call.
func ticker(start time.Time) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := next
		next = next.Add(time.Second)
		return t
	}
}

func grammarRequest(text string) *dto.GenerateRequest {
	return &dto.GenerateRequest{
		Text:   text,
		Params: map[string]interface{}{"level": "3rd", "mode": "correct"},
	}
}

func TestGenerate_SuccessRecordsEntryAndPreference(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t, nil)
	user := uuid.New()

	res, err := p.svc.Generate(ctx, &user, entity.AiToolGrammar, grammarRequest("i has went"))
	require.NoError(t, err)
	assert.Equal(t, "Corrected text.", res.Result)
	assert.Equal(t, entity.AiToolGrammar, res.Tool)

	assert.Equal(t, 0.2, p.llm.options.Temperature)
	assert.Equal(t, "en", p.llm.options.Locale)
	require.Len(t, p.llm.history, 2)
	assert.Equal(t, llm.RoleSystem, p.llm.history[0].Role)

	got, err := p.store.ListRecent(ctx, user, entity.AiToolGrammar, 0, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "i has went", got[0].Query)
	assert.Equal(t, "Corrected text.", got[0].Results)
	assert.Equal(t, entity.RecentKindRecent, got[0].Kind)
	assert.Equal(t, "3rd", got[0].Params.Text("level"))
	assert.Equal(t, "en", got[0].Config.Text("locale"))

	pref, err := p.preferences.Get(ctx, user, entity.AiToolGrammar)
	require.NoError(t, err)
	require.NotNil(t, pref)
	assert.Equal(t, "correct", pref.Params.Text("mode"))
}

func TestGenerate_GenerationFailureHasNoSideEffects(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t, nil)
	p.llm.err = errors.New("provider unavailable")
	user := uuid.New()

	res, err := p.svc.Generate(ctx, &user, entity.AiToolGrammar, grammarRequest("text"))
	assert.Nil(t, res)
	require.Error(t, err)
	assert.True(t, apierr.HasCode(err, apierr.CodeGenerationFailed))

	assert.Empty(t, p.publisher.sent)
	n, err := p.store.CountByKey(ctx, user, entity.AiToolGrammar)
	require.NoError(t, err)
	assert.Zero(t, n)
	pref, err := p.preferences.Get(ctx, user, entity.AiToolGrammar)
	require.NoError(t, err)
	assert.Nil(t, pref)
}

func TestGenerate_EmptyCompletionIsFailure(t *testing.T) {
	p := newPipeline(t, nil)
	p.llm.result = "   "
	user := uuid.New()

	_, err := p.svc.Generate(context.Background(), &user, entity.AiToolGrammar, grammarRequest("text"))
	assert.ErrorIs(t, err, llm.ErrEmptyCompletion)
	assert.Empty(t, p.publisher.sent)
}

func TestGenerate_PersistenceFailureStillSucceeds(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t, func(s *recents.Store) RecentsStore { return failingStore{s} })
	user := uuid.New()

	res, err := p.svc.Generate(ctx, &user, entity.AiToolGrammar, grammarRequest("text"))
	require.NoError(t, err)
	assert.Equal(t, "Corrected text.", res.Result)
	assert.Len(t, p.publisher.sent, 1)

	// The preference update is independent of the failed append.
	pref, err := p.preferences.Get(ctx, user, entity.AiToolGrammar)
	require.NoError(t, err)
	assert.NotNil(t, pref)
}

func TestGenerate_QueueFailureStillSucceeds(t *testing.T) {
	p := newPipeline(t, nil)
	p.publisher.err = errors.New("queue closed")
	user := uuid.New()

	res, err := p.svc.Generate(context.Background(), &user, entity.AiToolGrammar, grammarRequest("text"))
	require.NoError(t, err)
	assert.Equal(t, "Corrected text.", res.Result)
}

func TestGenerate_AnonymousIsNotRecorded(t *testing.T) {
	p := newPipeline(t, nil)

	res, err := p.svc.Generate(context.Background(), nil, entity.AiToolGrammar, grammarRequest("text"))
	require.NoError(t, err)
	assert.Equal(t, "Corrected text.", res.Result)
	assert.Empty(t, p.publisher.sent)
}

func TestGenerate_ValidationErrorSkipsProvider(t *testing.T) {
	p := newPipeline(t, nil)
	user := uuid.New()

	_, err := p.svc.Generate(context.Background(), &user, entity.AiToolGrammar, &dto.GenerateRequest{
		Text:   "text",
		Params: map[string]interface{}{"level": "3rd"},
	})
	assert.True(t, apierr.HasCode(err, apierr.CodeValidation))
	assert.Zero(t, p.llm.calls)

	_, err = p.svc.Generate(context.Background(), &user, entity.AiToolGrammar, &dto.GenerateRequest{
		Params: map[string]interface{}{"level": []interface{}{"3rd"}},
	})
	assert.True(t, apierr.HasCode(err, apierr.CodeValidation))
	assert.Zero(t, p.llm.calls)
}

func TestGenerate_UnknownTool(t *testing.T) {
	p := newPipeline(t, nil)
	_, err := p.svc.Generate(context.Background(), nil, entity.AiTool("poem"), &dto.GenerateRequest{})
	assert.True(t, apierr.HasCode(err, apierr.CodeUnknownTool))
}

func TestGenerate_CancelledDuringGeneration(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := newPipeline(t, nil)
	p.llm.onChat = cancel
	user := uuid.New()

	_, err := p.svc.Generate(ctx, &user, entity.AiToolGrammar, grammarRequest("text"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, p.publisher.sent)
}

func TestGenerate_LocaleAndNewsletterSections(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t, nil)
	user := uuid.New()
	off := false

	_, err := p.svc.Generate(ctx, &user, entity.AiToolNewsletter, &dto.GenerateRequest{
		Config: map[string]interface{}{"locale": "es"},
		Sections: []dto.NewsletterSection{
			{Title: "Closed", Text: "Pool closed", Enabled: &off},
			{Title: "New class", Text: "Spin at 7am"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "es", p.llm.options.Locale)

	got, err := p.store.ListRecent(ctx, user, entity.AiToolNewsletter, 0, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "New class: Spin at 7am", got[0].Query)
	require.NotNil(t, got[0].Title)
	assert.Equal(t, "New class", *got[0].Title)
	assert.Equal(t, "Spin at 7am", got[0].Params.Text("section.1.text"))
}

func TestGenerate_ElevenGrammarRunsKeepTen(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t, nil)
	user := uuid.New()

	for i := 0; i < 11; i++ {
		_, err := p.svc.Generate(ctx, &user, entity.AiToolGrammar, grammarRequest(string(rune('a'+i))))
		require.NoError(t, err)
	}
	require.Len(t, p.publisher.sent, 11)

	got, err := p.svc.ListRecent(ctx, user, entity.AiToolGrammar, 20, 0)
	require.NoError(t, err)
	require.Len(t, got, 10)

	first := p.publisher.sent[0].Id
	for _, r := range got {
		assert.NotEqual(t, first, r.Id)
	}
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].CreatedAt.After(got[i-1].CreatedAt), "entries must be newest first")
	}
	assert.Equal(t, p.publisher.sent[10].Id, got[0].Id)
}

func TestClearRecentAndPreferences(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t, nil)
	user := uuid.New()

	_, err := p.svc.Generate(ctx, &user, entity.AiToolGrammar, grammarRequest("x"))
	require.NoError(t, err)

	prefs, err := p.svc.GetPreferences(ctx, user)
	require.NoError(t, err)
	require.Len(t, prefs, 1)
	assert.Equal(t, entity.AiToolGrammar, prefs[0].Tool)

	removed, err := p.svc.ClearRecent(ctx, user, entity.AiToolGrammar)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	pref, err := p.svc.GetPreference(ctx, user, entity.AiToolQuiz)
	require.NoError(t, err)
	assert.Nil(t, pref)
}

// recordStages swaps in a recording tracer and returns the stage events of
// the spans ended so far.
func recordStages(t *testing.T, svc IAiToolService) func() []string {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	svc.(*aiToolService).tracer = provider.Tracer("test")

	return func() []string {
		var names []string
		for _, span := range recorder.Ended() {
			for _, e := range span.Events() {
				names = append(names, e.Name)
			}
		}
		return names
	}
}

func TestGenerate_PersistedStageOnlyWhenQueued(t *testing.T) {
	user := uuid.New()

	p := newPipeline(t, nil)
	stages := recordStages(t, p.svc)
	_, err := p.svc.Generate(context.Background(), &user, entity.AiToolGrammar, grammarRequest("text"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"received", "validated", "prompt_built", "generation_in_flight",
		"generation_succeeded", "persisted", "acknowledged",
	}, stages())

	failing := newPipeline(t, nil)
	failing.publisher.err = errors.New("queue closed")
	stages = recordStages(t, failing.svc)
	_, err = failing.svc.Generate(context.Background(), &user, entity.AiToolGrammar, grammarRequest("text"))
	require.NoError(t, err)
	assert.NotContains(t, stages(), StagePersisted.String())
	assert.Contains(t, stages(), StageAcknowledged.String())
}
