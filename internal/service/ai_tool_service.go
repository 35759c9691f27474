package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gymflow-be/internal/dto"
	"gymflow-be/internal/entity"
	"gymflow-be/internal/pkg/apierr"
	"gymflow-be/internal/pkg/logger"
	"gymflow-be/pkg/ai/prompt"
	"gymflow-be/pkg/llm"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultLocale = "en"
	pipelineLog   = "AI_TOOLS"
)

// Stage is a step of one tool run.
type Stage int

const (
	StageReceived Stage = iota
	StageValidated
	StagePromptBuilt
	StageGenerationInFlight
	StageGenerationSucceeded
	StageGenerationFailed
	StagePersisted
	StageAcknowledged
)

var stageNames = [...]string{
	"received",
	"validated",
	"prompt_built",
	"generation_in_flight",
	"generation_succeeded",
	"generation_failed",
	"persisted",
	"acknowledged",
}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// RecentsStore is the part of recents.Store the services use.
type RecentsStore interface {
	Append(ctx context.Context, entry *entity.AiRecent) error
	ListRecent(ctx context.Context, userId uuid.UUID, tool entity.AiTool, limit, offset int) ([]*entity.AiRecent, error)
	Clear(ctx context.Context, userId uuid.UUID, tool *entity.AiTool) (int64, error)
	Purge(ctx context.Context, userId uuid.UUID) (int64, error)
}

type IAiToolService interface {
	// Generate runs a tool. A nil userId is an anonymous run and is not recorded.
	Generate(ctx context.Context, userId *uuid.UUID, tool entity.AiTool, req *dto.GenerateRequest) (*dto.GenerateResponse, error)
	ListRecent(ctx context.Context, userId uuid.UUID, tool entity.AiTool, limit, offset int) ([]*dto.RecentResponse, error)
	ClearRecent(ctx context.Context, userId uuid.UUID, tool entity.AiTool) (int64, error)
	GetPreference(ctx context.Context, userId uuid.UUID, tool entity.AiTool) (*dto.PreferenceResponse, error)
	GetPreferences(ctx context.Context, userId uuid.UUID) ([]*dto.PreferenceResponse, error)
}

type aiToolService struct {
	llmProvider llm.LLMProvider
	publisher   IPublisherService
	store       RecentsStore
	preferences IPreferenceService
	logger      logger.ILogger
	tracer      trace.Tracer
	now         func() time.Time
}

func NewAiToolService(
	llmProvider llm.LLMProvider,
	publisher IPublisherService,
	store RecentsStore,
	preferences IPreferenceService,
	log logger.ILogger,
) IAiToolService {
	return &aiToolService{
		llmProvider: llmProvider,
		publisher:   publisher,
		store:       store,
		preferences: preferences,
		logger:      log,
		tracer:      otel.Tracer("gymflow-be/ai-tools"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// run tracks the stage of one Generate call.
type run struct {
	svc   *aiToolService
	span  trace.Span
	tool  entity.AiTool
	stage Stage
}

func (r *run) advance(stage Stage) {
	r.stage = stage
	r.span.AddEvent(stage.String())
	r.svc.logger.Debug(pipelineLog, "Stage "+stage.String(), map[string]interface{}{"tool": string(r.tool)})
}

func (s *aiToolService) Generate(ctx context.Context, userId *uuid.UUID, tool entity.AiTool, req *dto.GenerateRequest) (*dto.GenerateResponse, error) {
	ctx, span := s.tracer.Start(ctx, "AiToolService.Generate", trace.WithAttributes(
		attribute.String("ai.tool", string(tool)),
		attribute.Bool("ai.anonymous", userId == nil),
	))
	defer span.End()

	r := &run{svc: s, span: span, tool: tool}
	r.advance(StageReceived)
	defer r.advance(StageAcknowledged)

	if !tool.IsValid() {
		return nil, s.fail(span, apierr.UnknownTool(fmt.Errorf("unknown ai tool %q", tool)))
	}
	if req == nil {
		req = &dto.GenerateRequest{}
	}

	params, config, err := normalize(tool, req)
	if err != nil {
		return nil, s.fail(span, apierr.Validation(err))
	}
	r.advance(StageValidated)

	in := prompt.Input{Text: req.Text, Params: params}
	p, err := prompt.Build(tool, in)
	if err != nil {
		return nil, s.fail(span, apierr.Validation(err))
	}
	r.advance(StagePromptBuilt)

	r.advance(StageGenerationInFlight)
	start := time.Now()
	result, err := s.llmProvider.Chat(ctx,
		llm.SystemAndUser(p.System, p.User),
		llm.WithTemperature(p.Temperature),
		llm.WithLocale(config.Text("locale")),
	)
	if err == nil && strings.TrimSpace(result) == "" {
		err = llm.ErrEmptyCompletion
	}
	if err == nil && ctx.Err() != nil {
		// The caller is gone; a late answer counts as a failure.
		err = ctx.Err()
	}
	if err != nil {
		r.advance(StageGenerationFailed)
		s.logger.Warn(pipelineLog, "Generation failed", map[string]interface{}{
			"tool":     string(tool),
			"duration": time.Since(start).String(),
			"error":    err.Error(),
		})
		return nil, s.fail(span, apierr.GenerationFailed(err))
	}
	r.advance(StageGenerationSucceeded)

	// Persisted marks the hand-off to the save queue; the write itself is async.
	if userId != nil && *userId != uuid.Nil && s.dispatch(ctx, *userId, tool, in, config, result) {
		r.advance(StagePersisted)
	}

	s.logger.Info(pipelineLog, "Tool run completed", map[string]interface{}{
		"tool":      string(tool),
		"anonymous": userId == nil,
		"duration":  time.Since(start).String(),
	})

	return &dto.GenerateResponse{Tool: tool, Result: result}, nil
}

// dispatch queues the recent entry and reports whether it was queued. It never
// fails the request.
func (s *aiToolService) dispatch(ctx context.Context, userId uuid.UUID, tool entity.AiTool, in prompt.Input, config entity.ParamBag, result string) bool {
	msg := &dto.RecentSaveMessage{
		Id:        uuid.New(),
		UserId:    userId,
		Tool:      tool,
		Query:     prompt.Query(tool, in),
		Params:    in.Params,
		Config:    config,
		Results:   result,
		CreatedAt: s.now(),
	}
	if title := prompt.Title(tool, in); title != "" {
		msg.Title = &title
	}

	if err := s.publisher.PublishRecentSave(context.WithoutCancel(ctx), msg); err != nil {
		s.logger.Error(pipelineLog, "PersistenceFailure: recent save not queued", map[string]interface{}{
			"recent_id": msg.Id.String(),
			"user_id":   userId.String(),
			"tool":      string(tool),
			"error":     err.Error(),
		})
		return false
	}
	return true
}

func (s *aiToolService) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// normalize turns the request into the parameter and config bags. Newsletter
// sections are flattened into the params; config always carries a locale.
func normalize(tool entity.AiTool, req *dto.GenerateRequest) (entity.ParamBag, entity.ParamBag, error) {
	params, err := entity.ParamBagFrom(req.Params)
	if err != nil {
		return nil, nil, fmt.Errorf("params: %w", err)
	}
	config, err := entity.ParamBagFrom(req.Config)
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}

	if tool == entity.AiToolNewsletter && len(req.Sections) > 0 {
		sections := make([]prompt.Section, len(req.Sections))
		for i, s := range req.Sections {
			sections[i] = prompt.Section{Title: s.Title, Text: s.Text, Enabled: s.Enabled == nil || *s.Enabled}
		}
		params = prompt.FlattenSections(params, sections)
	}

	if strings.TrimSpace(config.Text("locale")) == "" {
		config["locale"] = entity.StringParam(defaultLocale)
	}
	return params, config, nil
}

func (s *aiToolService) ListRecent(ctx context.Context, userId uuid.UUID, tool entity.AiTool, limit, offset int) ([]*dto.RecentResponse, error) {
	if !tool.IsValid() {
		return nil, apierr.UnknownTool(fmt.Errorf("unknown ai tool %q", tool))
	}
	recents, err := s.store.ListRecent(ctx, userId, tool, limit, offset)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.RecentResponse, 0, len(recents))
	for _, r := range recents {
		res = append(res, &dto.RecentResponse{
			Id:        r.Id,
			Tool:      r.Tool,
			Kind:      string(r.Kind),
			Title:     r.Title,
			Query:     r.Query,
			Params:    r.Params,
			Config:    r.Config,
			Results:   r.Results,
			CreatedAt: r.CreatedAt,
		})
	}
	return res, nil
}

func (s *aiToolService) ClearRecent(ctx context.Context, userId uuid.UUID, tool entity.AiTool) (int64, error) {
	if !tool.IsValid() {
		return 0, apierr.UnknownTool(fmt.Errorf("unknown ai tool %q", tool))
	}
	removed, err := s.store.Clear(ctx, userId, &tool)
	if err != nil {
		return 0, err
	}
	s.logger.Info(pipelineLog, "Recents cleared", map[string]interface{}{
		"user_id": userId.String(),
		"tool":    string(tool),
		"removed": removed,
	})
	return removed, nil
}

func (s *aiToolService) GetPreference(ctx context.Context, userId uuid.UUID, tool entity.AiTool) (*dto.PreferenceResponse, error) {
	if !tool.IsValid() {
		return nil, apierr.UnknownTool(fmt.Errorf("unknown ai tool %q", tool))
	}
	pref, err := s.preferences.Get(ctx, userId, tool)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		return nil, nil
	}
	return toPreferenceResponse(pref), nil
}

func (s *aiToolService) GetPreferences(ctx context.Context, userId uuid.UUID) ([]*dto.PreferenceResponse, error) {
	prefs, err := s.preferences.GetAll(ctx, userId)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.PreferenceResponse, 0, len(prefs))
	for _, p := range prefs {
		res = append(res, toPreferenceResponse(p))
	}
	return res, nil
}

func toPreferenceResponse(p *entity.UserToolPreference) *dto.PreferenceResponse {
	return &dto.PreferenceResponse{
		Tool:      p.Tool,
		Params:    p.Params,
		UpdatedAt: p.UpdatedAt,
	}
}
