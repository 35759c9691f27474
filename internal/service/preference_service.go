package service

import (
	"context"
	"time"

	"gymflow-be/internal/entity"
	"gymflow-be/internal/repository/memory"
	"gymflow-be/internal/repository/specification"
	"gymflow-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IPreferenceService interface {
	// Upsert overwrites the last-used params of (user, tool). Last write wins.
	Upsert(ctx context.Context, userId uuid.UUID, tool entity.AiTool, params entity.ParamBag) error
	// Get returns nil when the user never ran the tool.
	Get(ctx context.Context, userId uuid.UUID, tool entity.AiTool) (*entity.UserToolPreference, error)
	GetAll(ctx context.Context, userId uuid.UUID) ([]*entity.UserToolPreference, error)
	DeleteAll(ctx context.Context, userId uuid.UUID) error
}

type preferenceService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *memory.PreferenceCache
	now        func() time.Time
}

func NewPreferenceService(uowFactory unitofwork.RepositoryFactory, cache *memory.PreferenceCache) IPreferenceService {
	if cache == nil {
		cache = memory.NewPreferenceCache(0)
	}
	return &preferenceService{
		uowFactory: uowFactory,
		cache:      cache,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *preferenceService) Upsert(ctx context.Context, userId uuid.UUID, tool entity.AiTool, params entity.ParamBag) error {
	pref := &entity.UserToolPreference{
		UserId:    userId,
		Tool:      tool,
		Params:    params.Clone(),
		UpdatedAt: s.now(),
	}
	if pref.Params == nil {
		pref.Params = entity.ParamBag{}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.UserToolPreferenceRepository().Upsert(ctx, pref); err != nil {
		return err
	}
	s.cache.Set(pref)
	return nil
}

func (s *preferenceService) Get(ctx context.Context, userId uuid.UUID, tool entity.AiTool) (*entity.UserToolPreference, error) {
	if pref, ok := s.cache.Get(userId, tool); ok {
		return pref, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	pref, err := uow.UserToolPreferenceRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByTool{Tool: string(tool)},
	)
	if err != nil {
		return nil, err
	}
	if pref != nil {
		s.cache.Fill(pref)
	}
	return pref, nil
}

func (s *preferenceService) GetAll(ctx context.Context, userId uuid.UUID) ([]*entity.UserToolPreference, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.UserToolPreferenceRepository().FindAll(ctx, specification.UserOwnedBy{UserID: userId})
}

func (s *preferenceService) DeleteAll(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.UserToolPreferenceRepository().DeleteAllByUserId(ctx, userId); err != nil {
		return err
	}
	s.cache.InvalidateUser(userId)
	return nil
}
