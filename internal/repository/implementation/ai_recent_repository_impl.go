package implementation

import (
	"context"
	"errors"

	"gymflow-be/internal/entity"
	"gymflow-be/internal/mapper"
	"gymflow-be/internal/model"
	"gymflow-be/internal/repository/contract"
	"gymflow-be/internal/repository/scope"
	"gymflow-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AiRecentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AiRecentMapper
}

func NewAiRecentRepository(db *gorm.DB) contract.AiRecentRepository {
	return &AiRecentRepositoryImpl{
		db:     db,
		mapper: mapper.NewAiRecentMapper(),
	}
}

func (r *AiRecentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AiRecentRepositoryImpl) Create(ctx context.Context, recent *entity.AiRecent) error {
	m := r.mapper.ToModel(recent)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*recent = *r.mapper.ToEntity(m)
	return nil
}

func (r *AiRecentRepositoryImpl) DeleteOldest(ctx context.Context, n int, specs ...specification.Specification) (int64, error) {
	if n <= 0 {
		return 0, nil
	}

	var ids []uuid.UUID
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.AiRecent{}), specs...)
	if err := query.Scopes(scope.OrderByCreatedAsc).Limit(n).Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.AiRecent{})
	return res.RowsAffected, res.Error
}

func (r *AiRecentRepositoryImpl) DeleteAll(ctx context.Context, specs ...specification.Specification) (int64, error) {
	if len(specs) == 0 {
		// Refuse an unfiltered delete.
		return 0, errors.New("delete all requires at least one specification")
	}
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	res := query.Delete(&model.AiRecent{})
	return res.RowsAffected, res.Error
}

func (r *AiRecentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AiRecent, error) {
	var m model.AiRecent
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *AiRecentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AiRecent, error) {
	var models []*model.AiRecent
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *AiRecentRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.AiRecent{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *AiRecentRepositoryImpl) CountByKey(ctx context.Context, minCount int64) ([]contract.RecentKeyCount, error) {
	var rows []contract.RecentKeyCount
	err := r.db.WithContext(ctx).
		Model(&model.AiRecent{}).
		Select("user_id, tool, COUNT(*) AS count").
		Where("kind = ?", string(entity.RecentKindRecent)).
		Group("user_id, tool").
		Having("COUNT(*) >= ?", minCount).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
