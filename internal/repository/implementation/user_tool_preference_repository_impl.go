package implementation

import (
	"context"
	"errors"
	"time"

	"gymflow-be/internal/entity"
	"gymflow-be/internal/mapper"
	"gymflow-be/internal/model"
	"gymflow-be/internal/repository/contract"
	"gymflow-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserToolPreferenceRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserToolPreferenceMapper
}

func NewUserToolPreferenceRepository(db *gorm.DB) contract.UserToolPreferenceRepository {
	return &UserToolPreferenceRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserToolPreferenceMapper(),
	}
}

func (r *UserToolPreferenceRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *UserToolPreferenceRepositoryImpl) Upsert(ctx context.Context, pref *entity.UserToolPreference) error {
	if pref.UpdatedAt.IsZero() {
		pref.UpdatedAt = time.Now().UTC()
	}
	m := r.mapper.ToModel(pref)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "tool"}},
		DoUpdates: clause.AssignmentColumns([]string{"params", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*pref = *r.mapper.ToEntity(m)
	return nil
}

func (r *UserToolPreferenceRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserToolPreference, error) {
	var m model.UserToolPreference
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *UserToolPreferenceRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserToolPreference, error) {
	var models []*model.UserToolPreference
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *UserToolPreferenceRepositoryImpl) DeleteAllByUserId(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userId).Delete(&model.UserToolPreference{}).Error
}
