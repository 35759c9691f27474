package contract

import (
	"context"

	"gymflow-be/internal/entity"
	"gymflow-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserToolPreferenceRepository interface {
	// Upsert overwrites the whole row for (user, tool).
	Upsert(ctx context.Context, pref *entity.UserToolPreference) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserToolPreference, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserToolPreference, error)
	DeleteAllByUserId(ctx context.Context, userId uuid.UUID) error
}
