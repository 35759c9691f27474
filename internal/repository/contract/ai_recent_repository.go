package contract

import (
	"context"

	"gymflow-be/internal/entity"
	"gymflow-be/internal/repository/specification"

	"github.com/google/uuid"
)

type AiRecentRepository interface {
	Create(ctx context.Context, recent *entity.AiRecent) error
	// DeleteOldest removes up to n entries matching specs, oldest first, and
	// returns how many were removed.
	DeleteOldest(ctx context.Context, n int, specs ...specification.Specification) (int64, error)
	DeleteAll(ctx context.Context, specs ...specification.Specification) (int64, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AiRecent, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AiRecent, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// CountByKey groups the recent entries by (user_id, tool).
	CountByKey(ctx context.Context, minCount int64) ([]RecentKeyCount, error)
}

type RecentKeyCount struct {
	UserId uuid.UUID
	Tool   string
	Count  int64
}
