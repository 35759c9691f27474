package specification

import (
	"gymflow-be/internal/repository/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByTool struct {
	Tool string
}

func (s ByTool) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("tool = ?", s.Tool)
}

type ByRecentKind struct {
	Kind string
}

func (s ByRecentKind) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("kind = ?", s.Kind)
}

// RecentKey selects one (user, tool, kind) partition of ai_recents.
type RecentKey struct {
	UserID uuid.UUID
	Tool   string
	Kind   string
}

func (s RecentKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ? AND tool = ? AND kind = ?", s.UserID, s.Tool, s.Kind)
}

// ChronologicalOrder orders by created_at with id as the tie breaker,
// so equal timestamps always resolve the same way.
type ChronologicalOrder struct {
	Desc bool
}

func (s ChronologicalOrder) Apply(db *gorm.DB) *gorm.DB {
	if s.Desc {
		return db.Scopes(scope.OrderByCreatedDesc)
	}
	return db.Scopes(scope.OrderByCreatedAsc)
}
