package specification

import (
	"gorm.io/gorm"

	"github.com/google/uuid"
)

// UserOwnedBy scopes a query to the rows of one user.
type UserOwnedBy struct {
	UserID uuid.UUID
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}
