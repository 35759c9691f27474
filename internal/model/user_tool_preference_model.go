package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type UserToolPreference struct {
	UserId    uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Tool      string         `gorm:"type:varchar(32);primaryKey"`
	Params    datatypes.JSON `gorm:"type:jsonb"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (UserToolPreference) TableName() string {
	return "user_tool_preferences"
}
