package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AiRecent struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index:idx_ai_recents_key,priority:1"`
	Tool      string         `gorm:"type:varchar(32);not null;index:idx_ai_recents_key,priority:2"`
	Kind      string         `gorm:"type:varchar(16);not null;default:'recent';index:idx_ai_recents_key,priority:3"`
	Title     *string        `gorm:"type:varchar(255)"`
	Query     string         `gorm:"type:text"`
	Params    datatypes.JSON `gorm:"type:jsonb"`
	Config    datatypes.JSON `gorm:"type:jsonb"`
	Results   string         `gorm:"type:text"`
	CreatedAt time.Time      `gorm:"not null;index:idx_ai_recents_key,priority:4"`
}

func (AiRecent) TableName() string {
	return "ai_recents"
}
