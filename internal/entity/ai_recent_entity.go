package entity

import (
	"time"

	"github.com/google/uuid"
)

// AiRecent is one persisted AI-tool invocation.
type AiRecent struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Tool      AiTool
	Kind      RecentKind
	Title     *string
	Query     string
	Params    ParamBag
	Config    ParamBag
	Results   string
	CreatedAt time.Time
}

// UserToolPreference is the last-used parameter snapshot for one (user, tool).
type UserToolPreference struct {
	UserId    uuid.UUID
	Tool      AiTool
	Params    ParamBag
	UpdatedAt time.Time
}
