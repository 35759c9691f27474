package dto

import (
	"time"

	"gymflow-be/internal/entity"

	"github.com/google/uuid"
)

type NewsletterSection struct {
	Title   string `json:"title" validate:"max=255"`
	Text    string `json:"text" validate:"max=5000"`
	Enabled *bool  `json:"enabled"`
}

// GenerateRequest is the body of every tool run. Params and Config hold
// scalar values only; sections are a newsletter-only input.
type GenerateRequest struct {
	Text     string                 `json:"text" validate:"max=20000"`
	Params   map[string]interface{} `json:"params"`
	Config   map[string]interface{} `json:"config"`
	Sections []NewsletterSection    `json:"sections" validate:"omitempty,max=20,dive"`
}

type GenerateResponse struct {
	Tool   entity.AiTool `json:"tool"`
	Result string        `json:"result"`
}

type RecentResponse struct {
	Id        uuid.UUID       `json:"id"`
	Tool      entity.AiTool   `json:"tool"`
	Kind      string          `json:"kind"`
	Title     *string         `json:"title"`
	Query     string          `json:"query"`
	Params    entity.ParamBag `json:"params"`
	Config    entity.ParamBag `json:"config"`
	Results   string          `json:"results"`
	CreatedAt time.Time       `json:"created_at"`
}

type ListRecentRequest struct {
	Limit  int `query:"limit" validate:"gte=0,lte=50"`
	Offset int `query:"offset" validate:"gte=0"`
}

type ClearRecentResponse struct {
	Removed int64 `json:"removed"`
}

type PreferenceResponse struct {
	Tool      entity.AiTool   `json:"tool"`
	Params    entity.ParamBag `json:"params"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// RecentSaveMessage is the payload queued after a successful generation.
type RecentSaveMessage struct {
	Id        uuid.UUID       `json:"id"`
	UserId    uuid.UUID       `json:"user_id"`
	Tool      entity.AiTool   `json:"tool"`
	Title     *string         `json:"title,omitempty"`
	Query     string          `json:"query"`
	Params    entity.ParamBag `json:"params"`
	Config    entity.ParamBag `json:"config"`
	Results   string          `json:"results"`
	CreatedAt time.Time       `json:"created_at"`
}

// RecentSavedEvent is pushed to the owner's websocket connections.
type RecentSavedEvent struct {
	Id        uuid.UUID     `json:"id"`
	Tool      entity.AiTool `json:"tool"`
	Query     string        `json:"query"`
	CreatedAt time.Time     `json:"created_at"`
}
