package mapper

import (
	"encoding/json"

	"gymflow-be/internal/entity"
	"gymflow-be/internal/model"

	"gorm.io/datatypes"
)

type AiRecentMapper struct{}

func NewAiRecentMapper() *AiRecentMapper {
	return &AiRecentMapper{}
}

func (m *AiRecentMapper) ToEntity(r *model.AiRecent) *entity.AiRecent {
	if r == nil {
		return nil
	}
	return &entity.AiRecent{
		Id:        r.Id,
		UserId:    r.UserId,
		Tool:      entity.AiTool(r.Tool),
		Kind:      entity.RecentKind(r.Kind),
		Title:     r.Title,
		Query:     r.Query,
		Params:    decodeParamBag(r.Params),
		Config:    decodeParamBag(r.Config),
		Results:   r.Results,
		CreatedAt: r.CreatedAt,
	}
}

func (m *AiRecentMapper) ToModel(r *entity.AiRecent) *model.AiRecent {
	if r == nil {
		return nil
	}
	kind := r.Kind
	if kind == "" {
		kind = entity.RecentKindRecent
	}
	return &model.AiRecent{
		Id:        r.Id,
		UserId:    r.UserId,
		Tool:      string(r.Tool),
		Kind:      string(kind),
		Title:     r.Title,
		Query:     r.Query,
		Params:    encodeParamBag(r.Params),
		Config:    encodeParamBag(r.Config),
		Results:   r.Results,
		CreatedAt: r.CreatedAt,
	}
}

func (m *AiRecentMapper) ToEntities(recents []*model.AiRecent) []*entity.AiRecent {
	entities := make([]*entity.AiRecent, len(recents))
	for i, r := range recents {
		entities[i] = m.ToEntity(r)
	}
	return entities
}

// encodeParamBag never fails: ParamValue only holds JSON scalars.
func encodeParamBag(bag entity.ParamBag) datatypes.JSON {
	if bag == nil {
		bag = entity.ParamBag{}
	}
	raw, err := json.Marshal(bag)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(raw)
}

// decodeParamBag tolerates legacy or hand-edited rows by returning an empty bag.
func decodeParamBag(raw datatypes.JSON) entity.ParamBag {
	bag := entity.ParamBag{}
	if len(raw) == 0 {
		return bag
	}
	if err := json.Unmarshal(raw, &bag); err != nil {
		return entity.ParamBag{}
	}
	return bag
}
