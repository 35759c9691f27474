package mapper

import (
	"gymflow-be/internal/entity"
	"gymflow-be/internal/model"
)

type UserToolPreferenceMapper struct{}

func NewUserToolPreferenceMapper() *UserToolPreferenceMapper {
	return &UserToolPreferenceMapper{}
}

func (m *UserToolPreferenceMapper) ToEntity(p *model.UserToolPreference) *entity.UserToolPreference {
	if p == nil {
		return nil
	}
	return &entity.UserToolPreference{
		UserId:    p.UserId,
		Tool:      entity.AiTool(p.Tool),
		Params:    decodeParamBag(p.Params),
		UpdatedAt: p.UpdatedAt,
	}
}

func (m *UserToolPreferenceMapper) ToModel(p *entity.UserToolPreference) *model.UserToolPreference {
	if p == nil {
		return nil
	}
	return &model.UserToolPreference{
		UserId:    p.UserId,
		Tool:      string(p.Tool),
		Params:    encodeParamBag(p.Params),
		UpdatedAt: p.UpdatedAt,
	}
}

func (m *UserToolPreferenceMapper) ToEntities(prefs []*model.UserToolPreference) []*entity.UserToolPreference {
	entities := make([]*entity.UserToolPreference, len(prefs))
	for i, p := range prefs {
		entities[i] = m.ToEntity(p)
	}
	return entities
}
