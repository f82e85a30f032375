package mapper

import (
	"time"

	"nia-sales-be/internal/entity"
	"nia-sales-be/internal/model"
)

type VoiceConfigMapper struct{}

func NewVoiceConfigMapper() *VoiceConfigMapper {
	return &VoiceConfigMapper{}
}

func (m *VoiceConfigMapper) ToEntity(c *model.VoiceConfiguration) *entity.VoiceConfiguration {
	if c == nil {
		return nil
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.VoiceConfiguration{
		Id:                         c.Id,
		UserId:                     c.UserId,
		LanguageCode:               c.LanguageCode,
		VoiceName:                  c.VoiceName,
		SpeakingRate:               c.SpeakingRate,
		Pitch:                      c.Pitch,
		VolumeGainDb:               c.VolumeGainDb,
		EnableAutomaticPunctuation: c.EnableAutomaticPunctuation,
		VocabularyHints:            fromJSONStringSlice(c.VocabularyHints),
		CreatedAt:                  c.CreatedAt,
		UpdatedAt:                  updatedAt,
	}
}

func (m *VoiceConfigMapper) ToModel(c *entity.VoiceConfiguration) *model.VoiceConfiguration {
	if c == nil {
		return nil
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.VoiceConfiguration{
		Id:                         c.Id,
		UserId:                     c.UserId,
		LanguageCode:               c.LanguageCode,
		VoiceName:                  c.VoiceName,
		SpeakingRate:               c.SpeakingRate,
		Pitch:                      c.Pitch,
		VolumeGainDb:               c.VolumeGainDb,
		EnableAutomaticPunctuation: c.EnableAutomaticPunctuation,
		VocabularyHints:            toJSONStringSlice(c.VocabularyHints),
		CreatedAt:                  c.CreatedAt,
		UpdatedAt:                  updatedAt,
	}
}
