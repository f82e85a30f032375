package entity

import (
	"time"

	"github.com/google/uuid"
)

type VoiceConfiguration struct {
	Id                         uuid.UUID
	UserId                     uuid.UUID
	LanguageCode               string
	VoiceName                  string
	SpeakingRate               float64
	Pitch                      float64
	VolumeGainDb               float64
	EnableAutomaticPunctuation bool
	VocabularyHints            []string
	CreatedAt                  time.Time
	UpdatedAt                  *time.Time
}

// DefaultVoiceConfiguration covers users who never customized anything.
func DefaultVoiceConfiguration(userId uuid.UUID) *VoiceConfiguration {
	return &VoiceConfiguration{
		Id:                         uuid.New(),
		UserId:                     userId,
		LanguageCode:               "en-US",
		VoiceName:                  "en-US-Neural2-F",
		SpeakingRate:               1.0,
		Pitch:                      0.0,
		VolumeGainDb:               0.0,
		EnableAutomaticPunctuation: true,
		VocabularyHints:            []string{},
		CreatedAt:                  time.Now(),
	}
}
