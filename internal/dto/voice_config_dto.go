package dto

type UpsertVoiceConfigurationRequest struct {
	LanguageCode               string   `json:"language_code" validate:"omitempty,max=16"`
	VoiceName                  string   `json:"voice_name" validate:"omitempty,max=64"`
	SpeakingRate               *float64 `json:"speaking_rate" validate:"omitempty,gte=0.25,lte=4"`
	Pitch                      *float64 `json:"pitch" validate:"omitempty,gte=-20,lte=20"`
	VolumeGainDb               *float64 `json:"volume_gain_db" validate:"omitempty,gte=-96,lte=16"`
	EnableAutomaticPunctuation *bool    `json:"enable_automatic_punctuation"`
	VocabularyHints            []string `json:"vocabulary_hints" validate:"omitempty,max=100,dive,max=64"`
}

type VoiceConfigurationResponse struct {
	LanguageCode               string   `json:"language_code"`
	VoiceName                  string   `json:"voice_name"`
	SpeakingRate               float64  `json:"speaking_rate"`
	Pitch                      float64  `json:"pitch"`
	VolumeGainDb               float64  `json:"volume_gain_db"`
	EnableAutomaticPunctuation bool     `json:"enable_automatic_punctuation"`
	VocabularyHints            []string `json:"vocabulary_hints"`
}
