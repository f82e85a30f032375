package service

import (
	"context"

	"nia-sales-be/internal/dto"
	"nia-sales-be/internal/entity"
	"nia-sales-be/internal/pkg/logger"
	"nia-sales-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IVoiceConfigurationService interface {
	Upsert(ctx context.Context, userId uuid.UUID, req *dto.UpsertVoiceConfigurationRequest) (*dto.VoiceConfigurationResponse, error)
	Show(ctx context.Context, userId uuid.UUID) (*dto.VoiceConfigurationResponse, error)
	// Resolve returns the user's stored configuration or the defaults. It
	// never fails; pipelines always get something usable.
	Resolve(ctx context.Context, userId uuid.UUID) *entity.VoiceConfiguration
}

type voiceConfigurationService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewVoiceConfigurationService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IVoiceConfigurationService {
	return &voiceConfigurationService{
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (s *voiceConfigurationService) Upsert(ctx context.Context, userId uuid.UUID, req *dto.UpsertVoiceConfigurationRequest) (*dto.VoiceConfigurationResponse, error) {
	config := s.Resolve(ctx, userId)

	if req.LanguageCode != "" {
		config.LanguageCode = req.LanguageCode
	}
	if req.VoiceName != "" {
		config.VoiceName = req.VoiceName
	}
	if req.SpeakingRate != nil {
		config.SpeakingRate = *req.SpeakingRate
	}
	if req.Pitch != nil {
		config.Pitch = *req.Pitch
	}
	if req.VolumeGainDb != nil {
		config.VolumeGainDb = *req.VolumeGainDb
	}
	if req.EnableAutomaticPunctuation != nil {
		config.EnableAutomaticPunctuation = *req.EnableAutomaticPunctuation
	}
	if req.VocabularyHints != nil {
		config.VocabularyHints = req.VocabularyHints
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.VoiceConfigurationRepository().Upsert(ctx, config); err != nil {
		return nil, err
	}
	return toVoiceConfigResponse(config), nil
}

func (s *voiceConfigurationService) Show(ctx context.Context, userId uuid.UUID) (*dto.VoiceConfigurationResponse, error) {
	return toVoiceConfigResponse(s.Resolve(ctx, userId)), nil
}

func (s *voiceConfigurationService) Resolve(ctx context.Context, userId uuid.UUID) *entity.VoiceConfiguration {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	config, err := uow.VoiceConfigurationRepository().FindByUserId(ctx, userId)
	if err != nil {
		s.logger.Warn("voice_config", "lookup failed, using defaults", map[string]interface{}{
			"user_id": userId.String(), "error": err.Error(),
		})
		return entity.DefaultVoiceConfiguration(userId)
	}
	if config == nil {
		return entity.DefaultVoiceConfiguration(userId)
	}
	return config
}

func toVoiceConfigResponse(config *entity.VoiceConfiguration) *dto.VoiceConfigurationResponse {
	return &dto.VoiceConfigurationResponse{
		LanguageCode:               config.LanguageCode,
		VoiceName:                  config.VoiceName,
		SpeakingRate:               config.SpeakingRate,
		Pitch:                      config.Pitch,
		VolumeGainDb:               config.VolumeGainDb,
		EnableAutomaticPunctuation: config.EnableAutomaticPunctuation,
		VocabularyHints:            config.VocabularyHints,
	}
}
