package service

import (
	"context"
	"fmt"
	"time"

	"nia-sales-be/internal/constant"
	"nia-sales-be/internal/convo"
	"nia-sales-be/internal/dto"
	"nia-sales-be/internal/entity"
	"nia-sales-be/internal/pkg/logger"
	"nia-sales-be/internal/repository/memory"
	"nia-sales-be/internal/repository/unitofwork"
	"nia-sales-be/pkg/audiostore"
	"nia-sales-be/pkg/speech"

	"github.com/google/uuid"
)

type ISynthesisService interface {
	// Synthesize turns response text into audio and persists the assistant
	// turn. Synthesis is never retried; played audio cannot be unplayed.
	Synthesize(ctx context.Context, sessionId uuid.UUID, text string) (*dto.SynthesisResult, error)
}

type synthesisService struct {
	uowFactory  unitofwork.RepositoryFactory
	registry    *memory.SessionRegistry
	contexts    *convo.Manager
	synthesizer speech.Synthesizer
	audioStore  audiostore.Store
	voiceConfig IVoiceConfigurationService
	callTimeout time.Duration
	logger      logger.ILogger
}

func NewSynthesisService(
	uowFactory unitofwork.RepositoryFactory,
	registry *memory.SessionRegistry,
	contexts *convo.Manager,
	synthesizer speech.Synthesizer,
	audioStore audiostore.Store,
	voiceConfig IVoiceConfigurationService,
	callTimeout time.Duration,
	log logger.ILogger,
) ISynthesisService {
	return &synthesisService{
		uowFactory:  uowFactory,
		registry:    registry,
		contexts:    contexts,
		synthesizer: synthesizer,
		audioStore:  audioStore,
		voiceConfig: voiceConfig,
		callTimeout: callTimeout,
		logger:      log,
	}
}

func (s *synthesisService) Synthesize(ctx context.Context, sessionId uuid.UUID, text string) (*dto.SynthesisResult, error) {
	active, ok := s.registry.Get(sessionId)
	if !ok {
		return nil, ErrSessionNotFound
	}
	if text == "" {
		return &dto.SynthesisResult{SessionId: sessionId, Error: "nothing to synthesize"}, nil
	}

	cfg := s.voiceConfig.Resolve(ctx, active.UserId)
	req := &speech.SynthesisRequest{
		Text:         text,
		LanguageCode: cfg.LanguageCode,
		VoiceName:    cfg.VoiceName,
		SpeakingRate: cfg.SpeakingRate,
		Pitch:        cfg.Pitch,
		VolumeGainDb: cfg.VolumeGainDb,
	}

	callCtx, cancel := context.WithTimeout(active.Ctx, s.callTimeout)
	defer cancel()

	audioBytes, err := s.synthesizer.Synthesize(callCtx, req)
	if err != nil {
		if active.Ctx.Err() != nil {
			return nil, active.Ctx.Err()
		}
		s.logger.Warn("synthesis", "speech synthesis failed", map[string]interface{}{
			"session_id": sessionId.String(), "error": err.Error(),
		})
		return &dto.SynthesisResult{SessionId: sessionId, Content: text, Error: err.Error()}, nil
	}
	if active.Ctx.Err() != nil {
		return nil, active.Ctx.Err()
	}

	turnNumber := active.NextTurnNumber()

	storageURI := ""
	if s.audioStore != nil {
		uri, storeErr := s.audioStore.Store(ctx, sessionId, audioBytes, "MP3", map[string]string{
			"turn_number": fmt.Sprintf("%d", turnNumber),
			"speaker":     constant.SpeakerAssistant,
		})
		if storeErr != nil {
			s.logger.Warn("synthesis", "audio storage write failed", map[string]interface{}{
				"session_id": sessionId.String(), "error": storeErr.Error(),
			})
		} else {
			storageURI = uri
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	turn := &entity.ConversationTurn{
		Id:         uuid.New(),
		SessionId:  sessionId,
		TurnNumber: turnNumber,
		Speaker:    constant.SpeakerAssistant,
		Content:    text,
		Intent:     constant.IntentAssistantResponse,
		Confidence: 1.0,
	}
	if storageURI != "" {
		turn.AudioURI = &storageURI
	}
	if err := uow.ConversationTurnRepository().Create(ctx, turn); err != nil {
		return nil, err
	}

	s.contexts.Update(sessionId, convo.Update{
		FlowEntries: []string{fmt.Sprintf("assistant: %s", text)},
		LastIntent:  constant.IntentAssistantResponse,
	})

	return &dto.SynthesisResult{
		SessionId:  sessionId,
		TurnNumber: turnNumber,
		Content:    text,
		AudioURI:   storageURI,
		Audio:      audioBytes,
	}, nil
}
