package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nia-sales-be/internal/audio"
	"nia-sales-be/internal/constant"
	"nia-sales-be/internal/convo"
	"nia-sales-be/internal/dto"
	"nia-sales-be/internal/entity"
	"nia-sales-be/internal/pkg/logger"
	"nia-sales-be/internal/repository/memory"
	"nia-sales-be/internal/repository/unitofwork"
	"nia-sales-be/pkg/audiostore"
	"nia-sales-be/pkg/extraction"
	"nia-sales-be/pkg/speech"

	"github.com/google/uuid"
)

const defaultAudioFormat = "LINEAR16"
const defaultSampleRate = 16000

type ITranscriptionService interface {
	// ProcessChunk drains the session's buffer, transcribes it, and persists
	// the chunk and user turn. Collaborator failures come back inside the
	// result, not as an error, so the session stays usable.
	ProcessChunk(ctx context.Context, sessionId uuid.UUID) (*dto.TranscriptionResult, error)
}

type transcriptionService struct {
	uowFactory  unitofwork.RepositoryFactory
	registry    *memory.SessionRegistry
	buffers     *audio.BufferManager
	contexts    *convo.Manager
	recognizer  speech.Recognizer
	audioStore  audiostore.Store
	voiceConfig IVoiceConfigurationService
	retryCfg    speech.RetryConfig
	callTimeout time.Duration
	drainMax    int
	logger      logger.ILogger
}

func NewTranscriptionService(
	uowFactory unitofwork.RepositoryFactory,
	registry *memory.SessionRegistry,
	buffers *audio.BufferManager,
	contexts *convo.Manager,
	recognizer speech.Recognizer,
	audioStore audiostore.Store,
	voiceConfig IVoiceConfigurationService,
	retryCfg speech.RetryConfig,
	callTimeout time.Duration,
	drainMax int,
	log logger.ILogger,
) ITranscriptionService {
	return &transcriptionService{
		uowFactory:  uowFactory,
		registry:    registry,
		buffers:     buffers,
		contexts:    contexts,
		recognizer:  recognizer,
		audioStore:  audioStore,
		voiceConfig: voiceConfig,
		retryCfg:    retryCfg,
		callTimeout: callTimeout,
		drainMax:    drainMax,
		logger:      log,
	}
}

func (s *transcriptionService) ProcessChunk(ctx context.Context, sessionId uuid.UUID) (*dto.TranscriptionResult, error) {
	active, ok := s.registry.Get(sessionId)
	if !ok {
		return nil, ErrSessionNotFound
	}

	data := s.buffers.Drain(sessionId, s.drainMax)
	if len(data) == 0 {
		return &dto.TranscriptionResult{SessionId: sessionId, NoSpeech: true}, nil
	}

	cfg := s.voiceConfig.Resolve(ctx, active.UserId)
	req := &speech.RecognitionRequest{
		Audio:                      data,
		Encoding:                   defaultAudioFormat,
		SampleRateHertz:            defaultSampleRate,
		LanguageCode:               cfg.LanguageCode,
		EnableAutomaticPunctuation: cfg.EnableAutomaticPunctuation,
		VocabularyHints:            cfg.VocabularyHints,
	}

	// The call is bound to the session context so a session end in flight
	// cancels it and its result is never persisted.
	callCtx, cancel := context.WithTimeout(active.Ctx, s.callTimeout)
	defer cancel()

	result, err := speech.RecognizeWithRetry(callCtx, s.recognizer, req, s.retryCfg)
	if err != nil {
		if errors.Is(err, speech.ErrNoSpeech) {
			return &dto.TranscriptionResult{SessionId: sessionId, NoSpeech: true}, nil
		}
		if active.Ctx.Err() != nil {
			return nil, active.Ctx.Err()
		}
		s.logger.Warn("transcription", "speech recognition failed", map[string]interface{}{
			"session_id": sessionId.String(), "error": err.Error(),
		})
		return &dto.TranscriptionResult{SessionId: sessionId, Error: err.Error()}, nil
	}
	if active.Ctx.Err() != nil {
		// Session ended while the collaborator was still working. Discard.
		return nil, active.Ctx.Err()
	}

	chunkNumber := active.NextChunkNumber()
	turnNumber := active.NextTurnNumber()

	storageURI := ""
	if s.audioStore != nil {
		uri, storeErr := s.audioStore.Store(ctx, sessionId, data, defaultAudioFormat, map[string]string{
			"chunk_number": fmt.Sprintf("%d", chunkNumber),
			"transcript":   result.Transcript,
		})
		if storeErr != nil {
			s.logger.Warn("transcription", "audio storage write failed", map[string]interface{}{
				"session_id": sessionId.String(), "error": storeErr.Error(),
			})
		} else {
			storageURI = uri
		}
	}

	entities := extraction.Extract(result.Transcript)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	chunk := &entity.AudioChunk{
		Id:              uuid.New(),
		SessionId:       sessionId,
		ChunkNumber:     chunkNumber,
		Format:          defaultAudioFormat,
		SampleRateHertz: defaultSampleRate,
		SizeBytes:       len(data),
		StorageURI:      storageURI,
		Processed:       true,
		Transcript:      result.Transcript,
		Confidence:      result.Confidence,
	}
	if err := uow.AudioChunkRepository().Create(ctx, chunk); err != nil {
		return nil, err
	}

	turn := &entity.ConversationTurn{
		Id:         uuid.New(),
		SessionId:  sessionId,
		TurnNumber: turnNumber,
		Speaker:    constant.SpeakerUser,
		Content:    result.Transcript,
		Entities:   entities.ToMap(),
		Intent:     constant.IntentUserSpeech,
		Confidence: result.Confidence,
	}
	if storageURI != "" {
		turn.AudioURI = &storageURI
	}
	if err := uow.ConversationTurnRepository().Create(ctx, turn); err != nil {
		return nil, err
	}

	s.contexts.Update(sessionId, convo.Update{
		ExtractedEntities: entities.ToMap(),
		FlowEntries:       []string{fmt.Sprintf("user: %s", result.Transcript)},
		LastIntent:        constant.IntentUserSpeech,
	})

	return &dto.TranscriptionResult{
		SessionId:   sessionId,
		ChunkNumber: chunkNumber,
		TurnNumber:  turnNumber,
		Transcript:  result.Transcript,
		Confidence:  result.Confidence,
		AudioURI:    storageURI,
	}, nil
}
