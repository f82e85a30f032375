package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nia-sales-be/internal/constant"
	"nia-sales-be/internal/dto"
	"nia-sales-be/internal/pkg/logger"
	"nia-sales-be/internal/repository/memory"
	"nia-sales-be/internal/repository/specification"
	"nia-sales-be/internal/repository/unitofwork"
	"nia-sales-be/pkg/events"
	pktNats "nia-sales-be/pkg/nats"

	"github.com/google/uuid"
)

var ErrAlreadyBridged = errors.New("chat session already linked to a voice session")

type IBridgeService interface {
	// Transition promotes a chat session to a linked voice session. The link
	// is written once; a second request for the same chat session fails.
	Transition(ctx context.Context, chatSessionId uuid.UUID, userId uuid.UUID) (*dto.VoiceTransitionPayload, error)
}

type bridgeService struct {
	uowFactory     unitofwork.RepositoryFactory
	registry       *memory.SessionRegistry
	sessionService ISessionService
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewBridgeService(
	uowFactory unitofwork.RepositoryFactory,
	registry *memory.SessionRegistry,
	sessionService ISessionService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IBridgeService {
	return &bridgeService{
		uowFactory:     uowFactory,
		registry:       registry,
		sessionService: sessionService,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *bridgeService) Transition(ctx context.Context, chatSessionId uuid.UUID, userId uuid.UUID) (*dto.VoiceTransitionPayload, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chat, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: chatSessionId}, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, ErrSessionNotFound
	}
	if chat.LinkedVoiceSessionId != nil {
		return nil, ErrAlreadyBridged
	}
	if !constant.IsChatTransitionAllowed(chat.Status, constant.ChatStatusVoiceTransition) {
		return nil, fmt.Errorf("chat session in status %q cannot transition to voice", chat.Status)
	}

	chat.Status = constant.ChatStatusVoiceTransition
	if err := uow.ChatSessionRepository().Update(ctx, chat); err != nil {
		return nil, err
	}

	// Initiate gives the voice session its registry entry and context shape,
	// same as a directly opened call.
	voice, err := s.sessionService.Initiate(ctx, userId, &dto.InitiateSessionRequest{
		Kind: constant.SessionKindVoice,
		Metadata: map[string]interface{}{
			"origin":          "chat_bridge",
			"chat_session_id": chatSessionId.String(),
		},
	})
	if err != nil {
		s.revertToActive(ctx, chatSessionId)
		return nil, err
	}

	linked, err := uow.ChatSessionRepository().SetVoiceLink(ctx, chatSessionId, voice.Id)
	if err != nil {
		s.revertToActive(ctx, chatSessionId)
		s.sessionService.Fail(ctx, voice.Id, "voice transition failed to persist link")
		return nil, err
	}
	if !linked {
		// Another transition won the race. Tear down the session we created.
		s.sessionService.Fail(ctx, voice.Id, "voice transition lost link race")
		return nil, ErrAlreadyBridged
	}

	chat.Status = constant.ChatStatusVoiceActive
	chat.LinkedVoiceSessionId = &voice.Id
	if err := uow.ChatSessionRepository().Update(ctx, chat); err != nil {
		return nil, err
	}

	if active, ok := s.registry.Get(chatSessionId); ok {
		active.Lock()
		active.Status = constant.ChatStatusVoiceActive
		active.Unlock()
	}

	if s.eventPublisher != nil {
		evt := events.VoiceTransition{
			ChatSessionID:  chatSessionId,
			VoiceSessionID: voice.Id,
			UserID:         userId,
			OccurredAt:     time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("bridge", "failed to publish voice transition event", map[string]interface{}{
				"chat_session_id": chatSessionId.String(), "error": err.Error(),
			})
		}
	}

	s.logger.Info("bridge", "chat session bridged to voice", map[string]interface{}{
		"chat_session_id":  chatSessionId.String(),
		"voice_session_id": voice.Id.String(),
	})

	return &dto.VoiceTransitionPayload{
		VoiceSessionId: voice.Id,
		Endpoint:       voice.Endpoint,
	}, nil
}

// revertToActive puts a chat session back into active after a failed bridge
// attempt. voice_transition is a holding state; a session must never be
// stranded there when no voice session is coming.
func (s *bridgeService) revertToActive(ctx context.Context, chatSessionId uuid.UUID) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	chat, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: chatSessionId})
	if err != nil || chat == nil || chat.Status != constant.ChatStatusVoiceTransition {
		return
	}
	chat.Status = constant.ChatStatusActive
	if err := uow.ChatSessionRepository().Update(ctx, chat); err != nil {
		s.logger.Error("bridge", "failed to revert chat session after bridge failure", map[string]interface{}{
			"chat_session_id": chatSessionId.String(), "error": err.Error(),
		})
	}
}
