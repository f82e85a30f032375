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
	"nia-sales-be/internal/pkg/mailer"
	"nia-sales-be/internal/repository/memory"
	"nia-sales-be/internal/repository/specification"
	"nia-sales-be/internal/repository/unitofwork"
	"nia-sales-be/pkg/audiostore"
	"nia-sales-be/pkg/events"
	pktNats "nia-sales-be/pkg/nats"
	"nia-sales-be/pkg/summary"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionEnded    = errors.New("session already ended")
)

type ISessionService interface {
	Initiate(ctx context.Context, userId uuid.UUID, req *dto.InitiateSessionRequest) (*dto.InitiateSessionResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.SessionResponse, error)
	ListTurns(ctx context.Context, userId uuid.UUID, id uuid.UUID) ([]*dto.TurnResponse, error)
	End(ctx context.Context, id uuid.UUID) (*dto.EndSessionResponse, error)
	Fail(ctx context.Context, id uuid.UUID, reason string)
	// Authorize resolves whether userId owns the session. Foreign sessions
	// are reported as not found, never as a distinct error.
	Authorize(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*memory.ActiveSession, error)
}

type sessionService struct {
	uowFactory     unitofwork.RepositoryFactory
	registry       *memory.SessionRegistry
	buffers        *audio.BufferManager
	contexts       *convo.Manager
	summaryGen     *summary.Generator
	audioStore     audiostore.Store
	eventPublisher *pktNats.Publisher
	emailService   mailer.IEmailService
	logger         logger.ILogger

	// summaryCache backs the idempotent end contract: a second end call
	// returns the identical summary without rerunning the generator.
	summaryCache *cache.Cache
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	registry *memory.SessionRegistry,
	buffers *audio.BufferManager,
	contexts *convo.Manager,
	summaryGen *summary.Generator,
	audioStore audiostore.Store,
	eventPublisher *pktNats.Publisher,
	emailService mailer.IEmailService,
	log logger.ILogger,
) ISessionService {
	return &sessionService{
		uowFactory:     uowFactory,
		registry:       registry,
		buffers:        buffers,
		contexts:       contexts,
		summaryGen:     summaryGen,
		audioStore:     audioStore,
		eventPublisher: eventPublisher,
		emailService:   emailService,
		logger:         log,
		summaryCache:   cache.New(24*time.Hour, 1*time.Hour),
	}
}

func (s *sessionService) Initiate(ctx context.Context, userId uuid.UUID, req *dto.InitiateSessionRequest) (*dto.InitiateSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	now := time.Now()
	id := uuid.New()
	var endpoint string

	switch req.Kind {
	case constant.SessionKindVoice:
		session := &entity.VoiceSession{
			Id:        id,
			UserId:    userId,
			Status:    constant.VoiceStatusActive,
			StartedAt: now,
			Metadata:  req.Metadata,
		}
		if req.CallerId != "" {
			callerId := req.CallerId
			session.CallerId = &callerId
		}
		if err := uow.VoiceSessionRepository().Create(ctx, session); err != nil {
			return nil, err
		}
		endpoint = fmt.Sprintf("/ws/voice/%s", id)
	case constant.SessionKindChat:
		session := &entity.ChatSession{
			Id:        id,
			UserId:    userId,
			Status:    constant.ChatStatusActive,
			StartedAt: now,
			Metadata:  req.Metadata,
		}
		if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
			return nil, err
		}
		endpoint = fmt.Sprintf("/ws/chat/%s", id)
	default:
		return nil, fmt.Errorf("unknown session kind %q", req.Kind)
	}

	s.contexts.Initialize(id, userId)
	status := constant.VoiceStatusActive
	if req.Kind == constant.SessionKindChat {
		status = constant.ChatStatusActive
	}
	s.registry.Register(id, userId, req.Kind, status)

	s.logger.Info("session", "session initiated", map[string]interface{}{
		"session_id": id.String(),
		"user_id":    userId.String(),
		"kind":       req.Kind,
	})

	return &dto.InitiateSessionResponse{
		Id:        id,
		Kind:      req.Kind,
		Status:    status,
		StartedAt: now,
		Endpoint:  endpoint,
	}, nil
}

func (s *sessionService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	voice, err := uow.VoiceSessionRepository().FindOne(ctx,
		specification.ByID{ID: id}, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}
	if voice != nil {
		resp := &dto.SessionResponse{
			Id:        voice.Id,
			Kind:      constant.SessionKindVoice,
			Status:    voice.Status,
			StartedAt: voice.StartedAt,
			EndedAt:   voice.EndedAt,
			Context:   voice.ContextSnapshot,
			Summary:   voice.Summary,
		}
		if voice.CallerId != nil {
			resp.CallerId = *voice.CallerId
		}
		if voice.DurationSeconds != nil {
			resp.DurationSeconds = int(*voice.DurationSeconds)
		}
		return resp, nil
	}

	chat, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: id}, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, ErrSessionNotFound
	}
	resp := &dto.SessionResponse{
		Id:        chat.Id,
		Kind:      constant.SessionKindChat,
		Status:    chat.Status,
		StartedAt: chat.StartedAt,
		EndedAt:   chat.EndedAt,
		Context:   chat.ContextSnapshot,
		Summary:   chat.Summary,
	}
	if chat.EndedAt != nil {
		resp.DurationSeconds = int(chat.EndedAt.Sub(chat.StartedAt).Seconds())
	}
	return resp, nil
}

func (s *sessionService) ListTurns(ctx context.Context, userId uuid.UUID, id uuid.UUID) ([]*dto.TurnResponse, error) {
	kind, ownerId, _, _, err := s.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	if ownerId != userId {
		return nil, ErrSessionNotFound
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	responses := []*dto.TurnResponse{}

	if kind == constant.SessionKindVoice {
		turns, err := uow.ConversationTurnRepository().FindAll(ctx,
			specification.BySessionID{SessionID: id},
			specification.OrderBy{Field: "turn_number"})
		if err != nil {
			return nil, err
		}
		for _, t := range turns {
			resp := &dto.TurnResponse{
				Id:         t.Id,
				TurnNumber: t.TurnNumber,
				Speaker:    t.Speaker,
				Content:    t.Content,
				Entities:   t.Entities,
				Intent:     t.Intent,
				Confidence: t.Confidence,
				CreatedAt:  t.CreatedAt,
			}
			if t.AudioURI != nil {
				resp.AudioURI = *t.AudioURI
			}
			responses = append(responses, resp)
		}
		return responses, nil
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.BySessionID{SessionID: id},
		specification.OrderBy{Field: "message_number"})
	if err != nil {
		return nil, err
	}
	for _, m := range messages {
		resp := &dto.TurnResponse{
			Id:         m.Id,
			TurnNumber: m.MessageNumber,
			Speaker:    m.Sender,
			Content:    m.Content,
			Entities:   m.Entities,
			Intent:     m.Intent,
			CreatedAt:  m.CreatedAt,
		}
		if m.AttachmentURI != nil {
			resp.AudioURI = *m.AttachmentURI
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// End finalizes a session and returns its summary. Calling it again returns
// the identical cached summary instead of erroring.
func (s *sessionService) End(ctx context.Context, id uuid.UUID) (*dto.EndSessionResponse, error) {
	if cached, found := s.summaryCache.Get(id.String()); found {
		return cached.(*dto.EndSessionResponse), nil
	}

	kind, userId, startedAt, _, err := s.resolve(ctx, id)
	if err != nil {
		return nil, err
	}

	// A session that was already finalized (cache evicted since) keeps its
	// stored summary rather than regenerating one.
	if resp, err := s.storedEndResponse(ctx, kind, id); err != nil {
		return nil, err
	} else if resp != nil {
		s.summaryCache.Set(id.String(), resp, cache.DefaultExpiration)
		return resp, nil
	}

	// Cancel in-flight pipeline work before generating the summary so late
	// collaborator results cannot race the final snapshot.
	if active, ok := s.registry.Get(id); ok {
		active.Cancel()
	}

	turns, err := s.collectTranscript(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	callSummary, err := s.summaryGen.Generate(ctx, turns)
	if err != nil {
		// The generator degrades internally; an error here means something
		// unexpected, but end must still complete.
		s.logger.Error("session", "summary generation failed", map[string]interface{}{
			"session_id": id.String(), "error": err.Error(),
		})
		callSummary = &summary.CallSummary{Summary: "Summary unavailable.", Fallback: true, GeneratedAt: time.Now()}
	}
	summaryMap := callSummary.ToMap()

	now := time.Now()
	duration := now.Sub(startedAt).Seconds()
	var contextSnapshot map[string]interface{}
	if c := s.contexts.Get(id); c != nil {
		contextSnapshot = c.ToMap()
	}

	if err := s.finalize(ctx, kind, id, now, duration, summaryMap, contextSnapshot); err != nil {
		return nil, err
	}

	s.releaseResources(id)

	resp := &dto.EndSessionResponse{
		Id:              id,
		Status:          s.endedStatus(kind),
		DurationSeconds: int(duration),
		Summary:         summaryMap,
	}
	s.summaryCache.Set(id.String(), resp, cache.DefaultExpiration)

	if s.eventPublisher != nil {
		evt := events.SessionEnded{
			SessionID:       id,
			UserID:          userId,
			Status:          resp.Status,
			DurationSeconds: duration,
			Summary:         summaryMap,
			OccurredAt:      now,
		}
		if err := s.eventPublisher.Publish(context.Background(), evt); err != nil {
			s.logger.Warn("session", "failed to publish session ended event", map[string]interface{}{
				"session_id": id.String(), "error": err.Error(),
			})
		}
	}

	s.sendSummaryEmail(userId, id, callSummary)

	s.logger.Info("session", "session ended", map[string]interface{}{
		"session_id":       id.String(),
		"duration_seconds": duration,
		"fallback_summary": callSummary.Fallback,
	})
	return resp, nil
}

// Fail marks one session failed and tears it down without touching any other
// session.
func (s *sessionService) Fail(ctx context.Context, id uuid.UUID, reason string) {
	kind, _, _, _, err := s.resolve(ctx, id)
	if err != nil {
		s.releaseResources(id)
		return
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()

	switch kind {
	case constant.SessionKindVoice:
		session, findErr := uow.VoiceSessionRepository().FindOne(ctx, specification.ByID{ID: id})
		if findErr == nil && session != nil && constant.IsVoiceTransitionAllowed(session.Status, constant.VoiceStatusFailed) {
			session.Status = constant.VoiceStatusFailed
			session.EndedAt = &now
			duration := now.Sub(session.StartedAt).Seconds()
			session.DurationSeconds = &duration
			if updateErr := uow.VoiceSessionRepository().Update(ctx, session); updateErr != nil {
				s.logger.Error("session", "failed to persist failed status", map[string]interface{}{
					"session_id": id.String(), "error": updateErr.Error(),
				})
			}
		}
	case constant.SessionKindChat:
		session, findErr := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: id})
		if findErr == nil && session != nil && constant.IsChatTransitionAllowed(session.Status, constant.ChatStatusEnded) {
			session.Status = constant.ChatStatusEnded
			session.EndedAt = &now
			if updateErr := uow.ChatSessionRepository().Update(ctx, session); updateErr != nil {
				s.logger.Error("session", "failed to persist failed status", map[string]interface{}{
					"session_id": id.String(), "error": updateErr.Error(),
				})
			}
		}
	}

	s.releaseResources(id)
	if s.audioStore != nil {
		// Failed sessions leave no audio artifacts behind.
		if delErr := s.audioStore.DeleteAll(context.Background(), id); delErr != nil {
			s.logger.Warn("session", "failed to delete session audio", map[string]interface{}{
				"session_id": id.String(), "error": delErr.Error(),
			})
		}
	}
	s.logger.Error("session", "session failed", map[string]interface{}{
		"session_id": id.String(),
		"reason":     reason,
	})
}

func (s *sessionService) Authorize(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*memory.ActiveSession, error) {
	if active, ok := s.registry.Get(id); ok {
		if active.UserId != userId {
			return nil, ErrSessionNotFound
		}
		return active, nil
	}

	kind, ownerId, _, status, err := s.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	if ownerId != userId {
		return nil, ErrSessionNotFound
	}
	if isTerminalStatus(kind, status) {
		return nil, ErrSessionEnded
	}
	// Session exists but is not live in this process (restart). Resume it
	// with its persisted status and fast-forward the sequence counters past
	// the rows already written, or the unique indexes reject the next turn.
	active := s.registry.Register(id, ownerId, kind, status)
	if err := s.seedSequences(ctx, kind, id, active); err != nil {
		s.logger.Error("session", "failed to seed sequence counters on resume", map[string]interface{}{
			"session_id": id.String(), "error": err.Error(),
		})
		s.registry.Release(id)
		return nil, err
	}
	return active, nil
}

// seedSequences reads the highest persisted sequence numbers for a resumed
// session and pushes the in-memory counters past them.
func (s *sessionService) seedSequences(ctx context.Context, kind string, id uuid.UUID, active *memory.ActiveSession) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if kind == constant.SessionKindVoice {
		var lastChunk, lastTurn int
		chunk, err := uow.AudioChunkRepository().FindOne(ctx,
			specification.BySessionID{SessionID: id},
			specification.OrderBy{Field: "chunk_number", Desc: true})
		if err != nil {
			return err
		}
		if chunk != nil {
			lastChunk = chunk.ChunkNumber
		}
		turn, err := uow.ConversationTurnRepository().FindOne(ctx,
			specification.BySessionID{SessionID: id},
			specification.OrderBy{Field: "turn_number", Desc: true})
		if err != nil {
			return err
		}
		if turn != nil {
			lastTurn = turn.TurnNumber
		}
		active.SeedSequences(lastChunk, lastTurn, 0)
		return nil
	}

	message, err := uow.ChatMessageRepository().FindOne(ctx,
		specification.BySessionID{SessionID: id},
		specification.OrderBy{Field: "message_number", Desc: true})
	if err != nil {
		return err
	}
	if message != nil {
		active.SeedSequences(0, 0, message.MessageNumber)
	}
	return nil
}

func isTerminalStatus(kind, status string) bool {
	if kind == constant.SessionKindVoice {
		return status == constant.VoiceStatusEnded || status == constant.VoiceStatusFailed
	}
	return status == constant.ChatStatusEnded
}

// resolve finds which table a session id lives in and returns its kind,
// owner, start time, and current status.
func (s *sessionService) resolve(ctx context.Context, id uuid.UUID) (string, uuid.UUID, time.Time, string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	voice, err := uow.VoiceSessionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return "", uuid.Nil, time.Time{}, "", err
	}
	if voice != nil {
		return constant.SessionKindVoice, voice.UserId, voice.StartedAt, voice.Status, nil
	}

	chat, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return "", uuid.Nil, time.Time{}, "", err
	}
	if chat != nil {
		return constant.SessionKindChat, chat.UserId, chat.StartedAt, chat.Status, nil
	}
	return "", uuid.Nil, time.Time{}, "", ErrSessionNotFound
}

// storedEndResponse returns the persisted end result when the session already
// reached a terminal state, nil when it is still live.
func (s *sessionService) storedEndResponse(ctx context.Context, kind string, id uuid.UUID) (*dto.EndSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if kind == constant.SessionKindVoice {
		session, err := uow.VoiceSessionRepository().FindOne(ctx, specification.ByID{ID: id})
		if err != nil {
			return nil, err
		}
		if session == nil || session.EndedAt == nil {
			return nil, nil
		}
		duration := 0
		if session.DurationSeconds != nil {
			duration = int(*session.DurationSeconds)
		}
		return &dto.EndSessionResponse{
			Id:              id,
			Status:          session.Status,
			DurationSeconds: duration,
			Summary:         session.Summary,
		}, nil
	}

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if session == nil || session.EndedAt == nil {
		return nil, nil
	}
	return &dto.EndSessionResponse{
		Id:              id,
		Status:          session.Status,
		DurationSeconds: int(session.EndedAt.Sub(session.StartedAt).Seconds()),
		Summary:         session.Summary,
	}, nil
}

func (s *sessionService) collectTranscript(ctx context.Context, kind string, id uuid.UUID) ([]summary.TranscriptTurn, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	var out []summary.TranscriptTurn

	if kind == constant.SessionKindVoice {
		turns, err := uow.ConversationTurnRepository().FindAll(ctx,
			specification.BySessionID{SessionID: id},
			specification.OrderBy{Field: "turn_number"})
		if err != nil {
			return nil, err
		}
		for _, t := range turns {
			out = append(out, summary.TranscriptTurn{Speaker: t.Speaker, Content: t.Content})
		}
		return out, nil
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.BySessionID{SessionID: id},
		specification.OrderBy{Field: "message_number"})
	if err != nil {
		return nil, err
	}
	for _, m := range messages {
		out = append(out, summary.TranscriptTurn{Speaker: m.Sender, Content: m.Content})
	}
	return out, nil
}

func (s *sessionService) finalize(ctx context.Context, kind string, id uuid.UUID, endedAt time.Time, duration float64, summaryMap map[string]interface{}, contextSnapshot map[string]interface{}) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if kind == constant.SessionKindVoice {
		session, err := uow.VoiceSessionRepository().FindOne(ctx, specification.ByID{ID: id})
		if err != nil {
			return err
		}
		if session == nil {
			return ErrSessionNotFound
		}
		if constant.IsVoiceTransitionAllowed(session.Status, constant.VoiceStatusEnded) {
			session.Status = constant.VoiceStatusEnded
		}
		session.EndedAt = &endedAt
		session.DurationSeconds = &duration
		session.Summary = summaryMap
		if contextSnapshot != nil {
			session.ContextSnapshot = contextSnapshot
		}
		return uow.VoiceSessionRepository().Update(ctx, session)
	}

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if session == nil {
		return ErrSessionNotFound
	}
	if constant.IsChatTransitionAllowed(session.Status, constant.ChatStatusEnded) {
		session.Status = constant.ChatStatusEnded
	}
	session.EndedAt = &endedAt
	session.Summary = summaryMap
	if contextSnapshot != nil {
		session.ContextSnapshot = contextSnapshot
	}
	return uow.ChatSessionRepository().Update(ctx, session)
}

// releaseResources drops every in-memory resource tied to a session. Safe to
// call repeatedly.
func (s *sessionService) releaseResources(id uuid.UUID) {
	s.registry.Release(id)
	s.buffers.Release(id)
	s.contexts.Clear(id)
}

func (s *sessionService) endedStatus(kind string) string {
	if kind == constant.SessionKindVoice {
		return constant.VoiceStatusEnded
	}
	return constant.ChatStatusEnded
}

func (s *sessionService) sendSummaryEmail(userId uuid.UUID, id uuid.UUID, callSummary *summary.CallSummary) {
	if s.emailService == nil {
		return
	}
	go func() {
		uow := s.uowFactory.NewUnitOfWork(context.Background())
		user, err := uow.UserRepository().FindById(context.Background(), userId)
		if err != nil || user == nil || user.Email == "" {
			return
		}
		if err := s.emailService.SendSessionSummary(user.Email, id.String(), callSummary.Summary, callSummary.KeyPoints, callSummary.ActionItems); err != nil {
			s.logger.Warn("session", "failed to send summary email", map[string]interface{}{
				"session_id": id.String(), "error": err.Error(),
			})
		}
	}()
}
