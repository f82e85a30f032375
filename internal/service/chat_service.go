package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"nia-sales-be/internal/constant"
	"nia-sales-be/internal/convo"
	"nia-sales-be/internal/dto"
	"nia-sales-be/internal/entity"
	"nia-sales-be/internal/pkg/logger"
	"nia-sales-be/internal/repository/memory"
	"nia-sales-be/internal/repository/specification"
	"nia-sales-be/internal/repository/unitofwork"
	"nia-sales-be/pkg/extraction"
	"nia-sales-be/pkg/summary"

	"github.com/google/uuid"
)

type IChatService interface {
	// SendMessage persists a chat message with the next message number and
	// queues a delivery-status update.
	SendMessage(ctx context.Context, sessionId uuid.UUID, sender string, content string, attachmentURI string) (*dto.ChatMessagePayload, error)
	// MarkRead flips one message's delivery status to read.
	MarkRead(ctx context.Context, messageId uuid.UUID) error
	// HandleCommand runs a bot slash-command and returns the assistant reply.
	HandleCommand(ctx context.Context, sessionId uuid.UUID, command string) (*dto.ChatMessagePayload, error)
}

type chatService struct {
	uowFactory        unitofwork.RepositoryFactory
	registry          *memory.SessionRegistry
	contexts          *convo.Manager
	deliveryPublisher IDeliveryPublisherService
	summaryGen        *summary.Generator
	logger            logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	registry *memory.SessionRegistry,
	contexts *convo.Manager,
	deliveryPublisher IDeliveryPublisherService,
	summaryGen *summary.Generator,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:        uowFactory,
		registry:          registry,
		contexts:          contexts,
		deliveryPublisher: deliveryPublisher,
		summaryGen:        summaryGen,
		logger:            log,
	}
}

func (s *chatService) SendMessage(ctx context.Context, sessionId uuid.UUID, sender string, content string, attachmentURI string) (*dto.ChatMessagePayload, error) {
	active, ok := s.registry.Get(sessionId)
	if !ok {
		return nil, ErrSessionNotFound
	}
	if content == "" && attachmentURI == "" {
		return nil, fmt.Errorf("empty message")
	}

	entities := extraction.Extract(content)

	msg := &entity.ChatMessage{
		Id:             uuid.New(),
		SessionId:      sessionId,
		MessageNumber:  active.NextMessageNumber(),
		Sender:         sender,
		Content:        content,
		Entities:       entities.ToMap(),
		DeliveryStatus: constant.DeliverySent,
	}
	if attachmentURI != "" {
		msg.AttachmentURI = &attachmentURI
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatMessageRepository().Create(ctx, msg); err != nil {
		return nil, err
	}

	if sender == constant.SpeakerUser {
		s.contexts.Update(sessionId, convo.Update{
			ExtractedEntities: entities.ToMap(),
			FlowEntries:       []string{fmt.Sprintf("user: %s", content)},
			LastIntent:        constant.IntentUserSpeech,
		})
	}

	if s.deliveryPublisher != nil {
		payload, err := json.Marshal(dto.MessageDeliveredPayload{SessionId: sessionId, MessageId: msg.Id})
		if err == nil {
			if err := s.deliveryPublisher.Publish(ctx, payload); err != nil {
				s.logger.Warn("chat", "failed to queue delivery update", map[string]interface{}{
					"message_id": msg.Id.String(), "error": err.Error(),
				})
			}
		}
	}

	resp := &dto.ChatMessagePayload{
		Id:             msg.Id,
		MessageNumber:  msg.MessageNumber,
		Sender:         msg.Sender,
		Content:        msg.Content,
		DeliveryStatus: msg.DeliveryStatus,
	}
	if msg.AttachmentURI != nil {
		resp.FileURI = *msg.AttachmentURI
	}
	return resp, nil
}

func (s *chatService) MarkRead(ctx context.Context, messageId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ChatMessageRepository().UpdateDeliveryStatus(ctx, messageId, constant.DeliveryRead)
}

func (s *chatService) HandleCommand(ctx context.Context, sessionId uuid.UUID, command string) (*dto.ChatMessagePayload, error) {
	trimmed := strings.TrimSpace(command)
	name := strings.ToLower(strings.SplitN(strings.TrimPrefix(trimmed, "/"), " ", 2)[0])

	var reply string
	switch name {
	case "help":
		reply = "Available commands: /help, /status, /entities, /summary, /voice."
	case "status":
		if c := s.contexts.Get(sessionId); c != nil {
			reply = fmt.Sprintf("Conversation state: %s. %d turns recorded.", c.ConversationState, len(c.ConversationFlow))
		} else {
			reply = "No live conversation state for this session."
		}
	case "entities":
		reply = s.describeEntities(sessionId)
	case "summary":
		reply = s.summarizeSoFar(ctx, sessionId)
	default:
		reply = fmt.Sprintf("Unknown command %q. Try /help.", trimmed)
	}

	return s.SendMessage(ctx, sessionId, constant.SpeakerAssistant, reply, "")
}

// summarizeSoFar runs the summary generator over the messages sent so far,
// without ending the session.
func (s *chatService) summarizeSoFar(ctx context.Context, sessionId uuid.UUID) string {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "message_number"})
	if err != nil {
		s.logger.Warn("chat", "failed to load messages for summary", map[string]interface{}{
			"session_id": sessionId.String(), "error": err.Error(),
		})
		return "Summary unavailable right now."
	}
	if len(messages) == 0 {
		return "Nothing to summarize yet."
	}

	turns := make([]summary.TranscriptTurn, 0, len(messages))
	for _, m := range messages {
		turns = append(turns, summary.TranscriptTurn{Speaker: m.Sender, Content: m.Content})
	}
	callSummary, err := s.summaryGen.Generate(ctx, turns)
	if err != nil || callSummary == nil {
		return "Summary unavailable right now."
	}
	reply := callSummary.Summary
	if len(callSummary.KeyPoints) > 0 {
		reply += " Key points: " + strings.Join(callSummary.KeyPoints, "; ") + "."
	}
	return reply
}

func (s *chatService) describeEntities(sessionId uuid.UUID) string {
	c := s.contexts.Get(sessionId)
	if c == nil || len(c.ExtractedEntities) == 0 {
		return "No entities extracted yet."
	}
	var parts []string
	for _, entityType := range []string{"companies", "emails", "phones", "monetary_amounts", "dates"} {
		if values := c.ExtractedEntities[entityType]; len(values) > 0 {
			parts = append(parts, fmt.Sprintf("%s: %s", entityType, strings.Join(values, ", ")))
		}
	}
	if len(parts) == 0 {
		return "No entities extracted yet."
	}
	return "Extracted so far. " + strings.Join(parts, "; ")
}
