package service

import (
	"context"
	"fmt"

	"nia-sales-be/internal/pkg/logger"
	"nia-sales-be/internal/repository/memory"
	"nia-sales-be/pkg/events"

	"github.com/google/uuid"
)

type ICrmEventService interface {
	// HandleUserDeactivated ends every live session owned by the deactivated
	// user. Returning an error makes the bus redeliver; end is idempotent so
	// redelivery is safe.
	HandleUserDeactivated(ctx context.Context, event events.Event) error
}

// crmEventService reacts to events published by the CRM side of the platform.
type crmEventService struct {
	registry *memory.SessionRegistry
	sessions ISessionService
	logger   logger.ILogger
}

func NewCrmEventService(
	registry *memory.SessionRegistry,
	sessions ISessionService,
	log logger.ILogger,
) ICrmEventService {
	return &crmEventService{
		registry: registry,
		sessions: sessions,
		logger:   log,
	}
}

func (s *crmEventService) HandleUserDeactivated(ctx context.Context, event events.Event) error {
	raw, _ := event.Payload()["user_id"].(string)
	userId, err := uuid.Parse(raw)
	if err != nil {
		// Malformed payloads can never succeed; drop instead of redelivering.
		s.logger.Warn("crm_events", "user deactivated event without a valid user_id", map[string]interface{}{
			"payload": event.Payload(),
		})
		return nil
	}

	var failed int
	for _, active := range s.registry.SessionsForUser(userId) {
		if _, endErr := s.sessions.End(ctx, active.Id); endErr != nil {
			failed++
			s.logger.Error("crm_events", "failed to end session for deactivated user", map[string]interface{}{
				"session_id": active.Id.String(),
				"user_id":    userId.String(),
				"error":      endErr.Error(),
			})
		}
	}
	if failed > 0 {
		return fmt.Errorf("failed to end %d sessions for deactivated user %s", failed, userId)
	}

	s.logger.Info("crm_events", "ended live sessions for deactivated user", map[string]interface{}{
		"user_id": userId.String(),
	})
	return nil
}
