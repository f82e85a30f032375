package dto

import "github.com/google/uuid"

// MessageDeliveredPayload travels over the in-process delivery topic. The
// consumer flips the message's delivery status once the broadcast went out.
type MessageDeliveredPayload struct {
	SessionId uuid.UUID `json:"session_id"`
	MessageId uuid.UUID `json:"message_id"`
}
