package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	Id             uuid.UUID
	SessionId      uuid.UUID
	MessageNumber  int
	Sender         string
	Content        string
	AttachmentURI  *string
	Entities       map[string][]string
	Intent         string
	DeliveryStatus string
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}
