package unitofwork

import (
	"context"

	"nia-sales-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	VoiceSessionRepository() contract.VoiceSessionRepository
	ChatSessionRepository() contract.ChatSessionRepository
	AudioChunkRepository() contract.AudioChunkRepository
	ConversationTurnRepository() contract.ConversationTurnRepository
	ChatMessageRepository() contract.ChatMessageRepository
	VoiceConfigurationRepository() contract.VoiceConfigurationRepository
}
