package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"nia-sales-be/internal/constant"
	"nia-sales-be/internal/entity"
	"nia-sales-be/internal/repository/specification"
	"nia-sales-be/internal/repository/unitofwork"
	"nia-sales-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.VoiceSessionRepository())
	assert.NotNil(t, uow.ChatSessionRepository())

	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)

	t.Run("Check Voice Session Repository", func(t *testing.T) {
		count, err := uow.VoiceSessionRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Voice session count: %d", count)
	})

	t.Run("Check Conversation Turn Repository", func(t *testing.T) {
		count, err := uow.ConversationTurnRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Conversation turn count: %d", count)
	})

	t.Run("Chat Session Voice Link Is Write Once", func(t *testing.T) {
		ctx := context.Background()
		userId := uuid.New()
		chat := &entity.ChatSession{
			Id:        uuid.New(),
			UserId:    userId,
			Status:    constant.ChatStatusActive,
			StartedAt: time.Now(),
		}
		require.NoError(t, uow.ChatSessionRepository().Create(ctx, chat))
		defer func() {
			assert.NoError(t, uow.ChatSessionRepository().Delete(ctx, chat.Id))
		}()

		firstVoice := uuid.New()
		linked, err := uow.ChatSessionRepository().SetVoiceLink(ctx, chat.Id, firstVoice)
		require.NoError(t, err)
		assert.True(t, linked)

		linked, err = uow.ChatSessionRepository().SetVoiceLink(ctx, chat.Id, uuid.New())
		require.NoError(t, err)
		assert.False(t, linked)

		found, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: chat.Id})
		require.NoError(t, err)
		require.NotNil(t, found)
		require.NotNil(t, found.LinkedVoiceSessionId)
		assert.Equal(t, firstVoice, *found.LinkedVoiceSessionId)
	})
}
