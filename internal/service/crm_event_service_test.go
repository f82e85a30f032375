package service

import (
	"context"
	"testing"
	"time"

	"nia-sales-be/internal/constant"
	"nia-sales-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserDeactivated_EndsOnlyThatUsersSessions(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCrmEventService(env.registry, env.sessions, noopLogger{})

	deactivated := uuid.New()
	bystander := uuid.New()
	voice := env.startSession(t, deactivated, constant.SessionKindVoice)
	chat := env.startSession(t, deactivated, constant.SessionKindChat)
	other := env.startSession(t, bystander, constant.SessionKindVoice)

	evt := events.BaseEvent{
		Type:       events.TypeUserDeactivated,
		Data:       map[string]interface{}{"user_id": deactivated.String()},
		OccurredAt: time.Now(),
	}
	require.NoError(t, svc.HandleUserDeactivated(context.Background(), evt))

	shown, err := env.sessions.Show(context.Background(), deactivated, voice.Id)
	require.NoError(t, err)
	assert.Equal(t, constant.VoiceStatusEnded, shown.Status)

	shown, err = env.sessions.Show(context.Background(), deactivated, chat.Id)
	require.NoError(t, err)
	assert.Equal(t, constant.ChatStatusEnded, shown.Status)

	shown, err = env.sessions.Show(context.Background(), bystander, other.Id)
	require.NoError(t, err)
	assert.Equal(t, constant.VoiceStatusActive, shown.Status)
	assert.Equal(t, 1, env.registry.Count())
}

func TestUserDeactivated_MalformedPayloadIsDropped(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCrmEventService(env.registry, env.sessions, noopLogger{})
	sess := env.startSession(t, uuid.New(), constant.SessionKindVoice)

	evt := events.BaseEvent{
		Type:       events.TypeUserDeactivated,
		Data:       map[string]interface{}{"user_id": "not-a-uuid"},
		OccurredAt: time.Now(),
	}
	require.NoError(t, svc.HandleUserDeactivated(context.Background(), evt))

	_, ok := env.registry.Get(sess.Id)
	assert.True(t, ok)
}
