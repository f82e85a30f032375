package convo

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_InitializeShape(t *testing.T) {
	m := NewManager()
	sessionId := uuid.New()
	userId := uuid.New()

	m.Initialize(sessionId, userId)

	c := m.Get(sessionId)
	require.NotNil(t, c)
	assert.Equal(t, sessionId, c.SessionId)
	assert.Equal(t, userId, c.UserId)
	assert.Equal(t, "greeting", c.ConversationState)
	assert.NotNil(t, c.ExtractedEntities)
	assert.NotNil(t, c.LeadInformation)
	assert.Empty(t, c.ConversationFlow)
	assert.NotNil(t, c.Summary.KeyPoints)
}

func TestManager_InitializeTwiceKeepsExisting(t *testing.T) {
	m := NewManager()
	sessionId := uuid.New()
	m.Initialize(sessionId, uuid.New())
	m.Update(sessionId, Update{ConversationState: "qualifying"})

	m.Initialize(sessionId, uuid.New())

	assert.Equal(t, "qualifying", m.Get(sessionId).ConversationState)
}

func TestManager_EntityUnionMerge(t *testing.T) {
	m := NewManager()
	sessionId := uuid.New()
	m.Initialize(sessionId, uuid.New())

	m.Update(sessionId, Update{ExtractedEntities: map[string][]string{
		"companies": {"Acme Corp"},
	}})
	m.Update(sessionId, Update{ExtractedEntities: map[string][]string{
		"companies": {"Acme Corp", "Globex Inc"},
		"emails":    {"lead@acme.com"},
	}})

	c := m.Get(sessionId)
	assert.Equal(t, []string{"Acme Corp", "Globex Inc"}, c.ExtractedEntities["companies"])
	assert.Equal(t, []string{"lead@acme.com"}, c.ExtractedEntities["emails"])
}

func TestManager_LeadInformationShallowMerge(t *testing.T) {
	m := NewManager()
	sessionId := uuid.New()
	m.Initialize(sessionId, uuid.New())

	m.Update(sessionId, Update{LeadInformation: map[string]interface{}{
		"company": "Acme Corp",
		"budget":  "50k",
	}})
	m.Update(sessionId, Update{LeadInformation: map[string]interface{}{
		"budget": "75k",
	}})

	c := m.Get(sessionId)
	assert.Equal(t, "Acme Corp", c.LeadInformation["company"])
	assert.Equal(t, "75k", c.LeadInformation["budget"])
}

func TestManager_FlowAppendAndScalarOverwrite(t *testing.T) {
	m := NewManager()
	sessionId := uuid.New()
	m.Initialize(sessionId, uuid.New())

	m.Update(sessionId, Update{FlowEntries: []string{"user: hello"}, LastIntent: "greeting"})
	m.Update(sessionId, Update{FlowEntries: []string{"assistant: hi"}, LastIntent: "assistant_response"})

	c := m.Get(sessionId)
	assert.Equal(t, []string{"user: hello", "assistant: hi"}, c.ConversationFlow)
	assert.Equal(t, "assistant_response", c.LastIntent)
}

func TestManager_ConcurrentEntityMergesAreOrderIndependent(t *testing.T) {
	m := NewManager()
	sessionId := uuid.New()
	m.Initialize(sessionId, uuid.New())

	const workers = 30
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			m.Update(sessionId, Update{ExtractedEntities: map[string][]string{
				"companies": {fmt.Sprintf("Company %02d", n)},
			}})
		}(i)
	}
	wg.Wait()

	c := m.Get(sessionId)
	require.Len(t, c.ExtractedEntities["companies"], workers)
	seen := make(map[string]bool)
	for _, v := range c.ExtractedEntities["companies"] {
		seen[v] = true
	}
	for i := 0; i < workers; i++ {
		assert.True(t, seen[fmt.Sprintf("Company %02d", i)])
	}
}

func TestManager_GetReturnsCopy(t *testing.T) {
	m := NewManager()
	sessionId := uuid.New()
	m.Initialize(sessionId, uuid.New())
	m.Update(sessionId, Update{ExtractedEntities: map[string][]string{"companies": {"Acme Corp"}}})

	c := m.Get(sessionId)
	c.ExtractedEntities["companies"][0] = "mutated"
	c.ConversationState = "mutated"

	fresh := m.Get(sessionId)
	assert.Equal(t, "Acme Corp", fresh.ExtractedEntities["companies"][0])
	assert.Equal(t, "greeting", fresh.ConversationState)
}

func TestManager_ClearIsIdempotent(t *testing.T) {
	m := NewManager()
	sessionId := uuid.New()
	m.Initialize(sessionId, uuid.New())

	m.Clear(sessionId)
	assert.Nil(t, m.Get(sessionId))

	m.Clear(sessionId) // second clear is a no-op

	// updates after clear are ignored
	m.Update(sessionId, Update{ConversationState: "qualifying"})
	assert.Nil(t, m.Get(sessionId))
}

func TestContext_ToMapShape(t *testing.T) {
	m := NewManager()
	sessionId := uuid.New()
	m.Initialize(sessionId, uuid.New())
	m.Update(sessionId, Update{
		ExtractedEntities: map[string][]string{"companies": {"Acme Corp"}},
		KeyPoints:         []string{"interested in enterprise plan"},
	})

	snapshot := m.Get(sessionId).ToMap()
	assert.Equal(t, "greeting", snapshot["conversation_state"])
	entities, ok := snapshot["extracted_entities"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []string{"Acme Corp"}, entities["companies"])
	summary, ok := snapshot["conversation_summary"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []string{"interested in enterprise plan"}, summary["key_points"])
}
