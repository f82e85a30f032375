package convo

import (
	"sync"

	"github.com/google/uuid"
)

// Summary is the rolling summary section of a session context.
type Summary struct {
	KeyPoints   []string               `json:"key_points"`
	ActionItems []string               `json:"action_items"`
	LeadDetails map[string]interface{} `json:"lead_details"`
	NextSteps   []string               `json:"next_steps"`
}

// Context is the accumulated scratchpad for one in-progress session. Fields
// have fixed merge rules: lists union or append, maps shallow-merge, scalars
// overwrite.
type Context struct {
	SessionId         uuid.UUID              `json:"session_id"`
	UserId            uuid.UUID              `json:"user_id"`
	ConversationState string                 `json:"conversation_state"`
	ExtractedEntities map[string][]string    `json:"extracted_entities"`
	LeadInformation   map[string]interface{} `json:"lead_information"`
	ConversationFlow  []string               `json:"conversation_flow"`
	LastIntent        string                 `json:"last_intent"`
	Summary           Summary                `json:"conversation_summary"`
	Extra             map[string]interface{} `json:"extra"`
}

// Update is a partial context change. Nil or empty fields leave the stored
// value untouched.
type Update struct {
	ConversationState string
	ExtractedEntities map[string][]string
	LeadInformation   map[string]interface{}
	FlowEntries       []string
	LastIntent        string
	KeyPoints         []string
	ActionItems       []string
	LeadDetails       map[string]interface{}
	NextSteps         []string
	Extra             map[string]interface{}
}

type sessionContext struct {
	mu  sync.Mutex
	ctx *Context
}

// Manager holds the live context of every session, locked per session id.
type Manager struct {
	mu       sync.RWMutex
	contexts map[uuid.UUID]*sessionContext
}

func NewManager() *Manager {
	return &Manager{
		contexts: make(map[uuid.UUID]*sessionContext),
	}
}

// Initialize creates the fixed initial context shape for a session. Calling
// it again for the same id keeps the existing context.
func (m *Manager) Initialize(sessionId uuid.UUID, userId uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.contexts[sessionId]; ok {
		return
	}
	m.contexts[sessionId] = &sessionContext{
		ctx: &Context{
			SessionId:         sessionId,
			UserId:            userId,
			ConversationState: "greeting",
			ExtractedEntities: make(map[string][]string),
			LeadInformation:   make(map[string]interface{}),
			ConversationFlow:  []string{},
			Summary: Summary{
				KeyPoints:   []string{},
				ActionItems: []string{},
				LeadDetails: make(map[string]interface{}),
				NextSteps:   []string{},
			},
			Extra: make(map[string]interface{}),
		},
	}
}

// Update merges a partial change into the session's context. Entity lists are
// unioned, lead maps shallow-merged, flow entries appended, scalars
// overwritten. Unknown session ids are ignored.
func (m *Manager) Update(sessionId uuid.UUID, update Update) {
	m.mu.RLock()
	sc, ok := m.contexts[sessionId]
	m.mu.RUnlock()
	if !ok {
		return
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	c := sc.ctx

	if update.ConversationState != "" {
		c.ConversationState = update.ConversationState
	}
	if update.LastIntent != "" {
		c.LastIntent = update.LastIntent
	}
	for entityType, values := range update.ExtractedEntities {
		c.ExtractedEntities[entityType] = unionStrings(c.ExtractedEntities[entityType], values)
	}
	for k, v := range update.LeadInformation {
		c.LeadInformation[k] = v
	}
	c.ConversationFlow = append(c.ConversationFlow, update.FlowEntries...)
	c.Summary.KeyPoints = unionStrings(c.Summary.KeyPoints, update.KeyPoints)
	c.Summary.ActionItems = unionStrings(c.Summary.ActionItems, update.ActionItems)
	c.Summary.NextSteps = unionStrings(c.Summary.NextSteps, update.NextSteps)
	for k, v := range update.LeadDetails {
		c.Summary.LeadDetails[k] = v
	}
	for k, v := range update.Extra {
		c.Extra[k] = v
	}
}

// Get returns a deep copy of the session's context, or nil when the session
// is unknown or already cleared.
func (m *Manager) Get(sessionId uuid.UUID) *Context {
	m.mu.RLock()
	sc, ok := m.contexts[sessionId]
	m.mu.RUnlock()
	if !ok {
		return nil
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.ctx.clone()
}

// Clear drops the session's context. Clearing twice is a no-op.
func (m *Manager) Clear(sessionId uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.contexts, sessionId)
}

func (c *Context) clone() *Context {
	out := &Context{
		SessionId:         c.SessionId,
		UserId:            c.UserId,
		ConversationState: c.ConversationState,
		ExtractedEntities: make(map[string][]string, len(c.ExtractedEntities)),
		LeadInformation:   make(map[string]interface{}, len(c.LeadInformation)),
		ConversationFlow:  append([]string{}, c.ConversationFlow...),
		LastIntent:        c.LastIntent,
		Summary: Summary{
			KeyPoints:   append([]string{}, c.Summary.KeyPoints...),
			ActionItems: append([]string{}, c.Summary.ActionItems...),
			LeadDetails: make(map[string]interface{}, len(c.Summary.LeadDetails)),
			NextSteps:   append([]string{}, c.Summary.NextSteps...),
		},
		Extra: make(map[string]interface{}, len(c.Extra)),
	}
	for k, v := range c.ExtractedEntities {
		out.ExtractedEntities[k] = append([]string{}, v...)
	}
	for k, v := range c.LeadInformation {
		out.LeadInformation[k] = v
	}
	for k, v := range c.Summary.LeadDetails {
		out.Summary.LeadDetails[k] = v
	}
	for k, v := range c.Extra {
		out.Extra[k] = v
	}
	return out
}

// ToMap flattens the context into the shape stored on the session row.
func (c *Context) ToMap() map[string]interface{} {
	entities := make(map[string]interface{}, len(c.ExtractedEntities))
	for k, v := range c.ExtractedEntities {
		entities[k] = v
	}
	return map[string]interface{}{
		"conversation_state": c.ConversationState,
		"extracted_entities": entities,
		"lead_information":   c.LeadInformation,
		"conversation_flow":  c.ConversationFlow,
		"last_intent":        c.LastIntent,
		"conversation_summary": map[string]interface{}{
			"key_points":   c.Summary.KeyPoints,
			"action_items": c.Summary.ActionItems,
			"lead_details": c.Summary.LeadDetails,
			"next_steps":   c.Summary.NextSteps,
		},
		"extra": c.Extra,
	}
}

func unionStrings(existing []string, incoming []string) []string {
	if len(incoming) == 0 {
		return existing
	}
	seen := make(map[string]bool, len(existing))
	for _, v := range existing {
		seen[v] = true
	}
	for _, v := range incoming {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		existing = append(existing, v)
	}
	return existing
}
