package service

import (
	"context"
	"sort"
	"sync"

	"nia-sales-be/internal/entity"
	"nia-sales-be/internal/repository/contract"
	"nia-sales-be/internal/repository/specification"
	"nia-sales-be/internal/repository/unitofwork"
	"nia-sales-be/pkg/speech"

	"github.com/google/uuid"
)

// ---- logger ----

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

// ---- in-memory unit of work ----

// memStore is shared by every unit of work a fakeFactory hands out, the same
// way real repositories share one database.
type memStore struct {
	mu            sync.Mutex
	voiceSessions map[uuid.UUID]*entity.VoiceSession
	// voiceCreateErr makes the next voice session insert fail once.
	voiceCreateErr error
	chatSessions  map[uuid.UUID]*entity.ChatSession
	chunks        []*entity.AudioChunk
	turns         []*entity.ConversationTurn
	messages      []*entity.ChatMessage
	users         map[uuid.UUID]*entity.User
	voiceConfigs  map[uuid.UUID]*entity.VoiceConfiguration
}

func newMemStore() *memStore {
	return &memStore{
		voiceSessions: make(map[uuid.UUID]*entity.VoiceSession),
		chatSessions:  make(map[uuid.UUID]*entity.ChatSession),
		users:         make(map[uuid.UUID]*entity.User),
		voiceConfigs:  make(map[uuid.UUID]*entity.VoiceConfiguration),
	}
}

type fakeFactory struct {
	store *memStore
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{store: newMemStore()}
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f.store}
}

type fakeUow struct {
	store *memStore
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository {
	return &fakeUserRepo{store: u.store}
}
func (u *fakeUow) VoiceSessionRepository() contract.VoiceSessionRepository {
	return &fakeVoiceSessionRepo{store: u.store}
}
func (u *fakeUow) ChatSessionRepository() contract.ChatSessionRepository {
	return &fakeChatSessionRepo{store: u.store}
}
func (u *fakeUow) AudioChunkRepository() contract.AudioChunkRepository {
	return &fakeChunkRepo{store: u.store}
}
func (u *fakeUow) ConversationTurnRepository() contract.ConversationTurnRepository {
	return &fakeTurnRepo{store: u.store}
}
func (u *fakeUow) ChatMessageRepository() contract.ChatMessageRepository {
	return &fakeMessageRepo{store: u.store}
}
func (u *fakeUow) VoiceConfigurationRepository() contract.VoiceConfigurationRepository {
	return &fakeVoiceConfigRepo{store: u.store}
}

// specFilter extracts the filters the services actually use.
type specFilter struct {
	id        *uuid.UUID
	userId    *uuid.UUID
	sessionId *uuid.UUID
	desc      bool
}

func parseSpecs(specs []specification.Specification) specFilter {
	var f specFilter
	for _, s := range specs {
		switch v := s.(type) {
		case specification.ByID:
			id := v.ID
			f.id = &id
		case specification.UserOwnedBy:
			uid := v.UserID
			f.userId = &uid
		case specification.BySessionID:
			sid := v.SessionID
			f.sessionId = &sid
		case specification.OrderBy:
			f.desc = v.Desc
		}
	}
	return f
}

// ---- voice sessions ----

type fakeVoiceSessionRepo struct{ store *memStore }

func (r *fakeVoiceSessionRepo) Create(ctx context.Context, s *entity.VoiceSession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.voiceCreateErr; err != nil {
		r.store.voiceCreateErr = nil
		return err
	}
	copied := *s
	r.store.voiceSessions[s.Id] = &copied
	return nil
}

func (r *fakeVoiceSessionRepo) Update(ctx context.Context, s *entity.VoiceSession) error {
	return r.Create(ctx, s)
}

func (r *fakeVoiceSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.voiceSessions, id)
	return nil
}

func (r *fakeVoiceSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.VoiceSession, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	f := parseSpecs(specs)
	for _, s := range r.store.voiceSessions {
		if f.id != nil && s.Id != *f.id {
			continue
		}
		if f.userId != nil && s.UserId != *f.userId {
			continue
		}
		copied := *s
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeVoiceSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.VoiceSession, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	f := parseSpecs(specs)
	var out []*entity.VoiceSession
	for _, s := range r.store.voiceSessions {
		if f.userId != nil && s.UserId != *f.userId {
			continue
		}
		copied := *s
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeVoiceSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

// ---- chat sessions ----

type fakeChatSessionRepo struct{ store *memStore }

func (r *fakeChatSessionRepo) Create(ctx context.Context, s *entity.ChatSession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *s
	r.store.chatSessions[s.Id] = &copied
	return nil
}

func (r *fakeChatSessionRepo) Update(ctx context.Context, s *entity.ChatSession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	existing, ok := r.store.chatSessions[s.Id]
	if ok && existing.LinkedVoiceSessionId != nil {
		// mirror the write-once column: the link never changes once set
		s.LinkedVoiceSessionId = existing.LinkedVoiceSessionId
	}
	copied := *s
	r.store.chatSessions[s.Id] = &copied
	return nil
}

func (r *fakeChatSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.chatSessions, id)
	return nil
}

func (r *fakeChatSessionRepo) SetVoiceLink(ctx context.Context, id uuid.UUID, voiceSessionId uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.chatSessions[id]
	if !ok || s.LinkedVoiceSessionId != nil {
		return false, nil
	}
	linked := voiceSessionId
	s.LinkedVoiceSessionId = &linked
	return true, nil
}

func (r *fakeChatSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	f := parseSpecs(specs)
	for _, s := range r.store.chatSessions {
		if f.id != nil && s.Id != *f.id {
			continue
		}
		if f.userId != nil && s.UserId != *f.userId {
			continue
		}
		copied := *s
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeChatSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	f := parseSpecs(specs)
	var out []*entity.ChatSession
	for _, s := range r.store.chatSessions {
		if f.userId != nil && s.UserId != *f.userId {
			continue
		}
		copied := *s
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeChatSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

// ---- audio chunks ----

type fakeChunkRepo struct{ store *memStore }

func (r *fakeChunkRepo) Create(ctx context.Context, c *entity.AudioChunk) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *c
	r.store.chunks = append(r.store.chunks, &copied)
	return nil
}

func (r *fakeChunkRepo) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var kept []*entity.AudioChunk
	for _, c := range r.store.chunks {
		if c.SessionId != sessionId {
			kept = append(kept, c)
		}
	}
	r.store.chunks = kept
	return nil
}

func (r *fakeChunkRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AudioChunk, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *fakeChunkRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AudioChunk, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	f := parseSpecs(specs)
	var out []*entity.AudioChunk
	for _, c := range r.store.chunks {
		if f.sessionId != nil && c.SessionId != *f.sessionId {
			continue
		}
		copied := *c
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if f.desc {
			return out[i].ChunkNumber > out[j].ChunkNumber
		}
		return out[i].ChunkNumber < out[j].ChunkNumber
	})
	return out, nil
}

func (r *fakeChunkRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

// ---- conversation turns ----

type fakeTurnRepo struct{ store *memStore }

func (r *fakeTurnRepo) Create(ctx context.Context, t *entity.ConversationTurn) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *t
	r.store.turns = append(r.store.turns, &copied)
	return nil
}

func (r *fakeTurnRepo) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var kept []*entity.ConversationTurn
	for _, t := range r.store.turns {
		if t.SessionId != sessionId {
			kept = append(kept, t)
		}
	}
	r.store.turns = kept
	return nil
}

func (r *fakeTurnRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ConversationTurn, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *fakeTurnRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationTurn, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	f := parseSpecs(specs)
	var out []*entity.ConversationTurn
	for _, t := range r.store.turns {
		if f.sessionId != nil && t.SessionId != *f.sessionId {
			continue
		}
		copied := *t
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if f.desc {
			return out[i].TurnNumber > out[j].TurnNumber
		}
		return out[i].TurnNumber < out[j].TurnNumber
	})
	return out, nil
}

func (r *fakeTurnRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

// ---- chat messages ----

type fakeMessageRepo struct{ store *memStore }

func (r *fakeMessageRepo) Create(ctx context.Context, m *entity.ChatMessage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *m
	r.store.messages = append(r.store.messages, &copied)
	return nil
}

func (r *fakeMessageRepo) UpdateDeliveryStatus(ctx context.Context, id uuid.UUID, status string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, m := range r.store.messages {
		if m.Id == id {
			m.DeliveryStatus = status
		}
	}
	return nil
}

func (r *fakeMessageRepo) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var kept []*entity.ChatMessage
	for _, m := range r.store.messages {
		if m.SessionId != sessionId {
			kept = append(kept, m)
		}
	}
	r.store.messages = kept
	return nil
}

func (r *fakeMessageRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	f := parseSpecs(specs)
	var out []*entity.ChatMessage
	for _, m := range r.store.messages {
		if f.sessionId != nil && m.SessionId != *f.sessionId {
			continue
		}
		if f.id != nil && m.Id != *f.id {
			continue
		}
		copied := *m
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if f.desc {
			return out[i].MessageNumber > out[j].MessageNumber
		}
		return out[i].MessageNumber < out[j].MessageNumber
	})
	return out, nil
}

func (r *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

// ---- users / voice configs ----

type fakeUserRepo struct{ store *memStore }

func (r *fakeUserRepo) FindById(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

type fakeVoiceConfigRepo struct{ store *memStore }

func (r *fakeVoiceConfigRepo) Upsert(ctx context.Context, c *entity.VoiceConfiguration) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *c
	r.store.voiceConfigs[c.UserId] = &copied
	return nil
}

func (r *fakeVoiceConfigRepo) FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.VoiceConfiguration, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.voiceConfigs[userId]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

// ---- speech collaborators ----

type scriptedRecognizer struct {
	mu      sync.Mutex
	results []*speech.RecognitionResult
	errs    []error
	calls   int

	// onCall runs before each scripted response, with the call index.
	onCall func(call int)
}

func (r *scriptedRecognizer) Recognize(ctx context.Context, req *speech.RecognitionRequest) (*speech.RecognitionResult, error) {
	r.mu.Lock()
	call := r.calls
	r.calls++
	onCall := r.onCall
	r.mu.Unlock()

	if onCall != nil {
		onCall(call)
	}
	if call < len(r.errs) && r.errs[call] != nil {
		return nil, r.errs[call]
	}
	if call < len(r.results) {
		return r.results[call], nil
	}
	return &speech.RecognitionResult{Transcript: "", Confidence: 0}, nil
}

type scriptedSynthesizer struct {
	audio []byte
	err   error
	calls int
}

func (s *scriptedSynthesizer) Synthesize(ctx context.Context, req *speech.SynthesisRequest) ([]byte, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.audio, nil
}
