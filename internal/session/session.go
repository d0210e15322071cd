// Package session tracks logical conversations and bootstraps agent runs.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kisaanlabs/kisaan-mitra/internal/agent"
	"github.com/kisaanlabs/kisaan-mitra/internal/live"
)

// Modality is the negotiated response form.
type Modality string

const (
	ModalityText  Modality = "TEXT"
	ModalityAudio Modality = "AUDIO"
)

// Session identifies one logical conversation. Its lifetime is bounded by
// the client connection that created it.
type Session struct {
	ID        string
	UserID    string
	Modality  Modality
	CreatedAt time.Time
}

// Store is the session registry. Multiple connections create and look up
// sessions concurrently; a guarded map is all the contention here warrants.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore constructs an empty registry.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create registers a fresh session for a user. Session ids are always newly
// minted; reconnecting users get a new conversation.
func (s *Store) Create(userID string, modality Modality) *Session {
	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Modality:  modality,
		CreatedAt: time.Now(),
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get looks up a session by id.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Delete removes a session by id.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Run is a started agent run: the outbound event stream plus the inbound
// request sink, both scoped to one connection.
type Run interface {
	Events() <-chan live.Event
	SendContent(text string) error
	SendRealtime(pcm []byte) error
	Close() error
}

// Runner starts agent runs. The production implementation dials the live
// runtime; tests substitute fakes.
type Runner interface {
	Connect(ctx context.Context, def *agent.Agent, cfg live.RunConfig) (Run, error)
}

// LiveRunner adapts live.Client to the Runner interface.
type LiveRunner struct {
	Client *live.Client
}

func (r LiveRunner) Connect(ctx context.Context, def *agent.Agent, cfg live.RunConfig) (Run, error) {
	return r.Client.Connect(ctx, def, cfg)
}

// StartError means the agent run could not be started; the connection
// attempt is dead and no session state remains.
type StartError struct {
	UserID string
	Err    error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("session start for user %s: %v", e.UserID, e.Err)
}

func (e *StartError) Unwrap() error { return e.Err }

// Bootstrap creates sessions and starts their agent runs.
type Bootstrap struct {
	Store  *Store
	Runner Runner
	Agent  *agent.Agent
}

// StartSession creates a session for the user and starts a live run bound to
// it. The run's sink accepts writes as soon as this returns. On failure no
// session record is left behind.
func (b *Bootstrap) StartSession(ctx context.Context, userID string, audioMode bool) (*Session, Run, error) {
	modality := ModalityText
	cfg := live.RunConfig{ResponseModalities: []string{string(ModalityText)}}
	if audioMode {
		modality = ModalityAudio
		cfg = live.RunConfig{
			ResponseModalities:       []string{string(ModalityAudio)},
			InputAudioTranscription:  true,
			OutputAudioTranscription: true,
		}
	}
	sess := b.Store.Create(userID, modality)
	run, err := b.Runner.Connect(ctx, b.Agent, cfg)
	if err != nil {
		b.Store.Delete(sess.ID)
		return nil, nil, &StartError{UserID: userID, Err: err}
	}
	return sess, run, nil
}
