package server

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/playperu/radioguessr/internal/game"
	"github.com/playperu/radioguessr/internal/metrics"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many sessions")
)

// EngineFactory builds the round engine of a new session.
type EngineFactory func(sessionID string, notifier game.Notifier) *game.Engine

// Session is one player's game.
type Session struct {
	ID        string
	Engine    *game.Engine
	CreatedAt time.Time
}

// Sessions is the in-memory session registry.
type Sessions struct {
	max       int
	newEngine EngineFactory
	broker    *Broker
	recorder  *metrics.Recorder
	logger    *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessions(max int, newEngine EngineFactory, recorder *metrics.Recorder, logger *slog.Logger) *Sessions {
	return &Sessions{
		max:       max,
		newEngine: newEngine,
		broker:    NewBroker(),
		recorder:  recorder,
		logger:    logger,
		sessions:  make(map[string]*Session),
	}
}

func (s *Sessions) Create() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.max > 0 && len(s.sessions) >= s.max {
		return nil, ErrTooManySessions
	}

	id := uuid.NewString()
	sess := &Session{
		ID:        id,
		Engine:    s.newEngine(id, &sessionNotifier{id: id, broker: s.broker, recorder: s.recorder}),
		CreatedAt: time.Now(),
	}
	s.sessions[id] = sess
	s.logger.Info("session created", "session", id, "sessions", len(s.sessions))
	return sess, nil
}

func (s *Sessions) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Delete drops the session and cancels any round it is loading.
func (s *Sessions) Delete(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	sess.Engine.Close()
	s.broker.Close(id)
	s.logger.Info("session deleted", "session", id)
	return nil
}

func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Full reports whether Create would be refused.
func (s *Sessions) Full() bool {
	return s.max > 0 && s.Len() >= s.max
}

func (s *Sessions) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.sessions {
		sess.Engine.Close()
		s.broker.Close(id)
		delete(s.sessions, id)
	}
	return nil
}
