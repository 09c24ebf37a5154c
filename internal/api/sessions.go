package api

import (
	"context"
	"sync"

	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/backend"
	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/generator"
	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/session"
)

// SessionManager hands out one session controller per authenticated
// user, created lazily on first use and torn down on shutdown.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*session.Controller
	backend  *backend.Context
	gen      generator.PlanGenerator
}

// NewSessionManager creates an empty manager.
func NewSessionManager(be *backend.Context, gen generator.PlanGenerator) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*session.Controller),
		backend:  be,
		gen:      gen,
	}
}

// Get returns the user's controller, creating it (and loading the
// profile) on first access.
func (m *SessionManager) Get(ctx context.Context, userID string) *session.Controller {
	m.mu.Lock()
	if ctrl, ok := m.sessions[userID]; ok {
		m.mu.Unlock()
		return ctrl
	}
	m.mu.Unlock()

	// Controller construction loads the profile, so it runs outside the
	// manager lock. A racing first request may build a second controller;
	// the first one registered wins.
	ctrl := session.NewController(ctx, userID, m.backend, m.gen)

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[userID]; ok {
		ctrl.Close()
		return existing
	}
	m.sessions[userID] = ctrl
	return ctrl
}

// Shutdown closes every live controller, stopping any running timers.
func (m *SessionManager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ctrl := range m.sessions {
		ctrl.Close()
	}
	m.sessions = make(map[string]*session.Controller)
}
