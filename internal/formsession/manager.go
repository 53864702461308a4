package formsession

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/edvin/modelerd/internal/events"
)

// Manager owns one session per open document: created when the shell
// opens a document, destroyed when it closes.
type Manager struct {
	linter     Linter
	bus        events.Emitter
	logger     zerolog.Logger
	quiescence time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(linter Linter, bus events.Emitter, logger zerolog.Logger, quiescence time.Duration) *Manager {
	return &Manager{
		linter:     linter,
		bus:        bus,
		logger:     logger,
		quiescence: quiescence,
		sessions:   make(map[string]*Session),
	}
}

// Open returns the session for the document, creating it on first use.
func (m *Manager) Open(documentPath string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[documentPath]; ok {
		return s
	}
	s := NewSession(documentPath, m.linter, m.bus, m.logger, m.quiescence)
	m.sessions[documentPath] = s
	return s
}

// Get returns the session for the document, or nil.
func (m *Manager) Get(documentPath string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[documentPath]
}

// Close destroys the document's session, if any.
func (m *Manager) Close(documentPath string) {
	m.mu.Lock()
	s, ok := m.sessions[documentPath]
	if ok {
		delete(m.sessions, documentPath)
	}
	m.mu.Unlock()
	if ok {
		s.Close()
	}
}

// CloseAll destroys every session. Used at shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
}
