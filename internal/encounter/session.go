package encounter

import (
	"sync"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Entry is one turn of the encounter transcript. Assistant entries may carry
// the UI plan produced for that turn.
type Entry struct {
	Role       Role      `json:"role"`
	Content    string    `json:"content"`
	Components UIPlan    `json:"components,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Session holds the live state of one patient encounter: the transcript and
// the context aggregator. Transcript and context reset together.
type Session struct {
	PatientID string

	mu         sync.RWMutex
	entries    []Entry
	aggregator *Aggregator
}

func NewSession(patientID string) *Session {
	return &Session{
		PatientID:  patientID,
		aggregator: NewAggregator(),
	}
}

func (s *Session) Append(entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
}

// Entries returns a copy of the transcript in order.
func (s *Session) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Session) Context() *Aggregator {
	return s.aggregator
}

// Reset clears transcript and aggregated context atomically. A reader never
// observes a cleared transcript alongside stale context.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.aggregator.Reset()
}

// SessionManager tracks one live session per patient.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]*Session)}
}

// Get returns the session for patientID, creating it on first use.
func (m *SessionManager) Get(patientID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[patientID]
	if !ok {
		s = NewSession(patientID)
		m.sessions[patientID] = s
	}
	return s
}
