package runtime

import (
	"sort"
	"sync"
	"time"
)

// nowFunc is swapped in tests that pin timestamps.
var nowFunc = time.Now

// SessionStore keeps per-session chat transcripts and uploaded documents in
// memory. Sessions are created lazily on first use and live for the process
// lifetime.
type SessionStore struct {
	mu        sync.Mutex
	histories map[string][]ChatMessage
	documents map[string][]Document
}

// NewSessionStore returns an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		histories: make(map[string][]ChatMessage),
		documents: make(map[string][]Document),
	}
}

// Append adds messages to a session transcript, stamping any message that
// lacks a timestamp.
func (s *SessionStore) Append(sessionID string, messages ...ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, msg := range messages {
		if msg.Timestamp.IsZero() {
			msg.Timestamp = nowFunc()
		}
		s.histories[sessionID] = append(s.histories[sessionID], msg)
	}
}

// History returns a copy of the full transcript for a session.
func (s *SessionStore) History(sessionID string) []ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ChatMessage(nil), s.histories[sessionID]...)
}

// Recent returns a copy of the last n transcript messages.
func (s *SessionStore) Recent(sessionID string, n int) []ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := s.histories[sessionID]
	if n > 0 && len(history) > n {
		history = history[len(history)-n:]
	}
	return append([]ChatMessage(nil), history...)
}

// MessageCount reports the transcript length of a session.
func (s *SessionStore) MessageCount(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.histories[sessionID])
}

// Clear drops a session transcript and reports whether one existed.
func (s *SessionStore) Clear(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.histories[sessionID]; !ok {
		return false
	}
	delete(s.histories, sessionID)
	return true
}

// Sessions lists the session IDs with a transcript, sorted for stable output.
func (s *SessionStore) Sessions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.histories))
	for id := range s.histories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// AddDocuments attaches documents to a session for prompt context.
func (s *SessionStore) AddDocuments(sessionID string, docs ...Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[sessionID] = append(s.documents[sessionID], docs...)
}

// Documents returns a copy of the documents attached to a session.
func (s *SessionStore) Documents(sessionID string) []Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Document(nil), s.documents[sessionID]...)
}

// ClearDocuments drops a session's documents and reports whether any existed.
func (s *SessionStore) ClearDocuments(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[sessionID]; !ok {
		return false
	}
	delete(s.documents, sessionID)
	return true
}

// SessionSummary is a compact view of a session used by status output.
type SessionSummary struct {
	SessionID     string   `json:"session_id"`
	Exists        bool     `json:"exists"`
	MessageCount  int      `json:"message_count"`
	DocumentCount int      `json:"document_count"`
	LastMessages  []string `json:"last_messages,omitempty"`
}

const summaryPreviewLimit = 100

// Summary describes a session: message and document counts plus previews of
// the last three messages.
func (s *SessionStore) Summary(sessionID string) SessionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.histories[sessionID]
	summary := SessionSummary{
		SessionID:     sessionID,
		Exists:        ok,
		MessageCount:  len(history),
		DocumentCount: len(s.documents[sessionID]),
	}

	start := len(history) - 3
	if start < 0 {
		start = 0
	}
	for _, msg := range history[start:] {
		preview := msg.Content
		if len(preview) > summaryPreviewLimit {
			preview = preview[:summaryPreviewLimit] + "..."
		}
		summary.LastMessages = append(summary.LastMessages, string(msg.Role)+": "+preview)
	}
	return summary
}
