package history

import (
	"sync"

	"agri-curator/internal/llm"
)

// Manager keeps per-conversation message history in memory. It backs the
// message logger when no data service is configured, and mirrors the shape
// of the persisted conversation document.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string][]llm.Message
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string][]llm.Message)}
}

func (m *Manager) Reset(conversationID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, conversationID)
}

func (m *Manager) Append(conversationID string, msg llm.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[conversationID] = append(m.sessions[conversationID], msg)
}

// Replace overwrites the stored history with a full snapshot. The pipeline
// persists whole conversations after each stage, so stores are replacements.
func (m *Manager) Replace(conversationID string, msgs []llm.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]llm.Message, len(msgs))
	copy(cp, msgs)
	m.sessions[conversationID] = cp
}

func (m *Manager) Get(conversationID string) []llm.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	es := m.sessions[conversationID]
	out := make([]llm.Message, len(es))
	copy(out, es)
	return out
}
