package storage

import "time"

// Event records one completed agent turn: the farmer's query and what the
// curator answered. Events are expected to be appended in chronological
// order.
type Event struct {
	Timestamp      time.Time `json:"timestamp"`
	ConversationID string    `json:"conversation_id"`
	Endpoint       string    `json:"endpoint"`
	Query          string    `json:"query"`
	AgentMessage   string    `json:"agent_message"`
	Tasks          string    `json:"tasks"`
	Error          string    `json:"error,omitempty"`
}

// Recorder abstracts persistence of turn events.
// Implementations can be file-based, database, etc.
// LoadInteractions should return events in chronological order.
// AppendInteraction should atomically append a new event.
// Implementations must be safe for concurrent use.
type Recorder interface {
	AppendInteraction(event Event) error
	LoadInteractions() ([]Event, error)
}
