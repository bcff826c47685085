package curator

import (
	"agri-curator/internal/llm"
	"agri-curator/internal/tools"
)

// Request is the inbound turn for one conversation.
type Request struct {
	Query          string
	ConversationID string
	Inputs         map[string]any

	// set by the specialized endpoints that bypass routing
	ImageURL      string
	PolicyDetails map[string]any
}

// Result is what a turn returns to the caller.
type Result struct {
	UserInputs   map[string]any     `json:"user_inputs"`
	Suggestions  []tools.Suggestion `json:"suggestions,omitempty"`
	AgentMessage string             `json:"agent_message"`
	CTAs         []string           `json:"CTAs"`
	Tasks        string             `json:"tasks"`
}

// TaskResult records one tool execution. Exactly one of Result and Err is
// set.
type TaskResult struct {
	ToolID   string `json:"tool_id"`
	ToolName string `json:"tool_name"`
	Result   string `json:"result,omitempty"`
	Err      string `json:"error,omitempty"`
}

// State carries a turn through the workflow nodes.
type State struct {
	Request Request
	// NewSuggestions holds only the suggestions curated this turn; they
	// are the ones queued for background element enrichment.
	NewSuggestions []tools.Suggestion
	History        []llm.Message
	TaskHistory    []TaskResult
	// results of the latest dispatch, keyed by tool name, with failed
	// calls duplicated under "errors"
	TaskResults map[string][]TaskResult
	Suggestions []tools.Suggestion
	Result      Result
}

// lastAssistantMessage returns the most recent assistant message, or nil.
func (s *State) lastAssistantMessage() *llm.Message {
	for i := len(s.History) - 1; i >= 0; i-- {
		if s.History[i].Role == llm.RoleAssistant {
			return &s.History[i]
		}
	}
	return nil
}

// lastModelMessage is like lastAssistantMessage but skips tool-result
// messages, which carry the tool name in Name.
func (s *State) lastModelMessage() *llm.Message {
	for i := len(s.History) - 1; i >= 0; i-- {
		if s.History[i].Role == llm.RoleAssistant && s.History[i].Name == "" {
			return &s.History[i]
		}
	}
	return nil
}
