package curator

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RouterReply is the JSON contract between the model and the workflow.
// ToolCalls stays loosely typed because the model emits both the flat
// {name, args} shape and the OpenAI function-call shape.
type RouterReply struct {
	AgentMessage string           `json:"agent_message"`
	CTAs         []string         `json:"CTAs"`
	ToolCalls    []map[string]any `json:"tool_calls"`
	Tasks        string           `json:"tasks"`
}

// StripFences removes a markdown code-fence wrapper from a model reply.
// Already-bare content is returned trimmed, so stripping is idempotent.
func StripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// ParseReply strips code fences and parses the model reply strictly.
// Partially valid JSON (trailing commas, truncated output) is an error;
// callers decide whether that degrades to a fallback or a no-op.
func ParseReply(content string) (RouterReply, error) {
	var reply RouterReply
	if err := json.Unmarshal([]byte(StripFences(content)), &reply); err != nil {
		return RouterReply{}, fmt.Errorf("parse router reply: %w", err)
	}
	return reply, nil
}
