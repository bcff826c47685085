package curator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"agri-curator/internal/llm"
)

func stateWithAssistant(content string) *State {
	return &State{History: []llm.Message{{Role: llm.RoleAssistant, Content: content}}}
}

func TestNeedsDispatch(t *testing.T) {
	w := &Workflow{logger: zap.NewNop()}

	cases := []struct {
		name      string
		toolCalls []map[string]any
		want      bool
	}{
		{"no calls", nil, false},
		{
			"simple tools only",
			[]map[string]any{
				{"name": "UserDataLoggerTool", "args": map[string]any{}},
				{"name": "MessageHistoryLoggerTool", "args": map[string]any{}},
			},
			false,
		},
		{
			"mixed simple and real",
			[]map[string]any{
				{"name": "UserDataLoggerTool", "args": map[string]any{}},
				{"name": "WeatherAnalysisTool", "args": map[string]any{"location": "Pune"}},
			},
			true,
		},
		{
			"real tool only",
			[]map[string]any{{"name": "PriceFetcherTool", "args": map[string]any{}}},
			true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reply, err := json.Marshal(map[string]any{
				"agent_message": "working on it",
				"tool_calls":    tc.toolCalls,
			})
			if err != nil {
				t.Fatal(err)
			}
			state := stateWithAssistant(string(reply))
			assert.Equal(t, tc.want, w.needsDispatch(state))
		})
	}
}

func TestNeedsDispatchMalformedReply(t *testing.T) {
	w := &Workflow{logger: zap.NewNop()}
	state := stateWithAssistant("plain prose, no json")
	assert.False(t, w.needsDispatch(state))
}

func TestHasUsableResults(t *testing.T) {
	assert.False(t, hasUsableResults(nil))
	assert.False(t, hasUsableResults(map[string][]TaskResult{
		"errors": {{ToolName: "BadTool", Err: "boom"}},
	}))
	assert.True(t, hasUsableResults(map[string][]TaskResult{
		"errors":      {{ToolName: "BadTool", Err: "boom"}},
		"WeatherTool": {{ToolName: "WeatherTool", Result: "ok"}},
	}))
}
