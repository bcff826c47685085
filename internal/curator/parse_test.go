package curator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"whitespace", "  {\"a\":1}\n", `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StripFences(tc.in))
		})
	}
}

func TestStripFencesIdempotent(t *testing.T) {
	in := "```json\n{\"agent_message\":\"hi\"}\n```"
	once := StripFences(in)
	assert.Equal(t, once, StripFences(once))
}

func TestParseReply(t *testing.T) {
	content := "```json\n" + `{
		"agent_message": "Checking mandi prices for you.",
		"CTAs": ["Show weather", "Suggest crops"],
		"tool_calls": [{"name": "PriceFetcherTool", "args": {"commodity": "Onion", "state": "Maharashtra"}}],
		"tasks": "Fetching current onion prices"
	}` + "\n```"

	reply, err := ParseReply(content)
	require.NoError(t, err)
	assert.Equal(t, "Checking mandi prices for you.", reply.AgentMessage)
	assert.Equal(t, []string{"Show weather", "Suggest crops"}, reply.CTAs)
	require.Len(t, reply.ToolCalls, 1)
	assert.Equal(t, "PriceFetcherTool", reply.ToolCalls[0]["name"])
	assert.Equal(t, "Fetching current onion prices", reply.Tasks)
}

func TestParseReplyRejectsProse(t *testing.T) {
	_, err := ParseReply("I could not produce JSON, sorry.")
	assert.Error(t, err)
}
