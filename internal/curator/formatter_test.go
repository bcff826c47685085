package curator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildResult(t *testing.T) {
	reply, err := json.Marshal(map[string]any{
		"agent_message": "Tomatoes suit your soil and season.",
		"CTAs":          []string{"Show prices", "Weather outlook"},
		"tasks":         "",
	})
	require.NoError(t, err)

	inputs := map[string]any{"location": "Nashik", "land_size": "2 acres"}
	result := buildResult(string(reply), inputs)

	assert.Equal(t, "Tomatoes suit your soil and season.", result.AgentMessage)
	assert.Equal(t, []string{"Show prices", "Weather outlook"}, result.CTAs)
	assert.Empty(t, result.Tasks)
	assert.Equal(t, inputs, result.UserInputs)
}

func TestBuildResultTasksSuppressCTAs(t *testing.T) {
	reply, err := json.Marshal(map[string]any{
		"agent_message": "Let me look that up.",
		"CTAs":          []string{"should", "disappear"},
		"tasks":         "Fetching mandi prices",
	})
	require.NoError(t, err)

	result := buildResult(string(reply), nil)
	assert.Equal(t, "Fetching mandi prices", result.Tasks)
	assert.Empty(t, result.CTAs, "CTAs must be empty while tasks are pending")
	assert.NotNil(t, result.CTAs)
}

func TestBuildResultUnparseableFallsBackToRaw(t *testing.T) {
	result := buildResult("The model answered in prose.", map[string]any{"location": "Pune"})
	assert.Equal(t, "The model answered in prose.", result.AgentMessage)
	assert.Empty(t, result.CTAs)
	assert.Empty(t, result.Tasks)
	assert.Equal(t, "Pune", result.UserInputs["location"])
}

func TestBuildResultStripsBookkeepingKeys(t *testing.T) {
	inputs := map[string]any{
		"location":       "Pune",
		"timestamp":      "2026-01-01T00:00:00Z",
		"created_at":     "2026-01-01T00:00:00Z",
		"updated_at":     "2026-01-02T00:00:00Z",
		"update_history": []any{"x"},
	}
	result := buildResult("prose", inputs)
	assert.Equal(t, map[string]any{"location": "Pune"}, result.UserInputs)
}
