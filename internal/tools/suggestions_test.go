package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestionStoreDefaultsStatus(t *testing.T) {
	tool := NewSuggestionDataLogger(nil)
	ctx := context.Background()

	require.NoError(t, tool.Store(ctx, "conv-1", Suggestion{
		SuggestionID: "sug-1",
		Content:      "Grow **turmeric** on the shaded plot.",
	}))

	list, err := tool.Retrieve(ctx, "conv-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, StatusToBeApproved, list[0].Status)
	assert.NotEmpty(t, list[0].Timestamp)
}

func TestSuggestionUpdate(t *testing.T) {
	tool := NewSuggestionDataLogger(nil)
	ctx := context.Background()

	require.NoError(t, tool.Store(ctx, "conv-1", Suggestion{SuggestionID: "sug-1", Content: "x"}))

	require.NoError(t, tool.Update(ctx, "conv-1", "sug-1", map[string]any{"status": StatusApproved}))
	list, err := tool.Retrieve(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, list[0].Status)

	err = tool.Update(ctx, "conv-1", "no-such-id", map[string]any{"status": StatusRejected})
	assert.Error(t, err, "unknown suggestion ids must be rejected")
}

func TestSuggestionRunRetrieveEmpty(t *testing.T) {
	tool := NewSuggestionDataLogger(nil)
	out, err := tool.Run(context.Background(), map[string]any{"action": "retrieve", "key": "conv-x"})
	require.NoError(t, err)
	assert.Equal(t, "No suggestions found for the specified conversation ID", out)
}
