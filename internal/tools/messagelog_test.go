package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agri-curator/internal/dataclient"
	"agri-curator/internal/llm"
)

func TestMessageLogLocalMode(t *testing.T) {
	tool := NewMessageHistoryLogger(nil)
	ctx := context.Background()

	msgs := []llm.Message{
		{Role: llm.RoleSystem, Content: "system prompt"},
		{Role: llm.RoleUser, Content: "what to sow?", Name: "user"},
		{Role: llm.RoleAssistant, Content: "soybean"},
	}
	require.NoError(t, tool.Store(ctx, "conv-1", "curator", msgs))

	got, err := tool.Retrieve(ctx, "conv-1", "curator")
	require.NoError(t, err)
	assert.Equal(t, msgs, got)

	// agent types stay separate
	got, err = tool.Retrieve(ctx, "conv-1", "pest")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, tool.Delete(ctx, "conv-1", "curator"))
	got, err = tool.Retrieve(ctx, "conv-1", "curator")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMessageLogRemoteRoundTrip(t *testing.T) {
	docs := map[string]map[string]any{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("_id")
		switch r.Method {
		case http.MethodGet:
			doc, ok := docs[id]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"status": "success", "data": doc})
		case http.MethodPost:
			var doc map[string]any
			json.NewDecoder(r.Body).Decode(&doc)
			docs[id] = doc
			json.NewEncoder(w).Encode(map[string]any{"status": "success"})
		}
	}))
	defer srv.Close()

	tool := NewMessageHistoryLogger(dataclient.New(srv.URL))
	ctx := context.Background()

	msgs := []llm.Message{
		{Role: llm.RoleUser, Content: "hello", Name: "user"},
		{Role: llm.RoleAssistant, Content: "hi there"},
	}
	require.NoError(t, tool.Store(ctx, "conv-9", "curator", msgs))

	got, err := tool.Retrieve(ctx, "conv-9", "curator")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, llm.RoleUser, got[0].Role)
	assert.Equal(t, "user", got[0].Name)
	assert.Equal(t, "hi there", got[1].Content)
}

func TestMessageLogRunInvalidAction(t *testing.T) {
	tool := NewMessageHistoryLogger(nil)
	_, err := tool.Run(context.Background(), map[string]any{"action": "truncate", "conversation_id": "c"})
	assert.Error(t, err)
}
