package curator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agri-curator/internal/llm"
	"agri-curator/internal/tools"
)

func skipRouter(registry *tools.Registry) *QueryRouter {
	return &QueryRouter{registry: registry, logger: zap.NewNop()}
}

func TestRouteSkipPest(t *testing.T) {
	registry := tools.NewRegistry(&fakeTool{name: "PestDetectionTool", fn: func(ctx context.Context, args map[string]any) (string, error) {
		assert.Equal(t, "http://example.com/leaf.jpg", args["image"])
		return "Predicted Class: 12\nUse neem oil.", nil
	}})
	r := skipRouter(registry)

	state := &State{Request: Request{ConversationID: "conv-1", ImageURL: "http://example.com/leaf.jpg"}}
	state, err := r.RouteSkip(context.Background(), state, "pest")
	require.NoError(t, err)

	require.Len(t, state.History, 2)
	stub, parseErr := ParseReply(state.History[0].Content)
	require.NoError(t, parseErr, "first message is a parseable router stub")
	require.Len(t, stub.ToolCalls, 1)
	assert.Equal(t, "PestDetectionTool", stub.ToolCalls[0]["name"])

	assert.Equal(t, "PestDetectionTool", state.History[1].Name)
	assert.Contains(t, state.History[1].Content, "neem oil")
}

func TestRouteSkipToolFailureStillAppendsTwo(t *testing.T) {
	registry := tools.NewRegistry(&fakeTool{name: "PolicyFetcherTool", fn: func(ctx context.Context, args map[string]any) (string, error) {
		return "", errors.New("upstream down")
	}})
	r := skipRouter(registry)

	state := &State{Request: Request{
		ConversationID: "conv-1",
		PolicyDetails:  map[string]any{"name": "Asha", "location": "Nashik"},
	}}
	state, err := r.RouteSkip(context.Background(), state, "policy")
	require.NoError(t, err)

	require.Len(t, state.History, 2)
	assert.Contains(t, state.History[1].Content, "upstream down")
}

func TestRouteSkipMissingInputs(t *testing.T) {
	r := skipRouter(tools.NewRegistry())

	_, err := r.RouteSkip(context.Background(), &State{Request: Request{ConversationID: "c"}}, "pest")
	assert.Error(t, err)

	_, err = r.RouteSkip(context.Background(), &State{Request: Request{ConversationID: "c"}}, "policy")
	assert.Error(t, err)
}

func TestRouteSkipPreservesExistingHistory(t *testing.T) {
	registry := tools.NewRegistry(&fakeTool{name: "PestDetectionTool", fn: func(ctx context.Context, args map[string]any) (string, error) {
		return "ok", nil
	}})
	r := skipRouter(registry)

	prior := []llm.Message{{Role: llm.RoleSystem, Content: "system"}}
	state := &State{
		Request: Request{ConversationID: "conv-1", ImageURL: "http://example.com/p.jpg"},
		History: prior,
	}
	state, err := r.RouteSkip(context.Background(), state, "pest")
	require.NoError(t, err)
	assert.Len(t, state.History, 3, "exactly two messages appended")
}
