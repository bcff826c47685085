package curator

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agri-curator/internal/llm"
	"agri-curator/internal/tools"
)

// fakeTool is a scriptable registry entry.
type fakeTool struct {
	name string
	fn   func(ctx context.Context, args map[string]any) (string, error)
}

func (t *fakeTool) Name() string        { return t.name }
func (t *fakeTool) Description() string { return "test tool" }
func (t *fakeTool) Run(ctx context.Context, args map[string]any) (string, error) {
	return t.fn(ctx, args)
}

func TestNormalizeToolCalls(t *testing.T) {
	raw := []map[string]any{
		{"id": "call-1", "name": "WeatherAnalysisTool", "args": map[string]any{"location": "Pune"}},
		{"function": map[string]any{"name": "PriceFetcherTool", "arguments": `{"commodity":"Onion"}`}},
		{"args": map[string]any{"orphan": true}}, // no name anywhere
	}

	plan := NormalizeToolCalls(raw)
	require.Len(t, plan, 2)

	assert.Equal(t, "call-1", plan[0].ID)
	assert.Equal(t, "WeatherAnalysisTool", plan[0].Name)
	assert.Equal(t, "Pune", plan[0].Args["location"])

	assert.Equal(t, "PriceFetcherTool", plan[1].Name)
	assert.Equal(t, "Onion", plan[1].Args["commodity"])
	assert.Len(t, plan[1].ID, 16, "missing id must be synthesized")
}

func TestExecuteTasksPositionalOrder(t *testing.T) {
	registry := tools.NewRegistry(
		&fakeTool{name: "SlowTool", fn: func(ctx context.Context, _ map[string]any) (string, error) {
			time.Sleep(30 * time.Millisecond)
			return "slow", nil
		}},
		&fakeTool{name: "FastTool", fn: func(ctx context.Context, _ map[string]any) (string, error) {
			return "fast", nil
		}},
	)
	m := NewTaskManager(registry, zap.NewNop())

	plan := []ToolCall{
		{ID: "a", Name: "SlowTool"},
		{ID: "b", Name: "FastTool"},
	}
	results := m.ExecuteTasks(context.Background(), plan)
	require.Len(t, results, 2)
	assert.Equal(t, "slow", results[0].Result)
	assert.Equal(t, "fast", results[1].Result)
}

func TestExecuteTasksUnknownTool(t *testing.T) {
	m := NewTaskManager(tools.NewRegistry(), zap.NewNop())

	results := m.ExecuteTasks(context.Background(), []ToolCall{{ID: "x", Name: "NoSuchTool"}})
	require.Len(t, results, 1)
	assert.Empty(t, results[0].Result)
	assert.Equal(t, "Tool 'NoSuchTool' not found in registry", results[0].Err)
}

func TestExecuteTasksConcurrencyBound(t *testing.T) {
	var inflight, peak int64
	var mu sync.Mutex

	tool := &fakeTool{name: "CountingTool", fn: func(ctx context.Context, _ map[string]any) (string, error) {
		n := atomic.AddInt64(&inflight, 1)
		mu.Lock()
		if n > peak {
			peak = n
		}
		mu.Unlock()
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt64(&inflight, -1)
		return "ok", nil
	}}
	m := NewTaskManager(tools.NewRegistry(tool), zap.NewNop())

	plan := make([]ToolCall, 30)
	for i := range plan {
		plan[i] = ToolCall{ID: fmt.Sprintf("c%d", i), Name: "CountingTool"}
	}
	results := m.ExecuteTasks(context.Background(), plan)
	require.Len(t, results, 30)
	assert.LessOrEqual(t, peak, int64(10), "no more than 10 tools may run at once")
}

func TestProcessStateNoToolCalls(t *testing.T) {
	m := NewTaskManager(tools.NewRegistry(), zap.NewNop())

	reply, _ := json.Marshal(map[string]any{"agent_message": "hello", "CTAs": []string{}, "tasks": ""})
	state := &State{History: []llm.Message{{Role: llm.RoleAssistant, Content: string(reply)}}}

	out := m.ProcessState(context.Background(), state)
	assert.Empty(t, out.TaskHistory)
	assert.Empty(t, out.TaskResults)
	assert.Len(t, out.History, 1, "no-op must not touch history")
}

func TestProcessStateMalformedReply(t *testing.T) {
	m := NewTaskManager(tools.NewRegistry(), zap.NewNop())

	state := &State{History: []llm.Message{{Role: llm.RoleAssistant, Content: "not json at all"}}}
	out := m.ProcessState(context.Background(), state)
	assert.Empty(t, out.TaskHistory)
	assert.Len(t, out.History, 1)
}

func TestProcessStateAppendsToolMessages(t *testing.T) {
	registry := tools.NewRegistry(&fakeTool{name: "WeatherAnalysisTool", fn: func(ctx context.Context, args map[string]any) (string, error) {
		return "28C, clear sky", nil
	}})
	m := NewTaskManager(registry, zap.NewNop())

	reply, _ := json.Marshal(map[string]any{
		"agent_message": "Checking weather",
		"tool_calls": []map[string]any{
			{"name": "WeatherAnalysisTool", "args": map[string]any{"location": "Nashik"}},
		},
	})
	state := &State{History: []llm.Message{{Role: llm.RoleAssistant, Content: string(reply)}}}

	out := m.ProcessState(context.Background(), state)
	require.Len(t, out.History, 2)
	last := out.History[1]
	assert.Equal(t, llm.RoleAssistant, last.Role)
	assert.Equal(t, "WeatherAnalysisTool", last.Name)
	assert.Equal(t, "28C, clear sky", last.Content)

	require.Contains(t, out.TaskResults, "WeatherAnalysisTool")
	assert.NotContains(t, out.TaskResults, "errors")
}

func TestConsolidateBucketsErrors(t *testing.T) {
	results := []TaskResult{
		{ToolID: "1", ToolName: "GoodTool", Result: "ok"},
		{ToolID: "2", ToolName: "BadTool", Err: "boom"},
	}
	buckets := consolidate(results)
	assert.Len(t, buckets["GoodTool"], 1)
	assert.Len(t, buckets["BadTool"], 1)
	require.Len(t, buckets["errors"], 1)
	assert.Equal(t, "boom", buckets["errors"][0].Err)
}
