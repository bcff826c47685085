package curator

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"agri-curator/internal/llm"
	"agri-curator/internal/tools"
)

// maxConcurrentTasks bounds how many tool invocations run at once.
const maxConcurrentTasks = 10

// ToolCall is a normalized tool invocation request.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]any
}

// TaskManager executes the tool calls found in the latest assistant
// message and merges their results back into the conversation history.
type TaskManager struct {
	registry *tools.Registry
	logger   *zap.Logger
}

func NewTaskManager(registry *tools.Registry, logger *zap.Logger) *TaskManager {
	return &TaskManager{registry: registry, logger: logger}
}

// ProcessState runs pending tool calls from the last assistant message.
// A missing assistant message, malformed JSON, or an absent tool_calls
// array leaves the state untouched.
func (m *TaskManager) ProcessState(ctx context.Context, state *State) *State {
	start := time.Now()

	last := state.lastAssistantMessage()
	if last == nil {
		return state
	}
	reply, err := ParseReply(last.Content)
	if err != nil {
		m.logger.Warn("task manager: unparseable assistant message", zap.Error(err))
		return state
	}
	if len(reply.ToolCalls) == 0 {
		return state
	}

	plan := NormalizeToolCalls(reply.ToolCalls)
	if len(plan) == 0 {
		m.logger.Info("task manager: no valid tool calls found")
		return state
	}

	results := m.ExecuteTasks(ctx, plan)
	state.TaskHistory = append(state.TaskHistory, results...)
	state.TaskResults = consolidate(results)

	for i, call := range plan {
		content := results[i].Result
		if content == "" {
			content = results[i].Err
		}
		if content == "" {
			continue
		}
		state.History = append(state.History, llm.Message{
			Role:    llm.RoleAssistant,
			Content: content,
			Name:    call.Name,
		})
	}

	m.logger.Info("task manager: dispatch complete",
		zap.Int("calls", len(plan)),
		zap.Duration("took", time.Since(start)))
	return state
}

// NormalizeToolCalls converts raw tool-call entries into ToolCalls,
// synthesizing an id when absent and unwrapping the nested
// function.{name,arguments} shape.
func NormalizeToolCalls(raw []map[string]any) []ToolCall {
	plan := make([]ToolCall, 0, len(raw))
	for _, entry := range raw {
		name, _ := entry["name"].(string)
		fn, _ := entry["function"].(map[string]any)
		if name == "" && fn != nil {
			name, _ = fn["name"].(string)
		}
		if name == "" {
			continue
		}

		id, _ := entry["id"].(string)
		if id == "" {
			id = uuid.NewString()[:16]
		}

		args, _ := entry["args"].(map[string]any)
		if args == nil && fn != nil {
			switch a := fn["arguments"].(type) {
			case string:
				_ = json.Unmarshal([]byte(a), &args)
			case map[string]any:
				args = a
			}
		}
		if args == nil {
			args = map[string]any{}
		}

		plan = append(plan, ToolCall{ID: id, Name: name, Args: args})
	}
	return plan
}

// ExecuteTasks runs the plan with at most maxConcurrentTasks in flight.
// Every call produces a TaskResult; failures and unknown tool names are
// recorded as data, never returned as errors. Results are positionally
// aligned with the plan.
func (m *TaskManager) ExecuteTasks(ctx context.Context, plan []ToolCall) []TaskResult {
	sem := semaphore.NewWeighted(maxConcurrentTasks)
	results := make([]TaskResult, len(plan))

	var wg sync.WaitGroup
	for i, call := range plan {
		wg.Add(1)
		go func(i int, call ToolCall) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				results[i] = TaskResult{ToolID: call.ID, ToolName: call.Name, Err: err.Error()}
				return
			}
			defer sem.Release(1)
			results[i] = m.executeSingle(ctx, call)
		}(i, call)
	}
	wg.Wait()
	return results
}

func (m *TaskManager) executeSingle(ctx context.Context, call ToolCall) TaskResult {
	tool, ok := m.registry.Lookup(call.Name)
	if !ok {
		m.logger.Warn("task manager: unknown tool", zap.String("tool", call.Name))
		return TaskResult{
			ToolID:   call.ID,
			ToolName: call.Name,
			Err:      fmt.Sprintf("Tool '%s' not found in registry", call.Name),
		}
	}

	m.logger.Debug("executing tool", zap.String("tool", call.Name), zap.String("id", call.ID))
	result, err := tool.Run(ctx, call.Args)
	if err != nil {
		m.logger.Warn("tool failed", zap.String("tool", call.Name), zap.Error(err))
		return TaskResult{ToolID: call.ID, ToolName: call.Name, Err: err.Error()}
	}
	return TaskResult{ToolID: call.ID, ToolName: call.Name, Result: result}
}

// consolidate buckets results by tool name and duplicates failures under
// the "errors" key.
func consolidate(results []TaskResult) map[string][]TaskResult {
	out := make(map[string][]TaskResult)
	for _, r := range results {
		name := r.ToolName
		if name == "" {
			name = "unknown"
		}
		out[name] = append(out[name], r)
		if r.Err != "" {
			out["errors"] = append(out["errors"], r)
		}
	}
	return out
}
