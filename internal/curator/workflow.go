package curator

import (
	"context"

	"go.uber.org/zap"

	"agri-curator/internal/tools"
)

// simpleTools are handled by the router itself; a reply whose tool calls
// are all simple goes straight to the final response.
var simpleTools = map[string]bool{
	"UserDataLoggerTool":       true,
	"MessageHistoryLoggerTool": true,
}

// Workflow is the fixed four-node graph driving one conversation turn:
// query_router → {task_manager | final_response} →
// {response_formatter | final_response} → final_response.
type Workflow struct {
	router    *QueryRouter
	tasks     *TaskManager
	formatter *ResponseFormatter
	userData  *tools.UserDataLoggerTool
	logger    *zap.Logger
}

func NewWorkflow(router *QueryRouter, tasks *TaskManager, formatter *ResponseFormatter, userData *tools.UserDataLoggerTool, logger *zap.Logger) *Workflow {
	return &Workflow{router: router, tasks: tasks, formatter: formatter, userData: userData, logger: logger}
}

// Run executes the graph for one turn.
func (w *Workflow) Run(ctx context.Context, state *State) (*State, error) {
	state, err := w.router.ProcessState(ctx, state)
	if err != nil {
		return state, err
	}

	if !w.needsDispatch(state) {
		return w.finalResponse(ctx, state), nil
	}

	state = w.tasks.ProcessState(ctx, state)

	if !hasUsableResults(state.TaskResults) {
		w.logger.Info("workflow: no usable tool results, skipping formatter")
		return w.finalResponse(ctx, state), nil
	}

	state, err = w.formatter.ProcessState(ctx, state)
	if err != nil {
		return state, err
	}
	return state, nil
}

// needsDispatch reports whether the router reply contains at least one
// tool call outside the simple exemption set. Malformed replies route to
// the final response.
func (w *Workflow) needsDispatch(state *State) bool {
	last := state.lastAssistantMessage()
	if last == nil {
		return false
	}
	reply, err := ParseReply(last.Content)
	if err != nil {
		w.logger.Warn("workflow: unparseable router reply", zap.Error(err))
		return false
	}
	for _, call := range NormalizeToolCalls(reply.ToolCalls) {
		if !simpleTools[call.Name] {
			return true
		}
	}
	return false
}

// hasUsableResults reports whether dispatch produced at least one result
// bucket besides errors.
func hasUsableResults(results map[string][]TaskResult) bool {
	for name := range results {
		if name != "errors" {
			return true
		}
	}
	return false
}

// finalResponse surfaces {user_inputs, agent_message, CTAs, tasks} from
// the last assistant message, falling back to the raw content when the
// JSON does not parse.
func (w *Workflow) finalResponse(ctx context.Context, state *State) *State {
	userInputs, err := w.userData.Retrieve(ctx, state.Request.ConversationID)
	if err != nil {
		w.logger.Warn("workflow: user input retrieval failed", zap.Error(err))
	}
	if userInputs == nil {
		userInputs = map[string]any{}
	}

	last := state.lastModelMessage()
	if last == nil {
		last = state.lastAssistantMessage()
	}
	if last == nil {
		state.Result = Result{UserInputs: userInputs, CTAs: []string{}}
		return state
	}
	state.Result = buildResult(last.Content, userInputs)
	state.Result.Suggestions = state.Suggestions
	return state
}
