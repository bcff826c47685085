package curator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"agri-curator/internal/llm"
	"agri-curator/internal/tools"
)

// mandatoryInputs are the farmer-profile keys the router reminds the
// model to collect.
var mandatoryInputs = []string{"location", "land_size", "current_crops"}

// QueryRouter decides each turn whether the conversation needs tool
// execution or can be answered directly, by delegating to the model.
type QueryRouter struct {
	model        llm.Client
	systemPrompt string
	messageLog   *tools.MessageHistoryLoggerTool
	userData     *tools.UserDataLoggerTool
	suggestions  *tools.SuggestionDataLoggerTool
	registry     *tools.Registry
	logger       *zap.Logger
}

func NewQueryRouter(
	model llm.Client,
	systemPrompt string,
	messageLog *tools.MessageHistoryLoggerTool,
	userData *tools.UserDataLoggerTool,
	suggestions *tools.SuggestionDataLoggerTool,
	registry *tools.Registry,
	logger *zap.Logger,
) *QueryRouter {
	return &QueryRouter{
		model:        model,
		systemPrompt: systemPrompt,
		messageLog:   messageLog,
		userData:     userData,
		suggestions:  suggestions,
		registry:     registry,
		logger:       logger,
	}
}

// ProcessState loads the conversation context and runs the two router
// turns (analysis, then the structured reply). The model's raw reply is
// appended to history without validation; downstream stages parse it.
func (r *QueryRouter) ProcessState(ctx context.Context, state *State) (*State, error) {
	start := time.Now()
	query := state.Request.Query
	conversationID := state.Request.ConversationID

	history, err := r.messageLog.Retrieve(ctx, conversationID, "curator")
	if err != nil {
		r.logger.Warn("router: history retrieval failed", zap.Error(err))
	}
	if len(history) == 0 {
		history = []llm.Message{{Role: llm.RoleSystem, Content: r.systemPrompt}}
	}

	pending, err := r.suggestions.Retrieve(ctx, conversationID)
	if err != nil {
		r.logger.Warn("router: suggestion retrieval failed", zap.Error(err))
	}
	filtered := make([]tools.Suggestion, 0, len(pending))
	for _, s := range pending {
		if s.Status == tools.StatusToBeApproved {
			filtered = append(filtered, s)
		}
	}

	userInputs, err := r.userData.Retrieve(ctx, conversationID)
	if err != nil {
		r.logger.Warn("router: user input retrieval failed", zap.Error(err))
	}
	if userInputs == nil {
		userInputs = map[string]any{}
	}
	var missing []string
	for _, key := range mandatoryInputs {
		if _, ok := userInputs[key]; !ok {
			missing = append(missing, key)
		}
	}

	suggestionsJSON, _ := json.MarshalIndent(summarizeSuggestions(filtered), "", "  ")
	inputsJSON, _ := json.MarshalIndent(userInputs, "", "  ")

	history = append(history, llm.Message{
		Role: llm.RoleUser,
		Content: fmt.Sprintf(routerQuestionsTemplate,
			query, conversationID, suggestionsJSON, inputsJSON, missing),
		Name: "user",
	})

	analysis, err := r.model.Generate(ctx, history)
	if err != nil {
		return state, fmt.Errorf("router analysis call: %w", err)
	}
	history = append(history, llm.Message{Role: llm.RoleAssistant, Content: analysis.Content})

	history = append(history, llm.Message{Role: llm.RoleUser, Content: routerFinalTemplate, Name: "user"})
	final, err := r.model.Generate(ctx, history)
	if err != nil {
		return state, fmt.Errorf("router final call: %w", err)
	}
	history = append(history, llm.Message{Role: llm.RoleAssistant, Content: final.Content})

	state.History = history
	state.Suggestions = filtered

	r.logger.Info("router: completed", zap.Duration("took", time.Since(start)))
	return state, nil
}

// RouteSkip bypasses the model and directly invokes the designated tool
// for a single-purpose endpoint. It always appends exactly two messages:
// a synthetic router stub mimicking the normal JSON shape, then the tool
// outcome (result or error text).
func (r *QueryRouter) RouteSkip(ctx context.Context, state *State, usecaseType string) (*State, error) {
	var toolName string
	var args map[string]any
	switch usecaseType {
	case "pest":
		if state.Request.ImageURL == "" {
			return state, fmt.Errorf("pest routing requires image_url")
		}
		toolName = "PestDetectionTool"
		args = map[string]any{"image": state.Request.ImageURL}
	case "policy":
		if state.Request.PolicyDetails == nil {
			return state, fmt.Errorf("policy routing requires policy_details")
		}
		toolName = "PolicyFetcherTool"
		args = state.Request.PolicyDetails
	default:
		return state, fmt.Errorf("unknown usecase type %q", usecaseType)
	}

	stub := RouterReply{
		AgentMessage: "",
		CTAs:         []string{},
		ToolCalls:    []map[string]any{{"name": toolName, "args": args}},
		Tasks:        "",
	}
	raw, _ := json.Marshal(stub)
	state.History = append(state.History, llm.Message{Role: llm.RoleAssistant, Content: string(raw)})

	var content string
	tool, ok := r.registry.Lookup(toolName)
	if !ok {
		content = fmt.Sprintf("Tool '%s' not found in registry", toolName)
	} else if result, err := tool.Run(ctx, args); err != nil {
		content = fmt.Sprintf("Error executing %s: %v", toolName, err)
	} else {
		content = result
	}
	state.History = append(state.History, llm.Message{
		Role:    llm.RoleAssistant,
		Content: content,
		Name:    toolName,
	})
	return state, nil
}

// summarizeSuggestions reduces suggestions to the fields the router
// prompt shows the model.
func summarizeSuggestions(list []tools.Suggestion) []map[string]string {
	out := make([]map[string]string, 0, len(list))
	for _, s := range list {
		out = append(out, map[string]string{"content": s.Content, "status": s.Status})
	}
	return out
}
