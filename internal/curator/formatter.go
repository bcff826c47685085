package curator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agri-curator/internal/llm"
	"agri-curator/internal/tools"
)

// ResponseFormatter turns raw tool results into the user-facing reply.
// It issues two model calls: one for a markdown suggestion card, one for
// the short {agent_message, CTAs, tasks} summary.
type ResponseFormatter struct {
	model       llm.Client
	userData    *tools.UserDataLoggerTool
	suggestions *tools.SuggestionDataLoggerTool
	logger      *zap.Logger
}

func NewResponseFormatter(model llm.Client, userData *tools.UserDataLoggerTool, suggestions *tools.SuggestionDataLoggerTool, logger *zap.Logger) *ResponseFormatter {
	return &ResponseFormatter{model: model, userData: userData, suggestions: suggestions, logger: logger}
}

// ProcessState synthesizes a suggestion card and the final summary from
// the accumulated history. Summary parse failures degrade to treating the
// raw reply as the agent message.
func (f *ResponseFormatter) ProcessState(ctx context.Context, state *State) (*State, error) {
	start := time.Now()
	conversationID := state.Request.ConversationID

	if card, ok := f.generateSuggestionCard(ctx, state); ok {
		if err := f.suggestions.Store(ctx, conversationID, card); err != nil {
			f.logger.Warn("formatter: suggestion store failed", zap.Error(err))
		} else {
			state.Suggestions = append(state.Suggestions, card)
			state.NewSuggestions = append(state.NewSuggestions, card)
		}
	}

	userInputs := f.fetchUserInputs(ctx, conversationID)
	language, _ := userInputs["language"].(string)
	if language == "" {
		language = "English"
	}
	inputsJSON := "No additional context available"
	if len(userInputs) > 0 {
		if raw, err := json.MarshalIndent(userInputs, "", "  "); err == nil {
			inputsJSON = string(raw)
		}
	}

	state.History = append(state.History, llm.Message{
		Role: llm.RoleUser,
		Content: fmt.Sprintf(formatterTemplate,
			state.Request.Query, inputsJSON, language, language, language),
	})
	summary, err := f.model.Generate(ctx, state.History)
	if err != nil {
		return state, fmt.Errorf("formatter summary call: %w", err)
	}
	state.History = append(state.History, llm.Message{Role: llm.RoleAssistant, Content: summary.Content})

	userInputs = f.fetchUserInputs(ctx, conversationID)
	state.Result = buildResult(summary.Content, userInputs)
	state.Result.Suggestions = state.Suggestions

	f.logger.Info("formatter: completed", zap.Duration("took", time.Since(start)))
	return state, nil
}

// generateSuggestionCard asks the model for a markdown suggestion built
// on the tool results. Parse failures skip the card rather than fail the
// turn.
func (f *ResponseFormatter) generateSuggestionCard(ctx context.Context, state *State) (tools.Suggestion, bool) {
	history := append(append([]llm.Message{}, state.History...), llm.Message{
		Role:    llm.RoleUser,
		Content: suggestionCardTemplate,
	})
	resp, err := f.model.Generate(ctx, history)
	if err != nil {
		f.logger.Warn("formatter: suggestion card call failed", zap.Error(err))
		return tools.Suggestion{}, false
	}

	var card tools.Suggestion
	if err := json.Unmarshal([]byte(StripFences(resp.Content)), &card); err != nil {
		f.logger.Warn("formatter: unparseable suggestion card", zap.Error(err))
		return tools.Suggestion{}, false
	}
	if card.Content == "" {
		return tools.Suggestion{}, false
	}
	if card.SuggestionID == "" {
		card.SuggestionID = uuid.NewString()[:8]
	}
	state.History = append(state.History, llm.Message{Role: llm.RoleAssistant, Content: resp.Content})
	return card, true
}

func (f *ResponseFormatter) fetchUserInputs(ctx context.Context, conversationID string) map[string]any {
	inputs, err := f.userData.Retrieve(ctx, conversationID)
	if err != nil {
		f.logger.Warn("formatter: user input retrieval failed", zap.Error(err))
		return map[string]any{}
	}
	if inputs == nil {
		return map[string]any{}
	}
	return inputs
}

// buildResult parses a summary reply into a Result. Non-empty tasks force
// CTAs to empty; unparseable replies fall back to the raw content as the
// agent message.
func buildResult(content string, userInputs map[string]any) Result {
	cleaned := make(map[string]any, len(userInputs))
	for k, v := range userInputs {
		switch k {
		case "timestamp", "created_at", "updated_at", "update_history":
			continue
		}
		cleaned[k] = v
	}

	reply, err := ParseReply(content)
	if err != nil {
		return Result{
			UserInputs:   cleaned,
			AgentMessage: content,
			CTAs:         []string{},
			Tasks:        "",
		}
	}

	ctas := reply.CTAs
	if ctas == nil {
		ctas = []string{}
	}
	if reply.Tasks != "" {
		ctas = []string{}
	}
	return Result{
		UserInputs:   cleaned,
		AgentMessage: reply.AgentMessage,
		CTAs:         ctas,
		Tasks:        reply.Tasks,
	}
}
