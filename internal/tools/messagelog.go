package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"agri-curator/internal/dataclient"
	"agri-curator/internal/history"
	"agri-curator/internal/llm"
)

const collectionConversations = "conversation_history"

// MessageHistoryLoggerTool logs and retrieves per-conversation message
// history, with separate histories per agent type. With no data service
// configured it keeps everything in process memory.
type MessageHistoryLoggerTool struct {
	client *dataclient.Client
	local  *history.Manager
}

func NewMessageHistoryLogger(client *dataclient.Client) *MessageHistoryLoggerTool {
	return &MessageHistoryLoggerTool{client: client, local: history.NewManager()}
}

func (t *MessageHistoryLoggerTool) Name() string { return "MessageHistoryLoggerTool" }

func (t *MessageHistoryLoggerTool) Description() string {
	return "Log and retrieve message history for each conversation, with separate histories for different agent types."
}

// Run satisfies the Tool contract for model-initiated calls. The pipeline
// itself uses the typed Store/Retrieve methods.
func (t *MessageHistoryLoggerTool) Run(ctx context.Context, args map[string]any) (string, error) {
	action := stringArg(args, "action")
	conversationID := stringArg(args, "conversation_id")
	agentType := stringArg(args, "agent_type")
	if agentType == "" {
		agentType = "curator"
	}

	switch action {
	case "retrieve":
		msgs, err := t.Retrieve(ctx, conversationID, agentType)
		if err != nil {
			return "", err
		}
		b, err := json.Marshal(msgs)
		if err != nil {
			return "", fmt.Errorf("marshal history: %w", err)
		}
		return string(b), nil
	case "delete":
		if err := t.Delete(ctx, conversationID, agentType); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s message history deleted for conversation ID: %s", agentType, conversationID), nil
	default:
		return "", fmt.Errorf("invalid action %q: use 'retrieve' or 'delete'", action)
	}
}

// serialized mirrors the persisted message shape: type is one of
// human/ai/system/tool.
type serialized struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	Name    string `json:"name,omitempty"`
}

func serializeMessage(m llm.Message) serialized {
	s := serialized{Content: m.Content, Name: m.Name}
	switch m.Role {
	case llm.RoleUser:
		s.Type = "human"
	case llm.RoleAssistant:
		s.Type = "ai"
	case llm.RoleSystem:
		s.Type = "system"
	case llm.RoleTool:
		s.Type = "tool"
	default:
		s.Type = "human"
	}
	return s
}

func deserializeMessage(s serialized) llm.Message {
	m := llm.Message{Content: s.Content, Name: s.Name}
	switch s.Type {
	case "human":
		m.Role = llm.RoleUser
	case "ai":
		m.Role = llm.RoleAssistant
	case "system":
		m.Role = llm.RoleSystem
	case "tool":
		m.Role = llm.RoleTool
	default:
		m.Role = llm.RoleUser
	}
	return m
}

func historyKey(agentType string) string { return agentType + "_message_history" }

// Store persists the full history snapshot for one agent type, preserving
// any other agent histories already in the conversation document.
func (t *MessageHistoryLoggerTool) Store(ctx context.Context, conversationID, agentType string, msgs []llm.Message) error {
	if t.client == nil {
		t.local.Replace(agentType+":"+conversationID, msgs)
		return nil
	}

	doc, err := t.client.Get(ctx, collectionConversations, conversationID, nil)
	if err != nil {
		return fmt.Errorf("load conversation document: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}

	out := make([]serialized, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, serializeMessage(m))
	}
	doc[historyKey(agentType)] = map[string]any{
		"messages":   out,
		"updated_at": time.Now().Format(time.RFC3339),
	}
	return t.client.Post(ctx, collectionConversations, conversationID, doc)
}

// Retrieve returns the stored history, or an empty slice when none exists.
func (t *MessageHistoryLoggerTool) Retrieve(ctx context.Context, conversationID, agentType string) ([]llm.Message, error) {
	if t.client == nil {
		return t.local.Get(agentType + ":" + conversationID), nil
	}

	doc, err := t.client.Get(ctx, collectionConversations, conversationID, map[string]string{
		"message_history_type": historyKey(agentType),
	})
	if err != nil || doc == nil {
		// Absence of history is a fresh conversation, not a failure.
		return nil, nil
	}

	sub, ok := doc[historyKey(agentType)].(map[string]any)
	if !ok {
		return nil, nil
	}
	raw, err := json.Marshal(sub["messages"])
	if err != nil {
		return nil, nil
	}
	var stored []serialized
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, nil
	}

	msgs := make([]llm.Message, 0, len(stored))
	for _, s := range stored {
		msgs = append(msgs, deserializeMessage(s))
	}
	return msgs, nil
}

func (t *MessageHistoryLoggerTool) Delete(ctx context.Context, conversationID, agentType string) error {
	if t.client == nil {
		t.local.Reset(agentType + ":" + conversationID)
		return nil
	}

	doc, err := t.client.Get(ctx, collectionConversations, conversationID, nil)
	if err != nil || doc == nil {
		return err
	}
	delete(doc, historyKey(agentType))
	return t.client.Post(ctx, collectionConversations, conversationID, doc)
}
