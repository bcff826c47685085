package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"agri-curator/internal/dataclient"
)

const collectionUserInputs = "user_inputs"

// UserDataLoggerTool stores and retrieves the farmer profile for a
// conversation: location, land size, crops, budget and the rest of the
// flat string-keyed attribute map. Every action is also appended to the
// document's action history.
type UserDataLoggerTool struct {
	client *dataclient.Client

	mu    sync.Mutex
	local map[string]map[string]any
}

func NewUserDataLogger(client *dataclient.Client) *UserDataLoggerTool {
	return &UserDataLoggerTool{client: client, local: make(map[string]map[string]any)}
}

func (t *UserDataLoggerTool) Name() string { return "UserDataLoggerTool" }

func (t *UserDataLoggerTool) Description() string {
	return "Log and manage farmer inputs: store preferences, retrieve past data, update individual fields, and delete entries. Actions: store, retrieve, update, delete. Key is the conversation_id."
}

func (t *UserDataLoggerTool) Run(ctx context.Context, args map[string]any) (string, error) {
	action := stringArg(args, "action")
	key := stringArg(args, "key")
	if key == "" {
		return "", fmt.Errorf("key is required")
	}
	data := mapArg(args, "data")

	switch action {
	case "store":
		if err := t.Store(ctx, key, data); err != nil {
			return "", err
		}
		return fmt.Sprintf("User inputs stored for key: %s", key), nil
	case "retrieve":
		inputs, err := t.Retrieve(ctx, key)
		if err != nil {
			return "", err
		}
		b, err := json.Marshal(inputs)
		if err != nil {
			return "", fmt.Errorf("marshal user inputs: %w", err)
		}
		return string(b), nil
	case "update":
		if len(data) == 0 {
			return "", fmt.Errorf("data required for update")
		}
		if err := t.Update(ctx, key, data); err != nil {
			return "", err
		}
		return fmt.Sprintf("User inputs updated for key: %s", key), nil
	case "delete":
		if err := t.Delete(ctx, key); err != nil {
			return "", err
		}
		return fmt.Sprintf("User inputs deleted for key: %s", key), nil
	default:
		return "", fmt.Errorf("invalid action %q: use 'store', 'retrieve', 'update', or 'delete'", action)
	}
}

func historyEntry(action string, data map[string]any) map[string]any {
	summary := ""
	if data != nil {
		b, _ := json.Marshal(data)
		summary = string(b)
		if len(summary) > 100 {
			summary = summary[:100] + "..."
		}
	}
	return map[string]any{
		"timestamp":    time.Now().Format(time.RFC3339),
		"action":       action,
		"data_summary": summary,
	}
}

func (t *UserDataLoggerTool) load(ctx context.Context, key string) (inputs map[string]any, hist []any, err error) {
	if t.client == nil {
		t.mu.Lock()
		defer t.mu.Unlock()
		if doc, ok := t.local[key]; ok {
			inputs, _ = doc["user_inputs"].(map[string]any)
			hist, _ = doc["history"].([]any)
		}
		if inputs == nil {
			inputs = map[string]any{}
		}
		return inputs, hist, nil
	}

	doc, err := t.client.Get(ctx, collectionUserInputs, key, nil)
	if err != nil {
		return nil, nil, err
	}
	if doc != nil {
		inputs, _ = doc["user_inputs"].(map[string]any)
		hist, _ = doc["history"].([]any)
	}
	if inputs == nil {
		inputs = map[string]any{}
	}
	return inputs, hist, nil
}

func (t *UserDataLoggerTool) save(ctx context.Context, key string, inputs map[string]any, hist []any) error {
	doc := map[string]any{"user_inputs": inputs, "history": hist}
	if t.client == nil {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.local[key] = doc
		return nil
	}
	return t.client.Post(ctx, collectionUserInputs, key, doc)
}

// Store merges the given fields into the persisted profile, last write wins
// per key.
func (t *UserDataLoggerTool) Store(ctx context.Context, key string, data map[string]any) error {
	inputs, hist, err := t.load(ctx, key)
	if err != nil {
		return fmt.Errorf("load user inputs: %w", err)
	}
	for k, v := range data {
		inputs[k] = v
	}
	inputs["timestamp"] = time.Now().Format(time.RFC3339)
	hist = append(hist, historyEntry("store", data))
	return t.save(ctx, key, inputs, hist)
}

func (t *UserDataLoggerTool) Retrieve(ctx context.Context, key string) (map[string]any, error) {
	inputs, _, err := t.load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load user inputs: %w", err)
	}
	return inputs, nil
}

func (t *UserDataLoggerTool) Update(ctx context.Context, key string, data map[string]any) error {
	if t.client != nil {
		for field, value := range data {
			if err := t.client.Put(ctx, collectionUserInputs, key, field, value); err != nil {
				return fmt.Errorf("update %s: %w", field, err)
			}
		}
	}

	inputs, hist, err := t.load(ctx, key)
	if err != nil {
		return fmt.Errorf("load user inputs: %w", err)
	}
	for k, v := range data {
		inputs[k] = v
	}
	inputs["updated_at"] = time.Now().Format(time.RFC3339)
	hist = append(hist, historyEntry("update", data))
	return t.save(ctx, key, inputs, hist)
}

func (t *UserDataLoggerTool) Delete(ctx context.Context, key string) error {
	_, hist, err := t.load(ctx, key)
	if err != nil {
		return fmt.Errorf("load user inputs: %w", err)
	}
	hist = append(hist, historyEntry("delete", nil))
	return t.save(ctx, key, map[string]any{}, hist)
}
