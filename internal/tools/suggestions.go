package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"agri-curator/internal/dataclient"
)

const collectionSuggestions = "curated_suggestions"

// Suggestion is one persisted recommendation bundle. Status starts at
// to_be_approved and moves to approved/rejected on user feedback.
type Suggestion struct {
	SuggestionID   string         `json:"suggestion_id"`
	Content        string         `json:"content"`
	Status         string         `json:"status"`
	ElementDetails map[string]any `json:"element_details,omitempty"`
	ReferenceURLs  []string       `json:"reference_urls,omitempty"`
	Timestamp      string         `json:"timestamp,omitempty"`
	UpdatedAt      string         `json:"updated_at,omitempty"`
}

const (
	StatusToBeApproved = "to_be_approved"
	StatusApproved     = "approved"
	StatusRejected     = "rejected"
)

// SuggestionDataLoggerTool manages the curated-suggestion list of a
// conversation.
type SuggestionDataLoggerTool struct {
	client *dataclient.Client

	mu    sync.Mutex
	local map[string][]Suggestion
}

func NewSuggestionDataLogger(client *dataclient.Client) *SuggestionDataLoggerTool {
	return &SuggestionDataLoggerTool{client: client, local: make(map[string][]Suggestion)}
}

func (t *SuggestionDataLoggerTool) Name() string { return "SuggestionDataLoggerTool" }

func (t *SuggestionDataLoggerTool) Description() string {
	return "Store curated suggestions and update their status (approved/rejected) or content on user feedback. Actions: store, retrieve, update. Key is the conversation_id; update requires suggestion_id."
}

func (t *SuggestionDataLoggerTool) Run(ctx context.Context, args map[string]any) (string, error) {
	action := stringArg(args, "action")
	key := stringArg(args, "key")
	if key == "" {
		return "", fmt.Errorf("key is required")
	}

	switch action {
	case "store":
		data := mapArg(args, "data")
		var s Suggestion
		raw, _ := json.Marshal(data)
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("parse suggestion: %w", err)
		}
		if s.Content == "" {
			s.Content = stringArg(data, "content")
		}
		if err := t.Store(ctx, key, s); err != nil {
			return "", err
		}
		return fmt.Sprintf("Suggestion stored for key: %s", key), nil
	case "retrieve":
		list, err := t.Retrieve(ctx, key)
		if err != nil {
			return "", err
		}
		if len(list) == 0 {
			return "No suggestions found for the specified conversation ID", nil
		}
		b, err := json.Marshal(list)
		if err != nil {
			return "", fmt.Errorf("marshal suggestions: %w", err)
		}
		return string(b), nil
	case "update":
		suggestionID := stringArg(args, "suggestion_id")
		data := mapArg(args, "data")
		if suggestionID == "" || len(data) == 0 {
			return "", fmt.Errorf("data and suggestion_id required for update")
		}
		if err := t.Update(ctx, key, suggestionID, data); err != nil {
			return "", err
		}
		return fmt.Sprintf("Suggestion %s updated for key: %s", suggestionID, key), nil
	default:
		return "", fmt.Errorf("invalid action %q: use 'store', 'retrieve', or 'update'", action)
	}
}

func (t *SuggestionDataLoggerTool) load(ctx context.Context, key string) ([]Suggestion, []any, error) {
	if t.client == nil {
		t.mu.Lock()
		defer t.mu.Unlock()
		return append([]Suggestion(nil), t.local[key]...), nil, nil
	}

	doc, err := t.client.Get(ctx, collectionSuggestions, key, nil)
	if err != nil {
		return nil, nil, err
	}
	if doc == nil {
		return nil, nil, nil
	}
	raw, err := json.Marshal(doc["suggestions"])
	if err != nil {
		return nil, nil, nil
	}
	var list []Suggestion
	_ = json.Unmarshal(raw, &list)
	hist, _ := doc["history"].([]any)
	return list, hist, nil
}

func (t *SuggestionDataLoggerTool) save(ctx context.Context, key string, list []Suggestion, hist []any) error {
	if t.client == nil {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.local[key] = list
		return nil
	}
	return t.client.Post(ctx, collectionSuggestions, key, map[string]any{
		"suggestions": list,
		"history":     hist,
	})
}

func (t *SuggestionDataLoggerTool) Store(ctx context.Context, key string, s Suggestion) error {
	list, hist, err := t.load(ctx, key)
	if err != nil {
		return fmt.Errorf("load suggestions: %w", err)
	}
	if s.Status == "" {
		s.Status = StatusToBeApproved
	}
	s.Timestamp = time.Now().Format(time.RFC3339)
	list = append(list, s)
	hist = append(hist, historyEntry("store", map[string]any{"suggestion_id": s.SuggestionID}))
	return t.save(ctx, key, list, hist)
}

func (t *SuggestionDataLoggerTool) Retrieve(ctx context.Context, key string) ([]Suggestion, error) {
	list, _, err := t.load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load suggestions: %w", err)
	}
	return list, nil
}

// Update patches the fields of one suggestion identified by id. Unknown ids
// are an error so the model learns the id it invented does not exist.
func (t *SuggestionDataLoggerTool) Update(ctx context.Context, key, suggestionID string, data map[string]any) error {
	list, hist, err := t.load(ctx, key)
	if err != nil {
		return fmt.Errorf("load suggestions: %w", err)
	}

	found := false
	for i := range list {
		if list[i].SuggestionID != suggestionID {
			continue
		}
		found = true
		if v, ok := data["status"].(string); ok {
			list[i].Status = v
		}
		if v, ok := data["content"].(string); ok {
			list[i].Content = v
		}
		if v, ok := data["element_details"].(map[string]any); ok {
			list[i].ElementDetails = v
		}
		if urls := stringSliceArg(data, "reference_urls"); urls != nil {
			list[i].ReferenceURLs = urls
		}
		list[i].UpdatedAt = time.Now().Format(time.RFC3339)
	}
	if !found {
		return fmt.Errorf("suggestion %q not found for key %q", suggestionID, key)
	}

	hist = append(hist, historyEntry("update", data))
	return t.save(ctx, key, list, hist)
}
