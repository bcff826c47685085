package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/qdrant/go-client/qdrant"

	"agri-curator/internal/embedding"
	"agri-curator/internal/llm"
)

// fields the vector store keeps payload indexes on; everything else is
// skipped when building filters.
var indexedFields = map[string]bool{"year": true, "document_type": true, "topics": true}

// MetadataSelector asks an LLM to pick the metadata key-value pairs most
// relevant to a query, out of the catalog built at indexing time.
type MetadataSelector struct {
	client  llm.Client
	catalog map[string][]any
}

// NewMetadataSelector loads the metadata catalog from path. A missing or
// malformed catalog disables selection rather than failing.
func NewMetadataSelector(client llm.Client, path string) *MetadataSelector {
	catalog := map[string][]any{}
	if raw, err := os.ReadFile(path); err == nil {
		_ = json.Unmarshal(raw, &catalog)
	}
	return &MetadataSelector{client: client, catalog: catalog}
}

// Select returns at most max key-value pairs relevant to the query, each
// as a single-entry map.
func (s *MetadataSelector) Select(ctx context.Context, query string, max int) []map[string]any {
	if len(s.catalog) == 0 {
		return nil
	}

	candidates := s.filterCandidates(query)
	raw, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return nil
	}

	prompt := fmt.Sprintf(`You are an expert assistant for an agriculture and farming knowledge system.

Given the following user query and a metadata dictionary (with keys like "document_type", "key_entities", "topics", "year", each mapping to a list of possible values), select the most relevant metadata key-value pairs for answering the query.

<user_query>
%s
</user_query>

<all_metadata>
%s
</all_metadata>

**Instructions:**
- Carefully read the user query and the metadata values.
- For each field, select the most relevant values (at most %d in total, across all fields).
- Return the output as a JSON array of objects, where each object contains a single key-value pair, e.g. [{"year": 2021}, {"topic": "agriculture"}].
- Do not include any explanation or extra text.
- If none are relevant, return an empty list.
- Preserve the original value format.`, query, raw, max)

	resp, err := s.client.Generate(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}})
	if err != nil {
		return nil
	}

	var subset []map[string]any
	if err := json.Unmarshal([]byte(stripJSONFences(resp.Content)), &subset); err != nil {
		return nil
	}
	if len(subset) > max {
		subset = subset[:max]
	}
	return subset
}

// filterCandidates prefilters catalog values by keyword so the whole
// catalog never goes to the model. Year-like fields match only years
// mentioned in the query.
func (s *MetadataSelector) filterCandidates(query string) map[string][]any {
	queryLower := strings.ToLower(query)
	var yearsInQuery []int
	for _, word := range strings.Fields(query) {
		if y, err := strconv.Atoi(word); err == nil {
			yearsInQuery = append(yearsInQuery, y)
		}
	}

	candidates := map[string][]any{}
	for key, values := range s.catalog {
		var filtered []any
		for _, v := range values {
			if y, ok := asYear(v); ok {
				for _, qy := range yearsInQuery {
					if y == qy {
						filtered = append(filtered, v)
						break
					}
				}
				continue
			}
			if strings.Contains(strings.ToLower(fmt.Sprint(v)), queryLower) {
				filtered = append(filtered, v)
			}
		}
		if len(filtered) > 0 {
			candidates[key] = filtered
		}
	}
	if len(candidates) == 0 {
		for key, values := range s.catalog {
			n := len(values)
			if n > 10 {
				n = 10
			}
			candidates[key] = values[:n]
		}
	}
	for key := range candidates {
		if len(candidates[key]) > 30 {
			candidates[key] = candidates[key][:30]
		}
	}
	return candidates
}

func asYear(v any) (int, bool) {
	switch x := v.(type) {
	case float64:
		return int(x), true
	case int:
		return x, true
	case string:
		y, err := strconv.Atoi(x)
		return y, err == nil
	}
	return 0, false
}

// RetrievalTool searches the document vector store, optionally applying an
// LLM-selected metadata filter.
type RetrievalTool struct {
	qdrant     *qdrant.Client
	embedder   embedding.Engine
	selector   *MetadataSelector
	collection string
}

func NewRetrieval(client *qdrant.Client, embedder embedding.Engine, selector *MetadataSelector, collection string) *RetrievalTool {
	return &RetrievalTool{qdrant: client, embedder: embedder, selector: selector, collection: collection}
}

func (t *RetrievalTool) Name() string { return "RetrievalTool" }

func (t *RetrievalTool) Description() string {
	return "Search indexed agricultural documents by semantic similarity, optionally applying a metadata filter. Inputs: query, optional limit, optional use_metadata_filter flag."
}

type retrievedDoc struct {
	ID       string         `json:"id"`
	Score    float32        `json:"score"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata"`
}

func (t *RetrievalTool) Run(ctx context.Context, args map[string]any) (string, error) {
	query := stringArg(args, "query")
	if query == "" {
		return "", fmt.Errorf("retrieval: no query provided")
	}
	limit := intArg(args, "limit", 5)
	useFilter := true
	if v, ok := args["use_metadata_filter"].(bool); ok {
		useFilter = v
	}

	docs, err := t.Search(ctx, query, limit, useFilter)
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(docs)
	if err != nil {
		return "", fmt.Errorf("marshal retrieval results: %w", err)
	}
	return string(raw), nil
}

func (t *RetrievalTool) Search(ctx context.Context, query string, limit int, useFilter bool) ([]retrievedDoc, error) {
	var filter *qdrant.Filter
	if useFilter && t.selector != nil {
		subset := t.selector.Select(ctx, query, 5)
		filter = buildFilter(subset)
	}

	vector, err := t.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	points, err := t.qdrant.Query(ctx, &qdrant.QueryPoints{
		CollectionName: t.collection,
		Query:          qdrant.NewQuery(vector...),
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant query: %w", err)
	}

	docs := make([]retrievedDoc, 0, len(points))
	for _, p := range points {
		payload := payloadToMap(p.Payload)
		text, _ := payload["text"].(string)
		docs = append(docs, retrievedDoc{
			ID:       pointIDString(p.Id),
			Score:    p.Score,
			Text:     text,
			Metadata: payload,
		})
	}
	return docs, nil
}

// buildFilter turns selected metadata pairs into an OR filter over the
// indexed payload fields.
func buildFilter(subset []map[string]any) *qdrant.Filter {
	var conditions []*qdrant.Condition
	for _, entry := range subset {
		for key, value := range entry {
			if !indexedFields[key] {
				continue
			}
			if list, ok := value.([]any); ok && len(list) == 1 {
				value = list[0]
			}
			switch v := value.(type) {
			case string:
				conditions = append(conditions, qdrant.NewMatch(key, v))
			case bool:
				conditions = append(conditions, qdrant.NewMatchBool(key, v))
			case float64:
				conditions = append(conditions, qdrant.NewMatchInt(key, int64(v)))
			case int:
				conditions = append(conditions, qdrant.NewMatchInt(key, int64(v)))
			}
		}
	}
	if len(conditions) == 0 {
		return nil
	}
	return &qdrant.Filter{Should: conditions}
}

func payloadToMap(payload map[string]*qdrant.Value) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = valueToAny(v)
	}
	return out
}

func valueToAny(v *qdrant.Value) any {
	switch kind := v.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_IntegerValue:
		return kind.IntegerValue
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	case *qdrant.Value_ListValue:
		items := kind.ListValue.GetValues()
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = valueToAny(item)
		}
		return out
	case *qdrant.Value_StructValue:
		return payloadToMap(kind.StructValue.GetFields())
	default:
		return nil
	}
}

func pointIDString(id *qdrant.PointId) string {
	if id == nil {
		return ""
	}
	if uuid := id.GetUuid(); uuid != "" {
		return uuid
	}
	return strconv.FormatUint(id.GetNum(), 10)
}
