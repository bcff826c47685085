package indexer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"agri-curator/internal/llm"
)

// DocumentMetadata is what the tagging model is asked to produce for each
// document. Fields mirror the payload indexes kept in the vector store.
type DocumentMetadata struct {
	DocumentType string   `json:"document_type"`
	KeyEntities  []string `json:"key_entities"`
	Topics       []string `json:"topics"`
	Year         int      `json:"year"`
}

const metadataPrompt = `You are a document analyst for an agriculture and farming knowledge system.

Read the following document excerpt and produce metadata describing it.

<document filename="%s">
%s
</document>

Return ONLY a JSON object with exactly these fields:
- "document_type": one short label such as "government_report", "scheme_guideline", "research_paper", "advisory", "market_bulletin"
- "key_entities": list of organizations, schemes, crops or regions named in the document
- "topics": list of 3-6 short topic labels
- "year": the publication year as an integer, or 0 if it cannot be determined

Do not include any explanation or extra text.`

// tagDocument asks the model for document metadata based on the first part
// of the text. Failures degrade to minimal metadata rather than aborting
// the indexing run.
func tagDocument(ctx context.Context, client llm.Client, filename, text string) DocumentMetadata {
	excerpt := text
	if len(excerpt) > 6000 {
		excerpt = excerpt[:6000]
	}
	fallback := DocumentMetadata{DocumentType: "document", Topics: []string{"agriculture"}}

	resp, err := client.Generate(ctx, []llm.Message{{
		Role:    llm.RoleUser,
		Content: fmt.Sprintf(metadataPrompt, filename, excerpt),
	}})
	if err != nil {
		return fallback
	}

	var meta DocumentMetadata
	if err := json.Unmarshal([]byte(stripFences(resp.Content)), &meta); err != nil {
		return fallback
	}
	if meta.DocumentType == "" {
		meta.DocumentType = "document"
	}
	return meta
}

func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
