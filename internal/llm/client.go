package llm

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one role-tagged entry of a conversation. Name is optional and
// carries the tool name for tool-result messages.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Name    string `json:"name,omitempty"`
}

type Response struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

type Client interface {
	Generate(ctx context.Context, messages []Message) (Response, error)
}

// VisionClient is implemented by providers that accept an inline image
// alongside the text prompt.
type VisionClient interface {
	GenerateVision(ctx context.Context, messages []Message, imageB64 string) (Response, error)
}
