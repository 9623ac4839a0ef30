package llm

import (
	"context"

	"github.com/openai/openai-go/v3"
)

// Provider runs one chat-completion round against the model: the full
// conversation plus the tool schema catalog in, an assistant message with
// optional tool calls out.
type Provider interface {
	Chat(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion, tools []openai.ChatCompletionToolUnionParam) (*openai.ChatCompletion, error)
}
