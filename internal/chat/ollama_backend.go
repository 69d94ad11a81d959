package chat

import (
	"context"

	"github.com/varsilias/ollama-chat-api/internal/ollama"
	"github.com/varsilias/ollama-chat-api/pkg/types"
)

// OllamaBackend binds an Ollama client to one model.
type OllamaBackend struct {
	c     *ollama.Client
	model string
}

func NewOllamaBackend(c *ollama.Client, model string) *OllamaBackend {
	return &OllamaBackend{c: c, model: model}
}

func (b *OllamaBackend) Model() string { return b.model }

func (b *OllamaBackend) Chat(ctx context.Context, messages []types.Message) (types.Message, error) {
	return b.c.Chat(ctx, b.model, messages)
}

func (b *OllamaBackend) Generate(ctx context.Context, prompt string) (string, error) {
	return b.c.Generate(ctx, b.model, prompt)
}
