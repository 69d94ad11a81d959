package chat

import (
	"context"
	"time"

	"github.com/varsilias/ollama-chat-api/pkg/types"
)

// Backend is the inference service behind both endpoints.
type Backend interface {
	// Chat answers the last message of a conversation given all of it.
	Chat(ctx context.Context, messages []types.Message) (types.Message, error)
	// Generate completes a single prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}

// EchoBackend answers without a model: Chat repeats the last message and
// Generate returns the prompt unchanged.
type EchoBackend struct {
	minLatency time.Duration
}

func NewEchoBackend(minLatency time.Duration) *EchoBackend {
	return &EchoBackend{minLatency: minLatency}
}

func (e *EchoBackend) Chat(ctx context.Context, messages []types.Message) (types.Message, error) {
	if err := e.wait(ctx); err != nil {
		return types.Message{}, err
	}
	var text string
	if n := len(messages); n > 0 {
		text = messages[n-1].Content
	}
	return types.Message{Role: types.RoleAssistant, Content: text}, nil
}

func (e *EchoBackend) Generate(ctx context.Context, prompt string) (string, error) {
	if err := e.wait(ctx); err != nil {
		return "", err
	}
	return prompt, nil
}

func (e *EchoBackend) wait(ctx context.Context) error {
	if e.minLatency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(e.minLatency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
