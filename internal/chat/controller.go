package chat

import (
	"context"
	"log/slog"
	"time"

	"github.com/varsilias/ollama-chat-api/internal/session"
	"github.com/varsilias/ollama-chat-api/pkg/types"
)

type Controller struct {
	log     *slog.Logger
	backend Backend
	chain   *Chain
}

func NewController(log *slog.Logger, backend Backend, chain *Chain) *Controller {
	return &Controller{log: log, backend: backend, chain: chain}
}

// Chat runs one conversational turn: the user input is appended to conv, the
// backend sees the whole conversation, and its reply is appended too. The
// updated conversation is returned; conv itself is left untouched.
func (c *Controller) Chat(ctx context.Context, conv session.Conversation, input string) (session.Conversation, types.Message, error) {
	if input == "" {
		return conv, types.Message{}, ErrMessageRequired
	}

	conv = conv.Append(types.Message{Role: types.RoleUser, Content: input})

	start := time.Now()
	reply, err := c.backend.Chat(ctx, conv.Messages())
	if err != nil {
		return conv, types.Message{}, &BackendError{Op: "chat", Err: err}
	}
	c.log.Debug("chat turn", "messages", conv.Len(), "latency_ms", time.Since(start).Milliseconds())

	conv = conv.Append(reply)
	return conv, reply, nil
}

// Complete answers a single question through the prompt chain.
func (c *Controller) Complete(ctx context.Context, question string) (string, error) {
	if question == "" {
		return "", ErrMessageRequired
	}

	start := time.Now()
	out, err := c.chain.Invoke(ctx, map[string]string{"question": question})
	if err != nil {
		return "", &BackendError{Op: "complete", Err: err}
	}
	c.log.Debug("completion", "latency_ms", time.Since(start).Milliseconds())
	return out, nil
}
