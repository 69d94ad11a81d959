package models

import (
	"context"
	"strings"

	"github.com/varsilias/ollama-chat-api/internal/ollama"
)

type OllamaManager struct{ c *ollama.Client }

func NewOllamaManager(c *ollama.Client) *OllamaManager { return &OllamaManager{c: c} }

func (m *OllamaManager) List(ctx context.Context) ([]string, error) {
	items, err := m.c.Tags(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out, nil
}

// Healthy reports whether model is present locally. A name without a tag
// matches the ":latest" tag, the same way Ollama resolves it.
func (m *OllamaManager) Healthy(ctx context.Context, model string) error {
	items, err := m.c.Tags(ctx)
	if err != nil {
		return err
	}
	want := normalize(model)
	for _, it := range items {
		if normalize(it.Name) == want {
			return nil
		}
	}
	return ErrUnknownModel
}

func (m *OllamaManager) Pull(ctx context.Context, model string) error {
	return m.c.Pull(ctx, model)
}

func normalize(name string) string {
	if !strings.Contains(name, ":") {
		return name + ":latest"
	}
	return name
}
