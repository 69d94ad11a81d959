package chat

import (
	"context"

	"github.com/varsilias/ollama-chat-api/internal/prompt"
)

// QuestionPrompt is the template used by the completions endpoint.
const QuestionPrompt = "You are a helpful assistant. Answer the following question: {question}"

// Chain formats a prompt template and hands the result to a backend,
// returning the generated text as is.
type Chain struct {
	tpl     *prompt.Template
	backend Backend
}

func NewChain(tpl *prompt.Template, backend Backend) *Chain {
	return &Chain{tpl: tpl, backend: backend}
}

// NewQuestionChain builds the chain around QuestionPrompt.
func NewQuestionChain(backend Backend) *Chain {
	return NewChain(prompt.MustFromTemplate(QuestionPrompt), backend)
}

func (ch *Chain) Invoke(ctx context.Context, vars map[string]string) (string, error) {
	p, err := ch.tpl.Format(vars)
	if err != nil {
		return "", err
	}
	return ch.backend.Generate(ctx, p)
}
