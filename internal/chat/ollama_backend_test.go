package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/varsilias/ollama-chat-api/internal/logging"
	"github.com/varsilias/ollama-chat-api/internal/ollama"
	"github.com/varsilias/ollama-chat-api/pkg/types"
)

func TestOllamaBackend_UsesBoundModel(t *testing.T) {
	var models []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Model string `json:"model"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		models = append(models, body.Model)

		switch r.URL.Path {
		case "/api/chat":
			w.Write([]byte(`{"message":{"role":"assistant","content":"hi there"}}`))
		case "/api/generate":
			w.Write([]byte(`{"response":"generated"}`))
		}
	}))
	defer srv.Close()

	b := NewOllamaBackend(ollama.NewClient(srv.URL, 0, logging.Discard()), "llama3.2:1b")
	assert.Equal(t, "llama3.2:1b", b.Model())

	msg, err := b.Chat(context.Background(), []types.Message{{Role: types.RoleUser, Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "hi there", msg.Content)

	out, err := b.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "generated", out)

	assert.Equal(t, []string{"llama3.2:1b", "llama3.2:1b"}, models)
}
