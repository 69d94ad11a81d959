package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/varsilias/ollama-chat-api/pkg/types"
)

// maxErrorBody caps how much of a failed response body is kept in a StatusError.
const maxErrorBody = 4 << 10

type Client struct {
	baseURL string
	log     *slog.Logger
	client  *http.Client
}

type TagModel struct {
	Name       string    `json:"name"`
	Model      string    `json:"model"`
	Digest     string    `json:"digest"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
	Details    any       `json:"details"`
}

// StatusError is returned when Ollama answers with a non-2xx status.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ollama %s: status %d: %s", e.Op, e.Code, e.Body)
}

// NewClient returns a client for the Ollama API at baseURL. A zero timeout
// means requests are bounded only by their context.
func NewClient(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Ping(ctx context.Context) error {
	var out struct {
		Version string `json:"version"`
	}
	if err := c.do(ctx, "version", http.MethodGet, "/api/version", nil, &out); err != nil {
		return err
	}
	c.log.Debug("ollama ping", "version", out.Version)
	return nil
}

// Chat sends the whole conversation to /api/chat (non-stream) and returns
// the assistant message.
func (c *Client) Chat(ctx context.Context, model string, messages []types.Message) (types.Message, error) {
	payload := map[string]any{"model": model, "messages": messages, "stream": false}
	var out struct {
		Message types.Message `json:"message"`
		Error   string        `json:"error"`
	}
	if err := c.do(ctx, "chat", http.MethodPost, "/api/chat", payload, &out); err != nil {
		return types.Message{}, err
	}
	if out.Error != "" {
		return types.Message{}, fmt.Errorf("ollama chat: %s", out.Error)
	}
	if out.Message.Role == "" {
		out.Message.Role = types.RoleAssistant
	}
	return out.Message, nil
}

// Generate sends a single-turn generation (non-stream) via /api/generate.
func (c *Client) Generate(ctx context.Context, model, prompt string) (string, error) {
	payload := map[string]any{"model": model, "prompt": prompt, "stream": false}
	var out struct {
		Response string `json:"response"`
		Error    string `json:"error"`
	}
	if err := c.do(ctx, "generate", http.MethodPost, "/api/generate", payload, &out); err != nil {
		return "", err
	}
	if out.Error != "" {
		return "", fmt.Errorf("ollama generate: %s", out.Error)
	}
	return out.Response, nil
}

// Tags lists local models via GET /api/tags.
func (c *Client) Tags(ctx context.Context) ([]TagModel, error) {
	var out struct {
		Models []TagModel `json:"models"`
	}
	if err := c.do(ctx, "tags", http.MethodGet, "/api/tags", nil, &out); err != nil {
		return nil, err
	}
	return out.Models, nil
}

// Pull downloads a model locally via POST /api/pull.
func (c *Client) Pull(ctx context.Context, name string) error {
	if name == "" {
		return errors.New("empty model name")
	}
	payload := map[string]any{"name": name, "stream": false}
	var out struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, "pull", http.MethodPost, "/api/pull", payload, &out); err != nil {
		return err
	}
	c.log.Info("ollama pull", "model", name, "status", out.Status)
	return nil
}

func (c *Client) do(ctx context.Context, op, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("ollama %s: encode request: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("ollama %s: %w", op, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama %s: %w", op, err)
	}
	defer res.Body.Close()

	c.log.Debug("ollama call", "op", op, "status", res.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if res.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return &StatusError{Op: op, Code: res.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("ollama %s: decode response: %w", op, err)
	}
	return nil
}
