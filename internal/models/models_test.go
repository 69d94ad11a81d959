package models

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/varsilias/ollama-chat-api/internal/logging"
	"github.com/varsilias/ollama-chat-api/internal/ollama"
)

func TestStaticManager(t *testing.T) {
	m := NewStaticManager([]string{"llama3.2:1b", "mistral"})

	names, err := m.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"llama3.2:1b", "mistral"}, names)

	assert.NoError(t, m.Healthy(context.Background(), "mistral"))
	assert.ErrorIs(t, m.Healthy(context.Background(), "phi3"), ErrUnknownModel)
}

// fakeOllama serves /api/tags from a mutable list and adds pulled models to it.
func fakeOllama(t *testing.T, tags *atomic.Value, pulls *atomic.Int32) *ollama.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/version":
			w.Write([]byte(`{"version":"test"}`))
		case "/api/tags":
			w.Write([]byte(tags.Load().(string)))
		case "/api/pull":
			pulls.Add(1)
			tags.Store(`{"models":[{"name":"llama3.2:1b"}]}`)
			w.Write([]byte(`{"status":"success"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return ollama.NewClient(srv.URL, 0, logging.Discard())
}

func TestOllamaManager_HealthyMatchesLatestTag(t *testing.T) {
	var tags atomic.Value
	var pulls atomic.Int32
	tags.Store(`{"models":[{"name":"mistral:latest"},{"name":"llama3.2:1b"}]}`)
	m := NewOllamaManager(fakeOllama(t, &tags, &pulls))

	ctx := context.Background()
	names, err := m.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"mistral:latest", "llama3.2:1b"}, names)

	assert.NoError(t, m.Healthy(ctx, "mistral"))
	assert.NoError(t, m.Healthy(ctx, "llama3.2:1b"))
	assert.ErrorIs(t, m.Healthy(ctx, "llama3.2:3b"), ErrUnknownModel)
}

func TestEnsure_PullsMissingModel(t *testing.T) {
	var tags atomic.Value
	var pulls atomic.Int32
	tags.Store(`{"models":[]}`)
	m := NewOllamaManager(fakeOllama(t, &tags, &pulls))

	require.NoError(t, Ensure(context.Background(), m, "llama3.2:1b", true, logging.Discard()))
	assert.Equal(t, int32(1), pulls.Load())

	// present now, so no second pull
	require.NoError(t, Ensure(context.Background(), m, "llama3.2:1b", true, logging.Discard()))
	assert.Equal(t, int32(1), pulls.Load())
}

func TestEnsure_WithoutPull(t *testing.T) {
	var tags atomic.Value
	var pulls atomic.Int32
	tags.Store(`{"models":[]}`)
	m := NewOllamaManager(fakeOllama(t, &tags, &pulls))

	err := Ensure(context.Background(), m, "llama3.2:1b", false, logging.Discard())
	assert.ErrorIs(t, err, ErrUnknownModel)
	assert.Zero(t, pulls.Load())

	// static managers cannot pull
	err = Ensure(context.Background(), NewStaticManager(nil), "x", true, logging.Discard())
	assert.ErrorIs(t, err, ErrUnknownModel)
}

type flakyPinger struct{ failures atomic.Int32 }

func (p *flakyPinger) Ping(context.Context) error {
	if p.failures.Add(-1) >= 0 {
		return errors.New("connection refused")
	}
	return nil
}

func TestWaitReady_RetriesUntilReachable(t *testing.T) {
	p := &flakyPinger{}
	p.failures.Store(2)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := WaitReady(ctx, p, NewStaticManager([]string{"m"}), []string{"m"}, 10*time.Millisecond, logging.Discard())
	require.NoError(t, err)
}

func TestWaitReady_TimesOut(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := WaitReady(ctx, &flakyPinger{}, NewStaticManager(nil), []string{"missing"}, 10*time.Millisecond, logging.Discard())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "model not present yet")
}
