package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/varsilias/ollama-chat-api/internal/buildinfo"
	"github.com/varsilias/ollama-chat-api/internal/chat"
	"github.com/varsilias/ollama-chat-api/internal/middleware"
	"github.com/varsilias/ollama-chat-api/internal/models"
	"github.com/varsilias/ollama-chat-api/internal/render"
	"github.com/varsilias/ollama-chat-api/internal/session"
	"github.com/varsilias/ollama-chat-api/pkg/types"
	"github.com/varsilias/ollama-chat-api/pkg/utils"
)

const (
	WelcomeMessage = "Welcome to Chat API"

	msgRequired    = "Message is required"
	msgInvalidJSON = "invalid json"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

var errInvalidJSON = errors.New("invalid json")

type Handlers struct {
	log    *slog.Logger
	chat   *chat.Controller
	models models.Manager
	md     *render.Markdown
}

func NewHandlers(log *slog.Logger, chatCtrl *chat.Controller, manager models.Manager, md *render.Markdown) *Handlers {
	return &Handlers{
		log:    log,
		chat:   chatCtrl,
		models: manager,
		md:     md,
	}
}

// Welcome GET /
func (h *Handlers) Welcome(w http.ResponseWriter, r *http.Request) {
	utils.Text(w, http.StatusOK, WelcomeMessage)
}

// Health is a basic liveness endpoint.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]any{
		"status":    true,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handlers) Version(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]any{
		"version":  buildinfo.Version,
		"commit":   buildinfo.Commit,
		"built_at": buildinfo.BuiltAt,
	})
}

// ListModels GET /api/models
func (h *Handlers) ListModels(w http.ResponseWriter, r *http.Request) {
	names, err := h.models.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{"models": names})
}

// Stylesheet GET /assets/chroma.css serves the code highlighting classes used
// by HTML replies.
func (h *Handlers) Stylesheet(w http.ResponseWriter, r *http.Request) {
	css, err := h.md.CSS()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(css)
}

// Chat POST /chat runs a single-turn conversation. Every request starts a
// fresh conversation.
func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	msg, err := decodeMessage(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	_, reply, err := h.chat.Chat(r.Context(), session.New(), msg)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.reply(w, r, reply.Content)
}

// ChatCompletions POST /chat-completions answers through the question prompt.
func (h *Handlers) ChatCompletions(w http.ResponseWriter, r *http.Request) {
	msg, err := decodeMessage(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	out, err := h.chat.Complete(r.Context(), msg)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.reply(w, r, out)
}

func decodeMessage(w http.ResponseWriter, r *http.Request) (string, error) {
	var req types.ChatRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		// an empty body carries no message
		if errors.Is(err, io.EOF) {
			return "", chat.ErrMessageRequired
		}
		return "", errInvalidJSON
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return "", errInvalidJSON
	}
	return messageText(req.Message)
}

// messageText turns the raw "message" value into user text. Falsy values
// (missing, null, false, 0, "") count as no message; any other value is
// forwarded, non-strings as their JSON text.
func messageText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", chat.ErrMessageRequired
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", errInvalidJSON
		}
		if s == "" {
			return "", chat.ErrMessageRequired
		}
		return s, nil
	case 'n', 'f':
		// null, false
		return "", chat.ErrMessageRequired
	case 't', '{', '[':
		return string(raw), nil
	default:
		n, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return "", errInvalidJSON
		}
		if n == 0 {
			return "", chat.ErrMessageRequired
		}
		return string(raw), nil
	}
}

// reply writes the model output as {"reply": ...}, or as rendered HTML when
// the client prefers text/html.
func (h *Handlers) reply(w http.ResponseWriter, r *http.Request, text string) {
	if !wantsHTML(r.Header.Get("Accept")) {
		utils.JSON(w, http.StatusOK, types.ChatResponse{Reply: text})
		return
	}
	html, err := h.md.HTML(text)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.HTML(w, http.StatusOK, html)
}

// fail maps err to a response. Anything that is not a client mistake is
// logged and reported with a generic message.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, chat.ErrMessageRequired):
		utils.Error(w, http.StatusBadRequest, msgRequired)
	case errors.Is(err, errInvalidJSON):
		utils.Error(w, http.StatusBadRequest, msgInvalidJSON)
	default:
		h.log.Error("request failed",
			"path", r.URL.Path,
			"req_id", middleware.GetRequestID(r.Context()),
			"err", err,
		)
		utils.Error(w, http.StatusInternalServerError, middleware.GenericError)
	}
}

// wantsHTML reports whether text/html is listed before application/json in
// an Accept header.
func wantsHTML(accept string) bool {
	for _, part := range strings.Split(accept, ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		switch mt {
		case "text/html":
			return true
		case "application/json":
			return false
		}
	}
	return false
}
