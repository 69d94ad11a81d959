package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTML_BasicMarkdown(t *testing.T) {
	m := NewMarkdown(DefaultStyle)

	out, err := m.HTML("# Answer\n\nIt is **4**.")
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "<h1")
	assert.Contains(t, s, "Answer</h1>")
	assert.Contains(t, s, "<strong>4</strong>")
}

func TestHTML_HighlightsCodeWithClasses(t *testing.T) {
	m := NewMarkdown(DefaultStyle)

	out, err := m.HTML("```go\nfunc main() {}\n```")
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, `class="chroma"`)
	assert.Contains(t, s, "main")
	assert.NotContains(t, s, "style=")
}

func TestHTML_StripsScripts(t *testing.T) {
	m := NewMarkdown(DefaultStyle)

	out, err := m.HTML("hello <script>alert(1)</script> <a href=\"javascript:alert(1)\">x</a> <img src=x onerror=alert(1)>")
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "hello")
	assert.NotContains(t, s, "<script")
	assert.NotContains(t, s, "javascript:")
	assert.NotContains(t, s, "onerror")
}

func TestHTML_LinksAreNofollow(t *testing.T) {
	m := NewMarkdown(DefaultStyle)

	out, err := m.HTML("[docs](https://ollama.com)")
	require.NoError(t, err)
	assert.Contains(t, string(out), `rel="nofollow"`)
}

func TestCSS(t *testing.T) {
	css, err := NewMarkdown(DefaultStyle).CSS()
	require.NoError(t, err)
	assert.Contains(t, string(css), ".chroma")

	// unknown style falls back rather than failing
	css, err = NewMarkdown("no-such-style").CSS()
	require.NoError(t, err)
	assert.NotEmpty(t, css)
}
