package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/varsilias/ollama-chat-api/pkg/types"
)

func TestConversation_AppendKeepsOrder(t *testing.T) {
	c := New()
	assert.Zero(t, c.Len())
	_, ok := c.Last()
	assert.False(t, ok)

	c = c.Append(types.Message{Role: types.RoleUser, Content: "hi"})
	c = c.Append(types.Message{Role: types.RoleAssistant, Content: "hello"})

	require.Equal(t, 2, c.Len())
	assert.Equal(t, []types.Message{
		{Role: types.RoleUser, Content: "hi"},
		{Role: types.RoleAssistant, Content: "hello"},
	}, c.Messages())

	last, ok := c.Last()
	require.True(t, ok)
	assert.Equal(t, "hello", last.Content)
}

func TestConversation_AppendDoesNotMutateReceiver(t *testing.T) {
	base := New(types.Message{Role: types.RoleUser, Content: "one"})

	a := base.Append(types.Message{Role: types.RoleAssistant, Content: "a"})
	b := base.Append(types.Message{Role: types.RoleAssistant, Content: "b"})

	assert.Equal(t, 1, base.Len())
	assert.Equal(t, "a", a.Messages()[1].Content)
	assert.Equal(t, "b", b.Messages()[1].Content)
}

func TestConversation_MessagesIsACopy(t *testing.T) {
	c := New(types.Message{Role: types.RoleUser, Content: "hi"})

	msgs := c.Messages()
	msgs[0].Content = "changed"

	assert.Equal(t, "hi", c.Messages()[0].Content)
}
