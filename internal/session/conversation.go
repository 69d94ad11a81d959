package session

import (
	"github.com/varsilias/ollama-chat-api/pkg/types"
)

// Conversation is an ordered message buffer. It is a value owned by whoever
// holds it; nothing here is shared between requests.
type Conversation struct {
	messages []types.Message
}

// New starts a conversation, optionally seeded with earlier messages.
func New(msgs ...types.Message) Conversation {
	c := Conversation{}
	for _, m := range msgs {
		c = c.Append(m)
	}
	return c
}

// Append returns a conversation with m added at the end. The receiver is not
// modified.
func (c Conversation) Append(m types.Message) Conversation {
	out := make([]types.Message, len(c.messages), len(c.messages)+1)
	copy(out, c.messages)
	return Conversation{messages: append(out, m)}
}

// Messages returns a copy of the buffered messages.
func (c Conversation) Messages() []types.Message {
	out := make([]types.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c Conversation) Len() int { return len(c.messages) }

// Last returns the most recent message, if any.
func (c Conversation) Last() (types.Message, bool) {
	if len(c.messages) == 0 {
		return types.Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}
