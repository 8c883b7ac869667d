// Package llm is the language-model fallback: chat-completion clients and the
// parser for the structured action a model may return.
package llm

import (
	"context"
	"errors"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatModel returns one text completion for an ordered list of messages.
type ChatModel interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

var (
	ErrNotConfigured        = errors.New("language model is not configured")
	ErrEmptyCompletion      = errors.New("language model returned no completion")
	ErrMalformedModelOutput = errors.New("malformed model output")
)
