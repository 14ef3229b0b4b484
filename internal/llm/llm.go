// Package llm abstracts the language model behind a pull-based token stream.
package llm

import "context"

// Role identifies the author of a prompt message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a chat prompt.
type Message struct {
	Role    Role
	Content string
}

// TokenStream yields text fragments in arrival order. Next returns io.EOF once
// the model has finished.
type TokenStream interface {
	Next(ctx context.Context) (string, error)
	Close() error
}

// TokenSource opens a token stream for a prompt.
type TokenSource interface {
	Stream(ctx context.Context, messages []Message) (TokenStream, error)
}

// CompleteOptions tunes a one-shot completion.
type CompleteOptions struct {
	Model       string
	Temperature float64
	// JSON asks the model to answer with a single JSON object.
	JSON bool
}

// Completer produces a whole answer in one call.
type Completer interface {
	Complete(ctx context.Context, messages []Message, opts CompleteOptions) (string, error)
}
