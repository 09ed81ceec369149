package llm

import "context"

// Client abstracts the external text-generation capability that translates a
// tool definition into a SQL fragment. Implementations may fail transiently;
// callers own the retry policy.
type Client interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}
