package compiler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/queryweave/queryweave/engine/llm"
	"github.com/queryweave/queryweave/engine/schema"
	"github.com/queryweave/queryweave/engine/workflow"
	"github.com/queryweave/queryweave/pkg/logger"
)

const (
	defaultMaxAttempts = 5
	defaultBackoffBase = time.Second
	defaultBackoffMax  = 30 * time.Second
)

// RetryPolicy bounds the retries around one translation call. The backoff
// doubles after every failed attempt; state is local to a single call, there
// is no shared rate-limit bookkeeping across tools.
type RetryPolicy struct {
	MaxAttempts int
	BackoffBase time.Duration
	// BackoffMax caps each individual wait, so MaxAttempts is always honored
	// regardless of how long the cumulative backoff runs.
	BackoffMax time.Duration
	Jitter     bool
}

// DefaultRetryPolicy mirrors the service defaults: five attempts with an
// exponential backoff starting at one second.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: defaultMaxAttempts,
		BackoffBase: defaultBackoffBase,
		BackoffMax:  defaultBackoffMax,
	}
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts <= 0 {
		return defaultMaxAttempts
	}
	return p.MaxAttempts
}

// Backoff materializes the policy into a fresh backoff sequence.
func (p RetryPolicy) Backoff() retry.Backoff {
	base := p.BackoffBase
	if base <= 0 {
		base = defaultBackoffBase
	}
	backoff := retry.NewExponential(base)
	if p.BackoffMax > 0 {
		backoff = retry.WithCappedDuration(p.BackoffMax, backoff)
	}
	if p.Jitter {
		backoff = retry.WithJitter(50*time.Millisecond, backoff)
	}
	return retry.WithMaxRetries(uint64(p.attempts()-1), backoff) // #nosec G115 -- attempts() is positive
}

// Fragment is the SQL text produced for one tool, paired with the tool's ID
// for traceability.
type Fragment struct {
	ToolID int
	SQL    string
}

// FragmentGenerator obtains the SQL fragment for a single tool from the
// translation client, retrying transient failures.
type FragmentGenerator struct {
	client llm.Client
	policy RetryPolicy
}

func NewFragmentGenerator(client llm.Client, policy RetryPolicy) *FragmentGenerator {
	return &FragmentGenerator{client: client, policy: policy}
}

// Generate builds the tool's prompt from the pre-tool schema snapshot and
// invokes the translation client under the retry policy. Exhausting the
// attempt budget yields ErrTranslationExhausted; context cancellation is
// surfaced as-is.
func (g *FragmentGenerator) Generate(
	ctx context.Context,
	tool workflow.Tool,
	input schema.Schema,
	cteName string,
) (Fragment, error) {
	log := logger.FromContext(ctx)
	prompt, err := BuildPrompt(tool, input, cteName)
	if err != nil {
		return Fragment{}, err
	}

	var text string
	attempt := 0
	err = retry.Do(ctx, g.policy.Backoff(), func(ctx context.Context) error {
		attempt++
		out, callErr := g.client.GenerateText(ctx, prompt)
		if callErr != nil {
			if ctx.Err() != nil {
				return callErr
			}
			log.Debug("translation call failed",
				"tool", tool.ID,
				"attempt", attempt,
				"error", callErr,
			)
			return retry.RetryableError(callErr)
		}
		text = out
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Fragment{}, fmt.Errorf("translation aborted for tool %d: %w", tool.ID, ctxErr)
		}
		return Fragment{}, fmt.Errorf(
			"%w: tool %d failed after %d attempts: %v",
			ErrTranslationExhausted, tool.ID, attempt, err,
		)
	}
	return Fragment{ToolID: tool.ID, SQL: stripFences(text)}, nil
}

// stripFences removes markdown-style code fences the model may wrap the
// fragment in.
func stripFences(text string) string {
	text = strings.ReplaceAll(text, "```sql", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}
