package compiler

import "errors"

// Sentinel errors surfaced by the compilation pipeline. Callers classify
// failures with errors.Is; parsing and schema errors carry their own
// sentinels (workflow.ErrMalformedMarkup, schema.ErrUnknownColumn).
var (
	// ErrTranslationExhausted marks a translation call that failed past the
	// retry ceiling.
	ErrTranslationExhausted = errors.New("translation capability exhausted retries")
	// ErrUnresolvedSourceTable marks assembly without a configured source
	// table to substitute for the first CTE's placeholder.
	ErrUnresolvedSourceTable = errors.New("source table is not configured")
	// ErrEmptyPipeline marks a workflow with no compilable tools.
	ErrEmptyPipeline = errors.New("workflow contains no compilable tools")
	// ErrEmptyFilterExpression marks a Filter tool with a blank expression,
	// which would otherwise compile into an invalid WHERE clause.
	ErrEmptyFilterExpression = errors.New("filter tool has an empty expression")
)
