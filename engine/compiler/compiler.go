// Package compiler turns a parsed workflow into a single SQL statement built
// from chained CTEs. Each tool's fragment is obtained from the translation
// client against the schema visible before the tool runs; the assembler then
// wires the fragments together.
package compiler

import (
	"context"
	"fmt"
	"strings"

	"github.com/queryweave/queryweave/engine/llm"
	"github.com/queryweave/queryweave/engine/schema"
	"github.com/queryweave/queryweave/engine/workflow"
	"github.com/queryweave/queryweave/pkg/logger"
)

// Config carries the per-deployment inputs of a compilation: where the data
// lives, its initial shape, and how hard to retry translation calls.
type Config struct {
	SourceTable  string
	SourceSchema schema.Schema
	ViewName     string
	Retry        RetryPolicy
}

// Result is a successful compilation: the final statement plus the per-tool
// trace that produced it.
type Result struct {
	Query       string
	Steps       []Step
	FinalSchema schema.Schema
}

// Compiler drives parse, schema propagation, fragment generation, and
// assembly for one workflow document. It holds no per-request state and is
// safe for concurrent use.
type Compiler struct {
	generator *FragmentGenerator
	assembler *Assembler
	source    schema.Schema
}

func New(client llm.Client, cfg Config) *Compiler {
	return &Compiler{
		generator: NewFragmentGenerator(client, cfg.Retry),
		assembler: &Assembler{SourceTable: cfg.SourceTable, ViewName: cfg.ViewName},
		source:    cfg.SourceSchema.Clone(),
	}
}

// Compile runs the whole pipeline. Tools execute strictly in ascending ID
// order; the first failure aborts the run and is returned verbatim, never a
// partial query.
func (c *Compiler) Compile(ctx context.Context, markup string) (*Result, error) {
	log := logger.FromContext(ctx)

	tools, err := workflow.Parse(markup)
	if err != nil {
		return nil, err
	}

	steps := make([]Step, 0, len(tools))
	current := c.source.Clone()
	currentCTE := sourcePlaceholder
	for i, tool := range tools {
		if tool.Kind == workflow.KindFilter && strings.TrimSpace(tool.Expression) == "" {
			return nil, fmt.Errorf("%w: tool %d", ErrEmptyFilterExpression, tool.ID)
		}

		// Schema propagation and fragment generation both see the same
		// pre-tool snapshot.
		output, err := schema.Apply(current, tool)
		if err != nil {
			return nil, err
		}
		fragment, err := c.generator.Generate(ctx, tool, current, currentCTE)
		if err != nil {
			return nil, err
		}

		step := Step{
			Tool:         tool,
			Fragment:     fragment,
			CTEName:      CTEName(i + 1),
			InputSchema:  current,
			OutputSchema: output,
		}
		steps = append(steps, step)
		log.Debug("compiled tool",
			"tool", tool.ID,
			"kind", tool.Kind,
			"cte", step.CTEName,
			"columns", len(output),
		)

		current = output
		currentCTE = step.CTEName
	}

	query, err := c.assembler.Assemble(steps, current)
	if err != nil {
		return nil, err
	}
	log.Info("workflow compiled", "tools", len(steps), "columns", len(current))
	return &Result{Query: query, Steps: steps, FinalSchema: current}, nil
}
