package compiler

import (
	"fmt"
	"strings"

	"github.com/queryweave/queryweave/engine/schema"
	"github.com/queryweave/queryweave/engine/workflow"
)

// sourcePlaceholder names the first tool's input in translation prompts. The
// assembled query never contains it; the first CTE reads from the configured
// source table directly.
const sourcePlaceholder = "initial_data"

// CTEName returns the deterministic name of the CTE at the given 1-based
// position in the sorted tool sequence. Naming follows position, not tool
// ID, so sparse or arbitrary IDs never leak into the query.
func CTEName(position int) string {
	return fmt.Sprintf("cte_%d", position)
}

// Step is one compiled tool: its fragment, its CTE name, and the schema
// snapshots before and after the tool.
type Step struct {
	Tool         workflow.Tool
	Fragment     Fragment
	CTEName      string
	InputSchema  schema.Schema
	OutputSchema schema.Schema
}

// Assembler folds generated fragments into the final statement.
type Assembler struct {
	// SourceTable is the FROM target of the first CTE.
	SourceTable string
	// ViewName, when set, wraps the statement in CREATE OR REPLACE VIEW.
	ViewName string
}

// Assemble emits one WITH block per step and the terminal SELECT over the
// final schema. The terminal column list comes from finalSchema so the
// query's output exactly matches the propagated schema.
func (a *Assembler) Assemble(steps []Step, finalSchema schema.Schema) (string, error) {
	if len(steps) == 0 {
		return "", ErrEmptyPipeline
	}
	if strings.TrimSpace(a.SourceTable) == "" {
		return "", fmt.Errorf("%w: nothing to substitute for %q", ErrUnresolvedSourceTable, sourcePlaceholder)
	}

	blocks := make([]string, 0, len(steps))
	// The first block reads from the resolved source table directly. Building
	// it in place keeps fragments that happen to echo the placeholder intact.
	previous := fmt.Sprintf("`%s`", a.SourceTable)
	for _, step := range steps {
		switch step.Tool.Kind {
		case workflow.KindSelect:
			// The fragment is the full SELECT list; only the FROM clause is
			// supplied here.
			blocks = append(blocks, fmt.Sprintf(
				"WITH %s AS (\n    %s\nFROM %s\n)",
				step.CTEName, step.Fragment.SQL, previous,
			))
		case workflow.KindFilter:
			columns := strings.Join(step.OutputSchema.Names(), ", ")
			blocks = append(blocks, fmt.Sprintf(
				"WITH %s AS (\n    SELECT %s\n    FROM %s\n    %s\n)",
				step.CTEName, columns, previous, step.Fragment.SQL,
			))
		default:
			return "", fmt.Errorf("cannot assemble tool kind %q", step.Tool.Kind)
		}
		previous = step.CTEName
	}

	body := strings.Join(blocks, "\n\n")
	query := fmt.Sprintf(
		"%s\n\nSELECT\n    %s\nFROM\n    %s;",
		body, strings.Join(finalSchema.Names(), ", "), previous,
	)
	if a.ViewName != "" {
		query = fmt.Sprintf("CREATE OR REPLACE VIEW `%s` AS\n%s", a.ViewName, query)
	}
	return query, nil
}
