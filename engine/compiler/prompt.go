package compiler

import (
	"fmt"

	"github.com/queryweave/queryweave/engine/schema"
	"github.com/queryweave/queryweave/engine/workflow"
)

const selectPromptTemplate = `You are a SQL agent specialized in converting workflow tools to BigQuery SQL.
Your task is to translate the following 'Select' tool's logic into a single BigQuery SQL SELECT statement.

- Input CTE: %s
- Input Schema: %s
- Tool XML:
%s

Generate only the BigQuery SQL SELECT statement. Do not include the FROM clause or any explanations.`

const filterPromptTemplate = `You are a SQL agent specialized in converting workflow tools to BigQuery SQL.
Your task is to translate the following 'Filter' tool's expression into a BigQuery SQL WHERE clause.

- Input CTE: %s
- Input Schema: %s
- Tool XML:
%s

Generate only the BigQuery SQL WHERE clause, including the 'WHERE' keyword. Do not include any explanations.`

// BuildPrompt renders the translation instruction for one tool against the
// schema and CTE name visible before the tool runs. The tool's raw markup is
// embedded verbatim.
func BuildPrompt(tool workflow.Tool, input schema.Schema, cteName string) (string, error) {
	switch tool.Kind {
	case workflow.KindSelect:
		return fmt.Sprintf(selectPromptTemplate, cteName, input.JSON(), tool.RawMarkup), nil
	case workflow.KindFilter:
		return fmt.Sprintf(filterPromptTemplate, cteName, input.JSON(), tool.RawMarkup), nil
	default:
		return "", fmt.Errorf("no prompt template for tool kind %q", tool.Kind)
	}
}
