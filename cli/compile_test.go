package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const selectOnlyWorkflow = `<Workflow>
  <Node ToolID="1" Type="Select">
    <Configuration>
      <Fields>
        <Field Name="OrderID" Selected="True" Rename="transaction_id" />
      </Fields>
    </Configuration>
  </Node>
</Workflow>`

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := RootCmd()
	cmd.SetIn(strings.NewReader(stdin))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCompileCommand(t *testing.T) {
	t.Run("Should compile markup from stdin with the mock provider", func(t *testing.T) {
		out, err := runCLI(t, selectOnlyWorkflow,
			"compile", "--provider", "mock", "--source-table", "proj.ds.orders", "--log-level", "error")
		require.NoError(t, err)
		assert.Contains(t, out, "WITH cte_1 AS (")
		assert.Contains(t, out, "FROM `proj.ds.orders`")
	})
	t.Run("Should compile a workflow file and honor the output flag", func(t *testing.T) {
		dir := t.TempDir()
		in := filepath.Join(dir, "workflow.xml")
		require.NoError(t, os.WriteFile(in, []byte(selectOnlyWorkflow), 0o644))
		outFile := filepath.Join(dir, "query.sql")

		_, err := runCLI(t, "",
			"compile", in, "-o", outFile,
			"--provider", "mock", "--source-table", "proj.ds.orders", "--log-level", "error")
		require.NoError(t, err)

		data, err := os.ReadFile(outFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), "FROM `proj.ds.orders`")
	})
	t.Run("Should fail when stdin is empty and no file is given", func(t *testing.T) {
		_, err := runCLI(t, "",
			"compile", "--provider", "mock", "--source-table", "proj.ds.orders", "--log-level", "error")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no workflow markup")
	})
	t.Run("Should surface malformed markup as a command error", func(t *testing.T) {
		_, err := runCLI(t, "<Workflow><Node>",
			"compile", "--provider", "mock", "--source-table", "proj.ds.orders", "--log-level", "error")
		require.Error(t, err)
	})
	t.Run("Should reject an unknown provider before reading input", func(t *testing.T) {
		_, err := runCLI(t, selectOnlyWorkflow,
			"compile", "--provider", "carrier-pigeon", "--source-table", "t")
		require.Error(t, err)
	})
}
