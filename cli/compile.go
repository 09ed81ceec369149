package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/queryweave/queryweave/engine/compiler"
	"github.com/queryweave/queryweave/engine/llm"
	"github.com/queryweave/queryweave/pkg/logger"
)

func compileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [workflow-file]",
		Short: "Compile a workflow file (or stdin) and print the SQL",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCompile,
	}
	cmd.Flags().StringP("output", "o", "", "write the SQL to a file instead of stdout")
	return cmd
}

func runCompile(cmd *cobra.Command, args []string) error {
	cfg, ctx, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	markup, err := readWorkflow(cmd, args)
	if err != nil {
		return err
	}

	client, err := llm.NewClient(ctx, &cfg.LLM)
	if err != nil {
		return fmt.Errorf("create translation client: %w", err)
	}
	compilerCfg, err := cfg.CompilerConfig()
	if err != nil {
		return err
	}

	result, err := compiler.New(client, compilerCfg).Compile(ctx, markup)
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Info("workflow compiled",
		"steps", len(result.Steps),
		"columns", len(result.FinalSchema),
	)

	return writeQuery(cmd, result.Query)
}

func readWorkflow(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read workflow file: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read workflow from stdin: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("no workflow markup provided: pass a file or pipe markup on stdin")
	}
	return string(data), nil
}

func writeQuery(cmd *cobra.Command, query string) error {
	out, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("read output flag: %w", err)
	}
	if out == "" {
		fmt.Fprintln(cmd.OutOrStdout(), query)
		return nil
	}
	if err := os.WriteFile(out, []byte(query+"\n"), 0o644); err != nil {
		return fmt.Errorf("write query to %s: %w", out, err)
	}
	return nil
}
