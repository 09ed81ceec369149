// Package cli wires the command-line surface: a compile command for one-shot
// translation and a serve command for the HTTP API.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/queryweave/queryweave/pkg/config"
	"github.com/queryweave/queryweave/pkg/logger"
)

// RootCmd builds the queryweave command tree.
func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "queryweave",
		Short:         "Compile workflow markup into a single SQL statement",
		Long:          "QueryWeave parses data-transformation workflow markup, tracks the column schema through each tool, and uses a language model to assemble one CTE-chained SQL statement.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("config", "", "path to the configuration file")
	cmd.PersistentFlags().String("source-table", "", "fully qualified source table")
	cmd.PersistentFlags().String("source-view", "", "wrap the query in CREATE OR REPLACE VIEW for this view name")
	cmd.PersistentFlags().String("provider", "", "translation provider (google, vertex, openai, ollama, mock)")
	cmd.PersistentFlags().String("model", "", "model name for the translation provider")
	cmd.PersistentFlags().String("api-key", "", "API key for the translation provider")
	cmd.PersistentFlags().String("project", "", "cloud project for the vertex provider")
	cmd.PersistentFlags().String("region", "", "cloud region for the vertex provider")
	cmd.PersistentFlags().Int("max-attempts", 0, "maximum translation attempts per tool")
	cmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().Bool("log-json", false, "emit logs as JSON")
	cmd.PersistentFlags().String("host", "", "server bind host")
	cmd.PersistentFlags().Int("port", 0, "server bind port")

	cmd.AddCommand(compileCmd(), serveCmd())
	return cmd
}

// loadConfig resolves the effective configuration for a command and returns
// it with a context carrying a configured logger.
func loadConfig(cmd *cobra.Command) (*config.Config, context.Context, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, fmt.Errorf("read config flag: %w", err)
	}
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	log := logger.NewLogger(cfg.LoggerConfig())
	ctx := logger.ContextWithLogger(cmd.Context(), log)
	return cfg, ctx, nil
}
