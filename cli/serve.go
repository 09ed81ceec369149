package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/queryweave/queryweave/engine/compiler"
	"github.com/queryweave/queryweave/engine/llm"
	"github.com/queryweave/queryweave/pkg/logger"
	"github.com/queryweave/queryweave/server"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP compile service",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, ctx, err := loadConfig(cmd)
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

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, compiler.New(client, compilerCfg), logger.FromContext(ctx))
	return srv.Run(ctx)
}
