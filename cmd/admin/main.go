// Command admin is the operator CLI: it mints API tokens, tails the audit
// log and runs background jobs on demand.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rentquote/backend/internal/bootstrap"
	"github.com/rentquote/backend/internal/infrastructure/config"
	"github.com/rentquote/backend/internal/infrastructure/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "admin",
		Short:         "RentQuote administration commands",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to config.toml (defaults to the working directory)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level for the command run")

	cmd.AddCommand(
		newTokenCmd(opts),
		newAuditCmd(opts),
		newJobsCmd(opts),
	)
	return cmd
}

// withApp loads configuration, builds the application and releases it once
// fn returns
func withApp(ctx context.Context, opts *rootOptions, appOpts bootstrap.Options, fn func(*bootstrap.App) error) error {
	cfg, err := config.LoadFrom(opts.configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:   opts.logLevel,
		Format:  "console",
		Output:  "stderr",
		Service: cfg.App.Name + "-admin",
	})
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() {
		_ = log.Sync()
	}()

	app, err := bootstrap.New(ctx, cfg, log, appOpts)
	if err != nil {
		return fmt.Errorf("initialize application: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.Close(closeCtx); err != nil {
			log.Error("Error releasing resources", zap.Error(err))
		}
	}()

	return fn(app)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
