package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/sheepdog/pkg/cli/config"
	controller "github.com/m-mizutani/sheepdog/pkg/controller/http"
	githubinfra "github.com/m-mizutani/sheepdog/pkg/infra/github"
	"github.com/m-mizutani/sheepdog/pkg/usecase"
)

func cmdServe() *cli.Command {
	var (
		serverCfg     config.Server
		githubCfg     config.GitHub
		automationCfg config.Automation
	)

	flags := append(serverCfg.Flags(), githubCfg.Flags()...)
	flags = append(flags, automationCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start GitHub App webhook server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			opts, err := automationCfg.RunOptions(c.IsSet)
			if err != nil {
				return err
			}

			client, err := githubCfg.NewClient(ctx)
			if err != nil {
				return err
			}
			if opts.DryRun {
				client = githubinfra.NewDryRun(client)
			}

			logger.Info("Starting sheepdog server",
				slog.String("addr", serverCfg.Addr),
				slog.Bool("github_app", githubCfg.UseApp()),
				slog.Any("options", opts),
			)

			server, err := controller.NewServer(
				ctx,
				usecase.NewAutomation(client, opts),
				controller.WithAddr(serverCfg.Addr),
				controller.WithWebhookSecret(serverCfg.WebhookSecret),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
