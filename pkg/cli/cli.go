package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/sheepdog/pkg/cli/config"
	"github.com/m-mizutani/sheepdog/pkg/domain/types"
	"github.com/m-mizutani/sheepdog/pkg/utils/errs"
)

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	var (
		loggerCfg config.Logger
		sentryCfg config.Sentry
		envFile   string
		logger    *slog.Logger
	)

	flags := append(loggerCfg.Flags(), sentryCfg.Flags()...)
	flags = append(flags, &cli.StringFlag{
		Name:        "env-file",
		Usage:       "Load environment variables from a dotenv file before running a command",
		Destination: &envFile,
		Sources:     cli.EnvVars("SHEEPDOG_ENV_FILE"),
	})

	app := &cli.Command{
		Name:    types.ServiceName,
		Usage:   "Label automation for GitHub issues and pull requests",
		Version: types.Version,
		Flags:   flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if envFile != "" {
				if err := godotenv.Load(envFile); err != nil {
					return nil, goerr.Wrap(err, "failed to load env file", goerr.V("path", envFile))
				}
			}

			var err error
			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}
			slog.SetDefault(logger)

			if err := sentryCfg.Configure(); err != nil {
				return nil, err
			}

			ctx = ctxlog.With(ctx, logger)
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdRun(),
			cmdServe(),
		},
	}

	defer sentry.Flush(2 * time.Second)

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		errs.Handle(ctxlog.With(ctx, logger), err)
		return err
	}

	return nil
}
