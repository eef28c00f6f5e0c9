package cli

import (
	"context"
	"io"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/sheepdog/pkg/cli/config"
	ghctrl "github.com/m-mizutani/sheepdog/pkg/controller/github"
	"github.com/m-mizutani/sheepdog/pkg/domain/model"
	githubinfra "github.com/m-mizutani/sheepdog/pkg/infra/github"
	"github.com/m-mizutani/sheepdog/pkg/usecase"
)

func cmdRun() *cli.Command {
	var (
		actionCfg     config.Action
		githubCfg     config.GitHub
		automationCfg config.Automation
	)

	flags := append(actionCfg.Flags(), githubCfg.Flags()...)
	flags = append(flags, automationCfg.Flags()...)

	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Process one GitHub Actions event",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if err := actionCfg.Validate(); err != nil {
				return err
			}
			fallbackRepo, err := actionCfg.FallbackRepository()
			if err != nil {
				return err
			}

			if automationCfg.DetailsURL == "" {
				automationCfg.DetailsURL = actionCfg.DetailsURL()
			}
			opts, err := automationCfg.RunOptions(c.IsSet)
			if err != nil {
				return err
			}
			opts.GitHubToken = githubCfg.Token

			client, err := githubCfg.NewClient(ctx)
			if err != nil {
				return err
			}
			if opts.DryRun {
				client = githubinfra.NewDryRun(client)
			}

			payload, err := actionCfg.Payload()
			if err != nil {
				return err
			}

			logger.Info("Processing event",
				"event_name", actionCfg.EventName,
				"repository", actionCfg.Repository,
				"options", opts,
			)

			processor := ghctrl.NewEventProcessor(
				usecase.NewAutomation(client, opts),
				ghctrl.WithFallbackRepository(fallbackRepo),
			)
			result, err := processor.ProcessEvent(ctx, actionCfg.EventName, payload)
			if err != nil {
				return err
			}
			if result == nil {
				result = model.NewAutomationResult()
			}

			var w io.Writer = c.Root().Writer
			if w == nil {
				w = os.Stdout
			}
			if err := writeResult(w, result, actionCfg.Output); err != nil {
				return err
			}

			if actionCfg.ResultFile != "" {
				if err := writeResultFile(actionCfg.ResultFile, result); err != nil {
					return goerr.Wrap(err, "failed to write result file", goerr.V("path", actionCfg.ResultFile))
				}
			}
			return nil
		},
	}
}
