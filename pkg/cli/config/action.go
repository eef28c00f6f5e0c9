package config

import (
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/sheepdog/pkg/domain/model"
	"github.com/m-mizutani/sheepdog/pkg/domain/types"
)

// Output formats of the run command
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Action holds the GitHub Actions environment of a one-shot run
type Action struct {
	EventName  string
	EventPath  string
	Repository string
	ServerURL  string
	RunID      string
	Output     string
	ResultFile string
}

// Flags returns CLI flags for the Actions environment
func (c *Action) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "event-name",
			Usage:       "Name of the triggering event",
			Destination: &c.EventName,
			Sources:     cli.EnvVars("SHEEPDOG_EVENT_NAME", "GITHUB_EVENT_NAME"),
		},
		&cli.StringFlag{
			Name:        "event-path",
			Usage:       "Path of the event payload file",
			Destination: &c.EventPath,
			Sources:     cli.EnvVars("SHEEPDOG_EVENT_PATH", "GITHUB_EVENT_PATH"),
		},
		&cli.StringFlag{
			Name:        "repository",
			Usage:       "Target repository (owner/repo), used when the payload has none",
			Destination: &c.Repository,
			Sources:     cli.EnvVars("SHEEPDOG_REPOSITORY", "GITHUB_REPOSITORY"),
		},
		&cli.StringFlag{
			Name:        "server-url",
			Usage:       "GitHub web URL",
			Value:       "https://github.com",
			Destination: &c.ServerURL,
			Sources:     cli.EnvVars("GITHUB_SERVER_URL"),
		},
		&cli.StringFlag{
			Name:        "workflow-run-id",
			Usage:       "Current workflow run ID",
			Destination: &c.RunID,
			Sources:     cli.EnvVars("GITHUB_RUN_ID"),
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Result format (text, json)",
			Value:       OutputText,
			Destination: &c.Output,
			Sources:     cli.EnvVars("SHEEPDOG_OUTPUT"),
		},
		&cli.StringFlag{
			Name:        "result-file",
			Usage:       "Write the JSON result to this file",
			Destination: &c.ResultFile,
			Sources:     cli.EnvVars("SHEEPDOG_RESULT_FILE"),
		},
	}
}

// Validate checks the event and output settings
func (c *Action) Validate() error {
	if c.EventName == "" {
		return goerr.Wrap(types.ErrInvalidConfig, "event name is required (set GITHUB_EVENT_NAME or --event-name)")
	}
	if c.Output != OutputText && c.Output != OutputJSON {
		return goerr.Wrap(types.ErrInvalidConfig, "output must be text or json", goerr.V("output", c.Output))
	}
	return nil
}

// FallbackRepository returns the configured repository, or a zero value when unset
func (c *Action) FallbackRepository() (model.RepositoryRef, error) {
	if c.Repository == "" {
		return model.RepositoryRef{}, nil
	}
	return model.ParseRepositoryRef(c.Repository)
}

// Payload reads the event payload. A missing path yields an empty payload, which is valid for schedule events.
func (c *Action) Payload() ([]byte, error) {
	if c.EventPath == "" {
		return nil, nil
	}
	data, err := os.ReadFile(c.EventPath)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read event payload", goerr.V("path", c.EventPath))
	}
	return data, nil
}

// DetailsURL returns the link of the current workflow run, or an empty string outside Actions
func (c *Action) DetailsURL() string {
	if c.Repository == "" || c.RunID == "" {
		return ""
	}
	return strings.TrimSuffix(c.ServerURL, "/") + "/" + c.Repository + "/actions/runs/" + c.RunID
}
