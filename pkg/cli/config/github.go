package config

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/sheepdog/pkg/domain/interfaces"
	"github.com/m-mizutani/sheepdog/pkg/domain/types"
	githubinfra "github.com/m-mizutani/sheepdog/pkg/infra/github"
)

// GitHub holds GitHub API credentials. A GitHub App takes precedence over a token when both are set.
type GitHub struct {
	Token          string `masq:"secret"`
	AppID          int64
	InstallationID int64
	PrivateKey     string `masq:"secret"`
	PrivateKeyFile string
	APIURL         string
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub token with issues, pull-requests and checks write permission",
			Destination: &c.Token,
			Sources:     cli.EnvVars("SHEEPDOG_GITHUB_TOKEN", "GITHUB_TOKEN"),
		},
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID",
			Destination: &c.AppID,
			Sources:     cli.EnvVars("SHEEPDOG_GITHUB_APP_ID"),
		},
		&cli.Int64Flag{
			Name:        "github-app-installation-id",
			Usage:       "GitHub App installation ID",
			Destination: &c.InstallationID,
			Sources:     cli.EnvVars("SHEEPDOG_GITHUB_APP_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "github-app-private-key",
			Usage:       "GitHub App private key (PEM)",
			Destination: &c.PrivateKey,
			Sources:     cli.EnvVars("SHEEPDOG_GITHUB_APP_PRIVATE_KEY"),
		},
		&cli.StringFlag{
			Name:        "github-app-private-key-file",
			Usage:       "Path to GitHub App private key (PEM)",
			Destination: &c.PrivateKeyFile,
			Sources:     cli.EnvVars("SHEEPDOG_GITHUB_APP_PRIVATE_KEY_FILE"),
		},
		&cli.StringFlag{
			Name:        "github-api-url",
			Usage:       "GitHub REST API endpoint, e.g. for GitHub Enterprise Server",
			Destination: &c.APIURL,
			Sources:     cli.EnvVars("SHEEPDOG_GITHUB_API_URL", "GITHUB_API_URL"),
		},
	}
}

// UseApp reports whether GitHub App credentials are configured
func (c *GitHub) UseApp() bool {
	return c.AppID != 0
}

// NewClient builds the REST gateway for the configured credentials
func (c *GitHub) NewClient(ctx context.Context) (interfaces.GitHubClient, error) {
	var opts []githubinfra.Option
	if c.APIURL != "" {
		opts = append(opts, githubinfra.WithBaseURL(c.APIURL))
	}

	if !c.UseApp() {
		if c.Token == "" {
			return nil, goerr.Wrap(types.ErrInvalidConfig, "either a GitHub token or GitHub App credentials are required")
		}
		client, err := githubinfra.NewTokenClient(ctx, c.Token, opts...)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	key := []byte(c.PrivateKey)
	if c.PrivateKeyFile != "" {
		data, err := os.ReadFile(c.PrivateKeyFile)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read GitHub App private key", goerr.V("path", c.PrivateKeyFile))
		}
		key = data
	}

	client, err := githubinfra.NewAppClient(c.AppID, c.InstallationID, key, opts...)
	if err != nil {
		return nil, err
	}
	return client, nil
}
