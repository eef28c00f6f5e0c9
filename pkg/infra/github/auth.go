package github

import (
	"context"
	"net/http"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/oauth2"

	"github.com/m-mizutani/sheepdog/pkg/domain/types"
)

// NewTokenClient creates a Client authenticated with a personal access token or the Actions GITHUB_TOKEN
func NewTokenClient(ctx context.Context, token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, goerr.Wrap(types.ErrInvalidConfig, "GitHub token is required")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return NewClient(oauth2.NewClient(ctx, ts), opts...)
}

// NewAppClient creates a Client authenticated as a GitHub App installation
func NewAppClient(appID, installationID int64, privateKey []byte, opts ...Option) (*Client, error) {
	if appID == 0 || installationID == 0 || len(privateKey) == 0 {
		return nil, goerr.Wrap(types.ErrInvalidConfig, "GitHub App ID, installation ID and private key are required",
			goerr.V("app_id", appID),
			goerr.V("installation_id", installationID),
		)
	}

	itr, err := ghinstallation.New(http.DefaultTransport, appID, installationID, privateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport",
			goerr.V("app_id", appID),
			goerr.V("installation_id", installationID),
		)
	}

	return NewClient(&http.Client{Transport: itr}, opts...)
}
