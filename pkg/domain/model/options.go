package model

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/sheepdog/pkg/domain/types"
)

const (
	// DefaultSettleDelay lets concurrently running label workflows finish before labels are read
	DefaultSettleDelay = 10 * time.Second

	// DefaultStaleDays is used by scheduled runs when no stale threshold is configured
	DefaultStaleDays = 30

	// DefaultBranch is skipped when resolving a pull request from a workflow run
	DefaultBranch = "main"
)

// RepositoryRef identifies a repository
type RepositoryRef struct {
	Owner string
	Repo  string
}

// ParseRepositoryRef parses "owner/repo"
func ParseRepositoryRef(fullName string) (RepositoryRef, error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(fullName), "/")
	ref := RepositoryRef{Owner: owner, Repo: repo}
	if !ok || strings.Contains(repo, "/") {
		return RepositoryRef{}, goerr.Wrap(types.ErrInvalidConfig, "repository must be in owner/repo format",
			goerr.V("repository", fullName))
	}
	if err := ref.Validate(); err != nil {
		return RepositoryRef{}, err
	}
	return ref, nil
}

// Validate checks both owner and repo are set
func (r RepositoryRef) Validate() error {
	if r.Owner == "" || r.Repo == "" {
		return goerr.Wrap(types.ErrInvalidConfig, "repository owner and name are required",
			goerr.V("owner", r.Owner),
			goerr.V("repo", r.Repo),
		)
	}
	return nil
}

func (r RepositoryRef) String() string {
	return r.Owner + "/" + r.Repo
}

// RunOptions holds the settings of one automation invocation. It must not be modified after Validate.
type RunOptions struct {
	DryRun              bool
	GitHubToken         string `masq:"secret"`
	AcceptedReleases    []string
	AcceptedBackports   []string
	EnableFeatureBranch bool
	// StaleDays is the inactivity threshold in days. Zero means unset.
	StaleDays     int
	SettleDelay   time.Duration
	DetailsURL    string
	DefaultBranch string
}

// Normalize deduplicates the allowlists and fills defaults
func (o RunOptions) Normalize() RunOptions {
	o.AcceptedReleases = NormalizeValues(o.AcceptedReleases)
	o.AcceptedBackports = NormalizeValues(o.AcceptedBackports)
	if o.DefaultBranch == "" {
		o.DefaultBranch = DefaultBranch
	}
	return o
}

// Validate checks option values. Token presence is checked by the caller because App authentication does not use it.
func (o RunOptions) Validate() error {
	if o.StaleDays < 0 {
		return goerr.Wrap(types.ErrInvalidConfig, "stale days must be a positive integer",
			goerr.V("stale_days", o.StaleDays))
	}
	if o.SettleDelay < 0 {
		return goerr.Wrap(types.ErrInvalidConfig, "settle delay must not be negative",
			goerr.V("settle_delay", o.SettleDelay))
	}
	return nil
}

// YAMLAutomationEnabled reports whether any YAML driven rule is configured
func (o RunOptions) YAMLAutomationEnabled() bool {
	return len(o.AcceptedReleases) > 0 || len(o.AcceptedBackports) > 0 || o.EnableFeatureBranch
}

// StaleThreshold returns the configured threshold, or the default one when fallback is true
func (o RunOptions) StaleThreshold(fallback bool) (time.Duration, bool) {
	days := o.StaleDays
	if days == 0 {
		if !fallback {
			return 0, false
		}
		days = DefaultStaleDays
	}
	return time.Duration(days) * 24 * time.Hour, true
}

// NormalizeValues trims values, drops empty ones and removes duplicates keeping first occurrence
func NormalizeValues(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
