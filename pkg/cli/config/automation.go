package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/m-mizutani/sheepdog/pkg/domain/model"
	"github.com/m-mizutani/sheepdog/pkg/domain/types"
)

const (
	flagAcceptedReleases    = "accepted-releases"
	flagAcceptedBackports   = "accepted-backports"
	flagEnableFeatureBranch = "enable-feature-branch"
	flagStaleDays           = "stale-days"
	flagSettleDelay         = "settle-delay"
	flagDefaultBranch       = "default-branch"
)

// Automation holds the label automation settings
type Automation struct {
	DryRun              bool
	AcceptedReleases    []string
	AcceptedBackports   []string
	EnableFeatureBranch bool
	StaleDays           int
	SettleDelay         time.Duration
	DefaultBranch       string
	DetailsURL          string
	ConfigFile          string
}

// Flags returns CLI flags for automation configuration
func (c *Automation) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Log mutating GitHub calls instead of performing them",
			Destination: &c.DryRun,
			Sources:     cli.EnvVars("SHEEPDOG_DRY_RUN"),
		},
		&cli.StringSliceFlag{
			Name:        flagAcceptedReleases,
			Usage:       "Accepted values of the release field (comma separated)",
			Destination: &c.AcceptedReleases,
			Sources:     cli.EnvVars("SHEEPDOG_ACCEPTED_RELEASES"),
		},
		&cli.StringSliceFlag{
			Name:        flagAcceptedBackports,
			Usage:       "Accepted values of the backport field (comma separated)",
			Destination: &c.AcceptedBackports,
			Sources:     cli.EnvVars("SHEEPDOG_ACCEPTED_BACKPORTS"),
		},
		&cli.BoolFlag{
			Name:        flagEnableFeatureBranch,
			Usage:       "Enable needs_feature_branch validation",
			Destination: &c.EnableFeatureBranch,
			Sources:     cli.EnvVars("SHEEPDOG_ENABLE_FEATURE_BRANCH"),
		},
		&cli.IntFlag{
			Name:        flagStaleDays,
			Usage:       "Days without activity before a pull request is labeled stale (0: only scheduled runs, 30 days)",
			Destination: &c.StaleDays,
			Sources:     cli.EnvVars("SHEEPDOG_STALE_DAYS"),
		},
		&cli.DurationFlag{
			Name:        flagSettleDelay,
			Usage:       "Wait before reading labels for smart labeling",
			Value:       model.DefaultSettleDelay,
			Destination: &c.SettleDelay,
			Sources:     cli.EnvVars("SHEEPDOG_SETTLE_DELAY"),
		},
		&cli.StringFlag{
			Name:        flagDefaultBranch,
			Usage:       "Default branch ignored when resolving a pull request from a workflow run",
			Value:       model.DefaultBranch,
			Destination: &c.DefaultBranch,
			Sources:     cli.EnvVars("SHEEPDOG_DEFAULT_BRANCH"),
		},
		&cli.StringFlag{
			Name:        "details-url",
			Usage:       "Link shown on check runs (default: the current workflow run)",
			Destination: &c.DetailsURL,
			Sources:     cli.EnvVars("SHEEPDOG_DETAILS_URL"),
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Automation config file (.toml, .yaml or .yml)",
			Destination: &c.ConfigFile,
			Sources:     cli.EnvVars("SHEEPDOG_CONFIG"),
		},
	}
}

// automationFile is the config file layout. Unset keys keep flag values.
type automationFile struct {
	AcceptedReleases    []string `toml:"accepted_releases" yaml:"accepted_releases"`
	AcceptedBackports   []string `toml:"accepted_backports" yaml:"accepted_backports"`
	EnableFeatureBranch *bool    `toml:"enable_feature_branch" yaml:"enable_feature_branch"`
	StaleDays           *int     `toml:"stale_days" yaml:"stale_days"`
	SettleDelay         string   `toml:"settle_delay" yaml:"settle_delay"`
	DefaultBranch       string   `toml:"default_branch" yaml:"default_branch"`
}

func loadAutomationFile(path string) (*automationFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	var f automationFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &f)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	default:
		return nil, goerr.Wrap(types.ErrInvalidConfig, "unsupported config file extension",
			goerr.V("path", path),
			goerr.V("ext", ext),
		)
	}
	if err != nil {
		return nil, goerr.Wrap(types.ErrInvalidConfig, "failed to parse config file",
			goerr.V("path", path),
			goerr.V("cause", err.Error()),
		)
	}
	return &f, nil
}

// RunOptions merges the config file into the flag values and validates the result.
// isSet reports whether a flag was given explicitly; such flags win over the file.
func (c *Automation) RunOptions(isSet func(name string) bool) (model.RunOptions, error) {
	opts := model.RunOptions{
		DryRun:              c.DryRun,
		AcceptedReleases:    c.AcceptedReleases,
		AcceptedBackports:   c.AcceptedBackports,
		EnableFeatureBranch: c.EnableFeatureBranch,
		StaleDays:           c.StaleDays,
		SettleDelay:         c.SettleDelay,
		DefaultBranch:       c.DefaultBranch,
		DetailsURL:          c.DetailsURL,
	}

	if c.ConfigFile != "" {
		f, err := loadAutomationFile(c.ConfigFile)
		if err != nil {
			return model.RunOptions{}, err
		}

		if f.AcceptedReleases != nil && !isSet(flagAcceptedReleases) {
			opts.AcceptedReleases = f.AcceptedReleases
		}
		if f.AcceptedBackports != nil && !isSet(flagAcceptedBackports) {
			opts.AcceptedBackports = f.AcceptedBackports
		}
		if f.EnableFeatureBranch != nil && !isSet(flagEnableFeatureBranch) {
			opts.EnableFeatureBranch = *f.EnableFeatureBranch
		}
		if f.StaleDays != nil && !isSet(flagStaleDays) {
			opts.StaleDays = *f.StaleDays
		}
		if f.SettleDelay != "" && !isSet(flagSettleDelay) {
			d, err := time.ParseDuration(f.SettleDelay)
			if err != nil {
				return model.RunOptions{}, goerr.Wrap(types.ErrInvalidConfig, "invalid settle_delay in config file",
					goerr.V("settle_delay", f.SettleDelay))
			}
			opts.SettleDelay = d
		}
		if f.DefaultBranch != "" && !isSet(flagDefaultBranch) {
			opts.DefaultBranch = f.DefaultBranch
		}
	}

	opts = opts.Normalize()
	if err := opts.Validate(); err != nil {
		return model.RunOptions{}, err
	}
	return opts, nil
}
