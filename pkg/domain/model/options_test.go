package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/sheepdog/pkg/domain/model"
	"github.com/m-mizutani/sheepdog/pkg/domain/types"
)

func TestParseRepositoryRef(t *testing.T) {
	ref, err := model.ParseRepositoryRef(" octo/widgets ")
	gt.NoError(t, err)
	gt.Equal(t, ref, model.RepositoryRef{Owner: "octo", Repo: "widgets"})
	gt.Equal(t, ref.String(), "octo/widgets")

	for _, bad := range []string{"", "widgets", "octo/", "/widgets", "a/b/c"} {
		t.Run(bad, func(t *testing.T) {
			_, err := model.ParseRepositoryRef(bad)
			gt.True(t, errors.Is(err, types.ErrInvalidConfig))
		})
	}
}

func TestNormalizeValues(t *testing.T) {
	gt.Equal(t, model.NormalizeValues([]string{" 1.5", "", "1.6", "1.5 ", "  "}), []string{"1.5", "1.6"})
	gt.A(t, model.NormalizeValues(nil)).Length(0)
}

func TestRunOptions(t *testing.T) {
	t.Run("normalize fills default branch", func(t *testing.T) {
		opts := model.RunOptions{AcceptedReleases: []string{"1.5", "1.5"}}.Normalize()
		gt.Equal(t, opts.AcceptedReleases, []string{"1.5"})
		gt.Equal(t, opts.DefaultBranch, "main")
		gt.True(t, opts.YAMLAutomationEnabled())
	})

	t.Run("stale threshold", func(t *testing.T) {
		_, ok := model.RunOptions{}.StaleThreshold(false)
		gt.False(t, ok)

		d, ok := model.RunOptions{}.StaleThreshold(true)
		gt.True(t, ok)
		gt.Equal(t, d, 30*24*time.Hour)

		d, ok = model.RunOptions{StaleDays: 7}.StaleThreshold(false)
		gt.True(t, ok)
		gt.Equal(t, d, 7*24*time.Hour)
	})

	t.Run("validate", func(t *testing.T) {
		gt.NoError(t, model.RunOptions{StaleDays: 1}.Validate())
		gt.True(t, errors.Is(model.RunOptions{StaleDays: -1}.Validate(), types.ErrInvalidConfig))
		gt.True(t, errors.Is(model.RunOptions{SettleDelay: -time.Second}.Validate(), types.ErrInvalidConfig))
	})
}
