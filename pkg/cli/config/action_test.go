package config_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/sheepdog/pkg/cli/config"
	"github.com/m-mizutani/sheepdog/pkg/domain/model"
	"github.com/m-mizutani/sheepdog/pkg/domain/types"
)

func TestAction(t *testing.T) {
	t.Run("details url of the workflow run", func(t *testing.T) {
		cfg := &config.Action{Repository: "octo/widgets", ServerURL: "https://github.com/", RunID: "42"}
		gt.Equal(t, cfg.DetailsURL(), "https://github.com/octo/widgets/actions/runs/42")
	})

	t.Run("no details url outside actions", func(t *testing.T) {
		cfg := &config.Action{ServerURL: "https://github.com"}
		gt.Equal(t, cfg.DetailsURL(), "")
	})

	t.Run("validate", func(t *testing.T) {
		gt.True(t, errors.Is((&config.Action{Output: "text"}).Validate(), types.ErrInvalidConfig))
		gt.True(t, errors.Is((&config.Action{EventName: "issues", Output: "xml"}).Validate(), types.ErrInvalidConfig))
		gt.NoError(t, (&config.Action{EventName: "issues", Output: "json"}).Validate())
	})

	t.Run("fallback repository", func(t *testing.T) {
		repo, err := (&config.Action{Repository: "octo/widgets"}).FallbackRepository()
		gt.NoError(t, err)
		gt.Equal(t, repo, model.RepositoryRef{Owner: "octo", Repo: "widgets"})

		repo, err = (&config.Action{}).FallbackRepository()
		gt.NoError(t, err)
		gt.Equal(t, repo, model.RepositoryRef{})

		_, err = (&config.Action{Repository: "widgets"}).FallbackRepository()
		gt.True(t, errors.Is(err, types.ErrInvalidConfig))
	})

	t.Run("payload", func(t *testing.T) {
		path := writeFile(t, "event.json", `{"action":"opened"}`)
		data, err := (&config.Action{EventPath: path}).Payload()
		gt.NoError(t, err)
		gt.Equal(t, string(data), `{"action":"opened"}`)

		data, err = (&config.Action{}).Payload()
		gt.NoError(t, err)
		gt.A(t, data).Length(0)

		_, err = (&config.Action{EventPath: filepath.Join(t.TempDir(), "missing.json")}).Payload()
		gt.Error(t, err)
	})
}
