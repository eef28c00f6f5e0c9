package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"

	"github.com/m-mizutani/sheepdog/pkg/domain/model"
)

// writeCheckRun creates the check run and completes it with the intent's outcome.
// Check runs only report; a failure to write one is logged and does not stop the labeling.
func (a *Automation) writeCheckRun(ctx context.Context, repo model.RepositoryRef, intent model.CheckRunIntent, result *model.AutomationResult) {
	logger := ctxlog.From(ctx).With("check_run", intent.Name)

	if intent.HeadSHA == "" {
		logger.Warn("Head SHA is unknown, check run skipped")
		return
	}

	run, err := a.github.CreateCheckRun(ctx, repo, intent.Name, intent.HeadSHA, intent.DetailsURL)
	if err != nil {
		logger.Warn("Failed to create check run", "error", err)
		return
	}

	if err := a.github.UpdateCheckRun(ctx, repo, run, intent.Update()); err != nil {
		logger.Warn("Failed to update check run", "error", err)
		return
	}

	result.AddAction("Check run %q concluded %s", intent.Name, intent.Conclusion)
}
