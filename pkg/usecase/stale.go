package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/ctxlog"
	"golang.org/x/sync/errgroup"

	"github.com/m-mizutani/sheepdog/pkg/domain/model"
	"github.com/m-mizutani/sheepdog/pkg/domain/rule"
)

// detectStale labels inactive pull requests. Only a listing failure aborts the pass; per pull request failures are logged.
func (a *Automation) detectStale(ctx context.Context, repo model.RepositoryRef, threshold time.Duration) (*model.AutomationResult, error) {
	logger := ctxlog.From(ctx)
	result := model.NewAutomationResult().EnableFeature(model.FeatureStaleDetection)

	prs, err := a.github.ListOpenPullRequests(ctx, repo)
	if err != nil {
		return nil, err
	}

	now := a.now()
	var checked, marked int
	for _, pr := range prs {
		if !rule.IsStaleCandidate(pr) {
			continue
		}
		checked++

		signals := a.collectActivity(ctx, repo, pr.Number)
		last := rule.LastActivity(pr, signals, now)
		if !rule.IsStale(last, now, threshold) {
			continue
		}

		logger.Info("Pull request is stale", "number", pr.Number, "last_activity", last)
		if err := a.addLabels(ctx, repo, pr.Number, []string{model.LabelStale}, result); err != nil {
			logger.Error("Failed to mark pull request as stale", "number", pr.Number, "error", err)
			continue
		}
		marked++
	}

	logger.Info("Stale detection finished",
		"open", len(prs),
		"checked", checked,
		"marked", marked,
		"threshold", threshold,
	)
	return result, nil
}

// collectActivity reads all activity signals concurrently. Each read is best effort.
func (a *Automation) collectActivity(ctx context.Context, repo model.RepositoryRef, number int) rule.ActivitySignals {
	var s rule.ActivitySignals
	var eg errgroup.Group

	eg.Go(func() error {
		s.Commits = a.github.ListCommits(ctx, repo, number)
		return nil
	})
	eg.Go(func() error {
		comments, err := a.github.ListComments(ctx, repo, number)
		if err != nil {
			ctxlog.From(ctx).Warn("Failed to list comments for activity, treated as empty", "number", number, "error", err)
			return nil
		}
		for _, c := range comments {
			s.Comments = append(s.Comments, *c)
		}
		return nil
	})
	eg.Go(func() error {
		s.ReviewComments = a.github.ListReviewComments(ctx, repo, number)
		return nil
	})
	eg.Go(func() error {
		s.Reviews = a.github.ListReviews(ctx, repo, number)
		return nil
	})
	eg.Go(func() error {
		s.Timeline = a.github.ListTimelineEvents(ctx, repo, number)
		return nil
	})

	_ = eg.Wait()
	return s
}
