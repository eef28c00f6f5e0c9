package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"

	"github.com/m-mizutani/sheepdog/pkg/domain/model"
	"github.com/m-mizutani/sheepdog/pkg/domain/rule"
)

// releaseBackport validates the release/backport fields. Validation errors are reported on the pull request and are not returned.
func (a *Automation) releaseBackport(ctx context.Context, repo model.RepositoryRef, pr *model.PullRequest, detailsURL string) (*model.AutomationResult, error) {
	logger := ctxlog.From(ctx)
	result := model.NewAutomationResult().EnableFeature(model.FeatureReleaseBackport)

	labels, err := a.github.GetLabels(ctx, repo, pr.Number)
	if err != nil {
		return nil, err
	}

	d := rule.DecideReleaseBackport(rule.ReleaseBackportInput{
		Body:              pr.Body,
		Labels:            labels,
		AcceptedReleases:  a.opts.AcceptedReleases,
		AcceptedBackports: a.opts.AcceptedBackports,
		HeadSHA:           pr.HeadSHA,
		DetailsURL:        detailsURL,
	})
	for _, c := range d.Categories {
		logger.Info("Release/backport category evaluated",
			"category", c.Category,
			"status", c.Status.String(),
			"labels", c.Labels,
			"errors", c.Errors,
		)
	}

	// cleanup of old error comments runs before labels are added
	if err := a.applyComment(ctx, repo, pr.Number, d.Comment, result); err != nil {
		return nil, err
	}
	if d.Failed() {
		result.AddAction("Release/backport validation failed on #%d with %d error(s)", pr.Number, len(d.Errors))
	} else if err := a.addLabels(ctx, repo, pr.Number, d.Labels.Names, result); err != nil {
		return nil, err
	}

	for _, cr := range d.CheckRuns {
		a.writeCheckRun(ctx, repo, cr, result)
	}
	return result, nil
}

func (a *Automation) featureBranch(ctx context.Context, repo model.RepositoryRef, pr *model.PullRequest, detailsURL string) (*model.AutomationResult, error) {
	result := model.NewAutomationResult().EnableFeature(model.FeatureFeatureBranch)

	labels, err := a.github.GetLabels(ctx, repo, pr.Number)
	if err != nil {
		return nil, err
	}

	d := rule.DecideFeatureBranch(rule.FeatureBranchInput{
		Body:       pr.Body,
		Labels:     labels,
		HeadSHA:    pr.HeadSHA,
		DetailsURL: detailsURL,
	})
	ctxlog.From(ctx).Info("Feature branch evaluated", "state", d.State.String(), "error", d.Error)

	if err := a.applyComment(ctx, repo, pr.Number, d.Comment, result); err != nil {
		return nil, err
	}
	if err := a.addLabels(ctx, repo, pr.Number, d.Label.Names, result); err != nil {
		return nil, err
	}
	if d.State == rule.FeatureBranchInvalid {
		result.AddAction("Feature branch validation failed on #%d", pr.Number)
	}

	a.writeCheckRun(ctx, repo, d.CheckRun, result)
	return result, nil
}
