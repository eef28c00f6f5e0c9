package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/sheepdog/pkg/domain/model"
	"github.com/m-mizutani/sheepdog/pkg/domain/rule"
)

func (a *Automation) handleIssue(ctx context.Context, ev *model.IssuesEvent) (*model.AutomationResult, error) {
	ctx = ctxlog.With(ctx, ctxlog.From(ctx).With("number", ev.Number))

	switch ev.Action {
	case "opened":
		result := model.NewAutomationResult().EnableFeature(model.FeatureTriage)
		if err := a.addLabels(ctx, ev.Repo, ev.Number, []string{model.LabelTriage}, result); err != nil {
			return nil, err
		}
		return result, nil

	case "unlabeled":
		return a.protectTriage(ctx, ev.Repo, ev.Number, ev.RemovedLabel)

	default:
		ctxlog.From(ctx).Debug("Issue action is not handled", "action", ev.Action)
		return model.NewAutomationResult(), nil
	}
}

// protectTriage re-adds triage when a label removal left neither triage nor a release/backport label
func (a *Automation) protectTriage(ctx context.Context, repo model.RepositoryRef, number int, removed string) (*model.AutomationResult, error) {
	result := model.NewAutomationResult().EnableFeature(model.FeatureTriageProtection)

	labels, err := a.github.GetLabels(ctx, repo, number)
	if err != nil {
		return nil, err
	}
	if !rule.NeedsTriageProtection(labels) {
		return result, nil
	}

	ctxlog.From(ctx).Info("Restoring triage label", "labels", labels, "removed_label", removed)
	if removed != "" {
		result.AddAction("Label %q was removed from #%d", removed, number)
	}
	if err := a.addLabels(ctx, repo, number, []string{model.LabelTriage}, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (a *Automation) smartLabel(ctx context.Context, repo model.RepositoryRef, pr *model.PullRequest) (*model.AutomationResult, error) {
	logger := ctxlog.From(ctx)
	result := model.NewAutomationResult().EnableFeature(model.FeatureSmartLabeling)

	if pr.Draft {
		result.AddAction("Skipped draft pull request #%d", pr.Number)
		return result, nil
	}

	if !a.opts.DryRun && a.opts.SettleDelay > 0 {
		logger.Debug("Waiting for label workflows to settle", "delay", a.opts.SettleDelay)
		if err := a.sleep(ctx, a.opts.SettleDelay); err != nil {
			return nil, goerr.Wrap(err, "interrupted while waiting for labels to settle")
		}
	}

	labels, err := a.github.GetLabels(ctx, repo, pr.Number)
	if err != nil {
		return nil, err
	}

	d := rule.DecideSmartLabel(rule.SmartLabelInput{
		Draft:  pr.Draft,
		Labels: labels,
		Body:   pr.Body,
	})
	logger.Info("Smart labeling decided",
		"action", d.Action.String(),
		"has_release", d.HasRelease,
		"has_backport", d.HasBackport,
		"release_in_yaml", d.ReleaseInYAML,
		"backport_in_yaml", d.BackportInYAML,
	)

	if d.Action == rule.SmartLabelNone {
		result.AddAction("Left backport pull request #%d unlabeled", pr.Number)
		return result, nil
	}
	if d.Label == "" {
		return result, nil
	}
	if err := a.addLabels(ctx, repo, pr.Number, []string{d.Label}, result); err != nil {
		return nil, err
	}
	return result, nil
}
