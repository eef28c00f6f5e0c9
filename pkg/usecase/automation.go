package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/sheepdog/pkg/domain/interfaces"
	"github.com/m-mizutani/sheepdog/pkg/domain/model"
	"github.com/m-mizutani/sheepdog/pkg/domain/types"
)

// Automation runs the label automation for one event at a time. It keeps no state between invocations.
type Automation struct {
	github interfaces.GitHubClient
	opts   model.RunOptions
	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration) error
	newID  func() string
}

var _ interfaces.AutomationUseCase = (*Automation)(nil)

// Option configures Automation
type Option func(*Automation)

// WithClock replaces the current time source
func WithClock(now func() time.Time) Option {
	return func(a *Automation) {
		a.now = now
	}
}

// WithSleep replaces the settle delay wait
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(a *Automation) {
		a.sleep = sleep
	}
}

// WithRunIDGenerator replaces the invocation ID generator
func WithRunIDGenerator(newID func() string) Option {
	return func(a *Automation) {
		a.newID = newID
	}
}

// NewAutomation creates an Automation. The client should already be wrapped for dry-run when opts.DryRun is set.
func NewAutomation(client interfaces.GitHubClient, opts model.RunOptions, options ...Option) *Automation {
	a := &Automation{
		github: client,
		opts:   opts.Normalize(),
		now:    time.Now,
		sleep:  sleepContext,
		newID:  uuid.NewString,
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Process dispatches event to its handlers and merges their results
func (a *Automation) Process(ctx context.Context, event model.Event) (*model.AutomationResult, error) {
	if event == nil {
		return nil, goerr.Wrap(types.ErrUnsupportedEvent, "event is nil")
	}

	runID := a.newID()
	ctx = model.WithRunID(ctx, runID)
	logger := ctxlog.From(ctx).With(
		"run_id", runID,
		"event", event.Kind(),
		"repo", event.Repository().String(),
	)
	ctx = ctxlog.With(ctx, logger)

	repo := event.Repository()
	if err := repo.Validate(); err != nil {
		return nil, err
	}
	if err := a.opts.Validate(); err != nil {
		return nil, err
	}

	logger.Info("Processing event", "dry_run", a.opts.DryRun)

	result := model.NewAutomationResult()
	var (
		handled *model.AutomationResult
		err     error
	)

	switch ev := event.(type) {
	case *model.IssuesEvent:
		handled, err = a.handleIssue(ctx, ev)
	case *model.PullRequestEvent:
		handled, err = a.handlePullRequestEvent(ctx, ev)
	case *model.WorkflowRunEvent:
		handled, err = a.handleWorkflowRun(ctx, ev)
	case *model.ScheduleEvent:
		threshold, _ := a.opts.StaleThreshold(true)
		handled, err = a.detectStale(ctx, repo, threshold)
	default:
		return nil, goerr.Wrap(types.ErrUnsupportedEvent, "unsupported event",
			goerr.V("kind", event.Kind()))
	}
	if err != nil {
		return nil, err
	}
	result.Merge(handled)

	if _, isSchedule := event.(*model.ScheduleEvent); !isSchedule {
		if threshold, ok := a.opts.StaleThreshold(false); ok {
			stale, err := a.detectStale(ctx, repo, threshold)
			if err != nil {
				// labels already applied above must still be reported
				logger.Warn("Stale detection failed", "error", err)
			} else {
				result.Merge(stale)
			}
		}
	}

	logger.Info("Processed event",
		"labels_added", result.LabelsAdded,
		"actions", len(result.Actions),
		"features", result.FeaturesEnabled(),
	)
	return result, nil
}

func (a *Automation) handleWorkflowRun(ctx context.Context, ev *model.WorkflowRunEvent) (*model.AutomationResult, error) {
	logger := ctxlog.From(ctx)
	result := model.NewAutomationResult()

	defaultBranch := ev.DefaultBranch
	if defaultBranch == "" {
		defaultBranch = a.opts.DefaultBranch
	}
	if ev.HeadBranch == "" || ev.HeadBranch == defaultBranch || ev.HeadBranch == model.DefaultBranch {
		logger.Info("Workflow run is not on a pull request branch, skipped", "branch", ev.HeadBranch)
		return result, nil
	}

	pr, err := a.github.FindPullRequestByBranch(ctx, ev.Repo, ev.HeadBranch)
	if err != nil {
		return nil, err
	}
	if pr == nil {
		logger.Info("No pull request found for branch, skipped", "branch", ev.HeadBranch)
		return result, nil
	}
	if !pr.IsOpen() {
		logger.Info("Pull request is closed, skipped", "number", pr.Number)
		return result, nil
	}

	detailsURL := a.opts.DetailsURL
	if detailsURL == "" {
		detailsURL = ev.HTMLURL
	}
	return a.handlePullRequest(ctx, ev.Repo, pr, "", "", detailsURL)
}

func (a *Automation) handlePullRequestEvent(ctx context.Context, ev *model.PullRequestEvent) (*model.AutomationResult, error) {
	if ev.PullRequest == nil {
		return nil, goerr.Wrap(types.ErrInvalidPayload, "pull request event has no pull request")
	}
	logger := ctxlog.From(ctx)
	if ev.Action == "closed" {
		logger.Info("Pull request is closed, skipped", "number", ev.PullRequest.Number)
		return model.NewAutomationResult(), nil
	}

	// the payload may be older than the repository state
	pr, err := a.github.GetPullRequest(ctx, ev.Repo, ev.PullRequest.Number)
	if err != nil {
		return nil, err
	}
	if !pr.IsOpen() {
		logger.Info("Pull request is closed, skipped", "number", pr.Number)
		return model.NewAutomationResult(), nil
	}
	return a.handlePullRequest(ctx, ev.Repo, pr, ev.Action, ev.RemovedLabel, a.opts.DetailsURL)
}

// handlePullRequest runs every pull request rule. Each rule builds its own result.
func (a *Automation) handlePullRequest(ctx context.Context, repo model.RepositoryRef, pr *model.PullRequest, action, removedLabel, detailsURL string) (*model.AutomationResult, error) {
	ctx = ctxlog.With(ctx, ctxlog.From(ctx).With("number", pr.Number))
	result := model.NewAutomationResult()

	if action == "unlabeled" {
		protected, err := a.protectTriage(ctx, repo, pr.Number, removedLabel)
		if err != nil {
			return nil, err
		}
		result.Merge(protected)
	}

	smart, err := a.smartLabel(ctx, repo, pr)
	if err != nil {
		return nil, err
	}
	result.Merge(smart)

	if len(a.opts.AcceptedReleases) > 0 || len(a.opts.AcceptedBackports) > 0 {
		rb, err := a.releaseBackport(ctx, repo, pr, detailsURL)
		if err != nil {
			return nil, err
		}
		result.Merge(rb)
	}

	if a.opts.EnableFeatureBranch {
		fb, err := a.featureBranch(ctx, repo, pr, detailsURL)
		if err != nil {
			return nil, err
		}
		result.Merge(fb)
	}

	return result, nil
}

func (a *Automation) addLabels(ctx context.Context, repo model.RepositoryRef, number int, names []string, result *model.AutomationResult) error {
	if len(names) == 0 {
		return nil
	}

	res, err := a.github.AddLabels(ctx, repo, number, names)
	if err != nil {
		return err
	}

	result.AddLabels(res.Added...)
	for _, name := range res.Added {
		result.AddAction("Added label %q to #%d", name, number)
	}
	if len(res.Skipped) > 0 {
		ctxlog.From(ctx).Debug("Labels already present", "number", number, "labels", res.Skipped)
	}
	return nil
}
