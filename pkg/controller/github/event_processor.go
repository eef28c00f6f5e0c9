package github

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/sheepdog/pkg/domain/interfaces"
	"github.com/m-mizutani/sheepdog/pkg/domain/model"
	"github.com/m-mizutani/sheepdog/pkg/domain/types"
	githubinfra "github.com/m-mizutani/sheepdog/pkg/infra/github"
)

// EventProcessor turns GitHub event payloads into automation runs
type EventProcessor struct {
	automationUC interfaces.AutomationUseCase
	fallbackRepo model.RepositoryRef
}

// ProcessorOption configures EventProcessor
type ProcessorOption func(*EventProcessor)

// WithFallbackRepository sets the repository used when a payload carries none, e.g. schedule events
func WithFallbackRepository(repo model.RepositoryRef) ProcessorOption {
	return func(p *EventProcessor) {
		p.fallbackRepo = repo
	}
}

// NewEventProcessor creates a new GitHub event processor
func NewEventProcessor(automationUC interfaces.AutomationUseCase, opts ...ProcessorOption) *EventProcessor {
	p := &EventProcessor{automationUC: automationUC}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessEvent parses payload and runs the automation. Unsupported events are logged and return a nil result.
func (p *EventProcessor) ProcessEvent(ctx context.Context, eventType string, payload []byte) (*model.AutomationResult, error) {
	logger := ctxlog.From(ctx)

	event, err := ParseEvent(eventType, payload, p.fallbackRepo)
	if err != nil {
		if errors.Is(err, types.ErrUnsupportedEvent) {
			logger.Info("Ignoring unsupported event", "event_type", eventType, "reason", err.Error())
			return nil, nil
		}
		return nil, err
	}

	return p.automationUC.Process(ctx, event)
}

// ParseEvent converts a webhook or Actions event payload into a typed event.
// "schedule" and "workflow_dispatch" both start a stale scan.
func ParseEvent(eventType string, payload []byte, fallbackRepo model.RepositoryRef) (model.Event, error) {
	switch eventType {
	case "schedule", "workflow_dispatch":
		return parseScheduleEvent(eventType, payload, fallbackRepo)
	case "issues", "pull_request", "pull_request_target", "workflow_run":
	default:
		return nil, goerr.Wrap(types.ErrUnsupportedEvent, "event type is not handled", goerr.V("event_type", eventType))
	}

	parsed, err := github.ParseWebHook(eventType, payload)
	if err != nil {
		return nil, goerr.Wrap(types.ErrInvalidPayload, "failed to parse event payload",
			goerr.V("event_type", eventType),
			goerr.V("cause", err.Error()),
		)
	}

	switch e := parsed.(type) {
	case *github.IssuesEvent:
		repo, err := repositoryRef(e.GetRepo(), fallbackRepo)
		if err != nil {
			return nil, err
		}
		return &model.IssuesEvent{
			Repo:         repo,
			Action:       e.GetAction(),
			Number:       e.GetIssue().GetNumber(),
			RemovedLabel: removedLabel(e.GetAction(), e.GetLabel()),
		}, nil

	case *github.PullRequestEvent:
		return pullRequestEvent(e.GetAction(), e.GetRepo(), e.GetPullRequest(), e.GetLabel(), fallbackRepo)

	case *github.PullRequestTargetEvent:
		return pullRequestEvent(e.GetAction(), e.GetRepo(), e.GetPullRequest(), e.GetLabel(), fallbackRepo)

	case *github.WorkflowRunEvent:
		if action := e.GetAction(); action != "" && action != "completed" {
			return nil, goerr.Wrap(types.ErrUnsupportedEvent, "workflow run action is not handled", goerr.V("action", action))
		}
		repo, err := repositoryRef(e.GetRepo(), fallbackRepo)
		if err != nil {
			return nil, err
		}
		return &model.WorkflowRunEvent{
			Repo:          repo,
			HeadBranch:    e.GetWorkflowRun().GetHeadBranch(),
			DefaultBranch: e.GetRepo().GetDefaultBranch(),
			HTMLURL:       e.GetWorkflowRun().GetHTMLURL(),
		}, nil

	default:
		return nil, goerr.Wrap(types.ErrUnsupportedEvent, "event type is not handled", goerr.V("event_type", eventType))
	}
}

func pullRequestEvent(action string, ghRepo *github.Repository, pr *github.PullRequest, label *github.Label, fallbackRepo model.RepositoryRef) (model.Event, error) {
	repo, err := repositoryRef(ghRepo, fallbackRepo)
	if err != nil {
		return nil, err
	}
	if pr == nil {
		return nil, goerr.Wrap(types.ErrInvalidPayload, "pull request event without pull request")
	}
	return &model.PullRequestEvent{
		Repo:         repo,
		Action:       action,
		PullRequest:  githubinfra.ToPullRequest(pr),
		RemovedLabel: removedLabel(action, label),
	}, nil
}

type schedulePayload struct {
	Repository *github.Repository `json:"repository"`
}

func parseScheduleEvent(eventType string, payload []byte, fallbackRepo model.RepositoryRef) (model.Event, error) {
	var p schedulePayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, goerr.Wrap(types.ErrInvalidPayload, "failed to parse event payload",
				goerr.V("event_type", eventType),
				goerr.V("cause", err.Error()),
			)
		}
	}

	repo, err := repositoryRef(p.Repository, fallbackRepo)
	if err != nil {
		return nil, err
	}
	return &model.ScheduleEvent{Repo: repo}, nil
}

func repositoryRef(repo *github.Repository, fallback model.RepositoryRef) (model.RepositoryRef, error) {
	if repo != nil {
		ref := model.RepositoryRef{Owner: repo.GetOwner().GetLogin(), Repo: repo.GetName()}
		if ref.Validate() == nil {
			return ref, nil
		}
		if repo.GetFullName() != "" {
			return model.ParseRepositoryRef(repo.GetFullName())
		}
	}

	if err := fallback.Validate(); err != nil {
		return model.RepositoryRef{}, goerr.Wrap(err, "repository is missing in event payload")
	}
	return fallback, nil
}

func removedLabel(action string, label *github.Label) string {
	if action != "unlabeled" {
		return ""
	}
	return label.GetName()
}
