package github_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	githubcontroller "github.com/m-mizutani/sheepdog/pkg/controller/github"
	"github.com/m-mizutani/sheepdog/pkg/domain/model"
	"github.com/m-mizutani/sheepdog/pkg/domain/types"
)

// MockAutomationUseCase is a mock implementation of AutomationUseCase
type MockAutomationUseCase struct {
	processFunc  func(ctx context.Context, event model.Event) (*model.AutomationResult, error)
	processCalls []model.Event
}

func (m *MockAutomationUseCase) Process(ctx context.Context, event model.Event) (*model.AutomationResult, error) {
	m.processCalls = append(m.processCalls, event)
	if m.processFunc != nil {
		return m.processFunc(ctx, event)
	}
	return model.NewAutomationResult(), nil
}

var fallbackRepo = model.RepositoryRef{Owner: "fallback", Repo: "repo"}

const repositoryJSON = `"repository": {"name": "widgets", "full_name": "octo/widgets", "owner": {"login": "octo"}, "default_branch": "develop"}`

func TestParseEvent(t *testing.T) {
	t.Run("issue opened", func(t *testing.T) {
		ev, err := githubcontroller.ParseEvent("issues",
			[]byte(`{"action": "opened", "issue": {"number": 12}, `+repositoryJSON+`}`), fallbackRepo)
		gt.NoError(t, err)

		issue, ok := ev.(*model.IssuesEvent)
		gt.True(t, ok)
		gt.Equal(t, issue.Action, "opened")
		gt.Equal(t, issue.Number, 12)
		gt.Equal(t, issue.Repo, model.RepositoryRef{Owner: "octo", Repo: "widgets"})
		gt.Equal(t, issue.RemovedLabel, "")
	})

	t.Run("issue unlabeled keeps removed label", func(t *testing.T) {
		ev, err := githubcontroller.ParseEvent("issues",
			[]byte(`{"action": "unlabeled", "issue": {"number": 12}, "label": {"name": "triage"}, `+repositoryJSON+`}`), fallbackRepo)
		gt.NoError(t, err)
		gt.Equal(t, ev.(*model.IssuesEvent).RemovedLabel, "triage")
	})

	t.Run("pull request", func(t *testing.T) {
		payload := `{
			"action": "edited",
			"pull_request": {
				"number": 7,
				"title": "Fix crash",
				"body": "` + "```yaml\\nrelease: 1.5\\n```" + `",
				"draft": true,
				"state": "open",
				"head": {"ref": "fix/crash", "sha": "abc123"},
				"labels": [{"name": "bug"}],
				"updated_at": "2024-05-01T10:00:00Z"
			},
			` + repositoryJSON + `
		}`

		for _, eventType := range []string{"pull_request", "pull_request_target"} {
			t.Run(eventType, func(t *testing.T) {
				ev, err := githubcontroller.ParseEvent(eventType, []byte(payload), fallbackRepo)
				gt.NoError(t, err)

				prEv, ok := ev.(*model.PullRequestEvent)
				gt.True(t, ok)
				gt.Equal(t, prEv.Kind(), model.EventKindPullRequest)
				gt.Equal(t, prEv.Action, "edited")

				pr := prEv.PullRequest
				gt.Equal(t, pr.Number, 7)
				gt.Equal(t, pr.Body, "```yaml\nrelease: 1.5\n```")
				gt.True(t, pr.Draft)
				gt.True(t, pr.IsOpen())
				gt.Equal(t, pr.HeadSHA, "abc123")
				gt.Equal(t, pr.HeadRef, "fix/crash")
				gt.Equal(t, pr.Labels, []string{"bug"})
				gt.Equal(t, pr.UpdatedAt.Year(), 2024)
			})
		}
	})

	t.Run("closed pull request", func(t *testing.T) {
		ev, err := githubcontroller.ParseEvent("pull_request",
			[]byte(`{"action": "closed", "pull_request": {"number": 8, "state": "closed"}, `+repositoryJSON+`}`), fallbackRepo)
		gt.NoError(t, err)
		gt.False(t, ev.(*model.PullRequestEvent).PullRequest.IsOpen())
	})

	t.Run("workflow run", func(t *testing.T) {
		ev, err := githubcontroller.ParseEvent("workflow_run", []byte(`{
			"action": "completed",
			"workflow_run": {"head_branch": "feature/a", "html_url": "https://github.com/octo/widgets/actions/runs/1"},
			`+repositoryJSON+`
		}`), fallbackRepo)
		gt.NoError(t, err)

		run, ok := ev.(*model.WorkflowRunEvent)
		gt.True(t, ok)
		gt.Equal(t, run.HeadBranch, "feature/a")
		gt.Equal(t, run.DefaultBranch, "develop")
		gt.Equal(t, run.HTMLURL, "https://github.com/octo/widgets/actions/runs/1")
	})

	t.Run("workflow run requested is ignored", func(t *testing.T) {
		_, err := githubcontroller.ParseEvent("workflow_run",
			[]byte(`{"action": "requested", "workflow_run": {"head_branch": "a"}, `+repositoryJSON+`}`), fallbackRepo)
		gt.True(t, errors.Is(err, types.ErrUnsupportedEvent))
	})

	t.Run("schedule without repository uses fallback", func(t *testing.T) {
		ev, err := githubcontroller.ParseEvent("schedule", []byte(`{"schedule": "0 0 * * *"}`), fallbackRepo)
		gt.NoError(t, err)
		gt.Equal(t, ev.Kind(), model.EventKindSchedule)
		gt.Equal(t, ev.Repository(), fallbackRepo)
	})

	t.Run("workflow dispatch is a schedule", func(t *testing.T) {
		ev, err := githubcontroller.ParseEvent("workflow_dispatch", []byte(`{`+repositoryJSON+`}`), fallbackRepo)
		gt.NoError(t, err)
		gt.Equal(t, ev.Kind(), model.EventKindSchedule)
		gt.Equal(t, ev.Repository(), model.RepositoryRef{Owner: "octo", Repo: "widgets"})
	})

	t.Run("schedule without any repository", func(t *testing.T) {
		_, err := githubcontroller.ParseEvent("schedule", nil, model.RepositoryRef{})
		gt.True(t, errors.Is(err, types.ErrInvalidConfig))
	})

	t.Run("unsupported event type", func(t *testing.T) {
		_, err := githubcontroller.ParseEvent("release", []byte(`{}`), fallbackRepo)
		gt.True(t, errors.Is(err, types.ErrUnsupportedEvent))
	})

	t.Run("broken payload", func(t *testing.T) {
		_, err := githubcontroller.ParseEvent("issues", []byte(`{`), fallbackRepo)
		gt.True(t, errors.Is(err, types.ErrInvalidPayload))
	})
}

func TestEventProcessor_ProcessEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("runs automation", func(t *testing.T) {
		mockUC := &MockAutomationUseCase{
			processFunc: func(ctx context.Context, event model.Event) (*model.AutomationResult, error) {
				return model.NewAutomationResult().AddLabels("triage"), nil
			},
		}
		processor := githubcontroller.NewEventProcessor(mockUC)

		result, err := processor.ProcessEvent(ctx, "issues",
			[]byte(`{"action": "opened", "issue": {"number": 1}, `+repositoryJSON+`}`))
		gt.NoError(t, err)
		gt.Equal(t, result.LabelsAdded, []string{"triage"})
		gt.Number(t, len(mockUC.processCalls)).Equal(1)
	})

	t.Run("unsupported event is ignored", func(t *testing.T) {
		mockUC := &MockAutomationUseCase{}
		processor := githubcontroller.NewEventProcessor(mockUC)

		result, err := processor.ProcessEvent(ctx, "release", []byte(`{}`))
		gt.NoError(t, err)
		gt.V(t, result).Nil()
		gt.Number(t, len(mockUC.processCalls)).Equal(0)
	})

	t.Run("use case error is returned", func(t *testing.T) {
		mockUC := &MockAutomationUseCase{
			processFunc: func(ctx context.Context, event model.Event) (*model.AutomationResult, error) {
				return nil, errors.New("processing failed")
			},
		}
		processor := githubcontroller.NewEventProcessor(mockUC, githubcontroller.WithFallbackRepository(fallbackRepo))

		_, err := processor.ProcessEvent(ctx, "schedule", nil)
		gt.Error(t, err)
		gt.String(t, err.Error()).Contains("processing failed")
		gt.Equal(t, mockUC.processCalls[0].Repository(), fallbackRepo)
	})
}
