package model

// EventKind represents the type of event that triggered an invocation
type EventKind string

const (
	EventKindIssues      EventKind = "issues"
	EventKindPullRequest EventKind = "pull_request"
	EventKindWorkflowRun EventKind = "workflow_run"
	EventKindSchedule    EventKind = "schedule"
)

// Event is implemented only by the event types of this package
type Event interface {
	Kind() EventKind
	Repository() RepositoryRef
	event()
}

// IssuesEvent is an issue opened or (un)labeled
type IssuesEvent struct {
	Repo         RepositoryRef
	Action       string
	Number       int
	RemovedLabel string
}

func (e *IssuesEvent) Kind() EventKind { return EventKindIssues }
func (e *IssuesEvent) Repository() RepositoryRef { return e.Repo }
func (e *IssuesEvent) event() {}

// PullRequestEvent is a direct pull request event
type PullRequestEvent struct {
	Repo         RepositoryRef
	Action       string
	PullRequest  *PullRequest
	RemovedLabel string
}

func (e *PullRequestEvent) Kind() EventKind { return EventKindPullRequest }
func (e *PullRequestEvent) Repository() RepositoryRef { return e.Repo }
func (e *PullRequestEvent) event() {}

// WorkflowRunEvent is a completed workflow run. The pull request is resolved from its head branch.
type WorkflowRunEvent struct {
	Repo          RepositoryRef
	HeadBranch    string
	DefaultBranch string
	HTMLURL       string
}

func (e *WorkflowRunEvent) Kind() EventKind { return EventKindWorkflowRun }
func (e *WorkflowRunEvent) Repository() RepositoryRef { return e.Repo }
func (e *WorkflowRunEvent) event() {}

// ScheduleEvent is a cron trigger or a manual dispatch
type ScheduleEvent struct {
	Repo RepositoryRef
}

func (e *ScheduleEvent) Kind() EventKind { return EventKindSchedule }
func (e *ScheduleEvent) Repository() RepositoryRef { return e.Repo }
func (e *ScheduleEvent) event() {}
