package model

import "time"

// PullRequestState is the state of a pull request
type PullRequestState string

const (
	PullRequestOpen   PullRequestState = "open"
	PullRequestClosed PullRequestState = "closed"
)

// PullRequest is a read-only snapshot fetched for one invocation
type PullRequest struct {
	Number    int
	Title     string
	Body      string
	Draft     bool
	HeadSHA   string
	HeadRef   string
	State     PullRequestState
	Labels    []string
	HTMLURL   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOpen reports whether the pull request is open
func (pr *PullRequest) IsOpen() bool {
	return pr.State == PullRequestOpen
}

// Comment is an issue comment
type Comment struct {
	ID        int64
	Body      string
	CreatedAt time.Time
}

// LabelResult reports which labels were newly attached
type LabelResult struct {
	Added   []string
	Skipped []string
}

// CheckRun is a handle to a created check run
type CheckRun struct {
	ID      int64
	Name    string
	HeadSHA string
}

// CheckRunStatus values accepted by GitHub
type CheckRunStatus string

const (
	CheckRunInProgress CheckRunStatus = "in_progress"
	CheckRunCompleted  CheckRunStatus = "completed"
)

// CheckRunConclusion values used by the automation
type CheckRunConclusion string

const (
	ConclusionSuccess CheckRunConclusion = "success"
	ConclusionFailure CheckRunConclusion = "failure"
	ConclusionNeutral CheckRunConclusion = "neutral"
)

// CheckRunOutput is the title/summary/text triple shown in the checks tab
type CheckRunOutput struct {
	Title   string
	Summary string
	Text    string
}

// CheckRunUpdate completes or updates a check run
type CheckRunUpdate struct {
	Status     CheckRunStatus
	Conclusion CheckRunConclusion
	Output     CheckRunOutput
}

// Commit is a pull request commit
type Commit struct {
	SHA         string
	CommittedAt time.Time
}

// Review is a submitted pull request review
type Review struct {
	ID          int64
	SubmittedAt time.Time
}

// ReviewComment is a comment on the pull request diff
type ReviewComment struct {
	ID        int64
	CreatedAt time.Time
}

// TimelineEvent is an entry of the issue timeline
type TimelineEvent struct {
	Event     string
	CreatedAt time.Time
}

// IsLabelChange reports whether the event is a labeled/unlabeled event
func (e *TimelineEvent) IsLabelChange() bool {
	return e.Event == "labeled" || e.Event == "unlabeled"
}
