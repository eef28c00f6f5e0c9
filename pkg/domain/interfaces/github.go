package interfaces

import (
	"context"

	"github.com/m-mizutani/sheepdog/pkg/domain/model"
)

// GitHubClient defines the repository operations used by the automation.
// Issues and pull requests share the number space, so number addresses both.
type GitHubClient interface {
	// AddLabels attaches labels. Labels already present are reported as skipped, duplicates are collapsed.
	AddLabels(ctx context.Context, repo model.RepositoryRef, number int, names []string) (*model.LabelResult, error)

	// GetLabels returns the label names of an issue or pull request
	GetLabels(ctx context.Context, repo model.RepositoryRef, number int) ([]string, error)

	GetPullRequest(ctx context.Context, repo model.RepositoryRef, number int) (*model.PullRequest, error)

	// FindPullRequestByBranch returns the most recently updated pull request of any state whose head is branch, or nil
	FindPullRequestByBranch(ctx context.Context, repo model.RepositoryRef, branch string) (*model.PullRequest, error)

	ListOpenPullRequests(ctx context.Context, repo model.RepositoryRef) ([]*model.PullRequest, error)

	// CreateCheckRun starts an in-progress check run
	CreateCheckRun(ctx context.Context, repo model.RepositoryRef, name, headSHA, detailsURL string) (*model.CheckRun, error)
	UpdateCheckRun(ctx context.Context, repo model.RepositoryRef, run *model.CheckRun, update model.CheckRunUpdate) error

	CreateComment(ctx context.Context, repo model.RepositoryRef, number int, body string) (*model.Comment, error)
	ListComments(ctx context.Context, repo model.RepositoryRef, number int) ([]*model.Comment, error)
	// DeleteComment removes a comment. A comment that is already gone is not an error.
	DeleteComment(ctx context.Context, repo model.RepositoryRef, commentID int64) error

	// Activity reads are best effort. Failures are logged and an empty list is returned.
	ListCommits(ctx context.Context, repo model.RepositoryRef, number int) []model.Commit
	ListReviewComments(ctx context.Context, repo model.RepositoryRef, number int) []model.ReviewComment
	ListReviews(ctx context.Context, repo model.RepositoryRef, number int) []model.Review
	ListTimelineEvents(ctx context.Context, repo model.RepositoryRef, number int) []model.TimelineEvent
}
