package github

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/sheepdog/pkg/domain/interfaces"
	"github.com/m-mizutani/sheepdog/pkg/domain/model"
	"github.com/m-mizutani/sheepdog/pkg/domain/types"
)

const perPage = 100

// Client implements interfaces.GitHubClient with the GitHub REST API
type Client struct {
	gh *github.Client
}

var _ interfaces.GitHubClient = (*Client)(nil)

// Option configures Client
type Option func(*Client) error

// WithBaseURL sets the REST API endpoint, e.g. for GitHub Enterprise Server or a test server
func WithBaseURL(baseURL string) Option {
	return func(c *Client) error {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return goerr.Wrap(err, "invalid GitHub API base URL", goerr.V("base_url", baseURL))
		}
		c.gh.BaseURL = u
		return nil
	}
}

// NewClient creates a Client over an authenticated HTTP client
func NewClient(httpClient *http.Client, opts ...Option) (*Client, error) {
	c := &Client{gh: github.NewClient(httpClient)}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func statusCode(err error) int {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return errResp.Response.StatusCode
	}
	return 0
}

func paginate[T any](fetch func(opt github.ListOptions) ([]T, *github.Response, error)) ([]T, error) {
	var all []T
	opt := github.ListOptions{PerPage: perPage}
	for {
		items, resp, err := fetch(opt)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if resp == nil || resp.NextPage == 0 {
			return all, nil
		}
		opt.Page = resp.NextPage
	}
}

func repoValues(repo model.RepositoryRef, number int) []goerr.Option {
	return []goerr.Option{
		goerr.V("repo", repo.String()),
		goerr.V("number", number),
	}
}

// AddLabels attaches the labels that are not present yet.
// 403 is a permission error. On 422 the labels are re-read: labels present by then are skipped, missing ones are undefined in the repository.
func (c *Client) AddLabels(ctx context.Context, repo model.RepositoryRef, number int, names []string) (*model.LabelResult, error) {
	result := &model.LabelResult{}
	names = model.NormalizeValues(names)
	if len(names) == 0 {
		return result, nil
	}

	current, err := c.GetLabels(ctx, repo, number)
	if err != nil {
		return nil, err
	}

	var toAdd []string
	for _, name := range names {
		if slices.Contains(current, name) {
			result.Skipped = append(result.Skipped, name)
		} else {
			toAdd = append(toAdd, name)
		}
	}
	if len(toAdd) == 0 {
		return result, nil
	}

	if _, _, err := c.gh.Issues.AddLabelsToIssue(ctx, repo.Owner, repo.Repo, number, toAdd); err != nil {
		switch statusCode(err) {
		case http.StatusForbidden:
			return nil, goerr.Wrap(types.ErrPermissionDenied,
				"label mutation is forbidden. Repository admins must configure a token or GitHub App with issues and pull requests write permission",
				append(repoValues(repo, number), goerr.V("labels", toAdd), goerr.V("cause", err.Error()))...)

		case http.StatusUnprocessableEntity:
			after, rerr := c.GetLabels(ctx, repo, number)
			if rerr != nil {
				return nil, goerr.Wrap(rerr, "failed to re-read labels after conflict", repoValues(repo, number)...)
			}
			var missing []string
			for _, name := range toAdd {
				if !slices.Contains(after, name) {
					missing = append(missing, name)
				}
			}
			if len(missing) > 0 {
				return nil, goerr.Wrap(types.ErrLabelUndefined, "labels are not defined in the repository",
					append(repoValues(repo, number), goerr.V("labels", missing), goerr.V("cause", err.Error()))...)
			}
			result.Skipped = append(result.Skipped, toAdd...)
			return result, nil

		default:
			return nil, goerr.Wrap(err, "failed to add labels", append(repoValues(repo, number), goerr.V("labels", toAdd))...)
		}
	}

	result.Added = toAdd
	return result, nil
}

func (c *Client) GetLabels(ctx context.Context, repo model.RepositoryRef, number int) ([]string, error) {
	labels, err := paginate(func(opt github.ListOptions) ([]*github.Label, *github.Response, error) {
		return c.gh.Issues.ListLabelsByIssue(ctx, repo.Owner, repo.Repo, number, &opt)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list labels", repoValues(repo, number)...)
	}

	names := make([]string, 0, len(labels))
	for _, l := range labels {
		names = append(names, l.GetName())
	}
	return names, nil
}

func (c *Client) GetPullRequest(ctx context.Context, repo model.RepositoryRef, number int) (*model.PullRequest, error) {
	pr, _, err := c.gh.PullRequests.Get(ctx, repo.Owner, repo.Repo, number)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get pull request", repoValues(repo, number)...)
	}
	return ToPullRequest(pr), nil
}

func (c *Client) FindPullRequestByBranch(ctx context.Context, repo model.RepositoryRef, branch string) (*model.PullRequest, error) {
	prs, _, err := c.gh.PullRequests.List(ctx, repo.Owner, repo.Repo, &github.PullRequestListOptions{
		State:       "all",
		Head:        repo.Owner + ":" + branch,
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: perPage},
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list pull requests by branch",
			goerr.V("repo", repo.String()),
			goerr.V("branch", branch),
		)
	}

	var newest *github.PullRequest
	for _, pr := range prs {
		if pr.GetHead().GetRef() != branch {
			continue
		}
		if newest == nil || pr.GetUpdatedAt().After(newest.GetUpdatedAt().Time) {
			newest = pr
		}
	}
	if newest == nil {
		return nil, nil
	}
	return ToPullRequest(newest), nil
}

func (c *Client) ListOpenPullRequests(ctx context.Context, repo model.RepositoryRef) ([]*model.PullRequest, error) {
	prs, err := paginate(func(opt github.ListOptions) ([]*github.PullRequest, *github.Response, error) {
		return c.gh.PullRequests.List(ctx, repo.Owner, repo.Repo, &github.PullRequestListOptions{
			State:       "open",
			ListOptions: opt,
		})
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list open pull requests", goerr.V("repo", repo.String()))
	}

	out := make([]*model.PullRequest, 0, len(prs))
	for _, pr := range prs {
		out = append(out, ToPullRequest(pr))
	}
	return out, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return github.Ptr(s)
}

func (c *Client) CreateCheckRun(ctx context.Context, repo model.RepositoryRef, name, headSHA, detailsURL string) (*model.CheckRun, error) {
	run, _, err := c.gh.Checks.CreateCheckRun(ctx, repo.Owner, repo.Repo, github.CreateCheckRunOptions{
		Name:       name,
		HeadSHA:    headSHA,
		DetailsURL: optionalString(detailsURL),
		ExternalID: optionalString(model.RunID(ctx)),
		Status:     github.Ptr(string(model.CheckRunInProgress)),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create check run",
			goerr.V("repo", repo.String()),
			goerr.V("name", name),
			goerr.V("head_sha", headSHA),
		)
	}

	return &model.CheckRun{ID: run.GetID(), Name: name, HeadSHA: headSHA}, nil
}

func (c *Client) UpdateCheckRun(ctx context.Context, repo model.RepositoryRef, run *model.CheckRun, update model.CheckRunUpdate) error {
	opts := github.UpdateCheckRunOptions{
		Name:   run.Name,
		Status: optionalString(string(update.Status)),
		Output: &github.CheckRunOutput{
			Title:   github.Ptr(update.Output.Title),
			Summary: github.Ptr(update.Output.Summary),
			Text:    optionalString(update.Output.Text),
		},
	}
	if update.Conclusion != "" {
		opts.Conclusion = github.Ptr(string(update.Conclusion))
		opts.CompletedAt = &github.Timestamp{Time: time.Now()}
	}

	if _, _, err := c.gh.Checks.UpdateCheckRun(ctx, repo.Owner, repo.Repo, run.ID, opts); err != nil {
		return goerr.Wrap(err, "failed to update check run",
			goerr.V("repo", repo.String()),
			goerr.V("check_run_id", run.ID),
			goerr.V("name", run.Name),
		)
	}
	return nil
}

func (c *Client) CreateComment(ctx context.Context, repo model.RepositoryRef, number int, body string) (*model.Comment, error) {
	comment, _, err := c.gh.Issues.CreateComment(ctx, repo.Owner, repo.Repo, number, &github.IssueComment{
		Body: github.Ptr(body),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create comment", repoValues(repo, number)...)
	}
	return toComment(comment), nil
}

func (c *Client) ListComments(ctx context.Context, repo model.RepositoryRef, number int) ([]*model.Comment, error) {
	comments, err := paginate(func(opt github.ListOptions) ([]*github.IssueComment, *github.Response, error) {
		return c.gh.Issues.ListComments(ctx, repo.Owner, repo.Repo, number, &github.IssueListCommentsOptions{
			ListOptions: opt,
		})
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list comments", repoValues(repo, number)...)
	}

	out := make([]*model.Comment, 0, len(comments))
	for _, comment := range comments {
		out = append(out, toComment(comment))
	}
	return out, nil
}

func (c *Client) DeleteComment(ctx context.Context, repo model.RepositoryRef, commentID int64) error {
	_, err := c.gh.Issues.DeleteComment(ctx, repo.Owner, repo.Repo, commentID)
	if err != nil {
		if statusCode(err) == http.StatusNotFound {
			ctxlog.From(ctx).Debug("comment already deleted", "repo", repo.String(), "comment_id", commentID)
			return nil
		}
		return goerr.Wrap(err, "failed to delete comment",
			goerr.V("repo", repo.String()),
			goerr.V("comment_id", commentID),
		)
	}
	return nil
}

func warnActivity(ctx context.Context, kind string, repo model.RepositoryRef, number int, err error) {
	ctxlog.From(ctx).Warn("failed to read pull request activity, treated as empty",
		"kind", kind,
		"repo", repo.String(),
		"number", number,
		"error", err,
	)
}

func (c *Client) ListCommits(ctx context.Context, repo model.RepositoryRef, number int) []model.Commit {
	commits, err := paginate(func(opt github.ListOptions) ([]*github.RepositoryCommit, *github.Response, error) {
		return c.gh.PullRequests.ListCommits(ctx, repo.Owner, repo.Repo, number, &opt)
	})
	if err != nil {
		warnActivity(ctx, "commits", repo, number, err)
		return nil
	}

	out := make([]model.Commit, 0, len(commits))
	for _, commit := range commits {
		out = append(out, model.Commit{
			SHA:         commit.GetSHA(),
			CommittedAt: commit.GetCommit().GetCommitter().GetDate().Time,
		})
	}
	return out
}

func (c *Client) ListReviewComments(ctx context.Context, repo model.RepositoryRef, number int) []model.ReviewComment {
	comments, err := paginate(func(opt github.ListOptions) ([]*github.PullRequestComment, *github.Response, error) {
		return c.gh.PullRequests.ListComments(ctx, repo.Owner, repo.Repo, number, &github.PullRequestListCommentsOptions{
			ListOptions: opt,
		})
	})
	if err != nil {
		warnActivity(ctx, "review_comments", repo, number, err)
		return nil
	}

	out := make([]model.ReviewComment, 0, len(comments))
	for _, comment := range comments {
		out = append(out, model.ReviewComment{ID: comment.GetID(), CreatedAt: comment.GetCreatedAt().Time})
	}
	return out
}

func (c *Client) ListReviews(ctx context.Context, repo model.RepositoryRef, number int) []model.Review {
	reviews, err := paginate(func(opt github.ListOptions) ([]*github.PullRequestReview, *github.Response, error) {
		return c.gh.PullRequests.ListReviews(ctx, repo.Owner, repo.Repo, number, &opt)
	})
	if err != nil {
		warnActivity(ctx, "reviews", repo, number, err)
		return nil
	}

	out := make([]model.Review, 0, len(reviews))
	for _, review := range reviews {
		out = append(out, model.Review{ID: review.GetID(), SubmittedAt: review.GetSubmittedAt().Time})
	}
	return out
}

func (c *Client) ListTimelineEvents(ctx context.Context, repo model.RepositoryRef, number int) []model.TimelineEvent {
	events, err := paginate(func(opt github.ListOptions) ([]*github.Timeline, *github.Response, error) {
		return c.gh.Issues.ListIssueTimeline(ctx, repo.Owner, repo.Repo, number, &opt)
	})
	if err != nil {
		warnActivity(ctx, "timeline", repo, number, err)
		return nil
	}

	out := make([]model.TimelineEvent, 0, len(events))
	for _, event := range events {
		out = append(out, model.TimelineEvent{Event: event.GetEvent(), CreatedAt: event.GetCreatedAt().Time})
	}
	return out
}

// ToPullRequest converts a REST or webhook pull request. Any state other than "open" is closed.
func ToPullRequest(pr *github.PullRequest) *model.PullRequest {
	labels := make([]string, 0, len(pr.Labels))
	for _, l := range pr.Labels {
		labels = append(labels, l.GetName())
	}

	state := model.PullRequestOpen
	if pr.GetState() != string(model.PullRequestOpen) {
		state = model.PullRequestClosed
	}

	return &model.PullRequest{
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		Body:      pr.GetBody(),
		Draft:     pr.GetDraft(),
		HeadSHA:   pr.GetHead().GetSHA(),
		HeadRef:   pr.GetHead().GetRef(),
		State:     state,
		Labels:    labels,
		HTMLURL:   pr.GetHTMLURL(),
		CreatedAt: pr.GetCreatedAt().Time,
		UpdatedAt: pr.GetUpdatedAt().Time,
	}
}

func toComment(c *github.IssueComment) *model.Comment {
	return &model.Comment{
		ID:        c.GetID(),
		Body:      c.GetBody(),
		CreatedAt: c.GetCreatedAt().Time,
	}
}
