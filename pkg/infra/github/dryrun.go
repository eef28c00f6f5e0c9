package github

import (
	"context"
	"slices"

	"github.com/m-mizutani/ctxlog"

	"github.com/m-mizutani/sheepdog/pkg/domain/interfaces"
	"github.com/m-mizutani/sheepdog/pkg/domain/model"
)

// DryRun delegates reads to the wrapped client and only logs mutations
type DryRun struct {
	interfaces.GitHubClient
}

var _ interfaces.GitHubClient = (*DryRun)(nil)

// NewDryRun wraps client
func NewDryRun(client interfaces.GitHubClient) *DryRun {
	return &DryRun{GitHubClient: client}
}

// AddLabels reports labels missing from the current label set as added
func (d *DryRun) AddLabels(ctx context.Context, repo model.RepositoryRef, number int, names []string) (*model.LabelResult, error) {
	current, err := d.GitHubClient.GetLabels(ctx, repo, number)
	if err != nil {
		return nil, err
	}

	result := &model.LabelResult{}
	for _, name := range model.NormalizeValues(names) {
		if slices.Contains(current, name) {
			result.Skipped = append(result.Skipped, name)
		} else {
			result.Added = append(result.Added, name)
		}
	}

	ctxlog.From(ctx).Info("[dry-run] add labels",
		"repo", repo.String(),
		"number", number,
		"added", result.Added,
		"skipped", result.Skipped,
	)
	return result, nil
}

func (d *DryRun) CreateCheckRun(ctx context.Context, repo model.RepositoryRef, name, headSHA, detailsURL string) (*model.CheckRun, error) {
	ctxlog.From(ctx).Info("[dry-run] create check run",
		"repo", repo.String(),
		"name", name,
		"head_sha", headSHA,
		"details_url", detailsURL,
	)
	return &model.CheckRun{ID: 0, Name: name, HeadSHA: headSHA}, nil
}

func (d *DryRun) UpdateCheckRun(ctx context.Context, repo model.RepositoryRef, run *model.CheckRun, update model.CheckRunUpdate) error {
	ctxlog.From(ctx).Info("[dry-run] update check run",
		"repo", repo.String(),
		"name", run.Name,
		"status", update.Status,
		"conclusion", update.Conclusion,
		"title", update.Output.Title,
		"summary", update.Output.Summary,
	)
	return nil
}

func (d *DryRun) CreateComment(ctx context.Context, repo model.RepositoryRef, number int, body string) (*model.Comment, error) {
	ctxlog.From(ctx).Info("[dry-run] create comment",
		"repo", repo.String(),
		"number", number,
		"body", body,
	)
	return &model.Comment{Body: body}, nil
}

func (d *DryRun) DeleteComment(ctx context.Context, repo model.RepositoryRef, commentID int64) error {
	ctxlog.From(ctx).Info("[dry-run] delete comment",
		"repo", repo.String(),
		"comment_id", commentID,
	)
	return nil
}
