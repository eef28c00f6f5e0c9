package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/ctxlog"

	"github.com/m-mizutani/sheepdog/pkg/domain/model"
)

// markedComments returns the comments containing marker. Listing is best effort.
func (a *Automation) markedComments(ctx context.Context, repo model.RepositoryRef, number int, marker string) []*model.Comment {
	comments, err := a.github.ListComments(ctx, repo, number)
	if err != nil {
		ctxlog.From(ctx).Warn("Failed to list comments, treated as empty", "error", err)
		return nil
	}

	var marked []*model.Comment
	for _, c := range comments {
		if strings.Contains(c.Body, marker) {
			marked = append(marked, c)
		}
	}
	return marked
}

// cleanupComments deletes every comment carrying marker
func (a *Automation) cleanupComments(ctx context.Context, repo model.RepositoryRef, number int, marker string, result *model.AutomationResult) error {
	for _, c := range a.markedComments(ctx, repo, number, marker) {
		if err := a.github.DeleteComment(ctx, repo, c.ID); err != nil {
			return err
		}
		result.AddAction("Deleted outdated validation comment %d on #%d", c.ID, number)
	}
	return nil
}

// upsertComment leaves a single marked comment with body. An identical existing comment is kept as is.
func (a *Automation) upsertComment(ctx context.Context, repo model.RepositoryRef, number int, marker, body string, result *model.AutomationResult) error {
	marked := a.markedComments(ctx, repo, number, marker)
	if len(marked) == 1 && marked[0].Body == body {
		ctxlog.From(ctx).Debug("Validation comment is up to date", "comment_id", marked[0].ID)
		return nil
	}

	for _, c := range marked {
		if err := a.github.DeleteComment(ctx, repo, c.ID); err != nil {
			return err
		}
	}

	if _, err := a.github.CreateComment(ctx, repo, number, body); err != nil {
		return err
	}
	result.AddAction("Posted validation error comment on #%d", number)
	return nil
}

func (a *Automation) applyComment(ctx context.Context, repo model.RepositoryRef, number int, intent model.CommentIntent, result *model.AutomationResult) error {
	switch intent.Action {
	case model.CommentCreate:
		return a.upsertComment(ctx, repo, number, intent.Marker, intent.Body, result)
	case model.CommentDeleteAllMatching:
		return a.cleanupComments(ctx, repo, number, intent.Marker, result)
	default:
		return nil
	}
}
