package rule_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/sheepdog/pkg/domain/model"
	"github.com/m-mizutani/sheepdog/pkg/domain/rule"
)

func TestIsStale_Boundary(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	staleDays := 14
	threshold := time.Duration(staleDays) * 86_400_000 * time.Millisecond

	exact := now.Add(-threshold)
	gt.False(t, rule.IsStale(exact, now, threshold))

	older := exact.Add(-time.Millisecond)
	gt.True(t, rule.IsStale(older, now, threshold))

	gt.False(t, rule.IsStale(now, now, threshold))
}

func TestLastActivity(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	created := now.Add(-100 * 24 * time.Hour)
	day := func(n int) time.Time { return created.Add(time.Duration(n) * 24 * time.Hour) }

	pr := &model.PullRequest{CreatedAt: created, UpdatedAt: day(1)}

	t.Run("max over signals", func(t *testing.T) {
		got := rule.LastActivity(pr, rule.ActivitySignals{
			Commits:        []model.Commit{{CommittedAt: day(3)}},
			Comments:       []model.Comment{{CreatedAt: day(5)}},
			ReviewComments: []model.ReviewComment{{CreatedAt: day(4)}},
			Reviews:        []model.Review{{SubmittedAt: day(7)}},
			Timeline:       []model.TimelineEvent{{Event: "labeled", CreatedAt: day(6)}},
		}, now)
		gt.Equal(t, got, day(7))
	})

	t.Run("non label timeline events are ignored", func(t *testing.T) {
		got := rule.LastActivity(pr, rule.ActivitySignals{
			Timeline: []model.TimelineEvent{
				{Event: "referenced", CreatedAt: day(50)},
				{Event: "unlabeled", CreatedAt: day(9)},
			},
		}, now)
		gt.Equal(t, got, day(9))
	})

	t.Run("updated at only", func(t *testing.T) {
		gt.Equal(t, rule.LastActivity(pr, rule.ActivitySignals{}, now), day(1))
	})

	t.Run("falls back to created at", func(t *testing.T) {
		got := rule.LastActivity(&model.PullRequest{CreatedAt: created}, rule.ActivitySignals{}, now)
		gt.Equal(t, got, created)
	})

	t.Run("falls back to now", func(t *testing.T) {
		gt.Equal(t, rule.LastActivity(&model.PullRequest{}, rule.ActivitySignals{}, now), now)
	})
}

func TestIsStaleCandidate(t *testing.T) {
	gt.True(t, rule.IsStaleCandidate(&model.PullRequest{State: model.PullRequestOpen}))
	gt.False(t, rule.IsStaleCandidate(&model.PullRequest{State: model.PullRequestOpen, Draft: true}))
	gt.False(t, rule.IsStaleCandidate(&model.PullRequest{State: model.PullRequestClosed}))
	gt.False(t, rule.IsStaleCandidate(&model.PullRequest{State: model.PullRequestOpen, Labels: []string{"stale"}}))
}
