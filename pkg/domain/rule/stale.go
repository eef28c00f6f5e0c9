package rule

import (
	"time"

	"github.com/m-mizutani/sheepdog/pkg/domain/model"
)

// ActivitySignals are the activity records of one pull request
type ActivitySignals struct {
	Commits        []model.Commit
	Comments       []model.Comment
	ReviewComments []model.ReviewComment
	Reviews        []model.Review
	Timeline       []model.TimelineEvent
}

// IsStaleCandidate reports whether a pull request is subject to stale detection
func IsStaleCandidate(pr *model.PullRequest) bool {
	return pr.IsOpen() && !pr.Draft && !model.HasAnyLabel(pr.Labels, model.LabelStale)
}

// LastActivity returns the latest activity time. It falls back to the creation time, then to now.
func LastActivity(pr *model.PullRequest, s ActivitySignals, now time.Time) time.Time {
	var last time.Time
	observe := func(t time.Time) {
		if t.After(last) {
			last = t
		}
	}

	observe(pr.UpdatedAt)
	for _, c := range s.Commits {
		observe(c.CommittedAt)
	}
	for _, c := range s.Comments {
		observe(c.CreatedAt)
	}
	for _, c := range s.ReviewComments {
		observe(c.CreatedAt)
	}
	for _, r := range s.Reviews {
		observe(r.SubmittedAt)
	}
	for _, e := range s.Timeline {
		if e.IsLabelChange() {
			observe(e.CreatedAt)
		}
	}

	if !last.IsZero() {
		return last
	}
	if !pr.CreatedAt.IsZero() {
		return pr.CreatedAt
	}
	return now
}

// IsStale reports whether more than threshold has passed since last. Exactly threshold is not stale.
func IsStale(last, now time.Time, threshold time.Duration) bool {
	return now.Sub(last) > threshold
}
