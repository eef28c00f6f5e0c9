package usecase_test

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/m-mizutani/sheepdog/pkg/domain/model"
)

type checkRunCall struct {
	Name    string
	HeadSHA string
	Update  model.CheckRunUpdate
}

// fakeGitHub keeps repository state in memory and behaves like the REST gateway
type fakeGitHub struct {
	mu sync.Mutex

	labels   map[int][]string
	prs      map[int]*model.PullRequest
	comments map[int][]*model.Comment
	nextID   int64

	commits        map[int][]model.Commit
	reviews        map[int][]model.Review
	reviewComments map[int][]model.ReviewComment
	timeline       map[int][]model.TimelineEvent

	addLabelsErr func(number int, names []string) error
	listPRsErr   error

	createdComments []string
	deletedComments []int64
	checkRuns       []checkRunCall
	addLabelsCalls  [][]string
}

func newFakeGitHub() *fakeGitHub {
	return &fakeGitHub{
		labels:         map[int][]string{},
		prs:            map[int]*model.PullRequest{},
		comments:       map[int][]*model.Comment{},
		commits:        map[int][]model.Commit{},
		reviews:        map[int][]model.Review{},
		reviewComments: map[int][]model.ReviewComment{},
		timeline:       map[int][]model.TimelineEvent{},
	}
}

func (f *fakeGitHub) addPR(pr *model.PullRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if pr.State == "" {
		pr.State = model.PullRequestOpen
	}
	f.prs[pr.Number] = pr
	f.labels[pr.Number] = append(f.labels[pr.Number], pr.Labels...)
}

func (f *fakeGitHub) labelsOf(number int) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.labels[number])
}

func (f *fakeGitHub) commentsOf(number int) []*model.Comment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.comments[number])
}

func (f *fakeGitHub) AddLabels(ctx context.Context, repo model.RepositoryRef, number int, names []string) (*model.LabelResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.addLabelsCalls = append(f.addLabelsCalls, names)
	if f.addLabelsErr != nil {
		if err := f.addLabelsErr(number, names); err != nil {
			return nil, err
		}
	}

	result := &model.LabelResult{}
	for _, name := range model.NormalizeValues(names) {
		if slices.Contains(f.labels[number], name) {
			result.Skipped = append(result.Skipped, name)
			continue
		}
		f.labels[number] = append(f.labels[number], name)
		result.Added = append(result.Added, name)
	}
	return result, nil
}

func (f *fakeGitHub) GetLabels(ctx context.Context, repo model.RepositoryRef, number int) ([]string, error) {
	return f.labelsOf(number), nil
}

func (f *fakeGitHub) GetPullRequest(ctx context.Context, repo model.RepositoryRef, number int) (*model.PullRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pr, ok := f.prs[number]
	if !ok {
		return nil, errors.New("not found")
	}
	return pr, nil
}

func (f *fakeGitHub) FindPullRequestByBranch(ctx context.Context, repo model.RepositoryRef, branch string) (*model.PullRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var newest *model.PullRequest
	for _, pr := range f.prs {
		if pr.HeadRef != branch {
			continue
		}
		if newest == nil || pr.UpdatedAt.After(newest.UpdatedAt) {
			newest = pr
		}
	}
	return newest, nil
}

func (f *fakeGitHub) ListOpenPullRequests(ctx context.Context, repo model.RepositoryRef) ([]*model.PullRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listPRsErr != nil {
		return nil, f.listPRsErr
	}

	var out []*model.PullRequest
	for _, pr := range f.prs {
		if !pr.IsOpen() {
			continue
		}
		snapshot := *pr
		snapshot.Labels = slices.Clone(f.labels[pr.Number])
		out = append(out, &snapshot)
	}
	slices.SortFunc(out, func(a, b *model.PullRequest) int { return a.Number - b.Number })
	return out, nil
}

func (f *fakeGitHub) CreateCheckRun(ctx context.Context, repo model.RepositoryRef, name, headSHA, detailsURL string) (*model.CheckRun, error) {
	return &model.CheckRun{ID: 1, Name: name, HeadSHA: headSHA}, nil
}

func (f *fakeGitHub) UpdateCheckRun(ctx context.Context, repo model.RepositoryRef, run *model.CheckRun, update model.CheckRunUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checkRuns = append(f.checkRuns, checkRunCall{Name: run.Name, HeadSHA: run.HeadSHA, Update: update})
	return nil
}

func (f *fakeGitHub) CreateComment(ctx context.Context, repo model.RepositoryRef, number int, body string) (*model.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c := &model.Comment{ID: f.nextID, Body: body}
	f.comments[number] = append(f.comments[number], c)
	f.createdComments = append(f.createdComments, body)
	return c, nil
}

func (f *fakeGitHub) ListComments(ctx context.Context, repo model.RepositoryRef, number int) ([]*model.Comment, error) {
	return f.commentsOf(number), nil
}

func (f *fakeGitHub) DeleteComment(ctx context.Context, repo model.RepositoryRef, commentID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedComments = append(f.deletedComments, commentID)
	for number, comments := range f.comments {
		f.comments[number] = slices.DeleteFunc(comments, func(c *model.Comment) bool { return c.ID == commentID })
	}
	return nil
}

func (f *fakeGitHub) ListCommits(ctx context.Context, repo model.RepositoryRef, number int) []model.Commit {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.commits[number]
}

func (f *fakeGitHub) ListReviewComments(ctx context.Context, repo model.RepositoryRef, number int) []model.ReviewComment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reviewComments[number]
}

func (f *fakeGitHub) ListReviews(ctx context.Context, repo model.RepositoryRef, number int) []model.Review {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reviews[number]
}

func (f *fakeGitHub) ListTimelineEvents(ctx context.Context, repo model.RepositoryRef, number int) []model.TimelineEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.timeline[number]
}
