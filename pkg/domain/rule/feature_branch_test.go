package rule_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/sheepdog/pkg/domain/model"
	"github.com/m-mizutani/sheepdog/pkg/domain/rule"
)

func featureBranchBody(line string) string {
	return "Adds a new API.\n\n```yaml\n" + line + "\n```\n"
}

func TestDecideFeatureBranch(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		labels         []string
		wantState      rule.FeatureBranchState
		wantLabel      bool
		wantComment    model.CommentAction
		wantConclusion model.CheckRunConclusion
	}{
		{
			name:           "quoted upper case true",
			body:           featureBranchBody(`needs_feature_branch: "TRUE"`),
			wantState:      rule.FeatureBranchEnabled,
			wantLabel:      true,
			wantComment:    model.CommentDeleteAllMatching,
			wantConclusion: model.ConclusionSuccess,
		},
		{
			name:           "capitalized true",
			body:           featureBranchBody(`needs_feature_branch: True`),
			wantState:      rule.FeatureBranchEnabled,
			wantLabel:      true,
			wantComment:    model.CommentDeleteAllMatching,
			wantConclusion: model.ConclusionSuccess,
		},
		{
			name:           "single quoted false",
			body:           featureBranchBody(`needs_feature_branch: 'false'`),
			wantState:      rule.FeatureBranchDisabled,
			wantComment:    model.CommentDeleteAllMatching,
			wantConclusion: model.ConclusionSuccess,
		},
		{
			name:           "unquoted false",
			body:           featureBranchBody(`needs_feature_branch: false`),
			wantState:      rule.FeatureBranchDisabled,
			wantComment:    model.CommentDeleteAllMatching,
			wantConclusion: model.ConclusionSuccess,
		},
		{
			name:           "absent",
			body:           featureBranchBody(`release: 1.5`),
			wantState:      rule.FeatureBranchNotSpecified,
			wantComment:    model.CommentDeleteAllMatching,
			wantConclusion: model.ConclusionSuccess,
		},
		{
			name:           "invalid word",
			body:           featureBranchBody(`needs_feature_branch: maybe`),
			wantState:      rule.FeatureBranchInvalid,
			wantComment:    model.CommentCreate,
			wantConclusion: model.ConclusionFailure,
		},
		{
			name:           "array is invalid",
			body:           featureBranchBody(`needs_feature_branch: [true]`),
			wantState:      rule.FeatureBranchInvalid,
			wantComment:    model.CommentCreate,
			wantConclusion: model.ConclusionFailure,
		},
		{
			name:           "label present skips the field",
			body:           featureBranchBody(`needs_feature_branch: maybe`),
			labels:         []string{"feature-branch"},
			wantState:      rule.FeatureBranchLabelPresent,
			wantComment:    model.CommentDeleteAllMatching,
			wantConclusion: model.ConclusionSuccess,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := rule.DecideFeatureBranch(rule.FeatureBranchInput{
				Body:    tt.body,
				Labels:  tt.labels,
				HeadSHA: "abc123",
			})
			gt.Equal(t, d.State, tt.wantState)
			gt.Equal(t, d.Comment.Action, tt.wantComment)
			gt.Equal(t, d.Comment.Marker, rule.MarkerFeatureBranch)
			gt.Equal(t, d.CheckRun.Name, rule.CheckRunFeatureBranch)
			gt.Equal(t, d.CheckRun.HeadSHA, "abc123")
			gt.Equal(t, d.CheckRun.Conclusion, tt.wantConclusion)

			if tt.wantLabel {
				gt.Equal(t, d.Label.Names, []string{model.LabelFeatureBranch})
			} else {
				gt.True(t, d.Label.IsEmpty())
			}
		})
	}
}

func TestDecideFeatureBranch_InvalidMessage(t *testing.T) {
	d := rule.DecideFeatureBranch(rule.FeatureBranchInput{
		Body: featureBranchBody(`needs_feature_branch: maybe`),
	})

	gt.Equal(t, d.Error, `Invalid needs_feature_branch value: "maybe". Accepted values: true, false (case-insensitive, quotes optional)`)
	gt.String(t, d.Comment.Body).Contains("## ⚠️ Feature Branch Validation Failed")
	gt.String(t, d.Comment.Body).Contains("true, false")
	gt.String(t, d.Comment.Body).Contains(rule.MarkerFeatureBranch)
	gt.Equal(t, d.CheckRun.Output.Summary, d.Error)
}

func TestDecideFeatureBranch_LabelPresentDoesNotReadField(t *testing.T) {
	d := rule.DecideFeatureBranch(rule.FeatureBranchInput{
		Body:   featureBranchBody(`needs_feature_branch: true`),
		Labels: []string{"feature-branch"},
	})

	gt.True(t, d.Field.IsAbsent())
	gt.True(t, d.Label.IsEmpty())
}
