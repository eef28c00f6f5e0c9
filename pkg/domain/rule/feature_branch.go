package rule

import (
	"fmt"
	"strings"

	"github.com/m-mizutani/sheepdog/pkg/domain/model"
)

// FeatureBranchState is the evaluated state of the needs_feature_branch field
type FeatureBranchState int

const (
	FeatureBranchLabelPresent FeatureBranchState = iota
	FeatureBranchNotSpecified
	FeatureBranchEnabled
	FeatureBranchDisabled
	FeatureBranchInvalid
)

func (s FeatureBranchState) String() string {
	switch s {
	case FeatureBranchLabelPresent:
		return "label_present"
	case FeatureBranchNotSpecified:
		return "not_specified"
	case FeatureBranchEnabled:
		return "enabled"
	case FeatureBranchDisabled:
		return "disabled"
	case FeatureBranchInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// FeatureBranchInput is the input of DecideFeatureBranch
type FeatureBranchInput struct {
	Body       string
	Labels     []string
	HeadSHA    string
	DetailsURL string
}

// FeatureBranchDecision is the outcome of the feature-branch rule
type FeatureBranchDecision struct {
	State    FeatureBranchState
	Field    model.FieldValue
	Label    model.LabelIntent
	Comment  model.CommentIntent
	CheckRun model.CheckRunIntent
	Error    string
}

// DecideFeatureBranch evaluates needs_feature_branch. The field is not read when the label is already set.
func DecideFeatureBranch(in FeatureBranchInput) *FeatureBranchDecision {
	d := &FeatureBranchDecision{
		CheckRun: model.CheckRunIntent{
			Name:       CheckRunFeatureBranch,
			HeadSHA:    in.HeadSHA,
			DetailsURL: in.DetailsURL,
			Status:     model.CheckRunCompleted,
			Conclusion: model.ConclusionSuccess,
		},
	}
	cleanup := model.CommentIntent{Action: model.CommentDeleteAllMatching, Marker: MarkerFeatureBranch}

	if model.HasAnyLabel(in.Labels, model.LabelFeatureBranch) {
		d.State = FeatureBranchLabelPresent
		d.Comment = cleanup
		d.CheckRun.Output = model.CheckRunOutput{
			Title:   "Feature branch label already set",
			Summary: fmt.Sprintf("The %q label is already set, no action needed.", model.LabelFeatureBranch),
		}
		return d
	}

	d.Field = ParseBodyField(in.Body, FieldNeedsFeatureBranch)
	d.State, d.Error = evalFeatureBranchField(d.Field)

	switch d.State {
	case FeatureBranchNotSpecified:
		d.Comment = cleanup
		d.CheckRun.Output = model.CheckRunOutput{
			Title:   "No feature branch validation required",
			Summary: "needs_feature_branch is not specified, no validation required.",
		}

	case FeatureBranchDisabled:
		d.Comment = cleanup
		d.CheckRun.Output = model.CheckRunOutput{
			Title:   "Feature branch not needed",
			Summary: "needs_feature_branch is false, no label needed.",
		}

	case FeatureBranchEnabled:
		d.Label = model.LabelIntent{Names: []string{model.LabelFeatureBranch}}
		d.Comment = cleanup
		d.CheckRun.Output = model.CheckRunOutput{
			Title:   "Feature branch required",
			Summary: fmt.Sprintf("needs_feature_branch is true, label %q applied.", model.LabelFeatureBranch),
		}

	case FeatureBranchInvalid:
		d.Comment = model.CommentIntent{
			Action: model.CommentCreate,
			Marker: MarkerFeatureBranch,
			Body:   FeatureBranchComment(d.Error),
		}
		d.CheckRun.Conclusion = model.ConclusionFailure
		d.CheckRun.Output = model.CheckRunOutput{
			Title:   "Feature branch validation failed",
			Summary: d.Error,
			Text:    bullets([]string{d.Error}) + "\n### How to fix\n\nSet `needs_feature_branch` to `true` or `false`.\n",
		}
	}

	return d
}

func evalFeatureBranchField(field model.FieldValue) (FeatureBranchState, string) {
	switch field.Kind {
	case model.FieldAbsent:
		return FeatureBranchNotSpecified, ""

	case model.FieldScalar:
		switch strings.ToLower(strings.TrimSpace(field.Scalar)) {
		case "true":
			return FeatureBranchEnabled, ""
		case "false", "":
			return FeatureBranchDisabled, ""
		}
		return FeatureBranchInvalid, featureBranchError(fmt.Sprintf("%q", field.Scalar))

	default:
		return FeatureBranchInvalid, featureBranchError(field.Raw)
	}
}

func featureBranchError(value string) string {
	return fmt.Sprintf("Invalid %s value: %s. Accepted values: true, false (case-insensitive, quotes optional)",
		FieldNeedsFeatureBranch, value)
}
