package rule

import "github.com/m-mizutani/sheepdog/pkg/domain/model"

// SmartLabelAction is what smart labeling decided for a pull request
type SmartLabelAction int

const (
	SmartLabelNone SmartLabelAction = iota
	SmartLabelSkipDraft
	SmartLabelReadyForReview
	SmartLabelTriage
)

func (a SmartLabelAction) String() string {
	switch a {
	case SmartLabelNone:
		return "none"
	case SmartLabelSkipDraft:
		return "skip_draft"
	case SmartLabelReadyForReview:
		return "ready_for_review"
	case SmartLabelTriage:
		return "triage"
	default:
		return "unknown"
	}
}

type SmartLabelInput struct {
	Draft  bool
	Labels []string
	Body   string
}

type SmartLabelDecision struct {
	Action SmartLabelAction
	// Label is the label to add. Empty when it is already attached or nothing applies.
	Label string

	HasRelease        bool
	HasBackport       bool
	HasTriage         bool
	HasReadyForReview bool
	ReleaseInYAML     bool
	BackportInYAML    bool
}

// DecideSmartLabel chooses between "ready for review" and "triage". Pull requests targeting a backport only are left alone.
func DecideSmartLabel(in SmartLabelInput) SmartLabelDecision {
	if in.Draft {
		return SmartLabelDecision{Action: SmartLabelSkipDraft}
	}

	d := SmartLabelDecision{
		HasRelease:        model.HasAnyLabel(in.Labels, model.CategoryRelease.Patterns()...),
		HasBackport:       model.HasAnyLabel(in.Labels, model.CategoryBackport.Patterns()...),
		HasTriage:         model.HasAnyLabel(in.Labels, model.LabelTriage),
		HasReadyForReview: model.HasAnyLabel(in.Labels, model.LabelReadyForReview),
	}

	if fragment, ok := ExtractYAMLBlock(in.Body); ok {
		d.ReleaseInYAML = ParseField(fragment, FieldRelease).HasValue()
		d.BackportInYAML = ParseField(fragment, FieldBackport).HasValue()
	}

	switch {
	case d.HasRelease || d.ReleaseInYAML:
		d.Action = SmartLabelReadyForReview
		if !d.HasReadyForReview {
			d.Label = model.LabelReadyForReview
		}
	case !(d.HasBackport || d.BackportInYAML):
		d.Action = SmartLabelTriage
		if !d.HasTriage {
			d.Label = model.LabelTriage
		}
	default:
		d.Action = SmartLabelNone
	}

	return d
}

// NeedsTriageProtection reports whether triage must be re-added after a label removal
func NeedsTriageProtection(labels []string) bool {
	if model.HasAnyLabel(labels, model.LabelTriage) {
		return false
	}
	patterns := append(model.CategoryRelease.Patterns(), model.CategoryBackport.Patterns()...)
	return !model.HasAnyLabel(labels, patterns...)
}
