package rule

import (
	"fmt"
	"strings"

	"github.com/m-mizutani/sheepdog/pkg/domain/model"
)

const (
	FieldRelease            = "release"
	FieldBackport           = "backport"
	FieldNeedsFeatureBranch = "needs_feature_branch"
)

// CategoryStatus is the result of evaluating one category
type CategoryStatus int

const (
	// CategorySkipped means the field is absent or a label of the category already exists
	CategorySkipped CategoryStatus = iota
	CategoryValid
	CategoryInvalid
)

func (s CategoryStatus) String() string {
	switch s {
	case CategorySkipped:
		return "skipped"
	case CategoryValid:
		return "valid"
	case CategoryInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// CategoryInput is the input of DecideCategory
type CategoryInput struct {
	Category  model.Category
	Field     model.FieldValue
	Allowlist []string
	// HasLabel is true when a label of the category is already attached
	HasLabel bool
}

// CategoryDecision is the outcome of one category
type CategoryDecision struct {
	Category      model.Category
	Status        CategoryStatus
	Labels        []string
	Errors        []string
	ExistingLabel bool
}

// DecideCategory evaluates one release/backport category.
// Arrays are all-or-nothing: one invalid element blocks every label of the category.
func DecideCategory(in CategoryInput) CategoryDecision {
	d := CategoryDecision{Category: in.Category, Status: CategorySkipped}

	if !in.Field.HasValue() {
		return d
	}
	if in.HasLabel {
		d.ExistingLabel = true
		return d
	}

	accepted := strings.Join(in.Allowlist, ", ")

	if in.Field.Kind == model.FieldMalformed {
		d.Status = CategoryInvalid
		d.Errors = []string{fmt.Sprintf(
			"Invalid %s value: could not parse array %s. Use a single-line list of quoted values. Accepted values: %s",
			in.Category, in.Field.Raw, accepted)}
		return d
	}

	outcome := Validate(in.Field, in.Allowlist)
	valid, invalid := outcome.Partition()

	if len(invalid) > 0 {
		d.Status = CategoryInvalid
		if outcome.IsArray {
			d.Errors = []string{fmt.Sprintf("Invalid %s values: %s. Accepted values: %s",
				in.Category, quoteJoin(invalid), accepted)}
		} else {
			d.Errors = []string{fmt.Sprintf("Invalid %s value: %q. Accepted values: %s",
				in.Category, invalid[0], accepted)}
		}
		return d
	}

	d.Status = CategoryValid
	for _, v := range valid {
		d.Labels = append(d.Labels, in.Category.Label(v))
	}
	return d
}

// ReleaseBackportInput is the input of DecideReleaseBackport. A category with an empty allowlist is not evaluated.
type ReleaseBackportInput struct {
	Body              string
	Labels            []string
	AcceptedReleases  []string
	AcceptedBackports []string
	HeadSHA           string
	DetailsURL        string
}

// ReleaseBackportDecision is the combined decision of both categories
type ReleaseBackportDecision struct {
	Categories []CategoryDecision
	Errors     []string
	Labels     model.LabelIntent
	Comment    model.CommentIntent
	CheckRuns  []model.CheckRunIntent
}

// Failed reports whether any category produced a validation error
func (d *ReleaseBackportDecision) Failed() bool {
	return len(d.Errors) > 0
}

// DecideReleaseBackport evaluates release and backport together. Any error in either category blocks the labels of both.
func DecideReleaseBackport(in ReleaseBackportInput) *ReleaseBackportDecision {
	fragment, _ := ExtractYAMLBlock(in.Body)

	type category struct {
		category  model.Category
		field     string
		allowlist []string
		checkRun  string
	}
	categories := []category{
		{model.CategoryRelease, FieldRelease, in.AcceptedReleases, CheckRunRelease},
		{model.CategoryBackport, FieldBackport, in.AcceptedBackports, CheckRunBackport},
	}

	decision := &ReleaseBackportDecision{}
	var checkRunNames []string
	for _, c := range categories {
		if len(c.allowlist) == 0 {
			continue
		}
		cd := DecideCategory(CategoryInput{
			Category:  c.category,
			Field:     ParseField(fragment, c.field),
			Allowlist: c.allowlist,
			HasLabel:  model.HasAnyLabel(in.Labels, c.category.Patterns()...),
		})
		decision.Categories = append(decision.Categories, cd)
		decision.Errors = append(decision.Errors, cd.Errors...)
		checkRunNames = append(checkRunNames, c.checkRun)
	}

	if decision.Failed() {
		decision.Comment = model.CommentIntent{
			Action: model.CommentCreate,
			Marker: MarkerReleaseBackport,
			Body:   ReleaseBackportComment(decision.Errors, in.AcceptedReleases, in.AcceptedBackports),
		}
	} else {
		decision.Comment = model.CommentIntent{
			Action: model.CommentDeleteAllMatching,
			Marker: MarkerReleaseBackport,
		}
		for _, cd := range decision.Categories {
			decision.Labels.Names = append(decision.Labels.Names, cd.Labels...)
		}
	}

	for i, cd := range decision.Categories {
		decision.CheckRuns = append(decision.CheckRuns, model.CheckRunIntent{
			Name:       checkRunNames[i],
			HeadSHA:    in.HeadSHA,
			DetailsURL: in.DetailsURL,
			Status:     model.CheckRunCompleted,
			Conclusion: categoryConclusion(cd, decision.Failed()),
			Output:     categoryOutput(cd, decision.Failed(), in.AcceptedReleases, in.AcceptedBackports),
		})
	}

	return decision
}

func categoryConclusion(cd CategoryDecision, failed bool) model.CheckRunConclusion {
	switch {
	case cd.Status == CategoryInvalid:
		return model.ConclusionFailure
	case failed:
		return model.ConclusionNeutral
	default:
		return model.ConclusionSuccess
	}
}

func categoryOutput(cd CategoryDecision, failed bool, acceptedReleases, acceptedBackports []string) model.CheckRunOutput {
	name := titleCase(string(cd.Category))

	switch {
	case cd.Status == CategoryInvalid:
		return model.CheckRunOutput{
			Title:   fmt.Sprintf("%s validation failed", name),
			Summary: strings.Join(cd.Errors, "\n"),
			Text:    bullets(cd.Errors) + "\n### How to fix\n\n" + releaseBackportRemediation(acceptedReleases, acceptedBackports),
		}

	case failed:
		return model.CheckRunOutput{
			Title:   fmt.Sprintf("%s labels not applied", name),
			Summary: "Labels were not applied because another field of the YAML block failed validation.",
		}

	case cd.ExistingLabel:
		return model.CheckRunOutput{
			Title:   fmt.Sprintf("%s validation passed", name),
			Summary: fmt.Sprintf("A %s label is already set, no labels needed.", cd.Category),
		}

	case len(cd.Labels) == 0:
		return model.CheckRunOutput{
			Title:   fmt.Sprintf("%s validation passed", name),
			Summary: "No labels needed.",
		}

	default:
		return model.CheckRunOutput{
			Title:   fmt.Sprintf("%s validation passed", name),
			Summary: fmt.Sprintf("Labels applied: %s", strings.Join(cd.Labels, ", ")),
		}
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
