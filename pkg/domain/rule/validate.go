package rule

import (
	"slices"

	"github.com/m-mizutani/sheepdog/pkg/domain/model"
)

// Validate checks a scalar or each array element against the allowlist. Order and duplicates are kept.
// Absent and malformed fields must be handled by the caller.
func Validate(field model.FieldValue, allowlist []string) model.Outcome {
	switch field.Kind {
	case model.FieldScalar:
		return model.Outcome{
			Entries: []model.OutcomeEntry{{Value: field.Scalar, Valid: slices.Contains(allowlist, field.Scalar)}},
		}
	case model.FieldArray:
		outcome := model.Outcome{IsArray: true, Entries: make([]model.OutcomeEntry, 0, len(field.Values))}
		for _, v := range field.Values {
			outcome.Entries = append(outcome.Entries, model.OutcomeEntry{Value: v, Valid: slices.Contains(allowlist, v)})
		}
		return outcome
	default:
		return model.Outcome{}
	}
}
