package model

import "strings"

const (
	LabelTriage         = "triage"
	LabelReadyForReview = "ready for review"
	LabelStale          = "stale"
	LabelFeatureBranch  = "feature-branch"
)

// Category is a label family assigned from a YAML field of the same name
type Category string

const (
	CategoryRelease  Category = "release"
	CategoryBackport Category = "backport"
)

// Label returns the label for a value of the category, e.g. "release-1.5"
func (c Category) Label(value string) string {
	return string(c) + "-" + value
}

// Patterns returns label patterns matching any label of the category. Both "release-1.5" and "release 1.5" forms are recognized.
func (c Category) Patterns() []string {
	return []string{string(c) + "-*", string(c) + " *"}
}

// MatchLabels evaluates each pattern against labels. A trailing "*" means prefix match, otherwise exact match.
func MatchLabels(labels []string, patterns []string) map[string]bool {
	result := make(map[string]bool, len(patterns))
	for _, p := range patterns {
		result[p] = false
		prefix, isPrefix := strings.CutSuffix(p, "*")
		for _, l := range labels {
			if (isPrefix && strings.HasPrefix(l, prefix)) || (!isPrefix && l == p) {
				result[p] = true
				break
			}
		}
	}
	return result
}

// HasAnyLabel reports whether any label matches any of the patterns
func HasAnyLabel(labels []string, patterns ...string) bool {
	for _, matched := range MatchLabels(labels, patterns) {
		if matched {
			return true
		}
	}
	return false
}
