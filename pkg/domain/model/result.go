package model

import (
	"encoding/json"
	"fmt"
	"slices"
)

// AutomationResult summarizes what one invocation did. Handlers build their own result and the orchestrator merges them.
type AutomationResult struct {
	LabelsAdded     []string
	Actions         []string
	featuresEnabled map[string]struct{}
}

// NewAutomationResult returns an empty result
func NewAutomationResult() *AutomationResult {
	return &AutomationResult{featuresEnabled: map[string]struct{}{}}
}

// AddLabels appends newly attached labels
func (r *AutomationResult) AddLabels(names ...string) *AutomationResult {
	r.LabelsAdded = append(r.LabelsAdded, names...)
	return r
}

// AddAction appends a human readable action
func (r *AutomationResult) AddAction(format string, args ...any) *AutomationResult {
	r.Actions = append(r.Actions, fmt.Sprintf(format, args...))
	return r
}

// EnableFeature records a feature that ran
func (r *AutomationResult) EnableFeature(name string) *AutomationResult {
	if r.featuresEnabled == nil {
		r.featuresEnabled = map[string]struct{}{}
	}
	r.featuresEnabled[name] = struct{}{}
	return r
}

// FeaturesEnabled returns the sorted feature names
func (r *AutomationResult) FeaturesEnabled() []string {
	features := make([]string, 0, len(r.featuresEnabled))
	for f := range r.featuresEnabled {
		features = append(features, f)
	}
	slices.Sort(features)
	return features
}

// Merge appends other into r. Order of labels and actions is preserved.
func (r *AutomationResult) Merge(other *AutomationResult) *AutomationResult {
	if other == nil {
		return r
	}
	r.LabelsAdded = append(r.LabelsAdded, other.LabelsAdded...)
	r.Actions = append(r.Actions, other.Actions...)
	for f := range other.featuresEnabled {
		r.EnableFeature(f)
	}
	return r
}

type automationResultJSON struct {
	LabelsAdded     []string `json:"labels_added"`
	Actions         []string `json:"actions"`
	FeaturesEnabled []string `json:"features_enabled"`
}

// MarshalJSON implements json.Marshaler
func (r *AutomationResult) MarshalJSON() ([]byte, error) {
	out := automationResultJSON{
		LabelsAdded:     r.LabelsAdded,
		Actions:         r.Actions,
		FeaturesEnabled: r.FeaturesEnabled(),
	}
	if out.LabelsAdded == nil {
		out.LabelsAdded = []string{}
	}
	if out.Actions == nil {
		out.Actions = []string{}
	}
	return json.Marshal(out)
}

// Feature names recorded in AutomationResult
const (
	FeatureTriage           = "triage"
	FeatureSmartLabeling    = "smart-labeling"
	FeatureTriageProtection = "triage-protection"
	FeatureReleaseBackport  = "release-backport"
	FeatureFeatureBranch    = "feature-branch"
	FeatureStaleDetection   = "stale-detection"
)
