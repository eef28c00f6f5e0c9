package rule

import (
	"fmt"
	"strings"
)

const (
	// MarkerReleaseBackport is the attribution line of release/backport error comments. Cleanup deletes comments containing it.
	MarkerReleaseBackport = "<sub>🐕 Posted by sheepdog release/backport validation</sub>"
	// MarkerFeatureBranch is the attribution line of feature-branch error comments
	MarkerFeatureBranch = "<sub>🐕 Posted by sheepdog feature-branch validation</sub>"

	CheckRunRelease       = "Release Label Validation"
	CheckRunBackport      = "Backport Label Validation"
	CheckRunFeatureBranch = "Feature Branch Validation"
)

const fence = "```"

func quoteJoin(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(quoted, ", ")
}

func bullets(lines []string) string {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString("- ")
		sb.WriteString(l)
		sb.WriteString("\n")
	}
	return sb.String()
}

func releaseBackportExample(acceptedReleases, acceptedBackports []string) string {
	var sb strings.Builder
	sb.WriteString(fence + "yaml\n")
	if len(acceptedReleases) > 0 {
		sb.WriteString(fmt.Sprintf("release: %s\n", acceptedReleases[0]))
	}
	if len(acceptedBackports) > 0 {
		sb.WriteString(fmt.Sprintf("backport: [%s]\n", quoteJoin(acceptedBackports[:1])))
	}
	sb.WriteString(fence + "\n")
	return sb.String()
}

func releaseBackportRemediation(acceptedReleases, acceptedBackports []string) string {
	var sb strings.Builder
	sb.WriteString("Edit the pull request description so that the `yaml` block only uses accepted values. ")
	sb.WriteString("A field takes a single value or a single-line list, for example:\n\n")
	sb.WriteString(releaseBackportExample(acceptedReleases, acceptedBackports))
	if len(acceptedReleases) > 0 {
		sb.WriteString(fmt.Sprintf("\nAccepted release values: %s\n", strings.Join(acceptedReleases, ", ")))
	}
	if len(acceptedBackports) > 0 {
		sb.WriteString(fmt.Sprintf("\nAccepted backport values: %s\n", strings.Join(acceptedBackports, ", ")))
	}
	return sb.String()
}

// ReleaseBackportComment renders the error comment for release/backport validation failures
func ReleaseBackportComment(errs []string, acceptedReleases, acceptedBackports []string) string {
	var sb strings.Builder
	sb.WriteString("## ⚠️ Release/Backport Label Validation Failed\n\n")
	sb.WriteString("The YAML block in this pull request description has invalid values, so no release or backport labels were applied:\n\n")
	sb.WriteString(bullets(errs))
	sb.WriteString("\n### How to fix\n\n")
	sb.WriteString(releaseBackportRemediation(acceptedReleases, acceptedBackports))
	sb.WriteString("\nLabels are applied automatically once the description is valid, and this comment is removed.\n\n")
	sb.WriteString(MarkerReleaseBackport + "\n")
	return sb.String()
}

// FeatureBranchComment renders the error comment for an invalid needs_feature_branch value
func FeatureBranchComment(errMsg string) string {
	var sb strings.Builder
	sb.WriteString("## ⚠️ Feature Branch Validation Failed\n\n")
	sb.WriteString("The `needs_feature_branch` field in the YAML block of this pull request description is invalid:\n\n")
	sb.WriteString(bullets([]string{errMsg}))
	sb.WriteString("\n### How to fix\n\n")
	sb.WriteString("Set `needs_feature_branch` to `true` or `false` (case-insensitive, quotes optional):\n\n")
	sb.WriteString(fence + "yaml\nneeds_feature_branch: true\n" + fence + "\n")
	sb.WriteString("\nThe `feature-branch` label is applied automatically when the value is `true`.\n\n")
	sb.WriteString(MarkerFeatureBranch + "\n")
	return sb.String()
}
