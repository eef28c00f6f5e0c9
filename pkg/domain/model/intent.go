package model

// LabelIntent requests adding labels
type LabelIntent struct {
	Names []string
}

// IsEmpty reports whether there is nothing to add
func (i LabelIntent) IsEmpty() bool {
	return len(i.Names) == 0
}

// CommentAction is what to do with marked comments
type CommentAction int

const (
	CommentNone CommentAction = iota
	CommentCreate
	CommentDeleteAllMatching
)

// CommentIntent requests creating (replacing) or removing the comments carrying Marker
type CommentIntent struct {
	Action CommentAction
	Marker string
	Body   string
}

// CheckRunIntent describes a check run to write
type CheckRunIntent struct {
	Name       string
	HeadSHA    string
	DetailsURL string
	Status     CheckRunStatus
	Conclusion CheckRunConclusion
	Output     CheckRunOutput
}

// Update returns the completion part of the intent
func (i CheckRunIntent) Update() CheckRunUpdate {
	return CheckRunUpdate{
		Status:     i.Status,
		Conclusion: i.Conclusion,
		Output:     i.Output,
	}
}
