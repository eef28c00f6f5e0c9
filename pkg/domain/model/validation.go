package model

// OutcomeEntry is the validation result of one value
type OutcomeEntry struct {
	Value string
	Valid bool
}

// Outcome is the validation result of a scalar (one entry) or an array field
type Outcome struct {
	IsArray bool
	Entries []OutcomeEntry
}

// Partition splits values into valid and invalid ones, keeping input order
func (o Outcome) Partition() (valid, invalid []string) {
	for _, e := range o.Entries {
		if e.Valid {
			valid = append(valid, e.Value)
		} else {
			invalid = append(invalid, e.Value)
		}
	}
	return valid, invalid
}
