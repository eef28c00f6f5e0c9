package model

// FieldKind classifies the result of parsing one YAML field
type FieldKind int

const (
	FieldAbsent FieldKind = iota
	FieldScalar
	FieldArray
	FieldMalformed
)

func (k FieldKind) String() string {
	switch k {
	case FieldAbsent:
		return "absent"
	case FieldScalar:
		return "scalar"
	case FieldArray:
		return "array"
	case FieldMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// FieldValue is the parsed value of a named field of a YAML fragment
type FieldValue struct {
	Kind   FieldKind
	Scalar string
	Values []string
	// Raw keeps the unparsed text of an array field for error messages
	Raw string
}

// Absent returns a value representing a missing field
func Absent() FieldValue {
	return FieldValue{Kind: FieldAbsent}
}

// Scalar returns a scalar field value
func Scalar(v string) FieldValue {
	return FieldValue{Kind: FieldScalar, Scalar: v}
}

// ArrayOf returns an array field value
func ArrayOf(values ...string) FieldValue {
	return FieldValue{Kind: FieldArray, Values: values}
}

// Malformed returns a field value that is present but cannot be parsed
func Malformed(raw string) FieldValue {
	return FieldValue{Kind: FieldMalformed, Raw: raw}
}

// IsAbsent reports whether the field was not found
func (v FieldValue) IsAbsent() bool {
	return v.Kind == FieldAbsent
}

// HasValue reports whether the field carries at least one usable value or is syntactically present but malformed.
// An empty array has no value.
func (v FieldValue) HasValue() bool {
	switch v.Kind {
	case FieldScalar, FieldMalformed:
		return true
	case FieldArray:
		return len(v.Values) > 0
	default:
		return false
	}
}
