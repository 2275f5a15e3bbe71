package core

import "fmt"

// ValidationKind identifies which rule a submitted field violated
type ValidationKind int

const (
	// MissingField means a schema feature was absent from the input
	MissingField ValidationKind = iota
	// InvalidNumber means a field value could not be parsed as a float
	InvalidNumber
	// NegativeValue means a field parsed to a value below zero
	NegativeValue
)

// ValidationError reports the first input rule violated, in feature schema
// order. Its message is the user-facing error string.
type ValidationError struct {
	Kind  ValidationKind
	Field string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case MissingField:
		return fmt.Sprintf("Metric missing: %s", e.Field)
	case InvalidNumber:
		return fmt.Sprintf("Invalid numeric entry for: %s", e.Field)
	case NegativeValue:
		return fmt.Sprintf("Field %s must contain a non-negative value", e.Field)
	default:
		return fmt.Sprintf("Invalid value for: %s", e.Field)
	}
}
