package pipeline

import "fmt"

// DateParseError reports a date cell that is not a recognizable calendar date.
type DateParseError struct {
	Field    string
	Row      int
	RawValue string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("row %d: column %q: cannot parse date %q", e.Row, e.Field, e.RawValue)
}

// TypeCoercionError reports a cell that cannot be converted to its field's type.
type TypeCoercionError struct {
	Field    string
	Row      int
	RawValue string
	Reason   string
}

func (e *TypeCoercionError) Error() string {
	return fmt.Sprintf("row %d: column %q: value %q %s", e.Row, e.Field, e.RawValue, e.Reason)
}
