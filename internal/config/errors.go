package config

import "fmt"

// Error reports an invalid configuration value. It always names the field
// that failed and the value that was rejected, so callers can surface it
// without extra context.
type Error struct {
	Field string
	Value string
	Msg   string
}

func (e *Error) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("config field %s: %s", e.Field, e.Msg)
	}
	return fmt.Sprintf("config field %s: %s (got %q)", e.Field, e.Msg, e.Value)
}

// errf builds an *Error for field with a formatted message.
func errf(field, value, format string, args ...any) *Error {
	return &Error{Field: field, Value: value, Msg: fmt.Sprintf(format, args...)}
}
