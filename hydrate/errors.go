package hydrate

import (
	"errors"
	"fmt"
	"strings"
)

// MissingFieldsError is returned when required field paths are absent from
// the input mapping. It lists every missing path, in the order checked.
type MissingFieldsError struct {
	Paths []string
}

func (e *MissingFieldsError) Error() string {
	prefix := "Keys"
	if len(e.Paths) == 1 {
		prefix = "Key"
	}

	quoted := make([]string, len(e.Paths))
	for i, p := range e.Paths {
		quoted[i] = "'" + p + "'"
	}
	return fmt.Sprintf("%s [%s] not found in event", prefix, strings.Join(quoted, ", "))
}

// ConstructionError is returned when a validated input still cannot be turned
// into an instance of the target type.
type ConstructionError struct {
	Schema string
	Path   string
	Reason string
	Err    error
}

func (e *ConstructionError) Error() string {
	msg := fmt.Sprintf("cannot construct %s", e.Schema)
	if e.Path != "" {
		msg += fmt.Sprintf(": field %s", e.Path)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// IsMissingFields reports whether err is or wraps a MissingFieldsError
func IsMissingFields(err error) bool {
	var mfe *MissingFieldsError
	return errors.As(err, &mfe)
}

// IsConstruction reports whether err is or wraps a ConstructionError
func IsConstruction(err error) bool {
	var ce *ConstructionError
	return errors.As(err, &ce)
}

// MissingPaths extracts the missing paths from err, if it carries any
func MissingPaths(err error) ([]string, bool) {
	var mfe *MissingFieldsError
	if errors.As(err, &mfe) {
		return mfe.Paths, true
	}
	return nil, false
}
