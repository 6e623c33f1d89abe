package errs

import "fmt"

type Kind string

const (
	KindUnknown    Kind = "unknown"
	KindInfra      Kind = "infra"
	KindDependency Kind = "dependency"
	KindBusiness   Kind = "business"
)

// Error records where a failure happened without changing what it is;
// errors.Is and errors.As see through to Cause.
type Error struct {
	Op    string         // e.g. store.mongodb.CompareAndSwap
	Kind  Kind           // coarse class
	Meta  map[string]any // key parameters (key, version, ...)
	Cause error          // root cause, always kept
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

func Wrap(op string, kind Kind, cause error, meta map[string]any) error {
	if cause == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Cause: cause, Meta: meta}
}
