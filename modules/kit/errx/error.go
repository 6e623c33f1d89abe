package errx

import (
	"errors"
	"fmt"
	"runtime"
)

// Code is the stable, externally visible identifier of an error.
type Code string

type kind uint8

const (
	kindBiz kind = iota
	kindSys
)

// Reason is the minimal interface of a machine readable rejection reason.
type Reason interface {
	ReasonCode() string
}

// Error is the common error model:
//   - code/msg: external meaning
//   - data: application context (copied on write, never shared)
//   - cause: original error chain, used for tracing only
//   - stack: captured once, where a system error is first wrapped
type Error struct {
	code  Code
	msg   string
	data  map[string]any
	cause error
	stack []uintptr
	kind  kind
}

func NewBiz(code Code, msg string) *Error {
	return &Error{
		code: code,
		msg:  msg,
		kind: kindBiz,
	}
}

func NewSys(code Code, msg string) *Error {
	return &Error{
		code: code,
		msg:  msg,
		kind: kindSys,
	}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.msg == "" {
		if e.cause == nil {
			return string(e.code)
		}
		return fmt.Sprintf("%s: %v", e.code, e.cause)
	}
	if e.cause == nil {
		return fmt.Sprintf("%s: %s", e.code, e.msg)
	}
	return fmt.Sprintf("%s: %s: %v", e.code, e.msg, e.cause)
}

// Unwrap exposes the cause chain to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is compares codes only; msg, data and cause are ignored.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return false
	}
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}
	return e.code == t.code
}

// IsSys reports whether e is a system (technical) error.
func (e *Error) IsSys() bool {
	return e != nil && e.kind == kindSys
}

func (e *Error) Code() Code {
	if e == nil {
		return ""
	}
	return e.code
}

func (e *Error) CodeText() string {
	if e == nil {
		return ""
	}
	return string(e.code)
}

func (e *Error) Msg() string {
	if e == nil {
		return ""
	}
	return e.msg
}

// Data returns a copy of the attached context.
func (e *Error) Data() map[string]any {
	if e == nil || e.data == nil {
		return nil
	}
	return cloneAnyMap(e.data)
}

// Reason returns the reason code stored under data["reason"].
func (e *Error) Reason() string {
	if e == nil || e.data == nil {
		return ""
	}
	v, ok := e.data["reason"]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

// Stack returns the call stack captured where a system error was first wrapped.
func (e *Error) Stack() []uintptr {
	if e == nil || len(e.stack) == 0 {
		return nil
	}
	out := make([]uintptr, len(e.stack))
	copy(out, e.stack)
	return out
}

func (e *Error) WithData(key string, value any) *Error {
	next := &Error{
		code:  e.code,
		msg:   e.msg,
		data:  cloneAnyMap(e.data),
		cause: e.cause,
		stack: cloneStack(e.stack),
		kind:  e.kind,
	}
	if next.data == nil {
		next.data = make(map[string]any, 1)
	}
	next.data[key] = value
	return next
}

// WithReason is shorthand for WithData("reason", reason.ReasonCode()).
func (e *Error) WithReason(reason Reason) *Error {
	if reason == nil {
		return e.WithData("reason", "")
	}
	return e.WithData("reason", reason.ReasonCode())
}

func (e *Error) WithCause(cause error) *Error {
	next := &Error{
		code:  e.code,
		msg:   e.msg,
		data:  cloneAnyMap(e.data),
		cause: cause,
		stack: cloneStack(e.stack),
		kind:  e.kind,
	}
	// capture once: only for system errors, and only when nothing below already did
	if next.kind == kindSys && cause != nil && len(next.stack) == 0 && !hasStackInChain(cause) {
		next.stack = captureStack(3)
	}
	return next
}

func cloneAnyMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneStack(in []uintptr) []uintptr {
	if len(in) == 0 {
		return nil
	}
	out := make([]uintptr, len(in))
	copy(out, in)
	return out
}

func captureStack(skip int) []uintptr {
	const maxDepth = 64
	pcs := make([]uintptr, maxDepth)
	n := runtime.Callers(skip, pcs)
	if n <= 0 {
		return nil
	}
	return pcs[:n]
}

func hasStackInChain(err error) bool {
	const maxDepth = 32
	for i := 0; i < maxDepth && err != nil; i++ {
		if sp, ok := err.(interface{ Stack() []uintptr }); ok && len(sp.Stack()) != 0 {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}
