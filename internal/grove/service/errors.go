package service

import (
	"context"
	"errors"

	"GroveWorld/internal/grove/app/port"
	"GroveWorld/modules/kit/errx"
)

// Code is the grove error code; system codes are reused from kit.
type Code = errx.Code

const (
	CodeNotFound  Code = "GROVE_NOT_FOUND"
	CodeWorldFull Code = "GROVE_WORLD_FULL"
	CodeConflict  Code = "GROVE_CONFLICT"
	CodeBadAction Code = "GROVE_BAD_ACTION"

	CodeUnavailable Code = errx.CodeUnavailable
	CodeTimeout     Code = errx.CodeTimeout
)

type Error = errx.Error

// Sentinels: derive with WithData/WithCause, never mutate.
var (
	ErrPlayerNotFound = errx.NewBiz(CodeNotFound, "player not found").WithReason(ReasonPlayerNotFound)
	ErrTreeNotFound   = errx.NewBiz(CodeNotFound, "tree not found").WithReason(ReasonTreeNotFound)
	ErrWorldFull      = errx.NewBiz(CodeWorldFull, "the world cannot admit more players")
	ErrBadAction      = errx.NewBiz(CodeBadAction, "unknown or malformed action")
	ErrConflict       = errx.NewSys(CodeConflict, "concurrent update, try again")
	ErrUnavailable    = errx.ErrUnavailable
	ErrTimeout        = errx.ErrTimeout
)

// storeErr turns a repository failure into the coordinator's error model.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	var xe *errx.Error
	if errors.As(err, &xe) {
		return err
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout.WithCause(err)
	case errors.Is(err, port.ErrVersionConflict):
		return ErrConflict.WithCause(err)
	case errors.Is(err, port.ErrNotFound):
		return errx.NewBiz(CodeNotFound, "record not found").WithCause(err)
	default:
		return ErrUnavailable.WithCause(err)
	}
}

// IsRetryable reports store failures and exhausted compare-and-swap retries;
// the caller may resend the same action.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrUnavailable) || errors.Is(err, ErrConflict)
}
