package handler

import (
	"context"
	"errors"

	"GroveWorld/internal/grove/actor"
	"GroveWorld/internal/grove/identity"
	"GroveWorld/internal/shared/transport"
	"GroveWorld/modules/kit/errx"
)

const busyMsg = "system busy, please retry"

// HandleError maps err onto a client biz code and message and records the
// reason on the access log. Business errors keep their message; system
// errors are replaced by a generic one.
func HandleError(ctx context.Context, err error) (int, string) {
	if err == nil {
		return transport.OK, ""
	}
	if errors.Is(err, identity.ErrNoIdentity) || errors.Is(err, identity.ErrInvalidUsername) {
		transport.SetErrorReason(ctx, "UNAUTHORIZED")
		return transport.Unauthorized, "login required"
	}

	code := actor.CodeFromError(err)
	var xe *errx.Error
	if !errors.As(err, &xe) {
		transport.SetErrorReason(ctx, "RUNTIME")
		return code, busyMsg
	}
	if reason := xe.Reason(); reason != "" {
		transport.SetErrorReason(ctx, reason)
	} else {
		transport.SetErrorReason(ctx, xe.CodeText())
	}
	if xe.IsSys() {
		return code, busyMsg
	}
	return code, xe.Msg()
}
