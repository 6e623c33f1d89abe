package transport

import (
	"context"
	"time"

	"go.uber.org/zap"

	"GroveWorld/modules/kit/logx"
	"GroveWorld/modules/kit/tracex"
)

// AccessLog is the per-request log context shared by HTTP, WS and gRPC.
type AccessLog struct {
	BizCode     BizCode
	ErrorReason string
	startTime   time.Time
	action      string
}

type accessLogKey struct{}

func NewContext(action string) context.Context {
	return NewContextWithParent(context.Background(), action)
}

// NewContextWithParent keeps the parent's cancellation and reuses its trace id
// when one is already present.
func NewContextWithParent(parent context.Context, action string) context.Context {
	ctx := parent
	if ctx == nil {
		ctx = context.Background()
	}
	if action == "" {
		action = "unknown"
	}
	ctx, _ = tracex.EnsureTraceID(ctx)
	if _, ok := tracex.SpanIDFrom(ctx); !ok {
		ctx = tracex.WithSpanID(ctx, "grove")
	}

	al := &AccessLog{
		BizCode:   BizCode(SystemError),
		startTime: time.Now(),
		action:    action,
	}
	return context.WithValue(ctx, accessLogKey{}, al)
}

func FromContext(ctx context.Context) *AccessLog {
	if ctx == nil {
		return nil
	}
	al, _ := ctx.Value(accessLogKey{}).(*AccessLog)
	return al
}

func SetBizCode(ctx context.Context, code BizCode) {
	if al := FromContext(ctx); al != nil {
		al.BizCode = code
	}
}

func SetErrorReason(ctx context.Context, reason string) {
	if reason == "" {
		return
	}
	if al := FromContext(ctx); al != nil {
		al.ErrorReason = reason
	}
}

// WriteAccessLog emits the access line; call it deferred from middleware.
func WriteAccessLog(ctx context.Context, log logx.Logger) {
	al := FromContext(ctx)
	if al == nil || log == nil {
		return
	}

	fields := []zap.Field{
		zap.Duration("latency", time.Since(al.startTime)),
	}
	if al.BizCode == BizCode(OK) {
		fields = append(fields, zap.String("result", "success"))
	} else {
		fields = append(fields, zap.String("result", "failure"))
		if al.ErrorReason != "" {
			fields = append(fields, zap.String("error_reason", al.ErrorReason))
		}
	}
	logx.ReportAccess(ctx, log, al.action, int(al.BizCode), fields...)
}
