package logx

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// BizLog is the typed input of a business rejection log line.
type BizLog struct {
	Action  string
	Reason  string
	Message string
}

// SysLog is the typed input of a technical error log line.
type SysLog struct {
	Action string
	Err    error
}

func NewBizLog(action, reason, message string) BizLog {
	return BizLog{
		Action:  action,
		Reason:  reason,
		Message: message,
	}
}

func NewSysLog(action string, err error) SysLog {
	return SysLog{
		Action: action,
		Err:    err,
	}
}

// ReportAccess writes one access line per request:
//   - biz_code == 0: INFO
//   - biz_code 1..499: WARN
//   - biz_code >= 500: ERROR
func ReportAccess(ctx context.Context, l Logger, action string, bizCode int, fields ...zap.Field) {
	if l == nil {
		return
	}
	base := []zap.Field{
		zap.String("log_type", "access"),
		zap.String("action", action),
		zap.Int("biz_code", bizCode),
	}
	base = append(base, fields...)
	withCtx := l.WithContext(ctx)
	switch {
	case bizCode == 0:
		withCtx.Info("access", base...)
	case bizCode >= 500:
		withCtx.Error("access", base...)
	default:
		withCtx.Warn("access", base...)
	}
}

// ReportBiz logs a business rejection: INFO, err_type=biz, no stack.
func ReportBiz(ctx context.Context, l Logger, biz BizLog, fields ...zap.Field) {
	if l == nil {
		return
	}
	action := biz.Action
	if action == "" {
		action = "biz_reject"
	}

	base := []zap.Field{
		zap.String("err_type", "biz"),
		zap.String("action", action),
	}
	if biz.Reason != "" {
		base = append(base, zap.String("reason", biz.Reason))
	}
	if biz.Message != "" {
		base = append(base, zap.String("biz_message", biz.Message))
	}
	base = append(base, fields...)

	msg := action
	switch {
	case biz.Reason != "" && biz.Message != "":
		msg = fmt.Sprintf("%s, reason:%s, msg:%s", action, biz.Reason, biz.Message)
	case biz.Reason != "":
		msg = fmt.Sprintf("%s, reason:%s", action, biz.Reason)
	case biz.Message != "":
		msg = fmt.Sprintf("%s, msg:%s", action, biz.Message)
	}
	l.WithContext(ctx).Info(msg, base...)
}

// ReportSysError logs a technical failure: ERROR, err_type=sys, with code, cause chain and origin stack.
func ReportSysError(ctx context.Context, l Logger, sys SysLog, fields ...zap.Field) {
	if sys.Err == nil || l == nil {
		return
	}
	action := sys.Action
	if action == "" {
		action = "sys_error"
	}

	meta := BuildErrorLog(sys.Err)
	base := []zap.Field{
		zap.String("err_type", "sys"),
		zap.String("action", action),
	}
	if meta.Code != "" {
		base = append(base, zap.String("error_code", meta.Code))
	}
	if len(meta.CauseChain) != 0 {
		base = append(base, zap.Strings("cause_chain", meta.CauseChain))
	}
	if len(meta.Data) != 0 {
		base = append(base, zap.Any("error_data", meta.Data))
	}
	if meta.Origin != "" {
		base = append(base, zap.String("origin_caller", meta.Origin))
	}
	if meta.Stack != "" {
		base = append(base, zap.String("stack_origin", meta.Stack))
	}
	base = append(base, fields...)

	finalMsg := fmt.Sprintf("%s, error:%s", action, meta.Error)
	if meta.Reason != "" {
		finalMsg = fmt.Sprintf("%s, reason:%s, error:%s", action, meta.Reason, meta.Error)
	} else if meta.Msg != "" {
		finalMsg = fmt.Sprintf("%s, error:%s, msg:%s", action, meta.Error, meta.Msg)
	}
	l.WithContext(ctx).Error(finalMsg, base...)
}
