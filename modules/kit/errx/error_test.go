package errx

import (
	"errors"
	"testing"
)

func TestError_Is_ComparesCodeOnly(t *testing.T) {
	e1 := NewBiz("BIZ_X", "x").WithData("k", "v").WithCause(errors.New("cause1"))
	e2 := NewBiz("BIZ_X", "x2").WithData("k2", "v2").WithCause(errors.New("cause2"))
	if !errors.Is(e1, e2) {
		t.Fatalf("expected errors.Is(e1, e2) to match on code, e1=%v e2=%v", e1, e2)
	}
	if errors.Is(e1, NewBiz("BIZ_Y", "x")) {
		t.Fatalf("expected different codes not to match")
	}
}

func TestError_BizErrorKeepsCauseWithoutStack(t *testing.T) {
	cause := errors.New("store down")
	err := NewBiz("BIZ_PLANT_FAIL", "plant rejected").WithCause(cause)
	if got := err.Stack(); got != nil {
		t.Fatalf("expected biz errors not to capture a stack, got=%v", got)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause chain to survive, err=%v", err)
	}
	if err.IsSys() {
		t.Fatalf("expected biz kind")
	}
}

func TestError_SysErrorCapturesStackOnce(t *testing.T) {
	cause := errors.New("io timeout")
	sys := NewSys("SYS_STORE_UNAVAILABLE", "store unavailable").WithCause(cause)
	if got := sys.Stack(); len(got) == 0 {
		t.Fatalf("expected a stack where the system error was wrapped")
	}

	sys2 := NewSys("SYS_GATEWAY_ERROR", "gateway error").WithCause(sys)
	if got := sys2.Stack(); got != nil {
		t.Fatalf("expected the outer error not to capture again, got=%v", got)
	}
}

func TestError_DataIsCopied(t *testing.T) {
	base := NewBiz("BIZ_X", "").WithData("k", "v")
	child := base.WithData("k", "child")
	base.Data()["k"] = "mutated"
	if got := base.Data()["k"]; got != "v" {
		t.Fatalf("expected Data to return a copy, got=%v", got)
	}
	if got := child.Data()["k"]; got != "child" || base.Data()["k"] != "v" {
		t.Fatalf("expected WithData to leave the parent alone, child=%v", got)
	}
}

type reason string

func (r reason) ReasonCode() string { return string(r) }

func TestError_WithReason(t *testing.T) {
	err := ErrUnavailable.WithReason(reason("STORE_DOWN"))
	if err.Reason() != "STORE_DOWN" {
		t.Fatalf("reason=%q", err.Reason())
	}
	if ErrUnavailable.Reason() != "" {
		t.Fatalf("sentinel must stay untouched")
	}
}
