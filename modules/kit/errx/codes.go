package errx

// System-level codes shared by every service.
//
// Constraints:
//   - these codes normalise technical failures (alerting, observability, cross-service triage)
//   - domain codes (e.g. GROVE_NOT_FOUND) belong to their own package, never here
const (
	// CodeInternal is the fallback for unexpected failures inside the service.
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeUnavailable means a dependency (store, downstream service, network) is unavailable.
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	// CodeTimeout means the request or a dependency call exceeded its deadline.
	CodeTimeout Code = "TIMEOUT"
	// CodeRateLimited means the request was shed by rate limiting.
	CodeRateLimited Code = "RATE_LIMITED"
	// CodeMaintenance means the service is in maintenance.
	CodeMaintenance Code = "MAINTENANCE"
	// CodeReqParamError means the request could not be decoded.
	CodeReqParamError Code = "CODE_REQ_PARAM_ERROR"
)

// Shared system sentinels. Derive with WithData/WithCause, never mutate.
var (
	ErrInternal    = NewSys(CodeInternal, "internal server error")
	ErrUnavailable = NewSys(CodeUnavailable, "service unavailable")
	ErrTimeout     = NewSys(CodeTimeout, "request timed out")
	ErrRateLimited = NewSys(CodeRateLimited, "too many requests")
	ErrMaintenance = NewSys(CodeMaintenance, "service under maintenance")
	ErrReqParamERR = NewSys(CodeReqParamError, "invalid request parameters")
)
