package transport

// BizCode is the typed business code carried on every response envelope.
type BizCode int

// Codes 1..499 are client-side rejections logged at WARN; 500+ are logged at ERROR.
const (
	OK           = 0
	InvalidParam = 1
	Unauthorized = 3
	NotFound     = 4
	Rejected     = 10
	WorldFull    = 20
	Retry        = 21
	SystemError  = 500
	Unavailable  = 503
	Timeout      = 504
)
