package ws

type ReqBody struct {
	Seq   int64  `json:"seq"`
	Name  string `json:"name"`
	Msg   any    `json:"msg"`
	Proxy string `json:"proxy"`
}

type RespBody struct {
	Seq  int64  `json:"seq"`
	Name string `json:"name"`
	Code int    `json:"code"`
	Msg  any    `json:"msg"`
}

type WsMsgReq struct {
	Body *ReqBody
	Conn WSConn
}

type WsMsgResp struct {
	Body *RespBody
}

// WSConn is the per-connection handle handlers see: properties hold the
// session binding, Push sends a server-initiated message.
type WSConn interface {
	SetProperty(key string, value any)
	GetProperty(key string) any
	RemoveProperty(key string)
	Addr() string
	Push(name string, data any)
	Close()
	// Done is closed when the connection ends.
	Done() <-chan struct{}
}

type Handshake struct {
	Key string `json:"key"`
}

type Heartbeat struct {
	CTime int64 `json:"ctime" mapstructure:"ctime"`
	STime int64 `json:"stime" mapstructure:"stime"`
}

const (
	HandshakeMsg = "handshake"
	SecretKey    = "secretKey"
	ConnKeyUID   = "uid"
	HeartbeatMsg = "heartbeat"
)
