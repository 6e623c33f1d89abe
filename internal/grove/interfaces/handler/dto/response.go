package dto

// Response is the envelope every grove transport answers with.
type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg,omitempty"`
	Data any    `json:"data,omitempty"`
}

func Success(code int, data any) Response {
	return Response{Code: code, Data: data}
}

func Error(code int, msg string) Response {
	return Response{Code: code, Msg: msg}
}

// SessionReq asks for a development token.
type SessionReq struct {
	Username string `json:"username" binding:"required,max=64"`
}

type SessionResp struct {
	Token    string `json:"token"`
	PlayerID string `json:"playerId"`
	Username string `json:"username"`
}

// LoginReq binds a websocket connection to a token's user.
type LoginReq struct {
	Token string `json:"token" mapstructure:"token"`
}
