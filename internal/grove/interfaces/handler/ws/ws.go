package ws

import (
	"context"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"GroveWorld/internal/grove/identity"
	"GroveWorld/internal/grove/interfaces/handler"
	"GroveWorld/internal/grove/interfaces/handler/dto"
	"GroveWorld/internal/grove/service"
	"GroveWorld/internal/shared/transport"
	"GroveWorld/internal/shared/transport/ws"
)

// connKeyIdentity holds the identity.Identity bound by session.login.
const connKeyIdentity = "identity"

type WsHandler struct {
	grove   *handler.Grove
	schemas map[string]*jsonschema.Schema
}

func NewWsHandler(g *handler.Grove) (*WsHandler, error) {
	schemas, err := compileSchemas()
	if err != nil {
		return nil, err
	}
	return &WsHandler{grove: g, schemas: schemas}, nil
}

func (h *WsHandler) RegisterRoutes(r *ws.Router) {
	r.Group("session").Handle("login", h.Login)

	grove := r.Group("grove")
	for _, name := range service.ActionNames {
		grove.Handle(name, h.action(name))
	}
}

// Login binds the connection to the token's user; later grove.* messages
// on this connection act as that user.
func (h *WsHandler) Login(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	if wsReq == nil || wsReq.Body == nil || wsReq.Conn == nil || wsResp == nil || wsResp.Body == nil {
		h.fail(wsResp, transport.InvalidParam, "invalid parameters")
		return
	}

	var req dto.LoginReq
	if err := ws.Bind(wsReq, &req); err != nil {
		h.fail(wsResp, transport.InvalidParam, "invalid parameters")
		return
	}

	ident, err := h.grove.Authenticate(ctx, req.Token)
	if err != nil {
		h.error(ctx, wsResp, err)
		return
	}

	wsReq.Conn.SetProperty(connKeyIdentity, ident)
	if s := h.grove.Session(); s != nil {
		s.Bind(string(ident.PlayerID), req.Token, wsReq.Conn)
	}
	h.ok(wsResp, map[string]string{"playerId": string(ident.PlayerID), "username": ident.Username})
}

func (h *WsHandler) action(name string) ws.HandlerFunc {
	return func(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
		if wsReq == nil || wsReq.Body == nil || wsReq.Conn == nil || wsResp == nil || wsResp.Body == nil {
			h.fail(wsResp, transport.InvalidParam, "invalid parameters")
			return
		}

		payload := wsReq.Body.Msg
		if payload == nil {
			payload = map[string]any{}
		}
		if s := h.schemas[name]; s != nil {
			if err := s.Validate(payload); err != nil {
				h.fail(wsResp, transport.InvalidParam, err.Error())
				return
			}
		}

		var ident identity.Identity
		if name != service.ActionChatRecent {
			bound, ok := wsReq.Conn.GetProperty(connKeyIdentity).(identity.Identity)
			if !ok {
				h.error(ctx, wsResp, identity.ErrNoIdentity)
				return
			}
			ident = bound
		}

		r := h.grove.Run(ctx, ident, name, payload)
		wsResp.Body.Code = r.Code
		if r.Data != nil {
			wsResp.Body.Msg = r.Data
		} else {
			wsResp.Body.Msg = r.Msg
		}
	}
}

func (h *WsHandler) ok(resp *ws.WsMsgResp, data any) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = transport.OK
	resp.Body.Msg = data
}

func (h *WsHandler) fail(resp *ws.WsMsgResp, code int, msg string) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = code
	if msg != "" {
		resp.Body.Msg = msg
	}
}

func (h *WsHandler) error(ctx context.Context, resp *ws.WsMsgResp, err error) {
	code, msg := handler.HandleError(ctx, err)
	h.fail(resp, code, msg)
}
