package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"GroveWorld/modules/kit/logx"
)

type Server struct {
	router   *Router
	log      logx.Logger
	upgrader websocket.Upgrader
}

// NewServer accepts connections from the listed origins; none means any.
func NewServer(r *Router, l logx.Logger, origins ...string) *Server {
	if l == nil {
		l = logx.Nop()
	}
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return &Server{
		router: r,
		log:    l,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(req *http.Request) bool {
				if len(allowed) == 0 || allowed["*"] {
					return true
				}
				return allowed[req.Header.Get("Origin")]
			},
		},
	}
}

func (s *Server) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	wsConn, err := s.upgrader.Upgrade(resp, req, nil)
	if err != nil {
		s.log.Error("websocket upgrade error", zap.Error(err))
		return
	}

	s.log.Debug("websocket connected", zap.String("addr", wsConn.RemoteAddr().String()))

	wsServer := NewWsServer(wsConn, s.log)
	wsServer.Router(s.router)
	wsServer.Run()
	wsServer.handshake()
}
