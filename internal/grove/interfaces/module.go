package interfaces

import (
	"github.com/gin-gonic/gin"
	gogrpc "google.golang.org/grpc"

	"GroveWorld/internal/grove/interfaces/handler"
	handlergrpc "GroveWorld/internal/grove/interfaces/handler/grpc"
	handlerhttp "GroveWorld/internal/grove/interfaces/handler/http"
	handlerws "GroveWorld/internal/grove/interfaces/handler/ws"
	transportgrpc "GroveWorld/internal/shared/transport/grpc"
	transporthttp "GroveWorld/internal/shared/transport/http"
	"GroveWorld/internal/shared/transport/ws"
)

type Module struct {
	wsHandler   *handlerws.WsHandler
	httpHandler *handlerhttp.HttpHandler
	grpcServer  *handlergrpc.WorldServer
}

func New(o handler.Options) (*Module, error) {
	grove := handler.NewGrove(o)
	wsHandler, err := handlerws.NewWsHandler(grove)
	if err != nil {
		return nil, err
	}
	return &Module{
		wsHandler:   wsHandler,
		httpHandler: handlerhttp.NewHttpHandler(grove),
		grpcServer:  handlergrpc.NewWorldServer(grove, o.Logger),
	}, nil
}

func (m *Module) WsRegister(r *ws.Router) {
	m.wsHandler.RegisterRoutes(r)
}

func (m *Module) HttpRegister(g *gin.RouterGroup) {
	m.httpHandler.RegisterRoutes(g)
}

func (m *Module) GrpcRegister(s gogrpc.ServiceRegistrar) {
	transportgrpc.RegisterWorldServiceServer(s, m.grpcServer)
}

var _ ws.Registrar = (*Module)(nil)
var _ transporthttp.Registrar = (*Module)(nil)
