package http

import (
	"context"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"

	"GroveWorld/internal/shared/transport/http/middleware"
	"GroveWorld/modules/kit/logx"
)

type Server struct {
	engine *gin.Engine
	group  *gin.RouterGroup
	srv    *nethttp.Server
}

type Option func(*options)

type options struct {
	logger  logx.Logger
	origins []string
	metrics nethttp.Handler
}

func WithLogger(l logx.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithAllowedOrigins enables CORS for the listed origins; "*" allows any.
func WithAllowedOrigins(origins ...string) Option {
	return func(o *options) { o.origins = origins }
}

// WithMetrics mounts h at /metrics.
func WithMetrics(h nethttp.Handler) Option {
	return func(o *options) { o.metrics = h }
}

func NewHttpServer(addr string, engine *gin.Engine, opts ...Option) *Server {
	o := options{logger: logx.Nop()}
	for _, fn := range opts {
		fn(&o)
	}
	if engine == nil {
		engine = gin.New()
		engine.Use(gin.Recovery())
	}
	engine.Use(middleware.Cors(o.origins...))
	engine.Use(middleware.AccessLog(o.logger))
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(nethttp.StatusOK, gin.H{"status": "ok"})
	})
	if o.metrics != nil {
		engine.GET("/metrics", gin.WrapH(o.metrics))
	}

	return &Server{
		engine: engine,
		group:  engine.Group(""),
		srv: &nethttp.Server{
			Addr:              addr,
			Handler:           engine,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Start blocks serving HTTP; after Shutdown it returns http.ErrServerClosed.
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) Group() *gin.RouterGroup {
	return s.group
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) Handler() nethttp.Handler {
	return s.engine
}

// Registrar is implemented by modules exposing http routes.
type Registrar interface {
	HttpRegister(g *gin.RouterGroup)
}
