package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	groveactor "GroveWorld/internal/grove/actor"
	"GroveWorld/internal/grove/app/port"
	"GroveWorld/internal/grove/chat"
	"GroveWorld/internal/grove/entity"
	"GroveWorld/internal/grove/identity"
	"GroveWorld/internal/grove/infra/persistence/kv"
	"GroveWorld/internal/grove/infra/persistence/memory"
	"GroveWorld/internal/grove/infra/persistence/mongodb"
	"GroveWorld/internal/grove/infra/persistence/mysql"
	"GroveWorld/internal/grove/infra/persistence/postgres"
	s3store "GroveWorld/internal/grove/infra/persistence/s3"
	"GroveWorld/internal/grove/infra/persistence/sqlite"
	"GroveWorld/internal/grove/interfaces"
	"GroveWorld/internal/grove/interfaces/handler"
	"GroveWorld/internal/grove/plot"
	"GroveWorld/internal/grove/service"
	"GroveWorld/internal/shared/gameconfig/balance"
	infradb "GroveWorld/internal/shared/infrastructure/db"
	inframongo "GroveWorld/internal/shared/infrastructure/mongo"
	infrapg "GroveWorld/internal/shared/infrastructure/postgres"
	infras3 "GroveWorld/internal/shared/infrastructure/s3"
	infrasqlite "GroveWorld/internal/shared/infrastructure/sqlite"
	"GroveWorld/internal/shared/logs"
	"GroveWorld/internal/shared/metrics"
	"GroveWorld/internal/shared/serverconfig"
	"GroveWorld/internal/shared/session"
	"GroveWorld/internal/shared/transport/grpc"
	transporthttp "GroveWorld/internal/shared/transport/http"
	"GroveWorld/internal/shared/transport/ws"
	"GroveWorld/internal/shared/utils"
	"GroveWorld/modules/kit/logx"
)

func main() {
	if err := serverconfig.Load(); err != nil {
		panic(err)
	}
	conf := serverconfig.Conf
	if err := logs.Init("grove", conf.Log); err != nil {
		panic(err)
	}
	defer func() {
		_ = logs.Sync()
	}()
	logs.Info("conf", zap.Any("conf", conf))

	if err := utils.ConfigureNode(conf.Logic.NodeID); err != nil {
		logs.Fatal("configure snowflake node failed", zap.Error(err))
	}
	bal, err := balance.Load(conf.Logic.BalanceFile)
	if err != nil {
		logs.Fatal("load balance failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, conf.Store)
	if err != nil {
		logs.Fatal("open store failed", zap.String("driver", conf.Store.Driver), zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logs.Warn("close store failed", zap.Error(err))
		}
	}()

	baseLogger := logx.NewZapLogger(logs.Logger())
	m := metrics.New()
	repo := kv.NewRepository(store, time.Duration(conf.Store.TimeoutMs)*time.Millisecond, m)

	rt := groveactor.NewRuntime(groveactor.Options{
		Service: service.Options{
			Repo:          repo,
			World:         worldSettings(conf.World),
			Balance:       bal,
			Chat:          chat.NewRing(conf.Chat.Capacity),
			ChatMaxLength: conf.Chat.MaxLength,
			CASRetries:    conf.Store.CASRetries,
			SaveFanout:    conf.Store.SaveFanout,
			Metrics:       m,
			Logger:        baseLogger,
		},
		ChatRepo:   repo,
		ChatFlush:  time.Duration(conf.Chat.FlushMs) * time.Millisecond,
		AskTimeout: time.Duration(conf.Actor.AskTimeoutMs) * time.Millisecond,
	})
	defer rt.Shutdown()

	tokens := &identity.Tokens{TTL: time.Duration(conf.Auth.TokenTTLh) * time.Hour}
	opts := handler.Options{
		Runner:   rt,
		Identity: tokens,
		Session:  session.NewSessMgr(),
		Logger:   baseLogger,
	}
	if conf.Auth.DevLogin {
		opts.Tokens = tokens
	}
	groveModule, err := interfaces.New(opts)
	if err != nil {
		logs.Fatal("build grove module failed", zap.Error(err))
	}

	wsRouter := ws.NewRouter(baseLogger)
	wsModules := []ws.Registrar{
		groveModule,
	}
	for _, mod := range wsModules {
		mod.WsRegister(wsRouter)
	}

	httpAddr := fmt.Sprintf("%s:%d", hostOr(conf.HTTPServer.Host), conf.HTTPServer.Port)
	httpServer := transporthttp.NewHttpServer(httpAddr, nil,
		transporthttp.WithLogger(baseLogger),
		transporthttp.WithAllowedOrigins(conf.HTTPServer.Origins...),
		transporthttp.WithMetrics(m.Handler()),
	)
	httpModules := []transporthttp.Registrar{
		groveModule,
	}
	for _, mod := range httpModules {
		mod.HttpRegister(httpServer.Group())
	}

	wsServer := ws.NewServer(wsRouter, baseLogger, conf.HTTPServer.Origins...)
	httpServer.Engine().Any(conf.HTTPServer.WSPath, gin.WrapH(wsServer))

	errCh := make(chan error, 2)
	go func() {
		if err := httpServer.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- fmt.Errorf("http server start failed: %w", err)
			return
		}
		errCh <- nil
	}()

	grpcServer := grpc.NewServer()
	if conf.GRPCServer.Enabled {
		groveModule.GrpcRegister(grpcServer)
		grpcAddr := fmt.Sprintf("%s:%d", hostOr(conf.GRPCServer.Host), conf.GRPCServer.Port)
		lis, err := net.Listen("tcp", grpcAddr)
		if err != nil {
			logs.Fatal("grpc listen failed", zap.String("addr", grpcAddr), zap.Error(err))
		}
		go func() {
			if err := grpcServer.Serve(lis); err != nil {
				errCh <- fmt.Errorf("grpc server stopped: %w", err)
			}
		}()
		logs.Info("grpc server started", zap.String("addr", grpcAddr))
	}
	logs.Info("grove server started", zap.String("addr", httpAddr), zap.String("biome", conf.World.BiomeID))

	select {
	case <-ctx.Done():
		logs.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logs.Error("server exited unexpectedly", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	grpcServer.GracefulStop()
}

func hostOr(host string) string {
	if host == "" {
		return "0.0.0.0"
	}
	return host
}

func worldSettings(c serverconfig.WorldConfig) service.WorldSettings {
	return service.WorldSettings{
		BiomeID:  entity.BiomeID(c.BiomeID),
		Name:     c.Name,
		Type:     c.Type,
		Grid:     plot.Centered(c.Width, c.Depth, c.CellSize),
		MaxPlots: c.MaxPlots,
		Environment: entity.Environment{
			SkyColor:   c.SkyColor,
			FogColor:   c.FogColor,
			FogDensity: c.FogDensity,
			MaxPlayers: c.MaxPlayers,
		},
	}
}

// openStore connects the configured key-value backend.
func openStore(ctx context.Context, c serverconfig.StoreConfig) (port.Store, error) {
	l := logs.Logger()
	switch c.Driver {
	case "memory":
		return memory.NewStore(), nil
	case "sqlite":
		db, err := infrasqlite.Open(ctx, c.SQLite, l)
		if err != nil {
			return nil, err
		}
		return sqlite.NewStore(ctx, db)
	case "mysql":
		db, err := infradb.Open(c.MySQL)
		if err != nil {
			return nil, err
		}
		return mysql.NewStore(ctx, db)
	case "postgres":
		pool, err := infrapg.Open(ctx, c.Postgres, l)
		if err != nil {
			return nil, err
		}
		return postgres.NewStore(ctx, pool)
	case "mongodb":
		client, err := inframongo.Open(c.MongoDB, l)
		if err != nil {
			return nil, err
		}
		return mongodb.NewStore(client, c.MongoDB.Database, c.MongoDB.Collection), nil
	case "s3":
		client, err := infras3.Open(ctx, c.S3, l)
		if err != nil {
			return nil, err
		}
		return s3store.NewStore(client, c.S3.Bucket, c.S3.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", c.Driver)
	}
}
