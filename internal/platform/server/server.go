package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName は gRPC ヘルスチェックで報告するサービス名です。
const ServiceName = "employee-roster"

// Server は REST API と gRPC ヘルスチェックのライフサイクルを管理します。
type Server struct {
	httpAddr        string
	grpcAddr        string
	shutdownTimeout time.Duration
	log             *zap.Logger

	httpServer *http.Server
	grpcServer *grpc.Server
	health     *health.Server
}

// Option は Server の任意設定です。
type Option func(*Server)

// WithLogger はロガーを設定します。
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithShutdownTimeout は停止時に進行中のリクエストを待つ上限を設定します。
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// New は指定されたアドレスで待ち受けるサーバーを構築します。
func New(httpAddr, grpcAddr string, handler http.Handler, opts ...Option) *Server {
	s := &Server{
		httpAddr:        httpAddr,
		grpcAddr:        grpcAddr,
		shutdownTimeout: 10 * time.Second,
		log:             zap.NewNop(),
		grpcServer:      grpc.NewServer(),
		health:          health.NewServer(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.httpServer = &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          zap.NewStdLog(s.log.Named("http")),
	}
	healthpb.RegisterHealthServer(s.grpcServer, s.health)
	return s
}

// Run はリスナーを開いてサーバーを起動し、コンテキストがキャンセルされると停止します。
func (s *Server) Run(ctx context.Context) error {
	httpLis, err := net.Listen("tcp", s.httpAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpAddr, err)
	}

	grpcLis, err := net.Listen("tcp", s.grpcAddr)
	if err != nil {
		_ = httpLis.Close()
		return fmt.Errorf("listen on %s: %w", s.grpcAddr, err)
	}

	return s.Serve(ctx, httpLis, grpcLis)
}

// Serve は与えられたリスナーで HTTP と gRPC を待ち受けます。
// どちらかが異常終了した場合はもう一方も停止します。
func (s *Server) Serve(ctx context.Context, httpLis, grpcLis net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	g.Go(func() error {
		s.log.Info("http server listening", zap.String("addr", httpLis.Addr().String()))
		if err := s.httpServer.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve HTTP: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		s.log.Info("grpc server listening", zap.String("addr", grpcLis.Addr().String()))
		if err := s.grpcServer.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown()
	})

	return g.Wait()
}

func (s *Server) shutdown() error {
	s.log.Info("shutting down", zap.Duration("timeout", s.shutdownTimeout))
	s.health.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		s.log.Warn("http shutdown incomplete", zap.Error(err))
	}

	select {
	case <-stopped:
	case <-ctx.Done():
		s.grpcServer.Stop()
	}
	return err
}
