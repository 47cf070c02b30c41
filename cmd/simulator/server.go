package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	grpcMiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpcRecovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpcCtxTags "github.com/grpc-ecosystem/go-grpc-middleware/tags"
	grpcPrometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/goodnatureofminers/supplychain-simulator/internal/transport"
)

const healthServiceName = "supplychain.Simulator"

type server struct {
	logger   *zap.Logger
	grpc     *grpc.Server
	health   *health.Server
	http     *http.Server
	listener net.Listener
}

func newServer(cfg config, sim transport.Simulator, logger *zap.Logger) (*server, error) {
	chain := []grpc.UnaryServerInterceptor{
		grpcRecovery.UnaryServerInterceptor(),
		grpcCtxTags.UnaryServerInterceptor(),
		grpcPrometheus.UnaryServerInterceptor,
		grpcZap.UnaryServerInterceptor(logger),
	}
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(grpcMiddleware.ChainUnaryServer(chain...)),
	)
	grpcPrometheus.EnableHandlingTimeHistogram()

	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)
	grpcPrometheus.Register(grpcServer)

	socket, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}

	gw := gwruntime.NewServeMux()
	if err := transport.NewSimulatorHandler(sim, logger.Named("rest")).Register(gw); err != nil {
		_ = socket.Close()
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/", gw)
	mux.Handle("/metrics", promhttp.Handler())

	return &server{
		logger:   logger,
		grpc:     grpcServer,
		health:   hs,
		listener: socket,
		http: &http.Server{
			Addr:              cfg.RestAddr,
			Handler:           cors.Default().Handler(mux),
			ReadTimeout:       15 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
			MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
		},
	}, nil
}

// Start serves gRPC and HTTP in the background and marks the simulator as serving.
// The returned channel receives the first serve error.
func (s *server) Start() <-chan error {
	errCh := make(chan error, 2)

	go func() {
		s.logger.Info("Starting GRPC server", zap.String("addr", s.listener.Addr().String()))
		if err := s.grpc.Serve(s.listener); err != nil {
			errCh <- fmt.Errorf("serve grpc: %w", err)
		}
	}()
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("serve http: %w", err)
		}
	}()

	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(healthServiceName, healthpb.HealthCheckResponse_SERVING)
	return errCh
}

// Shutdown reports NOT_SERVING and stops both servers.
func (s *server) Shutdown() {
	s.health.Shutdown()

	s.logger.Info("Shutting down the http server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.http.Shutdown(ctx); err != nil {
		s.logger.Error("Failed to shutdown http server", zap.Error(err))
	}

	s.logger.Info("Shutting down gRPC server")
	s.grpc.GracefulStop()
}
