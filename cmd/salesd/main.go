package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/joseph-ayodele/sales-tracker/constants"
	"github.com/joseph-ayodele/sales-tracker/internal/common"
	"github.com/joseph-ayodele/sales-tracker/internal/export"
	"github.com/joseph-ayodele/sales-tracker/internal/ingest"
	"github.com/joseph-ayodele/sales-tracker/internal/metrics"
	"github.com/joseph-ayodele/sales-tracker/internal/pipeline"
	"github.com/joseph-ayodele/sales-tracker/internal/schema"
	"github.com/joseph-ayodele/sales-tracker/internal/server"
	"github.com/joseph-ayodele/sales-tracker/internal/session"
)

func main() {
	cfg, err := common.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(2)
	}

	logger := common.NewLogger(os.Stdout, cfg.Log)

	aliases, err := schema.LoadAliasFile(cfg.Schema.AliasFile)
	if err != nil {
		logger.Error("failed to load alias file", "path", cfg.Schema.AliasFile, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := metrics.NewRegistry()
	manager := session.NewManager(session.Deps{
		Ingestor:        ingest.NewXLSXIngestor(cfg.Schema.SheetName, cfg.Schema.MaxUploadBytes, logger),
		Processor:       pipeline.NewProcessor(logger, aliases),
		Exporter:        export.NewService(logger),
		Metrics:         reg,
		ContactSource:   constants.ContactSource(cfg.Session.ContactSource),
		RegisterBackend: constants.RegisterBackend(cfg.Session.RegisterBackend),
	}, session.ManagerOptions{
		IdleTTL:       cfg.Session.IdleTTL,
		SweepInterval: cfg.Session.SweepInterval,
		MaxSessions:   cfg.Session.MaxSessions,
	}, logger)
	defer manager.CloseAll()

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logger.Error("failed to listen on address", "addr", cfg.Server.GRPCAddr, "error", err)
		os.Exit(1)
	}
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(server.LoggingInterceptor(logger)))
	server.RegisterReportServiceServer(grpcServer, server.NewReportServer(manager, logger))

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	mux := http.NewServeMux()
	mux.Handle("/metrics", reg.Handler())
	metricsServer := &http.Server{
		Addr:              cfg.Server.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("salesd listening", "addr", cfg.Server.GRPCAddr)
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		if cfg.Server.MetricsAddr == "" {
			return nil
		}
		logger.Info("metrics listening", "addr", cfg.Server.MetricsAddr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		manager.Run(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
		grpcServer.GracefulStop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return metricsServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("salesd stopped with error", "error", err)
		os.Exit(1)
	}
}
