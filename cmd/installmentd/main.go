package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/bibbank/installments/internal/application/usecase"
	"github.com/bibbank/installments/internal/domain/service"
	"github.com/bibbank/installments/internal/infrastructure/config"
	"github.com/bibbank/installments/internal/infrastructure/messaging"
	"github.com/bibbank/installments/internal/infrastructure/metrics"
	pgRepo "github.com/bibbank/installments/internal/infrastructure/persistence/postgres"
	grpcPresentation "github.com/bibbank/installments/internal/presentation/grpc"
	"github.com/bibbank/installments/internal/presentation/rest"
	pkgkafka "github.com/bibbank/installments/pkg/kafka"
	"github.com/bibbank/installments/pkg/observability"
	pkgpostgres "github.com/bibbank/installments/pkg/postgres"
)

func main() {
	if err := run(); err != nil {
		slog.Error("installment-service failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := observability.InitLogger(cfg.Logging())
	logger.Info("starting installment-service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	// Tracing is optional; without a collector spans are dropped.
	if cfg.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: cfg.ServiceName,
			Endpoint:    cfg.OTLPEndpoint,
			Insecure:    true,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer func() { _ = shutdown(context.Background()) }() //nolint:errcheck // best-effort tracer shutdown
		}
	}

	// Metrics: OpenTelemetry instruments and business counters share one registry.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	otelMetrics, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.ServiceName,
		Registry:    reg,
	})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer func() { _ = otelMetrics.Provider.Shutdown(context.Background()) }() //nolint:errcheck
	paymentMetrics := metrics.NewPaymentMetrics(reg)

	// Database connection.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pool, err := pkgpostgres.NewPool(dbCtx, cfg.Postgres())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if err := pkgpostgres.RunMigrations(cfg.Postgres().DSN(), pgRepo.Migrations, pgRepo.MigrationsDir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Wire infrastructure adapters.
	producer, err := pkgkafka.NewProducer(cfg.Producer())
	if err != nil {
		return fmt.Errorf("create kafka producer: %w", err)
	}
	defer func() { _ = producer.Close() }() //nolint:errcheck
	publisher := messaging.NewKafkaEventPublisher(producer, cfg.Kafka.Topic, logger)

	factory := service.NewPortfolioFactory(service.NewRecipeBook())
	portfolioRepo := pgRepo.NewPortfolioRepo(pool, factory)
	recordRepo := pgRepo.NewAmortizationRecordRepo(pool)

	// Wire use cases.
	createUC := usecase.NewCreatePortfolioUseCase(factory, portfolioRepo, publisher, paymentMetrics)
	getUC := usecase.NewGetPortfolioUseCase(portfolioRepo)
	payUC := usecase.NewPayInstallmentUseCase(portfolioRepo, publisher, paymentMetrics)
	payMultipleUC := usecase.NewPayMultipleInstallmentsUseCase(portfolioRepo, publisher, paymentMetrics)
	payLumpSumUC := usecase.NewPayLumpSumUseCase(portfolioRepo, publisher, paymentMetrics)
	cancelUC := usecase.NewCancelInstallmentUseCase(portfolioRepo, publisher, paymentMetrics)
	reverseUC := usecase.NewReversePaymentUseCase(portfolioRepo, recordRepo, publisher, paymentMetrics)
	listRecordsUC := usecase.NewListRecordsUseCase(recordRepo)

	// gRPC server.
	handler := grpcPresentation.NewInstallmentHandler(
		createUC, getUC, payUC, payMultipleUC, payLumpSumUC, cancelUC, reverseUC,
	)
	grpcServer := grpcPresentation.NewServer(handler, logger)

	// HTTP server (health, metrics, read API).
	httpServer := &http.Server{
		Addr: cfg.HTTPAddr(),
		Handler: rest.NewRouter(rest.RouterConfig{
			Health:    rest.NewHealthHandler(cfg.ServiceName, pool, logger),
			Portfolio: rest.NewPortfolioHandler(getUC, listRecordsUC, logger),
			Metrics:   otelMetrics.Handler,
			Logger:    logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			return fmt.Errorf("gRPC server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("HTTP server starting", "addr", cfg.HTTPAddr())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server: %w", err)
		}
		return nil
	})

	// Graceful shutdown once a signal arrives or either server fails.
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		grpcServer.GracefulStop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("installment-service stopped")
	return nil
}
