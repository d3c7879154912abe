package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-ledger/config"
	"github.com/fekuna/omnipos-ledger/internal/app"
	"github.com/fekuna/omnipos-ledger/internal/database"
	"github.com/fekuna/omnipos-ledger/internal/events"
	"github.com/fekuna/omnipos-ledger/internal/logger"
	"github.com/fekuna/omnipos-ledger/internal/metrics"
	saleListenerPkg "github.com/fekuna/omnipos-ledger/internal/sale/listener"
	"github.com/fekuna/omnipos-ledger/internal/scheduler"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}

	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Open and migrate the ledger database
	db, err := database.NewSQLite(&database.Config{
		Path:          cfg.SQLite.Path,
		BusyTimeoutMS: cfg.SQLite.BusyTimeoutMS,
		MaxOpenConns:  cfg.SQLite.MaxOpenConns,
	})
	if err != nil {
		appLogger.Fatal("Could not open database", zap.Error(err))
	}
	defer db.Close()

	version, err := database.Migrate(db)
	if err != nil {
		appLogger.Fatal("Could not migrate database", zap.Error(err))
	}
	appLogger.Info("Opened SQLite ledger", zap.String("path", cfg.SQLite.Path), zap.Uint("schema_version", version))

	// 4. Event publisher
	var publisher events.Publisher = events.NewLogPublisher(appLogger)
	if cfg.Kafka.Enabled {
		publisher = events.NewKafkaPublisher(events.NewKafkaWriter(&events.KafkaConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.EventsTopic,
		}), appLogger)
		appLogger.Info("Publishing ledger events to Kafka",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.EventsTopic),
		)
	}
	defer publisher.Close()

	// 5. Wire usecases
	metrics.InitMetrics()
	ledger := app.New(&cfg.Business, db, publisher, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 6. Background workers
	if cfg.Kafka.Enabled {
		reader := saleListenerPkg.NewKafkaReader(&saleListenerPkg.ReaderConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.SalesTopic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer reader.Close()
		go saleListenerPkg.NewSaleListener(reader, ledger.Sales, appLogger).Start(ctx)
	}

	if cfg.Scheduler.Enabled {
		sched := scheduler.New(scheduler.Config{
			DailySummaryAt: cfg.Scheduler.DailySummaryAt,
			Location:       ledger.Location,
			Currency:       cfg.Business.Currency,
		}, ledger.Products, ledger.Reports, appLogger)
		if err := sched.Start(ctx); err != nil {
			appLogger.Fatal("Could not start scheduler", zap.Error(err))
		}
		defer sched.Stop()
	}

	// 7. Start gRPC Server
	port := cfg.Server.GRPCPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	lis, err := net.Listen("tcp", port)
	if err != nil {
		appLogger.Fatal("failed to listen", zap.String("port", port), zap.Error(err))
	}

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(metrics.UnaryServerInterceptor()),
	)
	ledger.RegisterGRPC(grpcServer)

	appLogger.Info("Starting gRPC server", zap.String("port", port))
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// 8. Start HTTP server for health, metrics and reports
	httpPort := cfg.Server.HTTPPort
	if !strings.HasPrefix(httpPort, ":") {
		httpPort = ":" + httpPort
	}
	httpServer := &http.Server{
		Addr:              httpPort,
		Handler:           ledger.HTTPHandler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	appLogger.Info("Starting HTTP server", zap.String("port", httpPort))
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve http", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP shutdown failed", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}
