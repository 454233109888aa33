package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"storefront-service/internal/api"
	"storefront-service/internal/auth"
	"storefront-service/internal/config"
	"storefront-service/internal/seed"
	"storefront-service/internal/service"
	"storefront-service/internal/store"
)

const (
	appName         = "storefront-service"
	shutdownTimeout = 30 * time.Second
)

func main() {
	app := &cli.App{
		Name:  appName,
		Usage: "catalog, cart, checkout and admin back-office over JSON collection slots",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "dotenv file loaded before reading the environment",
			},
		},
		Before: loadEnvFile,
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP and gRPC servers",
				Action: serve,
			},
			{
				Name:  "seed",
				Usage: "write the demo catalog and accounts",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "force", Usage: "reset every collection to the demo data, discarding existing records"},
				},
				Action: seedData,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("service exited")
	}
}

func loadEnvFile(c *cli.Context) error {
	path := c.String("env-file")
	if err := godotenv.Load(path); err != nil {
		logrus.WithField("env_file", path).Info("env file not loaded, relying on system environment")
	}
	return nil
}

func newLogger(cfg *config.Config) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	logger.SetLevel(level)
	if cfg.IsDevelopment() {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger, nil
}

// openBackend connects the storage driver selected in cfg.
func openBackend(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (store.Backend, error) {
	entry := logger.WithField("driver", cfg.Storage.Driver)
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		entry.Warn("using in-memory storage, data is lost on restart")
		return store.NewMemoryBackend(), nil
	case config.DriverFile:
		backend, err := store.NewFileBackend(cfg.Storage.DataDir)
		if err != nil {
			return nil, err
		}
		entry.WithField("data_dir", cfg.Storage.DataDir).Info("file storage ready")
		return backend, nil
	case config.DriverPostgres:
		db, err := sql.Open("postgres", cfg.Postgres.DSN())
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		backend := store.NewPostgresBackend(db)
		if err := backend.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		entry.WithField("host", cfg.Postgres.Host).Info("postgres storage ready")
		return backend, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

type runtime struct {
	cfg     *config.Config
	logger  *logrus.Logger
	backend store.Backend
	store   *store.Store
}

func bootstrap(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	logger.WithField("app_env", cfg.AppEnv).Info("configuration loaded")

	backend, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	return &runtime{cfg: cfg, logger: logger, backend: backend, store: store.New(backend, logger)}, nil
}

func seedData(c *cli.Context) error {
	rt, err := bootstrap(c.Context)
	if err != nil {
		return err
	}
	defer rt.backend.Close()

	seeded, err := seed.Populate(c.Context, rt.store, auth.NewBcryptHasher(), rt.logger, c.Bool("force"))
	if err != nil {
		return err
	}
	if !seeded {
		rt.logger.Info("store already holds data, use --force to reset it")
	}
	return nil
}

func serve(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	cfg, logger := rt.cfg, rt.logger

	hasher := auth.NewBcryptHasher()
	if cfg.SeedOnStart {
		if _, err := seed.Populate(ctx, rt.store, hasher, logger, false); err != nil {
			rt.backend.Close()
			return err
		}
	}

	services := api.Services{
		Auth:     service.NewAuthService(rt.store, hasher, logger),
		Catalog:  service.NewCatalogService(rt.store),
		Cart:     service.NewCartService(rt.store, logger),
		Checkout: service.NewCheckoutService(rt.store, logger),
		Orders:   service.NewOrderService(rt.store),
		Admin:    service.NewAdminService(rt.store, logger),
		Health:   rt.backend,
	}
	httpHandler := api.NewHTTPHandler(services, auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL), logger)

	router := chi.NewRouter()
	setupBaseMiddleware(router, logger, cfg.HttpServer.RequestTimeout)
	httpHandler.RegisterRoutes(router)

	httpServer := &http.Server{
		Addr:         ":" + cfg.HttpServer.Port,
		Handler:      router,
		ReadTimeout:  cfg.HttpServer.TimeoutRead,
		WriteTimeout: cfg.HttpServer.TimeoutWrite,
		IdleTimeout:  cfg.HttpServer.TimeoutIdle,
	}

	healthServer := health.NewServer()
	grpcServer := setupGRPCServer(logger, healthServer)
	grpcListener, err := net.Listen("tcp", ":"+cfg.GrpcServer.Port)
	if err != nil {
		rt.backend.Close()
		return fmt.Errorf("listen for gRPC on port %s: %w", cfg.GrpcServer.Port, err)
	}
	reporter := api.NewHealthReporter(healthServer, rt.backend, cfg.GrpcServer.HealthInterval, logger)
	go reporter.Run(ctx)

	serverErr := make(chan error, 2)
	go func() {
		logger.WithField("port", cfg.HttpServer.Port).Info("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("HTTP server: %w", err)
		}
	}()
	go func() {
		logger.WithField("port", cfg.GrpcServer.Port).Info("gRPC server listening")
		if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			serverErr <- fmt.Errorf("gRPC server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-serverErr:
		logger.WithError(runErr).Error("server failed, shutting down")
	}
	stop()
	shutdown(logger, httpServer, grpcServer, rt.backend)
	return runErr
}

func setupBaseMiddleware(router *chi.Mux, logger *logrus.Logger, requestTimeout time.Duration) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(api.RequestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(requestTimeout))
}

func setupGRPCServer(logger *logrus.Logger, healthServer *health.Server) *grpc.Server {
	s := grpc.NewServer()

	grpc_health_v1.RegisterHealthServer(s, healthServer)
	logger.Debug("gRPC health check service registered")

	// Enable gRPC server reflection (useful for tools like grpcurl).
	reflection.Register(s)
	return s
}

func shutdown(logger *logrus.Logger, httpServer *http.Server, grpcServer *grpc.Server, backend store.Backend) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	stoppedGrpc := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stoppedGrpc)
	}()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("HTTP server graceful shutdown failed")
	} else {
		logger.Info("HTTP server stopped")
	}

	select {
	case <-stoppedGrpc:
		logger.Info("gRPC server stopped")
	case <-shutdownCtx.Done():
		logger.WithError(shutdownCtx.Err()).Warn("gRPC graceful stop timed out, forcing")
		grpcServer.Stop()
	}

	if err := backend.Close(); err != nil {
		logger.WithError(err).Warn("closing storage failed")
	}
	logger.Info("shutdown complete")
}
