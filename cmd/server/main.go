package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"inventory-service/internal/auth"
	"inventory-service/internal/config"
	apphttp "inventory-service/internal/http"
	"inventory-service/internal/repository"
	"inventory-service/internal/repository/postgres"
	"inventory-service/internal/repository/sqlite"
	"inventory-service/internal/service"
	"inventory-service/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	configureLogger(logger, cfg)

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	userRepo, productRepo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer closeStore()

	if err := userRepo.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}
	if err := productRepo.Init(ctx); err != nil {
		logger.Fatalf("init product repository: %v", err)
	}

	var snapshots storage.Service
	if cfg.SnapshotsEnabled() {
		s3Svc, err := storage.NewS3ServiceFromConfig(ctx, cfg.Storage.Region, cfg.Storage.Endpoint)
		if err != nil {
			logger.Fatalf("setup storage: %v", err)
		}
		snapshots = s3Svc
		logger.Infof("catalog snapshots go to s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	}

	userService := service.NewUserService(
		userRepo,
		auth.NewHasher(cfg.Auth.BcryptCost),
		auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
	)
	productService := service.NewProductService(productRepo, snapshots, storage.UploadOptions{
		Bucket:      cfg.Storage.Bucket,
		KeyPrefix:   cfg.Storage.KeyPrefix,
		ContentType: "application/json",
	})

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	apphttp.NewHandler(userService, productService, logger).RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func configureLogger(logger *logrus.Logger, cfg config.Config) {
	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warnf("unknown log level %q, using info", cfg.Log.Level)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
}

func openStore(ctx context.Context, cfg config.Config) (repository.UserRepository, repository.ProductRepository, func(), error) {
	if cfg.Database.Driver == config.DriverPostgres {
		pool, err := postgres.Open(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, nil, err
		}
		return postgres.NewUserRepository(pool), postgres.NewProductRepository(pool), pool.Close, nil
	}

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, nil, err
	}
	return sqlite.NewUserRepository(db), sqlite.NewProductRepository(db), closer(db), nil
}

func closer(db *sql.DB) func() {
	return func() { _ = db.Close() }
}
