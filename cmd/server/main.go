package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/labseat/internal/config"
	"github.com/labseat/internal/handler"
	"github.com/labseat/internal/middleware"
	"github.com/labseat/internal/realtime"
	"github.com/labseat/internal/repository"
	"github.com/labseat/internal/repository/memory"
	"github.com/labseat/internal/service"
	"github.com/labseat/internal/storage"
	"github.com/labseat/internal/worker"
	"github.com/labseat/pkg/keygen"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Build info (injected at build time via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// stores are the persistence backends selected by configuration
type stores struct {
	users        service.UserRepo
	profiles     service.ProfileRepo
	reservations service.ReservationRepo
	accounts     service.AccountRepo
	sessions     service.SessionRepo
	close        func()
}

func main() {
	// A missing .env file is fine
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := middleware.InitLogger(cfg.Log.Dir); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	gin.SetMode(cfg.Server.Mode)

	if cfg.Session.Secret == "" {
		secret, err := keygen.Secret(32)
		if err != nil {
			log.Fatalf("Failed to generate session secret: %v", err)
		}
		cfg.Session.Secret = secret
		middleware.LogInfo("No session secret configured, generated one; sessions will not survive a restart")
	}

	st, err := initStores(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize stores: %v", err)
	}

	files, staticDir, err := initStorage(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize picture storage: %v", err)
	}

	hub := realtime.NewHub()

	// Initialize services
	authService := service.NewAuthService(st.users)
	sessionService := service.NewSessionService(st.sessions, cfg.Session)
	profileService := service.NewProfileService(st.profiles, files, cfg.Storage.MaxUploadBytes())
	reservationService := service.NewReservationService(st.reservations, hub)
	accountService := service.NewAccountService(st.accounts, st.sessions, hub)

	router := handler.NewRouter(handler.Dependencies{
		Auth:               authService,
		Sessions:           sessionService,
		Profiles:           profileService,
		Reservations:       reservationService,
		Accounts:           accountService,
		Hub:                hub,
		StaticDir:          staticDir,
		StaticPath:         cfg.Storage.PublicPath,
		MaxMultipartMemory: cfg.Storage.MaxUploadBytes() + 1<<20,
		Build: handler.BuildInfo{
			Version:   Version,
			Commit:    Commit,
			BuildTime: BuildTime,
		},
	})

	var sweeper *worker.PictureSweeper
	if cfg.Sweeper.Enabled {
		sweeper = worker.NewPictureSweeper(
			st.profiles,
			files,
			time.Duration(cfg.Sweeper.IntervalMinutes)*time.Minute,
			time.Duration(cfg.Sweeper.GraceHours)*time.Hour,
		)
		go sweeper.Start()
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		middleware.LogInfo("Starting server on %s (version %s)", addr, Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	middleware.LogInfo("Shutting down server...")

	// Graceful shutdown with 10 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		middleware.LogError("Server forced to shutdown: %v", err)
	}

	if sweeper != nil {
		sweeper.Stop()
	}
	hub.Stop()
	st.close()

	middleware.LogInfo("Server exited properly")
}

// initStores selects the database and session backends
func initStores(cfg *config.Config) (*stores, error) {
	st := &stores{close: func() {}}

	switch cfg.Database.Driver {
	case "memory":
		middleware.LogInfo("Using in-memory database; data is lost on restart")
		db := memory.New()
		st.users = db.Users()
		st.profiles = db.Profiles()
		st.reservations = db.Reservations()
		st.accounts = db.Accounts()
	case "postgres", "":
		db, err := initDatabase(cfg)
		if err != nil {
			return nil, err
		}
		if err := repository.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		st.users = repository.NewUserRepository(db)
		st.profiles = repository.NewProfileRepository(db)
		st.reservations = repository.NewReservationRepository(db)
		st.accounts = repository.NewAccountRepository(db)
		if sqlDB, err := db.DB(); err == nil {
			closeDB := sqlDB.Close
			st.close = func() {
				if err := closeDB(); err != nil {
					log.Printf("Error closing database: %v", err)
				}
			}
		}
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}

	if !cfg.Redis.Enabled {
		middleware.LogInfo("Redis disabled, sessions are kept in memory")
		st.sessions = memory.NewSessionRepository()
		return st, nil
	}

	rdb, err := initRedis(cfg)
	if err != nil {
		st.close()
		return nil, err
	}
	st.sessions = repository.NewSessionRepository(rdb)
	closeDB := st.close
	st.close = func() {
		if err := rdb.Close(); err != nil {
			log.Printf("Error closing Redis connection: %v", err)
		}
		closeDB()
	}
	return st, nil
}

// initStorage selects the picture storage. The returned directory is
// served statically for the local driver and empty otherwise.
func initStorage(cfg *config.Config) (service.FileStorage, string, error) {
	switch cfg.Storage.Driver {
	case "s3":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s3Store, err := storage.NewS3Storage(ctx, cfg.Storage.S3)
		if err != nil {
			return nil, "", err
		}
		middleware.LogInfo("Storing pictures in s3 bucket %s", cfg.Storage.S3.Bucket)
		return s3Store, "", nil
	case "local", "":
		local, err := storage.NewLocalStorage(cfg.Storage.UploadDir, cfg.Storage.PublicPath)
		if err != nil {
			return nil, "", err
		}
		middleware.LogInfo("Storing pictures in %s", local.Dir())
		return local, local.Dir(), nil
	default:
		return nil, "", fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormLogger := logger.Default.LogMode(logger.Info)
	if cfg.Server.Mode == "release" {
		gormLogger = logger.Default.LogMode(logger.Warn)
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func initRedis(cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return rdb, nil
}
