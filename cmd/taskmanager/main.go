package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/task_manager/internal/config"
	"github.com/Skotchmaster/task_manager/internal/events"
	"github.com/Skotchmaster/task_manager/internal/httpserver"
	"github.com/Skotchmaster/task_manager/internal/logging"
	"github.com/Skotchmaster/task_manager/internal/repo"
	"github.com/Skotchmaster/task_manager/internal/search"
	"github.com/Skotchmaster/task_manager/internal/service"
	"github.com/Skotchmaster/task_manager/internal/tokens"
	pkgdb "github.com/Skotchmaster/task_manager/pkg/db"
	loggingmw "github.com/Skotchmaster/task_manager/pkg/middleware/logging"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := pkgdb.Migrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	codec := &tokens.Codec{
		Secret:     cfg.JWTSecret,
		Pepper:     cfg.RefreshTokenPepper,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	}

	producer := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer producer.Close()

	index, err := search.NewIndex(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
	if err != nil {
		// the SQL list path works without the index
		logger.Warn("search disabled", "error", err)
		index = nil
	}

	r := &repo.GormRepo{DB: db}

	deps := &httpserver.Deps{
		AuthHandler:     &httpserver.AuthHTTP{Svc: &service.AuthService{Repo: r, Codec: codec, Events: producer}},
		TaskHandler:     &httpserver.TaskHTTP{Svc: &service.TaskService{Repo: r, Events: producer, Search: index}},
		CategoryHandler: &httpserver.CategoryHTTP{Svc: &service.CategoryService{Repo: r}},
		Codec:           codec,
	}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, deps)

	go func() {
		if err := e.Start(cfg.HTTPAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}
}
