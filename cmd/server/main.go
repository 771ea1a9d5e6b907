package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/jobdeck/jobboard/internal/config"
	"github.com/jobdeck/jobboard/internal/db"
	"github.com/jobdeck/jobboard/internal/handlers"
	"github.com/jobdeck/jobboard/internal/logging"
	"github.com/jobdeck/jobboard/internal/mail"
	authmw "github.com/jobdeck/jobboard/internal/middleware/auth"
	loggingmw "github.com/jobdeck/jobboard/internal/middleware/logging"
	"github.com/jobdeck/jobboard/internal/repo"
	"github.com/jobdeck/jobboard/internal/search"
	"github.com/jobdeck/jobboard/internal/token"
	httpserver "github.com/jobdeck/jobboard/internal/transport/http"

	"github.com/jobdeck/jobboard/internal/apperrors"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	ctx := context.Background()

	gormDB, err := db.Open(ctx, configuration.DATABASE_URL)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	rdb, err := repo.NewRedisClient(ctx, configuration.REDIS_ADDR)
	if err != nil {
		log.Fatalf("redis init error: %v", err)
	}

	esClient, err := search.NewClient(configuration)
	if err != nil {
		log.Fatalf("elasticsearch init error: %v", err)
	}

	publisher := mail.NewKafkaPublisher([]string{configuration.KAFKA_ADDRESS})

	users := repo.NewUserRepo(gormDB)
	jobs := repo.NewJobRepo(gormDB)
	applications := repo.NewApplicationRepo(gormDB)
	blocklist := repo.NewBlocklistStore(rdb)
	verifications := repo.NewVerificationStore(rdb)

	tokens := token.NewService([]byte(configuration.JWT_SECRET), blocklist)
	indexer := search.NewJobIndexer(esClient)

	guard := &authmw.Guard{
		Tokens:        tokens,
		Users:         users,
		Verifications: verifications,
		Mail:          publisher,
		Domain:        configuration.DOMAIN,
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Validator = httpserver.NewValidator()
	e.HTTPErrorHandler = apperrors.ErrorHandler()

	deps := httpserver.Deps{
		Guard:              guard,
		AuthHandler:        &handlers.AuthHandler{Users: users, Tokens: tokens, Verifications: verifications},
		UserHandler:        &handlers.UserHandler{Users: users},
		JobHandler:         &handlers.JobHandler{Jobs: jobs, Index: indexer},
		ApplicationHandler: &handlers.ApplicationHandler{Applications: applications, Jobs: jobs},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":8080",
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := rdb.Close(); err != nil {
		log.Printf("redis close error: %v", err)
	}

	if err := publisher.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
