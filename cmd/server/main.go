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

	"github.com/Skotchmaster/tea_shop/internal/config"
	"github.com/Skotchmaster/tea_shop/internal/db"
	"github.com/Skotchmaster/tea_shop/internal/es"
	"github.com/Skotchmaster/tea_shop/internal/handlers"
	"github.com/Skotchmaster/tea_shop/internal/logging"
	"github.com/Skotchmaster/tea_shop/internal/metrics"
	"github.com/Skotchmaster/tea_shop/internal/mykafka"
	"github.com/Skotchmaster/tea_shop/internal/service/token"
	httpserver "github.com/Skotchmaster/tea_shop/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	ctx := context.Background()
	gdb, err := db.Open(ctx, configuration.DatabaseDSN())
	if err != nil {
		log.Fatalf("Ошибка инициализации БД: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("Ошибка миграции БД: %v", err)
	}

	var producer *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		producer, err = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
		if err != nil {
			log.Fatal(err)
		}
	} else {
		logger.Info("KAFKA_ADDRESS empty, event publishing disabled")
	}

	var searchHandler *handlers.SearchHandler
	if configuration.ES_URL != "" {
		client, err := es.NewClient(configuration.ES_URL, configuration.ES_USER, configuration.ES_PASSWORD)
		if err != nil {
			log.Fatal(err)
		}
		searchHandler = handlers.NewSearchHandler(client, configuration.ES_INDEX)
	} else {
		logger.Info("ES_URL empty, full-text search disabled")
	}

	tokens := &token.Service{
		DB:            gdb,
		JWTSecret:     []byte(configuration.JWT_SECRET),
		RefreshSecret: []byte(configuration.REFRESH_SECRET),
	}

	productHandler := &handlers.ProductHandler{DB: gdb, Producer: producer, ESIndex: configuration.ES_INDEX}
	if searchHandler != nil {
		productHandler.ES = searchHandler.ES
	}

	deps := httpserver.Deps{
		DB:              gdb,
		CategoryHandler: &handlers.CategoryHandler{DB: gdb},
		ProductHandler:  productHandler,
		CustomerHandler: &handlers.CustomerHandler{DB: gdb},
		OrderHandler:    &handlers.OrderHandler{DB: gdb, Producer: producer},
		AuthHandler:     &handlers.AuthHandler{DB: gdb, Tokens: tokens},
		ExportHandler:   &handlers.ExportHandler{DB: gdb},
		SearchHandler:   searchHandler,
		Tokens:          tokens,
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(logging.RequestLogger(logger))
	e.Use(metrics.Middleware)

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := gdb.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
