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

	"github.com/openbasket/marketplace/internal/config"
	"github.com/openbasket/marketplace/internal/es"
	"github.com/openbasket/marketplace/internal/handlers"
	"github.com/openbasket/marketplace/internal/logging"
	authmw "github.com/openbasket/marketplace/internal/middleware/auth"
	"github.com/openbasket/marketplace/internal/notify"
	orderservice "github.com/openbasket/marketplace/internal/service/order"
	httpserver "github.com/openbasket/marketplace/internal/transport/http"
)

const itemsIndex = "items"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LOG_LEVEL)

	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Error("database init error", "error", err)
		os.Exit(1)
	}

	jwtSecret := []byte(cfg.JWT_SECRET)

	dispatcher := notify.NewKafkaDispatcher([]string{cfg.KAFKA_ADDRESS}, "order_events")

	esClient, err := es.NewClient(cfg)
	if err != nil {
		logger.Error("elasticsearch init error", "error", err)
		os.Exit(1)
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := logging.IntoContext(c.Request().Context(), logger)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})

	deps := httpserver.Deps{
		AuthHandler:   &handlers.AuthHandler{DB: db, JWTSecret: jwtSecret},
		UserHandler:   &handlers.UserHandler{DB: db},
		ShopHandler:   &handlers.ShopHandler{DB: db},
		ItemHandler:   &handlers.ItemHandler{DB: db, ES: esClient, ESIndex: itemsIndex},
		OrderHandler:  &handlers.OrderHandler{Svc: &orderservice.Service{DB: db, Notifier: dispatcher}},
		SearchHandler: &handlers.SearchHandler{ES: esClient, Index: itemsIndex},
		AuthMW:        &authmw.Middleware{JWTSecret: jwtSecret},
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
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if err := dispatcher.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
