package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"docmanager/docs"
	"docmanager/internal/auth"
	"docmanager/internal/blob"
	"docmanager/internal/config"
	"docmanager/internal/handler"
	"docmanager/internal/logging"
	"docmanager/internal/router"
	"docmanager/internal/service"
	"docmanager/internal/store"
)

// @title Document Manager API
// @version 1.0
// @description Document metadata with owner, public and time-window access rules, single-session authentication and admin user management.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.
func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := store.Open(ctx, cfg, store.WithLogger(log))
	if err != nil {
		log.WithError(err).Fatal("store init")
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.WithError(err).Warn("close store")
		}
	}()

	blobs, err := blob.Open(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("blob store init")
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSecret)
	if cfg.JWTSecret == "change-me" {
		log.Warn("JWT_SECRET is the default value; set it outside development")
	}

	// Initialize services
	sessionService := service.NewSessionService(st, tokens, cfg.SessionTTL, time.Now, log)
	documentService := service.NewDocumentService(st, time.Now, log)
	userService := service.NewUserService(st, time.Now, log)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID())

	handlers := router.Handlers{
		Auth:      handler.NewAuthHandler(sessionService),
		Documents: handler.NewDocumentHandler(documentService, blobs, log),
		Users:     handler.NewUserHandler(userService),
		Seed:      handler.NewSeedHandler(sessionService),
	}
	if local, ok := blobs.(*blob.LocalStore); ok {
		handlers.FilesDir = local.Root()
	}
	router.Register(e, tokens, sessionService, log, handlers)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}
	log.Infof("Swagger documentation available at: http://%s/swagger/index.html", docs.SwaggerInfo.Host)

	go func() {
		addr := ":" + cfg.ServerPort
		log.WithFields(logrus.Fields{
			"addr":         addr,
			"store_driver": cfg.StoreDriver,
			"blob_driver":  cfg.BlobDriver,
		}).Info("server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server start")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown")
	}
	log.Info("server stopped")
}
