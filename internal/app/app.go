package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/brightfold/landing-api/internal/config"
	"github.com/brightfold/landing-api/internal/db"
	"github.com/brightfold/landing-api/internal/http/api"
	"github.com/brightfold/landing-api/internal/http/api/handlers"
	"github.com/brightfold/landing-api/internal/logging"
	"github.com/brightfold/landing-api/internal/models"
	"github.com/brightfold/landing-api/internal/security"
	"github.com/brightfold/landing-api/internal/session"
	"github.com/brightfold/landing-api/internal/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Migrate opens the database and runs migrations.
func Migrate(ctx context.Context, cfg config.Config) error {
	conn, err := db.Open(cfg.Database.DSN)
	if err != nil {
		return err
	}
	return db.Migrate(conn)
}

// CreateAdmin inserts an admin account directly, used by the CLI to
// bootstrap the first login before any session exists.
func CreateAdmin(ctx context.Context, cfg config.Config, username, password string) error {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if len(username) < 3 || len(password) < 3 {
		return fmt.Errorf("username and password must be at least 3 characters")
	}

	conn, err := db.Open(cfg.Database.DSN)
	if err != nil {
		return err
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}

	var count int64
	if errCount := conn.WithContext(ctx).Model(&models.Admin{}).
		Where("username = ?", username).Count(&count).Error; errCount != nil {
		return errCount
	}
	if count > 0 {
		return fmt.Errorf("admin %q already exists", username)
	}

	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		return errHash
	}
	return conn.WithContext(ctx).Create(&models.Admin{Username: username, Password: hash}).Error
}

// RunServer boots the landing API server and blocks until the context is
// cancelled, then shuts down gracefully.
func RunServer(ctx context.Context, cfg config.Config) error {
	logging.Setup(cfg.Log)

	conn, err := db.Open(cfg.Database.DSN)
	if err != nil {
		return err
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}

	sessions := session.NewStore(conn, cfg.Session.TTL.Std())
	sessions.StartReaper(ctx, time.Hour)

	uploads := storage.NewLocalStore(cfg.Upload.Dir, cfg.Upload.PublicPath, cfg.Upload.MaxFileSize)

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(api.RequestLogger(), api.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.MaxMultipartMemory = cfg.Upload.MaxFileSize

	api.Register(engine, api.Deps{
		DB:       conn,
		Sessions: sessions,
		Uploads:  uploads,
		Cookie: handlers.CookieOptions{
			Name:   cfg.Session.CookieName,
			Domain: cfg.Session.CookieDomain,
			Secure: cfg.Production(),
			TTL:    cfg.Session.TTL.Std(),
		},
		MaxBatch: cfg.Upload.MaxBatchSize,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("landing api listening on %s", cfg.Addr())
		if errServe := srv.ListenAndServe(); errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			errCh <- errServe
			return
		}
		errCh <- nil
	}()

	select {
	case errServe := <-errCh:
		return errServe
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if errShutdown := srv.Shutdown(shutdownCtx); errShutdown != nil {
		return errShutdown
	}
	return <-errCh
}
