package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"tailorbill/backend/internal/cache"
	"tailorbill/backend/internal/config"
	"tailorbill/backend/internal/httpapi"
	"tailorbill/backend/internal/service"
	"tailorbill/backend/internal/store"
	"tailorbill/backend/internal/store/jsonfile"
	pgstore "tailorbill/backend/internal/store/postgres"
)

func main() {
	// The standard logger is configured once here; the httpapi layer logs
	// through it as well, so every package shares the formatter.
	logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	logrus.SetOutput(os.Stdout)
	log := logrus.StandardLogger()

	cfg := config.Load()
	if err := validateSecurityConfig(cfg); err != nil {
		log.WithError(err).Fatal("invalid security configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var repo store.Repository
	closers := make([]func() error, 0, 2)

	if cfg.DatabaseURL != "" {
		pg, err := pgstore.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Fatal("postgres unavailable and DATABASE_URL is set; refusing to start with the file ledger fallback")
		}
		repo = pg
		closers = append(closers, pg.Close)
		log.Info("ledger: postgres")
	} else {
		ledger, err := jsonfile.New(cfg.LedgerPath)
		if err != nil {
			log.WithError(err).WithField("path", cfg.LedgerPath).Fatal("open ledger file")
		}
		repo = ledger
		log.WithField("path", cfg.LedgerPath).Info("ledger: json file")
	}

	docCache := cache.DocumentCache(cache.NoopDocumentCache{})
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisDocumentCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(ctx); err != nil {
			log.WithError(err).Warn("redis unavailable, using noop document cache")
		} else {
			docCache = redisCache
			closers = append(closers, redisCache.Close)
			log.Info("document cache: redis")
		}
	} else {
		log.Info("document cache: noop")
	}

	svc := service.New(repo, docCache, log, service.Config{
		WorkbookPath:   cfg.CatalogWorkbookPath,
		BillPrefix:     cfg.BillPrefix,
		TaxRatePercent: cfg.TaxRatePercent,
	})
	if err := svc.LoadCatalogAtBoot(); err != nil {
		// The terminal can still finalize bills with hand-entered prices, so
		// a missing workbook is a warning, not a refusal to start.
		log.WithError(err).Warn("catalog workbook not loaded; prices resolve to zero until refresh")
	}

	auth := httpapi.NewAuthManager(cfg.AuthSecret, time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute, repo)
	api := httpapi.New(svc, auth, cfg.AllowedOrigin)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.Address()).Info("billing backend listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("shutdown error")
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.WithError(err).Warn("close error")
		}
	}

	log.Info("server stopped")
}

func validateSecurityConfig(cfg config.Config) error {
	if len(cfg.AuthSecret) < 32 {
		return fmt.Errorf("AUTH_SECRET must be set and at least 32 characters")
	}
	return nil
}
