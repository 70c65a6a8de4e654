package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/storefront/internal/auth"
	"github.com/Skotchmaster/storefront/internal/catalog"
	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/es"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/handlers"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/metrics"
	"github.com/Skotchmaster/storefront/internal/mykafka"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/internal/storage"
	httpserver "github.com/Skotchmaster/storefront/internal/transport/http"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logging.New(cfg.LogLevel))
		},
	}
}

func serve(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	slog.SetDefault(log)

	backend, err := storage.Open(ctx, cfg.StorageDriver, cfg.StorageDSN, cfg.RedisAddr)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Error("storage_close_failed", "error", err)
		}
	}()

	creds, err := auth.NewCredentials(auth.DefaultAccounts...)
	if err != nil {
		return err
	}

	hub := events.NewHub()
	cat := catalog.New(catalog.NewHTTPSource(cfg.CatalogURL, cfg.CatalogTimeout), hub)
	sessions := session.NewManager(backend, creds, hub, cfg.SessionIdleTTL)

	m := metrics.New(sessions.Active)
	hub.Subscribe(m.Listener())

	if len(cfg.KafkaBrokers) > 0 {
		prod := mykafka.NewProducer(cfg.KafkaBrokers, log)
		hub.Subscribe(mykafka.Listener(prod, log))
		defer func() {
			if err := prod.Close(); err != nil {
				log.Error("kafka_close_failed", "error", err)
			}
		}()
	}

	bg, cancelBg := context.WithCancel(context.Background())
	defer cancelBg()

	var searcher handlers.ProductSearcher
	if cfg.ESURL != "" {
		client, err := es.NewClient(es.Config{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword}, log)
		if err != nil {
			log.Warn("search_disabled", "reason", "elasticsearch unavailable", "error", err)
		} else {
			ix := search.NewIndexer(client, cfg.ESIndex, cat, log)
			hub.Subscribe(ix.Listener())
			go ix.Run(bg)
			searcher = search.NewSearcher(client, cfg.ESIndex)
		}
	}

	go func() {
		if err := cat.Refresh(bg); err != nil {
			log.Error("catalog_refresh_failed", "url", cfg.CatalogURL, "error", err)
			return
		}
		log.Info("catalog_loaded", "count", len(cat.Products()))
	}()
	go sessions.Run(bg, time.Minute, log)

	e := httpserver.NewEcho(httpserver.Options{
		Logger:       log,
		Sessions:     sessions,
		Session:      session.Config{Secret: cfg.SessionSecret},
		CookieSecure: cfg.CookieSecure,
	})
	httpserver.Register(e, &httpserver.Deps{
		Pages:     &handlers.PagesHTTP{Catalog: cat},
		Products:  &handlers.ProductHTTP{Catalog: cat, Search: searcher},
		Cart:      &handlers.CartHTTP{Catalog: cat},
		Dashboard: &handlers.DashboardHTTP{Catalog: cat},
		Auth:      &handlers.AuthHTTP{},
		Metrics:   m.Handler(),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http_server_started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http_shutdown_failed", "error", err)
	}
	cancelBg()
	log.Info("shutdown_complete")
	return nil
}
