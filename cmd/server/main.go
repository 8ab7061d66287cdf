package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/wikibinder/internal/api"
	"github.com/dgallion1/wikibinder/internal/assemble"
	"github.com/dgallion1/wikibinder/internal/cite"
	"github.com/dgallion1/wikibinder/internal/config"
	"github.com/dgallion1/wikibinder/internal/export"
	"github.com/dgallion1/wikibinder/internal/settings"
	"github.com/dgallion1/wikibinder/internal/store"
	"github.com/dgallion1/wikibinder/internal/wiki"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Error("open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	sf, err := settings.Open(cfg.SettingsPath)
	if err != nil {
		log.Error("open settings", "path", cfg.SettingsPath, "error", err)
		os.Exit(1)
	}

	wc := wiki.NewClient(wiki.Config{
		BaseURL:   cfg.WikiAPIURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.FetchTimeout,
		MaxBytes:  cfg.MaxArticleBytes,
	})

	fetch := st.CachedFetcher(wc.ArticleHTML)
	exporter := &export.Exporter{
		Assembler: &assemble.Assembler{
			FetchArticle: fetch,
			Bibliography: &cite.Formatter{Fetch: wc.Metadata, Log: log},
			Log:          log,
		},
		Log: log,
	}

	srv := api.NewServer(st, wc, sf, exporter, fetch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting wikibinder", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
