package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/danielhkuo/quickly-cloud/auth"
	"github.com/danielhkuo/quickly-cloud/catalog"
	"github.com/danielhkuo/quickly-cloud/cliparse"
	"github.com/danielhkuo/quickly-cloud/db"
	"github.com/danielhkuo/quickly-cloud/i18n"
	"github.com/danielhkuo/quickly-cloud/middleware"
	"github.com/danielhkuo/quickly-cloud/router"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	if cfg.PrintAdminKey {
		fmt.Println(auth.GenerateAdminKey(auth.ScopeCounts, cfg.AdminKeySalt))
		return
	}

	// Connect to the database
	dbConn, err := db.Open(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err, "type", cfg.DatabaseType)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	// Translations: embedded unless a directory is configured
	var translator *i18n.Translator
	if cfg.TranslationsDir != "" {
		translator, err = i18n.LoadDir(cfg.TranslationsDir)
	} else {
		translator, err = i18n.Load()
	}
	if err != nil {
		slog.Error("translation loading failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Translations loaded", "languages", translator.Languages())

	cat, err := catalog.New(cfg.TotalItems)
	if err != nil {
		slog.Error("catalog creation failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	limiter := middleware.NewRateLimiter(cfg.VoteRate, cfg.VoteBurst)
	go limiter.CleanupVisitors(ctx, time.Minute)

	if len(cfg.TrustedProxies) > 0 {
		slog.Info("Forwarding headers trusted", "proxies", cfg.TrustedProxies)
	}

	// Create router
	mux := router.NewRouter(dbConn, cfg, cat, translator, limiter)

	// Create server
	server := http.Server{
		Handler: router.Wrap(mux, middleware.NewProxyTrust(cfg.TrustedProxies)),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		cancel()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		server.Shutdown(shutdownCtx)
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "items", cat.Len(), "reset_timeout_seconds", cfg.ResetTimeoutSeconds)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
