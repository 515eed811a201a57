// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/quickly-cloud/catalog"
	"github.com/danielhkuo/quickly-cloud/cliparse"
	"github.com/danielhkuo/quickly-cloud/handlers"
	"github.com/danielhkuo/quickly-cloud/i18n"
	"github.com/danielhkuo/quickly-cloud/middleware"
)

// NewRouter registers every API route. limiter guards vote submission.
func NewRouter(db *sql.DB, cfg cliparse.Config, cat *catalog.Catalog, tr *i18n.Translator, limiter *middleware.RateLimiter) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	votingHandler := handlers.NewVotingHandler(db, cfg, cat, tr)
	countsHandler := handlers.NewCountsHandler(db, cfg)
	cloudHandler := handlers.NewCloudHandler(db, cat, tr)
	configHandler := handlers.NewConfigHandler(cfg, cat)
	translationHandler := handlers.NewTranslationHandler(tr)
	deviceHandler := handlers.NewDeviceHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Voting (public, rate limited per client IP)
	mux.HandleFunc("POST /api/vote", middleware.WithLogging(limiter.Limit(votingHandler.SubmitVote)))

	// Counters
	mux.HandleFunc("GET /api/votes", middleware.WithLogging(countsHandler.GetCounts))
	mux.HandleFunc("DELETE /api/votes", middleware.WithLogging(countsHandler.ClearCounts))

	// Word cloud and catalog
	mux.HandleFunc("GET /api/wordcloud", middleware.WithLogging(cloudHandler.GetCloud))
	mux.HandleFunc("GET /api/catalog", middleware.WithLogging(cloudHandler.GetCatalog))

	// Kiosk configuration and translations
	mux.HandleFunc("GET /api/config", middleware.WithLogging(configHandler.GetConfig))
	mux.HandleFunc("GET /api/translations", middleware.WithLogging(translationHandler.GetLanguages))
	mux.HandleFunc("GET /api/translations/{lang}", middleware.WithLogging(translationHandler.GetTranslations))

	// Device management
	mux.HandleFunc("POST /devices/register", middleware.WithLogging(deviceHandler.Register))
	mux.HandleFunc("GET /devices/me", middleware.WithLogging(deviceHandler.GetMe))

	// Prometheus scrape endpoint
	mux.Handle("GET /metrics", promhttp.Handler())

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-cloud API v1"))
	})

	return mux
}

// Wrap applies the server-wide middleware chain.
// The client IP is resolved once, before any handler or the rate limiter reads it.
func Wrap(mux *http.ServeMux, trust *middleware.ProxyTrust) http.Handler {
	return middleware.CORS(trust.Resolve(middleware.Instrument(mux)))
}
