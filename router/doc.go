// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Cloud API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints, and Wrap
adds CORS, client IP resolution and request metrics around it:

	mux := router.NewRouter(db, cfg, cat, translator, limiter)
	trust := middleware.NewProxyTrust(cfg.TrustedProxies)
	server := http.Server{Handler: router.Wrap(mux, trust)}

# Endpoints

Health and metrics:

	GET /health
	GET /metrics

Voting (public, rate limited per client IP):

	POST /api/vote - Count one selection

Counters:

	GET    /api/votes - Raw item counts
	DELETE /api/votes - Clear all counts (requires X-Admin-Key)

Word cloud:

	GET /api/wordcloud?lang= - Sized words
	GET /api/catalog?lang=   - Localized item list

Kiosk support:

	GET /api/config             - Idle timeout and selection limits
	GET /api/translations       - Available languages
	GET /api/translations/{lang} - Translation table

Device management:

	POST /devices/register - Register device
	GET  /devices/me       - Get device info
*/
package router
