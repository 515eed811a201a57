// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs one line per request with method, path, resolved client, status and
duration_ms. 4xx responses log at WARN and 5xx at ERROR.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, DELETE, OPTIONS with headers
Content-Type, X-Admin-Key, X-Device-UUID. Preflights answer 204.

# Metrics

Instrument counts requests and observes latency per route pattern:

	handler := middleware.Instrument(mux)

# Rate Limiting

RateLimiter keeps a token bucket per client IP (golang.org/x/time/rate):

	limiter := middleware.NewRateLimiter(cfg.VoteRate, cfg.VoteBurst)
	go limiter.CleanupVisitors(ctx, time.Minute)
	mux.HandleFunc("POST /api/vote", limiter.Limit(voteHandler.SubmitVote))

Rejected requests get 429 and increment votes_rejected_total{reason="rate_limited"}.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies (at most MaxBodyBytes, else ErrBodyTooLarge):

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Resolution

ProxyTrust.Resolve picks the client IP once per request and stores it on the
context. Forwarding headers are believed only when the TCP peer falls in a
trusted prefix (-trust-proxy / TRUSTED_PROXIES); the X-Forwarded-For chain is
then read from the right, so a client cannot choose its own rate limit key:

	trust := middleware.NewProxyTrust(cfg.TrustedProxies)
	handler := trust.Resolve(mux)

	ip := middleware.GetClientIP(r)

Used for IP hashing on votes and as the rate limit key. Without Resolve,
GetClientIP returns the TCP peer.
*/
package middleware
