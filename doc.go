// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Cloud API server.

Quickly Cloud lets visitors pick three items from a fixed catalog and shows
a word cloud sized by how often each item has been picked. This server is the
counting backend; kiosks (cmd/kiosk) host the selection flow.

# Starting the Server

The server requires environment variables or CLI flags for configuration.
A .env file in the working directory is loaded automatically.

	DATABASE_URL=quickly.db ADMIN_KEY_SALT=... go run .

Or with flags:

	go run . -p 3318 -d "postgres://..." -t postgres

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string
  - ADMIN_KEY_SALT (--admin-salt): Secret for admin key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - RESET_SELECTION_TIMEOUT_SECONDS (--reset-timeout): kiosk idle reset (default: 60)
  - TOTAL_ITEMS (--items): catalog size (default: 13)
  - TRANSLATIONS_DIR (--translations): override the embedded tables
  - VOTE_RATE, VOTE_BURST (--vote-rate, --vote-burst): per-IP vote limit
  - TRUSTED_PROXIES (--trust-proxy): proxy IPs/CIDRs whose X-Forwarded-For is believed

Print the admin key for DELETE /api/votes with:

	go run . -print-admin-key

# Architecture

  - handlers: HTTP request handlers (votes, counts, cloud, config, devices)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, rate limiting, metrics, JSON helpers
  - models: Request/response types
  - auth: Admin key and IP hashing
  - db: Connection and schema creation
  - cliparse: Configuration parsing
  - catalog, selection, wordcloud, i18n: shared domain packages
  - client, kiosk: terminal kiosk

See package documentation for each component.
*/
package main
