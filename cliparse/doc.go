// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

	-p              Server port
	-d              Database URL
	-t              Database type (sqlite or postgres)
	-admin-salt     Admin key salt
	-reset-timeout  Idle selection reset, seconds
	-items          Catalog size
	-translations   Translation table directory
	-vote-rate      Votes per second per client IP
	-vote-burst     Vote burst per client IP

# Environment Variables

Flags fall back to environment variables:

	PORT                            → -p (default 3318)
	DATABASE_URL                    → -d
	DATABASE_TYPE                   → -t (default sqlite)
	ADMIN_KEY_SALT                  → -admin-salt
	RESET_SELECTION_TIMEOUT_SECONDS → -reset-timeout (default 60)
	TOTAL_ITEMS                     → -items (default 13)
	TRANSLATIONS_DIR                → -translations
	VOTE_RATE                       → -vote-rate (default 1)
	VOTE_BURST                      → -vote-burst (default 3)

CLI flags take precedence over environment variables. A .env file in the
working directory is loaded by main before parsing.

# Validation

ParseFlags returns an error if DATABASE_URL or ADMIN_KEY_SALT is missing,
the database type is unknown, the timeout is not positive, or the catalog is
smaller than one vote.
*/
package cliparse
