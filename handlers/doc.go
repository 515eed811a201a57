// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Cloud API.

# Handler Types

Each handler is a struct holding only the dependencies it reads:

  - VotingHandler: vote submission and counter increments
  - CountsHandler: raw frequency counters and the admin reset
  - CloudHandler: sized word cloud and the localized catalog
  - ConfigHandler: kiosk configuration
  - TranslationHandler: translation tables
  - DeviceHandler: kiosk device registration

Handlers are created via constructor functions:

	votingHandler := handlers.NewVotingHandler(db, cfg, cat, translator)

# Voting

	POST /api/vote → SubmitVote

The body carries 1 to 3 distinct catalog items and the voter's language.
All increments of one vote commit in a single transaction. Votes are counted
at least once: a client that retries after a lost response counts twice.

# Counters

	GET /api/votes    → GetCounts
	DELETE /api/votes → ClearCounts (requires X-Admin-Key)

The admin key is an HMAC of the "counts" scope; print it with
-print-admin-key.

# Word Cloud

	GET /api/wordcloud?lang=he → GetCloud
	GET /api/catalog?lang=he   → GetCatalog

Sizes come from wordcloud.ComputeDisplaySizes. Unknown languages fall back
to English.

# Device Tracking

	POST /devices/register → Register
	GET /devices/me        → GetMe

Device operations require the X-Device-UUID header. A vote carrying the
header is linked to the device, creating it on first use.
*/
package handlers
