// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - VoteRequest: items, language
  - RegisterDeviceRequest: platform

# Response Types

Types for JSON responses:

  - VoteResponse: success, vote_id, votes
  - ClearCountsResponse: success, removed
  - ConfigResponse: reset_selection_timeout_seconds, max_selections, total_items
  - CatalogResponse: language, items
  - CloudResponse: language, rtl, total_votes, words
  - RegisterDeviceResponse: device_id, is_new
  - ErrorResponse: error, message

# Domain Types

  - Vote: one accepted submission (ip_hash and user_agent never serialized)
  - DeviceInfo: registered kiosk with its vote count
  - CloudWord: item label with its display size

# Constants

Platforms:

	PlatformKiosk   = "kiosk"
	PlatformWeb     = "web"
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
*/
package models
