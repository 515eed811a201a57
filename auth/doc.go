// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin key, ID and IP hashing utilities.

# Admin Keys

Admin keys use HMAC-SHA256 over a scope name to create deterministic,
verifiable keys:

	adminKey := auth.GenerateAdminKey(auth.ScopeCounts, salt)
	err := auth.ValidateAdminKey(auth.ScopeCounts, adminKey, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same scope and salt always produce the same key, so nothing is stored in
the database. The server prints the counts key with -print-admin-key.

# ID Generation

Random hex IDs for device records:

	id, err := auth.GenerateID(16)  // 32 hex characters

# IP Hashing

For privacy-preserving abuse tracking on votes:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
