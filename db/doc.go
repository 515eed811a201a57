// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Connecting

Open picks the driver from the config (modernc.org/sqlite or lib/pq):

	conn, err := db.Open(cfg)

SQLite connections get foreign keys and a busy timeout via DSN pragmas and
are limited to one open connection.

# Schema Creation

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - item_count: Frequency counter per item (absent row means zero)
  - device: Registered kiosks
  - vote: One row per accepted submission
  - vote_item: Items of a submission with their position

# Relationships

	device 1──* vote      (ON DELETE SET NULL)
	vote   1──* vote_item (ON DELETE CASCADE)

item_count is a denormalized total of vote_item so reads never scan the log.
*/
package db
