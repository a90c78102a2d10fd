// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Connecting

Open selects the driver from the configured database type:

	conn, err := db.Open("postgres", "postgres://...")
	conn, err := db.Open("sqlite", "digital-access.db")

PostgreSQL uses github.com/lib/pq; SQLite uses the pure-Go
modernc.org/sqlite driver and is limited to one open connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The same SQL runs on both PostgreSQL and SQLite.

# Tables

  - household: one survey record per household, including the computed
    access_score and access_category
  - person: household members with education details and the computed
    digital_literacy_score; household_id references household with
    ON DELETE CASCADE

SQLite connections opened by Open have foreign keys enabled so the cascade
behaves as on PostgreSQL.

# Indexes

  - household.(province, geo_type)
  - household.access_score
  - household.access_category
  - person.(household_id, education_level)
  - person.digital_literacy_score

# Errors

IsUniqueViolation and IsForeignKeyViolation classify constraint failures
from either driver.
*/
package db
