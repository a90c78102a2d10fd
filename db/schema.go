// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Driver names registered by lib/pq and modernc.org/sqlite
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects to the database and verifies the connection.
// dbType is "postgres" or "sqlite".
func Open(dbType, url string) (*sql.DB, error) {
	var driver string
	switch dbType {
	case DriverPostgres:
		driver = DriverPostgres
	case DriverSQLite:
		driver = DriverSQLite
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dbType, err)
	}

	if driver == DriverSQLite {
		// Single writer; also keeps :memory: databases on one connection
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(25)
		conn.SetMaxIdleConns(5)
		conn.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", dbType, err)
	}

	if driver == DriverSQLite {
		// SQLite ignores REFERENCES ... ON DELETE CASCADE unless enabled per connection
		if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Portable across PostgreSQL and SQLite
const schema = `
-- Households
CREATE TABLE IF NOT EXISTS household (
    id TEXT PRIMARY KEY,
    province TEXT NOT NULL,
    municipality TEXT NOT NULL,
    geo_type TEXT NOT NULL CHECK (geo_type IN ('urban', 'rural', 'metro', 'informal')),
    household_size INTEGER NOT NULL CHECK (household_size >= 1),
    monthly_income DOUBLE PRECISION CHECK (monthly_income IS NULL OR monthly_income >= 0),
    has_electricity BOOLEAN NOT NULL DEFAULT FALSE,
    has_internet_access BOOLEAN NOT NULL DEFAULT FALSE,
    internet_type TEXT NOT NULL DEFAULT 'none',
    has_computer BOOLEAN NOT NULL DEFAULT FALSE,
    has_smartphone BOOLEAN NOT NULL DEFAULT FALSE,
    num_computers INTEGER NOT NULL DEFAULT 0 CHECK (num_computers >= 0),
    num_smartphones INTEGER NOT NULL DEFAULT 0 CHECK (num_smartphones >= 0),
    access_score DOUBLE PRECISION NOT NULL CHECK (access_score >= 0 AND access_score <= 100),
    access_category TEXT NOT NULL CHECK (access_category IN ('low', 'medium', 'high')),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_household_province_geo ON household(province, geo_type);
CREATE INDEX IF NOT EXISTS idx_household_access_score ON household(access_score);
CREATE INDEX IF NOT EXISTS idx_household_category ON household(access_category);

-- Household members
CREATE TABLE IF NOT EXISTS person (
    id TEXT PRIMARY KEY,
    household_id TEXT NOT NULL REFERENCES household(id) ON DELETE CASCADE,
    age INTEGER NOT NULL CHECK (age >= 0 AND age <= 120),
    gender TEXT NOT NULL CHECK (gender IN ('M', 'F', 'O')),
    education_level TEXT NOT NULL CHECK (education_level IN ('NONE', 'PRIM', 'SECO', 'MATR', 'DIPL', 'DEGR', 'POST')),
    currently_studying BOOLEAN NOT NULL DEFAULT FALSE,
    school_type TEXT NOT NULL DEFAULT 'NONE' CHECK (school_type IN ('NONE', 'PUB', 'PRI', 'TVET', 'UNI')),
    has_own_device BOOLEAN NOT NULL DEFAULT FALSE,
    device_type TEXT,
    internet_usage_hours DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (internet_usage_hours >= 0 AND internet_usage_hours <= 24),
    uses_internet_for_education BOOLEAN NOT NULL DEFAULT FALSE,
    average_academic_score DOUBLE PRECISION CHECK (average_academic_score IS NULL OR (average_academic_score >= 0 AND average_academic_score <= 100)),
    digital_literacy_score DOUBLE PRECISION NOT NULL CHECK (digital_literacy_score >= 0 AND digital_literacy_score <= 1),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_person_household_education ON person(household_id, education_level);
CREATE INDEX IF NOT EXISTS idx_person_literacy ON person(digital_literacy_score);
`
