// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Digital Access API server.

The server stores household survey records and scores each one with the
Digital Access Index, a 0-100 measure of a household's internet access and
device ownership, banded into low, medium and high. Household members
carry education outcomes and a per-person digital literacy score.

# Starting the Server

With no configuration the server uses a local SQLite file:

	go run .

PostgreSQL via environment:

	DATABASE_TYPE=postgres DATABASE_URL=postgres://... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

A .env file in the working directory is loaded first if present.

# Configuration

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): Connection string, required for postgres
  - LOG_LEVEL (-log-level): debug, info, warn, error
  - LOG_FORMAT (-log-format): text, json, auto
  - ALLOWED_ORIGINS (-origins): Comma-separated CORS origins
  - CACHE_TTL (-cache-ttl): Read cache lifetime (default: 5m)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - dai: Index and literacy calculators (no I/O)
  - handlers: HTTP request handlers (scoring, households, persons, stats)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, recovery, logging, JSON helpers
  - metrics: Prometheus collectors
  - models: Request/response types
  - db: Driver selection and schema creation
  - cliparse: Configuration parsing
  - logging: slog setup

The cmd/dai command scores profiles from the command line without a server.

See package documentation for each component.
*/
package main
