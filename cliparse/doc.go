// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	if err := cliparse.LoadDotEnv(); err != nil {
		log.Fatal(err)
	}
	cfg, err := cliparse.ParseFlags(os.Args[1:])

LoadDotEnv reads an optional .env file first; variables already set in
the environment are never overwritten.

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - DatabaseURL: connection string (required for postgres, default digital-access.db for sqlite)
  - LogLevel: debug, info, warn, error (default: info)
  - LogFormat: text, json, auto (default: auto)
  - AllowedOrigins: CORS origins (default: none, CORS disabled)
  - CacheTTL: read cache lifetime (default: 5m)

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type
	-origins      Comma-separated CORS origins
	-log-level    Log level
	-log-format   Log format
	-cache-ttl    Read cache TTL

# Environment Variables

Flags fall back to environment variables:

	PORT            → -p
	DATABASE_URL    → -d
	DATABASE_TYPE   → -t
	ALLOWED_ORIGINS → -origins
	LOG_LEVEL       → -log-level
	LOG_FORMAT      → -log-format
	CACHE_TTL       → -cache-ttl

CLI flags take precedence over environment variables.
*/
package cliparse
