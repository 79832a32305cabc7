// Package config loads runtime configuration for the trading journal CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON or YAML file selected with -c or -config. The format is
//     taken from the extension (.yaml/.yml, anything else is JSON).
//  3. A .env file in the working directory, then the process environment
//     (JOURNAL_DATABASE_DSN, JOURNAL_SECRET_KEY, JOURNAL_S3_*, LOG_LEVEL, ...).
//  4. Command-line flags (see parseFlags).
//
// Durations in files use timex.Duration, so "3s" and integer nanoseconds
// both work:
//
//	{
//	  "database_dsn": "postgres://journal@127.0.0.1/journal",
//	  "call_timeout": "10s",
//	  "s3": {"endpoint": "http://127.0.0.1:9000", "bucket": "attachments"}
//	}
//
// Malformed files, flags or environment values panic; configuration errors
// are fatal at start-up.
package config
