// Package config loads runtime configuration for the Bikes-Shop client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend service
//	-i int      online status check interval (seconds)
//	-d string   cache database DSN
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "server_base_url": "http://localhost:3000",
//	  "online_check_interval": "3s",
//	  "request_timeout": "10s",
//	  "debounce_count": 2,
//	  "cache_dsn": "bikes.db"
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
