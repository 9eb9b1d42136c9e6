// Package main provides the tail-lookup REST API server.
//
// The server answers aircraft registration lookups from a store built by
// update-db. The store is opened once and shared read-only across requests.
//
// Usage:
//
//	tail-lookup-api [options]
//
// Options:
//
//	-db PATH   Aircraft database path (default: ./aircraft.db, env: DB_PATH)
//	-port N    HTTP port (default: 8080, env: PORT)
//
// API Endpoints:
//
//	GET /api/v1/aircraft/{tail}
//	    Lookup one aircraft by N-number (e.g. N172SP, 172SP, N-172SP).
//
//	POST /api/v1/aircraft/bulk
//	    Lookup up to 50 aircraft. Body: {"tail_numbers": ["N172SP", ...]}
//
//	GET /api/v1/stats
//	    Record count and last build timestamp.
//
//	GET /api/v1/health
//	    Health check with database status.
//
//	GET /metrics
//	    Prometheus metrics.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"tail_lookup/internal/api"
	"tail_lookup/internal/observability"
	"tail_lookup/internal/storage"
)

func main() {
	dbPath := flag.String("db", envOrDefault("DB_PATH", "./aircraft.db"), "aircraft database path")
	port := flag.Int("port", envOrDefaultInt("PORT", 8080), "HTTP port for API server")
	flag.Parse()

	if _, err := os.Stat(*dbPath); err != nil {
		fmt.Fprintf(os.Stderr, "Database not found at %s (run update-db first)\n", *dbPath)
		os.Exit(1)
	}

	db, err := storage.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	metrics := observability.NewMetrics()

	server := api.NewServer(db, metrics, api.Config{
		Port:   *port,
		DBPath: *dbPath,
	})

	if err := server.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}
