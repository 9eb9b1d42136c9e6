// Package main builds the aircraft registration store from the FAA's
// releasable aircraft database distribution.
//
// The pipeline downloads the registry archive, parses the MASTER and
// ACFTREF files, and writes a fresh SQLite store, replacing any previous
// one atomically. It is meant to run as a periodic batch job.
//
// Usage:
//
//	update-db [options]
//
// Options:
//
//	-output PATH   Output database path (default: ./aircraft.db, env: DB_PATH)
//	-url URL       Archive URL (default: the published FAA registry URL, env: FAA_URL)
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"tail_lookup/internal/faa"
	"tail_lookup/internal/storage"
)

func main() {
	output := flag.String("output", envOrDefault("DB_PATH", "./aircraft.db"), "output database path")
	url := flag.String("url", envOrDefault("FAA_URL", faa.DefaultURL), "FAA archive URL")
	flag.Parse()

	logger := log.New(os.Stdout, "", log.LstdFlags)

	fetcher := faa.NewFetcher(*url)
	fetcher.Logger = logger

	logger.Printf("Downloading %s...", *url)
	archive, err := fetcher.Download()
	if err != nil {
		fatalf("Download failed: %v", err)
	}

	masterEntry, err := faa.FindEntry(archive, "MASTER")
	if err != nil {
		fatalf("Bad archive: %v", err)
	}
	acftrefEntry, err := faa.FindEntry(archive, "ACFTREF")
	if err != nil {
		fatalf("Bad archive: %v", err)
	}

	logger.Printf("Parsing %s...", masterEntry.Name)
	master, err := faa.ParseEntry(masterEntry, faa.MasterColumns)
	if err != nil {
		fatalf("Parse failed: %v", err)
	}
	logger.Printf("  parsed %d records", len(master))

	logger.Printf("Parsing %s...", acftrefEntry.Name)
	acftref, err := faa.ParseEntry(acftrefEntry, faa.AcftrefColumns)
	if err != nil {
		fatalf("Parse failed: %v", err)
	}
	logger.Printf("  parsed %d records", len(acftref))

	logger.Printf("Building database at %s...", *output)
	counts, err := storage.Build(*output, master, acftref)
	if err != nil {
		fatalf("Build failed: %v", err)
	}
	logger.Printf("  inserted %d aircraft reference records", counts.ReferenceRecords)
	logger.Printf("  inserted %d registration records", counts.RegistrationRecords)

	if info, err := os.Stat(*output); err == nil {
		logger.Printf("Database created: %s (%.1f MB)", *output, float64(info.Size())/1e6)
	}
	logger.Printf("Done")
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
