// Package api provides the REST boundary for aircraft registration lookups.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tail_lookup/internal/observability"
	"tail_lookup/internal/storage"
	"tail_lookup/internal/tailnum"
)

// Server serves tail number lookups over the read-only aircraft store.
type Server struct {
	db      *storage.DB
	metrics *observability.Metrics
	dbPath  string
	port    int
}

// Config holds configuration for the lookup API server.
type Config struct {
	Port   int
	DBPath string // store location, reported by the health endpoint
}

// NewServer creates a lookup API server over an opened store.
func NewServer(db *storage.DB, metrics *observability.Metrics, cfg Config) *Server {
	return &Server{
		db:      db,
		metrics: metrics,
		dbPath:  cfg.DBPath,
		port:    cfg.Port,
	}
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	r := chi.NewRouter()

	// Standard middleware.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(30 * time.Second))

	// CORS for browser access.
	r.Use(corsMiddleware)

	r.Mount("/", s.Router())

	addr := ":" + strconv.Itoa(s.port)
	log.Printf("tail-lookup API starting at http://localhost%s", addr)

	return http.ListenAndServe(addr, r)
}

// Router returns the route tree without middleware, for embedding and tests.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/stats", s.handleStats)
		r.Get("/aircraft/{tail}", s.handleGetAircraft)
		r.Post("/aircraft/bulk", s.handleBulkLookup)
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleGetAircraft(w http.ResponseWriter, r *http.Request) {
	key := tailnum.Normalize(chi.URLParam(r, "tail"))
	if key == "" {
		s.metrics.Lookups.WithLabelValues("invalid").Inc()
		writeError(w, http.StatusBadRequest, "Invalid tail number")
		return
	}

	aircraft, err := s.db.Lookup(key)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if aircraft == nil {
		s.metrics.Lookups.WithLabelValues("not_found").Inc()
		writeError(w, http.StatusNotFound, "Aircraft N"+key+" not found")
		return
	}

	s.metrics.Lookups.WithLabelValues("found").Inc()
	writeJSON(w, http.StatusOK, aircraft)
}

// BulkRequest is the request body for bulk lookups.
type BulkRequest struct {
	TailNumbers []string `json:"tail_numbers"`
}

// BulkItem is a single result within a bulk response.
type BulkItem struct {
	TailNumber   string `json:"tail_number"`
	Manufacturer string `json:"manufacturer,omitempty"`
	Model        string `json:"model,omitempty"`
	Series       string `json:"series,omitempty"`
	AircraftType string `json:"aircraft_type,omitempty"`
	EngineType   string `json:"engine_type,omitempty"`
	NumEngines   *int   `json:"num_engines,omitempty"`
	NumSeats     *int   `json:"num_seats,omitempty"`
	YearMfr      *int   `json:"year_mfr,omitempty"`
	Error        string `json:"error,omitempty"`
}

// BulkResponse is the response for bulk lookups.
type BulkResponse struct {
	Total   int        `json:"total"`
	Found   int        `json:"found"`
	Results []BulkItem `json:"results"`
}

func (s *Server) handleBulkLookup(w http.ResponseWriter, r *http.Request) {
	var req BulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	outcomes, found, err := s.db.BulkLookup(req.TailNumbers)
	if err != nil {
		if errors.Is(err, storage.ErrBulkTooLarge) {
			writeError(w, http.StatusBadRequest, "Maximum 50 tail numbers per request")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.metrics.BulkRequests.Inc()
	s.metrics.BulkBatchSize.Observe(float64(len(req.TailNumbers)))

	results := make([]BulkItem, 0, len(outcomes))
	for _, o := range outcomes {
		results = append(results, toBulkItem(o))
	}

	writeJSON(w, http.StatusOK, BulkResponse{
		Total:   len(req.TailNumbers),
		Found:   found,
		Results: results,
	})
}

func toBulkItem(o storage.BulkResult) BulkItem {
	item := BulkItem{TailNumber: o.TailNumber, Error: o.Error}
	if o.Aircraft == nil {
		return item
	}

	item.Manufacturer = o.Aircraft.Manufacturer
	item.Model = o.Aircraft.Model
	item.Series = o.Aircraft.Series
	item.AircraftType = o.Aircraft.AircraftType
	item.EngineType = o.Aircraft.EngineType
	item.NumEngines = o.Aircraft.NumEngines
	item.NumSeats = o.Aircraft.NumSeats
	item.YearMfr = o.Aircraft.YearMfr
	return item
}

// StatsResponse is the response for the stats endpoint.
type StatsResponse struct {
	RecordCount int    `json:"record_count"`
	LastUpdated string `json:"last_updated,omitempty"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.Stats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, StatsResponse{
		RecordCount: stats.RecordCount,
		LastUpdated: stats.LastUpdated,
	})
}

// HealthResponse is the response for the health endpoint.
type HealthResponse struct {
	Status         string `json:"status"`
	DatabaseExists bool   `json:"database_exists"`
	RecordCount    int    `json:"record_count"`
	LastUpdated    string `json:"last_updated,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.Stats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.metrics.StoreRecords.Set(float64(stats.RecordCount))

	status := "healthy"
	if stats.RecordCount == 0 {
		status = "degraded"
	}

	_, statErr := os.Stat(s.dbPath)

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:         status,
		DatabaseExists: statErr == nil,
		RecordCount:    stats.RecordCount,
		LastUpdated:    stats.LastUpdated,
	})
}

// Helper functions.

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
