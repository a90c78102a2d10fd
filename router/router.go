// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/digital-access/cliparse"
	"github.com/danielhkuo/digital-access/handlers"
	"github.com/danielhkuo/digital-access/metrics"
	"github.com/danielhkuo/digital-access/middleware"
)

const healthTimeout = 2 * time.Second

func NewRouter(db *sql.DB, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers; record handlers share one read cache so a
	// household delete also drops its cached members
	readCache := handlers.NewReadCache(cfg.CacheTTL)
	indexHandler := handlers.NewIndexHandler()
	householdHandler := handlers.NewHouseholdHandler(db, readCache)
	personHandler := handlers.NewPersonHandler(db, readCache)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			slog.Warn("health check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("database unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus exposition
	mux.Handle("GET /metrics", metrics.Handler())

	// Stateless scoring
	mux.HandleFunc("POST /digital-access-index", middleware.WithLogging(indexHandler.ComputeIndex))
	mux.HandleFunc("POST /digital-literacy", middleware.WithLogging(indexHandler.ComputeLiteracy))

	// Household records
	mux.HandleFunc("POST /households", middleware.WithLogging(householdHandler.CreateHousehold))
	mux.HandleFunc("GET /households", middleware.WithLogging(householdHandler.ListHouseholds))
	mux.HandleFunc("GET /households/stats", middleware.WithLogging(householdHandler.GetStats))
	mux.HandleFunc("GET /households/{id}", middleware.WithLogging(householdHandler.GetHousehold))
	mux.HandleFunc("PUT /households/{id}", middleware.WithLogging(householdHandler.UpdateHousehold))
	mux.HandleFunc("DELETE /households/{id}", middleware.WithLogging(householdHandler.DeleteHousehold))

	// Household members and education outcomes
	mux.HandleFunc("POST /households/{id}/persons", middleware.WithLogging(personHandler.CreatePerson))
	mux.HandleFunc("GET /households/{id}/persons", middleware.WithLogging(personHandler.ListPersons))
	mux.HandleFunc("GET /persons/stats", middleware.WithLogging(personHandler.GetEducationStats))
	mux.HandleFunc("GET /persons/{id}", middleware.WithLogging(personHandler.GetPerson))
	mux.HandleFunc("PUT /persons/{id}", middleware.WithLogging(personHandler.UpdatePerson))
	mux.HandleFunc("DELETE /persons/{id}", middleware.WithLogging(personHandler.DeletePerson))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("digital-access API v1"))
	})

	return middleware.CORS(cfg.AllowedOrigins)(middleware.Recover(mux))
}
