/*
hcidx demo API

A small read-mostly HTTP surface over a single in-process tiered.Index,
for interactively exercising and inspecting a benchmark run.

Version: 1.0.0
BasePath: /api/v1

swagger:meta
*/
package api

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ssargent/hcidx/pkg/config"
	"github.com/ssargent/hcidx/pkg/tiered"
)

// StartServer starts the HTTP demo API over idx with all routes
// configured. It blocks until the server stops.
func StartServer(idx *tiered.Index, cfg config.Server) error {
	metrics := NewMetrics()
	server := NewServer(idx, metrics)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", metrics.InstrumentHandler("GET", "/api/v1/health", server.handleHealth))
		r.Get("/keys/{key}", metrics.InstrumentHandler("GET", "/api/v1/keys/{key}", server.handleSearch))
		r.Put("/keys/{key}", metrics.InstrumentHandler("PUT", "/api/v1/keys/{key}", server.handleInsert))
		r.Get("/range", metrics.InstrumentHandler("GET", "/api/v1/range", server.handleRange))
		r.Get("/stats", metrics.InstrumentHandler("GET", "/api/v1/stats", server.handleStats))
	})

	addr := fmt.Sprintf("%s:%d", cfg.Bind, cfg.Port)
	log.Printf("hcidx demo API listening on %s", addr)
	log.Printf("metrics available at http://%s/metrics", addr)

	return http.ListenAndServe(addr, r)
}
