package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ssargent/hcidx/pkg/tiered"
)

// Server holds the demo API's state: a single shared index guarded by
// a mutex. The core tiered.Index is single-threaded by design (spec
// §5); this mutex is the concurrency shim the HTTP layer adds on top,
// and it lives here, outside the core.
type Server struct {
	mu      sync.Mutex
	idx     *tiered.Index
	metrics *Metrics
}

// NewServer creates a new demo API server over idx.
func NewServer(idx *tiered.Index, metrics *Metrics) *Server {
	return &Server{idx: idx, metrics: metrics}
}

// handleHealth reports the server as healthy once it is serving
// requests at all.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// keyResponse is the JSON shape returned for a point lookup.
type keyResponse struct {
	Key   int64 `json:"key"`
	Value any   `json:"value"`
	Found bool  `json:"found"`
}

// handleSearch performs a point lookup for the key in the URL.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	k, err := parseKey(chi.URLParam(r, "key"))
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	v := s.idx.Search(k)
	s.mu.Unlock()

	s.metrics.RecordIndexOperation("search", true, time.Since(start))
	sendSuccess(w, keyResponse{Key: k, Value: v, Found: v != nil})
}

// insertRequest is the JSON body handleInsert expects.
type insertRequest struct {
	Value any `json:"value"`
}

// handleInsert upserts the key in the URL with the JSON body's value.
func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	k, err := parseKey(chi.URLParam(r, "key"))
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req insertRequest
	if err := decodeJSON(r, &req); err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Value == nil {
		sendError(w, "value must not be null", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.idx.Insert(k, req.Value)
	s.mu.Unlock()

	s.metrics.RecordIndexOperation("insert", true, time.Since(start))
	sendSuccess(w, keyResponse{Key: k, Value: req.Value, Found: true})
}

// handleRange performs a range scan over the query parameters lo/hi.
func (s *Server) handleRange(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	lo, err := parseKey(r.URL.Query().Get("lo"))
	if err != nil {
		sendError(w, "invalid lo: "+err.Error(), http.StatusBadRequest)
		return
	}
	hi, err := parseKey(r.URL.Query().Get("hi"))
	if err != nil {
		sendError(w, "invalid hi: "+err.Error(), http.StatusBadRequest)
		return
	}

	results := make([]keyResponse, 0)
	s.mu.Lock()
	s.idx.RangeSearch(lo, hi, func(k int64, v any) {
		results = append(results, keyResponse{Key: k, Value: v, Found: true})
	})
	s.mu.Unlock()

	s.metrics.RecordIndexOperation("range", true, time.Since(start))
	sendSuccess(w, results)
}

// handleStats returns the current tiered.Stats snapshot and refreshes
// the Prometheus gauges that mirror it.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	stats := s.idx.Stats()
	s.mu.Unlock()

	s.metrics.ObserveStats(stats)
	sendSuccess(w, stats)
}

func parseKey(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
