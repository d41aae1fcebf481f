package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter builds the HTTP mux for s's five routes, wrapped in the
// permissive CORS policy the Non-goals leave as a later concern (full
// origin/method/header policy is explicitly out of scope; this is
// enough to let a browser-based client exercise the contract).
func NewRouter(s *Server) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/v1/lookup", instrument("lookup", s.LookupByPoint)).Methods(http.MethodPost)
	r.HandleFunc("/v1/districts/{id}", instrument("districtById", s.DistrictByID)).Methods(http.MethodGet)
	r.HandleFunc("/v1/snapshot", instrument("currentSnapshot", s.CurrentSnapshot)).Methods(http.MethodGet)
	r.HandleFunc("/v1/snapshots", instrument("listSnapshots", s.ListSnapshots)).Methods(http.MethodGet)
	r.HandleFunc("/v1/health", instrument("health", s.Health)).Methods(http.MethodGet)

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}).Handler(r)
}

// instrument wraps handler with the per-route request counter and
// latency histogram, recording the status code the handler actually
// wrote via a small ResponseWriter shim.
func instrument(route string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		handler(rec, r)
		requestLatency.WithLabelValues(route).Observe(time.Since(start).Seconds())
		requestsTotal.WithLabelValues(route, http.StatusText(rec.status)).Inc()
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
