package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/districtproof/districtnode/districtnode/boundary"
	"github.com/districtproof/districtnode/districtnode/merkle"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type lookupRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LookupByPoint handles POST /v1/lookup: {lat, lng} -> district +
// inclusion proof, or InvalidCoordinates/DistrictNotFound.
func (s *Server) LookupByPoint(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFor(r)
	start := time.Now()

	var req lookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, requestID, ErrInvalidCoordinates, err)
		return
	}
	if req.Lat < -90 || req.Lat > 90 || req.Lng < -180 || req.Lng > 180 {
		writeError(w, requestID, ErrInvalidCoordinates, nil)
		return
	}

	pt := boundary.Point{Lat: req.Lat, Lon: req.Lng}
	ctx := r.Context()

	candidates, err := s.index.Lookup(ctx, pt)
	if err != nil {
		s.stats.recordError()
		writeError(w, requestID, "", err)
		return
	}
	if len(candidates) == 0 {
		s.stats.recordLookup(time.Since(start), false)
		writeError(w, requestID, ErrDistrictNotFound, nil)
		return
	}

	matches, cacheHit, err := s.resolver.Resolve(ctx, pt, candidates)
	if err != nil {
		s.stats.recordLookup(time.Since(start), cacheHit)
		code := classify(err)
		if code == "" {
			s.stats.recordError()
		}
		writeError(w, requestID, code, err)
		return
	}

	best := matches[0]
	root, proof, err := s.proofFor(best.ID)
	if err != nil {
		s.stats.recordError()
		writeError(w, requestID, classify(err), err)
		return
	}

	elapsed := time.Since(start)
	s.stats.recordLookup(elapsed, cacheHit)

	writeJSON(w, LookupResponse{
		District:    newDistrictView(best),
		MerkleProof: merkle.ToCompact(root, proof),
		CacheHit:    cacheHit,
		LatencyMs:   elapsed.Milliseconds(),
	})
}

// DistrictByID handles GET /v1/districts/{id}: returns the district
// record plus its inclusion proof, or DistrictNotFound.
func (s *Server) DistrictByID(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFor(r)
	id := mux.Vars(r)["id"]
	if id == "" {
		writeError(w, requestID, ErrDistrictNotFound, nil)
		return
	}

	store, release, err := s.snapshots.ActiveStore()
	if err != nil {
		writeError(w, requestID, classify(err), err)
		return
	}
	d, err := store.Get(r.Context(), id)
	if err != nil {
		release()
		writeError(w, requestID, classify(err), err)
		return
	}
	root := store.MerkleRoot()
	proof, err := store.ProofFor(id)
	release()
	if err != nil {
		writeError(w, requestID, classify(err), err)
		return
	}

	writeJSON(w, DistrictResponse{
		District:    newDistrictView(d),
		MerkleProof: merkle.ToCompact(root, proof),
	})
}

// CurrentSnapshot handles GET /v1/snapshot: the active snapshot's
// public metadata, or SnapshotUnavailable before cold start completes.
func (s *Server) CurrentSnapshot(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFor(r)
	meta, ok := s.snapshots.ActiveMeta()
	if !ok {
		writeError(w, requestID, ErrSnapshotUnavailable, nil)
		return
	}
	writeJSON(w, newSnapshotView(meta))
}

// ListSnapshots handles GET /v1/snapshots: a JSON array of snapshot IDs,
// the active one first if any, then the retained generations available
// for rollback, newest first. It returns IDs only, not per-snapshot
// metadata.
func (s *Server) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	var views []string
	if meta, ok := s.snapshots.ActiveMeta(); ok {
		views = append(views, meta.SnapshotID)
	}
	views = append(views, s.snapshots.Retained()...)
	writeJSON(w, views)
}

// Health handles GET /v1/health: the rolling latency/cache/error
// window plus the active snapshot's age, rolled into a single
// healthy/degraded/unhealthy verdict.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	snap := s.stats.snapshot()

	var ageSeconds int64
	status := StatusHealthy
	meta, ok := s.snapshots.ActiveMeta()
	if !ok {
		status = StatusUnhealthy
	} else {
		ageSeconds = time.Now().Unix() - meta.Timestamp
		if ageSeconds > 24*3600 {
			status = StatusDegraded
		}
	}
	if snap.ErrorsLast5m > 0 && status == StatusHealthy {
		status = StatusDegraded
	}

	resp := HealthResponse{Status: status}
	resp.Queries.QuantileStats = snap.Quantiles
	resp.Queries.Throughput = snap.Throughput
	resp.Cache.HitRate = snap.CacheHit
	resp.Snapshot.AgeSeconds = ageSeconds
	resp.Errors.Last5m = snap.ErrorsLast5m

	writeJSON(w, resp)
}

func requestIDFor(r *http.Request) string {
	if id := r.Header.Get("X-Request-Id"); id != "" {
		return id
	}
	return uuid.New().String()
}
