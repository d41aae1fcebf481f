// Package api is the thin HTTP boundary in front of the serving core:
// request decoding, response shaping, and error translation only. It
// holds no district-matching or proof logic of its own — every answer
// comes from districtnode/spatialindex, districtnode/pip, and
// districtnode/snapshot.
package api

import (
	"github.com/districtproof/districtnode/districtnode/boundary"
	"github.com/districtproof/districtnode/districtnode/merkle"
	"github.com/districtproof/districtnode/districtnode/snapshot"
	"github.com/districtproof/districtnode/shared/bytesutil"
)

func hexRoot(root [32]byte) string {
	return bytesutil.HexEncode(root[:])
}

// DistrictView is the wire shape of a district record, trimmed of the
// internal BBox/PrecisionRank fields a caller has no use for beyond
// what Jurisdiction/Type already communicate.
type DistrictView struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Jurisdiction string `json:"jurisdiction"`
	DistrictType string `json:"districtType"`
	CountryCode  string `json:"countryCode"`
}

func newDistrictView(d *boundary.District) DistrictView {
	return DistrictView{
		ID:           d.ID,
		Name:         d.Name,
		Jurisdiction: d.Jurisdiction,
		DistrictType: string(d.DistrictType),
		CountryCode:  d.CountryCode,
	}
}

// LookupResponse answers lookupByPoint.
type LookupResponse struct {
	District    DistrictView        `json:"district"`
	MerkleProof merkle.CompactProof `json:"merkleProof"`
	CacheHit    bool                `json:"cacheHit"`
	LatencyMs   int64               `json:"latencyMs"`
}

// DistrictResponse answers districtById.
type DistrictResponse struct {
	District    DistrictView        `json:"district"`
	MerkleProof merkle.CompactProof `json:"merkleProof"`
}

// CoverageView mirrors snapshot.Coverage on the wire.
type CoverageView struct {
	Countries    []string `json:"countries"`
	Subdivisions []string `json:"subdivisions"`
}

// SnapshotView is a snapshot's public metadata, as returned by
// currentSnapshot. listSnapshots does not use it; it returns snapshot
// IDs only.
type SnapshotView struct {
	SnapshotID    string       `json:"snapshotId"`
	IPFSCID       string       `json:"ipfsCid"`
	MerkleRoot    string       `json:"merkleRoot"`
	Timestamp     int64        `json:"timestamp"`
	DistrictCount int          `json:"districtCount"`
	Coverage      CoverageView `json:"coverage"`
}

func newSnapshotView(m snapshot.Meta) SnapshotView {
	return SnapshotView{
		SnapshotID:    m.SnapshotID,
		IPFSCID:       m.IPFSCID.String(),
		MerkleRoot:    hexRoot(m.MerkleRoot),
		Timestamp:     m.Timestamp,
		DistrictCount: m.DistrictCount,
		Coverage: CoverageView{
			Countries:    m.Coverage.Countries,
			Subdivisions: m.Coverage.Subdivisions,
		},
	}
}

// QuantileStats reports the three latency percentiles the health
// response exposes, in milliseconds.
type QuantileStats struct {
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
}

// HealthStatus is one of healthy, degraded, unhealthy.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResponse answers health.
type HealthResponse struct {
	Status  HealthStatus `json:"status"`
	Queries struct {
		QuantileStats
		Throughput float64 `json:"throughput"`
	} `json:"queries"`
	Cache struct {
		HitRate float64 `json:"hitRate"`
	} `json:"cache"`
	Snapshot struct {
		AgeSeconds int64 `json:"ageSeconds"`
	} `json:"snapshot"`
	Errors struct {
		Last5m int64 `json:"last5m"`
	} `json:"errors"`
}
