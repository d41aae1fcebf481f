package boundary_test

import (
	"testing"

	"github.com/districtproof/districtnode/districtnode/boundary"
	"github.com/stretchr/testify/require"
)

func TestBBoxContainsIsHalfOpen(t *testing.T) {
	b := boundary.BBox{MinLon: 0, MinLat: 0, MaxLon: 1, MaxLat: 1}

	require.True(t, b.Contains(boundary.Point{Lon: 0, Lat: 0}), "min edge is inclusive")
	require.False(t, b.Contains(boundary.Point{Lon: 1, Lat: 0.5}), "max lon edge is exclusive")
	require.False(t, b.Contains(boundary.Point{Lon: 0.5, Lat: 1}), "max lat edge is exclusive")
	require.True(t, b.Contains(boundary.Point{Lon: 0.5, Lat: 0.5}))
}

func TestBBoxContainsNeverDoubleMatchesAdjacentTiles(t *testing.T) {
	left := boundary.BBox{MinLon: 0, MinLat: 0, MaxLon: 1, MaxLat: 1}
	right := boundary.BBox{MinLon: 1, MinLat: 0, MaxLon: 2, MaxLat: 1}

	shared := boundary.Point{Lon: 1, Lat: 0.5}
	leftHas := left.Contains(shared)
	rightHas := right.Contains(shared)
	require.True(t, leftHas != rightHas, "a point on a shared edge must belong to exactly one tile")
}
