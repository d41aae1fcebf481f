package boundary

// Point is a WGS84 (EPSG:4326) coordinate pair, longitude first to
// match bbox ordering ([minLon, minLat, maxLon, maxLat]).
type Point struct {
	Lon float64
	Lat float64
}

// BBox is an axis-aligned bounding box: [minLon, minLat, maxLon, maxLat].
type BBox struct {
	MinLon, MinLat, MaxLon, MaxLat float64
}

// Contains reports whether p lies within b, under the half-open
// convention used throughout this service: inclusive on MinLon/MinLat,
// exclusive on MaxLon/MaxLat. This is what keeps a point that falls
// exactly on a shared edge between two adjacent bboxes from matching
// both (or neither) of them.
func (b BBox) Contains(p Point) bool {
	return p.Lon >= b.MinLon && p.Lon < b.MaxLon && p.Lat >= b.MinLat && p.Lat < b.MaxLat
}

// Intersects reports whether b and o share any area, edges inclusive.
func (b BBox) Intersects(o BBox) bool {
	return b.MinLon <= o.MaxLon && b.MaxLon >= o.MinLon && b.MinLat <= o.MaxLat && b.MaxLat >= o.MinLat
}

// Union returns the smallest bbox containing both b and o.
func (b BBox) Union(o BBox) BBox {
	return BBox{
		MinLon: minF(b.MinLon, o.MinLon),
		MinLat: minF(b.MinLat, o.MinLat),
		MaxLon: maxF(b.MaxLon, o.MaxLon),
		MaxLat: maxF(b.MaxLat, o.MaxLat),
	}
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Ring is a closed sequence of points; the first and last points are
// implicitly connected. A Polygon's Outer ring winds the exterior;
// Holes (if any) are interior rings subtracted from it.
type Ring []Point

// Polygon is a single polygon, possibly with holes.
type Polygon struct {
	Outer Ring
	Holes []Ring
}

// Geometry is a polygon or multipolygon — a district's shape is one or
// more disjoint (or touching) polygons, e.g. an island chain
// jurisdiction.
type Geometry struct {
	Polygons []Polygon
}

// BBox computes the bounding box of every ring in the geometry.
func (g Geometry) BBox() BBox {
	first := true
	var b BBox
	for _, poly := range g.Polygons {
		for _, p := range poly.Outer {
			if first {
				b = BBox{p.Lon, p.Lat, p.Lon, p.Lat}
				first = false
				continue
			}
			b = b.Union(BBox{p.Lon, p.Lat, p.Lon, p.Lat})
		}
	}
	return b
}

// DistrictType is a closed enumeration of the kinds of district this
// service serves boundaries for.
type DistrictType string

const (
	TypeCouncil      DistrictType = "council"
	TypeWard         DistrictType = "ward"
	TypeMunicipal    DistrictType = "municipal"
	TypeCounty       DistrictType = "county"
	TypeCongressional DistrictType = "congressional"
	TypeStateUpper   DistrictType = "state-upper"
	TypeStateLower   DistrictType = "state-lower"
	TypePlace        DistrictType = "place"
	TypeCDP          DistrictType = "cdp"
	TypeSchool       DistrictType = "school"
)

// Provenance records where a district's geometry came from and how
// much to trust it.
type Provenance struct {
	SourceURL        string
	AuthorityLevel   int // 0-5
	License          string
	RetrievedAt      int64 // unix seconds
	DataVersion      string
	RawResponseHash  string
}

// District is a single electoral boundary record, immutable for the
// lifetime of the snapshot it belongs to.
type District struct {
	ID            string
	Name          string
	Jurisdiction  string
	DistrictType  DistrictType
	Geometry      Geometry
	BBox          BBox
	PrecisionRank int
	Provenance    Provenance
	CountryCode   string
}

// Country is a country-level partition: the union bbox of every
// district belonging to it, used by the spatial index's stage-1
// country routing table.
type Country struct {
	CountryCode   string
	BBox          BBox
	DistrictCount int
	LastAccessed  int64
}
