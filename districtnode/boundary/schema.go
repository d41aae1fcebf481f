package boundary

// The schema defines how district and country records are keyed
// within the underlying bbolt buckets: district id -> encoded
// district; country code -> encoded country partition; a single
// metadata key records the active snapshot's identity.

var (
	districtsBucket   = []byte("districts-bucket")
	countriesBucket    = []byte("countries-bucket")
	snapshotMetaBucket = []byte("snapshot-meta-bucket")

	snapshotIDKey        = []byte("snapshot-id")
	snapshotMerkleRootKey = []byte("snapshot-merkle-root")
	snapshotDistrictCountKey = []byte("snapshot-district-count")
)
