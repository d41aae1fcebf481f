package provenance_test

import (
	"testing"
	"time"

	"github.com/districtproof/districtnode/districtnode/provenance"
	"github.com/stretchr/testify/require"
)

func validEntry() provenance.Entry {
	return provenance.Entry{
		Key:        "0666000",
		Tier:       1,
		Confidence: 85,
		Authority:  3,
		Reasoning:  []string{"T1 success"},
		Tried:      []int{0, 1},
		Timestamp:  time.Date(2025, 11, 19, 7, 42, 0, 0, time.UTC),
		AgentID:    "agt-001",
	}
}

func TestValidateAcceptsWellFormedEntry(t *testing.T) {
	require.NoError(t, provenance.Validate(validEntry()))
}

func TestValidateRejectsMissingKey(t *testing.T) {
	e := validEntry()
	e.Key = ""
	require.ErrorIs(t, provenance.Validate(e), provenance.ErrInvalidEntry)
}

func TestValidateRejectsOutOfRangeConfidence(t *testing.T) {
	e := validEntry()
	e.Confidence = 101
	require.ErrorIs(t, provenance.Validate(e), provenance.ErrInvalidEntry)
}

func TestValidateRejectsEmptyReasoning(t *testing.T) {
	e := validEntry()
	e.Reasoning = nil
	require.ErrorIs(t, provenance.Validate(e), provenance.ErrInvalidEntry)
}

func TestValidateRejectsZeroTimestamp(t *testing.T) {
	e := validEntry()
	e.Timestamp = time.Time{}
	require.ErrorIs(t, provenance.Validate(e), provenance.ErrInvalidEntry)
}
