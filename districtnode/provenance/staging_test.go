package provenance_test

import (
	"os"
	"testing"

	"github.com/districtproof/districtnode/districtnode/provenance"
	"github.com/stretchr/testify/require"
)

func TestAppendWritesOneFilePerEntry(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, provenance.Append(dir, validEntry()))

	second := validEntry()
	second.AgentID = "agt-002"
	require.NoError(t, provenance.Append(dir, second))

	des, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, des, 2)
}

func TestAppendRejectsInvalidEntryWithoutWriting(t *testing.T) {
	dir := t.TempDir()
	bad := validEntry()
	bad.Confidence = -1

	err := provenance.Append(dir, bad)
	require.ErrorIs(t, err, provenance.ErrInvalidEntry)

	des, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, des, 0)
}
