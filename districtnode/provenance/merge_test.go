package provenance_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/districtproof/districtnode/districtnode/provenance"
	"github.com/stretchr/testify/require"
)

func backdate(t *testing.T, dir string, age time.Duration) {
	t.Helper()
	des, err := os.ReadDir(dir)
	require.NoError(t, err)
	old := time.Now().Add(-age)
	for _, de := range des {
		require.NoError(t, os.Chtimes(filepath.Join(dir, de.Name()), old, old))
	}
}

func TestMergeSkipsFilesYoungerThanQuiescence(t *testing.T) {
	stagingDir, shardRoot := t.TempDir(), t.TempDir()
	require.NoError(t, provenance.Append(stagingDir, validEntry()))

	m := &provenance.Merger{StagingDir: stagingDir, ShardRoot: shardRoot, Quiescence: time.Hour}
	require.NoError(t, m.Run())

	des, err := os.ReadDir(stagingDir)
	require.NoError(t, err)
	require.Len(t, des, 1, "fresh staging file should not be merged yet")
}

func TestMergeConsolidatesQuiescentFiles(t *testing.T) {
	stagingDir, shardRoot := t.TempDir(), t.TempDir()
	require.NoError(t, provenance.Append(stagingDir, validEntry()))
	backdate(t, stagingDir, 2*time.Hour)

	m := &provenance.Merger{StagingDir: stagingDir, ShardRoot: shardRoot, Quiescence: time.Hour}
	require.NoError(t, m.Run())

	des, err := os.ReadDir(stagingDir)
	require.NoError(t, err)
	require.Len(t, des, 0, "merged staging file should be removed")

	results, err := provenance.Query(shardRoot, stagingDir, provenance.Filter{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "0666000", results[0].Key)
}

func TestMergeIsIdempotentOnStableStagingSet(t *testing.T) {
	stagingDir, shardRoot := t.TempDir(), t.TempDir()
	require.NoError(t, provenance.Append(stagingDir, validEntry()))
	backdate(t, stagingDir, 2*time.Hour)

	m := &provenance.Merger{StagingDir: stagingDir, ShardRoot: shardRoot, Quiescence: time.Hour}
	require.NoError(t, m.Run())

	shardFile := findShardFile(t, shardRoot)
	before, err := os.ReadFile(shardFile)
	require.NoError(t, err)

	// No new writes landed in staging, so this cycle finds nothing to do.
	require.NoError(t, m.Run())

	after, err := os.ReadFile(shardFile)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func findShardFile(t *testing.T, shardRoot string) string {
	t.Helper()
	var found string
	require.NoError(t, filepath.Walk(shardRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".gz" {
			found = path
		}
		return nil
	}))
	require.NotEmpty(t, found, "expected a shard file under %s", shardRoot)
	return found
}
