package fileutil_test

import (
	"path/filepath"
	"testing"

	"github.com/districtproof/districtnode/shared/fileutil"
	"github.com/stretchr/testify/require"
)

func TestMkdirAllAndWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "staging")
	require.NoError(t, fileutil.MkdirAll(dir))
	exists, err := fileutil.HasDir(dir)
	require.NoError(t, err)
	require.True(t, exists)

	f := filepath.Join(dir, "agt-001-1700000000.ndjson")
	require.NoError(t, fileutil.WriteFile(f, []byte("{}\n")))
	require.True(t, fileutil.FileExists(f))

	data, err := fileutil.ReadFileAsBytes(f)
	require.NoError(t, err)
	require.Equal(t, "{}\n", string(data))
}

func TestDirEntries(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, fileutil.WriteFile(filepath.Join(dir, "a.ndjson"), []byte("x")))
	require.NoError(t, fileutil.WriteFile(filepath.Join(dir, "b.ndjson"), []byte("y")))
	require.NoError(t, fileutil.MkdirAll(filepath.Join(dir, "sub")))

	entries, err := fileutil.DirEntries(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}
