package cmd

import (
	"path/filepath"
	"runtime"

	"github.com/districtproof/districtnode/shared/fileutil"
)

// DefaultDataDir is the default data directory for the boundary store
// and provenance ledger's on-disk state.
func DefaultDataDir() string {
	home := fileutil.HomeDir()
	if home == "" {
		return ""
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "DistrictNode")
	case "windows":
		return filepath.Join(home, "AppData", "Local", "DistrictNode")
	default:
		return filepath.Join(home, ".districtnode")
	}
}
