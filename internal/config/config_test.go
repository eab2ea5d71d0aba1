package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadEmptyPathGivesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadOverridesSubset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "farm.yaml")
	require.NoError(t, os.WriteFile(path, []byte("starting_money: 500\nduration: 60\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 500.0, cfg.StartingMoney)
	require.Equal(t, 60.0, cfg.Duration)
	// Untouched keys keep their defaults.
	require.Equal(t, 500.0, cfg.LandCost)
	require.Equal(t, 10, cfg.GridCols)
}

func TestLoadBadYAMLErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "farm.yaml")
	require.NoError(t, os.WriteFile(path, []byte("starting_money: [oops\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
}
