package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	s := Default()
	assert.True(t, s.Enable)
	assert.True(t, s.PlaySounds)
	assert.Equal(t, 13, s.FontSize())
	assert.Equal(t, 1.0, s.Scale)
	assert.Equal(t, "Metadata/Monsters/AtlasExiles/AtlasExile5", s.TetherMetadata)
	assert.Equal(t, 200.0, s.TetherMaxDistance)
	assert.Equal(t, 256, s.Cache.MeasureCapacity)
	assert.Equal(t, 128, s.Cache.SplitCapacity)
	assert.Equal(t, 128, s.Cache.NameCapacity)
	assert.Equal(t, 50*time.Millisecond, s.TickInterval)
	require.NoError(t, s.Validate())
}

func TestLoadEmptyPath(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().ArrowImage, s.ArrowImage)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proximity.yaml")
	data := []byte(`play_sounds: false
font: "Fontin:23"
scale: 1.5
proximity_x: 40
cache:
  measure_capacity: 16
tick_interval: 20ms
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.False(t, s.PlaySounds)
	assert.True(t, s.ShowModAlerts)
	assert.Equal(t, 23, s.FontSize())
	assert.Equal(t, 1.5, s.Scale)
	assert.Equal(t, 40.0, s.ProximityX)
	assert.Equal(t, 16, s.Cache.MeasureCapacity)
	assert.Equal(t, 128, s.Cache.SplitCapacity)
	assert.Equal(t, 20*time.Millisecond, s.TickInterval)
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proximity.toml")
	data := []byte("show_tether_line = false\n[audio]\nvolume = 0.25\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.False(t, s.ShowTetherLine)
	assert.Equal(t, 0.25, s.Audio.Volume)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PROXIMITY_SHOW_PATH_ALERTS", "false")
	t.Setenv("PROXIMITY_CACHE_NAME_CAPACITY", "7")

	s, err := Load("")
	require.NoError(t, err)
	assert.False(t, s.ShowPathAlerts)
	assert.Equal(t, 7, s.Cache.NameCapacity)
}

func TestLoadRejects(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("font: Fontin\n"), 0o644))
	_, err = Load(bad)
	assert.True(t, errors.Is(err, ErrBadFont))

	zero := filepath.Join(dir, "zero.yaml")
	require.NoError(t, os.WriteFile(zero, []byte("scale: 0\n"), 0o644))
	_, err = Load(zero)
	assert.True(t, errors.Is(err, ErrBadScale))
}

func TestFontSizeFallback(t *testing.T) {
	s := &Settings{Font: "x"}
	assert.Equal(t, DefaultFontSize, s.FontSize())
}
