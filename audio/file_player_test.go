package audio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeSilence encodes a short silent WAV file
func writeSilence(t *testing.T, path string, sr beep.SampleRate) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	format := beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2}
	require.NoError(t, wav.Encode(f, beep.Silence(sr.N(50*time.Millisecond)), format))
}

// TestFilePlayerPreload decodes files once and reports missing ones
func TestFilePlayerPreload(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "alert.wav")
	writeSilence(t, good, sampleRate)

	resampled := filepath.Join(dir, "low.wav")
	writeSilence(t, resampled, beep.SampleRate(22050))

	p := NewFilePlayer(0.5, nil)
	require.NoError(t, p.Preload(good))
	require.NoError(t, p.Preload(good))
	require.NoError(t, p.Preload(resampled))
	assert.Len(t, p.buffers, 2)

	err := p.Preload(filepath.Join(dir, "missing.wav"))
	assert.ErrorIs(t, err, ErrSoundMissing)

	junk := filepath.Join(dir, "junk.wav")
	require.NoError(t, os.WriteFile(junk, []byte("not a wav"), 0o644))
	assert.ErrorIs(t, p.Preload(junk), ErrSoundMissing)
}

// TestFilePlayerSilentWithoutInit verifies playback degrades gracefully
func TestFilePlayerSilentWithoutInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "alert.wav")
	writeSilence(t, path, sampleRate)

	p := NewFilePlayer(2, nil)
	assert.True(t, p.Silent())
	assert.Equal(t, 1.0, p.volume, "volume clamps to 1")

	assert.ErrorIs(t, p.Play(path), ErrSoundMissing, "play requires preload")
	require.NoError(t, p.Preload(path))
	assert.NoError(t, p.Play(path))

	p.SetVolume(-1)
	assert.Equal(t, 0.0, p.volume)
	p.Close()
}
