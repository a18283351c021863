package rule

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DaxxTrias/ProximityAlert/core"
)

// TestParseRecord covers field parsing and documented defaults
func TestParseRecord(t *testing.T) {
	key, w, ok, err := ParseRecord("  Metadata/Chests/Strongbox ; Strongbox ; #ff00ff ; 80 ; box.wav ")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Metadata/Chests/Strongbox", key)
	assert.Equal(t, "Strongbox", w.Text)
	assert.Equal(t, core.RGBA{R: 255, G: 0, B: 255, A: 255}, w.Color)
	assert.Equal(t, 80, w.TriggerDistance)
	assert.Equal(t, "box.wav", w.SoundRef)

	_, w, ok, err = ParseRecord("key;text;notacolor;far;")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, core.RGBAWhite, w.Color)
	assert.Equal(t, DistanceAlways, w.TriggerDistance)
	assert.Empty(t, w.SoundRef)

	// Sound field keeps trailing separators
	_, w, _, err = ParseRecord("k;t;ffffff;-2;a;b")
	require.NoError(t, err)
	assert.Equal(t, "a;b", w.SoundRef)
	assert.Equal(t, DistanceWhileValid, w.TriggerDistance)
}

// TestParseRecordRejects verifies skip conditions
func TestParseRecordRejects(t *testing.T) {
	tests := []struct {
		line string
		err  error
	}{
		{"", nil},
		{"   ", nil},
		{"# comment;a;b;c;d", nil},
		{"no separators here", ErrTooFewFields},
		{"a;b;c;d", ErrTooFewFields},
		{" ;b;c;d;e", ErrEmptyKey},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, w, ok, err := ParseRecord(tt.line)
			assert.False(t, ok)
			assert.Nil(t, w)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

// TestLoadSkipsMalformed verifies loading fails soft
func TestLoadSkipsMalformed(t *testing.T) {
	lines := []string{
		"# header",
		"",
		"MonsterAura;Aura;ff0000;-1;aura.wav",
		"broken;record",
		"MonsterAura;Duplicate;00ff00;-1;",
		"Proximal;Proximal Tangibility;ffa500;-1;prox.wav",
	}

	tbl := Load(KindMod, lines, zap.NewNop())
	assert.Equal(t, 2, tbl.Len())

	w, ok := tbl.Lookup("monsteraura")
	require.True(t, ok)
	assert.Equal(t, "Aura", w.Text, "first record wins on duplicate keys")
}

// TestModLookupCaseInsensitive verifies exact match ignores case
func TestModLookupCaseInsensitive(t *testing.T) {
	tbl := Load(KindMod, []string{"MonsterNemesisProximalTangibility;Prox;ffffff;-1;"}, nil)

	_, ok := tbl.Lookup("MONSTERNEMESISPROXIMALTANGIBILITY")
	assert.True(t, ok)
	_, ok = tbl.Lookup("MonsterNemesis")
	assert.False(t, ok, "mod lookup is exact, not substring")

	got := tbl.MatchMods(nil, []string{"Other", "monsternemesisproximaltangibility", "Another"})
	require.Len(t, got, 1)
	assert.Equal(t, "Prox", got[0].Text)
}

// TestPathFirstMatchWins verifies load-order sensitivity of substring rules
func TestPathFirstMatchWins(t *testing.T) {
	tbl := Load(KindPath, []string{
		"Chest;A;ffffff;-1;",
		"ChestRare;B;ffffff;-1;",
	}, nil)

	w, ok := tbl.MatchPath("Metadata/Chests/ChestRareLoot")
	require.True(t, ok)
	assert.Equal(t, "A", w.Text)

	// Reverse order flips the winner
	tbl = Load(KindPath, []string{
		"ChestRare;B;ffffff;-1;",
		"Chest;A;ffffff;-1;",
	}, nil)
	w, ok = tbl.MatchPath("Metadata/Chests/ChestRareLoot")
	require.True(t, ok)
	assert.Equal(t, "B", w.Text)

	w, ok = tbl.MatchPath("metadata/CHESTS/chestplain")
	require.True(t, ok)
	assert.Equal(t, "A", w.Text, "substring match ignores case")

	_, ok = tbl.MatchPath("Metadata/Monsters/Zombie")
	assert.False(t, ok)
}

// TestTriggered covers distance-trigger semantics
func TestTriggered(t *testing.T) {
	tests := []struct {
		name     string
		trigger  int
		distance float64
		valid    bool
		want     bool
	}{
		{"always far", DistanceAlways, 1e6, false, true},
		{"while valid", DistanceWhileValid, 1e6, true, true},
		{"while valid invalid", DistanceWhileValid, 0, false, false},
		{"inside", 50, 49.9, false, true},
		{"boundary", 50, 50, true, false},
		{"outside", 50, 51, true, false},
		{"zero never", 0, 0, true, false},
		{"other negative never", -5, 0, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Warning{TriggerDistance: tt.trigger}
			assert.Equal(t, tt.want, w.Triggered(tt.distance, tt.valid))
		})
	}
}

// TestLoadFile reads records from disk and surfaces missing files
func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "PathAlerts.txt")
	content := strings.Join([]string{
		"# path alerts",
		"Metadata/Chests/StrongBoxes;Strongbox;ffffff;-1;",
		"Metadata/Shrines;Shrine;#00ffff;120;shrine.wav",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	tbl, err := LoadFile(KindPath, path, nil)
	require.NoError(t, err)
	assert.Equal(t, KindPath, tbl.Kind())
	assert.Equal(t, 2, tbl.Len())

	var keys []string
	tbl.Range(func(k string, _ *Warning) bool {
		keys = append(keys, k)
		return true
	})
	assert.Equal(t, []string{"metadata/chests/strongboxes", "metadata/shrines"}, keys)

	_, err = LoadFile(KindPath, filepath.Join(dir, "missing.txt"), nil)
	assert.Error(t, err)
}

// TestNilTable verifies lookups on an unloaded table are safe
func TestNilTable(t *testing.T) {
	var tbl *Table
	assert.Equal(t, 0, tbl.Len())
	_, ok := tbl.Lookup("x")
	assert.False(t, ok)
	_, ok = tbl.MatchPath("x")
	assert.False(t, ok)
	assert.Empty(t, tbl.MatchMods(nil, []string{"x"}))
}
