package render

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DaxxTrias/ProximityAlert/core"
	"github.com/DaxxTrias/ProximityAlert/world"
)

func fillMixed(f *Frame, image string) {
	f.Box(world.Vec2{X: 0, Y: 0}, world.Vec2{X: 10, Y: 10}, core.RGBABackground)
	f.Text("first", world.Vec2{X: 1, Y: 1}, core.RGBAWhite, AlignLeft)
	f.Image(image, world.Rect{X: 5, Y: 5, Width: 4, Height: 4}, Project(0, 0), core.RGBAWhite)
	f.Line(world.Vec2{}, world.Vec2{X: 50}, 1, core.RGBAWhite)
	f.Text("second", world.Vec2{X: 1, Y: 20}, core.RGBAWhite, AlignCenter)
}

// TestFrameOrder verifies lines precede images precede box and text pairs
func TestFrameOrder(t *testing.T) {
	f := NewFrame(4)
	fillMixed(f, "arrow")

	got := f.Directives(nil)
	require.Len(t, got, 5)
	kinds := make([]Kind, len(got))
	for i := range got {
		kinds[i] = got[i].Kind
	}
	assert.Equal(t, []Kind{KindLine, KindImage, KindBox, KindText, KindText}, kinds)
	assert.Equal(t, "first", got[3].Text)
	assert.Equal(t, "second", got[4].Text)
	assert.Equal(t, 1, f.LayerLen(LayerBorder))
	assert.Equal(t, 3, f.LayerLen(LayerText))
}

func TestFrameFlush(t *testing.T) {
	f := NewFrame(4)
	fillMixed(f, "arrow")

	rec := NewRecorder("arrow")
	require.NoError(t, f.Flush(rec))
	assert.Equal(t, f.Directives(nil), rec.Calls)

	var buf bytes.Buffer
	require.NoError(t, rec.Dump(&buf))
	assert.Contains(t, buf.String(), `text "first"`)
	assert.Contains(t, buf.String(), "image arrow col=8 row=0")
}

// TestFrameFlushMissingImage verifies other directives still draw
func TestFrameFlushMissingImage(t *testing.T) {
	f := NewFrame(4)
	fillMixed(f, "nope")

	rec := NewRecorder("arrow")
	err := f.Flush(rec)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrImageMissing))
	assert.Len(t, rec.Calls, 4)
}

func TestFrameReset(t *testing.T) {
	f := NewFrame(2)
	fillMixed(f, "arrow")
	assert.Equal(t, 5, f.Len())

	f.Reset()
	assert.Equal(t, 0, f.Len())
	assert.Empty(t, f.Directives(nil))

	f.Line(world.Vec2{}, world.Vec2{X: 1}, 1, core.RGBAWhite)
	assert.Equal(t, 1, f.Len())
}

func TestLayerAndKindNames(t *testing.T) {
	assert.Equal(t, "border", LayerBorder.String())
	assert.Equal(t, "text", LayerText.String())
	assert.Equal(t, "image", KindImage.String())
}
