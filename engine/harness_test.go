package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DaxxTrias/ProximityAlert/audio"
	"github.com/DaxxTrias/ProximityAlert/config"
	"github.com/DaxxTrias/ProximityAlert/render"
	"github.com/DaxxTrias/ProximityAlert/rule"
	"github.com/DaxxTrias/ProximityAlert/world"
)

// fakeHost is an in-memory Host; entity order is insertion order
type fakeHost struct {
	mu       sync.Mutex
	entities map[world.ID]world.Entity
	order    []world.ID
	player   world.Entity
	peaceful bool
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		entities: make(map[world.ID]world.Entity),
		player:   world.Entity{ID: 1000, Type: world.TypePlayer, Valid: true, Alive: true},
	}
}

func (h *fakeHost) put(e world.Entity) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.entities[e.ID]; !ok {
		h.order = append(h.order, e.ID)
	}
	h.entities[e.ID] = e
}

func (h *fakeHost) update(id world.ID, fn func(e *world.Entity)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e := h.entities[id]
	fn(&e)
	h.entities[id] = e
}

func (h *fakeHost) removeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	clear(h.entities)
	h.order = h.order[:0]
}

func (h *fakeHost) Entity(id world.ID) (world.Entity, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.entities[id]
	return e, ok
}

func (h *fakeHost) Monsters(dst []world.Entity) []world.Entity {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, id := range h.order {
		if e := h.entities[id]; e.Type == world.TypeMonster && e.Valid {
			dst = append(dst, e)
		}
	}
	return dst
}

func (h *fakeHost) Entities(dst []world.Entity) []world.Entity {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, id := range h.order {
		dst = append(dst, h.entities[id])
	}
	return dst
}

func (h *fakeHost) Player() world.Entity {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.player
}

func (h *fakeHost) WorldToScreen(p world.Vec3) world.Vec2 {
	return world.Vec2{X: p.X, Y: p.Y}
}

func (h *fakeHost) Window() world.Rect {
	return world.Rect{Width: 1000, Height: 800}
}

func (h *fakeHost) InPeacefulArea() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.peaceful
}

// countingPlayer records every played path
type countingPlayer struct {
	mu    sync.Mutex
	plays []string
}

func (p *countingPlayer) Preload(string) error { return nil }

func (p *countingPlayer) Play(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.plays = append(p.plays, path)
	return nil
}

func (p *countingPlayer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.plays)
}

type harness struct {
	host     *fakeHost
	rec      *render.Recorder
	player   *countingPlayer
	clock    *audio.ManualClock
	gate     *audio.Gate
	settings *config.Settings
	eng      *Engine
}

func newHarness(t *testing.T, mods, paths []string, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		host:     newFakeHost(),
		player:   &countingPlayer{},
		clock:    audio.NewManualClock(time.Unix(1_700_000_000, 0)),
		settings: config.Default(),
	}
	h.rec = render.NewRecorder(h.settings.ArrowImage)
	h.gate = audio.NewGate(h.player, "sounds", audio.WithClock(h.clock))

	rules := Rules{
		Mods:  rule.Load(rule.KindMod, mods, nil),
		Paths: rule.Load(rule.KindPath, paths, nil),
	}
	opts = append([]Option{WithLogger(zap.NewNop())}, opts...)
	eng, err := New(h.host, h.rec, h.gate, h.settings, rules, opts...)
	require.NoError(t, err)
	h.eng = eng
	return h
}

// cooldown moves the sound clock past the global quiet period
func (h *harness) cooldown() {
	h.clock.Advance(time.Second)
}

func (h *harness) render(t *testing.T) []render.Directive {
	t.Helper()
	f, err := h.eng.Render()
	require.NoError(t, err)
	return f.Directives(nil)
}

func kinds(ds []render.Directive) []render.Kind {
	out := make([]render.Kind, len(ds))
	for i := range ds {
		out[i] = ds[i].Kind
	}
	return out
}

func texts(ds []render.Directive) []string {
	var out []string
	for i := range ds {
		if ds[i].Kind == render.KindText {
			out = append(out, ds[i].Text)
		}
	}
	return out
}

func countKind(ds []render.Directive, k render.Kind) int {
	n := 0
	for i := range ds {
		if ds[i].Kind == k {
			n++
		}
	}
	return n
}

func rareMonster(id world.ID, x float64, mods ...string) world.Entity {
	return world.Entity{
		ID:      id,
		Type:    world.TypeMonster,
		Path:    "Metadata/Monsters/Goatman/GoatmanShaman",
		Rarity:  world.RarityRare,
		GridPos: world.Vec2{X: x},
		Valid:   true,
		Alive:   true,
		Hostile: true,
		HasMods: true,
		Mods:    mods,
	}
}

func chest(id world.ID, path string, x float64) world.Entity {
	return world.Entity{
		ID:       id,
		Type:     world.TypeChest,
		Path:     path,
		GridPos:  world.Vec2{X: x},
		Valid:    true,
		HasChest: true,
	}
}
