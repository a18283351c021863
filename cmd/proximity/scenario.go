package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/DaxxTrias/ProximityAlert/world"
)

// gridUnit is the world distance covered by one grid step
const gridUnit = 10.8

var (
	ErrDuplicateID = errors.New("scenario: duplicate entity id")
	ErrUnknownType = errors.New("scenario: unknown entity type")
	ErrBadRarity   = errors.New("scenario: unknown rarity")
)

// Scenario is a scripted area replayed by the simulated host
type Scenario struct {
	Name      string       `yaml:"name"`
	Peaceful  bool         `yaml:"peaceful"`
	Zoom      float64      `yaml:"zoom"`
	Player    [2]float64   `yaml:"player"`
	ModRules  []string     `yaml:"mod_rules"`
	PathRules []string     `yaml:"path_rules"`
	Markers   []MarkerSpec `yaml:"markers"`
	Entities  []EntitySpec `yaml:"entities"`
}

// MarkerSpec is a static labelled position
type MarkerSpec struct {
	Path string     `yaml:"path"`
	Grid [2]float64 `yaml:"grid"`
}

// EntitySpec describes one simulated entity and its scripted motion
type EntitySpec struct {
	ID       uint64        `yaml:"id"`
	Type     string        `yaml:"type"`
	Path     string        `yaml:"path"`
	Metadata string        `yaml:"metadata"`
	Rarity   string        `yaml:"rarity"`
	Grid     [2]float64    `yaml:"grid"`
	Velocity [2]float64    `yaml:"velocity"` // Grid units per second
	Hostile  bool          `yaml:"hostile"`
	Dead     bool          `yaml:"dead"`
	Mods     []string      `yaml:"mods"`
	Chest    bool          `yaml:"chest"`
	Opened   bool          `yaml:"opened"`
	Icon     bool          `yaml:"icon"`
	Hidden   bool          `yaml:"hidden"`
	Blink    time.Duration `yaml:"blink"` // Validity toggles at this period; 0 = always valid
}

var entityTypes = map[string]world.EntityType{
	"monster": world.TypeMonster,
	"chest":   world.TypeChest,
	"icon":    world.TypeIngameIcon,
	"misc":    world.TypeMiscellaneous,
}

var rarities = map[string]world.Rarity{
	"":       world.RarityWhite,
	"white":  world.RarityWhite,
	"normal": world.RarityWhite,
	"magic":  world.RarityMagic,
	"rare":   world.RarityRare,
	"unique": world.RarityUnique,
}

// LoadScenario reads and validates a YAML scenario file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates scenario YAML
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if sc.Zoom <= 0 {
		sc.Zoom = 1
	}

	seen := make(map[uint64]struct{}, len(sc.Entities))
	for i := range sc.Entities {
		e := &sc.Entities[i]
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, e.ID)
		}
		seen[e.ID] = struct{}{}
		if _, ok := entityTypes[strings.ToLower(e.Type)]; !ok {
			return nil, fmt.Errorf("%w: %q (id %d)", ErrUnknownType, e.Type, e.ID)
		}
		if _, ok := rarities[strings.ToLower(e.Rarity)]; !ok {
			return nil, fmt.Errorf("%w: %q (id %d)", ErrBadRarity, e.Rarity, e.ID)
		}
	}
	return &sc, nil
}

// simEntity is a live entity plus its motion script
type simEntity struct {
	world.Entity
	velocity world.Vec2
	blink    time.Duration
}

// SimHost plays a Scenario as an engine.Host
type SimHost struct {
	mu       sync.Mutex
	sc       *Scenario
	entities []simEntity
	index    map[world.ID]int
	player   world.Entity
	elapsed  time.Duration
	window   func() world.Rect
}

// NewSimHost spawns every scenario entity; window supplies the screen size in pixels
func NewSimHost(sc *Scenario, window func() world.Rect) *SimHost {
	h := &SimHost{
		sc:     sc,
		index:  make(map[world.ID]int, len(sc.Entities)),
		window: window,
		player: world.Entity{
			ID:      0,
			Type:    world.TypePlayer,
			Path:    "Metadata/Characters/Player",
			GridPos: world.Vec2{X: sc.Player[0], Y: sc.Player[1]},
			Valid:   true,
			Alive:   true,
		},
	}
	h.player.Pos = gridToWorld(h.player.GridPos)

	h.spawnAll()
	return h
}

func (h *SimHost) spawnAll() {
	clear(h.index)
	h.entities = h.entities[:0]
	for _, spec := range h.sc.Entities {
		h.index[world.ID(spec.ID)] = len(h.entities)
		h.entities = append(h.entities, spawn(spec))
	}
	h.elapsed = 0
}

// Reset respawns the scenario from its initial state
func (h *SimHost) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.spawnAll()
}

func spawn(spec EntitySpec) simEntity {
	grid := world.Vec2{X: spec.Grid[0], Y: spec.Grid[1]}
	typ := entityTypes[strings.ToLower(spec.Type)]
	return simEntity{
		Entity: world.Entity{
			ID:             world.ID(spec.ID),
			Type:           typ,
			Path:           spec.Path,
			Metadata:       spec.Metadata,
			Rarity:         rarities[strings.ToLower(spec.Rarity)],
			GridPos:        grid,
			Pos:            gridToWorld(grid),
			Valid:          true,
			Alive:          !spec.Dead,
			Hostile:        spec.Hostile,
			HasMods:        len(spec.Mods) > 0,
			Mods:           spec.Mods,
			HasChest:       spec.Chest || typ == world.TypeChest,
			Opened:         spec.Opened,
			HasMinimapIcon: spec.Icon || typ == world.TypeIngameIcon,
			MinimapHidden:  spec.Hidden,
		},
		velocity: world.Vec2{X: spec.Velocity[0], Y: spec.Velocity[1]},
		blink:    spec.Blink,
	}
}

func gridToWorld(g world.Vec2) world.Vec3 {
	return world.Vec3{X: g.X * gridUnit, Y: g.Y * gridUnit}
}

// Spawned returns a copy of every entity, for feeding EntityAdded at area start
func (h *SimHost) Spawned() []world.Entity {
	return h.Entities(nil)
}

// Step advances motion and validity blinking by dt
func (h *SimHost) Step(dt time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.elapsed += dt
	sec := dt.Seconds()
	for i := range h.entities {
		e := &h.entities[i]
		if e.velocity != (world.Vec2{}) && e.Alive {
			e.GridPos = e.GridPos.Add(world.Vec2{X: e.velocity.X * sec, Y: e.velocity.Y * sec})
			e.Pos = gridToWorld(e.GridPos)
		}
		if e.blink > 0 {
			e.Valid = (h.elapsed/e.blink)%2 == 0
		}
	}
}

// Elapsed returns simulated time since the scenario started
func (h *SimHost) Elapsed() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.elapsed
}

func (h *SimHost) Entity(id world.ID) (world.Entity, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	i, ok := h.index[id]
	if !ok {
		return world.Entity{}, false
	}
	return h.entities[i].Entity, true
}

func (h *SimHost) Monsters(dst []world.Entity) []world.Entity {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.entities {
		if e := &h.entities[i]; e.Type == world.TypeMonster && e.Valid {
			dst = append(dst, e.Entity)
		}
	}
	return dst
}

func (h *SimHost) Entities(dst []world.Entity) []world.Entity {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.entities {
		dst = append(dst, h.entities[i].Entity)
	}
	return dst
}

func (h *SimHost) Player() world.Entity {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.player
}

// WorldToScreen centers the camera on the player
func (h *SimHost) WorldToScreen(pos world.Vec3) world.Vec2 {
	c := h.Window().Center()
	h.mu.Lock()
	p := h.player.Pos
	h.mu.Unlock()
	z := h.sc.Zoom
	return world.Vec2{
		X: math.Round(c.X + (pos.X-p.X)*z),
		Y: math.Round(c.Y + (pos.Y-p.Y)*z),
	}
}

func (h *SimHost) Window() world.Rect {
	return h.window()
}

func (h *SimHost) InPeacefulArea() bool {
	return h.sc.Peaceful
}

// MarkerPos converts a marker's grid position to world space
func MarkerPos(m MarkerSpec) world.Vec3 {
	return gridToWorld(world.Vec2{X: m.Grid[0], Y: m.Grid[1]})
}
