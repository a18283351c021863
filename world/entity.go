package world

// ID is the host's opaque entity handle
// Handles may be reused by the host after an entity is despawned
type ID uint64

// EntityType classifies host entities
type EntityType uint8

const (
	TypeUnknown EntityType = iota
	TypeMonster
	TypeChest
	TypeIngameIcon
	TypeMiscellaneous
	TypePlayer
)

// Rarity of a monster
type Rarity uint8

const (
	RarityWhite Rarity = iota
	RarityMagic
	RarityRare
	RarityUnique
)

// Entity is the per-tick view of a host entity
// Values are supplied by the host; the engine never owns entity memory
type Entity struct {
	ID       ID
	Type     EntityType
	Path     string
	Metadata string
	Rarity   Rarity

	GridPos Vec2 // Grid coordinates used for distance and bearing
	Pos     Vec3 // World coordinates used for screen projection

	Valid   bool
	Alive   bool
	Hostile bool

	// Component presence and data
	HasMods        bool     // Status-effect component present
	Mods           []string // Status-effect identifiers; may be nil with HasMods set
	HasChest       bool
	Opened         bool
	HasMinimapIcon bool
	MinimapHidden  bool
}

// String returns a log-friendly identifier
func (e *Entity) String() string {
	if e.Path == "" {
		return "entity"
	}
	return e.Path
}

// Countable reports whether the entity is a live, valid monster
func (e *Entity) Countable() bool {
	return e.Type == TypeMonster && e.Valid && e.Alive
}
