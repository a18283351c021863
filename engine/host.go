package engine

import "github.com/DaxxTrias/ProximityAlert/world"

// Host is the game-side collaborator that owns entities and the camera
// Accessors append into dst so the engine can reuse storage across ticks
type Host interface {
	// Entity resolves a handle delivered through EntityAdded
	Entity(id world.ID) (world.Entity, bool)
	// Monsters appends the valid monsters of the current area
	Monsters(dst []world.Entity) []world.Entity
	// Entities appends chests, monsters, icons and miscellaneous objects
	Entities(dst []world.Entity) []world.Entity
	Player() world.Entity
	WorldToScreen(pos world.Vec3) world.Vec2
	Window() world.Rect
	// InPeacefulArea reports a town or hideout where mod alerts are suppressed
	InPeacefulArea() bool
}
