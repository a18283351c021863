package alert

import (
	"strings"

	"github.com/DaxxTrias/ProximityAlert/core"
	"github.com/DaxxTrias/ProximityAlert/rule"
	"github.com/DaxxTrias/ProximityAlert/world"
)

// Requester asks for a sound to be played, subject to throttling
type Requester interface {
	Request(ref string) bool
}

// Options tune alert lifecycle behavior
type Options struct {
	// LatchStaleText keeps the last display text after all matching mods disappear
	// Cleared only when superseded or the entity is dropped at area change
	LatchStaleText bool
}

// DefaultOptions keeps the stale-text latch on
func DefaultOptions() Options {
	return Options{LatchStaleText: true}
}

// State is the mod-triggered alert attached to one entity handle
// Owned and mutated only by the classification pass
type State struct {
	id       world.ID
	warnings []*rule.Warning
	text     string
	color    core.RGBA
	scratch  []*rule.Warning
	armed    bool   // Sound may fire on the next valid observation
	seen     uint64 // Last snapshot sequence the entity was observed in
	opts     Options
}

// Evaluate creates a State when e qualifies and its mods intersect the table
// Requests the first matching warning's sound once; the new state starts disarmed
func Evaluate(e *world.Entity, mods *rule.Table, gate Requester, opts Options) (*State, bool) {
	if !e.Hostile || !e.Valid || !e.Alive || !e.HasMods || len(e.Mods) == 0 {
		return nil, false
	}

	matched := mods.MatchMods(nil, e.Mods)
	if len(matched) == 0 {
		return nil, false
	}

	s := &State{
		id:       e.ID,
		warnings: matched,
		text:     joinText(matched),
		color:    matched[0].Color,
		opts:     opts,
	}
	if gate != nil {
		gate.Request(matched[0].SoundRef)
	}
	return s, true
}

// Update refreshes the state from the entity's current view
// Returns true if the sound was requested
func (s *State) Update(e *world.Entity, mods *rule.Table, gate Requester) bool {
	if !e.Valid {
		s.MarkInvalid()
		return false
	}
	if !e.HasMods || !e.Alive || len(e.Mods) == 0 {
		return false
	}

	s.scratch = mods.MatchMods(s.scratch[:0], e.Mods)
	if len(s.scratch) == 0 {
		if !s.opts.LatchStaleText {
			s.warnings = s.warnings[:0]
			s.text = ""
		}
		return false
	}

	if !sameWarnings(s.warnings, s.scratch) {
		s.warnings = append(s.warnings[:0], s.scratch...)
		s.text = joinText(s.warnings)
		s.color = s.warnings[0].Color
	}

	if !s.armed {
		return false
	}
	s.armed = false
	if gate == nil {
		return false
	}
	return gate.Request(s.warnings[0].SoundRef)
}

// MarkInvalid re-arms the one-shot sound; display text stays as is
// Returns true on the disarmed to armed transition
func (s *State) MarkInvalid() bool {
	if s.armed {
		return false
	}
	s.armed = true
	return true
}

// ID returns the entity handle
func (s *State) ID() world.ID {
	return s.id
}

// Text returns the newline-joined warning texts
func (s *State) Text() string {
	return s.text
}

// Color returns the first matching warning's color
func (s *State) Color() core.RGBA {
	return s.color
}

// Warnings returns the active warnings in match order
func (s *State) Warnings() []*rule.Warning {
	return s.warnings
}

// Armed reports whether the next valid observation will request a sound
func (s *State) Armed() bool {
	return s.armed
}

func joinText(ws []*rule.Warning) string {
	if len(ws) == 1 {
		return ws[0].Text
	}
	var sb strings.Builder
	for i, w := range ws {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(w.Text)
	}
	return sb.String()
}

func sameWarnings(a, b []*rule.Warning) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
