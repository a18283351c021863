package alert

import "github.com/DaxxTrias/ProximityAlert/world"

// Tracker is the side map from host entity handles to engine-owned alert state
// Not synchronized; the owner serializes access
type Tracker struct {
	states map[world.ID]*State
	sounds map[world.ID]*SoundStatus
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{
		states: make(map[world.ID]*State),
		sounds: make(map[world.ID]*SoundStatus),
	}
}

// State returns the alert state for id
func (t *Tracker) State(id world.ID) (*State, bool) {
	s, ok := t.states[id]
	return s, ok
}

// Attach stores s under its entity handle, replacing any previous state
func (t *Tracker) Attach(s *State) {
	t.states[s.id] = s
}

// Sound returns the path-rule sound status for id, creating it if asked
func (t *Tracker) Sound(id world.ID, create bool) *SoundStatus {
	s, ok := t.sounds[id]
	if !ok && create {
		s = &SoundStatus{}
		t.sounds[id] = s
	}
	return s
}

// Refresh updates every tracked state present in the snapshot and re-arms the absent ones
// Absence from the live set counts as an invalid observation
func (t *Tracker) Refresh(seq uint64, live []world.Entity, refresh func(*State, *world.Entity)) (rearmed int) {
	for i := range live {
		s, ok := t.states[live[i].ID]
		if !ok {
			continue
		}
		s.seen = seq
		refresh(s, &live[i])
	}
	for _, s := range t.states {
		if s.seen != seq && s.MarkInvalid() {
			rearmed++
		}
	}
	return rearmed
}

// Len returns the number of alert states
func (t *Tracker) Len() int {
	return len(t.states)
}

// Clear drops all per-entity state
func (t *Tracker) Clear() {
	clear(t.states)
	clear(t.sounds)
}
