package alert

// SoundStatus is the one-shot sound latch of a path-rule match
// Fires the first time the entity matches while valid; re-arms when it is seen invalid
type SoundStatus struct {
	played bool
}

// Observe records the entity's validity for this frame
func (s *SoundStatus) Observe(valid bool) {
	if s.played && !valid {
		s.played = false
	}
}

// Trigger requests ref if not yet played and the entity is valid
func (s *SoundStatus) Trigger(ref string, valid bool, gate Requester) bool {
	if s.played || !valid {
		return false
	}
	s.played = true
	if gate == nil {
		return false
	}
	return gate.Request(ref)
}

// Played reports whether the sound already fired for the current valid span
func (s *SoundStatus) Played() bool {
	return s.played
}
