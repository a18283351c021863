package engine

import (
	"time"

	"go.uber.org/multierr"

	"github.com/DaxxTrias/ProximityAlert/alert"
	"github.com/DaxxTrias/ProximityAlert/world"
)

// Tick ingests queued entities, republishes the monster snapshot and refreshes alert state
// Per-entity failures never abort the tick; they are logged and returned together
func (e *Engine) Tick() (err error) {
	defer func() { err = e.settle("tick", err, e.statTickErrors) }()
	defer recoverPass("tick", &err)

	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	defer func() { e.statTickTime.Store(int64(time.Since(start))) }()

	e.statTicks.Add(1)
	rules := e.rules.Load()
	gate := e.requester()

	err = e.drain(rules, gate)

	snap := e.snap.Refill(e.host.Monsters)
	e.statSnapshot.Store(int64(snap.Len()))

	rearmed := e.tracker.Refresh(snap.Seq, snap.Items, func(s *alert.State, ent *world.Entity) {
		err = multierr.Append(err, guard(ent, func() {
			s.Update(ent, rules.Mods, gate)
		}))
	})
	e.statRearmed.Add(int64(rearmed))
	return err
}

// drain evaluates newly appeared entities against mod rules
func (e *Engine) drain(rules *Rules, gate alert.Requester) error {
	e.ids = e.queue.DrainInto(e.ids[:0])
	e.statDrained.Add(int64(len(e.ids)))
	e.statDropped.Store(e.queue.Dropped())

	if len(e.ids) == 0 || !e.settings.Load().ShowModAlerts || e.host.InPeacefulArea() {
		return nil
	}

	var errs error
	for _, id := range e.ids {
		ent, ok := e.host.Entity(id)
		if !ok {
			// Despawned between EntityAdded and this tick
			continue
		}
		errs = multierr.Append(errs, guard(&ent, func() {
			if s, ok := alert.Evaluate(&ent, rules.Mods, gate, e.alertOpts); ok {
				e.tracker.Attach(s)
				e.statCreated.Add(1)
			}
		}))
	}
	return errs
}

// requester adapts a possibly nil gate; a nil interface keeps alert code branch-free
func (e *Engine) requester() alert.Requester {
	if e.gate == nil {
		return nil
	}
	return e.gate
}
