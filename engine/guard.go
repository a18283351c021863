package engine

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/DaxxTrias/ProximityAlert/world"
)

// guard runs fn for one entity, converting a panic into ErrEntityPanic
func guard(ent *world.Entity, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s (id %d): %v", ErrEntityPanic, ent.String(), ent.ID, r)
		}
	}()
	fn()
	return nil
}

// recoverPass converts a panic escaping a whole pass into ErrPassPanic
// Must be deferred directly
func recoverPass(phase string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: %s: %v", ErrPassPanic, phase, r)
	}
}

// settle logs a failed pass at the boundary, throttled to one line per second
func (e *Engine) settle(phase string, err error, counter *atomic.Int64) error {
	if err == nil {
		return nil
	}
	counter.Add(1)
	e.errLog.Do(func() {
		e.log.Error("pass failed",
			zap.String("phase", phase),
			zap.String("session", e.statSession.Load()),
			zap.Error(err),
		)
	})
	return err
}
