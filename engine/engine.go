// Package engine classifies host entities against alert rules and produces per-frame draw directives
package engine

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/DaxxTrias/ProximityAlert/alert"
	"github.com/DaxxTrias/ProximityAlert/cache"
	"github.com/DaxxTrias/ProximityAlert/config"
	"github.com/DaxxTrias/ProximityAlert/event"
	"github.com/DaxxTrias/ProximityAlert/render"
	"github.com/DaxxTrias/ProximityAlert/rule"
	"github.com/DaxxTrias/ProximityAlert/snapshot"
	"github.com/DaxxTrias/ProximityAlert/status"
	"github.com/DaxxTrias/ProximityAlert/world"
)

var (
	ErrNilHost     = errors.New("engine: host is nil")
	ErrNilMeasurer = errors.New("engine: measurer is nil")
	ErrNilSettings = errors.New("engine: settings are nil")
	ErrEntityPanic = errors.New("engine: entity evaluation panicked")
	ErrPassPanic   = errors.New("engine: pass panicked")
	ErrRuleKind    = errors.New("engine: rule table has the wrong kind")
)

// snapshotCapacity is reserved per snapshot slot; hosts rarely track more monsters
const snapshotCapacity = 256

// SoundGate is the throttled sound collaborator
type SoundGate interface {
	alert.Requester
	SetEnabled(on bool)
	Reset()
}

// Rules pairs the two rule tables; either may be nil
type Rules struct {
	Mods  *rule.Table
	Paths *rule.Table
}

// check rejects tables loaded for the other matching strategy
func (r Rules) check() error {
	if r.Mods != nil && r.Mods.Kind() != rule.KindMod {
		return fmt.Errorf("%w: mods table is %s", ErrRuleKind, r.Mods.Kind())
	}
	if r.Paths != nil && r.Paths.Kind() != rule.KindPath {
		return fmt.Errorf("%w: paths table is %s", ErrRuleKind, r.Paths.Kind())
	}
	return nil
}

type measureKey struct {
	text string
	size int
}

type staticPath struct {
	path string
	pos  world.Vec3
}

// Engine is the per-session classification context
// Thread-Safety:
//   - EntityAdded: any goroutine
//   - Tick, Render, AreaChange, TrackPath, SetRules: serialized internally
//   - Render output is owned by the engine until the next Render
type Engine struct {
	host      Host
	measurer  render.Measurer
	gate      SoundGate
	settings  atomic.Pointer[config.Settings]
	rules     atomic.Pointer[Rules]
	alertOpts alert.Options

	log    *zap.Logger
	errLog rate.Sometimes

	queue *event.EntityQueue
	snap  *snapshot.Buffer[world.Entity]

	mu       sync.Mutex // Guards everything below
	tracker  *alert.Tracker
	paths    []staticPath
	ids      []world.ID
	entities []world.Entity
	frame    *render.Frame
	panel    panel
	arrows   atomic.Bool

	measure *cache.Bounded[measureKey, world.Vec2]
	split   *cache.Bounded[string, []string]
	names   *cache.Bounded[string, string]

	// Cached metric pointers
	reg            *status.Registry
	statTicks      *atomic.Int64
	statRenders    *atomic.Int64
	statTickErrors *atomic.Int64
	statRenderErrs *atomic.Int64
	statCreated    *atomic.Int64
	statRearmed    *atomic.Int64
	statDrained    *atomic.Int64
	statDropped    *atomic.Int64
	statSnapshot   *atomic.Int64
	statDirectives *atomic.Int64
	statSession    *status.Label
	statTickTime   *atomic.Int64
	statRenderTime *atomic.Int64
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithStatus publishes metrics into r instead of a private registry
func WithStatus(r *status.Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.reg = r
		}
	}
}

// WithAlertOptions overrides alert lifecycle behavior
func WithAlertOptions(o alert.Options) Option {
	return func(e *Engine) { e.alertOpts = o }
}

// New creates an engine for one host session
// gate may be nil to run without sound
func New(host Host, measurer render.Measurer, gate SoundGate, settings *config.Settings, rules Rules, opts ...Option) (*Engine, error) {
	switch {
	case host == nil:
		return nil, ErrNilHost
	case measurer == nil:
		return nil, ErrNilMeasurer
	case settings == nil:
		return nil, ErrNilSettings
	}
	if err := rules.check(); err != nil {
		return nil, err
	}

	e := &Engine{
		host:      host,
		measurer:  measurer,
		gate:      gate,
		alertOpts: alert.DefaultOptions(),
		log:       zap.NewNop(),
		errLog:    rate.Sometimes{Interval: time.Second},
		queue:     event.NewEntityQueue(),
		snap:      snapshot.NewBuffer[world.Entity](snapshotCapacity),
		tracker:   alert.NewTracker(),
		frame:     render.NewFrame(32),
		measure:   cache.New[measureKey, world.Vec2](settings.Cache.MeasureCapacity),
		split:     cache.New[string, []string](settings.Cache.SplitCapacity),
		names:     cache.New[string, string](settings.Cache.NameCapacity),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.reg == nil {
		e.reg = status.NewRegistry()
	}
	e.wireStatus()

	e.settings.Store(settings)
	e.rules.Store(&rules)
	e.panel.shown = make(map[string]struct{})

	e.arrows.Store(true)
	if s, ok := measurer.(interface{ HasImage(string) bool }); ok && !s.HasImage(settings.ArrowImage) {
		e.arrows.Store(false)
		e.log.Warn("arrow image unavailable, direction arrows disabled", zap.String("image", settings.ArrowImage))
	}

	e.newSession()
	return e, nil
}

func (e *Engine) wireStatus() {
	r := e.reg
	e.statTicks = r.Counter("engine.ticks")
	e.statRenders = r.Counter("engine.renders")
	e.statTickErrors = r.Counter("engine.tick_errors")
	e.statRenderErrs = r.Counter("engine.render_errors")
	e.statCreated = r.Counter("alert.created")
	e.statRearmed = r.Counter("alert.rearmed")
	e.statDrained = r.Counter("queue.drained")
	e.statDropped = r.Counter("queue.dropped")
	e.statSnapshot = r.Counter("snapshot.size")
	e.statDirectives = r.Counter("frame.directives")
	e.statSession = r.Label("area.session")
	e.statTickTime = r.Duration("engine.tick_time")
	e.statRenderTime = r.Duration("engine.render_time")

	for name, c := range map[string]interface{ SetStats(cache.Stats) }{
		"measure": e.measure,
		"split":   e.split,
		"name":    e.names,
	} {
		c.SetStats(cache.Stats{
			Hits:      r.Counter("cache." + name + ".hits"),
			Misses:    r.Counter("cache." + name + ".misses"),
			Evictions: r.Counter("cache." + name + ".evictions"),
		})
	}
}

// EntityAdded queues a newly appeared entity for mod evaluation on the next tick
// Non-monsters and everything while disabled are ignored
func (e *Engine) EntityAdded(ent world.Entity) {
	if !e.settings.Load().Enable || ent.Type != world.TypeMonster {
		return
	}
	e.queue.Push(ent.ID)
}

// AreaChange drops all per-entity state, pending ingestion, static paths and caches
func (e *Engine) AreaChange() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.queue.Reset()
	e.tracker.Clear()
	clear(e.paths)
	e.paths = e.paths[:0]
	e.snap.Reset()
	e.measure.Clear()
	e.split.Clear()
	e.names.Clear()

	e.newSession()
}

func (e *Engine) newSession() {
	id := uuid.NewString()
	e.statSession.Store(id)
	e.log.Info("area session started", zap.String("session", id))
}

// Session returns the current area session id
func (e *Engine) Session() string {
	return e.statSession.Load()
}

// TrackPath registers a static labelled world position until the next area change
func (e *Engine) TrackPath(path string, pos world.Vec3) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paths = append(e.paths, staticPath{path: path, pos: pos})
}

// SetRules swaps both rule tables wholesale
// Existing alert state refers to the old warnings and is dropped; the sound cooldown restarts
// Tables of the wrong kind are rejected and the current rules stay active
func (e *Engine) SetRules(mods, paths *rule.Table) error {
	rules := &Rules{Mods: mods, Paths: paths}
	if err := rules.check(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.rules.Store(rules)
	e.tracker.Clear()
	e.names.Clear()
	if e.gate != nil {
		e.gate.Reset()
	}
	e.log.Info("rules replaced", zap.Int("mods", mods.Len()), zap.Int("paths", paths.Len()))
	return nil
}

// SetSettings replaces host settings; sound enablement follows on the next render
// Invalid settings are rejected and the previous ones stay active
func (e *Engine) SetSettings(s *config.Settings) error {
	if s == nil {
		return ErrNilSettings
	}
	if err := s.Validate(); err != nil {
		return err
	}
	e.settings.Store(s)
	return nil
}

// Settings returns the active settings
func (e *Engine) Settings() *config.Settings {
	return e.settings.Load()
}

// Status returns the metrics registry
func (e *Engine) Status() *status.Registry {
	return e.reg
}

// Tracked returns the number of entities carrying alert state
func (e *Engine) Tracked() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.Len()
}

// ArrowsEnabled reports whether direction arrows are still drawn this session
func (e *Engine) ArrowsEnabled() bool {
	return e.arrows.Load()
}

func (e *Engine) measureText(text string, size int) world.Vec2 {
	return e.measure.GetOrCompute(measureKey{text: text, size: size}, func(k measureKey) world.Vec2 {
		return e.measurer.MeasureText(k.text, k.size)
	})
}

func (e *Engine) splitLines(text string) []string {
	return e.split.GetOrCompute(text, func(s string) []string {
		return strings.Split(s, "\n")
	})
}
