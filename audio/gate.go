package audio

import (
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/DaxxTrias/ProximityAlert/status"
)

// MinInterval is the global quiet period between two sounds
const MinInterval = 250 * time.Millisecond

// ErrSoundMissing is returned by players for sounds that cannot be loaded
var ErrSoundMissing = errors.New("audio: sound missing")

// Player is the external audio collaborator
// Both calls are fire-and-forget from the gate's perspective
type Player interface {
	Preload(path string) error
	Play(path string) error
}

// Gate throttles sound requests process-wide
// At most one sound is issued per MinInterval regardless of caller
type Gate struct {
	player   Player
	clock    Clock
	dir      string
	interval time.Duration
	log      *zap.Logger

	enabled atomic.Bool

	mu         sync.Mutex // Protects lastPlayed, missing
	lastPlayed time.Time
	missing    map[string]struct{}

	statRequested *atomic.Int64
	statPlayed    *atomic.Int64
	statThrottled *atomic.Int64
	statMissing   *atomic.Int64
}

// GateOption configures a Gate
type GateOption func(*Gate)

// WithClock replaces the system clock
func WithClock(c Clock) GateOption {
	return func(g *Gate) {
		if c != nil {
			g.clock = c
		}
	}
}

// WithInterval overrides MinInterval
func WithInterval(d time.Duration) GateOption {
	return func(g *Gate) { g.interval = d }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) GateOption {
	return func(g *Gate) {
		if l != nil {
			g.log = l
		}
	}
}

// WithStatus wires counters from the registry
func WithStatus(r *status.Registry) GateOption {
	return func(g *Gate) {
		if r == nil {
			return
		}
		g.statRequested = r.Counter("sound.requested")
		g.statPlayed = r.Counter("sound.played")
		g.statThrottled = r.Counter("sound.throttled")
		g.statMissing = r.Counter("sound.missing")
	}
}

// NewGate creates an enabled gate resolving sound references under dir
// A nil player yields a gate that never plays
func NewGate(player Player, dir string, opts ...GateOption) *Gate {
	g := &Gate{
		player:        player,
		clock:         SystemClock{},
		dir:           dir,
		interval:      MinInterval,
		log:           zap.NewNop(),
		missing:       make(map[string]struct{}),
		statRequested: new(atomic.Int64),
		statPlayed:    new(atomic.Int64),
		statThrottled: new(atomic.Int64),
		statMissing:   new(atomic.Int64),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.enabled.Store(true)
	return g
}

// SetEnabled toggles playback globally
func (g *Gate) SetEnabled(on bool) {
	g.enabled.Store(on)
}

// Enabled reports whether playback is on
func (g *Gate) Enabled() bool {
	return g.enabled.Load()
}

// Request issues a preload+play for ref unless throttled
// Returns true if the player was called
func (g *Gate) Request(ref string) bool {
	if ref == "" || g.player == nil || !g.enabled.Load() {
		return false
	}
	g.statRequested.Add(1)

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, gone := g.missing[ref]; gone {
		return false
	}

	now := g.clock.Now()
	if !g.lastPlayed.IsZero() && now.Sub(g.lastPlayed) <= g.interval {
		g.statThrottled.Add(1)
		return false
	}
	g.lastPlayed = now

	path := g.resolve(ref)
	if err := g.player.Preload(path); err != nil {
		g.missing[ref] = struct{}{}
		g.statMissing.Add(1)
		g.log.Warn("sound disabled for session", zap.String("sound", ref), zap.Error(err))
		return false
	}
	if err := g.player.Play(path); err != nil {
		g.log.Debug("sound playback failed", zap.String("sound", ref), zap.Error(err))
		return false
	}

	g.statPlayed.Add(1)
	return true
}

// Reset forgets the cooldown and missing sounds
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastPlayed = time.Time{}
	clear(g.missing)
}

func (g *Gate) resolve(ref string) string {
	if g.dir == "" || filepath.IsAbs(ref) {
		return filepath.ToSlash(ref)
	}
	return filepath.ToSlash(filepath.Join(g.dir, ref))
}
