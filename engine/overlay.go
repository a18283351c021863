package engine

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/DaxxTrias/ProximityAlert/alert"
	"github.com/DaxxTrias/ProximityAlert/config"
	"github.com/DaxxTrias/ProximityAlert/core"
	"github.com/DaxxTrias/ProximityAlert/render"
	"github.com/DaxxTrias/ProximityAlert/rule"
	"github.com/DaxxTrias/ProximityAlert/world"
)

// Overlay layout constants in screen units
const (
	panelOffsetX    = 96
	panelBaseWidth  = 192
	panelLeftPad    = 15
	panelBottomPad  = 3
	markerFontSize  = 10
	markerWidthMul  = 0.73
	markerBoxHeight = 13
	markerLift      = 7
	tetherThickness = 4
)

// panel is the per-frame layout cursor of the alert list
type panel struct {
	origin world.Vec2
	height float64
	margin float64
	font   int
	lines  int
	shown  map[string]struct{}
	order  []string // Shown alert labels in insertion order
}

func (p *panel) reset(s *config.Settings, window world.Rect) {
	p.font = s.FontSize()
	p.height = float64(p.font) * s.Scale
	p.margin = p.height / s.Scale / 4
	p.origin = window.Center().Add(world.Vec2{X: s.ProximityX - panelOffsetX, Y: s.ProximityY})
	p.lines = 0
	clear(p.shown)
	p.order = p.order[:0]
}

// mark records label as shown, returning false if it already was
func (p *panel) mark(label string) bool {
	if _, ok := p.shown[label]; ok {
		return false
	}
	p.shown[label] = struct{}{}
	p.order = append(p.order, label)
	return true
}

func (p *panel) seen(label string) bool {
	_, ok := p.shown[label]
	return ok
}

// arrowRect is the indicator slot for the next label
func (p *panel) arrowRect() world.Rect {
	return world.Rect{
		X:      p.origin.X - p.margin - p.height/2,
		Y:      p.origin.Y - p.margin/2 - p.height - float64(p.lines)*p.height,
		Width:  p.height,
		Height: p.height,
	}
}

// Render builds the frame for the currently published snapshot
// The returned frame is reused by the next Render call
func (e *Engine) Render() (f *render.Frame, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	f = e.frame
	defer func() { err = e.settle("render", err, e.statRenderErrs) }()
	defer recoverPass("render", &err)

	start := time.Now()
	defer func() { e.statRenderTime.Store(int64(time.Since(start))) }()

	f.Reset()
	e.statRenders.Add(1)

	s := e.settings.Load()
	if e.gate != nil {
		e.gate.SetEnabled(s.PlaySounds)
	}
	if !s.Enable {
		e.statDirectives.Store(0)
		return f, nil
	}

	snap := e.snap.Acquire()
	defer e.snap.Release(snap)

	player := e.host.Player()
	rules := e.rules.Load()
	p := &e.panel
	p.reset(s, e.host.Window())

	if s.ShowPathAlerts {
		e.drawMarkers(f)
	}
	if s.ShowTetherLine {
		e.drawTether(f, s, snap.Items, &player)
	}

	err = multierr.Append(err, e.alertPass(f, p, snap.Items, &player))
	err = multierr.Append(err, e.entityPass(f, p, rules, &player))
	e.drawBorders(f, p)

	e.statDirectives.Store(int64(f.Len()))
	return f, err
}

// Present renders and flushes to s
// A surface missing the arrow image disables arrows for the rest of the session
func (e *Engine) Present(s render.Surface) error {
	f, err := e.Render()
	ferr := f.Flush(s)
	if errors.Is(ferr, render.ErrImageMissing) && e.arrows.CompareAndSwap(true, false) {
		e.log.Warn("arrow image missing on surface, direction arrows disabled", zap.Error(ferr))
	}
	return multierr.Append(err, ferr)
}

func (e *Engine) drawMarkers(f *render.Frame) {
	for _, sp := range e.paths {
		screen := e.host.WorldToScreen(sp.pos)
		width := e.measureText(sp.path, markerFontSize).X * markerWidthMul
		corner := world.Vec2{X: screen.X - width/2, Y: screen.Y - markerLift}
		f.Box(corner, corner.Add(world.Vec2{X: width, Y: markerBoxHeight}), core.RGBABackground)
		f.Text(sp.path, screen, core.RGBAWhite, render.AlignCenter)
	}
}

// drawTether links the player to a tracked boss while in range
// Iteration stops at the first out-of-range or excluded match
func (e *Engine) drawTether(f *render.Frame, s *config.Settings, monsters []world.Entity, player *world.Entity) {
	if s.TetherMetadata == "" {
		return
	}
	for i := range monsters {
		m := &monsters[i]
		if m.Metadata != s.TetherMetadata {
			continue
		}
		if strings.Contains(m.Path, "Throne") || strings.Contains(m.Path, "Apparation") {
			return
		}
		distance := m.GridPos.Sub(player.GridPos).Len()
		if distance > s.TetherMaxDistance {
			return
		}
		f.Line(e.host.WorldToScreen(player.Pos), e.host.WorldToScreen(m.Pos), tetherThickness, core.RGBATether)
		f.Text(strconv.FormatFloat(distance, 'f', 1, 64), world.Vec2{}, core.RGBAWhite, render.AlignLeft)
	}
}

// alertPass lists each distinct mod alert label of non-white monsters once
func (e *Engine) alertPass(f *render.Frame, p *panel, monsters []world.Entity, player *world.Entity) error {
	var errs error
	for i := range monsters {
		m := &monsters[i]
		if m.Rarity == world.RarityWhite || !m.Countable() {
			continue
		}
		s, ok := e.tracker.State(m.ID)
		if !ok || s.Text() == "" || p.seen(s.Text()) {
			continue
		}
		errs = multierr.Append(errs, guard(m, func() {
			p.mark(s.Text())
			e.emitLabel(f, p, s.Text(), s.Color(), bearing(m, player))
		}))
	}
	return errs
}

// entityPass classifies every interesting entity: alert label, then path rule, then delve chest
func (e *Engine) entityPass(f *render.Frame, p *panel, rules *Rules, player *world.Entity) error {
	e.entities = e.host.Entities(e.entities[:0])
	gate := e.requester()

	var errs error
	for i := range e.entities {
		ent := &e.entities[i]
		switch ent.Type {
		case world.TypeChest, world.TypeMonster, world.TypeIngameIcon, world.TypeMiscellaneous:
		default:
			continue
		}
		errs = multierr.Append(errs, guard(ent, func() {
			e.classify(f, p, rules.Paths, gate, ent, player)
		}))
	}
	return errs
}

func (e *Engine) classify(f *render.Frame, p *panel, paths *rule.Table, gate alert.Requester, ent, player *world.Entity) {
	if ent.HasChest && ent.Opened {
		return
	}
	if ent.Type == world.TypeMonster && !ent.Countable() {
		return
	}
	if ss := e.tracker.Sound(ent.ID, false); ss != nil {
		ss.Observe(ent.Valid)
	}
	if ent.Type == world.TypeIngameIcon && (!ent.Valid || !ent.HasMinimapIcon || ent.MinimapHidden) {
		return
	}

	delta := ent.GridPos.Sub(player.GridPos)
	distance, angle := delta.Polar()
	uv := render.Project(angle, distance)

	if s, ok := e.tracker.State(ent.ID); ok && s.Text() != "" && p.mark(s.Text()) {
		e.emitLabel(f, p, s.Text(), s.Color(), uv)
		return
	}

	path := prunePath(ent.Path)
	if w, ok := paths.MatchPath(path); ok && w.Triggered(distance, ent.Valid) {
		e.tracker.Sound(ent.ID, true).Trigger(w.SoundRef, ent.Valid, gate)
		e.emitLabel(f, p, w.Text, w.Color, uv)
		return
	}

	if ent.HasChest && strings.Contains(path, "Delve") {
		name := e.chestName(path)
		if delveHidden(name, distance) {
			return
		}
		e.emitLabel(f, p, name, delveColor(name), uv)
	}
}

// emitLabel stacks one boxed line per text line above the panel origin, plus one arrow
func (e *Engine) emitLabel(f *render.Frame, p *panel, text string, color core.RGBA, uv render.UV) {
	rect := p.arrowRect()
	lines := e.splitLines(text)
	for i, line := range lines {
		pos := world.Vec2{X: p.origin.X + p.height/2, Y: p.origin.Y - float64(p.lines+i+1)*p.height}
		size := e.measureText(line, p.font)
		f.Box(pos, pos.Add(world.Vec2{X: size.X, Y: p.height}), core.RGBABackground)
		f.Text(line, pos, color, render.AlignLeft)
	}
	if e.arrows.Load() {
		f.Image(e.settings.Load().ArrowImage, rect, uv, color)
	}
	p.lines += len(lines)
}

// drawBorders frames the alert list with a top and bottom rule
func (e *Engine) drawBorders(f *render.Frame, p *panel) {
	if p.lines == 0 {
		return
	}
	maxWidth := panelBaseWidth * (1 + p.height/100)
	for _, label := range p.order {
		for _, line := range e.splitLines(label) {
			maxWidth = max(maxWidth, e.measureText(line, p.font).X+p.height+4)
		}
	}

	left := p.origin.X - panelLeftPad
	right := p.origin.X + maxWidth
	top := p.origin.Y - p.margin - float64(p.lines)*p.height
	bottom := p.origin.Y + panelBottomPad
	f.Line(world.Vec2{X: left, Y: top}, world.Vec2{X: right, Y: top}, 1, core.RGBAWhite)
	f.Line(world.Vec2{X: left, Y: bottom}, world.Vec2{X: right, Y: bottom}, 1, core.RGBAWhite)
}

func bearing(ent, player *world.Entity) render.UV {
	distance, angle := ent.GridPos.Sub(player.GridPos).Polar()
	return render.Project(angle, distance)
}
