package presence

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"blogauto/internal/clock"
	"blogauto/internal/domain"
	"blogauto/internal/logging"
	"blogauto/internal/surface"
)

// Simulator owns the presence entries, rendered state and timers of one surface.
// A nil *Simulator is valid; every method is a no-op on it.
type Simulator struct {
	surface  Surface
	cfg      Config
	clock    clock.Clock
	rand     RandomSource
	renderer Renderer
	hooks    Hooks
	logger   *slog.Logger

	mu         sync.Mutex
	closed     bool
	selfColor  domain.HSLColor
	entries    map[string]domain.Indicator
	session    domain.EditorSessionState
	unlisten   []func()
	tick       clock.Timer
	timerSeq   uint64
	timers     map[uint64]clock.Timer
	expiry     map[string]uint64
	badge      *domain.StatusBadge
	badgeSeq   uint64
	badgeTimer uint64
}

// Option customises a Simulator
type Option func(*Simulator)

// WithClock sets the clock used for timestamps and timers
func WithClock(c clock.Clock) Option {
	return func(s *Simulator) { s.clock = c }
}

// WithRandom sets the random source used for simulated collaborators and colours
func WithRandom(r RandomSource) Option {
	return func(s *Simulator) { s.rand = r }
}

// WithRenderer sets where visual changes are drawn
func WithRenderer(r Renderer) Option {
	return func(s *Simulator) { s.renderer = r }
}

// WithHooks sets the content and cursor notification hooks
func WithHooks(h Hooks) Option {
	return func(s *Simulator) { s.hooks = h }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

// Attach wires a simulator to surf: it listens for input and cursor events,
// mounts the indicator container, registers the local author and starts the
// recurring tick. It returns nil when surf is nil.
func Attach(surf Surface, cfg Config, opts ...Option) *Simulator {
	if surf == nil {
		return nil
	}

	s := &Simulator{
		surface: surf,
		cfg:     cfg.withDefaults(),
		entries: make(map[string]domain.Indicator),
		timers:  make(map[uint64]clock.Timer),
		expiry:  make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = clock.New()
	}
	if s.rand == nil {
		s.rand = NewRandom()
	}
	if s.renderer == nil {
		s.renderer = nopRenderer{}
	}
	s.logger = logging.OrDiscard(s.logger).With("surface", surf.ID())

	s.mu.Lock()
	defer s.mu.Unlock()

	s.selfColor = s.cfg.Color
	if s.selfColor.IsZero() {
		s.selfColor = RandomColor(s.rand)
	}
	s.session = domain.EditorSessionState{
		LastCursorOffset: surf.CursorOffset(),
		LastEditAt:       s.clock.Now(),
	}

	s.unlisten = append(s.unlisten,
		surf.Listen(surface.EventInput, s.OnInput),
		surf.Listen(surface.EventCursor, s.OnCursorMove),
	)

	s.render("mount container", func(r Renderer) { r.MountContainer(surf.ID()) })
	s.addLocked(s.cfg.SelfID, s.cfg.DisplayName, s.selfColor, false)
	s.tick = s.clock.AfterFunc(s.cfg.SyncInterval, s.runTick)

	s.logger.Debug("presence simulator attached",
		"self", s.cfg.SelfID, "name", s.cfg.DisplayName, "color", s.selfColor.String())
	return s
}

// SelfColor returns the local author's colour
func (s *Simulator) SelfColor() domain.HSLColor {
	if s == nil {
		return domain.HSLColor{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selfColor
}

// AddPresence shows an indicator for id. Adding an id that is already present
// replaces its indicator rather than duplicating it.
func (s *Simulator) AddPresence(id, displayName string, color domain.HSLColor) domain.Indicator {
	if s == nil {
		return domain.Indicator{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.Indicator{}
	}
	return s.addLocked(id, displayName, color, false)
}

func (s *Simulator) addLocked(id, displayName string, color domain.HSLColor, simulated bool) domain.Indicator {
	if _, ok := s.entries[id]; ok {
		s.render("remove indicator", func(r Renderer) { r.RemoveIndicator(s.surface.ID(), id) })
	}
	s.cancelExpiryLocked(id)

	ind := domain.NewIndicator(domain.PresenceEntry{
		ID:          id,
		DisplayName: displayName,
		Color:       color,
		LastSeen:    s.clock.Now(),
		Simulated:   simulated,
	})
	s.entries[id] = ind
	s.render("show indicator", func(r Renderer) { r.ShowIndicator(s.surface.ID(), ind) })
	return ind
}

// RemovePresence drops the indicator for id. Absent ids and the local author
// are left untouched.
func (s *Simulator) RemovePresence(id string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if id == s.cfg.SelfID {
		s.logger.Debug("ignoring removal of self presence")
		return
	}
	s.removeLocked(id)
}

func (s *Simulator) removeLocked(id string) {
	if _, ok := s.entries[id]; !ok {
		return
	}
	s.cancelExpiryLocked(id)
	delete(s.entries, id)
	s.render("remove indicator", func(r Renderer) { r.RemoveIndicator(s.surface.ID(), id) })
}

func (s *Simulator) cancelExpiryLocked(id string) {
	if timerID, ok := s.expiry[id]; ok {
		s.cancelLocked(timerID)
		delete(s.expiry, id)
	}
}

// OnInput records a local edit, shows the writing badge and schedules the
// content-update hook.
func (s *Simulator) OnInput() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	now := s.clock.Now()
	s.session.LastEditAt = now
	s.showBadgeLocked(domain.NewWritingBadge(s.nextBadgeIDLocked(), s.selfColor, now))

	update := ContentUpdate{SurfaceID: s.surface.ID(), EditedAt: now}
	s.afterLocked(s.cfg.NotifyDelay, func() func() {
		if s.hooks.ContentUpdate == nil {
			return nil
		}
		hook := s.hooks.ContentUpdate
		return func() {
			s.logger.Log(context.Background(), logging.LevelTrace, "content update hook", "update", update)
			s.call("content update hook", func() { hook(update) })
		}
	})
}

// OnCursorMove records a new cursor offset and schedules the cursor-update hook.
// Events that leave the offset unchanged are ignored.
func (s *Simulator) OnCursorMove() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	offset := s.surface.CursorOffset()
	if offset == s.session.LastCursorOffset {
		return
	}
	s.session.LastCursorOffset = offset

	update := CursorUpdate{SurfaceID: s.surface.ID(), Offset: offset, MovedAt: s.clock.Now()}
	s.afterLocked(s.cfg.NotifyDelay, func() func() {
		if s.hooks.CursorUpdate == nil {
			return nil
		}
		hook := s.hooks.CursorUpdate
		return func() {
			s.logger.Log(context.Background(), logging.LevelTrace, "cursor update hook", "update", update)
			s.call("cursor update hook", func() { hook(update) })
		}
	})
}

// Tick runs one simulation step: it shows the saved badge once edits have
// settled and may fabricate a collaborator.
func (s *Simulator) Tick() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.tickLocked()
}

func (s *Simulator) runTick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.tickLocked()
	s.tick = s.clock.AfterFunc(s.cfg.SyncInterval, s.runTick)
}

func (s *Simulator) tickLocked() {
	now := s.clock.Now()
	if now.Sub(s.session.LastEditAt) > s.cfg.SavedAfter {
		s.showBadgeLocked(domain.NewSavedBadge(s.nextBadgeIDLocked(), now))
	}
	s.simulatePeerLocked()
}

// simulatePeerLocked fabricates a collaborator with SpawnProbability and
// schedules its departure.
func (s *Simulator) simulatePeerLocked() {
	if s.cfg.DisableSpawn || len(s.cfg.Roster) == 0 || s.rand.Float64() >= s.cfg.SpawnProbability {
		return
	}

	name := s.cfg.Roster[s.rand.IntN(len(s.cfg.Roster))]
	id := fmt.Sprintf("user_%d", s.rand.IntN(1000))
	if _, ok := s.entries[id]; ok {
		return
	}

	s.addLocked(id, name, RandomColor(s.rand), true)

	span := s.cfg.PeerLifetimeMax - s.cfg.PeerLifetimeMin
	lifetime := s.cfg.PeerLifetimeMin + time.Duration(s.rand.Float64()*float64(span))
	s.expiry[id] = s.afterLocked(lifetime, func() func() {
		delete(s.expiry, id)
		s.removeLocked(id)
		s.logger.Debug("simulated collaborator left", "id", id, "name", name)
		return nil
	})

	s.logger.Debug("simulated collaborator joined", "id", id, "name", name, "lifetime", lifetime)
}

func (s *Simulator) nextBadgeIDLocked() string {
	s.badgeSeq++
	return fmt.Sprintf("%s-badge-%d", s.surface.ID(), s.badgeSeq)
}

// showBadgeLocked replaces any visible badge with b and schedules its fade and removal
func (s *Simulator) showBadgeLocked(b domain.StatusBadge) {
	s.clearBadgeLocked()

	s.badge = &b
	s.render("show badge", func(r Renderer) { r.ShowBadge(s.surface.ID(), b) })

	s.badgeTimer = s.afterLocked(s.cfg.BadgeDuration, func() func() {
		s.badge.Fading = true
		s.render("fade badge", func(r Renderer) { r.FadeBadge(s.surface.ID(), b.ID) })

		s.badgeTimer = s.afterLocked(s.cfg.BadgeFade, func() func() {
			s.badgeTimer = 0
			s.clearBadgeLocked()
			return nil
		})
		return nil
	})
}

func (s *Simulator) clearBadgeLocked() {
	if s.badgeTimer != 0 {
		s.cancelLocked(s.badgeTimer)
		s.badgeTimer = 0
	}
	if s.badge == nil {
		return
	}
	id := s.badge.ID
	s.badge = nil
	s.render("remove badge", func(r Renderer) { r.RemoveBadge(s.surface.ID(), id) })
}

// afterLocked schedules fn to run under the lock after d and tracks the timer
// until it fires or is cancelled. fn may return a follow-up that runs once the
// lock is released.
func (s *Simulator) afterLocked(d time.Duration, fn func() func()) uint64 {
	s.timerSeq++
	id := s.timerSeq

	s.timers[id] = s.clock.AfterFunc(d, func() {
		s.mu.Lock()
		if _, ok := s.timers[id]; !ok || s.closed {
			s.mu.Unlock()
			return
		}
		delete(s.timers, id)
		next := fn()
		s.mu.Unlock()

		if next != nil {
			next()
		}
	})
	return id
}

func (s *Simulator) cancelLocked(id uint64) {
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
}

// Teardown stops every timer, detaches from the surface and removes everything
// the simulator rendered. Later calls on the simulator are no-ops.
func (s *Simulator) Teardown() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	if s.tick != nil {
		s.tick.Stop()
		s.tick = nil
	}
	s.clearBadgeLocked()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	clear(s.expiry)

	for _, unlisten := range s.unlisten {
		unlisten()
	}
	s.unlisten = nil

	clear(s.entries)
	s.render("unmount container", func(r Renderer) { r.UnmountContainer(s.surface.ID()) })

	s.closed = true
	s.logger.Debug("presence simulator torn down")
}

// render calls into the renderer, containing panics so a drawing failure never
// disturbs editing
func (s *Simulator) render(op string, fn func(Renderer)) {
	s.logger.Log(context.Background(), logging.LevelTrace, "render", "op", op)
	s.call("renderer", func() { fn(s.renderer) })
}

func (s *Simulator) call(what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(what+" panicked", "panic", r)
		}
	}()
	fn()
}
