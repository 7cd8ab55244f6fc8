package presence

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"blogauto/internal/clock"
	"blogauto/internal/domain"
	"blogauto/internal/logging"
	"blogauto/internal/render"
	"blogauto/internal/surface"
)

var epoch = time.Date(2024, 2, 20, 19, 0, 0, 0, time.UTC)

// scriptedRandom replays fixed values. Once exhausted, Float64 returns 0.99
// (no collaborator is fabricated) and IntN returns 0.
type scriptedRandom struct {
	floats []float64
	ints   []int
}

func (r *scriptedRandom) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.99
	}
	f := r.floats[0]
	r.floats = r.floats[1:]
	return f
}

func (r *scriptedRandom) IntN(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0] % n
	r.ints = r.ints[1:]
	return v
}

type hookRecorder struct {
	mu      sync.Mutex
	content []ContentUpdate
	cursor  []CursorUpdate
}

func (h *hookRecorder) hooks() Hooks {
	return Hooks{
		ContentUpdate: func(u ContentUpdate) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.content = append(h.content, u)
		},
		CursorUpdate: func(u CursorUpdate) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.cursor = append(h.cursor, u)
		},
	}
}

type fixture struct {
	sim   *Simulator
	surf  *surface.TextSurface
	doc   *render.Document
	clock *clock.Fake
	hooks *hookRecorder
}

var anaColor = domain.HSLColor{H: 200, S: 70, L: 40}

func newFixture(t *testing.T, cfg Config, rnd RandomSource) *fixture {
	t.Helper()

	if rnd == nil {
		rnd = &scriptedRandom{}
	}
	f := &fixture{
		surf:  surface.New("draft-1", nil),
		doc:   render.NewDocument(),
		clock: clock.NewFake(epoch),
		hooks: &hookRecorder{},
	}
	f.sim = Attach(f.surf, cfg,
		WithClock(f.clock),
		WithRandom(rnd),
		WithRenderer(f.doc),
		WithHooks(f.hooks.hooks()),
	)
	t.Cleanup(f.sim.Teardown)
	return f
}

func anaConfig() Config {
	cfg := DefaultConfig()
	cfg.DisplayName = "Ana"
	cfg.SyncInterval = 2 * time.Second
	cfg.Color = anaColor
	return cfg
}

func TestAttachNilSurface(t *testing.T) {
	sim := Attach(nil, DefaultConfig())
	if sim != nil {
		t.Fatal("expected nil simulator for nil surface")
	}

	// Every method is a no-op on the nil simulator
	sim.AddPresence("u1", "Carlos", anaColor)
	sim.RemovePresence("u1")
	sim.OnInput()
	sim.OnCursorMove()
	sim.Tick()
	sim.Teardown()
	if sim.Len() != 0 || sim.PendingTimers() != 0 {
		t.Error("nil simulator should report no state")
	}
}

func TestAttachRegistersSelf(t *testing.T) {
	f := newFixture(t, anaConfig(), nil)

	entry, ok := f.sim.Entry("self")
	if !ok {
		t.Fatal("self entry must exist immediately after attach")
	}
	if entry.DisplayName != "Ana" || entry.Color != anaColor || entry.Simulated {
		t.Errorf("unexpected self entry: %+v", entry)
	}
	if !f.doc.Mounted("draft-1") {
		t.Error("indicator container should be mounted")
	}
	if f.doc.IndicatorCount("draft-1", "self") != 1 {
		t.Error("self indicator should be rendered")
	}

	ind := f.doc.Indicators("draft-1")[0]
	if ind.Initial != "A" || ind.AvatarColor != anaColor.Darken(20) {
		t.Errorf("unexpected indicator: %+v", ind)
	}
	if f.surf.ListenerCount(surface.EventInput) != 1 || f.surf.ListenerCount(surface.EventCursor) != 1 {
		t.Error("simulator should listen for input and cursor events")
	}
}

func TestAttachDefaults(t *testing.T) {
	rnd := &scriptedRandom{ints: []int{123}}
	f := newFixture(t, Config{}, rnd)

	entry, ok := f.sim.Entry(domain.SelfID)
	if !ok {
		t.Fatal("self entry missing")
	}
	if entry.DisplayName != "User" {
		t.Errorf("display name = %q, want User", entry.DisplayName)
	}
	if entry.Color != (domain.HSLColor{H: 123, S: 70, L: 60}) {
		t.Errorf("color = %s, want random hue at 70%%/60%%", entry.Color)
	}
	if got := f.clock.Deadlines(); len(got) != 1 || got[0] != 2*time.Second {
		t.Errorf("tick deadlines = %v, want [2s]", got)
	}
}

func TestAddPresence(t *testing.T) {
	t.Run("unseen id adds exactly one entry", func(t *testing.T) {
		f := newFixture(t, anaConfig(), nil)
		before := f.sim.Len()

		ind := f.sim.AddPresence("u1", "Carlos", domain.MustParseHSL("hsl(10,70%,60%)"))

		if f.sim.Len() != before+1 {
			t.Errorf("len = %d, want %d", f.sim.Len(), before+1)
		}
		if f.doc.IndicatorCount("draft-1", "u1") != 1 {
			t.Error("expected a single indicator for u1")
		}
		if ind.Entry.ID != "u1" || ind.Initial != "C" {
			t.Errorf("unexpected handle: %+v", ind)
		}
	})

	t.Run("re-adding replaces the indicator", func(t *testing.T) {
		f := newFixture(t, anaConfig(), nil)
		color := domain.MustParseHSL("hsl(10,70%,60%)")

		f.sim.AddPresence("u1", "Carlos", color)
		f.sim.AddPresence("u1", "Carlos", color)

		if n := f.doc.IndicatorCount("draft-1", "u1"); n != 1 {
			t.Errorf("indicators for u1 = %d, want 1", n)
		}
		if f.sim.Len() != 2 {
			t.Errorf("len = %d, want 2 (self + u1)", f.sim.Len())
		}
	})

	t.Run("re-adding updates attributes", func(t *testing.T) {
		f := newFixture(t, anaConfig(), nil)

		f.sim.AddPresence("u1", "Carlos", anaColor)
		f.sim.AddPresence("u1", "Carla", domain.HSLColor{H: 90, S: 70, L: 60})

		entry, _ := f.sim.Entry("u1")
		if entry.DisplayName != "Carla" || entry.Color.H != 90 {
			t.Errorf("entry not replaced: %+v", entry)
		}
	})
}

func TestRemovePresence(t *testing.T) {
	f := newFixture(t, anaConfig(), nil)
	f.sim.AddPresence("u1", "Carlos", anaColor)

	t.Run("absent id is a no-op", func(t *testing.T) {
		f.sim.RemovePresence("nobody")
		if f.sim.Len() != 2 {
			t.Errorf("len = %d, want 2", f.sim.Len())
		}
	})

	t.Run("removes entry and indicator", func(t *testing.T) {
		f.sim.RemovePresence("u1")
		if _, ok := f.sim.Entry("u1"); ok {
			t.Error("u1 should be gone")
		}
		if f.doc.IndicatorCount("draft-1", "u1") != 0 {
			t.Error("u1 indicator should be gone")
		}
	})

	t.Run("self is kept", func(t *testing.T) {
		f.sim.RemovePresence("self")
		if _, ok := f.sim.Entry("self"); !ok {
			t.Error("self entry must always be present")
		}
	})
}

func TestInputShowsWritingBadge(t *testing.T) {
	f := newFixture(t, anaConfig(), nil)

	f.surf.Input("Olá", 3)

	badges := f.doc.Badges("draft-1")
	if len(badges) != 1 {
		t.Fatalf("badges = %d, want 1", len(badges))
	}
	if badges[0].Kind != domain.BadgeWriting || badges[0].Background != anaColor.String() {
		t.Errorf("unexpected badge: %+v", badges[0])
	}
	if !f.sim.Session().LastEditAt.Equal(epoch) {
		t.Errorf("last edit = %v, want %v", f.sim.Session().LastEditAt, epoch)
	}

	t.Run("content hook fires after 100ms", func(t *testing.T) {
		f.clock.Advance(99 * time.Millisecond)
		if len(f.hooks.content) != 0 {
			t.Fatal("content hook fired early")
		}
		f.clock.Advance(time.Millisecond)
		if len(f.hooks.content) != 1 || f.hooks.content[0].SurfaceID != "draft-1" {
			t.Errorf("content updates = %+v", f.hooks.content)
		}
	})

	t.Run("badge fades after 2s", func(t *testing.T) {
		f.clock.Advance(1900 * time.Millisecond) // t = 2000ms
		b, ok := f.sim.Badge()
		if !ok || !b.Fading || b.Kind != domain.BadgeWriting {
			t.Errorf("badge = %+v (present %v), want fading writing badge", b, ok)
		}
	})

	t.Run("badge removed after fade", func(t *testing.T) {
		f.clock.Advance(300 * time.Millisecond) // t = 2300ms
		if _, ok := f.sim.Badge(); ok {
			t.Error("badge should be gone")
		}
		if f.doc.TotalBadges() != 0 {
			t.Errorf("document badges = %d, want 0", f.doc.TotalBadges())
		}
	})
}

func TestTickShowsSavedBadgeWhenIdle(t *testing.T) {
	f := newFixture(t, anaConfig(), nil)

	// Exactly 2s idle is not enough
	f.clock.Advance(2 * time.Second)
	if _, ok := f.sim.Badge(); ok {
		t.Fatal("no badge expected after exactly 2s idle")
	}

	f.clock.Advance(2 * time.Second) // t = 4s
	b, ok := f.sim.Badge()
	if !ok || b.Kind != domain.BadgeSaved {
		t.Fatalf("badge = %+v (present %v), want saved badge", b, ok)
	}
	if b.Background != domain.SavedBackground || b.Foreground != domain.SavedForeground {
		t.Errorf("saved badge colours = %s/%s", b.Background, b.Foreground)
	}
}

func TestAtMostOneBadge(t *testing.T) {
	f := newFixture(t, anaConfig(), nil)

	for step := 0; step < 40; step++ {
		if step%7 == 0 {
			f.surf.Input("texto", step)
		}
		f.clock.Advance(250 * time.Millisecond)

		if n := f.doc.TotalBadges(); n > 1 {
			t.Fatalf("step %d: %d badges visible", step, n)
		}
	}

	// Writing replaces a visible saved badge
	f.clock.Advance(5 * time.Second)
	if b, ok := f.sim.Badge(); !ok || b.Kind != domain.BadgeSaved {
		t.Fatalf("expected saved badge, got %+v", b)
	}
	f.surf.Input("mais texto", 10)
	badges := f.doc.Badges("draft-1")
	if len(badges) != 1 || badges[0].Kind != domain.BadgeWriting {
		t.Errorf("badges = %+v, want single writing badge", badges)
	}
}

func TestCursorMove(t *testing.T) {
	f := newFixture(t, anaConfig(), nil)
	f.surf.Input("Olá mundo", 0)
	f.clock.Advance(time.Second)
	f.hooks.cursor = nil

	f.surf.MoveCursor(5)
	if f.sim.Session().LastCursorOffset != 5 {
		t.Errorf("cursor offset = %d, want 5", f.sim.Session().LastCursorOffset)
	}
	f.clock.Advance(100 * time.Millisecond)
	if len(f.hooks.cursor) != 1 || f.hooks.cursor[0].Offset != 5 {
		t.Fatalf("cursor updates = %+v", f.hooks.cursor)
	}

	// Same offset is ignored
	f.surf.MoveCursor(5)
	f.clock.Advance(100 * time.Millisecond)
	if len(f.hooks.cursor) != 1 {
		t.Errorf("cursor hook fired for unchanged offset: %+v", f.hooks.cursor)
	}
}

func TestTickFabricatesCollaborator(t *testing.T) {
	// spawn roll, lifetime fraction / roster index, id, hue
	rnd := &scriptedRandom{
		floats: []float64{0.1, 0.5},
		ints:   []int{3, 42, 200},
	}
	f := newFixture(t, anaConfig(), rnd)

	f.sim.Tick()

	entry, ok := f.sim.Entry("user_42")
	if !ok {
		t.Fatal("expected simulated collaborator user_42")
	}
	if entry.DisplayName != "Ana" || !entry.Simulated || entry.Color.H != 200 {
		t.Errorf("unexpected collaborator: %+v", entry)
	}
	if f.doc.IndicatorCount("draft-1", "user_42") != 1 {
		t.Error("collaborator indicator should be rendered")
	}

	// Lifetime is 10s + 0.5 * 30s
	f.clock.Advance(25*time.Second - time.Millisecond)
	if _, ok := f.sim.Entry("user_42"); !ok {
		t.Fatal("collaborator left too early")
	}
	f.clock.Advance(time.Millisecond)
	if _, ok := f.sim.Entry("user_42"); ok {
		t.Error("collaborator should have left after 25s")
	}
	if f.doc.IndicatorCount("draft-1", "user_42") != 0 {
		t.Error("collaborator indicator should be removed")
	}
}

func TestTickSkipsExistingCollaborator(t *testing.T) {
	rnd := &scriptedRandom{
		floats: []float64{0.1},
		ints:   []int{0, 42},
	}
	f := newFixture(t, anaConfig(), rnd)
	f.sim.AddPresence("user_42", "Roberto", anaColor)
	pending := f.sim.PendingTimers()

	f.sim.Tick()

	entry, _ := f.sim.Entry("user_42")
	if entry.DisplayName != "Roberto" || entry.Simulated {
		t.Errorf("existing entry was replaced: %+v", entry)
	}
	if f.sim.PendingTimers() != pending {
		t.Error("no expiry should be scheduled for an existing id")
	}
}

func TestTickFabricatesWithMinimalConfig(t *testing.T) {
	rnd := &scriptedRandom{floats: []float64{0.1}}
	f := newFixture(t, Config{DisplayName: "Ana", SyncInterval: 2 * time.Second}, rnd)

	f.sim.Tick()
	if f.sim.Len() != 2 {
		t.Errorf("len = %d, a roll of 0.1 should fabricate a collaborator at the default 30%%", f.sim.Len())
	}
}

func TestTickDisabledSpawn(t *testing.T) {
	cfg := anaConfig()
	cfg.DisableSpawn = true
	f := newFixture(t, cfg, &scriptedRandom{floats: []float64{0}})

	f.sim.Tick()
	if f.sim.Len() != 1 {
		t.Errorf("len = %d, disabled spawn must not fabricate", f.sim.Len())
	}
}

func TestTickRespectsProbability(t *testing.T) {
	rnd := &scriptedRandom{floats: []float64{0.3}}
	f := newFixture(t, anaConfig(), rnd)

	f.sim.Tick()
	if f.sim.Len() != 1 {
		t.Errorf("len = %d, roll of 0.3 must not fabricate at 30%%", f.sim.Len())
	}
}

func TestSeededSimulationStaysBounded(t *testing.T) {
	f := newFixture(t, anaConfig(), NewSeededRandom(7))

	for i := 0; i < 200; i++ {
		f.clock.Advance(2 * time.Second)

		for _, e := range f.sim.Entries() {
			if e.ID == "self" {
				continue
			}
			age := f.clock.Now().Sub(e.LastSeen)
			if age > 40*time.Second {
				t.Fatalf("collaborator %s outlived max lifetime: %v", e.ID, age)
			}
		}
		if n := f.doc.TotalBadges(); n > 1 {
			t.Fatalf("%d badges visible", n)
		}
	}
	if f.doc.TotalIndicators() != f.sim.Len() {
		t.Errorf("rendered %d indicators for %d entries", f.doc.TotalIndicators(), f.sim.Len())
	}
}

func TestTeardown(t *testing.T) {
	rnd := &scriptedRandom{
		floats: []float64{0.1, 0.5},
		ints:   []int{1, 7, 90},
	}
	f := newFixture(t, anaConfig(), rnd)

	f.sim.Tick()                // collaborator with pending expiry
	f.surf.Input("rascunho", 3) // badge timer + content hook timer
	f.surf.MoveCursor(1)        // cursor hook timer
	if f.clock.Pending() < 4 {
		t.Fatalf("expected several pending timers, got %d", f.clock.Pending())
	}

	f.sim.Teardown()

	if f.clock.Pending() != 0 {
		t.Errorf("fake clock pending = %d, want 0", f.clock.Pending())
	}
	if f.sim.PendingTimers() != 0 {
		t.Errorf("simulator pending = %d, want 0", f.sim.PendingTimers())
	}
	if f.doc.TotalIndicators() != 0 || f.doc.Mounted("draft-1") {
		t.Error("indicators and container must be removed")
	}
	if f.doc.TotalBadges() != 0 {
		t.Error("in-flight badge must be removed")
	}
	if f.surf.ListenerCount(surface.EventInput) != 0 || f.surf.ListenerCount(surface.EventCursor) != 0 {
		t.Error("listeners must be detached")
	}
	if f.sim.Len() != 0 {
		t.Errorf("len = %d, want 0", f.sim.Len())
	}

	t.Run("later events are ignored", func(t *testing.T) {
		f.surf.Input("depois", 1)
		f.sim.OnInput()
		f.sim.Tick()
		f.sim.AddPresence("u1", "Carlos", anaColor)
		f.clock.Advance(time.Minute)

		if len(f.hooks.content) != 0 || len(f.hooks.cursor) != 0 {
			t.Error("hooks must not fire after teardown")
		}
		if f.doc.TotalIndicators() != 0 || f.doc.TotalBadges() != 0 {
			t.Error("nothing may render after teardown")
		}
	})

	t.Run("second teardown is a no-op", func(t *testing.T) {
		f.sim.Teardown()
		if !f.sim.Closed() {
			t.Error("simulator should report closed")
		}
	})
}

type panickingRenderer struct {
	*render.Document
}

func (panickingRenderer) ShowBadge(string, domain.StatusBadge) {
	panic("badge failed to render")
}

func TestRendererFailureDoesNotBlockInput(t *testing.T) {
	surf := surface.New("draft-1", nil)
	fake := clock.NewFake(epoch)
	hooks := &hookRecorder{}
	sim := Attach(surf, anaConfig(),
		WithClock(fake),
		WithRandom(&scriptedRandom{}),
		WithRenderer(panickingRenderer{render.NewDocument()}),
		WithHooks(hooks.hooks()),
	)
	defer sim.Teardown()

	fake.Advance(time.Second)
	surf.Input("abc", 3)
	fake.Advance(100 * time.Millisecond)

	if surf.Content() != "abc" {
		t.Error("surface content must update")
	}
	if !sim.Session().LastEditAt.Equal(epoch.Add(time.Second)) {
		t.Error("edit must be recorded")
	}
	if len(hooks.content) != 1 {
		t.Errorf("content hook fired %d times, want 1", len(hooks.content))
	}
}

func TestSnapshot(t *testing.T) {
	f := newFixture(t, anaConfig(), nil)
	f.sim.AddPresence("u1", "Carlos", anaColor)
	f.surf.Input("x", 1)

	snap := f.sim.Snapshot()
	if snap.SurfaceID != "draft-1" || len(snap.Entries) != 2 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.Entries[0].ID != "self" || snap.Entries[1].ID != "u1" {
		t.Errorf("entries not sorted: %+v", snap.Entries)
	}
	if snap.Badge == nil || snap.Badge.Kind != domain.BadgeWriting {
		t.Errorf("snapshot badge = %+v", snap.Badge)
	}
}

func TestTraceLogging(t *testing.T) {
	tests := []struct {
		level string
		want  bool
	}{
		{"trace", true},
		{"debug", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			surf := surface.New("draft-1", nil)
			fake := clock.NewFake(epoch)
			sim := Attach(surf, anaConfig(),
				WithClock(fake),
				WithRandom(&scriptedRandom{}),
				WithHooks(Hooks{ContentUpdate: func(ContentUpdate) {}}),
				WithLogger(logging.NewLogger(tt.level, &buf)),
			)
			defer sim.Teardown()

			surf.Input("Olá", 3)
			fake.Advance(100 * time.Millisecond)

			out := buf.String()
			for _, want := range []string{"level=TRACE", "op=\"show badge\"", "content update hook"} {
				if got := strings.Contains(out, want); got != tt.want {
					t.Errorf("log contains %q = %v, want %v:\n%s", want, got, tt.want, out)
				}
			}
		})
	}
}
