package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"blogauto/internal/domain"
)

func indicator(id, name string) domain.Indicator {
	return domain.NewIndicator(domain.PresenceEntry{
		ID:          id,
		DisplayName: name,
		Color:       domain.HSLColor{H: 10, S: 70, L: 60},
	})
}

func TestDocumentIndicators(t *testing.T) {
	d := NewDocument()

	t.Run("ignored before mount", func(t *testing.T) {
		d.ShowIndicator("s1", indicator("self", "Ana"))
		if d.TotalIndicators() != 0 {
			t.Error("indicator must not render without a container")
		}
	})

	t.Run("ordered after mount", func(t *testing.T) {
		d.MountContainer("s1")
		d.ShowIndicator("s1", indicator("self", "Ana"))
		d.ShowIndicator("s1", indicator("u1", "Carlos"))

		got := d.Indicators("s1")
		if len(got) != 2 || got[0].Entry.ID != "self" || got[1].Entry.ID != "u1" {
			t.Errorf("indicators = %+v", got)
		}
	})

	t.Run("remove one", func(t *testing.T) {
		d.RemoveIndicator("s1", "u1")
		d.RemoveIndicator("s1", "missing")
		if d.IndicatorCount("s1", "u1") != 0 {
			t.Error("u1 should be gone")
		}
		if d.IndicatorCount("s1", "self") != 1 {
			t.Error("self should remain")
		}
	})

	t.Run("unmount clears container", func(t *testing.T) {
		d.UnmountContainer("s1")
		if d.Mounted("s1") {
			t.Error("container should be unmounted")
		}
		if d.TotalIndicators() != 0 {
			t.Errorf("total indicators = %d, want 0", d.TotalIndicators())
		}
	})
}

func TestDocumentBadges(t *testing.T) {
	d := NewDocument()
	now := time.Unix(1708455600, 0)

	d.ShowBadge("s1", domain.NewSavedBadge("b1", now))
	d.FadeBadge("s1", "b1")

	badges := d.Badges("s1")
	if len(badges) != 1 || !badges[0].Fading {
		t.Fatalf("badges = %+v, want one fading badge", badges)
	}

	d.RemoveBadge("s1", "b1")
	if d.TotalBadges() != 0 {
		t.Errorf("total badges = %d, want 0", d.TotalBadges())
	}
}

func TestEventsRenderer(t *testing.T) {
	type published struct {
		eventType string
		surfaceID string
	}
	var got []published
	e := NewEvents(func(eventType, surfaceID string, payload any) {
		got = append(got, published{eventType, surfaceID})
	})

	e.MountContainer("s1")
	e.ShowIndicator("s1", indicator("self", "Ana"))
	e.ShowBadge("s1", domain.NewSavedBadge("b1", time.Now()))
	e.FadeBadge("s1", "b1")
	e.RemoveBadge("s1", "b1")
	e.RemoveIndicator("s1", "self")
	e.UnmountContainer("s1")

	want := []string{
		EventContainerMounted, EventIndicatorAdded, EventBadgeShown, EventBadgeFading,
		EventBadgeRemoved, EventIndicatorRemoved, EventContainerUnmounted,
	}
	if len(got) != len(want) {
		t.Fatalf("published %d events, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].eventType != w || got[i].surfaceID != "s1" {
			t.Errorf("event %d = %+v, want %s", i, got[i], w)
		}
	}
}

func TestTeeAndLog(t *testing.T) {
	var buf bytes.Buffer
	fixed := time.Date(2024, 2, 20, 19, 0, 0, 0, time.UTC)
	doc := NewDocument()
	tee := Tee{doc, NewLog(&buf, func() time.Time { return fixed })}

	tee.MountContainer("s1")
	tee.ShowIndicator("s1", indicator("u1", "carlos"))

	if doc.IndicatorCount("s1", "u1") != 1 {
		t.Error("document should receive the indicator")
	}

	out := buf.String()
	if !strings.Contains(out, "19:00:00.000 [s1] + (C) carlos [u1] hsl(10, 70%, 60%)") {
		t.Errorf("unexpected log output:\n%s", out)
	}
	if strings.Count(out, "\n") != 2 {
		t.Errorf("expected two lines, got:\n%s", out)
	}
}
