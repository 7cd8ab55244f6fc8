package render

import (
	"fmt"
	"io"
	"sync"
	"time"

	"blogauto/internal/domain"
)

// Log prints one line per visual change, for terminals
type Log struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

// NewLog creates a log renderer stamping lines with now
func NewLog(w io.Writer, now func() time.Time) *Log {
	if now == nil {
		now = time.Now
	}
	return &Log{w: w, now: now}
}

func (l *Log) printf(surfaceID, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "%s [%s] %s\n", l.now().Format("15:04:05.000"), surfaceID, fmt.Sprintf(format, args...))
}

func (l *Log) MountContainer(surfaceID string) {
	l.printf(surfaceID, "presence container mounted")
}

func (l *Log) UnmountContainer(surfaceID string) {
	l.printf(surfaceID, "presence container removed")
}

func (l *Log) ShowIndicator(surfaceID string, ind domain.Indicator) {
	l.printf(surfaceID, "+ (%s) %s [%s] %s", ind.Initial, ind.Entry.DisplayName, ind.Entry.ID, ind.Entry.Color)
}

func (l *Log) RemoveIndicator(surfaceID, entryID string) {
	l.printf(surfaceID, "- [%s]", entryID)
}

func (l *Log) ShowBadge(surfaceID string, badge domain.StatusBadge) {
	l.printf(surfaceID, "badge %q (%s on %s)", badge.Text, badge.Foreground, badge.Background)
}

func (l *Log) FadeBadge(surfaceID, badgeID string) {
	l.printf(surfaceID, "badge %s fading", badgeID)
}

func (l *Log) RemoveBadge(surfaceID, badgeID string) {
	l.printf(surfaceID, "badge %s removed", badgeID)
}
