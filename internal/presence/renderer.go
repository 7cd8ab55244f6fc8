package presence

import (
	"time"

	"blogauto/internal/domain"
	"blogauto/internal/surface"
)

// Surface is the host text-input surface a simulator attaches to
type Surface interface {
	ID() string
	CursorOffset() int
	Listen(kind surface.EventKind, fn func()) (unlisten func())
}

// Renderer draws the simulator's visual state. Every call is made with the
// simulator lock held; implementations must not call back into the simulator.
type Renderer interface {
	// MountContainer creates the indicator container next to the surface
	MountContainer(surfaceID string)
	// UnmountContainer removes the container and every indicator in it
	UnmountContainer(surfaceID string)

	ShowIndicator(surfaceID string, ind domain.Indicator)
	RemoveIndicator(surfaceID, entryID string)

	ShowBadge(surfaceID string, badge domain.StatusBadge)
	FadeBadge(surfaceID, badgeID string)
	RemoveBadge(surfaceID, badgeID string)
}

type nopRenderer struct{}

func (nopRenderer) MountContainer(string)                  {}
func (nopRenderer) UnmountContainer(string)                {}
func (nopRenderer) ShowIndicator(string, domain.Indicator) {}
func (nopRenderer) RemoveIndicator(string, string)         {}
func (nopRenderer) ShowBadge(string, domain.StatusBadge)   {}
func (nopRenderer) FadeBadge(string, string)               {}
func (nopRenderer) RemoveBadge(string, string)             {}

// ContentUpdate is passed to the content hook after a local edit
type ContentUpdate struct {
	SurfaceID string
	EditedAt  time.Time
}

// CursorUpdate is passed to the cursor hook after the cursor moved
type CursorUpdate struct {
	SurfaceID string
	Offset    int
	MovedAt   time.Time
}

// Hooks are the notification points a transport can be wired to.
// Nil hooks are skipped.
type Hooks struct {
	ContentUpdate func(ContentUpdate)
	CursorUpdate  func(CursorUpdate)
}
