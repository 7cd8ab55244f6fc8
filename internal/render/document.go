package render

import (
	"sync"

	"blogauto/internal/domain"
)

// Document is an in-memory display tree: one indicator container per surface,
// holding indicators in insertion order, plus the badges shown beside the
// surfaces. Calls against an unmounted container are ignored.
// It is safe for concurrent use.
type Document struct {
	mu         sync.Mutex
	containers map[string][]domain.Indicator
	badges     map[string][]domain.StatusBadge
}

// NewDocument creates an empty document
func NewDocument() *Document {
	return &Document{
		containers: make(map[string][]domain.Indicator),
		badges:     make(map[string][]domain.StatusBadge),
	}
}

func (d *Document) MountContainer(surfaceID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.containers[surfaceID]; !ok {
		d.containers[surfaceID] = []domain.Indicator{}
	}
}

func (d *Document) UnmountContainer(surfaceID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.containers, surfaceID)
}

func (d *Document) ShowIndicator(surfaceID string, ind domain.Indicator) {
	d.mu.Lock()
	defer d.mu.Unlock()
	list, ok := d.containers[surfaceID]
	if !ok {
		return
	}
	d.containers[surfaceID] = append(list, ind)
}

// RemoveIndicator removes the first indicator for entryID
func (d *Document) RemoveIndicator(surfaceID, entryID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	list := d.containers[surfaceID]
	for i := range list {
		if list[i].Entry.ID == entryID {
			d.containers[surfaceID] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

func (d *Document) ShowBadge(surfaceID string, badge domain.StatusBadge) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.badges[surfaceID] = append(d.badges[surfaceID], badge)
}

func (d *Document) FadeBadge(surfaceID, badgeID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.badges[surfaceID] {
		if d.badges[surfaceID][i].ID == badgeID {
			d.badges[surfaceID][i].Fading = true
		}
	}
}

func (d *Document) RemoveBadge(surfaceID, badgeID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	list := d.badges[surfaceID]
	for i := range list {
		if list[i].ID == badgeID {
			list = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(d.badges, surfaceID)
		return
	}
	d.badges[surfaceID] = list
}

// Mounted reports whether the surface has an indicator container
func (d *Document) Mounted(surfaceID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.containers[surfaceID]
	return ok
}

// Indicators returns the indicators of a surface in display order
func (d *Document) Indicators(surfaceID string) []domain.Indicator {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]domain.Indicator(nil), d.containers[surfaceID]...)
}

// IndicatorCount counts the indicators rendered for one entry
func (d *Document) IndicatorCount(surfaceID, entryID string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, ind := range d.containers[surfaceID] {
		if ind.Entry.ID == entryID {
			n++
		}
	}
	return n
}

// TotalIndicators counts indicators across every surface
func (d *Document) TotalIndicators() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, list := range d.containers {
		n += len(list)
	}
	return n
}

// Badges returns the badges shown beside a surface
func (d *Document) Badges(surfaceID string) []domain.StatusBadge {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]domain.StatusBadge(nil), d.badges[surfaceID]...)
}

// TotalBadges counts badges across every surface
func (d *Document) TotalBadges() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, list := range d.badges {
		n += len(list)
	}
	return n
}
