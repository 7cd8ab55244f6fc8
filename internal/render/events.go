package render

import "blogauto/internal/domain"

// Event types emitted by the Events renderer
const (
	EventContainerMounted   = "container_mounted"
	EventContainerUnmounted = "container_unmounted"
	EventIndicatorAdded     = "indicator_added"
	EventIndicatorRemoved   = "indicator_removed"
	EventBadgeShown         = "badge_shown"
	EventBadgeFading        = "badge_fading"
	EventBadgeRemoved       = "badge_removed"
)

// PublishFunc receives one visual change
type PublishFunc func(eventType, surfaceID string, payload any)

// Events turns visual changes into events for a browser to replay
type Events struct {
	publish PublishFunc
}

// NewEvents creates a renderer that hands every change to publish
func NewEvents(publish PublishFunc) *Events {
	return &Events{publish: publish}
}

func (e *Events) MountContainer(surfaceID string) {
	e.publish(EventContainerMounted, surfaceID, nil)
}

func (e *Events) UnmountContainer(surfaceID string) {
	e.publish(EventContainerUnmounted, surfaceID, nil)
}

func (e *Events) ShowIndicator(surfaceID string, ind domain.Indicator) {
	e.publish(EventIndicatorAdded, surfaceID, ind)
}

func (e *Events) RemoveIndicator(surfaceID, entryID string) {
	e.publish(EventIndicatorRemoved, surfaceID, map[string]string{"id": entryID})
}

func (e *Events) ShowBadge(surfaceID string, badge domain.StatusBadge) {
	e.publish(EventBadgeShown, surfaceID, badge)
}

func (e *Events) FadeBadge(surfaceID, badgeID string) {
	e.publish(EventBadgeFading, surfaceID, map[string]string{"id": badgeID})
}

func (e *Events) RemoveBadge(surfaceID, badgeID string) {
	e.publish(EventBadgeRemoved, surfaceID, map[string]string{"id": badgeID})
}
