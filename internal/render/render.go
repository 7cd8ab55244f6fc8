// Package render provides display surfaces for the presence simulator.
//
// Document keeps an in-memory display tree, Events turns every visual change
// into a publishable event for browsers, Log prints changes for the headless
// CLI, and Tee fans out to several renderers.
package render

import "blogauto/internal/domain"

// Renderer is the drawing contract of presence.Simulator, restated here so the
// simulator package can use these renderers in its own tests.
type Renderer interface {
	MountContainer(surfaceID string)
	UnmountContainer(surfaceID string)
	ShowIndicator(surfaceID string, ind domain.Indicator)
	RemoveIndicator(surfaceID, entryID string)
	ShowBadge(surfaceID string, badge domain.StatusBadge)
	FadeBadge(surfaceID, badgeID string)
	RemoveBadge(surfaceID, badgeID string)
}

// Tee forwards every call to each renderer in order
type Tee []Renderer

func (t Tee) MountContainer(surfaceID string) {
	for _, r := range t {
		r.MountContainer(surfaceID)
	}
}

func (t Tee) UnmountContainer(surfaceID string) {
	for _, r := range t {
		r.UnmountContainer(surfaceID)
	}
}

func (t Tee) ShowIndicator(surfaceID string, ind domain.Indicator) {
	for _, r := range t {
		r.ShowIndicator(surfaceID, ind)
	}
}

func (t Tee) RemoveIndicator(surfaceID, entryID string) {
	for _, r := range t {
		r.RemoveIndicator(surfaceID, entryID)
	}
}

func (t Tee) ShowBadge(surfaceID string, badge domain.StatusBadge) {
	for _, r := range t {
		r.ShowBadge(surfaceID, badge)
	}
}

func (t Tee) FadeBadge(surfaceID, badgeID string) {
	for _, r := range t {
		r.FadeBadge(surfaceID, badgeID)
	}
}

func (t Tee) RemoveBadge(surfaceID, badgeID string) {
	for _, r := range t {
		r.RemoveBadge(surfaceID, badgeID)
	}
}
