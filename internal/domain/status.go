package domain

import "time"

// BadgeKind identifies which status a badge reports
type BadgeKind string

const (
	BadgeWriting BadgeKind = "writing"
	BadgeSaved   BadgeKind = "saved"
)

// Badge texts
const (
	WritingText = "Writing..."
	SavedText   = "Saved ✓"
)

// StatusBadge is a transient, auto-dismissing status indicator
type StatusBadge struct {
	ID         string    `json:"id" yaml:"id"`
	Kind       BadgeKind `json:"kind" yaml:"kind"`
	Text       string    `json:"text" yaml:"text"`
	Background string    `json:"background" yaml:"background"`
	Foreground string    `json:"foreground" yaml:"foreground"`
	ShownAt    time.Time `json:"shown_at" yaml:"shown_at"`
	Fading     bool      `json:"fading,omitempty" yaml:"fading,omitempty"`
}

// NewWritingBadge builds the badge shown while the author types, tinted with their colour
func NewWritingBadge(id string, self HSLColor, now time.Time) StatusBadge {
	return StatusBadge{
		ID:         id,
		Kind:       BadgeWriting,
		Text:       WritingText,
		Background: self.String(),
		Foreground: self.Contrast(),
		ShownAt:    now,
	}
}

// NewSavedBadge builds the badge shown once edits have settled
func NewSavedBadge(id string, now time.Time) StatusBadge {
	return StatusBadge{
		ID:         id,
		Kind:       BadgeSaved,
		Text:       SavedText,
		Background: SavedBackground,
		Foreground: SavedForeground,
		ShownAt:    now,
	}
}
