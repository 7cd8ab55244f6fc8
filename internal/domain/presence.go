package domain

import (
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// SelfID is the identity id of the local author when none is configured
const SelfID = "self"

// PresenceEntry represents one collaborator shown next to a surface
type PresenceEntry struct {
	ID          string    `json:"id" yaml:"id"`
	DisplayName string    `json:"display_name" yaml:"display_name"`
	Color       HSLColor  `json:"color" yaml:"color"`
	LastSeen    time.Time `json:"last_seen" yaml:"last_seen"`
	Simulated   bool      `json:"simulated,omitempty" yaml:"simulated,omitempty"`
}

// Initial returns the upper-cased first rune of the display name, used as avatar text
func (e PresenceEntry) Initial() string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(e.DisplayName))
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r))
}

// AvatarColor is the entry colour darkened for the avatar disc
func (e PresenceEntry) AvatarColor() HSLColor {
	return e.Color.Darken(20)
}

// EditorSessionState tracks cursor and edit activity of one surface
type EditorSessionState struct {
	LastCursorOffset int       `json:"last_cursor_offset"`
	LastEditAt       time.Time `json:"last_edit_at"`
}

// PresenceSnapshot is a point-in-time view of a surface's presence
type PresenceSnapshot struct {
	SurfaceID string          `json:"surface_id" yaml:"surface_id"`
	Entries   []PresenceEntry `json:"entries" yaml:"entries"`
	Badge     *StatusBadge    `json:"badge,omitempty" yaml:"badge,omitempty"`
	TakenAt   time.Time       `json:"taken_at" yaml:"taken_at"`
}

// SortEntries orders entries by id so snapshots are stable
func SortEntries(entries []PresenceEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ID < entries[j].ID
	})
}

// Indicator is the rendered form of a presence entry: the coloured pill with an
// avatar initial and the display name
type Indicator struct {
	Entry       PresenceEntry `json:"entry"`
	Initial     string        `json:"initial"`
	AvatarColor HSLColor      `json:"avatar_color"`
}

// NewIndicator derives the indicator for an entry
func NewIndicator(e PresenceEntry) Indicator {
	return Indicator{
		Entry:       e,
		Initial:     e.Initial(),
		AvatarColor: e.AvatarColor(),
	}
}
