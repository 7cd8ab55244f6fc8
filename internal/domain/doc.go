// Package domain defines the core types of the BlogAuto presence simulator.
//
// This package contains the value objects shared by the simulator, its renderers
// and the HTTP layer.
//
// # Presence
//
// PresenceEntry represents one collaborator (the local author or a simulated peer)
// shown next to an editing surface. Entries are keyed by identity id.
//
// HSLColor is the colour model used for avatars and status badges. It round-trips
// through the CSS "hsl(h, s%, l%)" notation the browser page consumes.
//
// # Editing state
//
// EditorSessionState tracks the last cursor offset and edit instant of a surface.
// It is never persisted.
//
// StatusBadge is the transient "writing" or "saved" indicator. At most one is
// visible per surface.
//
// Draft is the persisted content of a surface, written whenever the content-update
// notification fires.
//
// # Design Principles
//
// - Plain data, no rendering or timer concerns
// - No database or external dependencies
package domain
