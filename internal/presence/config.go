package presence

import (
	"time"

	"blogauto/internal/domain"
)

// DefaultRoster is the set of names simulated collaborators are drawn from
var DefaultRoster = []string{
	"João", "Maria", "Carlos", "Ana", "Pedro",
	"Lucas", "Amanda", "Fernando", "Juliana", "Roberto",
}

// Config configures a Simulator. Zero fields take the defaults; set
// DisableSpawn to turn collaborator fabrication off.
type Config struct {
	// SyncInterval is the period of the recurring tick
	SyncInterval time.Duration

	// DisplayName of the local author
	DisplayName string

	// Color of the local author; a random hue is picked when zero
	Color domain.HSLColor

	// SelfID is the identity id of the local author
	SelfID string

	// Roster holds the names simulated collaborators are drawn from
	Roster []string

	// SpawnProbability is the chance per tick of fabricating a collaborator
	SpawnProbability float64

	// DisableSpawn stops the tick from fabricating collaborators
	DisableSpawn bool

	// PeerLifetimeMin and PeerLifetimeMax bound how long a simulated collaborator stays
	PeerLifetimeMin time.Duration
	PeerLifetimeMax time.Duration

	// SavedAfter is the idle time after which a tick shows the saved badge
	SavedAfter time.Duration

	// BadgeDuration is how long a badge stays before fading, BadgeFade how long the fade lasts
	BadgeDuration time.Duration
	BadgeFade     time.Duration

	// NotifyDelay is the delay before the content and cursor hooks fire
	NotifyDelay time.Duration
}

// WithSpawnProbability returns c fabricating collaborators with probability p.
// A p of zero or below disables fabrication.
func (c Config) WithSpawnProbability(p float64) Config {
	c.SpawnProbability = max(p, 0)
	c.DisableSpawn = p <= 0
	return c
}

// DefaultConfig returns the stock simulator settings
func DefaultConfig() Config {
	return Config{
		SyncInterval:     2 * time.Second,
		DisplayName:      "User",
		SelfID:           domain.SelfID,
		Roster:           append([]string(nil), DefaultRoster...),
		SpawnProbability: 0.3,
		PeerLifetimeMin:  10 * time.Second,
		PeerLifetimeMax:  40 * time.Second,
		SavedAfter:       2 * time.Second,
		BadgeDuration:    2 * time.Second,
		BadgeFade:        300 * time.Millisecond,
		NotifyDelay:      100 * time.Millisecond,
	}
}

// withDefaults fills zero fields from DefaultConfig
func (c Config) withDefaults() Config {
	d := DefaultConfig()

	if c.SyncInterval <= 0 {
		c.SyncInterval = d.SyncInterval
	}
	if c.DisplayName == "" {
		c.DisplayName = d.DisplayName
	}
	if c.SelfID == "" {
		c.SelfID = d.SelfID
	}
	if c.Roster == nil {
		c.Roster = d.Roster
	}
	switch {
	case c.DisableSpawn:
		c.SpawnProbability = 0
	case c.SpawnProbability <= 0:
		c.SpawnProbability = d.SpawnProbability
	case c.SpawnProbability > 1:
		c.SpawnProbability = 1
	}
	if c.PeerLifetimeMin <= 0 {
		c.PeerLifetimeMin = d.PeerLifetimeMin
	}
	if c.PeerLifetimeMax < c.PeerLifetimeMin {
		c.PeerLifetimeMax = max(d.PeerLifetimeMax, c.PeerLifetimeMin)
	}
	if c.SavedAfter <= 0 {
		c.SavedAfter = d.SavedAfter
	}
	if c.BadgeDuration <= 0 {
		c.BadgeDuration = d.BadgeDuration
	}
	if c.BadgeFade <= 0 {
		c.BadgeFade = d.BadgeFade
	}
	if c.NotifyDelay <= 0 {
		c.NotifyDelay = d.NotifyDelay
	}
	return c
}
