// Package codec converts presence snapshots to and from wire formats.
package codec

import (
	"fmt"
	"io"
	"strings"

	"blogauto/internal/domain"
)

// Importer interface for reading presence snapshots from various formats
type Importer interface {
	Parse(r io.Reader) (*domain.PresenceSnapshot, error)
	Format() string
}

// Exporter interface for writing presence snapshots to various formats
type Exporter interface {
	Export(snap *domain.PresenceSnapshot, w io.Writer) error
	Format() string
	ContentType() string
}

// Codec both imports and exports
type Codec interface {
	Importer
	Exporter
}

// ForFormat returns the codec for a format name. An empty name selects JSON.
func ForFormat(format string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// validate rejects snapshots that cannot be replayed onto a surface
func validate(snap *domain.PresenceSnapshot) error {
	for i, e := range snap.Entries {
		if strings.TrimSpace(e.ID) == "" {
			return fmt.Errorf("entry %d: id is required", i)
		}
		if err := e.Color.Validate(); err != nil {
			return fmt.Errorf("entry %s: %w", e.ID, err)
		}
	}
	return nil
}
