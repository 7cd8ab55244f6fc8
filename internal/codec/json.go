package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"blogauto/internal/domain"
)

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// ContentType returns the HTTP content type of exported data
func (c *JSONCodec) ContentType() string {
	return "application/json"
}

// Parse imports a snapshot from JSON
func (c *JSONCodec) Parse(r io.Reader) (*domain.PresenceSnapshot, error) {
	var snap domain.PresenceSnapshot
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if err := validate(&snap); err != nil {
		return nil, err
	}

	return &snap, nil
}

// Export exports a snapshot to JSON
func (c *JSONCodec) Export(snap *domain.PresenceSnapshot, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
