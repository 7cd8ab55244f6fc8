package codec

import (
	"fmt"
	"io"

	"blogauto/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// ContentType returns the HTTP content type of exported data
func (c *YAMLCodec) ContentType() string {
	return "application/yaml"
}

// Parse imports a snapshot from YAML. Colours are written in hsl() notation.
func (c *YAMLCodec) Parse(r io.Reader) (*domain.PresenceSnapshot, error) {
	var snap domain.PresenceSnapshot
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validate(&snap); err != nil {
		return nil, err
	}

	return &snap, nil
}

// Export exports a snapshot to YAML
func (c *YAMLCodec) Export(snap *domain.PresenceSnapshot, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return encoder.Close()
}
