package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseHSL(t *testing.T) {
	tests := []struct {
		input   string
		want    HSLColor
		wantErr bool
	}{
		{"hsl(10, 70%, 60%)", HSLColor{10, 70, 60}, false},
		{"hsl(210,70%,60%)", HSLColor{210, 70, 60}, false},
		{"  hsl( 0 , 0 , 0 ) ", HSLColor{0, 0, 0}, false},
		{"hsl(360, 70%, 60%)", HSLColor{}, true},
		{"hsl(10, 170%, 60%)", HSLColor{}, true},
		{"rgb(1, 2, 3)", HSLColor{}, true},
		{"#28a745", HSLColor{}, true},
		{"", HSLColor{}, true},
	}

	for _, tt := range tests {
		got, err := ParseHSL(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseHSL(%q) expected error", tt.input)
			} else if !errors.Is(err, ErrInvalidColor) {
				t.Errorf("ParseHSL(%q) error = %v, want ErrInvalidColor", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseHSL(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHSL(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}

func TestHSLColorString(t *testing.T) {
	c := HSLColor{H: 10, S: 70, L: 60}
	if got := c.String(); got != "hsl(10, 70%, 60%)" {
		t.Errorf("String() = %q", got)
	}
}

func TestHSLColorDarken(t *testing.T) {
	t.Run("lowers lightness", func(t *testing.T) {
		c := HSLColor{H: 10, S: 70, L: 60}.Darken(20)
		if c.L != 40 {
			t.Errorf("expected L=40, got %d", c.L)
		}
		if c.H != 10 || c.S != 70 {
			t.Error("hue and saturation must be preserved")
		}
	})

	t.Run("floors at zero", func(t *testing.T) {
		c := HSLColor{H: 10, S: 70, L: 15}.Darken(20)
		if c.L != 0 {
			t.Errorf("expected L=0, got %d", c.L)
		}
	})
}

func TestHSLColorContrast(t *testing.T) {
	if got := (HSLColor{L: 61}).Contrast(); got != "#000" {
		t.Errorf("light colour contrast = %s, want #000", got)
	}
	if got := (HSLColor{L: 60}).Contrast(); got != "#fff" {
		t.Errorf("60%% lightness contrast = %s, want #fff", got)
	}
}

func TestHSLColorJSON(t *testing.T) {
	entry := PresenceEntry{ID: "u1", DisplayName: "Carlos", Color: HSLColor{10, 70, 60}}

	data, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}
	if raw["color"] != "hsl(10, 70%, 60%)" {
		t.Errorf("color serialized as %v, want CSS string", raw["color"])
	}

	var back PresenceEntry
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Color != entry.Color {
		t.Errorf("color round trip = %+v, want %+v", back.Color, entry.Color)
	}
}
