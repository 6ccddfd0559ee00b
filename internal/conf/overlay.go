package conf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Overlay is the configuration of a single text overlay.
type Overlay struct {
	Name           string       `json:"name"`
	Text           string       `json:"text"`
	Foreground     Luma         `json:"fg"`
	Background     *Luma        `json:"bg"`
	Scale          float64      `json:"scale"`
	Thickness      int          `json:"thickness"`
	Alpha          float64      `json:"alpha"`
	X              Position     `json:"x"`
	Y              Position     `json:"y"`
	UpdateInterval Milliseconds `json:"update_interval"`
	BorderWidth    int          `json:"border_width"`
	BorderColor    Luma         `json:"border_color"`
}

// SetDefaults implements env.Defaulter.
func (o *Overlay) SetDefaults() {
	o.Foreground = 255
	o.Scale = 1.0
	o.Thickness = 2
	o.Alpha = 0.5
	o.UpdateInterval = Milliseconds(1000 * time.Millisecond)
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Overlay) UnmarshalJSON(b []byte) error {
	o.SetDefaults()

	type alias Overlay
	d := json.NewDecoder(bytes.NewReader(b))
	d.DisallowUnknownFields()
	return d.Decode((*alias)(o))
}

func (o *Overlay) validate() error {
	if o.Text == "" {
		return fmt.Errorf("'text' is required")
	}

	if o.Scale <= 0 {
		return fmt.Errorf("'scale' must be greater than 0")
	}

	if o.Thickness < 1 {
		return fmt.Errorf("'thickness' must be at least 1")
	}

	if o.Alpha < 0 || o.Alpha > 1 {
		return fmt.Errorf("'alpha' must be in the range [0, 1]")
	}

	if o.BorderWidth < 0 {
		return fmt.Errorf("'border_width' must not be negative")
	}

	return nil
}
