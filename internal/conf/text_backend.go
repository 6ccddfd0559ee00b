package conf

import (
	"encoding/json"
	"fmt"
)

// TextBackend is the textBackend parameter.
type TextBackend int

// Text backends.
const (
	TextBackendBuiltin TextBackend = iota
	TextBackendOpenCV
)

// MarshalJSON implements json.Marshaler.
func (d TextBackend) MarshalJSON() ([]byte, error) {
	var out string

	switch d {
	case TextBackendBuiltin:
		out = "builtin"

	case TextBackendOpenCV:
		out = "opencv"

	default:
		return nil, fmt.Errorf("invalid text backend: %v", d)
	}

	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *TextBackend) UnmarshalJSON(b []byte) error {
	var in string
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}

	switch in {
	case "builtin":
		*d = TextBackendBuiltin

	case "opencv":
		*d = TextBackendOpenCV

	default:
		return fmt.Errorf("invalid text backend: '%s'", in)
	}

	return nil
}

// UnmarshalEnv implements env.Unmarshaler.
func (d *TextBackend) UnmarshalEnv(_ string, v string) error {
	return d.UnmarshalJSON([]byte(`"` + v + `"`))
}
