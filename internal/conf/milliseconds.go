package conf

import (
	"encoding/json"
	"fmt"
	"time"
)

// Milliseconds is a duration expressed as an integer number of milliseconds.
type Milliseconds time.Duration

// MarshalJSON implements json.Marshaler.
func (d Milliseconds) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).Milliseconds())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Milliseconds) UnmarshalJSON(b []byte) error {
	var in int64
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}

	if in < 0 {
		return fmt.Errorf("invalid milliseconds: %d", in)
	}

	*d = Milliseconds(time.Duration(in) * time.Millisecond)
	return nil
}

// UnmarshalEnv implements env.Unmarshaler.
func (d *Milliseconds) UnmarshalEnv(_ string, v string) error {
	return d.UnmarshalJSON([]byte(v))
}
