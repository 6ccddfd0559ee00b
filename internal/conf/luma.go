package conf

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Luma is a grayscale pixel value in the range [0, 255].
type Luma int

// MarshalJSON implements json.Marshaler.
func (l Luma) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(l))
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Luma) UnmarshalJSON(b []byte) error {
	var in int
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}

	if in < 0 || in > 255 {
		return fmt.Errorf("luma value must be in the range [0, 255], got %d", in)
	}

	*l = Luma(in)
	return nil
}

// UnmarshalEnv implements env.Unmarshaler.
func (l *Luma) UnmarshalEnv(_ string, v string) error {
	in, err := strconv.Atoi(v)
	if err != nil {
		return err
	}

	if in < 0 || in > 255 {
		return fmt.Errorf("luma value must be in the range [0, 255], got %d", in)
	}

	*l = Luma(in)
	return nil
}
