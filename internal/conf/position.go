package conf

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Position is an overlay coordinate.
// It is expressed either as an absolute pixel value ("120")
// or as a percentage of the frame dimension ("45%", "12.5%").
// An empty string is equivalent to zero.
type Position struct {
	raw     string
	percent float64
	value   int
	isPct   bool
}

func (p *Position) parse(in string) error {
	if in == "" {
		*p = Position{}
		return nil
	}

	if strings.HasSuffix(in, "%") {
		percent, err := strconv.ParseFloat(in[:len(in)-1], 64)
		if err != nil {
			return fmt.Errorf("invalid position '%s'", in)
		}

		*p = Position{
			raw:     in,
			percent: percent,
			isPct:   true,
		}
		return nil
	}

	value, err := strconv.Atoi(in)
	if err != nil {
		return fmt.Errorf("invalid position '%s'", in)
	}

	*p = Position{
		raw:   in,
		value: value,
	}
	return nil
}

// Resolve converts the position into pixels against the given dimension.
func (p Position) Resolve(base int) int {
	if p.isPct {
		return int(p.percent / 100 * float64(base))
	}
	return p.value
}

// MarshalJSON implements json.Marshaler.
func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.raw)
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Position) UnmarshalJSON(b []byte) error {
	var in string
	if err := json.Unmarshal(b, &in); err != nil {
		// plain numbers are accepted too
		var iv int
		if err2 := json.Unmarshal(b, &iv); err2 != nil {
			return fmt.Errorf("invalid position %s", string(b))
		}
		*p = Position{
			raw:   strconv.Itoa(iv),
			value: iv,
		}
		return nil
	}

	return p.parse(in)
}

// UnmarshalEnv implements env.Unmarshaler.
func (p *Position) UnmarshalEnv(_ string, v string) error {
	return p.parse(v)
}
