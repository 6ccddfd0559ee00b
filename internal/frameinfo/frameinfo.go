// Package frameinfo contains per-frame metadata and its textual expansion.
package frameinfo

import (
	"strconv"
	"strings"
	"time"
)

// Info is the metadata attached to a single frame.
type Info struct {
	Sequence     uint64
	FPS          float64
	ExposureTime time.Duration
	AnalogueGain float64
	DigitalGain  float64
	FocusMeasure float64
	Lux          float64
}

// ToString expands metadata placeholders inside text.
//
// Supported placeholders:
//
//	%frame  sequence number
//	%fps    instantaneous frame rate
//	%exp    exposure time, in microseconds
//	%ag     analogue gain
//	%dg     digital gain
//	%focus  focus figure of merit
//	%lux    estimated scene brightness
func (i Info) ToString(text string) string {
	r := strings.NewReplacer(
		"%frame", strconv.FormatUint(i.Sequence, 10),
		"%fps", strconv.FormatFloat(i.FPS, 'f', 2, 64),
		"%exp", strconv.FormatInt(i.ExposureTime.Microseconds(), 10),
		"%ag", strconv.FormatFloat(i.AnalogueGain, 'f', 2, 64),
		"%dg", strconv.FormatFloat(i.DigitalGain, 'f', 2, 64),
		"%focus", strconv.FormatFloat(i.FocusMeasure, 'f', 2, 64),
		"%lux", strconv.FormatFloat(i.Lux, 'f', 2, 64),
	)
	return r.Replace(text)
}
