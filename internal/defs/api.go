package defs

import (
	"time"

	"github.com/google/uuid"
)

// APIError is a generic error.
type APIError struct {
	Error string `json:"error"`
}

// APIInfo contains generic program information.
type APIInfo struct {
	Version string    `json:"version"`
	Started time.Time `json:"started"`
}

// APIOverlay is the runtime state of an overlay.
type APIOverlay struct {
	Name                   string     `json:"name"`
	Dynamic                bool       `json:"dynamic"`
	State                  string     `json:"state"`
	LastText               string     `json:"lastText"`
	PatchX                 int        `json:"patchX"`
	PatchY                 int        `json:"patchY"`
	PatchWidth             int        `json:"patchWidth"`
	PatchHeight            int        `json:"patchHeight"`
	LastUpdated            *time.Time `json:"lastUpdated"`
	Regenerations          uint64     `json:"regenerations"`
	IdenticalRegenerations uint64     `json:"identicalRegenerations"`
	Skips                  uint64     `json:"skips"`
	CacheBytes             uint64     `json:"cacheBytes"`
	CacheSize              string     `json:"cacheSize"`
	Digest                 string     `json:"digest"`
}

// APIOverlayList is a list of overlays.
type APIOverlayList struct {
	ItemCount int           `json:"itemCount"`
	PageCount int           `json:"pageCount"`
	Items     []*APIOverlay `json:"items"`
}

// APIPipeline is the runtime state of the pipeline.
type APIPipeline struct {
	ID              uuid.UUID `json:"id"`
	Created         time.Time `json:"created"`
	Input           string    `json:"input"`
	Output          string    `json:"output"`
	Width           int       `json:"width"`
	Height          int       `json:"height"`
	FPS             float64   `json:"fps"`
	FramesProcessed uint64    `json:"framesProcessed"`
	FramesDropped   uint64    `json:"framesDropped"`
	Finished        bool      `json:"finished"`
}
