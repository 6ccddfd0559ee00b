// Package conf contains the struct that holds the configuration of the software.
package conf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/framemark/framemark/internal/conf/env"
	"github.com/framemark/framemark/internal/conf/yamlwrapper"
	"github.com/framemark/framemark/internal/logger"
)

func firstThatExists(paths []string) string {
	for _, pa := range paths {
		_, err := os.Stat(pa)
		if err == nil {
			return pa
		}
	}
	return ""
}

// TestPattern is the testPattern parameter.
type TestPattern struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	FPS    int `json:"fps"`
	Frames int `json:"frames"`
}

// Conf is a configuration.
type Conf struct {
	// Log
	LogLevel        LogLevel        `json:"logLevel"`
	LogDestinations LogDestinations `json:"logDestinations"`
	LogFile         string          `json:"logFile"`
	LogStructured   bool            `json:"logStructured"`

	// Pipeline
	Input       string      `json:"input"`
	Output      string      `json:"output"`
	Realtime    bool        `json:"realtime"`
	Stages      []string    `json:"stages"`
	TestPattern TestPattern `json:"testPattern"`

	// Overlays
	TextBackend TextBackend `json:"textBackend"`
	Overlays    []Overlay   `json:"overlays"`

	// API
	API        bool   `json:"api"`
	APIAddress string `json:"apiAddress"`

	// Metrics
	Metrics        bool   `json:"metrics"`
	MetricsAddress string `json:"metricsAddress"`

	// pprof
	PPROF        bool   `json:"pprof"`
	PPROFAddress string `json:"pprofAddress"`

	// HTTP servers
	ReadTimeout  Duration `json:"readTimeout"`
	WriteTimeout Duration `json:"writeTimeout"`
}

func (conf *Conf) setDefaults() {
	// Log
	conf.LogLevel = LogLevel(logger.Info)
	conf.LogDestinations = LogDestinations{logger.DestinationStdout}
	conf.LogFile = "framemark.log"

	// Pipeline
	conf.Stages = []string{"overlay"}
	conf.TestPattern = TestPattern{
		Width:  1280,
		Height: 720,
		FPS:    30,
		Frames: 300,
	}

	// Overlays
	conf.TextBackend = TextBackendBuiltin

	// API
	conf.APIAddress = "127.0.0.1:9997"

	// Metrics
	conf.MetricsAddress = "127.0.0.1:9998"

	// pprof
	conf.PPROFAddress = "127.0.0.1:9999"

	// HTTP servers
	conf.ReadTimeout = Duration(10 * time.Second)
	conf.WriteTimeout = Duration(10 * time.Second)
}

// Load loads a configuration, from a file if fpath is not empty,
// then from the environment.
func Load(fpath string, defaultConfPaths []string) (*Conf, string, error) {
	conf := &Conf{}

	fpath, err := conf.loadFromFile(fpath, defaultConfPaths)
	if err != nil {
		return nil, "", err
	}

	err = env.Load("FMK", conf)
	if err != nil {
		return nil, "", err
	}

	err = conf.Validate()
	if err != nil {
		return nil, "", err
	}

	return conf, fpath, nil
}

func (conf *Conf) loadFromFile(fpath string, defaultConfPaths []string) (string, error) {
	if fpath == "" {
		fpath = firstThatExists(defaultConfPaths)

		// when the configuration file is not explicitly set,
		// it is optional.
		if fpath == "" {
			conf.setDefaults()
			return "", nil
		}
	}

	byts, err := os.ReadFile(fpath)
	if err != nil {
		return "", err
	}

	err = yamlwrapper.Unmarshal(byts, conf)
	if err != nil {
		return "", err
	}

	return fpath, nil
}

// UnmarshalJSON implements json.Unmarshaler.
// It is in charge of setting default values.
func (conf *Conf) UnmarshalJSON(b []byte) error {
	conf.setDefaults()

	type alias Conf
	d := json.NewDecoder(bytes.NewReader(b))
	d.DisallowUnknownFields()
	return d.Decode((*alias)(conf))
}

// Clone clones the configuration.
func (conf Conf) Clone() *Conf {
	enc, err := json.Marshal(conf)
	if err != nil {
		panic(err)
	}

	var dest Conf
	err = json.Unmarshal(enc, &dest)
	if err != nil {
		panic(err)
	}

	return &dest
}

// Validate checks the configuration for errors.
func (conf *Conf) Validate() error {
	// Pipeline

	if conf.Input == "" {
		if conf.TestPattern.Width <= 0 || (conf.TestPattern.Width%2) != 0 {
			return fmt.Errorf("'testPattern.width' must be a positive even number")
		}
		if conf.TestPattern.Height <= 0 || (conf.TestPattern.Height%2) != 0 {
			return fmt.Errorf("'testPattern.height' must be a positive even number")
		}
		if conf.TestPattern.FPS < 1 {
			return fmt.Errorf("'testPattern.fps' must be at least 1")
		}
		if conf.TestPattern.Frames < 0 {
			return fmt.Errorf("'testPattern.frames' must not be negative")
		}
	}

	for _, name := range conf.Stages {
		if name == "" {
			return fmt.Errorf("stage names must not be empty")
		}
	}

	// Overlays

	names := make(map[string]struct{})

	for i := range conf.Overlays {
		o := &conf.Overlays[i]

		if o.Name == "" {
			o.Name = fmt.Sprintf("overlay%d", i)
		}

		if _, ok := names[o.Name]; ok {
			return fmt.Errorf("duplicate overlay name: '%s'", o.Name)
		}
		names[o.Name] = struct{}{}

		err := o.validate()
		if err != nil {
			return fmt.Errorf("overlay '%s': %w", o.Name, err)
		}
	}

	// HTTP servers

	if conf.API && conf.APIAddress == "" {
		return fmt.Errorf("'apiAddress' must not be empty")
	}

	if conf.Metrics && conf.MetricsAddress == "" {
		return fmt.Errorf("'metricsAddress' must not be empty")
	}

	if conf.PPROF && conf.PPROFAddress == "" {
		return fmt.Errorf("'pprofAddress' must not be empty")
	}

	if conf.ReadTimeout <= 0 {
		return fmt.Errorf("'readTimeout' must be greater than 0")
	}

	if conf.WriteTimeout <= 0 {
		return fmt.Errorf("'writeTimeout' must be greater than 0")
	}

	return nil
}
