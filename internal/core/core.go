// Package core contains the main struct of the software.
package core

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"reflect"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gin-gonic/gin"

	"github.com/framemark/framemark/internal/api"
	"github.com/framemark/framemark/internal/conf"
	"github.com/framemark/framemark/internal/confwatcher"
	"github.com/framemark/framemark/internal/defs"
	"github.com/framemark/framemark/internal/draw"
	"github.com/framemark/framemark/internal/logger"
	"github.com/framemark/framemark/internal/metrics"
	"github.com/framemark/framemark/internal/overlay"
	"github.com/framemark/framemark/internal/pipeline"
	"github.com/framemark/framemark/internal/pprof"
	"github.com/framemark/framemark/internal/sink"
	"github.com/framemark/framemark/internal/source"
	"github.com/framemark/framemark/internal/stage"
)

var version = "v0.0.0"

var defaultConfPaths = []string{
	"framemark.yml",
	"/usr/local/etc/framemark.yml",
	"/usr/etc/framemark.yml",
	"/etc/framemark/framemark.yml",
}

var cli struct {
	Version  bool   `help:"print version"`
	Confpath string `arg:"" default:""`
}

// Core is an instance of framemark.
type Core struct {
	ctx          context.Context
	ctxCancel    func()
	confPath     string
	conf         *conf.Conf
	started      time.Time
	logger       *logger.Logger
	metrics      *metrics.Metrics
	pprof        *pprof.PPROF
	drawer       draw.TextDrawer
	source       defs.Source
	overlayStage *overlay.Stage
	stages       []defs.Stage
	sink         defs.Sink
	pipeline     *pipeline.Pipeline
	api          *api.API
	confWatcher  *confwatcher.ConfWatcher

	// in
	chAPIConfigSet chan *conf.Conf

	// out
	done chan struct{}
}

// New allocates a Core.
func New(args []string) (*Core, bool) {
	parser, err := kong.New(&cli,
		kong.Description("framemark "+version),
		kong.UsageOnError(),
		kong.ValueFormatter(func(value *kong.Value) string {
			switch value.Name {
			case "confpath":
				return "path to a config file. The default is framemark.yml."

			default:
				return kong.DefaultHelpValueFormatter(value)
			}
		}))
	if err != nil {
		panic(err)
	}

	_, err = parser.Parse(args)
	parser.FatalIfErrorf(err)

	if cli.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	ctx, ctxCancel := context.WithCancel(context.Background())

	p := &Core{
		ctx:            ctx,
		ctxCancel:      ctxCancel,
		started:        time.Now(),
		chAPIConfigSet: make(chan *conf.Conf),
		done:           make(chan struct{}),
	}

	p.conf, p.confPath, err = conf.Load(cli.Confpath, defaultConfPaths)
	if err != nil {
		fmt.Printf("ERR: %s\n", err)
		return nil, false
	}

	err = p.createResources(true)
	if err != nil {
		if p.logger != nil {
			p.Log(logger.Error, "%s", err)
		} else {
			fmt.Printf("ERR: %s\n", err)
		}
		p.closeResources(nil)
		return nil, false
	}

	go p.run()

	return p, true
}

// Close closes Core and waits for all goroutines to return.
func (p *Core) Close() {
	p.ctxCancel()
	<-p.done
}

// Wait waits for the Core to exit.
func (p *Core) Wait() {
	<-p.done
}

// Log implements logger.Writer.
func (p *Core) Log(level logger.Level, format string, args ...interface{}) {
	p.logger.Log(level, format, args...)
}

func (p *Core) run() {
	defer close(p.done)

	confChanged := func() chan struct{} {
		if p.confWatcher != nil {
			return p.confWatcher.Watch()
		}
		return make(chan struct{})
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

outer:
	for {
		select {
		case <-confChanged:
			p.Log(logger.Info, "reloading configuration (file changed)")

			newConf, _, err := conf.Load(p.confPath, nil)
			if err != nil {
				p.Log(logger.Error, "%s", err)
				break outer
			}

			err = p.reloadConf(newConf)
			if err != nil {
				p.Log(logger.Error, "%s", err)
				break outer
			}

		case newConf := <-p.chAPIConfigSet:
			p.Log(logger.Info, "reloading configuration (API request)")

			err := p.reloadConf(newConf)
			if err != nil {
				p.Log(logger.Error, "%s", err)
				break outer
			}

		case <-p.pipeline.Done():
			break outer

		case <-interrupt:
			p.Log(logger.Info, "shutting down gracefully")
			break outer

		case <-p.ctx.Done():
			break outer
		}
	}

	p.ctxCancel()

	p.closeResources(nil)
}

func (p *Core) createDrawer() (draw.TextDrawer, error) {
	switch p.conf.TextBackend {
	case conf.TextBackendOpenCV:
		return draw.NewOpenCV()

	default:
		return draw.NewBuiltin()
	}
}

func (p *Core) createSource() (defs.Source, error) {
	if p.conf.Input == "" {
		s := &source.TestPattern{
			Width:  p.conf.TestPattern.Width,
			Height: p.conf.TestPattern.Height,
			FPS:    p.conf.TestPattern.FPS,
			Frames: p.conf.TestPattern.Frames,
			Parent: p,
		}
		err := s.Initialize()
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	s := &source.File{
		Path:   p.conf.Input,
		Parent: p,
	}
	err := s.Initialize()
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (p *Core) createStages() error {
	for _, name := range p.conf.Stages {
		switch name {
		case "overlay":
			st := &overlay.Stage{
				Overlays: p.conf.Overlays,
				Drawer:   p.drawer,
				Parent:   p,
			}
			err := st.Initialize()
			if err != nil {
				return err
			}
			p.overlayStage = st
			p.stages = append(p.stages, st)

		case "negate":
			p.stages = append(p.stages, &stage.Negate{})

		default:
			return fmt.Errorf("unsupported stage '%s'", name)
		}
	}

	return nil
}

func (p *Core) createSink() (defs.Sink, error) {
	if p.conf.Output == "" {
		return &sink.Discard{}, nil
	}

	s := &sink.File{
		Path:      p.conf.Output,
		Geometry:  p.source.Geometry(),
		Framerate: p.source.Framerate(),
		Parent:    p,
	}
	err := s.Initialize()
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (p *Core) createResources(initial bool) error {
	var err error

	if p.logger == nil {
		p.logger = &logger.Logger{
			Level:        logger.Level(p.conf.LogLevel),
			Destinations: p.conf.LogDestinations,
			File:         p.conf.LogFile,
			Structured:   p.conf.LogStructured,
		}
		err = p.logger.Initialize()
		if err != nil {
			return err
		}
	}

	if initial {
		p.Log(logger.Info, "framemark %s", version)
		if p.confPath == "" {
			p.Log(logger.Warn, "configuration file not found, using defaults")
		}

		gin.SetMode(gin.ReleaseMode)
	}

	if p.conf.Metrics {
		if p.metrics == nil {
			p.metrics = &metrics.Metrics{
				Address:      p.conf.MetricsAddress,
				ReadTimeout:  p.conf.ReadTimeout,
				WriteTimeout: p.conf.WriteTimeout,
				Parent:       p,
			}
			err = p.metrics.Initialize()
			if err != nil {
				return err
			}
		}
	}

	if p.conf.PPROF {
		if p.pprof == nil {
			p.pprof = &pprof.PPROF{
				Address:      p.conf.PPROFAddress,
				ReadTimeout:  p.conf.ReadTimeout,
				WriteTimeout: p.conf.WriteTimeout,
				Parent:       p,
			}
			err = p.pprof.Initialize()
			if err != nil {
				return err
			}
		}
	}

	if p.pipeline == nil {
		p.drawer, err = p.createDrawer()
		if err != nil {
			return err
		}

		p.source, err = p.createSource()
		if err != nil {
			return err
		}

		err = p.createStages()
		if err != nil {
			return err
		}

		p.sink, err = p.createSink()
		if err != nil {
			return err
		}

		p.pipeline = &pipeline.Pipeline{
			Source:   p.source,
			Stages:   p.stages,
			Sink:     p.sink,
			Input:    p.inputName(),
			Output:   p.outputName(),
			Realtime: p.conf.Realtime,
			Parent:   p,
		}
		err = p.pipeline.Initialize()
		if err != nil {
			return err
		}
	}

	if p.metrics != nil {
		p.metrics.SetOverlays(p.overlayStage)
		p.metrics.SetPipeline(p.pipeline)
	}

	if p.conf.API {
		if p.api == nil {
			p.api = &api.API{
				Version:      version,
				Started:      p.started,
				Address:      p.conf.APIAddress,
				ReadTimeout:  p.conf.ReadTimeout,
				WriteTimeout: p.conf.WriteTimeout,
				Conf:         p.conf,
				Overlays:     p.overlayStage,
				Pipeline:     p.pipeline,
				Parent:       p,
			}
			err = p.api.Initialize()
			if err != nil {
				return err
			}
		}
	}

	if initial && p.confPath != "" {
		p.confWatcher = &confwatcher.ConfWatcher{FilePath: p.confPath}
		err = p.confWatcher.Initialize()
		if err != nil {
			return err
		}
	}

	return nil
}

func (p *Core) inputName() string {
	if p.conf.Input == "" {
		return "testPattern"
	}
	return p.conf.Input
}

func (p *Core) outputName() string {
	if p.conf.Output == "" {
		return "discard"
	}
	return p.conf.Output
}

func (p *Core) closeResources(newConf *conf.Conf) {
	closeLogger := newConf == nil ||
		newConf.LogLevel != p.conf.LogLevel ||
		!reflect.DeepEqual(newConf.LogDestinations, p.conf.LogDestinations) ||
		newConf.LogFile != p.conf.LogFile ||
		newConf.LogStructured != p.conf.LogStructured

	closeMetrics := newConf == nil ||
		newConf.Metrics != p.conf.Metrics ||
		newConf.MetricsAddress != p.conf.MetricsAddress ||
		newConf.ReadTimeout != p.conf.ReadTimeout ||
		newConf.WriteTimeout != p.conf.WriteTimeout

	closePPROF := newConf == nil ||
		newConf.PPROF != p.conf.PPROF ||
		newConf.PPROFAddress != p.conf.PPROFAddress ||
		newConf.ReadTimeout != p.conf.ReadTimeout ||
		newConf.WriteTimeout != p.conf.WriteTimeout

	closePipeline := newConf == nil ||
		newConf.Input != p.conf.Input ||
		newConf.Output != p.conf.Output ||
		newConf.Realtime != p.conf.Realtime ||
		newConf.TestPattern != p.conf.TestPattern ||
		newConf.TextBackend != p.conf.TextBackend ||
		!reflect.DeepEqual(newConf.Stages, p.conf.Stages)
	if !closePipeline && p.overlayStage != nil &&
		!reflect.DeepEqual(newConf.Overlays, p.conf.Overlays) {
		p.overlayStage.ReloadOverlays(newConf.Overlays)
	}

	closeAPI := newConf == nil ||
		newConf.API != p.conf.API ||
		newConf.APIAddress != p.conf.APIAddress ||
		newConf.ReadTimeout != p.conf.ReadTimeout ||
		newConf.WriteTimeout != p.conf.WriteTimeout ||
		closePipeline

	if newConf == nil && p.confWatcher != nil {
		p.confWatcher.Close()
		p.confWatcher = nil
	}

	if p.api != nil {
		if closeAPI {
			p.api.Close()
			p.api = nil
		} else {
			p.api.ReloadConf(newConf)
		}
	}

	if closePipeline {
		if p.pipeline != nil {
			p.pipeline.Close()
			p.pipeline = nil
		}

		for _, st := range p.stages {
			st.Close()
		}
		p.stages = nil
		p.overlayStage = nil

		if p.sink != nil {
			err := p.sink.Close()
			if err != nil {
				p.Log(logger.Error, "%s", err)
			}
			p.sink = nil
		}

		if p.source != nil {
			err := p.source.Close()
			if err != nil {
				p.Log(logger.Error, "%s", err)
			}
			p.source = nil
		}

		if p.drawer != nil {
			err := p.drawer.Close()
			if err != nil {
				p.Log(logger.Error, "%s", err)
			}
			p.drawer = nil
		}
	}

	if closePPROF && p.pprof != nil {
		p.pprof.Close()
		p.pprof = nil
	}

	if closeMetrics && p.metrics != nil {
		p.metrics.Close()
		p.metrics = nil
	}

	if closeLogger {
		p.logger.Close()
		p.logger = nil
	}
}

func (p *Core) reloadConf(newConf *conf.Conf) error {
	p.closeResources(newConf)
	p.conf = newConf
	return p.createResources(false)
}

// APIConfigReload is called by api.
func (p *Core) APIConfigReload() error {
	if p.confPath == "" {
		return fmt.Errorf("no configuration file was loaded")
	}

	newConf, _, err := conf.Load(p.confPath, nil)
	if err != nil {
		return err
	}

	go p.apiConfigSet(newConf)

	return nil
}

func (p *Core) apiConfigSet(conf *conf.Conf) {
	select {
	case p.chAPIConfigSet <- conf:
	case <-p.ctx.Done():
	}
}
