// Package pipeline contains the frame processing pipeline.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/framemark/framemark/internal/counterdumper"
	"github.com/framemark/framemark/internal/defs"
	"github.com/framemark/framemark/internal/frame"
	"github.com/framemark/framemark/internal/logger"
)

// Pipeline pulls frames from a source, runs them through the stages in
// order and hands the survivors to a sink, one frame at a time. A single
// frame buffer is reused across the whole session.
type Pipeline struct {
	Source   defs.Source
	Stages   []defs.Stage
	Sink     defs.Sink
	Input    string
	Output   string
	Realtime bool
	Clock    clockwork.Clock
	Parent   logger.Writer

	ctx        context.Context
	ctxCancel  func()
	done       chan struct{}
	id         uuid.UUID
	created    time.Time
	throughput *counterdumper.CounterDumper

	mutex     sync.Mutex
	processed uint64
	dropped   uint64
	finished  bool
}

// Initialize configures the stages against the source geometry and
// starts processing.
func (p *Pipeline) Initialize() error {
	g := p.Source.Geometry()

	for _, st := range p.Stages {
		err := st.Configure(g)
		if err != nil {
			return fmt.Errorf("configuring stage '%s': %w", st.Name(), err)
		}
	}

	if p.Clock == nil {
		p.Clock = clockwork.NewRealClock()
	}

	p.id = uuid.New()
	p.created = time.Now()

	p.throughput = &counterdumper.CounterDumper{
		OnReport: func(val uint64) {
			p.Log(logger.Debug, "%d frames processed", val)
		},
	}
	p.throughput.Start()

	p.ctx, p.ctxCancel = context.WithCancel(context.Background())
	p.done = make(chan struct{})

	p.Log(logger.Info, "session %s created (%dx%d, %.2f fps)",
		p.id, g.Width, g.Height, p.Source.Framerate())

	go p.run()

	return nil
}

// Close stops the pipeline and waits for the current frame to drain.
func (p *Pipeline) Close() {
	p.ctxCancel()
	<-p.done
	p.throughput.Stop()
}

// Log implements logger.Writer.
func (p *Pipeline) Log(level logger.Level, format string, args ...interface{}) {
	p.Parent.Log(level, "[pipeline] "+format, args...)
}

// Done returns a channel that is closed when processing ends.
func (p *Pipeline) Done() <-chan struct{} {
	return p.done
}

func (p *Pipeline) run() {
	defer close(p.done)

	err := p.runInner()
	if err != nil {
		p.Log(logger.Error, "%s", err)
	}

	p.mutex.Lock()
	p.finished = true
	processed := p.processed
	p.mutex.Unlock()

	p.Log(logger.Info, "processing finished (%d frames)", processed)
}

func (p *Pipeline) runInner() error {
	f, err := frame.New(p.Source.Geometry())
	if err != nil {
		return err
	}

	var interval time.Duration
	var deadline time.Time
	if p.Realtime {
		interval = time.Duration(float64(time.Second) / p.Source.Framerate())
		deadline = p.Clock.Now()
	}

	for {
		select {
		case <-p.ctx.Done():
			return nil
		default:
		}

		err := p.Source.ReadFrame(f)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if p.Realtime {
			deadline = deadline.Add(interval)
			if d := deadline.Sub(p.Clock.Now()); d > 0 {
				p.Clock.Sleep(d)
			}
		}

		dropped := false
		for _, st := range p.Stages {
			if st.Process(f) {
				dropped = true
				break
			}
		}

		if !dropped {
			err = p.Sink.WriteFrame(f)
			if err != nil {
				return err
			}
		}

		p.throughput.Increase()

		p.mutex.Lock()
		p.processed++
		if dropped {
			p.dropped++
		}
		p.mutex.Unlock()
	}
}

// APIPipelineGet returns the runtime state of the pipeline.
func (p *Pipeline) APIPipelineGet() *defs.APIPipeline {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	g := p.Source.Geometry()

	return &defs.APIPipeline{
		ID:              p.id,
		Created:         p.created,
		Input:           p.Input,
		Output:          p.Output,
		Width:           g.Width,
		Height:          g.Height,
		FPS:             p.Source.Framerate(),
		FramesProcessed: p.processed,
		FramesDropped:   p.dropped,
		Finished:        p.finished,
	}
}
