// Package metrics contains the metrics provider.
package metrics

import (
	"io"
	"net/http"
	"reflect"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/framemark/framemark/internal/conf"
	"github.com/framemark/framemark/internal/defs"
	"github.com/framemark/framemark/internal/logger"
	"github.com/framemark/framemark/internal/protocols/httpp"
)

func interfaceIsEmpty(i interface{}) bool {
	return reflect.ValueOf(i).Kind() != reflect.Pointer || reflect.ValueOf(i).IsNil()
}

func metric(key string, tags string, value uint64) string {
	return key + tags + " " + strconv.FormatUint(value, 10) + "\n"
}

type metricsOverlays interface {
	APIOverlaysList() *defs.APIOverlayList
}

type metricsPipeline interface {
	APIPipelineGet() *defs.APIPipeline
}

type metricsParent interface {
	logger.Writer
}

// Metrics is a metrics provider.
type Metrics struct {
	Address      string
	ReadTimeout  conf.Duration
	WriteTimeout conf.Duration
	Parent       metricsParent

	httpServer *httpp.Server
	mutex      sync.Mutex
	overlays   metricsOverlays
	pipeline   metricsPipeline
}

// Initialize initializes Metrics.
func (m *Metrics) Initialize() error {
	router := gin.New()
	router.SetTrustedProxies(nil) //nolint:errcheck
	router.GET("/metrics", m.onMetrics)

	m.httpServer = &httpp.Server{
		Address:      m.Address,
		ReadTimeout:  time.Duration(m.ReadTimeout),
		WriteTimeout: time.Duration(m.WriteTimeout),
		Handler:      router,
		Parent:       m,
	}
	err := m.httpServer.Initialize()
	if err != nil {
		return err
	}

	m.Log(logger.Info, "listener opened on "+m.Address)

	return nil
}

// Close closes Metrics.
func (m *Metrics) Close() {
	m.Log(logger.Info, "listener is closing")
	m.httpServer.Close()
}

// Log implements logger.Writer.
func (m *Metrics) Log(level logger.Level, format string, args ...interface{}) {
	m.Parent.Log(level, "[metrics] "+format, args...)
}

func (m *Metrics) onMetrics(ctx *gin.Context) {
	m.mutex.Lock()
	overlays := m.overlays
	pipeline := m.pipeline
	m.mutex.Unlock()

	out := ""

	if !interfaceIsEmpty(pipeline) {
		data := pipeline.APIPipelineGet()
		out += metric("framemark_frames_processed", "", data.FramesProcessed)
		out += metric("framemark_frames_dropped", "", data.FramesDropped)
	}

	if !interfaceIsEmpty(overlays) {
		data := overlays.APIOverlaysList()
		out += metric("framemark_overlays", "", uint64(len(data.Items)))

		for _, i := range data.Items {
			tags := "{name=\"" + i.Name + "\"}"
			out += metric("framemark_overlay_regenerations", tags, i.Regenerations)
			out += metric("framemark_overlay_identical_regenerations", tags, i.IdenticalRegenerations)
			out += metric("framemark_overlay_skips", tags, i.Skips)
			out += metric("framemark_overlay_cache_bytes", tags, i.CacheBytes)
		}
	}

	ctx.Writer.WriteHeader(http.StatusOK)
	io.WriteString(ctx.Writer, out)
}

// SetOverlays is called by core.
func (m *Metrics) SetOverlays(s metricsOverlays) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.overlays = s
}

// SetPipeline is called by core.
func (m *Metrics) SetPipeline(s metricsPipeline) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.pipeline = s
}
