package metrics

import (
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/framemark/framemark/internal/conf"
	"github.com/framemark/framemark/internal/defs"
	"github.com/framemark/framemark/internal/test"
)

type testOverlays struct{}

func (*testOverlays) APIOverlaysList() *defs.APIOverlayList {
	return &defs.APIOverlayList{
		Items: []*defs.APIOverlay{
			{
				Name:                   "clock",
				Regenerations:          12,
				IdenticalRegenerations: 3,
				Skips:                  1,
				CacheBytes:             520,
			},
		},
	}
}

type testPipeline struct{}

func (*testPipeline) APIPipelineGet() *defs.APIPipeline {
	return &defs.APIPipeline{
		FramesProcessed: 100,
		FramesDropped:   2,
	}
}

func TestMetrics(t *testing.T) {
	m := &Metrics{
		Address:      "localhost:9998",
		ReadTimeout:  conf.Duration(10 * time.Second),
		WriteTimeout: conf.Duration(10 * time.Second),
		Parent:       test.NilLogger,
	}
	require.NoError(t, m.Initialize())
	defer m.Close()

	m.SetOverlays(&testOverlays{})
	m.SetPipeline(&testPipeline{})

	tr := &http.Transport{}
	defer tr.CloseIdleConnections()
	hc := &http.Client{Transport: tr}

	res, err := hc.Get("http://localhost:9998/metrics")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	byts, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	require.Equal(t, "framemark_frames_processed 100\n"+
		"framemark_frames_dropped 2\n"+
		"framemark_overlays 1\n"+
		"framemark_overlay_regenerations{name=\"clock\"} 12\n"+
		"framemark_overlay_identical_regenerations{name=\"clock\"} 3\n"+
		"framemark_overlay_skips{name=\"clock\"} 1\n"+
		"framemark_overlay_cache_bytes{name=\"clock\"} 520\n",
		string(byts))
}

func TestMetricsEmpty(t *testing.T) {
	m := &Metrics{
		Address:      "localhost:9998",
		ReadTimeout:  conf.Duration(10 * time.Second),
		WriteTimeout: conf.Duration(10 * time.Second),
		Parent:       test.NilLogger,
	}
	require.NoError(t, m.Initialize())
	defer m.Close()

	tr := &http.Transport{}
	defer tr.CloseIdleConnections()
	hc := &http.Client{Transport: tr}

	res, err := hc.Get("http://localhost:9998/metrics")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	byts, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.Empty(t, byts)
}
