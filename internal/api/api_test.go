package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/framemark/framemark/internal/conf"
	"github.com/framemark/framemark/internal/defs"
	"github.com/framemark/framemark/internal/logger"
)

type testParent struct {
	reloadErr error
	reloaded  bool
}

func (*testParent) Log(_ logger.Level, _ string, _ ...interface{}) {
}

func (p *testParent) APIConfigReload() error {
	p.reloaded = true
	return p.reloadErr
}

type testOverlays struct {
	count int
}

func (o *testOverlays) APIOverlaysList() *defs.APIOverlayList {
	items := make([]*defs.APIOverlay, o.count)
	for i := range items {
		items[i] = &defs.APIOverlay{
			Name:  fmt.Sprintf("overlay%d", i),
			State: "cached",
		}
	}
	return &defs.APIOverlayList{Items: items}
}

type testPipeline struct{}

func (*testPipeline) APIPipelineGet() *defs.APIPipeline {
	return &defs.APIPipeline{
		Input:           "in.y4m",
		Output:          "out.y4m",
		Width:           640,
		Height:          480,
		FPS:             25,
		FramesProcessed: 42,
	}
}

func httpRequest(t *testing.T, hc *http.Client, method string, ur string, in interface{}, out interface{}) {
	buf := func() io.Reader {
		if in == nil {
			return nil
		}

		byts, err := json.Marshal(in)
		require.NoError(t, err)

		return bytes.NewBuffer(byts)
	}()

	req, err := http.NewRequest(method, ur, buf)
	require.NoError(t, err)

	res, err := hc.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Errorf("bad status code: %d", res.StatusCode)
	}

	if out == nil {
		return
	}

	err = json.NewDecoder(res.Body).Decode(out)
	require.NoError(t, err)
}

func newTestAPI(parent *testParent) *API {
	cnf, _, _ := conf.Load("", nil)

	return &API{
		Version:      "v0.0.0",
		Started:      time.Now(),
		Address:      "localhost:9997",
		ReadTimeout:  conf.Duration(10 * time.Second),
		WriteTimeout: conf.Duration(10 * time.Second),
		Conf:         cnf,
		Overlays:     &testOverlays{count: 3},
		Pipeline:     &testPipeline{},
		Parent:       parent,
	}
}

func TestInfo(t *testing.T) {
	a := newTestAPI(&testParent{})
	require.NoError(t, a.Initialize())
	defer a.Close()

	tr := &http.Transport{}
	defer tr.CloseIdleConnections()
	hc := &http.Client{Transport: tr}

	var out map[string]interface{}
	httpRequest(t, hc, http.MethodGet, "http://localhost:9997/v1/info", nil, &out)
	require.Equal(t, "v0.0.0", out["version"])
}

func TestConfigGlobalGet(t *testing.T) {
	a := newTestAPI(&testParent{})
	require.NoError(t, a.Initialize())
	defer a.Close()

	tr := &http.Transport{}
	defer tr.CloseIdleConnections()
	hc := &http.Client{Transport: tr}

	var out map[string]interface{}
	httpRequest(t, hc, http.MethodGet, "http://localhost:9997/v1/config/global/get", nil, &out)
	require.Equal(t, "builtin", out["textBackend"])
}

func TestConfigReload(t *testing.T) {
	parent := &testParent{}
	a := newTestAPI(parent)
	require.NoError(t, a.Initialize())
	defer a.Close()

	tr := &http.Transport{}
	defer tr.CloseIdleConnections()
	hc := &http.Client{Transport: tr}

	httpRequest(t, hc, http.MethodPost, "http://localhost:9997/v1/config/reload", nil, nil)
	require.True(t, parent.reloaded)
}

func TestConfigReloadError(t *testing.T) {
	parent := &testParent{reloadErr: fmt.Errorf("invalid configuration")}
	a := newTestAPI(parent)
	require.NoError(t, a.Initialize())
	defer a.Close()

	tr := &http.Transport{}
	defer tr.CloseIdleConnections()
	hc := &http.Client{Transport: tr}

	res, err := hc.Post("http://localhost:9997/v1/config/reload", "application/json", nil)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusBadRequest, res.StatusCode)

	var resErr map[string]interface{}
	err = json.NewDecoder(res.Body).Decode(&resErr)
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{"error": "invalid configuration"}, resErr)
}

func TestOverlaysList(t *testing.T) {
	a := newTestAPI(&testParent{})
	require.NoError(t, a.Initialize())
	defer a.Close()

	tr := &http.Transport{}
	defer tr.CloseIdleConnections()
	hc := &http.Client{Transport: tr}

	var out struct {
		ItemCount int `json:"itemCount"`
		PageCount int `json:"pageCount"`
		Items     []struct {
			Name  string `json:"name"`
			State string `json:"state"`
		} `json:"items"`
	}
	httpRequest(t, hc, http.MethodGet,
		"http://localhost:9997/v1/overlays/list?itemsPerPage=2&page=1", nil, &out)

	require.Equal(t, 3, out.ItemCount)
	require.Equal(t, 2, out.PageCount)
	require.Len(t, out.Items, 1)
	require.Equal(t, "overlay2", out.Items[0].Name)
}

func TestPipelineGet(t *testing.T) {
	a := newTestAPI(&testParent{})
	require.NoError(t, a.Initialize())
	defer a.Close()

	tr := &http.Transport{}
	defer tr.CloseIdleConnections()
	hc := &http.Client{Transport: tr}

	var out map[string]interface{}
	httpRequest(t, hc, http.MethodGet, "http://localhost:9997/v1/pipeline/get", nil, &out)
	require.Equal(t, "in.y4m", out["input"])
	require.Equal(t, float64(42), out["framesProcessed"])
}
