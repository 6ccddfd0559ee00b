// Package api contains the API server.
package api

import (
	"net/http"
	"reflect"
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

type apiOverlays interface {
	APIOverlaysList() *defs.APIOverlayList
}

type apiPipeline interface {
	APIPipelineGet() *defs.APIPipeline
}

type apiParent interface {
	logger.Writer

	// APIConfigReload reloads the configuration from disk.
	// The new configuration is applied asynchronously.
	APIConfigReload() error
}

// API is an API server.
type API struct {
	Version      string
	Started      time.Time
	Address      string
	ReadTimeout  conf.Duration
	WriteTimeout conf.Duration
	Conf         *conf.Conf
	Overlays     apiOverlays
	Pipeline     apiPipeline
	Parent       apiParent

	httpServer *httpp.Server
	mutex      sync.RWMutex
}

// Initialize initializes API.
func (a *API) Initialize() error {
	router := gin.New()
	router.SetTrustedProxies(nil) //nolint:errcheck

	group := router.Group("/v1")

	group.GET("/info", a.onInfo)

	group.GET("/config/global/get", a.onConfigGlobalGet)
	group.POST("/config/reload", a.onConfigReload)

	if !interfaceIsEmpty(a.Overlays) {
		group.GET("/overlays/list", a.onOverlaysList)
	}

	if !interfaceIsEmpty(a.Pipeline) {
		group.GET("/pipeline/get", a.onPipelineGet)
	}

	a.httpServer = &httpp.Server{
		Address:      a.Address,
		ReadTimeout:  time.Duration(a.ReadTimeout),
		WriteTimeout: time.Duration(a.WriteTimeout),
		Handler:      router,
		Parent:       a,
	}
	err := a.httpServer.Initialize()
	if err != nil {
		return err
	}

	a.Log(logger.Info, "listener opened on "+a.Address)

	return nil
}

// Close closes the API.
func (a *API) Close() {
	a.Log(logger.Info, "listener is closing")
	a.httpServer.Close()
}

// Log implements logger.Writer.
func (a *API) Log(level logger.Level, format string, args ...interface{}) {
	a.Parent.Log(level, "[API] "+format, args...)
}

func (a *API) writeError(ctx *gin.Context, status int, err error) {
	// show error in logs
	a.Log(logger.Error, err.Error())

	// add error to response
	ctx.JSON(status, &defs.APIError{
		Error: err.Error(),
	})
}

func (a *API) onInfo(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, &defs.APIInfo{
		Version: a.Version,
		Started: a.Started,
	})
}

func (a *API) onConfigGlobalGet(ctx *gin.Context) {
	a.mutex.RLock()
	c := a.Conf
	a.mutex.RUnlock()

	ctx.JSON(http.StatusOK, c)
}

func (a *API) onConfigReload(ctx *gin.Context) {
	err := a.Parent.APIConfigReload()
	if err != nil {
		a.writeError(ctx, http.StatusBadRequest, err)
		return
	}

	ctx.Status(http.StatusOK)
}

func (a *API) onOverlaysList(ctx *gin.Context) {
	data := a.Overlays.APIOverlaysList()

	data.ItemCount = len(data.Items)
	pageCount, err := paginate(&data.Items, ctx.Query("itemsPerPage"), ctx.Query("page"))
	if err != nil {
		a.writeError(ctx, http.StatusBadRequest, err)
		return
	}
	data.PageCount = pageCount

	ctx.JSON(http.StatusOK, data)
}

func (a *API) onPipelineGet(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, a.Pipeline.APIPipelineGet())
}

// ReloadConf is called by core.
func (a *API) ReloadConf(conf *conf.Conf) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.Conf = conf
}
