package httpp

import (
	"net/http"

	"github.com/framemark/framemark/internal/logger"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(statusCode int) {
	w.status = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// log requests and response codes.
type handlerLogger struct {
	h      http.Handler
	parent logger.Writer
}

func (h *handlerLogger) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

	h.h.ServeHTTP(sw, r)

	h.parent.Log(logger.Debug, "[conn %s] %s %s -> %d",
		r.RemoteAddr, r.Method, r.URL.Path, sw.status)
}
