package httpp

import (
	"fmt"
	"net/http"
	"os"
	"runtime"
)

// exit on panic. the Go HTTP server swallows handler panics,
// hiding bugs behind a reset connection.
type handlerExitOnPanic struct {
	h http.Handler
}

func (h *handlerExitOnPanic) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		err := recover()
		if err == nil {
			return
		}

		buf := make([]byte, 1<<20)
		n := runtime.Stack(buf, true)
		fmt.Fprintf(os.Stderr, "panic: %v\n\n%s", err, buf[:n])
		os.Exit(1)
	}()

	h.h.ServeHTTP(w, r)
}
