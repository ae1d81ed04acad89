package metrics

import (
	"net/http"

	"github.com/pkg/errors"
)

// statusWriter records the status code and body length flowing through the
// instrumented handler so the request metrics can label and size responses.
type statusWriter struct {
	http.ResponseWriter
	status int
	length int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	// A handler writing without an explicit header implies 200
	if w.status == 0 {
		w.status = http.StatusOK
	}

	n, err := w.ResponseWriter.Write(b)
	w.length += n

	return n, errors.WithStack(err)
}
