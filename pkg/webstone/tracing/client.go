package tracing

import (
	"net/http"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/webstone-io/webstone/pkg/webstone/config"
	"github.com/webstone-io/webstone/pkg/webstone/log"
)

// Service is the tracing backend, reloadable on configuration change.
type Service interface {
	// Reload rebuilds the tracer from the current configuration
	Reload() error
	// GetTracer returns the global tracer object
	GetTracer() opentracing.Tracer
}

// Trace wraps one span of a request's trace.
type Trace interface {
	// SetTag sets a tag on the span
	SetTag(key string, value interface{})
	// GetChildTrace starts a child span with an operation name
	GetChildTrace(operationName string) Trace
	// Finish finishes the span
	Finish()
	// GetTraceID returns the trace id as a string for log correlation
	GetTraceID() string
	// InjectInHTTPHeader injects the span context into an HTTP header
	InjectInHTTPHeader(header http.Header) error
}

// New creates the tracing service from configuration.
func New(cfgManager config.Manager, logger log.Logger) (Service, error) {
	return newService(cfgManager, logger)
}
