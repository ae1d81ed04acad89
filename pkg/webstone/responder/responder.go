// Package responder serializes abstract responses to wire bytes: flash
// message handling, gzip compression, cache headers, cookie lifecycle, HEAD
// body suppression and the connection persistence policy.
package responder

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"github.com/gobwas/glob"
	"github.com/webstone-io/webstone/pkg/webstone/config"
	"github.com/webstone-io/webstone/pkg/webstone/cookie"
	"github.com/webstone-io/webstone/pkg/webstone/handler"
	"github.com/webstone-io/webstone/pkg/webstone/log"
	"github.com/webstone-io/webstone/pkg/webstone/metrics"
	"github.com/webstone-io/webstone/pkg/webstone/request"
)

// Serializer turns handler responses into wire bytes. Constructor-injected
// into the pipeline; Load recompiles configuration-derived state and is
// registered as a configuration on-change hook.
type Serializer struct {
	cfgManager config.Manager
	cookies    *cookie.Manager
	metricsCl  metrics.Client

	mu              sync.RWMutex
	compressibleGbs []glob.Glob
	gzipEnabled     bool
	gzipMinSize     int
}

// NewSerializer creates a serializer. Call Load before first use.
func NewSerializer(cfgManager config.Manager, cookies *cookie.Manager, metricsCl metrics.Client) *Serializer {
	return &Serializer{
		cfgManager: cfgManager,
		cookies:    cookies,
		metricsCl:  metricsCl,
	}
}

// Load compiles the gzip type globs from the current configuration.
func (s *Serializer) Load() error {
	// Get configuration
	cfg := s.cfgManager.GetConfig()

	enabled := true
	minSize := config.DefaultGzipMinSize
	types := config.DefaultGzipCompressibleTypes

	if cfg.Gzip != nil {
		if cfg.Gzip.Enabled != nil {
			enabled = *cfg.Gzip.Enabled
		}

		if cfg.Gzip.MinSize > 0 {
			minSize = cfg.Gzip.MinSize
		}

		if len(cfg.Gzip.CompressibleTypes) != 0 {
			types = cfg.Gzip.CompressibleTypes
		}
	}

	gbs := make([]glob.Glob, 0, len(types))

	for _, t := range types {
		g, err := glob.Compile(t)
		// Check error
		if err != nil {
			return err
		}

		gbs = append(gbs, g)
	}

	s.mu.Lock()
	s.compressibleGbs = gbs
	s.gzipEnabled = enabled
	s.gzipMinSize = minSize
	s.mu.Unlock()

	return nil
}

// Send serializes a handler response. Rules apply in order: flash handling,
// gzip, cache headers, cookies, HEAD suppression, connection persistence.
func (s *Serializer) Send(ctx context.Context, w http.ResponseWriter, req *request.Request, resp *handler.Response, cache *CacheInfo, head bool) {
	logger := s.logger(ctx, req)

	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}

	// 1. Flash messages: merged into HTML pages, re-persisted otherwise
	body := s.applyFlash(req, resp, logger)

	header := w.Header()

	if resp.ContentType != "" {
		header.Set("Content-Type", resp.ContentType)
	}

	for key, values := range resp.Headers {
		for _, v := range values {
			header.Add(key, v)
		}
	}

	if resp.RedirectLocation != "" {
		header.Set("Location", resp.RedirectLocation)

		if status == http.StatusOK {
			status = http.StatusFound
		}
	}

	// 2. Gzip. Support is advertised regardless of whether this response
	// used it.
	header.Set("Vary", "Accept-Encoding")

	if s.shouldCompress(req, resp.ContentType, len(body)) {
		compressed, err := compressBody(body)
		if err != nil {
			logger.WithError(err).Warn("gzip compression failed, sending identity")
		} else {
			body = compressed

			header.Set("Content-Encoding", "gzip")
			s.metricsCl.IncGzipCompressed()
		}
	}

	// 3. Cache headers per the hash engine outcome
	applyCacheHeaders(header, cache)

	// 4. Cookies, deletions beating conflicting sets
	s.applyCookies(w, resp, logger)

	// 5/6. Body, HEAD suppression, connection persistence
	header.Set("Content-Length", strconv.Itoa(len(body)))
	applyConnection(header, req, status)

	w.WriteHeader(status)

	if head {
		return
	}

	if len(body) != 0 {
		_, err := w.Write(body)
		if err != nil {
			logger.WithError(err).Debug("response write failed, client likely gone")
		}
	}
}

// SendNotModified emits an empty-body 304 carrying the cache validators.
func (s *Serializer) SendNotModified(w http.ResponseWriter, req *request.Request, cache *CacheInfo) {
	header := w.Header()

	header.Set("Vary", "Accept-Encoding")
	applyCacheHeaders(header, cache)
	applyConnection(header, req, http.StatusNotModified)

	w.WriteHeader(http.StatusNotModified)
}

func (s *Serializer) logger(ctx context.Context, req *request.Request) log.Logger {
	return log.GetLoggerFromContext(ctx).WithFields(map[string]interface{}{
		"method": req.Method,
		"path":   req.Path,
	})
}
