package server

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"emperror.dev/errors"
	"github.com/webstone-io/webstone/pkg/webstone/config"
	"github.com/webstone-io/webstone/pkg/webstone/gate"
	"github.com/webstone-io/webstone/pkg/webstone/handler"
	"github.com/webstone-io/webstone/pkg/webstone/hashcache"
	"github.com/webstone-io/webstone/pkg/webstone/log"
	"github.com/webstone-io/webstone/pkg/webstone/metrics"
	"github.com/webstone-io/webstone/pkg/webstone/request"
	"github.com/webstone-io/webstone/pkg/webstone/responder"
	"github.com/webstone-io/webstone/pkg/webstone/routing"
	"github.com/webstone-io/webstone/pkg/webstone/staticfs"
	"github.com/webstone-io/webstone/pkg/webstone/webhook"
	"github.com/webstone-io/webstone/pkg/webstone/werr"
)

const fileHashTimeout = 30 * time.Second

// Pipeline is the request state machine: decode, resolve, gate, invoke,
// hash, serialize. Mounted as the catch-all handler of the main router; a
// stage failure short-circuits the rest and renders the structured error.
type Pipeline struct {
	cfgManager config.Manager
	table      *routing.Table
	decoder    *request.Decoder
	gateSvc    *gate.Gate
	engine     *hashcache.Engine
	serializer *responder.Serializer
	staticMgr  staticfs.Manager
	webhookMgr webhook.Manager
	metricsCl  metrics.Client
}

// NewPipeline wires a pipeline from its collaborators.
func NewPipeline(
	cfgManager config.Manager,
	table *routing.Table,
	decoder *request.Decoder,
	gateSvc *gate.Gate,
	engine *hashcache.Engine,
	serializer *responder.Serializer,
	staticMgr staticfs.Manager,
	webhookMgr webhook.Manager,
	metricsCl metrics.Client,
) *Pipeline {
	return &Pipeline{
		cfgManager: cfgManager,
		table:      table,
		decoder:    decoder,
		gateSvc:    gateSvc,
		engine:     engine,
		serializer: serializer,
		staticMgr:  staticMgr,
		webhookMgr: webhookMgr,
		metricsCl:  metricsCl,
	}
}

func (p *Pipeline) ServeHTTP(w http.ResponseWriter, hr *http.Request) {
	ctx := hr.Context()

	head := hr.Method == http.MethodHead

	// Stage 1: decode
	req, perr := p.decoder.Decode(hr)
	if perr != nil {
		// Enough of a request for error rendering
		req = &request.Request{
			Method: hr.Method,
			Path:   hr.URL.Path,
			Header: hr.Header,
		}

		p.fail(ctx, w, req, perr, head)

		return
	}

	// Temporary resources go away on every exit path
	defer req.Release()

	// Resolve the caller before any authorization decision
	if err := p.gateSvc.ResolveUser(ctx, req); err != nil {
		p.fail(ctx, w, req, werr.InternalServer(err), head)

		return
	}

	if isWebSocketUpgrade(hr) {
		p.serveWebSocket(ctx, w, hr, req)

		return
	}

	// Hash-URI branch
	if hash, originalURI, ok := p.engine.ParseHashURI(req.Path); ok {
		req.HashKey = hash

		info, found := p.engine.Lookup(originalURI)
		if !found || info.Hash != hash {
			// Stale, forged or old-process hash: treat as the plain
			// original URI
			req.Path = originalURI

			p.serveRoute(ctx, w, hr, req, head)

			return
		}

		p.serveHashURI(ctx, w, hr, req, originalURI, info, head)

		return
	}

	p.serveRoute(ctx, w, hr, req, head)
}

// serveRoute is the plain-URI flow: resolve, gate, invoke, schedule hashing,
// serialize. Falls back to the static collaborator when no route matches.
func (p *Pipeline) serveRoute(ctx context.Context, w http.ResponseWriter, hr *http.Request, req *request.Request, head bool) {
	// Stage 2: resolve
	res, perr := p.table.Resolve(req.Path, req.Method)
	if perr != nil {
		p.fail(ctx, w, req, perr, head)

		return
	}

	if res == nil {
		p.serveStatic(ctx, w, hr, req, nil, head)

		return
	}

	// Stage 3: gate
	if perr = p.gateSvc.Check(req, res.Route, res.Method); perr != nil {
		p.fail(ctx, w, req, perr, head || res.Head)

		return
	}

	// Stage 4: invoke
	resp, perr := p.invoke(ctx, req, res)
	if perr != nil {
		p.fail(ctx, w, req, perr, head || res.Head)

		return
	}

	// Stage 5: schedule content hashing for eligible responses
	if resp.HashEligible && res.Route.MaxAge > 0 && (resp.Status == 0 || resp.Status == http.StatusOK) {
		p.engine.Update(req.Path, resp.Body, resp.LastModified, res.Route.MaxAge)
	}

	var cache *responder.CacheInfo
	if !resp.LastModified.IsZero() {
		cache = &responder.CacheInfo{Mode: responder.CacheLastModified, LastModified: resp.LastModified}
	}

	// Stage 6: serialize
	p.serializer.Send(ctx, w, req, resp, cache, head || res.Head)
}

// serveHashURI runs the three-outcome cache-extension algorithm for a
// request addressed to a mapped hash URI.
func (p *Pipeline) serveHashURI(ctx context.Context, w http.ResponseWriter, hr *http.Request, req *request.Request, originalURI string, info *hashcache.Info, head bool) {
	req.Path = originalURI

	res, perr := p.table.Resolve(originalURI, req.Method)
	if perr != nil {
		p.fail(ctx, w, req, perr, head)

		return
	}

	// Hash URI pointing at a static file
	if res == nil {
		p.serveStatic(ctx, w, hr, req, info, head)

		return
	}

	if perr = p.gateSvc.Check(req, res.Route, res.Method); perr != nil {
		p.fail(ctx, w, req, perr, head || res.Head)

		return
	}

	outcome, remaining := p.engine.Evaluate(info, res.Route.MaxAge, clientValidator(hr), time.Now())

	if outcome == hashcache.OutcomeNotModified {
		p.serializer.SendNotModified(w, req, &responder.CacheInfo{
			Mode:         responder.CacheHashed,
			LastModified: info.LastModified,
			MaxAge:       remaining,
			ETag:         info.ETag(),
		})

		return
	}

	resp, perr := p.invoke(ctx, req, res)
	if perr != nil {
		p.fail(ctx, w, req, perr, head || res.Head)

		return
	}

	cached := info

	// Expired window: the regenerated content gets a fresh hash
	if outcome == hashcache.OutcomeServeAndHash {
		cached = p.engine.Update(originalURI, resp.Body, resp.LastModified, res.Route.MaxAge)
	}

	// Within the window the mapping still governs the headers: a regenerated
	// body ships under the old hash and ETag until the window expires
	p.serializer.Send(ctx, w, req, resp, &responder.CacheInfo{
		Mode:         responder.CacheHashed,
		LastModified: cached.LastModified,
		MaxAge:       remaining,
		ETag:         cached.ETag(),
	}, head || res.Head)
}

// serveStatic serves the static-file fallback. hashInfo is non-nil when the
// file was reached through a hash URI and gets the long-lived cache headers.
func (p *Pipeline) serveStatic(ctx context.Context, w http.ResponseWriter, hr *http.Request, req *request.Request, hashInfo *hashcache.Info, head bool) {
	client := p.staticMgr.GetClient()

	res, err := client.Get(ctx, req.Path)
	if err != nil {
		if errors.Is(err, staticfs.ErrNotFound) {
			p.fail(ctx, w, req, werr.NotFound(), head)

			return
		}

		p.fail(ctx, w, req, werr.InternalServer(err), head)

		return
	}

	cache := p.staticCacheInfo(res, hashInfo)

	// Conditional request on the file's modification time
	if p.engine.FileFresh(res.ModTime, clientValidator(hr)) {
		_ = res.Body.Close()

		p.serializer.SendNotModified(w, req, cache)

		return
	}

	p.serializer.SendFile(ctx, w, req, res, cache, p.tlsActive(), head)

	// Refreshing the mapping is a side effect of serving, off the hot path
	go p.refreshFileHash(ctx, req.Path, res.ModTime, res.FilePath)
}

func (p *Pipeline) staticCacheInfo(res *staticfs.Resource, hashInfo *hashcache.Info) *responder.CacheInfo {
	if hashInfo == nil {
		return &responder.CacheInfo{Mode: responder.CacheLastModified, LastModified: res.ModTime}
	}

	return &responder.CacheInfo{
		Mode:         responder.CacheHashed,
		LastModified: res.ModTime,
		MaxAge:       p.engine.IndefiniteMaxAge(),
		ETag:         hashInfo.ETag(),
	}
}

// invoke binds parameters and crosses the handler boundary.
func (p *Pipeline) invoke(ctx context.Context, req *request.Request, res *routing.Resolution) (*handler.Response, *werr.Error) {
	hctx := &handler.Context{
		Context: ctx,
		Request: req,
		Logger:  log.GetLoggerFromContext(ctx),
	}

	var (
		resp *handler.Response
		perr *werr.Error
	)

	switch res.Method {
	case http.MethodGet:
		params, berr := handler.BindParams(res.Route.GetParams, res.Rest)
		if berr != nil {
			return nil, berr
		}

		hctx.Params = params

		resp, perr = handler.InvokeGet(hctx, res.Route.Get)
	case http.MethodPost:
		resp, perr = handler.InvokePost(hctx, res.Route.Post, res.Route.NewPostBody)
	default:
		return nil, werr.MethodNotAllowed(res.Method)
	}

	if perr != nil {
		return nil, perr
	}

	handler.Enrich(hctx, resp, res.Route.MaxAge)

	return resp, nil
}

// refreshFileHash recomputes a static file's content hash after serving it.
func (p *Pipeline) refreshFileHash(ctx context.Context, originalURI string, modTime time.Time, filePath string) {
	// Skip when the mapping is already current
	if info, ok := p.engine.Lookup(originalURI); ok && !modTime.After(info.LastModified) {
		return
	}

	var (
		content []byte
		err     error
	)

	if filePath != "" {
		content, err = os.ReadFile(filePath)
	} else {
		content, err = p.fetchStaticContent(originalURI)
	}

	if err != nil {
		log.GetLoggerFromContext(ctx).WithError(errors.WithStack(err)).Warnf("hash refresh failed for %s", originalURI)

		return
	}

	p.engine.UpdateFileInfo(originalURI, content, modTime)
}

func (p *Pipeline) fetchStaticContent(originalURI string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), fileHashTimeout)
	defer cancel()

	res, err := p.staticMgr.GetClient().Get(ctx, originalURI)
	if err != nil {
		return nil, err
	}

	defer func() { _ = res.Body.Close() }()

	return io.ReadAll(res.Body)
}

func (p *Pipeline) fail(ctx context.Context, w http.ResponseWriter, req *request.Request, perr *werr.Error, head bool) {
	if perr.Kind == werr.KindInternalServer {
		p.webhookMgr.ManageErrorHooks(ctx, &webhook.ErrorMetadata{
			RequestPath: req.Path,
			Method:      req.Method,
			StatusCode:  perr.StatusCode(),
			Message:     perr.Message,
		})
	}

	p.serializer.SendError(ctx, w, req, perr, head)
}

func (p *Pipeline) tlsActive() bool {
	cfg := p.cfgManager.GetConfig()

	return cfg.Server != nil && cfg.Server.SSL != nil && cfg.Server.SSL.Enabled
}

func clientValidator(hr *http.Request) time.Time {
	raw := hr.Header.Get("If-Modified-Since")
	if raw == "" {
		return time.Time{}
	}

	t, err := http.ParseTime(raw)
	// A garbled validator counts as no validator
	if err != nil {
		return time.Time{}
	}

	return t
}
