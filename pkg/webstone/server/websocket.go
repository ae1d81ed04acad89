package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/webstone-io/webstone/pkg/webstone/handler"
	"github.com/webstone-io/webstone/pkg/webstone/log"
	"github.com/webstone-io/webstone/pkg/webstone/request"
	"github.com/webstone-io/webstone/pkg/webstone/routing"
	"github.com/webstone-io/webstone/pkg/webstone/werr"
	"golang.org/x/net/websocket"
)

func isWebSocketUpgrade(hr *http.Request) bool {
	if !strings.EqualFold(hr.Header.Get("Upgrade"), "websocket") {
		return false
	}

	return strings.Contains(strings.ToLower(hr.Header.Get("Connection")), "upgrade")
}

// serveWebSocket authorizes and performs a WebSocket upgrade. Any
// gate failure aborts the handshake with its structured error; it never
// falls back to another page.
func (p *Pipeline) serveWebSocket(ctx context.Context, w http.ResponseWriter, hr *http.Request, req *request.Request) {
	res, perr := p.table.Resolve(req.Path, routing.MethodWebSocket)
	if perr != nil {
		p.fail(ctx, w, req, perr, false)

		return
	}

	if res == nil {
		p.fail(ctx, w, req, werr.NotFound(), false)

		return
	}

	if perr = p.gateSvc.CheckWebSocket(req, res.Route); perr != nil {
		p.fail(ctx, w, req, perr, false)

		return
	}

	p.metricsCl.IncWebsocketUpgrade()

	hctx := &handler.Context{
		Context: ctx,
		Request: req,
		Logger:  log.GetLoggerFromContext(ctx),
	}

	srv := websocket.Server{
		// Origin was already validated by the gate against the canonical URL
		Handshake: func(*websocket.Config, *http.Request) error { return nil },
		Handler: func(conn *websocket.Conn) {
			err := res.Route.Ws.Ws(hctx, conn)
			if err != nil {
				hctx.Logger.WithError(err).Warn("websocket handler finished with error")
			}
		},
	}

	srv.ServeHTTP(w, hr)
}
