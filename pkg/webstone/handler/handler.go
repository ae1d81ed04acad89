// Package handler defines the invocation boundary between the request
// pipeline and route business logic. Handlers are statically typed: a route
// binds concrete GetHandler/PostHandler/WsHandler implementations at
// registration time, so dispatch never goes through reflection. Failures
// cross the boundary as structured error values, panics are caught here and
// converted, and successful responses are enriched with the caller's CSRF
// token and cache metadata before serialization.
package handler

import (
	"context"

	"github.com/webstone-io/webstone/pkg/webstone/log"
	"github.com/webstone-io/webstone/pkg/webstone/request"
	"github.com/webstone-io/webstone/pkg/webstone/werr"
	"golang.org/x/net/websocket"
)

// Context carries the per-invocation state handed to a handler.
type Context struct {
	// Context is the request context.
	Context context.Context
	// Request is the decoded inbound request. The handler is its only
	// consumer.
	Request *request.Request
	// Params holds the bound URL path segments declared by the route, in
	// declaration order.
	Params []Param
	// Logger is the request-scoped logger.
	Logger log.Logger
}

// GetHandler serves GET (and HEAD) requests.
type GetHandler interface {
	Get(ctx *Context) (*Response, *werr.Error)
}

// PostHandler serves POST requests with a bound body model.
type PostHandler interface {
	Post(ctx *Context, body FormModel) (*Response, *werr.Error)
}

// WsHandler serves an established WebSocket connection. The gate and the
// upgrade handshake have already passed when this runs.
type WsHandler interface {
	Ws(ctx *Context, conn *websocket.Conn) error
}

// FormModel is a POST body model. A route declares at most one; the decoded
// form attributes and uploads are bound into a fresh instance before
// invocation.
type FormModel interface {
	// BindForm fills the model from the decoded request body. A returned
	// error fails the request as BadRequest before invocation.
	BindForm(req *request.Request) error
}
