// Package routing holds the static route table. Routes are declared in
// ordinary code through the builder at startup and are immutable afterwards,
// which makes the table safe for concurrent lookup without locking.
package routing

import (
	"time"

	"github.com/webstone-io/webstone/pkg/webstone/handler"
)

// Route is a registered (path, handler, auth requirement, cache policy)
// tuple. Immutable once registered.
type Route struct {
	// Path is the canonical path. Exactly one route may claim it.
	Path string
	// Get handles GET (and HEAD) requests when non-nil.
	Get handler.GetHandler
	// Post handles POST requests when non-nil.
	Post handler.PostHandler
	// Ws handles WebSocket upgrade requests when non-nil.
	Ws handler.WsHandler
	// NewPostBody builds the POST body model bound before invocation.
	// At most one body model per route.
	NewPostBody func() handler.FormModel
	// GetParams declares arity and types of GET-bound path segments.
	GetParams []handler.ParamKind
	// MaxAge is the declared cache max-age. Zero means not hash-cacheable.
	MaxAge time.Duration
	// RequireAuth requires a valid session.
	RequireAuth bool
	// RequireValidatedEmail additionally requires the validated email flag.
	RequireValidatedEmail bool
}
