package routing

import (
	"net/http"
	"strings"

	"github.com/webstone-io/webstone/pkg/webstone/werr"
)

// MethodWebSocket is the pseudo-method used to resolve WebSocket upgrade
// requests against routes carrying a Ws handler.
const MethodWebSocket = "WEBSOCKET"

// Resolution is the result of a successful route lookup.
type Resolution struct {
	// Route is the matched route.
	Route *Route
	// Rest holds the path segments following the route path.
	Rest []string
	// Method is the effective method after HEAD folding.
	Method string
	// Head is true when the original request was a HEAD. The response body
	// is suppressed at serialization while headers stay as computed for GET.
	Head bool
}

// Resolve scans registered routes in registration order and returns the
// first route whose path prefix-matches the given normalized path: exact
// equality, or the route path immediately followed by a slash. Resolution
// stops at the first hit.
//
// A nil resolution with a nil error means no route matched; the caller
// falls back to the static-file collaborator.
func (t *Table) Resolve(path, method string) (*Resolution, *werr.Error) {
	// Fold HEAD onto GET for resolution
	effective := method
	head := false

	if method == http.MethodHead {
		effective = http.MethodGet
		head = true
	}

	for _, route := range t.routes {
		rest, ok := match(route.Path, path)
		if !ok {
			continue
		}

		// First hit wins. A matched route lacking the effective method is
		// MethodNotAllowed, distinct from NotFound.
		if !implements(route, effective) {
			return nil, werr.MethodNotAllowed(method)
		}

		return &Resolution{
			Route:  route,
			Rest:   rest,
			Method: effective,
			Head:   head,
		}, nil
	}

	return nil, nil
}

func match(routePath, path string) ([]string, bool) {
	// Exact equality
	if path == routePath {
		return nil, true
	}

	// Route path immediately followed by a slash
	prefix := routePath
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	if !strings.HasPrefix(path, prefix) {
		return nil, false
	}

	rest := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if rest == "" {
		return nil, true
	}

	return strings.Split(rest, "/"), true
}

func implements(route *Route, method string) bool {
	switch method {
	case http.MethodGet:
		return route.Get != nil
	case http.MethodPost:
		return route.Post != nil
	case MethodWebSocket:
		return route.Ws != nil
	default:
		return false
	}
}
