// Package gate is the authorization and CSRF stage of the pipeline. It runs
// after route resolution and before handler invocation; a request failing
// any of its checks short-circuits with a structured error and the handler
// never sees it.
package gate

import (
	"context"
	"net/http"
	"net/url"

	"github.com/webstone-io/webstone/pkg/webstone/config"
	"github.com/webstone-io/webstone/pkg/webstone/cookie"
	"github.com/webstone-io/webstone/pkg/webstone/metrics"
	"github.com/webstone-io/webstone/pkg/webstone/request"
	"github.com/webstone-io/webstone/pkg/webstone/routing"
	"github.com/webstone-io/webstone/pkg/webstone/session"
	"github.com/webstone-io/webstone/pkg/webstone/webhook"
	"github.com/webstone-io/webstone/pkg/webstone/werr"
)

// Rejection kind labels used for metrics.
const (
	rejectionUnauthorized      = "unauthorized"
	rejectionEmailNotValidated = "email-not-validated"
	rejectionCSRF              = "csrf"
	rejectionWsOrigin          = "ws-origin"
	rejectionWsCSRF            = "ws-csrf"
)

// Gate checks a resolved request against its route's authorization and CSRF
// requirements.
type Gate struct {
	store      session.Store
	cookies    *cookie.Manager
	cfgManager config.Manager
	metricsCl  metrics.Client
	webhookMgr webhook.Manager
}

// NewGate creates a gate.
func NewGate(
	cfgManager config.Manager,
	store session.Store,
	cookies *cookie.Manager,
	webhookMgr webhook.Manager,
	metricsCl metrics.Client,
) *Gate {
	return &Gate{
		store:      store,
		cookies:    cookies,
		cfgManager: cfgManager,
		metricsCl:  metricsCl,
		webhookMgr: webhookMgr,
	}
}

// ResolveUser resolves the caller's session cookie to a user and records it
// on the request. An unknown, undecodable or expired token resolves to an
// anonymous request, not an error.
func (g *Gate) ResolveUser(ctx context.Context, req *request.Request) error {
	c := req.Cookie(cookie.SessionCookieName)
	if c == nil || c.Value == "" {
		return nil
	}

	token, err := g.cookies.DecodeValue(c.Value)
	// A cookie that fails decoding is treated as absent: it may have been
	// issued under a previous encryption key
	if err != nil || token == "" {
		return nil
	}

	user, err := g.store.GetUserByToken(ctx, token)
	// Check error
	if err != nil {
		return err
	}

	req.User = user

	return nil
}

// Check runs the per-request authorization state machine in order: session
// requirement, validated-email requirement, then CSRF for mutating methods.
func (g *Gate) Check(req *request.Request, route *routing.Route, method string) *werr.Error {
	if !route.RequireAuth {
		return nil
	}

	// 1. A route requiring authentication needs a valid session. The
	// requested path rides on the error so a later login can redirect back.
	if req.User == nil {
		g.metricsCl.IncGateRejection(rejectionUnauthorized)

		return werr.Unauthorized(req.Path)
	}

	// 2. Validated email requirement, distinct from generic unauthorized
	if route.RequireValidatedEmail && !req.User.EmailValidated {
		g.metricsCl.IncGateRejection(rejectionEmailNotValidated)

		return werr.EmailNotValidated()
	}

	// 3. Mutating methods must echo the session's CSRF token
	if method == http.MethodPost {
		supplied := req.Attribute(g.csrfFieldName())

		if !session.CSRFTokenMatch(req.User.CSRFToken, supplied) {
			g.metricsCl.IncGateRejection(rejectionCSRF)

			return werr.BadRequest(nil, "csrf token mismatch")
		}
	}

	return nil
}

// CheckWebSocket applies the route's authorization requirements to a
// WebSocket upgrade request, plus the upgrade-specific origin and
// query-token checks. Any upgrade-specific failure is Forbidden and aborts
// the handshake.
func (g *Gate) CheckWebSocket(req *request.Request, route *routing.Route) *werr.Error {
	if route.RequireAuth {
		if req.User == nil {
			g.metricsCl.IncGateRejection(rejectionUnauthorized)

			return werr.Unauthorized(req.Path)
		}

		if route.RequireValidatedEmail && !req.User.EmailValidated {
			g.metricsCl.IncGateRejection(rejectionEmailNotValidated)

			return werr.EmailNotValidated()
		}
	}

	// Origin must parse and be same-origin with the canonical server URL,
	// guarding against cross-site WebSocket hijacking
	if !g.sameOrigin(req.Header.Get("Origin")) {
		g.metricsCl.IncGateRejection(rejectionWsOrigin)

		return werr.Forbidden("websocket origin not allowed")
	}

	if route.RequireAuth {
		supplied := req.Query.Get(g.csrfQueryParam())

		if !session.CSRFTokenMatch(req.User.CSRFToken, supplied) {
			g.metricsCl.IncGateRejection(rejectionWsCSRF)

			return werr.Forbidden("websocket csrf token mismatch")
		}
	}

	return nil
}

func (g *Gate) sameOrigin(origin string) bool {
	if origin == "" {
		return false
	}

	originURL, err := url.Parse(origin)
	// Check error
	if err != nil || originURL.Scheme == "" || originURL.Host == "" {
		return false
	}

	canonical, err := url.Parse(g.cfgManager.GetConfig().CanonicalURL)
	if err != nil {
		return false
	}

	return originURL.Scheme == canonical.Scheme && originURL.Host == canonical.Host
}

func (g *Gate) csrfFieldName() string {
	cfg := g.cfgManager.GetConfig()
	if cfg.CSRF != nil && cfg.CSRF.FieldName != "" {
		return cfg.CSRF.FieldName
	}

	return config.DefaultCSRFFieldName
}

func (g *Gate) csrfQueryParam() string {
	cfg := g.cfgManager.GetConfig()
	if cfg.CSRF != nil && cfg.CSRF.QueryParam != "" {
		return cfg.CSRF.QueryParam
	}

	return config.DefaultCSRFQueryParam
}
