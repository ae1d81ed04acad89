package handler

import (
	"net/http"
	"time"

	"emperror.dev/errors"
	"github.com/webstone-io/webstone/pkg/webstone/werr"
)

// InvokeGet runs a GET handler, converting any panic into an internal
// server error instead of letting it cross the boundary.
func InvokeGet(ctx *Context, h GetHandler) (resp *Response, rerr *werr.Error) {
	defer recoverInvoke(ctx, &resp, &rerr)

	return h.Get(ctx)
}

// InvokePost binds the route's body model and runs a POST handler. Binding
// failures reject the request as BadRequest before invocation; panics are
// converted like in InvokeGet.
func InvokePost(ctx *Context, h PostHandler, newBody func() FormModel) (resp *Response, rerr *werr.Error) {
	// Binding runs user-supplied code too, so the recovery boundary covers it
	defer recoverInvoke(ctx, &resp, &rerr)

	var body FormModel

	if newBody != nil {
		body = newBody()

		// Check error
		if err := body.BindForm(ctx.Request); err != nil {
			return nil, werr.BadRequest(errors.WithStack(err), "malformed form body")
		}
	}

	return h.Post(ctx, body)
}

func recoverInvoke(ctx *Context, resp **Response, rerr **werr.Error) {
	rec := recover()
	if rec == nil {
		return
	}

	err, ok := rec.(error)
	if !ok {
		err = errors.Errorf("%v", rec)
	}

	ctx.Logger.WithError(errors.WithStack(err)).Error("handler panic caught at invocation boundary")

	*resp = nil
	*rerr = werr.InternalServer(err)
}

// Enrich completes a successful response before serialization: attaches the
// caller's CSRF token when a session exists, defaults the last-modified
// timestamp, and applies the route's declared max-age. HTML responses never
// get a max-age, so the hash URIs they link to stay revisable.
func Enrich(ctx *Context, resp *Response, routeMaxAge time.Duration) {
	if resp.Status == 0 {
		resp.Status = http.StatusOK
	}

	if resp.Status != http.StatusOK {
		return
	}

	if ctx.Request.User != nil {
		resp.CSRFToken = ctx.Request.User.CSRFToken
	}

	if resp.LastModified.IsZero() {
		resp.LastModified = time.Now()
	}

	if resp.MaxAge == 0 && !resp.IsHTML() {
		resp.MaxAge = routeMaxAge
	}
}
