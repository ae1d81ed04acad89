package gate

import (
	"context"
	"time"

	"github.com/webstone-io/webstone/pkg/webstone/cookie"
	"github.com/webstone-io/webstone/pkg/webstone/handler"
	"github.com/webstone-io/webstone/pkg/webstone/request"
	"github.com/webstone-io/webstone/pkg/webstone/session"
	"github.com/webstone-io/webstone/pkg/webstone/webhook"
)

// IssueSession stores the user under the session token and attaches the
// session and email cookies to the response. Called by login handlers on
// successful authentication.
func (g *Gate) IssueSession(ctx context.Context, resp *handler.Response, token string, user *session.User, ttl time.Duration) error {
	// Persist the session first, cookies only go out if that worked
	err := g.store.Put(ctx, token, user, ttl)
	if err != nil {
		return err
	}

	sessionCookie, err := g.cookies.SessionCookie(token)
	if err != nil {
		return err
	}

	emailCookie, err := g.cookies.EmailCookie(user.Email)
	if err != nil {
		return err
	}

	resp.SetCookies = append(resp.SetCookies, sessionCookie, emailCookie)

	// Notify login hooks
	g.webhookMgr.ManageLoginHooks(ctx, &webhook.LoginMetadata{
		UserID: user.ID,
		Email:  user.Email,
	})

	return nil
}

// RevokeSession deletes the caller's session and attaches deletions of the
// session and email cookies. Called by logout handlers.
func (g *Gate) RevokeSession(ctx context.Context, req *request.Request, resp *handler.Response) error {
	c := req.Cookie(cookie.SessionCookieName)
	if c != nil && c.Value != "" {
		token, err := g.cookies.DecodeValue(c.Value)
		if err == nil && token != "" {
			// Check error
			if derr := g.store.Delete(ctx, token); derr != nil {
				return derr
			}
		}
	}

	resp.DeleteCookies = append(resp.DeleteCookies, cookie.SessionCookieName, cookie.EmailCookieName)

	return nil
}

// ConsumeRedirect returns the redirect-after-login path recorded on an
// earlier unauthorized request and deletes its cookie. Empty when none was
// recorded.
func (g *Gate) ConsumeRedirect(req *request.Request, resp *handler.Response) string {
	c := req.Cookie(cookie.RedirectCookieName)
	if c == nil || c.Value == "" {
		return ""
	}

	resp.DeleteCookies = append(resp.DeleteCookies, cookie.RedirectCookieName)

	path, err := g.cookies.DecodeValue(c.Value)
	if err != nil {
		return ""
	}

	return path
}
