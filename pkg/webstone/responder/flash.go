package responder

import (
	"html/template"
	"strings"

	"github.com/webstone-io/webstone/pkg/webstone/cookie"
	"github.com/webstone-io/webstone/pkg/webstone/handler"
	"github.com/webstone-io/webstone/pkg/webstone/log"
	"github.com/webstone-io/webstone/pkg/webstone/request"
)

// applyFlash resolves pending flash messages and returns the final body.
// Messages are merged into HTML pages and their cookie cleared; for
// non-HTML responses they are re-persisted into the flash cookie so they
// survive until the next rendered page.
func (s *Serializer) applyFlash(req *request.Request, resp *handler.Response, logger log.Logger) []byte {
	pending := s.pendingFlash(req)
	hadCookie := len(pending) != 0

	pending = append(pending, resp.Flash...)

	if len(pending) == 0 {
		return resp.Body
	}

	if resp.IsHTML() {
		if hadCookie {
			resp.DeleteCookies = append(resp.DeleteCookies, cookie.FlashCookieName)
		}

		return mergeFlash(resp.Body, pending)
	}

	// Not a page: carry the messages forward
	c, err := s.cookies.FlashCookie(pending)
	if err != nil {
		logger.WithError(err).Warn("flash messages dropped, cookie encoding failed")

		return resp.Body
	}

	resp.SetCookies = append(resp.SetCookies, c)

	return resp.Body
}

func (s *Serializer) pendingFlash(req *request.Request) []string {
	c := req.Cookie(cookie.FlashCookieName)
	if c == nil || c.Value == "" {
		return nil
	}

	value, err := s.cookies.DecodeValue(c.Value)
	if err != nil || value == "" {
		return nil
	}

	return cookie.DecodeFlashMessages(value)
}

func mergeFlash(body []byte, messages []string) []byte {
	var b strings.Builder

	b.WriteString(`<div class="flash-messages">`)

	for _, msg := range messages {
		b.WriteString(`<p class="flash">`)
		b.WriteString(template.HTMLEscapeString(msg))
		b.WriteString(`</p>`)
	}

	b.WriteString(`</div>`)

	block := b.String()

	// Inject just before the closing body tag when one exists
	idx := strings.LastIndex(strings.ToLower(string(body)), "</body>")
	if idx < 0 {
		return append(body, block...)
	}

	merged := make([]byte, 0, len(body)+len(block))
	merged = append(merged, body[:idx]...)
	merged = append(merged, block...)
	merged = append(merged, body[idx:]...)

	return merged
}
