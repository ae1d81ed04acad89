package handler

import (
	"net/http"
	"strings"
	"time"
)

// Response is the abstract handler result, serialized to wire bytes by the
// responder. Handlers fill what they know; enrichment and serialization fill
// the rest.
type Response struct {
	// Status is the HTTP status code. Zero means 200.
	Status int
	// Body is the generated content. Empty for redirects and empty-body
	// outcomes.
	Body []byte
	// ContentType is the body media type.
	ContentType string
	// Headers holds additional custom headers.
	Headers http.Header
	// RedirectLocation triggers a 302 redirect when set.
	RedirectLocation string
	// LastModified is the content modification time used for conditional
	// requests. Filled with the invocation time when the handler leaves it
	// zero.
	LastModified time.Time
	// MaxAge is the cache max-age advertised for this response. Applied from
	// the route declaration during enrichment unless the response is HTML.
	MaxAge time.Duration
	// HashEligible marks the body for content hashing after serving.
	HashEligible bool
	// CSRFToken is the caller's token, exposed through a script-visible
	// cookie during serialization.
	CSRFToken string
	// Flash holds messages queued for the next rendered page.
	Flash []string
	// SetCookies are cookies to set on the response.
	SetCookies []*http.Cookie
	// DeleteCookies are cookie names to delete. Deletion beats a
	// conflicting set.
	DeleteCookies []string
}

// IsHTML tells whether the response renders an HTML page.
func (r *Response) IsHTML() bool {
	return strings.HasPrefix(r.ContentType, "text/html")
}

// AddFlash queues a one-time message for the next rendered page.
func (r *Response) AddFlash(message string) {
	r.Flash = append(r.Flash, message)
}

// SetHeader sets a custom response header.
func (r *Response) SetHeader(key, value string) {
	if r.Headers == nil {
		r.Headers = http.Header{}
	}

	r.Headers.Set(key, value)
}

// HTML builds a 200 HTML page response.
func HTML(body []byte) *Response {
	return &Response{
		Status:      http.StatusOK,
		Body:        body,
		ContentType: "text/html; charset=utf-8",
	}
}

// Text builds a 200 plain-text response.
func Text(body string) *Response {
	return &Response{
		Status:      http.StatusOK,
		Body:        []byte(body),
		ContentType: "text/plain; charset=utf-8",
	}
}

// JSON builds a 200 response carrying pre-encoded JSON.
func JSON(body []byte) *Response {
	return &Response{
		Status:      http.StatusOK,
		Body:        body,
		ContentType: "application/json",
	}
}

// Redirect builds a 302 redirect response.
func Redirect(location string) *Response {
	return &Response{
		Status:           http.StatusFound,
		RedirectLocation: location,
	}
}
