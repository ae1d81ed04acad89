package responder

import (
	"bytes"
	"context"
	"html/template"
	"net/http"
	"strconv"

	"github.com/Masterminds/sprig/v3"
	"github.com/webstone-io/webstone/pkg/webstone/request"
	"github.com/webstone-io/webstone/pkg/webstone/werr"
)

const errorPageTemplate = `<!DOCTYPE html>
<html>
  <head>
    <title>{{ .Status }} {{ .Message | title }}</title>
  </head>
  <body>
    <h1>{{ .Status }}</h1>
    <p>{{ .Message | title }}</p>
  </body>
</html>
`

var errorPageTmpl = template.Must(
	template.New("error-page").Funcs(sprig.HtmlFuncMap()).Parse(errorPageTemplate),
)

type errorPageData struct {
	Message string
	Status  int
}

// SendError renders a pipeline error as a structured page. Internal causes
// are logged server-side with their stack; the client only ever sees the
// public message. An unauthorized error also records the requested path in
// the redirect-after-login cookie.
func (s *Serializer) SendError(ctx context.Context, w http.ResponseWriter, req *request.Request, perr *werr.Error, head bool) {
	logger := s.logger(ctx, req)

	status := perr.StatusCode()

	// Full detail stays server-side
	if perr.Kind == werr.KindInternalServer {
		logger.WithError(perr).Error("request failed")
	} else {
		logger.WithField("status", status).Debug(perr.Message)
	}

	header := w.Header()

	// Record the requested path so a later login can redirect back
	if perr.Kind == werr.KindUnauthorized && perr.RedirectPath != "" {
		c, err := s.cookies.RedirectCookie(perr.RedirectPath)
		if err != nil {
			logger.WithError(err).Warn("redirect cookie dropped, encoding failed")
		} else {
			http.SetCookie(w, c)
		}
	}

	var buf bytes.Buffer

	data := &errorPageData{Message: perr.Message, Status: status}

	if err := errorPageTmpl.Execute(&buf, data); err != nil {
		logger.WithError(err).Error("error page rendering failed")
		buf.Reset()
		buf.WriteString(perr.Message)
	}

	header.Set("Content-Type", "text/html; charset=utf-8")
	header.Set("Vary", "Accept-Encoding")
	applyCacheHeaders(header, nil)
	header.Set("Content-Length", strconv.Itoa(buf.Len()))
	applyConnection(header, req, status)

	w.WriteHeader(status)

	if head {
		return
	}

	_, _ = w.Write(buf.Bytes())
}
