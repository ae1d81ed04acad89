package responder

import (
	"context"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/webstone-io/webstone/pkg/webstone/request"
	"github.com/webstone-io/webstone/pkg/webstone/staticfs"
)

const fileCopyBufferSize = 32 * 1024

// SendFile streams a static resource. On an unencrypted transport the body
// goes out through io.Copy so the runtime can use sendfile on file-backed
// readers; with TLS active that path is unavailable, so the copy goes
// through an explicit buffer instead.
func (s *Serializer) SendFile(ctx context.Context, w http.ResponseWriter, req *request.Request, res *staticfs.Resource, cache *CacheInfo, tlsActive, head bool) {
	logger := s.logger(ctx, req)

	defer func() {
		if res.Body != nil {
			_ = res.Body.Close()
		}
	}()

	header := w.Header()

	header.Set("Content-Type", res.ContentType)
	header.Set("Content-Length", strconv.FormatInt(res.Size, 10))
	header.Set("Vary", "Accept-Encoding")
	applyCacheHeaders(header, cache)
	applyConnection(header, req, http.StatusOK)

	w.WriteHeader(http.StatusOK)

	if head || res.Body == nil {
		return
	}

	var err error

	if _, isFile := res.Body.(*os.File); isFile && !tlsActive {
		// Zero-copy transfer path
		_, err = io.Copy(w, res.Body)
	} else {
		buf := make([]byte, fileCopyBufferSize)
		_, err = io.CopyBuffer(w, res.Body, buf)
	}

	if err != nil {
		logger.WithError(err).Debug("static file write failed, client likely gone")
	}
}
