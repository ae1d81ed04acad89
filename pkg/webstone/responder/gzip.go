package responder

import (
	"bytes"
	"compress/gzip"
	"strings"

	"emperror.dev/errors"
	"github.com/webstone-io/webstone/pkg/webstone/request"
)

func (s *Serializer) shouldCompress(req *request.Request, contentType string, size int) bool {
	s.mu.RLock()
	enabled := s.gzipEnabled
	minSize := s.gzipMinSize
	gbs := s.compressibleGbs
	s.mu.RUnlock()

	if !enabled || size <= minSize {
		return false
	}

	if !strings.Contains(req.Header.Get("Accept-Encoding"), "gzip") {
		return false
	}

	// Match on the media type alone, parameters stripped
	mediaType := contentType
	if idx := strings.Index(mediaType, ";"); idx >= 0 {
		mediaType = strings.TrimSpace(mediaType[:idx])
	}

	for _, g := range gbs {
		if g.Match(mediaType) {
			return true
		}
	}

	return false
}

func compressBody(body []byte) ([]byte, error) {
	var buf bytes.Buffer

	gw := gzip.NewWriter(&buf)

	_, err := gw.Write(body)
	// Check error
	if err != nil {
		return nil, errors.WithStack(err)
	}

	err = gw.Close()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return buf.Bytes(), nil
}
