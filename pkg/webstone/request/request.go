// Package request assembles inbound HTTP messages into pipeline Request
// values: normalized path, query and form attributes, decoded multipart
// uploads backed by temporary files, cookies and the caller identity slot.
package request

import (
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"emperror.dev/errors"
	"github.com/webstone-io/webstone/pkg/webstone/session"
)

// FileUpload is a completed multipart file part, retained by reference and
// backed by a temporary on-disk file until released.
type FileUpload struct {
	FieldName   string
	FileName    string
	ContentType string
	TempPath    string
	Size        int64
}

// Open opens the uploaded content for reading. The caller closes the
// returned file; the backing temp file stays until the request is released.
func (f *FileUpload) Open() (*os.File, error) {
	fd, err := os.Open(f.TempPath)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return fd, nil
}

func (f *FileUpload) release() error {
	return os.Remove(f.TempPath)
}

// Request is one connection-request cycle. Mutated while body chunks are
// decoded, consumed by exactly one handler invocation, released exactly
// once on every exit path.
type Request struct {
	Method     string
	RawPath    string
	Path       string
	Query      url.Values
	Attributes map[string]string
	Files      []*FileUpload
	Cookies    []*http.Cookie
	Header     http.Header
	RemoteAddr string
	ArrivedAt  time.Time
	// User is the resolved session user, filled by the gate. Nil for
	// anonymous callers.
	User *session.User
	// HashKey is the content hash key when the URL carried one.
	HashKey string
	// KeepAlive records the connection persistence negotiated on arrival.
	KeepAlive bool

	releaseOnce sync.Once
}

// Cookie returns the named cookie or nil.
func (r *Request) Cookie(name string) *http.Cookie {
	for _, c := range r.Cookies {
		if c.Name == name {
			return c
		}
	}

	return nil
}

// Attribute returns a decoded form attribute value.
func (r *Request) Attribute(name string) string {
	return r.Attributes[name]
}

// Release frees the accumulated temporary resources. Safe to call multiple
// times; only the first call acts. Every exit path of the pipeline must
// reach it.
func (r *Request) Release() {
	r.releaseOnce.Do(func() {
		for _, f := range r.Files {
			// Best effort removal, the OS temp dir is the backstop
			_ = f.release()
		}

		r.Files = nil
	})
}
