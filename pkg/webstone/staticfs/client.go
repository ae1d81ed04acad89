// Package staticfs is the static-resource collaborator of the pipeline:
// lookup of a servable resource by normalized path, backed by a local
// filesystem or an S3 bucket.
package staticfs

import (
	"context"
	"io"
	"time"

	"emperror.dev/errors"
	"github.com/webstone-io/webstone/pkg/webstone/config"
	"github.com/webstone-io/webstone/pkg/webstone/metrics"
)

// ErrNotFound Error not found.
var ErrNotFound = errors.New("not found")

// GetObjectOperation Get object operation.
const GetObjectOperation = "get-object"

// Resource is a servable static resource.
type Resource struct {
	// Body streams the resource content. The caller closes it.
	Body io.ReadCloser
	// FilePath is the backing file path when the backend is file-based,
	// enabling the zero-copy send path. Empty otherwise.
	FilePath    string
	ContentType string
	Size        int64
	ModTime     time.Time
}

// Client is a static resource backend.
type Client interface {
	// Get looks up the resource at a normalized path. ErrNotFound when no
	// resource exists there.
	Get(ctx context.Context, path string) (*Resource, error)
	// Stat looks up resource metadata without opening the content.
	Stat(ctx context.Context, path string) (*Resource, error)
}

// NewClient creates the backend client selected by the static
// configuration.
func NewClient(cfg *config.StaticConfig, metricsCl metrics.Client) (Client, error) {
	switch cfg.Backend {
	case config.StaticBackendLocal:
		return newLocalClient(cfg.Local, metricsCl)
	case config.StaticBackendS3:
		return newS3Client(cfg.S3, metricsCl)
	default:
		return nil, errors.Errorf("unsupported static backend %s", cfg.Backend)
	}
}
