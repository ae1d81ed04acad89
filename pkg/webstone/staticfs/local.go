package staticfs

import (
	"context"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"emperror.dev/errors"
	"github.com/webstone-io/webstone/pkg/webstone/config"
	"github.com/webstone-io/webstone/pkg/webstone/metrics"
)

const localBackendLabel = "local"

type localClient struct {
	rootPath  string
	metricsCl metrics.Client
}

func newLocalClient(cfg *config.StaticLocalConfig, metricsCl metrics.Client) (Client, error) {
	root, err := filepath.Abs(cfg.RootPath)
	// Check error
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &localClient{rootPath: root, metricsCl: metricsCl}, nil
}

func (c *localClient) Get(_ context.Context, p string) (*Resource, error) {
	full, err := c.resolve(p)
	if err != nil {
		return nil, err
	}

	c.metricsCl.IncStorageOperations(localBackendLabel, GetObjectOperation)

	fd, err := os.Open(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}

		return nil, errors.WithStack(err)
	}

	info, err := fd.Stat()
	if err != nil {
		_ = fd.Close()

		return nil, errors.WithStack(err)
	}

	// Directories are not servable resources
	if info.IsDir() {
		_ = fd.Close()

		return nil, ErrNotFound
	}

	return &Resource{
		Body:        fd,
		FilePath:    full,
		ContentType: contentTypeByPath(full),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
	}, nil
}

func (c *localClient) Stat(_ context.Context, p string) (*Resource, error) {
	full, err := c.resolve(p)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}

		return nil, errors.WithStack(err)
	}

	if info.IsDir() {
		return nil, ErrNotFound
	}

	return &Resource{
		FilePath:    full,
		ContentType: contentTypeByPath(full),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
	}, nil
}

// resolve maps a request path under the root, refusing traversal outside
// of it.
func (c *localClient) resolve(p string) (string, error) {
	full := filepath.Join(c.rootPath, filepath.FromSlash(p))

	if full != c.rootPath && !strings.HasPrefix(full, c.rootPath+string(os.PathSeparator)) {
		return "", ErrNotFound
	}

	return full, nil
}

func contentTypeByPath(p string) string {
	ct := mime.TypeByExtension(filepath.Ext(p))
	if ct == "" {
		ct = "application/octet-stream"
	}

	return ct
}
