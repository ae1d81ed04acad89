package responder

import (
	"net/http"
	"strconv"
	"time"
)

// CacheMode selects which cache headers a response carries.
type CacheMode int

const (
	// CacheNone emits explicit no-cache headers.
	CacheNone CacheMode = iota
	// CacheLastModified emits a Last-Modified validator.
	CacheLastModified
	// CacheHashed emits the hash-URI headers: long max-age, Expires and the
	// content hash as ETag.
	CacheHashed
)

// CacheInfo is the cache header set decided by the hash engine outcome.
type CacheInfo struct {
	Mode         CacheMode
	LastModified time.Time
	MaxAge       time.Duration
	ETag         string
}

func applyCacheHeaders(header http.Header, cache *CacheInfo) {
	if cache == nil {
		cache = &CacheInfo{Mode: CacheNone}
	}

	switch cache.Mode {
	case CacheHashed:
		seconds := int(cache.MaxAge / time.Second)

		header.Set("Cache-Control", "public, max-age="+strconv.Itoa(seconds))
		header.Set("Expires", time.Now().Add(cache.MaxAge).UTC().Format(http.TimeFormat))

		if cache.ETag != "" {
			header.Set("ETag", cache.ETag)
		}

		if !cache.LastModified.IsZero() {
			header.Set("Last-Modified", cache.LastModified.UTC().Format(http.TimeFormat))
		}
	case CacheLastModified:
		if !cache.LastModified.IsZero() {
			header.Set("Last-Modified", cache.LastModified.UTC().Format(http.TimeFormat))
		}
	default:
		header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
		header.Set("Pragma", "no-cache")
		header.Set("Expires", "0")
	}
}
