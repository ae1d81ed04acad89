package hashcache

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/webstone-io/webstone/pkg/webstone/metrics"
)

// Outcome is the per-request decision of the cache-extension algorithm.
type Outcome int

const (
	// OutcomeServeAndHash serves fresh content and schedules it for
	// (re-)hashing.
	OutcomeServeAndHash Outcome = iota
	// OutcomeNotModified returns an empty-body 304 without invoking the
	// handler.
	OutcomeNotModified
	// OutcomeServeFresh serves fresh content without touching the hash
	// mapping.
	OutcomeServeFresh
)

func (o Outcome) String() string {
	switch o {
	case OutcomeServeAndHash:
		return "serve-and-hash"
	case OutcomeNotModified:
		return "not-modified"
	default:
		return "serve-fresh"
	}
}

// Engine owns the process-wide hash-URI mapping. Constructor-injected into
// the pipeline; the underlying store is safe for concurrent readers and
// writers, the last writer per key wins.
type Engine struct {
	store      *gocache.Cache
	pathPrefix string
	// indefinite caps every advertised max-age, the practical HTTP ceiling
	// of one year.
	indefinite time.Duration
	metricsCl  metrics.Client
}

// NewEngine creates a hash engine serving hash URIs under pathPrefix.
func NewEngine(pathPrefix string, indefiniteMaxAge time.Duration, metricsCl metrics.Client) *Engine {
	return &Engine{
		store:      gocache.New(gocache.NoExpiration, 10*time.Minute),
		pathPrefix: pathPrefix,
		indefinite: indefiniteMaxAge,
		metricsCl:  metricsCl,
	}
}

// PathPrefix returns the reserved hash-URI path prefix.
func (e *Engine) PathPrefix() string {
	return e.pathPrefix
}

// HashURI derives the hash URI for an original URI if a mapping exists.
func (e *Engine) HashURI(originalURI string) (string, bool) {
	info, ok := e.Lookup(originalURI)
	if !ok {
		return "", false
	}

	return e.pathPrefix + info.Hash + originalURI, true
}

// ParseHashURI splits a hash URI back into its hash and original URI. The
// original URI always starts with a slash, so the hash is the segment
// between the reserved prefix and the next slash.
func (e *Engine) ParseHashURI(path string) (hash, originalURI string, ok bool) {
	if !strings.HasPrefix(path, e.pathPrefix) {
		return "", "", false
	}

	rest := strings.TrimPrefix(path, e.pathPrefix)

	idx := strings.Index(rest, "/")
	if idx <= 0 {
		return "", "", false
	}

	return rest[:idx], rest[idx:], true
}

// Lookup returns the current mapping for an original URI.
func (e *Engine) Lookup(originalURI string) (*Info, bool) {
	v, ok := e.store.Get(originalURI)
	if !ok {
		return nil, false
	}

	info, ok := v.(*Info)

	return info, ok
}

// Update hashes served content and refreshes the mapping for its original
// URI. Callers driving content changes from outside the pipeline must call
// this themselves, the engine cannot detect external writes.
func (e *Engine) Update(originalURI string, content []byte, lastModified time.Time, maxAge time.Duration) *Info {
	info := &Info{
		Hash:         Digest(content),
		LastModified: lastModified,
		MaxAge:       maxAge,
	}

	e.store.Set(originalURI, info, gocache.NoExpiration)

	return info
}

// UpdateFileInfo refreshes the mapping for a static file when its on-disk
// modification time advanced past the recorded one.
func (e *Engine) UpdateFileInfo(originalURI string, content []byte, modTime time.Time) *Info {
	if info, ok := e.Lookup(originalURI); ok && !modTime.After(info.LastModified) {
		return info
	}

	return e.Update(originalURI, content, modTime, 0)
}

// Evaluate runs the three-outcome decision for a request addressed to a
// mapped hash URI. It returns the outcome and the remaining validity window
// to advertise.
//
// The expiry check deliberately precedes the client-validator check: an
// expired mapping regenerates content even when the client's validator
// still matches.
func (e *Engine) Evaluate(info *Info, maxAge time.Duration, clientValidator, now time.Time) (Outcome, time.Duration) {
	remaining := time.Duration(0)
	if maxAge > 0 {
		remaining = info.LastModified.Add(maxAge).Sub(now)
	}

	var outcome Outcome

	switch {
	case maxAge > 0 && remaining <= 0:
		// Expired: regenerate and re-hash, advertising a full window again
		outcome = OutcomeServeAndHash
		remaining = maxAge
	case !clientValidator.IsZero() && !clientValidator.Before(info.LastModified.Truncate(time.Second)):
		// Client already holds the current content
		outcome = OutcomeNotModified
	default:
		// Changed within the window, or no validator supplied
		outcome = OutcomeServeFresh
	}

	e.metricsCl.IncHashCacheOutcome(outcome.String())

	// A zero remaining means not hash-cacheable, only positive windows are
	// bounded by the ceiling.
	if remaining > 0 {
		remaining = e.CapMaxAge(remaining)
	}

	return outcome, remaining
}

// FileFresh tells whether a static file is unchanged from the client's
// point of view. Validator comparison is at second granularity, matching
// the wire format.
func (e *Engine) FileFresh(modTime, clientValidator time.Time) bool {
	if clientValidator.IsZero() {
		return false
	}

	fresh := !modTime.Truncate(time.Second).After(clientValidator)
	if fresh {
		e.metricsCl.IncHashCacheOutcome(OutcomeNotModified.String())
	}

	return fresh
}

// IndefiniteMaxAge returns the one-year practical ceiling.
func (e *Engine) IndefiniteMaxAge() time.Duration {
	return e.indefinite
}

// CapMaxAge bounds an advertised max-age to the indefinite ceiling. A
// non-positive value means "as long as possible" and gets the full ceiling.
func (e *Engine) CapMaxAge(maxAge time.Duration) time.Duration {
	if maxAge <= 0 || maxAge > e.indefinite {
		return e.indefinite
	}

	return maxAge
}
