//go:build unit

package hashcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPrefix = "/_/hash/"

func TestEngine_ParseHashURI(t *testing.T) {
	e := NewEngine(testPrefix, 8760*time.Hour, newFakeMetrics())

	tests := []struct {
		name         string
		path         string
		wantHash     string
		wantOriginal string
		wantOK       bool
	}{
		{
			name:         "valid hash uri",
			path:         "/_/hash/abcdef0123456789/css/site.css",
			wantHash:     "abcdef0123456789",
			wantOriginal: "/css/site.css",
			wantOK:       true,
		},
		{
			name:         "nested original uri",
			path:         "/_/hash/deadbeef/articles/42",
			wantHash:     "deadbeef",
			wantOriginal: "/articles/42",
			wantOK:       true,
		},
		{
			name: "outside the reserved prefix",
			path: "/css/site.css",
		},
		{
			name: "prefix with no hash segment",
			path: "/_/hash/",
		},
		{
			name: "hash without original uri",
			path: "/_/hash/abcdef",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, original, ok := e.ParseHashURI(tt.path)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantHash, hash)
			assert.Equal(t, tt.wantOriginal, original)
		})
	}
}

func TestEngine_HashURI_RoundTrip(t *testing.T) {
	e := NewEngine(testPrefix, 8760*time.Hour, newFakeMetrics())

	_, ok := e.HashURI("/css/site.css")
	assert.False(t, ok)

	info := e.Update("/css/site.css", []byte("body{}"), time.Now(), 0)

	uri, ok := e.HashURI("/css/site.css")
	require.True(t, ok)
	assert.Equal(t, testPrefix+info.Hash+"/css/site.css", uri)

	hash, original, ok := e.ParseHashURI(uri)
	require.True(t, ok)
	assert.Equal(t, info.Hash, hash)
	assert.Equal(t, "/css/site.css", original)
}

func TestEngine_Evaluate(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	lastModified := now.Add(-10 * time.Minute)

	tests := []struct {
		name            string
		maxAge          time.Duration
		clientValidator time.Time
		wantOutcome     Outcome
		wantRemaining   time.Duration
	}{
		{
			name:          "no validator serves fresh",
			maxAge:        time.Hour,
			wantOutcome:   OutcomeServeFresh,
			wantRemaining: 50 * time.Minute,
		},
		{
			name:            "matching validator within window is not modified",
			maxAge:          time.Hour,
			clientValidator: lastModified,
			wantOutcome:     OutcomeNotModified,
			wantRemaining:   50 * time.Minute,
		},
		{
			name:            "newer validator within window is not modified",
			maxAge:          time.Hour,
			clientValidator: lastModified.Add(time.Minute),
			wantOutcome:     OutcomeNotModified,
			wantRemaining:   50 * time.Minute,
		},
		{
			name:            "stale validator within window serves fresh",
			maxAge:          time.Hour,
			clientValidator: lastModified.Add(-time.Minute),
			wantOutcome:     OutcomeServeFresh,
			wantRemaining:   50 * time.Minute,
		},
		{
			name:            "expired window regenerates even on matching validator",
			maxAge:          5 * time.Minute,
			clientValidator: lastModified,
			wantOutcome:     OutcomeServeAndHash,
			wantRemaining:   5 * time.Minute,
		},
		{
			name:            "zero max-age never hash-caches",
			maxAge:          0,
			clientValidator: lastModified,
			wantOutcome:     OutcomeNotModified,
			wantRemaining:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metricsCl := newFakeMetrics()
			e := NewEngine(testPrefix, 8760*time.Hour, metricsCl)

			info := &Info{Hash: "abcd", LastModified: lastModified, MaxAge: tt.maxAge}

			outcome, remaining := e.Evaluate(info, tt.maxAge, tt.clientValidator, now)

			assert.Equal(t, tt.wantOutcome, outcome)
			assert.Equal(t, tt.wantRemaining, remaining)
			assert.Equal(t, 1, metricsCl.outcomes[outcome.String()])
		})
	}
}

func TestEngine_Evaluate_RemainingCapped(t *testing.T) {
	e := NewEngine(testPrefix, time.Hour, newFakeMetrics())

	now := time.Now()
	info := &Info{Hash: "abcd", LastModified: now.Add(-time.Minute)}

	// A two-hour window exceeds the one-hour ceiling
	outcome, remaining := e.Evaluate(info, 2*time.Hour, time.Time{}, now)

	assert.Equal(t, OutcomeServeFresh, outcome)
	assert.Equal(t, time.Hour, remaining)
}

func TestEngine_Evaluate_Idempotent(t *testing.T) {
	e := NewEngine(testPrefix, 8760*time.Hour, newFakeMetrics())

	now := time.Now()
	lastModified := now.Add(-time.Minute)

	info := e.Update("/articles/42", []byte("v1"), lastModified, time.Hour)

	// First request without a validator serves the content fresh
	outcome, _ := e.Evaluate(info, info.MaxAge, time.Time{}, now)
	assert.Equal(t, OutcomeServeFresh, outcome)

	// The same client coming back with the served validator gets a 304
	outcome, _ = e.Evaluate(info, info.MaxAge, lastModified.Truncate(time.Second), now)
	assert.Equal(t, OutcomeNotModified, outcome)
}

func TestEngine_UpdateFileInfo(t *testing.T) {
	e := NewEngine(testPrefix, 8760*time.Hour, newFakeMetrics())

	modTime := time.Now().Add(-time.Hour)

	first := e.UpdateFileInfo("/css/site.css", []byte("v1"), modTime)

	// Same modification time keeps the recorded mapping
	second := e.UpdateFileInfo("/css/site.css", []byte("v2"), modTime)
	assert.Equal(t, first.Hash, second.Hash)

	// A newer modification time re-hashes
	third := e.UpdateFileInfo("/css/site.css", []byte("v2"), modTime.Add(time.Minute))
	assert.NotEqual(t, first.Hash, third.Hash)
}

func TestEngine_FileFresh(t *testing.T) {
	metricsCl := newFakeMetrics()
	e := NewEngine(testPrefix, 8760*time.Hour, metricsCl)

	modTime := time.Date(2024, 6, 1, 12, 0, 0, 500_000_000, time.UTC)

	// No validator is never fresh
	assert.False(t, e.FileFresh(modTime, time.Time{}))

	// Sub-second precision is dropped before comparing
	assert.True(t, e.FileFresh(modTime, modTime.Truncate(time.Second)))
	assert.Equal(t, 1, metricsCl.outcomes[OutcomeNotModified.String()])

	assert.False(t, e.FileFresh(modTime.Add(time.Second), modTime.Truncate(time.Second)))
}

func TestEngine_CapMaxAge(t *testing.T) {
	e := NewEngine(testPrefix, 8760*time.Hour, newFakeMetrics())

	assert.Equal(t, time.Hour, e.CapMaxAge(time.Hour))
	assert.Equal(t, 8760*time.Hour, e.CapMaxAge(0))
	assert.Equal(t, 8760*time.Hour, e.CapMaxAge(-time.Minute))
	assert.Equal(t, 8760*time.Hour, e.CapMaxAge(9000*time.Hour))
}

func TestDigest(t *testing.T) {
	assert.Equal(t, Digest([]byte("content")), Digest([]byte("content")))
	assert.NotEqual(t, Digest([]byte("content")), Digest([]byte("content2")))
	assert.Len(t, Digest([]byte("content")), 16)
}
