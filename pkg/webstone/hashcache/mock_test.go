//go:build unit

package hashcache

import "net/http"

type fakeMetrics struct {
	outcomes map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{outcomes: map[string]int{}}
}

func (*fakeMetrics) Instrument(string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler { return next }
}

func (*fakeMetrics) GetExposeHandler() http.Handler { return nil }

func (*fakeMetrics) IncStorageOperations(string, string) {}

func (*fakeMetrics) IncGateRejection(string) {}

func (f *fakeMetrics) IncHashCacheOutcome(outcome string) {
	f.outcomes[outcome]++
}

func (*fakeMetrics) IncGzipCompressed() {}

func (*fakeMetrics) IncWebsocketUpgrade() {}

func (*fakeMetrics) IncSucceedWebhooks(string) {}

func (*fakeMetrics) IncFailedWebhooks(string) {}
