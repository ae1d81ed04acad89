//go:build unit

package staticfs

import "net/http"

type fakeMetrics struct {
	storageOps map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{storageOps: map[string]int{}}
}

func (*fakeMetrics) Instrument(string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler { return next }
}

func (*fakeMetrics) GetExposeHandler() http.Handler { return nil }

func (f *fakeMetrics) IncStorageOperations(backend, operation string) {
	f.storageOps[backend+"/"+operation]++
}

func (*fakeMetrics) IncGateRejection(string) {}

func (*fakeMetrics) IncHashCacheOutcome(string) {}

func (*fakeMetrics) IncGzipCompressed() {}

func (*fakeMetrics) IncWebsocketUpgrade() {}

func (*fakeMetrics) IncSucceedWebhooks(string) {}

func (*fakeMetrics) IncFailedWebhooks(string) {}
