//go:build unit

package webhook

import (
	"net/http"
	"sync"

	"github.com/webstone-io/webstone/pkg/webstone/config"
)

type fakeConfigManager struct {
	cfg *config.Config
}

func (f *fakeConfigManager) Load(string) error { return nil }

func (f *fakeConfigManager) GetConfig() *config.Config { return f.cfg }

func (*fakeConfigManager) AddOnChangeHook(func()) {}

type fakeMetrics struct {
	mu      sync.Mutex
	succeed map[string]int
	failed  map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{succeed: map[string]int{}, failed: map[string]int{}}
}

func (*fakeMetrics) Instrument(string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler { return next }
}

func (*fakeMetrics) GetExposeHandler() http.Handler { return nil }

func (*fakeMetrics) IncStorageOperations(string, string) {}

func (*fakeMetrics) IncGateRejection(string) {}

func (*fakeMetrics) IncHashCacheOutcome(string) {}

func (*fakeMetrics) IncGzipCompressed() {}

func (*fakeMetrics) IncWebsocketUpgrade() {}

func (f *fakeMetrics) IncSucceedWebhooks(eventName string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.succeed[eventName]++
}

func (f *fakeMetrics) IncFailedWebhooks(eventName string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.failed[eventName]++
}

func (f *fakeMetrics) succeedCount(eventName string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.succeed[eventName]
}

func (f *fakeMetrics) failedCount(eventName string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.failed[eventName]
}
