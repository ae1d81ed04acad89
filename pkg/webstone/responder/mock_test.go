//go:build unit

package responder

import (
	"net/http"

	"github.com/webstone-io/webstone/pkg/webstone/config"
)

type fakeConfigManager struct {
	cfg *config.Config
}

func (f *fakeConfigManager) Load(string) error { return nil }

func (f *fakeConfigManager) GetConfig() *config.Config { return f.cfg }

func (*fakeConfigManager) AddOnChangeHook(func()) {}

type fakeMetrics struct {
	gzipCompressed int
}

func (*fakeMetrics) Instrument(string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler { return next }
}

func (*fakeMetrics) GetExposeHandler() http.Handler { return nil }

func (*fakeMetrics) IncStorageOperations(string, string) {}

func (*fakeMetrics) IncGateRejection(string) {}

func (*fakeMetrics) IncHashCacheOutcome(string) {}

func (f *fakeMetrics) IncGzipCompressed() {
	f.gzipCompressed++
}

func (*fakeMetrics) IncWebsocketUpgrade() {}

func (*fakeMetrics) IncSucceedWebhooks(string) {}

func (*fakeMetrics) IncFailedWebhooks(string) {}
