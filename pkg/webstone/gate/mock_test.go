//go:build unit

package gate

import (
	"context"
	"net/http"
	"sync"

	"github.com/webstone-io/webstone/pkg/webstone/config"
	"github.com/webstone-io/webstone/pkg/webstone/webhook"
)

type fakeConfigManager struct {
	cfg *config.Config
}

func (f *fakeConfigManager) Load(string) error { return nil }

func (f *fakeConfigManager) GetConfig() *config.Config { return f.cfg }

func (*fakeConfigManager) AddOnChangeHook(func()) {}

type fakeMetrics struct {
	rejections map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{rejections: map[string]int{}}
}

func (*fakeMetrics) Instrument(string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler { return next }
}

func (*fakeMetrics) GetExposeHandler() http.Handler { return nil }

func (*fakeMetrics) IncStorageOperations(string, string) {}

func (f *fakeMetrics) IncGateRejection(kind string) {
	f.rejections[kind]++
}

func (*fakeMetrics) IncHashCacheOutcome(string) {}

func (*fakeMetrics) IncGzipCompressed() {}

func (*fakeMetrics) IncWebsocketUpgrade() {}

func (*fakeMetrics) IncSucceedWebhooks(string) {}

func (*fakeMetrics) IncFailedWebhooks(string) {}

type fakeWebhookManager struct {
	mu          sync.Mutex
	loginEvents []*webhook.LoginMetadata
}

func (*fakeWebhookManager) Load() error { return nil }

func (*fakeWebhookManager) ManageErrorHooks(context.Context, *webhook.ErrorMetadata) {}

func (f *fakeWebhookManager) ManageLoginHooks(_ context.Context, metadata *webhook.LoginMetadata) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.loginEvents = append(f.loginEvents, metadata)
}

func (f *fakeWebhookManager) loginCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.loginEvents)
}
