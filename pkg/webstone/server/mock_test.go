//go:build unit

package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/webstone-io/webstone/pkg/webstone/config"
	"github.com/webstone-io/webstone/pkg/webstone/handler"
	"github.com/webstone-io/webstone/pkg/webstone/request"
	"github.com/webstone-io/webstone/pkg/webstone/webhook"
	"github.com/webstone-io/webstone/pkg/webstone/werr"
	"golang.org/x/net/websocket"
)

type fakeConfigManager struct {
	cfg *config.Config
}

func (f *fakeConfigManager) Load(string) error { return nil }

func (f *fakeConfigManager) GetConfig() *config.Config { return f.cfg }

func (*fakeConfigManager) AddOnChangeHook(func()) {}

type fakeMetrics struct {
	wsUpgrades int
}

func (*fakeMetrics) Instrument(string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler { return next }
}

func (*fakeMetrics) GetExposeHandler() http.Handler { return nil }

func (*fakeMetrics) IncStorageOperations(string, string) {}

func (*fakeMetrics) IncGateRejection(string) {}

func (*fakeMetrics) IncHashCacheOutcome(string) {}

func (*fakeMetrics) IncGzipCompressed() {}

func (f *fakeMetrics) IncWebsocketUpgrade() {
	f.wsUpgrades++
}

func (*fakeMetrics) IncSucceedWebhooks(string) {}

func (*fakeMetrics) IncFailedWebhooks(string) {}

type fakeWebhookManager struct {
	mu          sync.Mutex
	errorEvents []*webhook.ErrorMetadata
	loginEvents []*webhook.LoginMetadata
}

func (f *fakeWebhookManager) ManageErrorHooks(_ context.Context, meta *webhook.ErrorMetadata) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.errorEvents = append(f.errorEvents, meta)
}

func (f *fakeWebhookManager) ManageLoginHooks(_ context.Context, meta *webhook.LoginMetadata) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.loginEvents = append(f.loginEvents, meta)
}

func (*fakeWebhookManager) Load() error { return nil }

func (f *fakeWebhookManager) errorCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.errorEvents)
}

func (f *fakeWebhookManager) loginCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.loginEvents)
}

// pageHandler serves mutable content for cache-extension scenarios.
type pageHandler struct {
	mu          sync.Mutex
	resp        handler.Response
	panicOnCall bool
	calls       int
}

func (h *pageHandler) Get(*handler.Context) (*handler.Response, *werr.Error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.calls++

	if h.panicOnCall {
		panic("page handler exploded")
	}

	resp := h.resp

	return &resp, nil
}

func (h *pageHandler) callCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.calls
}

type settingsForm struct {
	Theme string
}

func (f *settingsForm) BindForm(req *request.Request) error {
	f.Theme = req.Attribute("theme")

	return nil
}

type settingsHandler struct {
	mu    sync.Mutex
	calls int
	last  *settingsForm
}

func (h *settingsHandler) Post(_ *handler.Context, body handler.FormModel) (*handler.Response, *werr.Error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.calls++
	h.last, _ = body.(*settingsForm)

	return handler.Redirect("/settings"), nil
}

func (h *settingsHandler) callCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.calls
}

type echoWsHandler struct{}

func (*echoWsHandler) Ws(_ *handler.Context, conn *websocket.Conn) error {
	return conn.Close()
}
