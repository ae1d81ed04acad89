//go:build unit

package routing

import (
	"github.com/webstone-io/webstone/pkg/webstone/handler"
	"github.com/webstone-io/webstone/pkg/webstone/werr"
	"golang.org/x/net/websocket"
)

type fakeGetHandler struct {
	calls int
}

func (f *fakeGetHandler) Get(*handler.Context) (*handler.Response, *werr.Error) {
	f.calls++

	return handler.Text("ok"), nil
}

type fakePostHandler struct {
	calls int
}

func (f *fakePostHandler) Post(*handler.Context, handler.FormModel) (*handler.Response, *werr.Error) {
	f.calls++

	return handler.Text("ok"), nil
}

type fakeWsHandler struct{}

func (*fakeWsHandler) Ws(*handler.Context, *websocket.Conn) error {
	return nil
}
