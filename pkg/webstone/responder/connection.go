package responder

import (
	"net/http"

	"github.com/webstone-io/webstone/pkg/webstone/request"
)

// applyConnection decides connection persistence. Only a plain success or a
// redirect on a keep-alive request keeps the connection open; every other
// status closes it so an error-state connection is never reused.
func applyConnection(header http.Header, req *request.Request, status int) {
	if req.KeepAlive && (status == http.StatusOK || status == http.StatusFound) {
		return
	}

	header.Set("Connection", "close")
}
