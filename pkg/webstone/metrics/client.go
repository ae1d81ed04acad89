package metrics

import "net/http"

// Client Client metrics interface.
type Client interface {
	// Will return a middleware to instrument http routers.
	Instrument(serverLabel string) func(next http.Handler) http.Handler
	// Will return a handler to expose metrics over a http server.
	GetExposeHandler() http.Handler
	// Will increase counter of static storage operations done by service.
	IncStorageOperations(backend, operation string)
	// Will increase counter of gate rejections.
	IncGateRejection(kind string)
	// Will increase counter of hash cache decisions.
	IncHashCacheOutcome(outcome string)
	// Will increase counter of compressed responses.
	IncGzipCompressed()
	// Will increase counter of accepted websocket upgrades.
	IncWebsocketUpgrade()
	// Will increase counter of succeeded webhooks.
	IncSucceedWebhooks(eventName string)
	// Will increase counter of failed webhooks.
	IncFailedWebhooks(eventName string)
}

// NewClient will generate a new client instance.
func NewClient() Client {
	client := &prometheusClient{}
	// Call register to create all prometheus instances objects
	client.register()

	return client
}
