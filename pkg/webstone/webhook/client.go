package webhook

import (
	"context"

	"github.com/webstone-io/webstone/pkg/webstone/config"
	"github.com/webstone-io/webstone/pkg/webstone/metrics"
)

// Event names.
const (
	// ErrorEvent Internal server error event.
	ErrorEvent = "error"
	// LoginEvent Successful login event.
	LoginEvent = "login"
)

// ErrorMetadata Error event metadata.
type ErrorMetadata struct {
	RequestPath string
	Method      string
	StatusCode  int
	Message     string
}

// LoginMetadata Login event metadata.
type LoginMetadata struct {
	UserID string
	Email  string
}

// Manager client manager.
type Manager interface {
	// ManageErrorHooks will manage error event hooks.
	ManageErrorHooks(ctx context.Context, metadata *ErrorMetadata)
	// ManageLoginHooks will manage login event hooks.
	ManageLoginHooks(ctx context.Context, metadata *LoginMetadata)
	// Load will load all webhook clients.
	Load() error
}

func NewManager(cfgManager config.Manager, metricsSvc metrics.Client) Manager {
	return &manager{
		cfgManager: cfgManager,
		storage:    &hooksCfgStorage{},
		metricsSvc: metricsSvc,
	}
}
