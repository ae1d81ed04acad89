package staticfs

import (
	"sync"

	"github.com/webstone-io/webstone/pkg/webstone/config"
	"github.com/webstone-io/webstone/pkg/webstone/metrics"
)

// Manager holds the active static backend client and rebuilds it on
// configuration reload.
type Manager interface {
	// GetClient returns the active backend client.
	GetClient() Client
	// Load builds the backend client from the current configuration.
	Load() error
}

type manager struct {
	client     Client
	cfgManager config.Manager
	metricsCl  metrics.Client
	mu         sync.RWMutex
}

// NewManager creates a static backend manager. Call Load before first use
// and register it as a configuration on-change hook.
func NewManager(cfgManager config.Manager, metricsCl metrics.Client) Manager {
	return &manager{cfgManager: cfgManager, metricsCl: metricsCl}
}

func (m *manager) GetClient() Client {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.client
}

func (m *manager) Load() error {
	// Get configuration
	cfg := m.cfgManager.GetConfig()

	cl, err := NewClient(cfg.Static, m.metricsCl)
	// Check error
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.client = cl
	m.mu.Unlock()

	return nil
}
