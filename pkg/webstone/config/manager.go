package config

import "github.com/webstone-io/webstone/pkg/webstone/log"

// Manager gives access to the loaded configuration and its reload cycle.
type Manager interface {
	// Load configuration from the given folder
	Load(mainConfFolderPath string) error
	// Get configuration object
	GetConfig() *Config
	// Add hook called on every configuration change
	AddOnChangeHook(hook func())
}

func NewManager(logger log.Logger) Manager {
	return &managercontext{logger: logger}
}
