package webhook

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"emperror.dev/errors"
	"github.com/go-resty/resty/v2"
	"github.com/webstone-io/webstone/pkg/webstone/config"
	"github.com/webstone-io/webstone/pkg/webstone/log"
	"github.com/webstone-io/webstone/pkg/webstone/metrics"
	"github.com/webstone-io/webstone/pkg/webstone/tracing"
)

// HookNumberOfRedirect will contains the number of redirect that a hook can follow.
const HookNumberOfRedirect = 20

type manager struct {
	cfgManager config.Manager
	storage    *hooksCfgStorage
	metricsSvc metrics.Client
	mu         sync.RWMutex
}

type hooksCfgStorage struct {
	Error []*hookStorage
	Login []*hookStorage
}

type hookStorage struct {
	Client *resty.Client
	Config *config.WebhookConfig
}

func (m *manager) Load() error {
	// Get configuration
	cfg := m.cfgManager.GetConfig()

	// Create storage structure
	entry := &hooksCfgStorage{}

	// Check if webhooks are configured
	if cfg.Webhooks != nil {
		// Create error event clients
		list, err := m.createRestClients(cfg.Webhooks.Error)
		// Check error
		if err != nil {
			return err
		}
		// Store
		entry.Error = list

		// Create login event clients
		list, err = m.createRestClients(cfg.Webhooks.Login)
		// Check error
		if err != nil {
			return err
		}
		// Store
		entry.Login = list
	}

	// Save new entry
	m.mu.Lock()
	m.storage = entry
	m.mu.Unlock()

	// Default return
	return nil
}

func (*manager) createRestClients(list []*config.WebhookConfig) ([]*hookStorage, error) {
	// Create result
	res := []*hookStorage{}

	// Loop over the list
	for _, it := range list {
		// Create client
		cli := resty.New()

		// Manage max wait time
		if it.MaxWaitTime != "" {
			// Parse duration
			dur, err := time.ParseDuration(it.MaxWaitTime)
			// Check error
			if err != nil {
				return nil, errors.WithStack(err)
			}
			// Add it
			cli = cli.SetRetryMaxWaitTime(dur)
		}

		// Manage retry count
		if it.RetryCount != 0 {
			// Add
			cli = cli.SetRetryCount(it.RetryCount)
		}

		// Set redirect policy
		cli = cli.SetRedirectPolicy(resty.FlexibleRedirectPolicy(HookNumberOfRedirect))

		// Append
		res = append(res, &hookStorage{
			Client: cli,
			Config: it,
		})
	}

	return res, nil
}

func (m *manager) ManageErrorHooks(ctx context.Context, metadata *ErrorMetadata) {
	// Separate functions to test logic without routine
	go m.manageErrorHooksInternal(ctx, metadata)
}

func (m *manager) manageErrorHooksInternal(ctx context.Context, metadata *ErrorMetadata) {
	// Get logger
	logger := log.GetLoggerFromContext(ctx)

	// Get hooks declared
	m.mu.RLock()
	hookClients := m.storage.Error
	m.mu.RUnlock()

	// Check if storage is empty
	if len(hookClients) == 0 {
		// Stop here
		logger.Debug("No error event hook declared")

		return
	}

	// Create hook metadata
	body := &ErrorHookBody{
		RequestPath: metadata.RequestPath,
		Method:      metadata.Method,
		Message:     metadata.Message,
		StatusCode:  metadata.StatusCode,
	}

	// Run hooks
	m.runHooks(ctx, ErrorEvent, body, hookClients)
}

func (m *manager) ManageLoginHooks(ctx context.Context, metadata *LoginMetadata) {
	// Separate functions to test logic without routine
	go m.manageLoginHooksInternal(ctx, metadata)
}

func (m *manager) manageLoginHooksInternal(ctx context.Context, metadata *LoginMetadata) {
	// Get logger
	logger := log.GetLoggerFromContext(ctx)

	// Get hooks declared
	m.mu.RLock()
	hookClients := m.storage.Login
	m.mu.RUnlock()

	// Check if storage is empty
	if len(hookClients) == 0 {
		// Stop here
		logger.Debug("No login event hook declared")

		return
	}

	// Create hook metadata
	body := &LoginHookBody{
		UserID: metadata.UserID,
		Email:  metadata.Email,
	}

	// Run hooks
	m.runHooks(ctx, LoginEvent, body, hookClients)
}

func (m *manager) runHooks(
	ctx context.Context,
	event string,
	metadata interface{},
	hookClients []*hookStorage,
) {
	// Get logger
	logger := log.GetLoggerFromContext(ctx)

	// Get parent trace
	parentTrace := tracing.GetTraceFromContext(ctx)

	// Create body
	body := &HookBody{
		Event:    event,
		Metadata: metadata,
	}

	// Need to create an intermediate function to manage defer properly
	executeOne := func(i int, st *hookStorage) {
		// Create specific logger
		spLogger := logger.WithFields(map[string]interface{}{
			"webhook_event":  event,
			"webhook_number": i,
		})

		// Create child trace
		childTrace := parentTrace.GetChildTrace("webhook")
		childTrace.SetTag("webhook-url", st.Config.URL)
		childTrace.SetTag("webhook-method", st.Config.Method)

		defer childTrace.Finish()

		// Save client
		cl := st.Client.R()
		// Add all fixed headers
		for k, val := range st.Config.Headers {
			// Add header
			cl = cl.SetHeader(k, val)
		}
		// Add all secret headers
		for k, val := range st.Config.SecretHeaders {
			// Add header
			cl = cl.SetHeader(k, val.Value)
		}
		// Add content-type
		cl = cl.SetHeader("Content-Type", "application/json")
		// Add body
		cl = cl.SetBody(body)
		// Add trace to http header for forwarding
		err := childTrace.InjectInHTTPHeader(cl.Header)
		// Check error
		if err != nil {
			spLogger.Error(errors.WithStack(err))

			// Stop here
			return
		}
		// Log
		spLogger.Info("Executing webhook")
		// Execute request
		res, err := cl.Execute(st.Config.Method, st.Config.URL)
		// Check error
		if err != nil {
			// Log
			spLogger.Error(errors.WithStack(err))

			// Increase failed webhooks
			m.metricsSvc.IncFailedWebhooks(event)

			// Stop here
			return
		}
		// Add status code to logger
		spLogger = spLogger.WithField("webhook_status_code", strconv.Itoa(res.StatusCode()))
		// Check status code
		if res.StatusCode() >= http.StatusBadRequest {
			// Create error
			err := fmt.Errorf("%d - %s", res.StatusCode(), string(res.Body()))
			// Log
			spLogger.Error(errors.WithStack(err))

			// Increase failed webhooks
			m.metricsSvc.IncFailedWebhooks(event)

			// Stop here
			return
		}

		spLogger.Info("Webhook succeed")

		// Increase succeed webhooks
		m.metricsSvc.IncSucceedWebhooks(event)
	}

	// Loop over clients to perform requests
	for i, st := range hookClients {
		executeOne(i, st)
	}
}
