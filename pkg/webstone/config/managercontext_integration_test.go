//go:build integration

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webstone-io/webstone/pkg/webstone/log"
)

func writeConfigs(t *testing.T, configs map[string]string) string {
	t.Helper()

	dir := t.TempDir()

	for name, content := range configs {
		err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600)
		require.NoError(t, err)
	}

	return dir
}

func Test_managercontext_Load(t *testing.T) {
	tests := []struct {
		name         string
		configs      map[string]string
		envVariables map[string]string
		wantErr      bool
		check        func(t *testing.T, cfg *Config)
	}{
		{
			name: "Not a yaml",
			configs: map[string]string{
				"config.yaml": "notayaml",
			},
			wantErr: true,
		},
		{
			name: "Missing canonical url",
			configs: map[string]string{
				"config.yaml": `
log:
  level: debug
`,
			},
			wantErr: true,
		},
		{
			name: "All default values with minimal config",
			configs: map[string]string{
				"config.yaml": `
canonicalUrl: http://localhost:8080
`,
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "http://localhost:8080", cfg.CanonicalURL)
				assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
				assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
				assert.Equal(t, DefaultPort, cfg.Server.Port)
				assert.Equal(t, DefaultInternalPort, cfg.InternalServer.Port)
				require.NotNil(t, cfg.Gzip.Enabled)
				assert.True(t, *cfg.Gzip.Enabled)
				assert.Equal(t, DefaultGzipMinSize, cfg.Gzip.MinSize)
				assert.Equal(t, DefaultGzipCompressibleTypes, cfg.Gzip.CompressibleTypes)
				assert.Equal(t, DefaultCSRFFieldName, cfg.CSRF.FieldName)
				assert.Equal(t, DefaultCSRFQueryParam, cfg.CSRF.QueryParam)
				assert.Equal(t, DefaultHashPathPrefix, cfg.Hash.PathPrefix)
				assert.Equal(t, DefaultHashIndefiniteMaxAge, cfg.Hash.IndefiniteMaxAge)
				assert.Equal(t, DefaultSessionCookieMaxAge, cfg.Cookies.SessionMaxAge)
				assert.Equal(t, StaticBackendLocal, cfg.Static.Backend)
				assert.Equal(t, DefaultStaticLocalRootPath, cfg.Static.Local.RootPath)
			},
		},
		{
			name: "Multiple configuration files merged",
			configs: map[string]string{
				"config.yaml": `
canonicalUrl: https://example.com
`,
				"static.yaml": `
static:
  backend: local
  local:
    rootPath: /srv/static
`,
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "https://example.com", cfg.CanonicalURL)
				assert.Equal(t, "/srv/static", cfg.Static.Local.RootPath)
			},
		},
		{
			name: "S3 backend without s3 section",
			configs: map[string]string{
				"config.yaml": `
canonicalUrl: http://localhost:8080
static:
  backend: s3
`,
			},
			wantErr: true,
		},
		{
			name: "Encryption key from environment variable",
			configs: map[string]string{
				"config.yaml": `
canonicalUrl: http://localhost:8080
cookies:
  encryptionKey:
    env: WEBSTONE_COOKIE_KEY
`,
			},
			envVariables: map[string]string{
				"WEBSTONE_COOKIE_KEY": "0123456789abcdef",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0123456789abcdef", cfg.Cookies.EncryptionKey.Value)
			},
		},
		{
			name: "Encryption key with invalid length",
			configs: map[string]string{
				"config.yaml": `
canonicalUrl: http://localhost:8080
cookies:
  encryptionKey:
    value: tooshort
`,
			},
			wantErr: true,
		},
		{
			name: "Invalid cookie duration",
			configs: map[string]string{
				"config.yaml": `
canonicalUrl: http://localhost:8080
cookies:
  sessionMaxAge: nonsense
`,
			},
			wantErr: true,
		},
		{
			name: "Webhook method defaulted",
			configs: map[string]string{
				"config.yaml": `
canonicalUrl: http://localhost:8080
webhooks:
  error:
  - url: http://hooks.example.com/error
`,
			},
			check: func(t *testing.T, cfg *Config) {
				require.Len(t, cfg.Webhooks.Error, 1)
				assert.Equal(t, "POST", cfg.Webhooks.Error[0].Method)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVariables {
				t.Setenv(k, v)
			}

			dir := writeConfigs(t, tt.configs)

			mgr := NewManager(log.NewLogger())
			err := mgr.Load(dir)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)

			if tt.check != nil {
				tt.check(t, mgr.GetConfig())
			}
		})
	}
}

func Test_managercontext_Load_MissingFolder(t *testing.T) {
	mgr := NewManager(log.NewLogger())
	assert.Error(t, mgr.Load(filepath.Join(t.TempDir(), "nope")))
}

func Test_managercontext_Load_SecretFile(t *testing.T) {
	dir := t.TempDir()

	secretPath := filepath.Join(dir, "cookie-key")
	require.NoError(t, os.WriteFile(secretPath, []byte("0123456789abcdef\n"), 0o600))

	writeTo := writeConfigs(t, map[string]string{
		"config.yaml": `
canonicalUrl: http://localhost:8080
cookies:
  encryptionKey:
    path: ` + secretPath + `
`,
	})

	mgr := NewManager(log.NewLogger())
	require.NoError(t, mgr.Load(writeTo))

	// Trailing newlines are stripped from secret files
	assert.Equal(t, "0123456789abcdef", mgr.GetConfig().Cookies.EncryptionKey.Value)
}
