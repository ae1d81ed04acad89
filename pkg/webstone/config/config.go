package config

// DefaultLogLevel Default log level.
const DefaultLogLevel = "info"

// DefaultLogFormat Default Log format.
const DefaultLogFormat = "json"

// DefaultPort Default port.
const DefaultPort = 8080

// DefaultInternalPort Default internal port.
const DefaultInternalPort = 9090

// DefaultServerTimeoutsReadHeaderTimeout Default server timeouts ReadHeaderTimeout.
const DefaultServerTimeoutsReadHeaderTimeout = "60s"

// DefaultGzipMinSize Minimum body size eligible for compression.
const DefaultGzipMinSize = 1024

// DefaultHashPathPrefix Reserved path prefix for hash URIs, not available to application routes.
const DefaultHashPathPrefix = "/_/hash/"

// DefaultHashIndefiniteMaxAge Practical "indefinite" client cache ceiling.
const DefaultHashIndefiniteMaxAge = "8760h"

// DefaultSessionCookieMaxAge Session cookie lifetime.
const DefaultSessionCookieMaxAge = "720h"

// DefaultFlashCookieMaxAge Flash cookie lifetime.
const DefaultFlashCookieMaxAge = "60s"

// DefaultRedirectCookieMaxAge Redirect-after-login cookie lifetime.
const DefaultRedirectCookieMaxAge = "300s"

// DefaultStaticBackend Default static resources backend.
const DefaultStaticBackend = StaticBackendLocal

// DefaultStaticLocalRootPath Default static local root path.
const DefaultStaticLocalRootPath = "static/"

// DefaultBucketRegion Default bucket region for the S3 static backend.
const DefaultBucketRegion = "us-east-1"

// StaticBackendLocal Local filesystem static backend type.
const StaticBackendLocal = "local"

// StaticBackendS3 S3 static backend type.
const StaticBackendS3 = "s3"

// DefaultCSRFFieldName POST body field carrying the CSRF token.
const DefaultCSRFFieldName = "_csrf"

// DefaultCSRFQueryParam Query parameter carrying the CSRF token on WebSocket upgrades.
const DefaultCSRFQueryParam = "_csrf"

// TemplateErrLoadingEnvCredentialEmpty Template Error when Loading Environment variable Credentials.
const TemplateErrLoadingEnvCredentialEmpty = "error loading credential, environment variable %s is empty"

// DefaultGzipCompressibleTypes Default compressible content type globs.
var DefaultGzipCompressibleTypes = []string{
	"text/*",
	"application/json",
	"application/javascript",
	"application/xml",
	"image/svg+xml",
}

// Config Application Configuration.
type Config struct {
	Log            *LogConfig      `mapstructure:"log"`
	Server         *ServerConfig   `mapstructure:"server"`
	InternalServer *ServerConfig   `mapstructure:"internalServer"`
	CanonicalURL   string          `mapstructure:"canonicalUrl" validate:"required,url"`
	Gzip           *GzipConfig     `mapstructure:"gzip"`
	Cookies        *CookiesConfig  `mapstructure:"cookies"`
	CSRF           *CSRFConfig     `mapstructure:"csrf"`
	Hash           *HashConfig     `mapstructure:"hash"`
	Static         *StaticConfig   `mapstructure:"static" validate:"required"`
	Webhooks       *WebhooksConfig `mapstructure:"webhooks"`
	Tracing        *TracingConfig  `mapstructure:"tracing"`
}

// LogConfig Log configuration.
type LogConfig struct {
	Level    string `mapstructure:"level" validate:"required"`
	Format   string `mapstructure:"format" validate:"required"`
	FilePath string `mapstructure:"filePath"`
}

// ServerConfig Server configuration.
type ServerConfig struct {
	Timeouts   *ServerTimeoutsConfig `mapstructure:"timeouts"`
	CORS       *ServerCorsConfig     `mapstructure:"cors" validate:"omitempty"`
	SSL        *ServerSSLConfig      `mapstructure:"ssl" validate:"omitempty"`
	ListenAddr string                `mapstructure:"listenAddr"`
	Port       int                   `mapstructure:"port" validate:"required"`
}

// ServerTimeoutsConfig Server timeouts configuration. No per-request timeout
// is imposed by the pipeline itself; operators can bound reads and writes
// here.
type ServerTimeoutsConfig struct {
	ReadTimeout       string `mapstructure:"readTimeout"`
	ReadHeaderTimeout string `mapstructure:"readHeaderTimeout"`
	WriteTimeout      string `mapstructure:"writeTimeout"`
	IdleTimeout       string `mapstructure:"idleTimeout"`
}

// ServerCorsConfig Server CORS configuration.
type ServerCorsConfig struct {
	AllowCredentials   *bool    `mapstructure:"allowCredentials"`
	Debug              *bool    `mapstructure:"debug"`
	OptionsPassthrough *bool    `mapstructure:"optionsPassthrough"`
	MaxAge             *int     `mapstructure:"maxAge"`
	AllowOrigins       []string `mapstructure:"allowOrigins"`
	AllowMethods       []string `mapstructure:"allowMethods"`
	AllowHeaders       []string `mapstructure:"allowHeaders"`
	ExposeHeaders      []string `mapstructure:"exposeHeaders"`
	Enabled            bool     `mapstructure:"enabled"`
	AllowAll           bool     `mapstructure:"allowAll"`
}

// ServerSSLConfig Server SSL configuration. When SSL is active the static
// file send path switches from zero-copy to buffered writes.
type ServerSSLConfig struct {
	CertificatePath string `mapstructure:"certificatePath" validate:"required"`
	PrivateKeyPath  string `mapstructure:"privateKeyPath" validate:"required"`
	Enabled         bool   `mapstructure:"enabled"`
}

// GzipConfig Gzip configuration.
type GzipConfig struct {
	Enabled           *bool    `mapstructure:"enabled"`
	CompressibleTypes []string `mapstructure:"compressibleTypes"`
	MinSize           int      `mapstructure:"minSize" validate:"gte=0"`
}

// CookiesConfig Cookie configuration.
type CookiesConfig struct {
	// EncryptionKey enables the encrypted cookie value encoding. Must be
	// 16, 24 or 32 bytes once resolved.
	EncryptionKey  *CredentialConfig `mapstructure:"encryptionKey"`
	SessionMaxAge  string            `mapstructure:"sessionMaxAge"`
	FlashMaxAge    string            `mapstructure:"flashMaxAge"`
	RedirectMaxAge string            `mapstructure:"redirectMaxAge"`
	Secure         bool              `mapstructure:"secure"`
}

// CSRFConfig CSRF transport configuration.
type CSRFConfig struct {
	FieldName  string `mapstructure:"fieldName" validate:"required"`
	QueryParam string `mapstructure:"queryParam" validate:"required"`
}

// HashConfig Hash-URI scheme configuration.
type HashConfig struct {
	PathPrefix       string `mapstructure:"pathPrefix" validate:"required,startswith=/"`
	IndefiniteMaxAge string `mapstructure:"indefiniteMaxAge" validate:"required"`
}

// StaticConfig Static resources configuration.
type StaticConfig struct {
	Local   *StaticLocalConfig `mapstructure:"local" validate:"omitempty"`
	S3      *StaticS3Config    `mapstructure:"s3" validate:"omitempty"`
	Backend string             `mapstructure:"backend" validate:"required,oneof=local s3"`
}

// StaticLocalConfig Local filesystem static backend configuration.
type StaticLocalConfig struct {
	RootPath string `mapstructure:"rootPath" validate:"required"`
}

// StaticS3Config S3 static backend configuration.
type StaticS3Config struct {
	Credentials *BucketCredentialConfig `mapstructure:"credentials" validate:"omitempty"`
	Bucket      string                  `mapstructure:"bucket" validate:"required"`
	Region      string                  `mapstructure:"region"`
	S3Endpoint  string                  `mapstructure:"s3Endpoint"`
	Prefix      string                  `mapstructure:"prefix"`
	DisableSSL  bool                    `mapstructure:"disableSSL"`
}

// BucketCredentialConfig Bucket credentials configurations.
type BucketCredentialConfig struct {
	AccessKey *CredentialConfig `mapstructure:"accessKey" validate:"omitempty"`
	SecretKey *CredentialConfig `mapstructure:"secretKey" validate:"omitempty"`
}

// CredentialConfig Credential configuration.
type CredentialConfig struct {
	Path  string `mapstructure:"path" validate:"required_without_all=Env Value"`
	Env   string `mapstructure:"env" validate:"required_without_all=Path Value"`
	Value string `mapstructure:"value" validate:"required_without_all=Path Env"`
}

// WebhooksConfig Webhook notification configuration.
type WebhooksConfig struct {
	Error []*WebhookConfig `mapstructure:"error" validate:"dive"`
	Login []*WebhookConfig `mapstructure:"login" validate:"dive"`
}

// WebhookConfig Webhook configuration.
type WebhookConfig struct {
	Headers       map[string]string            `mapstructure:"headers"`
	SecretHeaders map[string]*CredentialConfig `mapstructure:"secretHeaders" validate:"dive"`
	URL           string                       `mapstructure:"url" validate:"required,url"`
	Method        string                       `mapstructure:"method" validate:"required,oneof=POST PATCH PUT"`
	MaxWaitTime   string                       `mapstructure:"maxWaitTime"`
	RetryCount    int                          `mapstructure:"retryCount" validate:"gte=0"`
}

// TracingConfig represents the Tracing configuration structure.
type TracingConfig struct {
	FixedTags     map[string]interface{} `mapstructure:"fixedTags"`
	FlushInterval string                 `mapstructure:"flushInterval"`
	UDPHost       string                 `mapstructure:"udpHost"`
	QueueSize     int                    `mapstructure:"queueSize"`
	Enabled       bool                   `mapstructure:"enabled"`
	LogSpan       bool                   `mapstructure:"logSpan"`
}
