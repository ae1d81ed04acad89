package config

import (
	"fmt"
	"os"
	"path"
	"strings"

	"emperror.dev/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"github.com/thoas/go-funk"
	"github.com/webstone-io/webstone/pkg/webstone/log"
)

var validate = validator.New()

type managercontext struct {
	cfg           *Config
	configs       []*viper.Viper
	onChangeHooks []func()
	logger        log.Logger
	confFolder    string
}

func (ctx *managercontext) AddOnChangeHook(hook func()) {
	ctx.onChangeHooks = append(ctx.onChangeHooks, hook)
}

func (ctx *managercontext) Load(mainConfFolderPath string) error {
	// Store folder for reloads
	ctx.confFolder = mainConfFolderPath

	// List files
	files, err := os.ReadDir(mainConfFolderPath)
	if err != nil {
		return errors.WithStack(err)
	}

	// Generate viper instances for static configs
	ctx.configs = generateViperInstances(files, mainConfFolderPath)

	// Load configuration
	err = ctx.loadConfiguration()
	if err != nil {
		return err
	}

	// Loop over config files
	funk.ForEach(ctx.configs, func(vip *viper.Viper) {
		// Add hooks for on change events
		vip.OnConfigChange(func(in fsnotify.Event) {
			ctx.logger.Infof("Reload configuration detected for file %s", vip.ConfigFileUsed())

			// Reload config
			err2 := ctx.loadConfiguration()
			if err2 != nil {
				ctx.logger.Error(err2)
				// Stop here and do not call hooks => configuration is unstable
				return
			}
			// Call all hooks
			funk.ForEach(ctx.onChangeHooks, func(hook func()) { hook() })
		})
		// Watch for configuration changes
		vip.WatchConfig()
	})

	return nil
}

func (*managercontext) loadDefaultConfigurationValues(vip *viper.Viper) {
	// Load default configuration
	vip.SetDefault("log.level", DefaultLogLevel)
	vip.SetDefault("log.format", DefaultLogFormat)
	vip.SetDefault("server.port", DefaultPort)
	vip.SetDefault("server.timeouts.readHeaderTimeout", DefaultServerTimeoutsReadHeaderTimeout)
	vip.SetDefault("internalServer.port", DefaultInternalPort)
	vip.SetDefault("internalServer.timeouts.readHeaderTimeout", DefaultServerTimeoutsReadHeaderTimeout)
	vip.SetDefault("gzip.enabled", true)
	vip.SetDefault("gzip.minSize", DefaultGzipMinSize)
	vip.SetDefault("gzip.compressibleTypes", DefaultGzipCompressibleTypes)
	vip.SetDefault("cookies.sessionMaxAge", DefaultSessionCookieMaxAge)
	vip.SetDefault("cookies.flashMaxAge", DefaultFlashCookieMaxAge)
	vip.SetDefault("cookies.redirectMaxAge", DefaultRedirectCookieMaxAge)
	vip.SetDefault("csrf.fieldName", DefaultCSRFFieldName)
	vip.SetDefault("csrf.queryParam", DefaultCSRFQueryParam)
	vip.SetDefault("hash.pathPrefix", DefaultHashPathPrefix)
	vip.SetDefault("hash.indefiniteMaxAge", DefaultHashIndefiniteMaxAge)
	vip.SetDefault("static.backend", DefaultStaticBackend)
	vip.SetDefault("static.local.rootPath", DefaultStaticLocalRootPath)
}

func generateViperInstances(files []os.DirEntry, mainConfFolderPath string) []*viper.Viper {
	list := make([]*viper.Viper, 0)
	// Loop over static files to create viper instance for them
	funk.ForEach(files, func(file os.DirEntry) {
		filename := file.Name()
		// Create config file name
		cfgFileName := strings.TrimSuffix(filename, path.Ext(filename))
		// Test if config file name is compliant (ignore hidden files like .keep or directory)
		if !strings.HasPrefix(filename, ".") && cfgFileName != "" && !file.IsDir() {
			// Create new viper instance
			vip := viper.New()
			// Set config name
			vip.SetConfigName(cfgFileName)
			// Add configuration path
			vip.AddConfigPath(mainConfFolderPath)
			// Append it
			list = append(list, vip)
		}
	})

	return list
}

func (ctx *managercontext) loadConfiguration() error {
	// Create a viper instance for default value and merging
	globalViper := viper.New()

	// Put default values
	ctx.loadDefaultConfigurationValues(globalViper)

	// Loop over configs
	for _, vip := range ctx.configs {
		err := vip.ReadInConfig()
		if err != nil {
			return errors.WithStack(err)
		}

		err = globalViper.MergeConfigMap(vip.AllSettings())
		if err != nil {
			return errors.WithStack(err)
		}
	}

	// Prepare configuration object
	var out Config
	// Quick unmarshal.
	err := globalViper.Unmarshal(&out)
	if err != nil {
		return errors.WithStack(err)
	}

	// Load default values
	err = loadBusinessDefaultValues(&out)
	if err != nil {
		return err
	}

	// Configuration validation
	err = validate.Struct(out)
	if err != nil {
		return errors.WithStack(err)
	}

	// Load all credentials
	err = loadAllCredentials(&out)
	if err != nil {
		return err
	}

	err = validateBusinessConfig(&out)
	if err != nil {
		return err
	}

	ctx.cfg = &out

	return nil
}

// GetConfig allow to get configuration object.
func (ctx *managercontext) GetConfig() *Config {
	return ctx.cfg
}

func loadAllCredentials(out *Config) error {
	// Load cookie encryption key if declared
	if out.Cookies != nil && out.Cookies.EncryptionKey != nil {
		err := loadCredential(out.Cookies.EncryptionKey)
		if err != nil {
			return err
		}
	}

	// Load S3 static backend credentials if declared
	if out.Static != nil && out.Static.S3 != nil && out.Static.S3.Credentials != nil {
		creds := out.Static.S3.Credentials
		if creds.AccessKey != nil {
			err := loadCredential(creds.AccessKey)
			if err != nil {
				return err
			}
		}

		if creds.SecretKey != nil {
			err := loadCredential(creds.SecretKey)
			if err != nil {
				return err
			}
		}
	}

	// Load webhook secret headers
	if out.Webhooks != nil {
		for _, list := range [][]*WebhookConfig{out.Webhooks.Error, out.Webhooks.Login} {
			for _, wbCfg := range list {
				for _, secCre := range wbCfg.SecretHeaders {
					err := loadCredential(secCre)
					if err != nil {
						return err
					}
				}
			}
		}
	}

	return nil
}

func loadCredential(credCfg *CredentialConfig) error {
	if credCfg.Path != "" {
		// Secret file
		databytes, err := os.ReadFile(credCfg.Path)
		if err != nil {
			return errors.WithStack(err)
		}
		// Store val and clean new lines
		val := strings.TrimRight(string(databytes), "\r\n")

		credCfg.Value = val
	} else if credCfg.Env != "" {
		// Environment variable
		envValue := os.Getenv(credCfg.Env)
		if envValue == "" {
			err := fmt.Errorf(TemplateErrLoadingEnvCredentialEmpty, credCfg.Env)

			return errors.WithStack(err)
		}
		// Store value
		credCfg.Value = envValue
	}
	// Default value
	return nil
}

func loadBusinessDefaultValues(out *Config) error {
	// Manage default webhook method and wait times
	if out.Webhooks != nil {
		for _, list := range [][]*WebhookConfig{out.Webhooks.Error, out.Webhooks.Login} {
			for _, wbCfg := range list {
				if wbCfg.Method == "" {
					wbCfg.Method = "POST"
				}
			}
		}
	}

	// Manage default value for tracing
	if out.Tracing == nil {
		out.Tracing = &TracingConfig{Enabled: false}
	}

	// Manage default value for cookies
	if out.Cookies == nil {
		out.Cookies = &CookiesConfig{
			SessionMaxAge:  DefaultSessionCookieMaxAge,
			FlashMaxAge:    DefaultFlashCookieMaxAge,
			RedirectMaxAge: DefaultRedirectCookieMaxAge,
		}
	}

	return nil
}
