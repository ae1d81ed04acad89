package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/webstone-io/webstone/pkg/webstone/config"
	"github.com/webstone-io/webstone/pkg/webstone/cookie"
	"github.com/webstone-io/webstone/pkg/webstone/gate"
	"github.com/webstone-io/webstone/pkg/webstone/hashcache"
	"github.com/webstone-io/webstone/pkg/webstone/log"
	"github.com/webstone-io/webstone/pkg/webstone/metrics"
	"github.com/webstone-io/webstone/pkg/webstone/request"
	"github.com/webstone-io/webstone/pkg/webstone/responder"
	"github.com/webstone-io/webstone/pkg/webstone/routing"
	"github.com/webstone-io/webstone/pkg/webstone/server"
	"github.com/webstone-io/webstone/pkg/webstone/session"
	"github.com/webstone-io/webstone/pkg/webstone/staticfs"
	"github.com/webstone-io/webstone/pkg/webstone/tracing"
	"github.com/webstone-io/webstone/pkg/webstone/version"
	"github.com/webstone-io/webstone/pkg/webstone/webhook"
)

// Main package

func startServer(mainConfDir string) {
	// Create new logger
	logger := log.NewLogger()

	// Create configuration manager
	cfgManager := config.NewManager(logger)

	// Load configuration
	err := cfgManager.Load(mainConfDir)
	if err != nil {
		logger.Fatal(err)
	}

	// Get configuration
	cfg := cfgManager.GetConfig()
	// Configure logger
	err = logger.Configure(cfg.Log.Level, cfg.Log.Format, cfg.Log.FilePath)
	if err != nil {
		logger.Fatal(err)
	}

	// Watch change for logger (special case)
	cfgManager.AddOnChangeHook(func() {
		// Get configuration
		cfg := cfgManager.GetConfig()
		// Configure logger
		err = logger.Configure(cfg.Log.Level, cfg.Log.Format, cfg.Log.FilePath)
		if err != nil {
			logger.Fatal(err)
		}
	})

	logger.Debug("Configuration successfully loaded and logger configured")

	// Getting version
	v := version.GetVersion()
	logger.Infof("Starting webstone version: %s (git commit: %s) built on %s", v.Version, v.GitCommit, v.BuildDate)

	// Generate metrics instance
	metricsCtx := metrics.NewClient()

	// Generate tracing service instance
	tracingSvc, err := tracing.New(cfgManager, logger)
	// Check error
	if err != nil {
		logger.Fatal(err)
	}
	// Prepare on reload hook
	cfgManager.AddOnChangeHook(func() {
		err2 := tracingSvc.Reload()
		if err2 != nil {
			logger.Fatal(err2)
		}
	})

	// Create cookie codec, encrypted when a key is configured
	var cipherSvc *cookie.CipherService

	if cfg.Cookies != nil && cfg.Cookies.EncryptionKey != nil && cfg.Cookies.EncryptionKey.Value != "" {
		cipherSvc, err = cookie.NewCipherService([]byte(cfg.Cookies.EncryptionKey.Value))
		// Check error
		if err != nil {
			logger.Fatal(err)
		}
	}

	cookieManager := cookie.NewManager(cfgManager, cookie.NewCodec(cipherSvc))

	// Create session store
	sessionStore := session.NewMemoryStore()

	// Create static backend manager
	staticManager := staticfs.NewManager(cfgManager, metricsCtx)
	// Log
	logger.Info("Load static resource backend")
	// Load configuration
	err = staticManager.Load()
	// Check error
	if err != nil {
		logger.Fatal(err)
	}
	// Prepare on reload hook
	cfgManager.AddOnChangeHook(func() {
		logger.Info("Reload static resource backend")
		// Load
		err2 := staticManager.Load()
		// Check error
		if err2 != nil {
			logger.Fatal(err2)
		}
	})

	// Create webhook manager
	webhookManager := webhook.NewManager(cfgManager, metricsCtx)
	// Load
	err = webhookManager.Load()
	// Check error
	if err != nil {
		logger.Fatal(err)
	}
	// Prepare on reload hook
	cfgManager.AddOnChangeHook(func() {
		logger.Info("Reload webhook clients")
		// Load
		err2 := webhookManager.Load()
		// Check error
		if err2 != nil {
			logger.Fatal(err2)
		}
	})

	// Create response serializer
	serializer := responder.NewSerializer(cfgManager, cookieManager, metricsCtx)
	// Load
	err = serializer.Load()
	// Check error
	if err != nil {
		logger.Fatal(err)
	}
	// Prepare on reload hook
	cfgManager.AddOnChangeHook(func() {
		err2 := serializer.Load()
		if err2 != nil {
			logger.Fatal(err2)
		}
	})

	// Create hash engine
	indefinite, err := time.ParseDuration(cfg.Hash.IndefiniteMaxAge)
	if err != nil {
		logger.Fatal(err)
	}

	engine := hashcache.NewEngine(cfg.Hash.PathPrefix, indefinite, metricsCtx)

	// Build the route table. Applications embedding the pipeline register
	// their routes here; the bare server serves the static backend only.
	table, err := routing.NewBuilder().Build()
	if err != nil {
		logger.Fatal(err)
	}

	// Create pipeline
	pipeline := server.NewPipeline(
		cfgManager,
		table,
		request.NewDecoder(""),
		gate.NewGate(cfgManager, sessionStore, cookieManager, webhookManager, metricsCtx),
		engine,
		serializer,
		staticManager,
		webhookManager,
		metricsCtx,
	)

	// Create internal server
	intSvr := server.NewInternalServer(logger, cfgManager, metricsCtx)
	// Generate server
	intSvr.GenerateServer()
	// Create server
	svr := server.NewServer(logger, cfgManager, metricsCtx, tracingSvc, pipeline)
	// Generate server
	err = svr.GenerateServer()
	if err != nil {
		logger.Fatal(err)
	}

	var g errgroup.Group

	g.Go(svr.Listen)
	g.Go(intSvr.Listen)

	if err := g.Wait(); err != nil {
		logger.Fatal(err)
	}
}

func main() {
	var configFolder string

	rootCmd := &cobra.Command{
		Use:   "webstone",
		Short: "Embedded HTTP request pipeline server",
		Long:  "HTTP request-processing pipeline with route resolution, session/CSRF gating, content-hash cache extension and gzip serialization",
		Run: func(_ *cobra.Command, _ []string) {
			startServer(configFolder)
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of webstone",
		Run: func(_ *cobra.Command, _ []string) {
			v := version.GetVersion()
			fmt.Printf("version: %s (git commit: %s) built on %s", v.Version, v.GitCommit, v.BuildDate)
		},
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.PersistentFlags().StringVar(&configFolder, "config", "conf/", "Config folder (default is <Current Working Directory>/conf/)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
