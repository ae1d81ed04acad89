package server

import (
	"crypto/tls"

	"github.com/pkg/errors"
	"github.com/webstone-io/webstone/pkg/webstone/config"
	"github.com/webstone-io/webstone/pkg/webstone/log"
)

// The intersection of the recommended cipher suites from https://ciphersuite.info/cs/?security=recommended
// and the suites implemented in Go.
var defaultCipherSuites = []uint16{
	tls.TLS_AES_128_GCM_SHA256,
	tls.TLS_AES_256_GCM_SHA384,
	tls.TLS_CHACHA20_POLY1305_SHA256,
	tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
	tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
	tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256,
}

// generateTLSConfig creates a crypto/tls.Config for a net/http.Server from
// a ServerSSLConfig. Nil result when SSL isn't enabled.
func generateTLSConfig(sslConfig *config.ServerSSLConfig, logger log.Logger) (*tls.Config, error) {
	if sslConfig == nil || !sslConfig.Enabled {
		return nil, nil //nolint:nilnil // We do not want a TLS config in these cases
	}

	cert, err := tls.LoadX509KeyPair(sslConfig.CertificatePath, sslConfig.PrivateKeyPath)
	if err != nil {
		logger.Errorf("Failed to load TLS certificate: %v", err)

		return nil, errors.WithStack(err)
	}

	return &tls.Config{
		MinVersion:   tls.VersionTLS12,
		CipherSuites: defaultCipherSuites,
		Certificates: []tls.Certificate{cert},
	}, nil
}
