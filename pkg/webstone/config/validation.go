package config

import (
	"net/url"
	"time"

	"emperror.dev/errors"
)

func validateBusinessConfig(out *Config) error {
	// Validate canonical URL
	u, err := url.Parse(out.CanonicalURL)
	if err != nil {
		return errors.WithStack(err)
	}

	if u.Scheme == "" || u.Host == "" {
		return errors.Errorf("canonical url %s must be absolute", out.CanonicalURL)
	}

	// Validate static backend coherence
	switch out.Static.Backend {
	case StaticBackendLocal:
		if out.Static.Local == nil {
			return errors.New("static backend local is selected but no local configuration is declared")
		}
	case StaticBackendS3:
		if out.Static.S3 == nil {
			return errors.New("static backend s3 is selected but no s3 configuration is declared")
		}
	}

	// Validate cookie encryption key length when declared
	if out.Cookies != nil && out.Cookies.EncryptionKey != nil {
		keyLen := len(out.Cookies.EncryptionKey.Value)
		if keyLen != 16 && keyLen != 24 && keyLen != 32 {
			return errors.Errorf("cookie encryption key must be 16, 24 or 32 bytes long (got %d)", keyLen)
		}
	}

	// Validate all declared durations
	durations := map[string]string{
		"hash.indefiniteMaxAge":  out.Hash.IndefiniteMaxAge,
		"cookies.sessionMaxAge":  out.Cookies.SessionMaxAge,
		"cookies.flashMaxAge":    out.Cookies.FlashMaxAge,
		"cookies.redirectMaxAge": out.Cookies.RedirectMaxAge,
	}
	for key, val := range durations {
		_, err2 := time.ParseDuration(val)
		if err2 != nil {
			return errors.Errorf("%s isn't a valid duration: %s", key, val)
		}
	}

	return nil
}
