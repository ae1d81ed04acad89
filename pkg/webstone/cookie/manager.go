package cookie

import (
	"net/http"
	"time"

	"github.com/webstone-io/webstone/pkg/webstone/config"
)

// Names of the cookies set by this system.
const (
	// SessionCookieName carries the session token. HTTP-only.
	SessionCookieName = "ws_session"
	// EmailCookieName exposes the logged-in email to client script.
	EmailCookieName = "ws_email"
	// FlashCookieName carries pending flash messages until the next HTML response.
	FlashCookieName = "ws_flash"
	// RedirectCookieName records the path to return to after login.
	RedirectCookieName = "ws_redirect"
	// CSRFCookieName exposes the current CSRF token to client script for
	// same-origin AJAX headers.
	CSRFCookieName = "ws_csrf"
)

// Manager builds the system cookies with their lifecycle flags.
type Manager struct {
	codec      *Codec
	cfgManager config.Manager
}

func NewManager(cfgManager config.Manager, codec *Codec) *Manager {
	return &Manager{cfgManager: cfgManager, codec: codec}
}

// Codec exposes the value codec for collaborators decoding inbound cookies.
func (m *Manager) Codec() *Codec {
	return m.codec
}

// SessionCookie builds the HTTP-only session cookie. The value is encrypted
// when a cipher is configured, base64 encoded otherwise.
func (m *Manager) SessionCookie(token string) (*http.Cookie, error) {
	enc := EncodingBase64
	if m.codec.cipher != nil {
		enc = EncodingEncrypted
	}

	value, err := m.codec.Encode(token, enc)
	if err != nil {
		return nil, err
	}

	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   m.maxAgeSeconds(m.cookiesCfg().SessionMaxAge, config.DefaultSessionCookieMaxAge),
		HttpOnly: true,
		Secure:   m.secure(),
	}, nil
}

// EmailCookie builds the script-visible email cookie. Same lifetime as the
// session cookie, deliberately not HTTP-only.
func (m *Manager) EmailCookie(email string) (*http.Cookie, error) {
	value, err := m.codec.Encode(email, EncodingPlain)
	if err != nil {
		return nil, err
	}

	return &http.Cookie{
		Name:   EmailCookieName,
		Value:  value,
		Path:   "/",
		MaxAge: m.maxAgeSeconds(m.cookiesCfg().SessionMaxAge, config.DefaultSessionCookieMaxAge),
		Secure: m.secure(),
	}, nil
}

// FlashCookie builds the short-lived flash message cookie.
func (m *Manager) FlashCookie(messages []string) (*http.Cookie, error) {
	value, err := m.codec.Encode(EncodeFlashMessages(messages), EncodingBase64)
	if err != nil {
		return nil, err
	}

	return &http.Cookie{
		Name:     FlashCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   m.maxAgeSeconds(m.cookiesCfg().FlashMaxAge, config.DefaultFlashCookieMaxAge),
		HttpOnly: true,
		Secure:   m.secure(),
	}, nil
}

// RedirectCookie builds the redirect-after-login cookie.
func (m *Manager) RedirectCookie(path string) (*http.Cookie, error) {
	value, err := m.codec.Encode(path, EncodingPlain)
	if err != nil {
		return nil, err
	}

	return &http.Cookie{
		Name:     RedirectCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   m.maxAgeSeconds(m.cookiesCfg().RedirectMaxAge, config.DefaultRedirectCookieMaxAge),
		HttpOnly: true,
		Secure:   m.secure(),
	}, nil
}

// CSRFCookie builds the script-visible CSRF token cookie. Scoped to the
// browser session: MaxAge 0 means no Max-Age attribute on the wire.
func (m *Manager) CSRFCookie(token string) (*http.Cookie, error) {
	value, err := m.codec.Encode(token, EncodingPlain)
	if err != nil {
		return nil, err
	}

	return &http.Cookie{
		Name:   CSRFCookieName,
		Value:  value,
		Path:   "/",
		Secure: m.secure(),
	}, nil
}

// DeleteCookie builds an immediate-expiry cookie for the given name.
func (*Manager) DeleteCookie(name string) *http.Cookie {
	return &http.Cookie{
		Name:   name,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	}
}

// SessionTTL is the configured session lifetime, aligned with the session
// cookie max-age.
func (m *Manager) SessionTTL() time.Duration {
	return time.Duration(m.maxAgeSeconds(m.cookiesCfg().SessionMaxAge, config.DefaultSessionCookieMaxAge)) * time.Second
}

// DecodeValue decodes an inbound cookie wire value.
func (m *Manager) DecodeValue(wire string) (string, error) {
	return m.codec.Decode(wire)
}

func (m *Manager) secure() bool {
	cfg := m.cfgManager.GetConfig()

	return cfg.Cookies != nil && cfg.Cookies.Secure
}

func (m *Manager) cookiesCfg() *config.CookiesConfig {
	cfg := m.cfgManager.GetConfig()
	if cfg.Cookies == nil {
		return &config.CookiesConfig{}
	}

	return cfg.Cookies
}

func (*Manager) maxAgeSeconds(d, fallback string) int {
	if d == "" {
		d = fallback
	}

	dur, err := time.ParseDuration(d)
	if err != nil {
		// Durations are validated at configuration load
		return 0
	}

	return int(dur / time.Second)
}
