package responder

import (
	"net/http"

	"github.com/webstone-io/webstone/pkg/webstone/handler"
	"github.com/webstone-io/webstone/pkg/webstone/log"
)

// applyCookies emits cookie deletions before sets. A name present on both
// sides keeps the deletion; the conflicting set is dropped with a warning.
func (s *Serializer) applyCookies(w http.ResponseWriter, resp *handler.Response, logger log.Logger) {
	deleted := map[string]bool{}

	for _, name := range resp.DeleteCookies {
		if deleted[name] {
			continue
		}

		deleted[name] = true

		http.SetCookie(w, s.cookies.DeleteCookie(name))
	}

	sets := resp.SetCookies

	// The CSRF token rides on its own script-visible cookie
	if resp.CSRFToken != "" {
		c, err := s.cookies.CSRFCookie(resp.CSRFToken)
		if err != nil {
			logger.WithError(err).Warn("csrf cookie dropped, encoding failed")
		} else {
			sets = append(sets, c)
		}
	}

	for _, c := range sets {
		if deleted[c.Name] {
			logger.Warnf("cookie %s is both deleted and set, keeping the deletion", c.Name)

			continue
		}

		http.SetCookie(w, c)
	}
}
