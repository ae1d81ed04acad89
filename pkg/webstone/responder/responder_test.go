//go:build unit

package responder

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webstone-io/webstone/pkg/webstone/config"
	"github.com/webstone-io/webstone/pkg/webstone/cookie"
	"github.com/webstone-io/webstone/pkg/webstone/handler"
	"github.com/webstone-io/webstone/pkg/webstone/log"
	"github.com/webstone-io/webstone/pkg/webstone/request"
)

func testSerializer(t *testing.T) (*Serializer, *cookie.Manager, *fakeMetrics) {
	t.Helper()

	cfgManager := &fakeConfigManager{cfg: &config.Config{
		CanonicalURL: "https://example.com",
	}}
	cookies := cookie.NewManager(cfgManager, cookie.NewCodec(nil))
	metricsCl := &fakeMetrics{}

	s := NewSerializer(cfgManager, cookies, metricsCl)
	require.NoError(t, s.Load())

	return s, cookies, metricsCl
}

func testCtx() context.Context {
	return log.SetLoggerInContext(context.Background(), log.NewLogger())
}

func testRequest(keepAlive bool, header http.Header) *request.Request {
	if header == nil {
		header = http.Header{}
	}

	return &request.Request{
		Method:    http.MethodGet,
		Path:      "/articles",
		Header:    header,
		KeepAlive: keepAlive,
	}
}

func gunzip(t *testing.T, body []byte) []byte {
	t.Helper()

	gr, err := gzip.NewReader(bytes.NewReader(body))
	require.NoError(t, err)

	out, err := io.ReadAll(gr)
	require.NoError(t, err)

	return out
}

func TestSerializer_Send_Gzip(t *testing.T) {
	tests := []struct {
		name           string
		contentType    string
		bodySize       int
		acceptEncoding string
		wantCompressed bool
	}{
		{
			name:           "large html with gzip accepted",
			contentType:    "text/html; charset=utf-8",
			bodySize:       2000,
			acceptEncoding: "gzip, deflate",
			wantCompressed: true,
		},
		{
			name:           "small body stays identity",
			contentType:    "text/html; charset=utf-8",
			bodySize:       500,
			acceptEncoding: "gzip",
		},
		{
			name:           "non-compressible type stays identity",
			contentType:    "image/png",
			bodySize:       2000,
			acceptEncoding: "gzip",
		},
		{
			name:        "client without gzip support",
			contentType: "text/html; charset=utf-8",
			bodySize:    2000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, metricsCl := testSerializer(t)

			header := http.Header{}
			if tt.acceptEncoding != "" {
				header.Set("Accept-Encoding", tt.acceptEncoding)
			}

			body := bytes.Repeat([]byte("a"), tt.bodySize)
			resp := &handler.Response{Status: http.StatusOK, Body: body, ContentType: tt.contentType}

			rec := httptest.NewRecorder()
			s.Send(testCtx(), rec, testRequest(true, header), resp, nil, false)

			// Support is always advertised
			assert.Equal(t, "Accept-Encoding", rec.Header().Get("Vary"))

			if !tt.wantCompressed {
				assert.Empty(t, rec.Header().Get("Content-Encoding"))
				assert.Equal(t, body, rec.Body.Bytes())
				assert.Equal(t, 0, metricsCl.gzipCompressed)

				return
			}

			assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
			assert.Equal(t, body, gunzip(t, rec.Body.Bytes()))
			assert.Equal(t, strconv.Itoa(rec.Body.Len()), rec.Header().Get("Content-Length"))
			assert.Equal(t, 1, metricsCl.gzipCompressed)
		})
	}
}

func TestSerializer_Send_CookieConflict(t *testing.T) {
	s, cookies, _ := testSerializer(t)

	set, err := cookies.FlashCookie([]string{"saved"})
	require.NoError(t, err)

	resp := &handler.Response{
		Status:        http.StatusOK,
		Body:          []byte("ok"),
		ContentType:   "text/plain",
		SetCookies:    []*http.Cookie{set, {Name: "other", Value: "v", Path: "/"}},
		DeleteCookies: []string{cookie.FlashCookieName},
	}

	rec := httptest.NewRecorder()
	s.Send(testCtx(), rec, testRequest(true, nil), resp, nil, false)

	var flashCookies, otherCookies []*http.Cookie

	for _, c := range rec.Result().Cookies() {
		switch c.Name {
		case cookie.FlashCookieName:
			flashCookies = append(flashCookies, c)
		case "other":
			otherCookies = append(otherCookies, c)
		}
	}

	// Only the deletion survives the conflict
	require.Len(t, flashCookies, 1)
	assert.Empty(t, flashCookies[0].Value)
	assert.Equal(t, -1, flashCookies[0].MaxAge)

	require.Len(t, otherCookies, 1)
	assert.Equal(t, "v", otherCookies[0].Value)
}

func TestSerializer_Send_CSRFCookie(t *testing.T) {
	s, _, _ := testSerializer(t)

	resp := &handler.Response{
		Status:      http.StatusOK,
		Body:        []byte("ok"),
		ContentType: "text/plain",
		CSRFToken:   "tok",
	}

	rec := httptest.NewRecorder()
	s.Send(testCtx(), rec, testRequest(true, nil), resp, nil, false)

	var found *http.Cookie

	for _, c := range rec.Result().Cookies() {
		if c.Name == cookie.CSRFCookieName {
			found = c
		}
	}

	require.NotNil(t, found)
	assert.Equal(t, "p:tok", found.Value)
	assert.False(t, found.HttpOnly)
}

func TestSerializer_Send_FlashIntoHTML(t *testing.T) {
	s, cookies, _ := testSerializer(t)

	pending, err := cookies.FlashCookie([]string{"profile saved"})
	require.NoError(t, err)

	req := testRequest(true, nil)
	req.Cookies = []*http.Cookie{{Name: cookie.FlashCookieName, Value: pending.Value}}

	resp := handler.HTML([]byte("<html><body><h1>Hi</h1></body></html>"))
	resp.AddFlash("extra <msg>")

	rec := httptest.NewRecorder()
	s.Send(testCtx(), rec, req, resp, nil, false)

	page := rec.Body.String()

	// Both pending and handler messages render, escaped, before </body>
	assert.Contains(t, page, `<p class="flash">profile saved</p>`)
	assert.Contains(t, page, `<p class="flash">extra &lt;msg&gt;</p>`)
	assert.Less(t, strings.Index(page, "flash-messages"), strings.Index(page, "</body>"))

	// The consumed cookie is cleared
	var cleared bool

	for _, c := range rec.Result().Cookies() {
		if c.Name == cookie.FlashCookieName && c.MaxAge == -1 {
			cleared = true
		}
	}

	assert.True(t, cleared)
}

func TestSerializer_Send_FlashRePersistedForNonHTML(t *testing.T) {
	s, cookies, _ := testSerializer(t)

	pending, err := cookies.FlashCookie([]string{"saved"})
	require.NoError(t, err)

	req := testRequest(true, nil)
	req.Cookies = []*http.Cookie{{Name: cookie.FlashCookieName, Value: pending.Value}}

	resp := handler.Redirect("/articles")

	rec := httptest.NewRecorder()
	s.Send(testCtx(), rec, req, resp, nil, false)

	// Redirects carry no page, the messages ride on to the next one
	var rePersisted *http.Cookie

	for _, c := range rec.Result().Cookies() {
		if c.Name == cookie.FlashCookieName {
			rePersisted = c
		}
	}

	require.NotNil(t, rePersisted)
	assert.Equal(t, pending.Value, rePersisted.Value)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/articles", rec.Header().Get("Location"))
}

func TestSerializer_Send_Head(t *testing.T) {
	s, _, _ := testSerializer(t)

	resp := handler.Text("some body")

	rec := httptest.NewRecorder()
	s.Send(testCtx(), rec, testRequest(true, nil), resp, nil, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, rec.Body.Len())
	// Content-Length still reflects what GET would have carried
	assert.Equal(t, strconv.Itoa(len("some body")), rec.Header().Get("Content-Length"))
}

func TestSerializer_Send_Connection(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		keepAlive bool
		wantClose bool
	}{
		{
			name:      "success on keep-alive stays open",
			status:    http.StatusOK,
			keepAlive: true,
		},
		{
			name:      "success without keep-alive closes",
			status:    http.StatusOK,
			wantClose: true,
		},
		{
			name:      "error status closes even on keep-alive",
			status:    http.StatusBadRequest,
			keepAlive: true,
			wantClose: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := testSerializer(t)

			resp := &handler.Response{Status: tt.status, Body: []byte("x"), ContentType: "text/plain"}

			rec := httptest.NewRecorder()
			s.Send(testCtx(), rec, testRequest(tt.keepAlive, nil), resp, nil, false)

			if tt.wantClose {
				assert.Equal(t, "close", rec.Header().Get("Connection"))
			} else {
				assert.Empty(t, rec.Header().Get("Connection"))
			}
		})
	}
}

func TestSerializer_Send_RedirectKeepsConnection(t *testing.T) {
	s, _, _ := testSerializer(t)

	rec := httptest.NewRecorder()
	s.Send(testCtx(), rec, testRequest(true, nil), handler.Redirect("/login"), nil, false)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Empty(t, rec.Header().Get("Connection"))
}

func TestSerializer_SendNotModified(t *testing.T) {
	s, _, _ := testSerializer(t)

	lastModified := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	rec := httptest.NewRecorder()
	s.SendNotModified(rec, testRequest(true, nil), &CacheInfo{
		Mode:         CacheHashed,
		LastModified: lastModified,
		MaxAge:       time.Hour,
		ETag:         `"abcd"`,
	})

	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Zero(t, rec.Body.Len())
	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))
	assert.Equal(t, `"abcd"`, rec.Header().Get("ETag"))
	assert.Equal(t, lastModified.Format(http.TimeFormat), rec.Header().Get("Last-Modified"))
	// A 304 never keeps the connection open
	assert.Equal(t, "close", rec.Header().Get("Connection"))
}

func TestApplyCacheHeaders(t *testing.T) {
	lastModified := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("nil cache defaults to no-cache", func(t *testing.T) {
		header := http.Header{}
		applyCacheHeaders(header, nil)

		assert.Equal(t, "no-cache, no-store, must-revalidate", header.Get("Cache-Control"))
		assert.Equal(t, "no-cache", header.Get("Pragma"))
		assert.Equal(t, "0", header.Get("Expires"))
	})

	t.Run("last-modified mode", func(t *testing.T) {
		header := http.Header{}
		applyCacheHeaders(header, &CacheInfo{Mode: CacheLastModified, LastModified: lastModified})

		assert.Equal(t, lastModified.Format(http.TimeFormat), header.Get("Last-Modified"))
		assert.Empty(t, header.Get("Cache-Control"))
	})

	t.Run("hashed mode", func(t *testing.T) {
		header := http.Header{}
		applyCacheHeaders(header, &CacheInfo{
			Mode:         CacheHashed,
			LastModified: lastModified,
			MaxAge:       2 * time.Hour,
			ETag:         `"ff00"`,
		})

		assert.Equal(t, "public, max-age=7200", header.Get("Cache-Control"))
		assert.Equal(t, `"ff00"`, header.Get("ETag"))
		assert.NotEmpty(t, header.Get("Expires"))
	})
}
