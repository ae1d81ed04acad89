package request

import (
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/webstone-io/webstone/pkg/webstone/werr"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// Limits applied while accumulating body parts.
const (
	// MaxAttributeSize caps a single decoded form attribute.
	MaxAttributeSize = 1 << 20
	// MaxFormSize caps a urlencoded body.
	MaxFormSize = 10 << 20
)

// Decoder accumulates partial message data into Request values. The
// transport (net/http) delivers headers first and streams the body; a
// 100-continue expectation is answered by the transport before the body
// stream is read.
type Decoder struct {
	tmpDir string
}

// NewDecoder creates a decoder writing upload temp files under tmpDir.
// An empty tmpDir selects the OS default.
func NewDecoder(tmpDir string) *Decoder {
	return &Decoder{tmpDir: tmpDir}
}

// Decode builds a Request from an inbound message. For methods without a
// body the Request is complete from headers alone; for POST the body is fed
// through the streaming multipart or urlencoded decoder. On failure all
// resources accumulated so far are released before the error returns.
func (d *Decoder) Decode(hr *http.Request) (*Request, *werr.Error) {
	// Normalize path first, failing fast on malformed input
	normalized, perr := normalizePath(hr.URL.Path)
	if perr != nil {
		return nil, perr
	}

	req := &Request{
		Method:     hr.Method,
		RawPath:    hr.URL.RequestURI(),
		Path:       normalized,
		Query:      hr.URL.Query(),
		Attributes: map[string]string{},
		Cookies:    hr.Cookies(),
		Header:     hr.Header,
		RemoteAddr: hr.RemoteAddr,
		ArrivedAt:  time.Now(),
		KeepAlive:  keepAlive(hr),
	}

	// Methods without a body are complete as soon as headers arrived
	if hr.Method != http.MethodPost {
		return req, nil
	}

	perr = d.decodeBody(req, hr)
	if perr != nil {
		// Guaranteed release of everything accumulated so far
		req.Release()

		return nil, perr
	}

	return req, nil
}

func (d *Decoder) decodeBody(req *Request, hr *http.Request) *werr.Error {
	contentType := hr.Header.Get("Content-Type")
	if contentType == "" {
		return nil
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return werr.BadRequest(errors.WithStack(err), "malformed content type")
	}

	switch mediaType {
	case "multipart/form-data":
		return d.decodeMultipart(req, hr)
	case "application/x-www-form-urlencoded":
		return decodeURLEncoded(req, hr)
	default:
		// Unknown body kinds are left to the handler untouched
		return nil
	}
}

func (d *Decoder) decodeMultipart(req *Request, hr *http.Request) *werr.Error {
	mr, err := hr.MultipartReader()
	if err != nil {
		return werr.BadRequest(errors.WithStack(err), "malformed multipart body")
	}

	for {
		part, err2 := mr.NextPart()
		if err2 == io.EOF {
			return nil
		}

		if err2 != nil {
			return werr.BadRequest(errors.WithStack(err2), "malformed multipart body")
		}

		name := part.FormName()
		if name == "" {
			continue
		}

		// Attribute part
		if part.FileName() == "" {
			value, perr := readAttribute(part)
			if perr != nil {
				return perr
			}

			req.Attributes[name] = value

			continue
		}

		// File-upload part, retained by reference in a temp file
		upload, perr := d.spillUpload(part, name)
		if perr != nil {
			return perr
		}

		req.Files = append(req.Files, upload)
	}
}

func readAttribute(part *multipart.Part) (string, *werr.Error) {
	raw, err := io.ReadAll(io.LimitReader(part, MaxAttributeSize+1))
	if err != nil {
		return "", werr.BadRequest(errors.WithStack(err), "unreadable form attribute")
	}

	if len(raw) > MaxAttributeSize {
		return "", werr.BadRequest(nil, "form attribute too large")
	}

	// Decode using the declared charset, defaulting to UTF-8
	charsetName := "utf-8"

	if ct := part.Header.Get("Content-Type"); ct != "" {
		_, params, err2 := mime.ParseMediaType(ct)
		if err2 == nil && params["charset"] != "" {
			charsetName = params["charset"]
		}
	}

	value, perr := decodeCharset(raw, charsetName)
	if perr != nil {
		return "", perr
	}

	return value, nil
}

func decodeCharset(raw []byte, charsetName string) (string, *werr.Error) {
	if strings.EqualFold(charsetName, "utf-8") {
		return string(raw), nil
	}

	enc, err := htmlindex.Get(charsetName)
	if err != nil {
		return "", werr.BadRequest(errors.WithStack(err), "unsupported charset "+charsetName)
	}

	decoded, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return "", werr.BadRequest(errors.WithStack(err), "undecodable form attribute")
	}

	return string(decoded), nil
}

func (d *Decoder) spillUpload(part *multipart.Part, fieldName string) (*FileUpload, *werr.Error) {
	f, err := os.CreateTemp(d.tmpDir, "webstone-upload-*")
	if err != nil {
		return nil, werr.InternalServer(errors.WithStack(err))
	}

	size, err := io.Copy(f, part)

	closeErr := f.Close()

	if err != nil || closeErr != nil {
		// Remove the partial spill right away
		_ = os.Remove(f.Name())

		if err == nil {
			err = closeErr
		}

		return nil, werr.BadRequest(errors.WithStack(err), "broken file upload")
	}

	return &FileUpload{
		FieldName:   fieldName,
		FileName:    part.FileName(),
		ContentType: part.Header.Get("Content-Type"),
		TempPath:    f.Name(),
		Size:        size,
	}, nil
}

func decodeURLEncoded(req *Request, hr *http.Request) *werr.Error {
	raw, err := io.ReadAll(io.LimitReader(hr.Body, MaxFormSize+1))
	if err != nil {
		return werr.BadRequest(errors.WithStack(err), "unreadable form body")
	}

	if len(raw) > MaxFormSize {
		return werr.BadRequest(nil, "form body too large")
	}

	values, err := url.ParseQuery(string(raw))
	if err != nil {
		return werr.BadRequest(errors.WithStack(err), "malformed form body")
	}

	for key := range values {
		req.Attributes[key] = values.Get(key)
	}

	return nil
}

func normalizePath(p string) (string, *werr.Error) {
	if p == "" {
		return "/", nil
	}

	if !strings.HasPrefix(p, "/") {
		return "", werr.BadRequest(nil, "malformed request path")
	}

	// Reject escapes above the root before cleaning: Clean silently swallows
	// leading ".." segments of a rooted path, so the walk must come first.
	depth := 0

	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "", ".":
		case "..":
			depth--
			if depth < 0 {
				return "", werr.BadRequest(nil, "malformed request path")
			}
		default:
			depth++
		}
	}

	// Clean collapses the remaining dot segments and strips the trailing
	// slash except for root; matching is done on the cleaned form.
	return path.Clean(p), nil
}

func keepAlive(hr *http.Request) bool {
	if hr.Close {
		return false
	}

	conn := strings.ToLower(hr.Header.Get("Connection"))
	if hr.ProtoMajor == 1 && hr.ProtoMinor == 0 {
		return strings.Contains(conn, "keep-alive")
	}

	return !strings.Contains(conn, "close")
}
