package cookie

import (
	"encoding/base64"
	"net/url"
	"strings"

	"emperror.dev/errors"
)

// Encoding is the cookie value encoding applied on the wire.
type Encoding int

const (
	// EncodingPlain stores the value escaped.
	EncodingPlain Encoding = iota
	// EncodingBase64 stores the value base64 encoded.
	EncodingBase64
	// EncodingEncrypted stores the value encrypted then base64 encoded.
	EncodingEncrypted
)

// Wire value prefixes distinguishing the encodings.
const (
	plainPrefix     = "p:"
	base64Prefix    = "b:"
	encryptedPrefix = "e:"
)

// MaxValueLength caps raw cookie values before encoding.
const MaxValueLength = 4000

// ErrNoCipher is returned when the encrypted encoding is requested without
// a configured encryption key.
var ErrNoCipher = errors.New("cookie encryption requested but no cipher configured")

// Codec encodes and decodes cookie values. The cipher is optional; without
// it only plain and base64 encodings are available.
type Codec struct {
	cipher *CipherService
}

func NewCodec(cipher *CipherService) *Codec {
	return &Codec{cipher: cipher}
}

// Encode validates the raw value then encodes it for the wire.
func (c *Codec) Encode(value string, enc Encoding) (string, error) {
	// Validate before any encoding happens
	err := validateValue(value)
	if err != nil {
		return "", err
	}

	switch enc {
	case EncodingBase64:
		return base64Prefix + base64.URLEncoding.EncodeToString([]byte(value)), nil
	case EncodingEncrypted:
		if c.cipher == nil {
			return "", ErrNoCipher
		}

		raw, err2 := c.cipher.Encrypt([]byte(value))
		if err2 != nil {
			return "", err2
		}

		return encryptedPrefix + base64.URLEncoding.EncodeToString(raw), nil
	default:
		return plainPrefix + url.QueryEscape(value), nil
	}
}

// Decode reverses Encode, selecting the decoding from the wire prefix.
// Values without a known prefix are passed through unescaped for
// compatibility with cookies this system didn't set.
func (c *Codec) Decode(wire string) (string, error) {
	switch {
	case strings.HasPrefix(wire, plainPrefix):
		res, err := url.QueryUnescape(strings.TrimPrefix(wire, plainPrefix))
		if err != nil {
			return "", errors.WithStack(err)
		}

		return res, nil
	case strings.HasPrefix(wire, base64Prefix):
		raw, err := base64.URLEncoding.DecodeString(strings.TrimPrefix(wire, base64Prefix))
		if err != nil {
			return "", errors.WithStack(err)
		}

		return string(raw), nil
	case strings.HasPrefix(wire, encryptedPrefix):
		if c.cipher == nil {
			return "", ErrNoCipher
		}

		raw, err := base64.URLEncoding.DecodeString(strings.TrimPrefix(wire, encryptedPrefix))
		if err != nil {
			return "", errors.WithStack(err)
		}

		data, err := c.cipher.Decrypt(raw)
		if err != nil {
			return "", err
		}

		return string(data), nil
	default:
		return wire, nil
	}
}

func validateValue(value string) error {
	// Check length cap
	if len(value) > MaxValueLength {
		return errors.Errorf("cookie value exceeds maximum length of %d bytes", MaxValueLength)
	}

	// Check restricted character set: printable ASCII without control
	// characters. Separators are handled by the escaping layer.
	for i := 0; i < len(value); i++ {
		ch := value[i]
		if ch < 0x20 || ch == 0x7f {
			return errors.Errorf("cookie value contains forbidden byte 0x%02x at position %d", ch, i)
		}
	}

	return nil
}
