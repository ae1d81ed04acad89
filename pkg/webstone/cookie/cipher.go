package cookie

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"io"
	"sync"

	"emperror.dev/errors"
)

// CipherService encrypts and decrypts cookie values with a symmetric key.
// Stream-cipher state isn't safe for concurrent invocation, so every
// operation is serialized behind a mutex. This is a correctness invariant,
// not a tuning knob.
type CipherService struct {
	mutex sync.Mutex
	block cipher.Block
}

// NewCipherService creates a cipher service from a 16, 24 or 32 byte key.
func NewCipherService(key []byte) (*CipherService, error) {
	// Create AES block cipher
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &CipherService{block: block}, nil
}

// Encrypt encrypts data with a fresh random IV prepended to the output.
func (s *CipherService) Encrypt(data []byte) ([]byte, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	// Generate random IV
	out := make([]byte, aes.BlockSize+len(data))
	iv := out[:aes.BlockSize]

	_, err := io.ReadFull(rand.Reader, iv)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// Encrypt in CTR mode
	stream := cipher.NewCTR(s.block, iv)
	stream.XORKeyStream(out[aes.BlockSize:], data)

	return out, nil
}

// Decrypt decrypts data produced by Encrypt.
func (s *CipherService) Decrypt(data []byte) ([]byte, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	// Check minimum length for IV
	if len(data) < aes.BlockSize {
		return nil, errors.New("encrypted cookie value too short")
	}

	iv := data[:aes.BlockSize]
	out := make([]byte, len(data)-aes.BlockSize)

	// Decrypt in CTR mode
	stream := cipher.NewCTR(s.block, iv)
	stream.XORKeyStream(out, data[aes.BlockSize:])

	return out, nil
}
